package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DirStore keeps each dataset as one JSON file named <id>.json inside
// a directory. It is the default backend for the CLI.
type DirStore struct {
	dir string
}

// NewDirStore creates a directory-backed store. An empty dir selects
// the platform data directory (~/.local/share/nbmap/datasets on Linux).
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		base, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(base, ".local", "share", "nbmap", "datasets")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating dataset directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Get retrieves a dataset by id.
func (s *DirStore) Get(ctx context.Context, id string) (*Dataset, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", id, err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding dataset %s: %w", id, err)
	}
	return &ds, nil
}

// Put stores a dataset. The file is written atomically via a temp file
// rename so a concurrent Get never sees a partial dataset.
func (s *DirStore) Put(ctx context.Context, ds *Dataset) error {
	if err := validateID(ds.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ds.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset %s: %w", ds.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("writing dataset %s: %w", ds.ID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing dataset %s: %w", ds.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing dataset %s: %w", ds.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(ds.ID)); err != nil {
		return fmt.Errorf("writing dataset %s: %w", ds.ID, err)
	}
	return nil
}

// Delete removes a dataset.
func (s *DirStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting dataset %s: %w", id, err)
	}
	return nil
}

// List returns metadata for all datasets ordered by name. Files that
// are not dataset JSON are skipped.
func (s *DirStore) List(ctx context.Context) ([]Dataset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}

	var out []Dataset
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if validateID(id) != nil {
			continue
		}
		ds, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, ds.Meta())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Close is a no-op for the directory backend.
func (s *DirStore) Close() error {
	return nil
}

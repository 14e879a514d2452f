// Package store persists named areal datasets.
//
// A dataset is the raw GeoJSON of a collection plus descriptive
// metadata (name, area and link counts, timestamps). Two backends
// implement the same interface: a directory store for single-machine
// use and a MongoDB store for the render server, where several
// instances share the catalog.
//
// # Usage
//
//	st, err := store.NewDirStore("")  // Uses ~/.local/share/nbmap/datasets/
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	ds := store.New("uk-constituencies", data)
//	ds.Areas = col.Len()
//	if err := st.Put(ctx, ds); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nbmap/nbmap/pkg/cache"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a requested dataset does not exist.
	ErrNotFound = errors.New("dataset not found")

	// ErrInvalidID is returned when an id is empty or not a UUID.
	ErrInvalidID = errors.New("invalid dataset id")
)

// Dataset is a stored areal dataset: the raw GeoJSON bytes plus
// metadata. The bson tags serve the MongoDB backend; the json tags
// serve the directory backend and API responses.
type Dataset struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Areas       int       `json:"areas" bson:"areas"`
	Links       int       `json:"links" bson:"links"`
	CRS         string    `json:"crs,omitempty" bson:"crs,omitempty"`
	ContentHash string    `json:"content_hash" bson:"content_hash"`
	Data        []byte    `json:"data,omitempty" bson:"data,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Meta returns a copy of the dataset without the GeoJSON payload,
// suitable for listings.
func (d *Dataset) Meta() Dataset {
	meta := *d
	meta.Data = nil
	return meta
}

// New creates a dataset with a fresh UUID, the content hash of data,
// and creation timestamps. Counts and CRS are left for the caller to
// fill from the decoded collection.
func New(name string, data []byte) *Dataset {
	now := time.Now().UTC()
	return &Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		ContentHash: cache.Hash(data),
		Data:        data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Store is the interface for dataset storage backends.
type Store interface {
	// Get retrieves a dataset by id, payload included.
	// Returns ErrNotFound when the dataset does not exist.
	Get(ctx context.Context, id string) (*Dataset, error)

	// Put stores a dataset, replacing any existing dataset with the
	// same id. UpdatedAt is set to the current time.
	Put(ctx context.Context, ds *Dataset) error

	// Delete removes a dataset. Deleting a missing dataset returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns metadata for all datasets, payloads omitted,
	// ordered by name.
	List(ctx context.Context) ([]Dataset, error)

	// Close releases backend resources.
	Close() error
}

// validateID rejects ids the backends should never touch the disk or
// network for.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

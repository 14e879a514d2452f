package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/store"
	"github.com/nbmap/nbmap/pkg/xerrors"
)

// newDatasetCmd creates the dataset command group for managing the
// local dataset library. Datasets are stored by UUID with their
// metadata; the server's Mongo-backed catalog exposes the same
// operations over HTTP.
func newDatasetCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage the stored dataset library",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "dataset directory (default: ~/.local/share/nbmap/datasets)")

	cmd.AddCommand(newDatasetAddCmd(&dir))
	cmd.AddCommand(newDatasetListCmd(&dir))
	cmd.AddCommand(newDatasetExportCmd(&dir))
	cmd.AddCommand(newDatasetRemoveCmd(&dir))

	return cmd
}

func openStore(dir string) (*store.DirStore, error) {
	st, err := store.NewDirStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open dataset library: %w", err)
	}
	return st, nil
}

func newDatasetAddCmd(dir *string) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Add an areal dataset to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasetAdd(cmd.Context(), *dir, args[0], name, description)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "dataset name (default: file name)")
	cmd.Flags().StringVar(&description, "description", "", "dataset description")
	return cmd
}

func runDatasetAdd(ctx context.Context, dir, input, name, description string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	col, err := areal.Decode(data)
	if err != nil {
		return err
	}

	if name == "" {
		base := filepath.Base(input)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := xerrors.ValidateDatasetName(name); err != nil {
		return err
	}
	ds := store.New(name, data)
	ds.Description = description
	ds.Areas = col.Len()
	ds.CRS = col.CRS()
	if rel, err := col.Neighbours(); err == nil {
		ds.Links = len(rel.Pairs())
	}

	st, err := openStore(dir)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Put(ctx, ds); err != nil {
		return err
	}

	printSuccess("Added %s (%d areas, %d links)", ds.Name, ds.Areas, ds.Links)
	printDetail("id: %s", ds.ID)
	return nil
}

func newDatasetListCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No datasets stored")
				return nil
			}
			for _, ds := range list {
				printKeyValue(ds.Name, fmt.Sprintf("%d areas, %d links", ds.Areas, ds.Links))
				printDetail("%s  updated %s", ds.ID, ds.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newDatasetExportCmd(dir *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a stored dataset back to a GeoJSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer st.Close()

			ds, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = ds.Name + ".geojson"
				if err := xerrors.ValidateFilename(path); err != nil {
					return err
				}
			}
			if err := os.WriteFile(path, ds.Data, 0o644); err != nil {
				return err
			}
			printSuccess("Exported %s", ds.Name)
			printFile(path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.geojson)")
	return cmd
}

func newDatasetRemoveCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove a dataset from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/nb"
	"github.com/nbmap/nbmap/pkg/nb/contig"
	"github.com/nbmap/nbmap/pkg/pipeline"
)

// neighboursOpts holds the command-line flags for the neighbours command.
type neighboursOpts struct {
	output     string  // output file path
	method     string  // neighbour method: "queen", "rook", "knn"
	k          int     // neighbour count for knn
	snap       float64 // boundary snap distance for contiguity
	symmetrize bool    // force a mutual relation
	matrix     bool    // record the relation in matrix form instead of list form
}

// newNeighboursCmd creates the neighbours command. It builds a
// neighbour relation from the collection's geometry and writes a copy
// of the input with the relation recorded in the 'nb' column, ready
// for render without recomputation.
func newNeighboursCmd() *cobra.Command {
	opts := neighboursOpts{method: pipeline.MethodQueen}

	cmd := &cobra.Command{
		Use:   "neighbours [file]",
		Short: "Build a neighbour relation and record it in the dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.method == pipeline.MethodColumn {
				return fmt.Errorf("invalid method: %q (the column method reads an existing relation; use queen, rook, or knn)", opts.method)
			}
			if err := pipeline.ValidateMethod(opts.method); err != nil {
				return err
			}
			return runNeighbours(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with _nb suffix)")
	cmd.Flags().StringVarP(&opts.method, "method", "m", opts.method, "neighbour method: queen (default), rook, knn")
	cmd.Flags().IntVar(&opts.k, "k", pipeline.DefaultK, "neighbour count for knn")
	cmd.Flags().Float64Var(&opts.snap, "snap", contig.DefaultSnap, "boundary snap distance for contiguity")
	cmd.Flags().BoolVar(&opts.symmetrize, "symmetrize", false, "force a mutual relation")
	cmd.Flags().BoolVar(&opts.matrix, "matrix", false, "record the relation as a binary matrix")

	return cmd
}

func runNeighbours(ctx context.Context, input string, opts *neighboursOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	col, err := areal.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d areas from %s", col.Len(), input)

	rel, err := buildContiguity(col, opts)
	if err != nil {
		return err
	}
	if opts.symmetrize && !rel.Symmetric() {
		rel = rel.Symmetrize()
	}
	prog.done(fmt.Sprintf("Resolved %d links with %s", len(rel.Pairs()), opts.method))

	if opts.matrix {
		// Matrix form requires mutual entries, so symmetrize first.
		rel, err = nb.FromMatrix(rel.Symmetrize().Matrix())
		if err != nil {
			return err
		}
	}
	if err := col.SetNeighbours(rel); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		ext := filepath.Ext(input)
		output = strings.TrimSuffix(input, ext) + "_nb" + ext
	}
	if err := col.WriteFile(output); err != nil {
		return err
	}

	printSuccess("Recorded %s neighbours for %d areas", opts.method, col.Len())
	printFile(output)
	printNextStep("Render the map", fmt.Sprintf("nbmap render %s", output))
	return nil
}

func buildContiguity(col *areal.Collection, opts *neighboursOpts) (*nb.Relation, error) {
	switch opts.method {
	case pipeline.MethodQueen:
		return contig.Queen(col, contig.Options{Snap: opts.snap})
	case pipeline.MethodRook:
		return contig.Rook(col, contig.Options{Snap: opts.snap})
	case pipeline.MethodKNN:
		return contig.KNearest(col, opts.k)
	default:
		return nil, pipeline.ValidateMethod(opts.method)
	}
}

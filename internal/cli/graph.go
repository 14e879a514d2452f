package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/render/nodelink"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file path
	format   string // output format: "dot", "svg", "png"
	layout   string // graphviz layout engine
	detailed bool   // include cardinality in node labels
}

// newGraphCmd creates the graph command. It exports the neighbour
// relation as a node-link diagram: DOT source, or SVG/PNG rendered
// through Graphviz.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: "dot", layout: nodelink.DefaultLayout}

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Export the neighbour relation as a node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "dot" && opts.format != "svg" && opts.format != "png" {
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", opts.format)
			}
			if !nodelink.ValidLayouts[opts.layout] {
				return fmt.Errorf("invalid layout: %q (must be a graphviz engine such as neato or dot)", opts.layout)
			}
			return runGraph(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg, png")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "graphviz engine: neato (default), dot, fdp, circo")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include cardinality in node labels")

	return cmd
}

func runGraph(ctx context.Context, input string, opts *graphOpts) error {
	logger := loggerFromContext(ctx)

	col, err := areal.ReadFile(input)
	if err != nil {
		return err
	}
	rel, err := col.Neighbours()
	if err != nil {
		return err
	}
	logger.Debugf("Relation: %d areas, %d links", rel.Len(), len(rel.Pairs()))

	dot := nodelink.ToDOT(col, rel, nodelink.Options{
		Detailed: opts.detailed,
		Layout:   opts.layout,
	})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = nodelink.RenderSVG(dot)
	case "png":
		data, err = nodelink.RenderPNG(dot)
	}
	if err != nil {
		return fmt.Errorf("graphviz render: %w", err)
	}

	if opts.output == "" && opts.format == "dot" {
		fmt.Print(dot)
		return nil
	}
	output := opts.output
	if output == "" {
		output = basePath("", input) + "_graph." + opts.format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Exported %s diagram", opts.format)
	printFile(output)
	return nil
}

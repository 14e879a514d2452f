package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nbmap/nbmap/pkg/cache"
	"github.com/nbmap/nbmap/pkg/pipeline"
	"github.com/nbmap/nbmap/pkg/render/mapview"
	"github.com/nbmap/nbmap/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
// These options control the neighbour method, map styling, and output formats.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "png", "dot", "geojson", "json"
	method     string   // neighbour method: "column", "queen", "rook", "knn"
	k          int      // neighbour count for knn
	snap       float64  // boundary snap distance for contiguity
	symmetrize bool     // force a mutual relation
	nodes      string   // node style: "point" or "numeric"
	width      int      // viewport width in pixels
	height     int      // viewport height in pixels
	title      string   // map title
	subtitle   string   // map subtitle
	hull       bool     // draw a concave hull around the collection
	ratio      float64  // concave hull ratio (0, 1]
	theme      string   // TOML theme file merged under explicit flags
	layout     string   // graphviz engine for the dot format
	detailed   bool     // detailed node labels in the dot format
	refresh    bool     // bypass cached stage results
	noCache    bool     // disable the cache entirely
}

// newRenderCmd creates the render command for composing neighbourhood maps.
// It reads an areal GeoJSON file, resolves the neighbour relation, and writes
// the requested formats next to the input (or to --output).
//
// Default settings:
//   - method: column (read the recorded 'nb' column)
//   - format: svg
//   - width: 800px, height: 600px
//   - nodes: point
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the neighbourhood map of an areal dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.nodes != "" {
				if err := mapview.ValidateNodes(opts.nodes); err != nil {
					return err
				}
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, geojson, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "neighbour method: column (default), queen, rook, knn")
	cmd.Flags().IntVar(&opts.k, "k", 0, "neighbour count for knn")
	cmd.Flags().Float64Var(&opts.snap, "snap", 0, "boundary snap distance for contiguity")
	cmd.Flags().BoolVar(&opts.symmetrize, "symmetrize", false, "force a mutual relation")
	cmd.Flags().StringVar(&opts.nodes, "nodes", "", "node style: point (default), numeric")
	cmd.Flags().IntVar(&opts.width, "width", 0, "frame width")
	cmd.Flags().IntVar(&opts.height, "height", 0, "frame height")
	cmd.Flags().StringVar(&opts.title, "title", "", "map title")
	cmd.Flags().StringVar(&opts.subtitle, "subtitle", "", "map subtitle")
	cmd.Flags().BoolVar(&opts.hull, "hull", false, "draw a concave hull around the collection")
	cmd.Flags().Float64Var(&opts.ratio, "ratio", 0, "concave hull ratio in (0, 1]")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "TOML theme file with map styling")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "graphviz engine for dot output: neato (default), dot, fdp, circo")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "detailed node labels in dot output")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results and overwrite them")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache entirely")

	_ = cmd.RegisterFlagCompletionFunc("format", completeSet(pipeline.ValidFormats))
	_ = cmd.RegisterFlagCompletionFunc("method", completeSet(pipeline.ValidMethods))
	_ = cmd.RegisterFlagCompletionFunc("nodes", completeSet(mapview.ValidNodes))
	_ = cmd.RegisterFlagCompletionFunc("layout", completeSet(nodelink.ValidLayouts))

	return cmd
}

// completeSet turns a valid-value set into a shell completion function.
func completeSet(set map[string]bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
// This is used when generating multiple files (e.g., map.svg, map.geojson).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// pipelineOptions translates the command flags into pipeline options,
// applying the theme file (if any) underneath the explicit flags.
func pipelineOptions(input string, opts *renderOpts) (pipeline.Options, error) {
	mapOpts := mapview.Options{
		Width:       opts.width,
		Height:      opts.height,
		Nodes:       opts.nodes,
		Title:       opts.title,
		Subtitle:    opts.subtitle,
		ConcaveHull: opts.hull,
		HullRatio:   opts.ratio,
	}
	if opts.theme != "" {
		theme, err := loadTheme(opts.theme)
		if err != nil {
			return pipeline.Options{}, err
		}
		mapOpts = theme.apply(mapOpts)
	}

	return pipeline.Options{
		Source:     input,
		Method:     opts.method,
		K:          opts.k,
		Snap:       opts.snap,
		Symmetrize: opts.symmetrize,
		Formats:    opts.formats,
		Map:        mapOpts,
		Layout:     opts.layout,
		Detailed:   opts.detailed,
		Refresh:    opts.refresh,
	}, nil
}

// newRunner builds a pipeline runner backed by the default cache
// directory, or by no cache at all with --no-cache.
func newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, logger), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	fileCache, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(fileCache, nil, logger), nil
}

// runRender loads the collection, runs the pipeline, and writes the
// requested artifacts to disk.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	pipeOpts, err := pipelineOptions(input, opts)
	if err != nil {
		return err
	}

	runner, err := newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", input))
	spinner.Start()

	result, err := runner.Execute(ctx, data, pipeOpts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", input))
	printStats(result.Stats.Areas, result.Stats.Links, result.CacheInfo.RenderHit)

	return writeArtifacts(input, opts, result.Artifacts)
}

// writeArtifacts writes each rendered format to its own file. A single
// format honors --output verbatim; multiple formats share a base path.
func writeArtifacts(input string, opts *renderOpts, artifacts map[string][]byte) error {
	if len(opts.formats) == 1 {
		format := opts.formats[0]
		path := opts.output
		if path == "" {
			path = basePath("", input) + "." + format
		}
		return writeArtifact(path, artifacts[format])
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		if err := writeArtifact(base+"."+format, artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// Package pipeline provides the core map-rendering pipeline for nbmap.
//
// This package implements the complete load → neighbours → compose →
// render pipeline used by both the CLI and the render server. By
// centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Decode and validate a GeoJSON collection of areal units
//  2. Neighbours: Extract the 'nb' column or build a relation from
//     geometry (queen/rook contiguity, k-nearest)
//  3. Compose: Derive connector geometry and compose the map layers
//  4. Render: Generate output in various formats (SVG, PNG, DOT,
//     GeoJSON, JSON)
//
// The neighbours and render stages are cached by content hash, so
// re-rendering the same dataset with the same options is cheap.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "counties.geojson",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, data, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nbmap/nbmap/pkg/cache"
	"github.com/nbmap/nbmap/pkg/nb/contig"
	"github.com/nbmap/nbmap/pkg/render/mapview"
	"github.com/nbmap/nbmap/pkg/render/nodelink"
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"     // composed map as SVG
	FormatPNG     = "png"     // composed map as PNG
	FormatDOT     = "dot"     // neighbour relation as Graphviz DOT
	FormatGeoJSON = "geojson" // connector layer as GeoJSON
	FormatJSON    = "json"    // relation statistics as JSON
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatDOT:     true,
	FormatGeoJSON: true,
	FormatJSON:    true,
}

// Method constants for obtaining the neighbour relation.
const (
	MethodColumn = "column" // read the 'nb' column
	MethodQueen  = "queen"  // queen contiguity from geometry
	MethodRook   = "rook"   // rook contiguity from geometry
	MethodKNN    = "knn"    // k-nearest by representative point
)

// ValidMethods is the set of supported neighbour methods.
var ValidMethods = map[string]bool{
	MethodColumn: true,
	MethodQueen:  true,
	MethodRook:   true,
	MethodKNN:    true,
}

// DefaultK is the default neighbour count for the knn method.
const DefaultK = 4

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source names the input for logs and error messages (a file path
	// or request id). It does not affect the output.
	Source string `json:"source,omitempty"`

	// Neighbour options
	Method     string  `json:"method,omitempty"`     // column (default), queen, rook, knn
	K          int     `json:"k,omitempty"`          // neighbour count for knn
	Snap       float64 `json:"snap,omitempty"`       // boundary snap distance for contiguity
	Symmetrize bool    `json:"symmetrize,omitempty"` // force a mutual relation (knn)

	// Render options
	Formats  []string        `json:"formats,omitempty"`
	Map      mapview.Options `json:"map,omitempty"`
	Layout   string          `json:"layout,omitempty"`   // graphviz engine for the dot format
	Detailed bool            `json:"detailed,omitempty"` // detailed node labels in the dot format

	// Refresh bypasses cached stage results and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, geojson, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMethod checks that a neighbour method is valid.
func ValidateMethod(method string) error {
	if !ValidMethods[method] {
		return fmt.Errorf("invalid method: %q (must be one of: column, queen, rook, knn)", method)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults
// for the full pipeline. This method is idempotent - calling it
// multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForNeighbours(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForNeighbours validates and sets defaults for the neighbour
// stage.
func (o *Options) ValidateForNeighbours() error {
	if o.Method == "" {
		o.Method = MethodColumn
	}
	if err := ValidateMethod(o.Method); err != nil {
		return err
	}
	if o.Method == MethodKNN && o.K == 0 {
		o.K = DefaultK
	}
	if o.Snap == 0 {
		o.Snap = contig.DefaultSnap
	}
	o.setLogger()
	return nil
}

// ValidateForRender validates and sets defaults for composition and
// rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Layout == "" {
		o.Layout = nodelink.DefaultLayout
	}
	if err := o.Map.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// RelationKeyOpts returns cache key options for the neighbour stage.
func (o *Options) RelationKeyOpts() cache.RelationKeyOpts {
	opts := cache.RelationKeyOpts{Method: o.Method}
	switch o.Method {
	case MethodKNN:
		opts.K = o.K
	case MethodQueen, MethodRook:
		opts.Snap = o.Snap
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for a rendered artifact.
// The full option set feeds the key hash, so any styling change misses
// the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Options: map[string]any{
			"method":     o.Method,
			"k":          o.K,
			"snap":       o.Snap,
			"symmetrize": o.Symmetrize,
			"layout":     o.Layout,
			"detailed":   o.Detailed,
			"map":        o.Map,
		},
	}
}

package mapview

import (
	"fmt"
	"math"
)

// Node rendering modes.
const (
	// NodesPoint draws a marker at every connector endpoint.
	NodesPoint = "point"
	// NodesNumeric replaces markers with 1-based row labels at the true
	// centroids.
	NodesNumeric = "numeric"
)

// ValidNodes enumerates the recognized node rendering modes.
var ValidNodes = map[string]bool{
	NodesPoint:   true,
	NodesNumeric: true,
}

// Default rendering options.
const (
	DefaultWidth  = 800
	DefaultHeight = 600

	DefaultFillColor   = "#f2f2ef"
	DefaultBorderColor = "#8c8c8c"
	DefaultBorderWidth = 1.0

	DefaultLinkColor = "#d62728"
	DefaultLinkWidth = 1.0

	DefaultPointColor = "#222222"
	DefaultPointSize  = 3.0
	DefaultLabelColor = "#222222"
	DefaultLabelSize  = 12.0

	DefaultHullColor = "#2c7fb8"
	DefaultHullWidth = 1.5
)

// Options controls map composition and styling. The zero value renders
// with defaults; unknown Nodes values fall back to point markers rather
// than failing, so the mode can be threaded through loosely typed
// configuration.
//
// HullRatio is not defaulted: 0 digs maximally and 1 reproduces the
// convex hull, and both are meaningful inputs.
type Options struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	FillColor   string  `json:"fill_color,omitempty"`
	BorderColor string  `json:"border_color,omitempty"`
	BorderWidth float64 `json:"border_width,omitempty"`

	LinkColor string  `json:"link_color,omitempty"`
	LinkWidth float64 `json:"link_width,omitempty"`

	Nodes      string  `json:"nodes,omitempty"`
	PointColor string  `json:"point_color,omitempty"`
	PointSize  float64 `json:"point_size,omitempty"`
	LabelColor string  `json:"label_color,omitempty"`
	LabelSize  float64 `json:"label_size,omitempty"`

	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`

	ConcaveHull bool    `json:"concave_hull,omitempty"`
	HullRatio   float64 `json:"hull_ratio,omitempty"`
	HullColor   string  `json:"hull_color,omitempty"`
	HullWidth   float64 `json:"hull_width,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults for
// unset fields. Colors pass through as written (hex strings render on
// every sink; named colors only in SVG). It is safe to call multiple
// times; validation only runs once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.FillColor == "" {
		o.FillColor = DefaultFillColor
	}
	if o.BorderColor == "" {
		o.BorderColor = DefaultBorderColor
	}
	if o.BorderWidth == 0 {
		o.BorderWidth = DefaultBorderWidth
	}
	if o.LinkColor == "" {
		o.LinkColor = DefaultLinkColor
	}
	if o.LinkWidth == 0 {
		o.LinkWidth = DefaultLinkWidth
	}
	if o.Nodes == "" {
		o.Nodes = NodesPoint
	}
	if o.PointColor == "" {
		o.PointColor = DefaultPointColor
	}
	if o.PointSize == 0 {
		o.PointSize = DefaultPointSize
	}
	if o.LabelColor == "" {
		o.LabelColor = DefaultLabelColor
	}
	if o.LabelSize == 0 {
		o.LabelSize = DefaultLabelSize
	}
	if o.HullColor == "" {
		o.HullColor = DefaultHullColor
	}
	if o.HullWidth == 0 {
		o.HullWidth = DefaultHullWidth
	}

	for name, v := range map[string]float64{
		"border_width": o.BorderWidth,
		"link_width":   o.LinkWidth,
		"point_size":   o.PointSize,
		"label_size":   o.LabelSize,
		"hull_width":   o.HullWidth,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid %s: %v (must be non-negative)", name, v)
		}
	}
	if math.IsNaN(o.HullRatio) || o.HullRatio < 0 || o.HullRatio > 1 {
		return fmt.Errorf("invalid hull_ratio: %v (must be between 0 and 1)", o.HullRatio)
	}

	o.validated = true
	return nil
}

// ValidateNodes rejects node modes outside [ValidNodes]. The compose
// path itself is permissive; strict surfaces (flags, API parameters)
// call this before handing options down.
func ValidateNodes(mode string) error {
	if !ValidNodes[mode] {
		return fmt.Errorf("invalid nodes mode: %q (must be one of: point, numeric)", mode)
	}
	return nil
}

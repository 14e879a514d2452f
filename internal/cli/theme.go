package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nbmap/nbmap/pkg/render/mapview"
)

// theme is the TOML shape of a map styling file. Every field is
// optional; set fields fill map options the user left at their zero
// value, so explicit flags always win.
//
// Example theme file:
//
//	width = 1200
//	height = 900
//	fill_color = "#f5f0e8"
//	border_color = "#8a817c"
//	link_color = "#bc4749"
//	nodes = "numeric"
type theme struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	FillColor   string  `toml:"fill_color"`
	BorderColor string  `toml:"border_color"`
	BorderWidth float64 `toml:"border_width"`
	LinkColor   string  `toml:"link_color"`
	LinkWidth   float64 `toml:"link_width"`
	Nodes       string  `toml:"nodes"`
	PointColor  string  `toml:"point_color"`
	PointSize   float64 `toml:"point_size"`
	LabelColor  string  `toml:"label_color"`
	LabelSize   float64 `toml:"label_size"`
	HullColor   string  `toml:"hull_color"`
	HullWidth   float64 `toml:"hull_width"`
}

// loadTheme reads and parses a TOML theme file.
func loadTheme(path string) (*theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var t theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if t.Nodes != "" {
		if err := mapview.ValidateNodes(t.Nodes); err != nil {
			return nil, fmt.Errorf("theme %s: %w", path, err)
		}
	}
	return &t, nil
}

// apply merges the theme into opts, filling only fields still at their
// zero value.
func (t *theme) apply(opts mapview.Options) mapview.Options {
	if opts.Width == 0 {
		opts.Width = t.Width
	}
	if opts.Height == 0 {
		opts.Height = t.Height
	}
	if opts.FillColor == "" {
		opts.FillColor = t.FillColor
	}
	if opts.BorderColor == "" {
		opts.BorderColor = t.BorderColor
	}
	if opts.BorderWidth == 0 {
		opts.BorderWidth = t.BorderWidth
	}
	if opts.LinkColor == "" {
		opts.LinkColor = t.LinkColor
	}
	if opts.LinkWidth == 0 {
		opts.LinkWidth = t.LinkWidth
	}
	if opts.Nodes == "" {
		opts.Nodes = t.Nodes
	}
	if opts.PointColor == "" {
		opts.PointColor = t.PointColor
	}
	if opts.PointSize == 0 {
		opts.PointSize = t.PointSize
	}
	if opts.LabelColor == "" {
		opts.LabelColor = t.LabelColor
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = t.LabelSize
	}
	if opts.HullColor == "" {
		opts.HullColor = t.HullColor
	}
	if opts.HullWidth == 0 {
		opts.HullWidth = t.HullWidth
	}
	return opts
}

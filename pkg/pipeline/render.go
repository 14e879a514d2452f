package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/nbmap/nbmap/pkg/render/nodelink"
)

// renderFormats produces every requested artifact from a completed
// compose stage. Formats fan out from the same composed state, so one
// run can emit the map, the topology diagram source, and the data
// exports together.
func renderFormats(result *Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(result, format, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(result *Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return result.Map.SVG(), nil

	case FormatPNG:
		return result.Map.PNG()

	case FormatDOT:
		dot := nodelink.ToDOT(result.Collection, result.Relation, nodelink.Options{
			Detailed: opts.Detailed,
			Layout:   opts.Layout,
		})
		return []byte(dot), nil

	case FormatGeoJSON:
		return marshalIndent(result.Links.FeatureCollection())

	case FormatJSON:
		return marshalIndent(result.Relation.Stats())

	default:
		return nil, ValidateFormat(format)
	}
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

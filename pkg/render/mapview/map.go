package mapview

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/hull"
	"github.com/nbmap/nbmap/pkg/links"
)

// Map is a composed neighbourhood map, ready to render. The zero value
// is not usable - use [Compose].
type Map struct {
	width  int
	height int
	crs    string
	vp     Viewport
	layers []Layer
}

// Compose lays out a map of the collection and its connector set.
// Layers stack back to front: areas, links, then endpoint markers or
// numeric labels depending on Options.Nodes, the hull outline when
// Options.ConcaveHull is set, and finally the heading band. A nil or
// empty set simply leaves out the link and marker layers.
//
// Composition is deterministic: the same inputs produce the same
// layers in the same order, and [Map.SVG] output is byte-identical
// across calls.
func Compose(col *areal.Collection, set *links.Set, opts Options) (*Map, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if col == nil {
		return nil, fmt.Errorf("no collection provided")
	}

	geoms := make([]orb.Geometry, col.Len())
	for i := range geoms {
		geoms[i] = col.Geometry(i)
	}
	layers := []Layer{&areaLayer{
		geoms:  geoms,
		fill:   opts.FillColor,
		stroke: opts.BorderColor,
		width:  opts.BorderWidth,
	}}

	hasLinks := set != nil && set.Len() > 0
	if hasLinks {
		layers = append(layers, &linkLayer{
			lines: set.Lines(),
			color: opts.LinkColor,
			width: opts.LinkWidth,
		})
	}

	if opts.Nodes == NodesNumeric {
		pts := make([]orb.Point, col.Len())
		texts := make([]string, col.Len())
		for i := range pts {
			pts[i] = col.Centroid(i)
			texts[i] = strconv.Itoa(i + 1)
		}
		layers = append(layers, &labelLayer{
			pts:   pts,
			texts: texts,
			color: opts.LabelColor,
			size:  opts.LabelSize,
		})
	} else if hasLinks {
		layers = append(layers, &pointLayer{
			pts:   set.Endpoints(),
			color: opts.PointColor,
			size:  opts.PointSize,
		})
	}

	if opts.ConcaveHull {
		ring, err := hull.Concave(col.Vertices(), opts.HullRatio)
		if err != nil {
			return nil, fmt.Errorf("concave hull: %w", err)
		}
		layers = append(layers, &hullLayer{
			ring:  ring,
			color: opts.HullColor,
			width: opts.HullWidth,
		})
	}

	withTitle := opts.Title != "" || opts.Subtitle != ""
	if withTitle {
		layers = append(layers, &titleLayer{
			title:    opts.Title,
			subtitle: opts.Subtitle,
			width:    opts.Width,
		})
	}

	return &Map{
		width:  opts.Width,
		height: opts.Height,
		crs:    col.CRS(),
		vp:     fitViewport(col.Bound(), opts.Width, opts.Height, withTitle, areal.Geographic(col.CRS())),
		layers: layers,
	}, nil
}

// Width returns the canvas width in pixels.
func (m *Map) Width() int { return m.width }

// Height returns the canvas height in pixels.
func (m *Map) Height() int { return m.height }

// CRS returns the coordinate reference system of the source data.
func (m *Map) CRS() string { return m.crs }

// Viewport returns the world-to-canvas transform used by the layers.
func (m *Map) Viewport() Viewport { return m.vp }

// LayerNames lists the composed layers back to front.
func (m *Map) LayerNames() []string {
	names := make([]string, len(m.layers))
	for i, l := range m.layers {
		names[i] = l.Name()
	}
	return names
}

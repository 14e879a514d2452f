package mapview

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/nbmap/nbmap/pkg/fonts"
)

// Layer is one drawable band of the map. Layers render back to front
// in the order they are composed, onto either the SVG buffer or a
// raster context.
type Layer interface {
	// Name identifies the layer in the composed output ("areas",
	// "links", ...).
	Name() string

	// SVG appends the layer's markup to buf.
	SVG(buf *bytes.Buffer, vp Viewport)

	// PNG draws the layer onto the raster context.
	PNG(dc *gg.Context, vp Viewport) error
}

// areaLayer draws the areal geometries: filled, stroked polygons, and
// small markers for point geometries.
type areaLayer struct {
	geoms  []orb.Geometry
	fill   string
	stroke string
	width  float64
}

const areaMarkerRadius = 3.0

func (l *areaLayer) Name() string { return "areas" }

func (l *areaLayer) SVG(buf *bytes.Buffer, vp Viewport) {
	buf.WriteString(`<g class="areas">` + "\n")
	for _, g := range l.geoms {
		rings := polygonRings(g)
		if len(rings) > 0 {
			buf.WriteString(`<path d="`)
			writeRingPath(buf, rings, vp)
			fmt.Fprintf(buf, `" fill="%s" fill-rule="evenodd" stroke="%s" stroke-width="%s"/>`+"\n",
				l.fill, l.stroke, ftoa(l.width))
			continue
		}
		for _, p := range pointCoords(g) {
			x, y := vp.Project(p)
			fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
				coord(x), coord(y), ftoa(areaMarkerRadius), l.fill, l.stroke, ftoa(l.width))
		}
	}
	buf.WriteString("</g>\n")
}

func (l *areaLayer) PNG(dc *gg.Context, vp Viewport) error {
	dc.SetFillRule(gg.FillRuleEvenOdd)
	for _, g := range l.geoms {
		rings := polygonRings(g)
		if len(rings) > 0 {
			for _, ring := range rings {
				tracePath(dc, ring, vp)
			}
			dc.SetHexColor(l.fill)
			dc.FillPreserve()
			dc.SetHexColor(l.stroke)
			dc.SetLineWidth(l.width)
			dc.Stroke()
			continue
		}
		for _, p := range pointCoords(g) {
			x, y := vp.Project(p)
			dc.DrawCircle(x, y, areaMarkerRadius)
			dc.SetHexColor(l.fill)
			dc.FillPreserve()
			dc.SetHexColor(l.stroke)
			dc.SetLineWidth(l.width)
			dc.Stroke()
		}
	}
	return nil
}

// linkLayer draws one straight segment per neighbour pair.
type linkLayer struct {
	lines []orb.LineString
	color string
	width float64
}

func (l *linkLayer) Name() string { return "links" }

func (l *linkLayer) SVG(buf *bytes.Buffer, vp Viewport) {
	buf.WriteString(`<g class="links">` + "\n")
	for _, line := range l.lines {
		if len(line) < 2 {
			continue
		}
		x1, y1 := vp.Project(line[0])
		x2, y2 := vp.Project(line[len(line)-1])
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`+"\n",
			coord(x1), coord(y1), coord(x2), coord(y2), l.color, ftoa(l.width))
	}
	buf.WriteString("</g>\n")
}

func (l *linkLayer) PNG(dc *gg.Context, vp Viewport) error {
	dc.SetHexColor(l.color)
	dc.SetLineWidth(l.width)
	for _, line := range l.lines {
		if len(line) < 2 {
			continue
		}
		x1, y1 := vp.Project(line[0])
		x2, y2 := vp.Project(line[len(line)-1])
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
	return nil
}

// pointLayer marks connector endpoints.
type pointLayer struct {
	pts   []orb.Point
	color string
	size  float64
}

func (l *pointLayer) Name() string { return "points" }

func (l *pointLayer) SVG(buf *bytes.Buffer, vp Viewport) {
	buf.WriteString(`<g class="points">` + "\n")
	for _, p := range l.pts {
		x, y := vp.Project(p)
		fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
			coord(x), coord(y), ftoa(l.size), l.color)
	}
	buf.WriteString("</g>\n")
}

func (l *pointLayer) PNG(dc *gg.Context, vp Viewport) error {
	dc.SetHexColor(l.color)
	for _, p := range l.pts {
		x, y := vp.Project(p)
		dc.DrawCircle(x, y, l.size)
		dc.Fill()
	}
	return nil
}

// labelLayer writes one text per area at its centroid.
type labelLayer struct {
	pts   []orb.Point
	texts []string
	color string
	size  float64
}

func (l *labelLayer) Name() string { return "labels" }

func (l *labelLayer) SVG(buf *bytes.Buffer, vp Viewport) {
	buf.WriteString(`<g class="labels">` + "\n")
	for i, p := range l.pts {
		x, y := vp.Project(p)
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			coord(x), coord(y), fonts.FontFamily, ftoa(l.size), l.color, xmlEscape(l.texts[i]))
	}
	buf.WriteString("</g>\n")
}

func (l *labelLayer) PNG(dc *gg.Context, vp Viewport) error {
	face, err := fonts.Regular(l.size)
	if err != nil {
		return fmt.Errorf("label font: %w", err)
	}
	dc.SetFontFace(face)
	dc.SetHexColor(l.color)
	for i, p := range l.pts {
		x, y := vp.Project(p)
		dc.DrawStringAnchored(l.texts[i], x, y, 0.5, 0.5)
	}
	return nil
}

// hullLayer outlines the point cloud with a single closed ring.
type hullLayer struct {
	ring  orb.Ring
	color string
	width float64
}

func (l *hullLayer) Name() string { return "hull" }

func (l *hullLayer) SVG(buf *bytes.Buffer, vp Viewport) {
	buf.WriteString(`<g class="hull">` + "\n")
	buf.WriteString(`<path d="`)
	writeRingPath(buf, []orb.Ring{l.ring}, vp)
	fmt.Fprintf(buf, `" fill="none" stroke="%s" stroke-width="%s" stroke-linejoin="round"/>`+"\n",
		l.color, ftoa(l.width))
	buf.WriteString("</g>\n")
}

func (l *hullLayer) PNG(dc *gg.Context, vp Viewport) error {
	tracePath(dc, l.ring, vp)
	dc.SetHexColor(l.color)
	dc.SetLineWidth(l.width)
	dc.Stroke()
	return nil
}

// titleLayer draws the heading band in canvas coordinates.
type titleLayer struct {
	title    string
	subtitle string
	width    int
}

const (
	titleSize     = 18.0
	subtitleSize  = 13.0
	titleColor    = "#1a1a1a"
	subtitleColor = "#666666"
	titleY        = 28.0
	subtitleY     = 48.0
)

func (l *titleLayer) Name() string { return "title" }

func (l *titleLayer) SVG(buf *bytes.Buffer, vp Viewport) {
	buf.WriteString(`<g class="title">` + "\n")
	cx := float64(l.width) / 2
	if l.title != "" {
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" font-family="%s" font-size="%s" font-weight="bold" fill="%s">%s</text>`+"\n",
			coord(cx), coord(titleY), fonts.FontFamily, ftoa(titleSize), titleColor, xmlEscape(l.title))
	}
	if l.subtitle != "" {
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" font-family="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			coord(cx), coord(subtitleY), fonts.FontFamily, ftoa(subtitleSize), subtitleColor, xmlEscape(l.subtitle))
	}
	buf.WriteString("</g>\n")
}

func (l *titleLayer) PNG(dc *gg.Context, vp Viewport) error {
	cx := float64(l.width) / 2
	if l.title != "" {
		face, err := fonts.Bold(titleSize)
		if err != nil {
			return fmt.Errorf("title font: %w", err)
		}
		dc.SetFontFace(face)
		dc.SetHexColor(titleColor)
		dc.DrawStringAnchored(l.title, cx, titleY, 0.5, 0.5)
	}
	if l.subtitle != "" {
		face, err := fonts.Regular(subtitleSize)
		if err != nil {
			return fmt.Errorf("subtitle font: %w", err)
		}
		dc.SetFontFace(face)
		dc.SetHexColor(subtitleColor)
		dc.DrawStringAnchored(l.subtitle, cx, subtitleY, 0.5, 0.5)
	}
	return nil
}

// polygonRings flattens the polygonal rings of a geometry. Non-areal
// geometries yield nil.
func polygonRings(g orb.Geometry) []orb.Ring {
	switch v := g.(type) {
	case orb.Polygon:
		return v
	case orb.MultiPolygon:
		var rings []orb.Ring
		for _, poly := range v {
			rings = append(rings, poly...)
		}
		return rings
	default:
		return nil
	}
}

// pointCoords flattens point geometries; areal geometries yield nil.
func pointCoords(g orb.Geometry) []orb.Point {
	switch v := g.(type) {
	case orb.Point:
		return []orb.Point{v}
	case orb.MultiPoint:
		return v
	default:
		return nil
	}
}

// tracePath adds a closed ring to the current raster path.
func tracePath(dc *gg.Context, ring orb.Ring, vp Viewport) {
	if len(ring) == 0 {
		return
	}
	x, y := vp.Project(ring[0])
	dc.MoveTo(x, y)
	for _, p := range ring[1:] {
		x, y = vp.Project(p)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
}

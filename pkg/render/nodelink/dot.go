package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/nb"
)

// Layout engines the generated DOT may request.
var ValidLayouts = map[string]bool{
	"dot":   true,
	"neato": true,
	"fdp":   true,
	"sfdp":  true,
	"circo": true,
	"twopi": true,
}

// DefaultLayout suits the roughly planar structure of contiguity
// graphs.
const DefaultLayout = "neato"

// Options configures node-link diagram generation.
type Options struct {
	// Detailed includes row numbers and neighbour counts in node
	// labels. When false, only the area's name (or 1-based index) is
	// shown.
	Detailed bool

	// Layout selects the Graphviz layout engine, written into the DOT
	// source as a graph attribute. Empty means [DefaultLayout]; values
	// outside [ValidLayouts] fall back to it as well.
	Layout string
}

// ToDOT converts a neighbour relation to Graphviz DOT format for
// node-link visualization. The graph is undirected: one node per area,
// one edge per unordered neighbour pair. The resulting DOT string can
// be rendered with [RenderSVG] or [RenderPNG], or fed to external
// Graphviz tools.
func ToDOT(col *areal.Collection, rel *nb.Relation, opts Options) string {
	layout := opts.Layout
	if !ValidLayouts[layout] {
		layout = DefaultLayout
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", layout)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for i := 0; i < rel.Len(); i++ {
		fmt.Fprintf(&buf, "  %d [label=%q];\n", i+1, nodeLabel(col, rel, i, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, pair := range rel.Pairs() {
		fmt.Fprintf(&buf, "  %d -- %d;\n", pair[0]+1, pair[1]+1)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeLabel names a node after the area's "name" property, falling
// back to its 1-based row index.
func nodeLabel(col *areal.Collection, rel *nb.Relation, i int, detailed bool) string {
	label := ""
	if col != nil {
		label = col.Name(i)
	}
	if label == "" {
		label = strconv.Itoa(i + 1)
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nrow: %d\nneighbours: %d", label, i+1, rel.Card(i))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if format == graphviz.SVG {
		out = normalizeViewBox(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the document is
// anchored at the origin and sized in plain pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

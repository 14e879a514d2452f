// Package nodelink renders neighbour relations as abstract node-link
// diagrams.
//
// # Overview
//
// This package produces undirected graph visualizations using
// Graphviz: one node per area, one edge per neighbour pair. It is an
// alternative to the geographic map view for inspecting topology apart
// from geography, where clusters and articulation points stand out.
//
// # Usage
//
// Convert a relation to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(col, rel, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: when true, node labels include row numbers and
//     neighbour counts
//   - Layout: the Graphviz layout engine (neato by default)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Nodes are labelled by the area's "name" property when present, else
// the 1-based row index.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no external Graphviz installation is needed.
package nodelink

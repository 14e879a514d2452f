// Package render groups the visualization sinks for neighbourhood
// structures.
//
// # Overview
//
// Two complementary views of the same relation live here:
//
//   - [mapview]: the geographic view. Polygons, connector segments,
//     node markers or numeric labels, and an optional concave hull,
//     composed into layers and rendered as SVG or PNG.
//   - [nodelink]: the abstract view. One node per area, one edge per
//     neighbour pair, laid out by Graphviz apart from geography.
//
// # Usage
//
//	m, err := mapview.Compose(col, set, mapview.Options{})
//	svg := m.SVG()
//
//	dot := nodelink.ToDOT(col, rel, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [mapview]: github.com/nbmap/nbmap/pkg/render/mapview
// [nodelink]: github.com/nbmap/nbmap/pkg/render/nodelink
package render

// Package mapview composes neighbourhood maps from areal collections
// and connector sets, and renders them to SVG or PNG.
//
// # Overview
//
// A map is a stack of layers drawn back to front: the areal geometries
// (fill and border), one straight connector per neighbour pair, then
// either endpoint markers or 1-based numeric labels at the true
// centroids, an optional concave hull outline around all vertices, and
// an optional heading band. [Compose] assembles the stack; the
// returned [Map] renders any number of times without recomputation.
//
// # Basic Usage
//
//	col, err := areal.ReadFile("counties.geojson")
//	if err != nil {
//		log.Fatal(err)
//	}
//	rel, err := col.Neighbours()
//	if err != nil {
//		log.Fatal(err)
//	}
//	set, err := links.Build(col, rel)
//	if err != nil {
//		log.Fatal(err)
//	}
//	m, err := mapview.Compose(col, set, mapview.Options{Nodes: mapview.NodesNumeric})
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("counties.svg", m.SVG(), 0o644)
//
// # Layers
//
// Options.Nodes selects the third layer: "numeric" draws row labels,
// anything else draws point markers at the connector endpoints.
// Options.ConcaveHull adds the outline layer; its concavity is
// steered by Options.HullRatio, where 1 is the convex hull and 0 digs
// as deep as the triangulation allows.
//
// # Rendering
//
// [Map.SVG] is deterministic: the same composition yields the same
// bytes, making outputs safe to cache and diff. [Map.PNG] rasterizes
// the same layers with the bundled fonts.
package mapview

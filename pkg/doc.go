// Package pkg provides the core libraries for nbmap neighbourhood
// visualization.
//
// # Overview
//
// nbmap draws the neighbourhood structure of areal datasets: which
// areas count as neighbours of which, plotted over the polygons
// themselves or as an abstract topology diagram. The pkg directory is
// organized into four main areas:
//
//  1. Domain logic (neighbour relations, areal collections, connector
//     geometry, hulls)
//  2. Rendering (map composition, SVG/PNG sinks, node-link diagrams)
//  3. Infrastructure (caching, dataset storage, observability)
//  4. Orchestration (the load → neighbours → compose → render pipeline)
//
// # Architecture
//
// The typical data flow through nbmap:
//
//	GeoJSON collection
//	         ↓
//	    [areal] package (decode + validate areal units)
//	         ↓
//	    [nb] package (neighbour relation: recorded column or contiguity)
//	         ↓
//	    [links] package (connector geometry between neighbours)
//	         ↓
//	    [render/mapview] package (compose layers, render)
//	         ↓
//	    SVG/PNG/DOT/GeoJSON/JSON output
//
// # Quick Start
//
// Render a map from a collection with a recorded 'nb' column:
//
//	import (
//	    "os"
//
//	    "github.com/nbmap/nbmap/pkg/areal"
//	    "github.com/nbmap/nbmap/pkg/quickmap"
//	    "github.com/nbmap/nbmap/pkg/render/mapview"
//	)
//
//	col, _ := areal.ReadFile("counties.geojson")
//	m, _ := quickmap.Compose(col, mapview.Options{Title: "Counties"})
//	os.WriteFile("counties.svg", m.SVG(), 0o644)
//
// # Main Packages
//
// [nb] - Neighbour relations in list and matrix form, with validation,
// symmetry checks, and cardinality statistics. [nb/contig] builds
// relations from geometry (queen/rook contiguity, k-nearest).
//
// [areal] - GeoJSON collections of areal units: decoding, the 'nb'
// column, centroids and representative points.
//
// [links] - Connector segments between neighbouring areas, exportable
// as a GeoJSON layer.
//
// [hull] - Convex and concave hulls around the collection's vertices.
//
// [render/mapview] - Map composition and SVG/PNG rendering.
// [render/nodelink] - Abstract topology diagrams via Graphviz.
//
// [quickmap] - The one-call convenience wrapper: validate, read the
// relation, build connectors, compose.
//
// [pipeline] - The complete load → neighbours → compose → render
// pipeline with caching, used by the CLI and the render server.
//
// [cache] - File, Redis, and no-op cache backends keyed by content
// hash. [store] - Named dataset storage (directory or MongoDB).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/nb/...       # Specific package
//	go test -run Example       # Examples only
//
// [nb]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/nb
// [nb/contig]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/nb/contig
// [areal]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/areal
// [links]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/links
// [hull]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/hull
// [render/mapview]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/render/mapview
// [render/nodelink]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/render/nodelink
// [quickmap]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/quickmap
// [pipeline]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/cache
// [store]: https://pkg.go.dev/github.com/nbmap/nbmap/pkg/store
package pkg

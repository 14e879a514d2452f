// Package areal wraps GeoJSON feature collections of areal units.
//
// # Overview
//
// An areal collection is an ordered set of spatial features (polygons,
// or points standing in for them) whose row order is meaningful: the
// neighbour relation in the "nb" column, connector geometry and numeric
// labels all refer to areas by row position. The package validates
// incoming collections, extracts and normalizes the neighbour column,
// and derives the per-area points that connector lines and labels
// attach to.
//
// Geometry is represented with github.com/paulmach/orb; files are plain
// GeoJSON feature collections.
//
// # The nb Column
//
// Every feature carries an "nb" property holding a JSON array: either
// the 1-based indices of the area's neighbours (a single 0 for an area
// without any) or a full 0/1 adjacency matrix row. [Collection.Neighbours]
// detects the form at runtime and returns a normalized [nb.Relation].
//
// # Reference Points
//
// Two per-area points are derived:
//
//   - [Collection.RepresentativePoint]: the planar centroid, nudged to a
//     point inside the geometry when the centroid falls outside (bent or
//     ring-shaped areas). Connector lines span these.
//   - [Collection.Centroid]: the true planar centroid, used for label
//     placement.
//
// # Validation
//
// Three conditions gate all downstream work, each with its own sentinel
// error: the input must be a simple features collection of areal
// geometry ([ErrNotSimpleFeatures]), it must carry the "nb" column
// ([ErrNoNeighbourColumn]), and the column must parse as a neighbours
// list or matrix ([ErrBadNeighbourColumn]).
package areal

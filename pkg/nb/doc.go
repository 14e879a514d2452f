// Package nb provides neighbour relations between areal units.
//
// # Overview
//
// A neighbour relation records which areas of a spatial collection are
// adjacent to which. Two interchangeable forms exist in the wild: a
// list-of-neighbours (per area, the indices of its neighbours) and a
// square binary adjacency matrix. This package accepts both, normalizes
// them to a single internal representation, and remembers which form the
// relation was built from.
//
// All derived geometry is computed from the normalized form, so list and
// matrix input describing the same adjacency produce identical results
// downstream.
//
// # Basic Usage
//
// Build a relation with [FromList] or [FromMatrix]:
//
//	r, _ := nb.FromList(nb.List{{1}, {0, 2}, {1}})
//	r.Neighbours(1)  // [0 2]
//	r.Pairs()        // [{0 1} {1 2}]
//
// Raw rows read from a data file go through [FromRows], which detects the
// form at runtime: rows are an adjacency matrix exactly when every row
// has length n with all entries 0 or 1 and a zero diagonal; anything else
// is read as 1-based neighbour index lists.
//
// # Indexing
//
// The Go API is 0-based throughout. Only the external row form uses
// 1-based area numbers ([FromRows] input and [Relation.Rows] output),
// matching the convention neighbour columns are written in. A single 0
// in a list row encodes an area without neighbours.
//
// # Concurrency
//
// Relations are immutable after construction and safe for concurrent
// reads.
package nb

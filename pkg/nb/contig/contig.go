// Package contig builds neighbour relations from geometry.
//
// Contiguity follows the shared-boundary-point criterion: two areas
// are queen neighbours when their boundaries share at least one point,
// and rook neighbours when they share at least two (an edge segment).
// Points count as shared when they fall within the snap distance of
// each other. An R-tree prunes candidate pairs by bounding box, so
// large collections stay far from the quadratic worst case.
//
// [KNearest] links areas by distance between representative points
// instead; the result is generally asymmetric.
package contig

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/nb"
)

// DefaultSnap is the distance within which two boundary points count
// as the same point.
const DefaultSnap = 1e-8

// Options configures contiguity detection.
type Options struct {
	// Snap is the boundary point matching distance. Zero means
	// [DefaultSnap].
	Snap float64
}

// Queen returns the queen contiguity relation: areas are neighbours
// when their boundaries share at least one point, corners included.
func Queen(col *areal.Collection, opts Options) (*nb.Relation, error) {
	return contiguity(col, opts, 1)
}

// Rook returns the rook contiguity relation: areas are neighbours only
// when their boundaries share an edge segment, approximated as two or
// more shared boundary points. Corner-only contacts do not count.
func Rook(col *areal.Collection, opts Options) (*nb.Relation, error) {
	return contiguity(col, opts, 2)
}

func contiguity(col *areal.Collection, opts Options, minShared int) (*nb.Relation, error) {
	if col == nil {
		return nil, fmt.Errorf("no collection provided")
	}
	snap := opts.Snap
	if snap == 0 {
		snap = DefaultSnap
	}
	if snap < 0 || math.IsNaN(snap) || math.IsInf(snap, 0) {
		return nil, fmt.Errorf("invalid snap distance: %v", snap)
	}

	n := col.Len()
	keys := make([]map[gridKey]struct{}, n)
	entries := make([]*areaEntry, n)
	tree := rtreego.NewTree(2, 25, 50)
	for i := 0; i < n; i++ {
		g := col.Geometry(i)
		keys[i] = boundaryKeys(g, snap)
		rect, err := boundsRect(g.Bound(), snap)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i+1, err)
		}
		entries[i] = &areaEntry{rect: rect, index: i}
		tree.Insert(entries[i])
	}

	rows := make(nb.List, n)
	for i := 0; i < n; i++ {
		for _, item := range tree.SearchIntersect(entries[i].rect) {
			j := item.(*areaEntry).index
			if j <= i {
				continue
			}
			if sharedPoints(keys[i], keys[j]) >= minShared {
				rows[i] = append(rows[i], j)
				rows[j] = append(rows[j], i)
			}
		}
	}

	rel, err := nb.FromList(rows)
	if err != nil {
		return nil, fmt.Errorf("assemble relation: %w", err)
	}
	return rel, nil
}

// KNearest links every area to its k nearest neighbours by
// representative point distance. k must be between 1 and one less than
// the number of areas. The relation records one direction per link, so
// it is generally asymmetric; apply [nb.Relation.Symmetrize] for a
// mutual relation.
func KNearest(col *areal.Collection, k int) (*nb.Relation, error) {
	if col == nil {
		return nil, fmt.Errorf("no collection provided")
	}
	n := col.Len()
	if k < 1 || k >= n {
		return nil, fmt.Errorf("invalid k: %d (must be between 1 and %d)", k, n-1)
	}

	pts := col.RepresentativePoints()
	tree := rtreego.NewTree(2, 25, 50)
	for i, p := range pts {
		rect, err := pointRect(p)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i+1, err)
		}
		tree.Insert(&areaEntry{rect: rect, index: i})
	}

	rows := make(nb.List, n)
	for i, p := range pts {
		// The query point sits in the tree itself, so ask for one
		// extra and drop self.
		for _, item := range tree.NearestNeighbors(k+1, rtreego.Point{p.X(), p.Y()}) {
			j := item.(*areaEntry).index
			if j == i {
				continue
			}
			rows[i] = append(rows[i], j)
			if len(rows[i]) == k {
				break
			}
		}
	}

	rel, err := nb.FromList(rows)
	if err != nil {
		return nil, fmt.Errorf("assemble relation: %w", err)
	}
	return rel, nil
}

type areaEntry struct {
	rect  rtreego.Rect
	index int
}

func (e *areaEntry) Bounds() rtreego.Rect {
	return e.rect
}

// gridKey is a boundary point quantized to the snap grid.
type gridKey [2]int64

func quantize(p orb.Point, snap float64) gridKey {
	return gridKey{int64(math.Round(p.X() / snap)), int64(math.Round(p.Y() / snap))}
}

func boundaryKeys(g orb.Geometry, snap float64) map[gridKey]struct{} {
	set := make(map[gridKey]struct{})
	addRing := func(r orb.Ring) {
		pts := []orb.Point(r)
		if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
			pts = pts[:len(pts)-1]
		}
		for _, p := range pts {
			set[quantize(p, snap)] = struct{}{}
		}
	}
	switch geom := g.(type) {
	case orb.Point:
		set[quantize(geom, snap)] = struct{}{}
	case orb.MultiPoint:
		for _, p := range geom {
			set[quantize(p, snap)] = struct{}{}
		}
	case orb.Polygon:
		for _, r := range geom {
			addRing(r)
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			for _, r := range poly {
				addRing(r)
			}
		}
	}
	return set
}

func sharedPoints(a, b map[gridKey]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}

// boundsRect inflates the bounding box by the snap distance so that
// nearly touching boxes still intersect, and degenerate boxes keep a
// positive extent.
func boundsRect(b orb.Bound, snap float64) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.Min.X() - snap, b.Min.Y() - snap},
		[]float64{b.Max.X() - b.Min.X() + 2*snap, b.Max.Y() - b.Min.Y() + 2*snap},
	)
}

func pointRect(p orb.Point) (rtreego.Rect, error) {
	const eps = 1e-9
	return rtreego.NewRect(
		rtreego.Point{p.X() - eps, p.Y() - eps},
		[]float64{2 * eps, 2 * eps},
	)
}

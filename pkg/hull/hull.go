// Package hull computes convex and concave outlines of point sets.
//
// The concave variant is a characteristic-shape hull: starting from the
// Delaunay triangulation (github.com/fogleman/delaunay), boundary edges
// longer than a threshold are peeled away as long as removing them keeps
// the outline a simple polygon. A ratio in [0, 1] interpolates the
// threshold between the shortest and longest initial boundary edge, so
// ratio 1 removes nothing and reproduces the convex hull while ratio 0
// digs as deep as the triangulation allows.
package hull

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"
)

var (
	// ErrRatioRange is returned by [Concave] when the ratio is not in
	// [0, 1].
	ErrRatioRange = errors.New("hull ratio must be between 0 and 1")

	// ErrTooFewPoints is returned when fewer than three distinct points
	// are given. No polygonal outline exists for them.
	ErrTooFewPoints = errors.New("hull needs at least three distinct points")
)

// Convex returns the convex hull of pts as a closed ring: the first
// point repeated at the end, counterclockwise, starting at the
// lexicographically smallest vertex.
func Convex(pts []orb.Point) (orb.Ring, error) {
	tri, err := triangulate(pts)
	if err != nil {
		return nil, err
	}
	ring := make(orb.Ring, len(tri.ConvexHull))
	for i, p := range tri.ConvexHull {
		ring[i] = orb.Point{p.X, p.Y}
	}
	return normalize(ring), nil
}

// Concave returns the characteristic hull of pts for the given ratio as
// a closed ring in the same normal form as [Convex]. A boundary edge is
// peeled only when it is longer than the threshold and its opposite
// vertex is still interior, which keeps the outline simple and every
// input point inside or on it. ratio 1 yields exactly the convex hull.
func Concave(pts []orb.Point, ratio float64) (orb.Ring, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("%w, got %v", ErrRatioRange, ratio)
	}
	tri, err := triangulate(pts)
	if err != nil {
		return nil, err
	}
	return peel(tri, ratio), nil
}

// triangulate deduplicates the input and runs Delaunay triangulation.
func triangulate(pts []orb.Point) (*delaunay.Triangulation, error) {
	distinct := slices.Clone(pts)
	slices.SortFunc(distinct, func(a, b orb.Point) int {
		switch {
		case a.X() < b.X():
			return -1
		case a.X() > b.X():
			return 1
		case a.Y() < b.Y():
			return -1
		case a.Y() > b.Y():
			return 1
		}
		return 0
	})
	distinct = slices.Compact(distinct)
	if len(distinct) < 3 {
		return nil, ErrTooFewPoints
	}

	dp := make([]delaunay.Point, len(distinct))
	for i, p := range distinct {
		dp[i] = delaunay.Point{X: p.X(), Y: p.Y()}
	}
	tri, err := delaunay.Triangulate(dp)
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w", err)
	}
	return tri, nil
}

// nextHalfedge returns the next halfedge of the same triangle.
func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

// peel removes long boundary edges from the triangulation and walks the
// remaining boundary into a ring.
func peel(tri *delaunay.Triangulation, ratio float64) orb.Ring {
	edgeLen := func(e int) float64 {
		p := tri.Points[tri.Triangles[e]]
		q := tri.Points[tri.Triangles[nextHalfedge(e)]]
		return math.Hypot(p.X-q.X, p.Y-q.Y)
	}

	removed := make([]bool, len(tri.Triangles)/3)
	onBoundary := make([]bool, len(tri.Points))

	// Seed with the outer (convex hull) edges and derive the length
	// threshold from them.
	var queue edgeQueue
	minLen, maxLen := math.Inf(1), math.Inf(-1)
	for e := range tri.Triangles {
		if tri.Halfedges[e] != -1 {
			continue
		}
		l := edgeLen(e)
		queue = append(queue, boundaryEdge{e: e, length: l})
		onBoundary[tri.Triangles[e]] = true
		onBoundary[tri.Triangles[nextHalfedge(e)]] = true
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}
	threshold := minLen + ratio*(maxLen-minLen)
	heap.Init(&queue)

	isBoundary := func(e int) bool {
		if removed[e/3] {
			return false
		}
		twin := tri.Halfedges[e]
		return twin == -1 || removed[twin/3]
	}

	for queue.Len() > 0 {
		be := heap.Pop(&queue).(boundaryEdge)
		if !isBoundary(be.e) {
			continue
		}
		if be.length <= threshold {
			break
		}
		t := be.e / 3
		opposite := tri.Triangles[3*t] + tri.Triangles[3*t+1] + tri.Triangles[3*t+2] -
			tri.Triangles[be.e] - tri.Triangles[nextHalfedge(be.e)]
		if onBoundary[opposite] {
			continue
		}

		removed[t] = true
		onBoundary[opposite] = true
		for _, x := range []int{3 * t, 3*t + 1, 3*t + 2} {
			if x == be.e {
				continue
			}
			twin := tri.Halfedges[x]
			if twin == -1 || removed[twin/3] {
				continue
			}
			heap.Push(&queue, boundaryEdge{e: twin, length: edgeLen(twin)})
		}
	}

	return normalize(walkBoundary(tri, removed))
}

// walkBoundary chains the surviving directed boundary edges into a
// single cycle. Every boundary vertex has exactly one outgoing boundary
// edge because peeling preserves regularity.
func walkBoundary(tri *delaunay.Triangulation, removed []bool) orb.Ring {
	outgoing := make([]int, len(tri.Points))
	for i := range outgoing {
		outgoing[i] = -1
	}
	start := -1
	for e := range tri.Triangles {
		if removed[e/3] {
			continue
		}
		twin := tri.Halfedges[e]
		if twin != -1 && !removed[twin/3] {
			continue
		}
		from := tri.Triangles[e]
		outgoing[from] = e
		if start == -1 || from < start {
			start = from
		}
	}
	if start == -1 {
		return nil
	}

	var ring orb.Ring
	for v := start; ; {
		p := tri.Points[v]
		ring = append(ring, orb.Point{p.X, p.Y})
		v = tri.Triangles[nextHalfedge(outgoing[v])]
		if v == start {
			break
		}
	}
	return ring
}

// normalize closes the ring, orients it counterclockwise and rotates it
// to start at the lexicographically smallest vertex, so equal outlines
// compare equal regardless of how the walk found them.
func normalize(ring orb.Ring) orb.Ring {
	if len(ring) == 0 {
		return ring
	}
	// Drop a closing duplicate before rotating.
	if ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}

	area := 0.0
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		area += p.X()*q.Y() - q.X()*p.Y()
	}
	if area < 0 {
		slices.Reverse(ring)
	}

	min := 0
	for i, p := range ring {
		m := ring[min]
		if p.X() < m.X() || (p.X() == m.X() && p.Y() < m.Y()) {
			min = i
		}
	}
	rotated := make(orb.Ring, 0, len(ring)+1)
	rotated = append(rotated, ring[min:]...)
	rotated = append(rotated, ring[:min]...)
	return append(rotated, rotated[0])
}

// boundaryEdge is a heap entry: a halfedge index with its length.
type boundaryEdge struct {
	e      int
	length float64
}

// edgeQueue is a max-heap of boundary edges by length, longest first,
// tie-broken by halfedge index for determinism.
type edgeQueue []boundaryEdge

func (q edgeQueue) Len() int { return len(q) }

func (q edgeQueue) Less(i, j int) bool {
	if q[i].length != q[j].length {
		return q[i].length > q[j].length
	}
	return q[i].e < q[j].e
}

func (q edgeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *edgeQueue) Push(x any) { *q = append(*q, x.(boundaryEdge)) }

func (q *edgeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

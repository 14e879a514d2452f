package areal

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Centroid returns the true planar centroid of area i. Numeric labels
// anchor here.
func (c *Collection) Centroid(i int) orb.Point {
	centroid, _ := planar.CentroidArea(c.Geometry(i))
	return centroid
}

// RepresentativePoint returns a point standing for area i: the planar
// centroid when it lies inside the geometry, otherwise a point nudged
// onto the widest interior span at the centroid's height. Connector
// lines span these points, so they are centroid-like but not
// necessarily true centroids (bent or ring-shaped areas).
func (c *Collection) RepresentativePoint(i int) orb.Point {
	g := c.Geometry(i)
	centroid, _ := planar.CentroidArea(g)
	switch geom := g.(type) {
	case orb.Polygon:
		if planar.PolygonContains(geom, centroid) {
			return centroid
		}
		return insidePoint(geom, centroid)
	case orb.MultiPolygon:
		if planar.MultiPolygonContains(geom, centroid) {
			return centroid
		}
		return insidePoint(largestPolygon(geom), centroid)
	default:
		return centroid
	}
}

// RepresentativePoints returns the representative point of every area
// in row order.
func (c *Collection) RepresentativePoints() []orb.Point {
	pts := make([]orb.Point, c.Len())
	for i := range pts {
		pts[i] = c.RepresentativePoint(i)
	}
	return pts
}

// insidePoint finds an interior point of poly by scanning a horizontal
// line through the fallback point and taking the midpoint of the widest
// span inside the rings. Returns the fallback when the scan finds no
// span (degenerate rings).
func insidePoint(poly orb.Polygon, fallback orb.Point) orb.Point {
	y := fallback.Y()
	xs := ringCrossings(poly, y)
	if len(xs) < 2 {
		// The centroid of a degenerate shape may sit outside the
		// vertical extent of the rings; retry at mid-height.
		b := poly.Bound()
		y = (b.Min.Y() + b.Max.Y()) / 2
		xs = ringCrossings(poly, y)
		if len(xs) < 2 {
			return fallback
		}
	}

	slices.Sort(xs)
	bestLo, bestHi := xs[0], xs[1]
	for i := 0; i+1 < len(xs); i += 2 {
		if xs[i+1]-xs[i] > bestHi-bestLo {
			bestLo, bestHi = xs[i], xs[i+1]
		}
	}
	return orb.Point{(bestLo + bestHi) / 2, y}
}

// ringCrossings collects the x coordinates where the horizontal line at
// y crosses the polygon's ring segments.
func ringCrossings(poly orb.Polygon, y float64) []float64 {
	var xs []float64
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			a, b := ring[i], ring[i+1]
			if (a.Y() > y) != (b.Y() > y) {
				x := a.X() + (y-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
				xs = append(xs, x)
			}
		}
	}
	return xs
}

func largestPolygon(mp orb.MultiPolygon) orb.Polygon {
	best := mp[0]
	bestArea := planar.Area(best)
	if bestArea < 0 {
		bestArea = -bestArea
	}
	for _, poly := range mp[1:] {
		a := planar.Area(poly)
		if a < 0 {
			a = -a
		}
		if a > bestArea {
			best, bestArea = poly, a
		}
	}
	return best
}

// Vertices returns every vertex of every feature, sorted and
// deduplicated. Hull construction runs over this set.
func (c *Collection) Vertices() []orb.Point {
	var pts []orb.Point
	for _, f := range c.fc.Features {
		pts = appendVertices(pts, f.Geometry)
	}
	slices.SortFunc(pts, func(a, b orb.Point) int {
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
	return slices.Compact(pts)
}

func appendVertices(pts []orb.Point, g orb.Geometry) []orb.Point {
	switch geom := g.(type) {
	case orb.Point:
		pts = append(pts, geom)
	case orb.MultiPoint:
		pts = append(pts, geom...)
	case orb.Polygon:
		for _, ring := range geom {
			pts = append(pts, ring...)
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			for _, ring := range poly {
				pts = append(pts, ring...)
			}
		}
	}
	return pts
}

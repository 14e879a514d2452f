// Package links derives connector geometry between adjacent areas.
//
// Every unordered pair of adjacent areas becomes exactly one straight
// line segment between the two representative points, no matter how
// many directions of the pair the neighbour relation records. The
// resulting [Set] keeps the source collection's CRS and exports as a
// GeoJSON layer.
package links

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/nb"
)

// Link is one connector between two adjacent areas, identified by their
// 0-based row positions with From < To.
type Link struct {
	From int
	To   int
	Line orb.LineString
}

// Set holds the connector geometry derived from a collection and its
// neighbour relation. Sets are immutable after Build and safe for
// concurrent reads.
type Set struct {
	links  []Link
	points []orb.Point
	crs    string
}

// Build derives one connector per unordered adjacent pair of the
// relation, spanning the areas' representative points. The relation
// must cover the collection exactly. Link order follows the sorted
// pair order, so identical input yields identical sets.
func Build(col *areal.Collection, rel *nb.Relation) (*Set, error) {
	if rel.Len() != col.Len() {
		return nil, fmt.Errorf("relation covers %d areas, collection has %d", rel.Len(), col.Len())
	}

	pts := col.RepresentativePoints()
	pairs := rel.Pairs()
	ls := make([]Link, len(pairs))
	for i, p := range pairs {
		ls[i] = Link{
			From: p[0],
			To:   p[1],
			Line: orb.LineString{pts[p[0]], pts[p[1]]},
		}
	}
	return &Set{links: ls, points: pts, crs: col.CRS()}, nil
}

// Len returns the number of connectors.
func (s *Set) Len() int { return len(s.links) }

// Links returns all connectors in deterministic pair order.
// The returned slice is shared - treat it as read-only.
func (s *Set) Links() []Link { return s.links }

// Lines returns just the segment geometry of every connector.
func (s *Set) Lines() []orb.LineString {
	lines := make([]orb.LineString, len(s.links))
	for i, l := range s.links {
		lines[i] = l.Line
	}
	return lines
}

// Endpoints returns the deduplicated connector endpoints in area row
// order: the representative point of every area that participates in at
// least one link.
func (s *Set) Endpoints() []orb.Point {
	used := make([]bool, len(s.points))
	for _, l := range s.links {
		used[l.From] = true
		used[l.To] = true
	}
	var pts []orb.Point
	for i, u := range used {
		if u {
			pts = append(pts, s.points[i])
		}
	}
	return pts
}

// CRS returns the coordinate reference system tag inherited from the
// source collection.
func (s *Set) CRS() string { return s.crs }

// FeatureCollection exports the connectors as a GeoJSON layer: one
// LineString feature per link with 1-based "from" and "to" properties.
func (s *Set) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range s.links {
		f := geojson.NewFeature(l.Line)
		f.Properties["from"] = l.From + 1
		f.Properties["to"] = l.To + 1
		fc.Append(f)
	}
	if s.crs != "" && s.crs != areal.DefaultCRS {
		fc.ExtraMembers = map[string]interface{}{
			"crs": map[string]interface{}{
				"type":       "name",
				"properties": map[string]interface{}{"name": s.crs},
			},
		}
	}
	return fc
}

package areal

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/nb"
)

var (
	// ErrNotSimpleFeatures is returned by [FromFeatureCollection] and the
	// compose entry points when the input is nil, empty, or carries
	// geometry that cannot stand for areal units.
	ErrNotSimpleFeatures = errors.New("requires a simple features collection of areal units")

	// ErrNoNeighbourColumn is returned by [Collection.Neighbours] when a
	// feature has no "nb" property.
	ErrNoNeighbourColumn = errors.New("data must contain a column called 'nb'")

	// ErrBadNeighbourColumn is returned by [Collection.Neighbours] when
	// the "nb" values are neither neighbour index lists nor adjacency
	// matrix rows.
	ErrBadNeighbourColumn = errors.New("column 'nb' must be a neighbours list or matrix")
)

// DefaultCRS is assumed when a collection carries no crs member.
const DefaultCRS = "EPSG:4326"

// NeighbourColumn is the property every feature stores its neighbour
// row under.
const NeighbourColumn = "nb"

// Collection is an ordered set of areal features. Row order is
// meaningful and preserved: neighbour indices, connector endpoints and
// numeric labels all identify areas by position.
//
// The zero value is not usable - use FromFeatureCollection, Read or
// ReadFile.
type Collection struct {
	fc  *geojson.FeatureCollection
	crs string
}

// FromFeatureCollection validates fc and wraps it as a Collection.
// The collection must be non-nil and non-empty, and every feature must
// carry Polygon, MultiPolygon, Point or MultiPoint geometry. The CRS is
// read from the legacy "crs" member when present, defaulting to WGS84.
// The collection takes ownership of fc.
func FromFeatureCollection(fc *geojson.FeatureCollection) (*Collection, error) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrNotSimpleFeatures)
	}
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			return nil, fmt.Errorf("feature %d has no geometry: %w", i+1, ErrNotSimpleFeatures)
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon, orb.Point, orb.MultiPoint:
		default:
			return nil, fmt.Errorf("feature %d is %s: %w", i+1, f.Geometry.GeoJSONType(), ErrNotSimpleFeatures)
		}
	}
	return &Collection{fc: fc, crs: crsMember(fc)}, nil
}

// Len returns the number of areas.
func (c *Collection) Len() int { return len(c.fc.Features) }

// FeatureCollection returns the underlying GeoJSON collection.
// It is shared, not copied.
func (c *Collection) FeatureCollection() *geojson.FeatureCollection { return c.fc }

// Feature returns the i-th feature, or nil when i is out of range.
// The returned feature is shared with the collection.
func (c *Collection) Feature(i int) *geojson.Feature {
	if i < 0 || i >= len(c.fc.Features) {
		return nil
	}
	return c.fc.Features[i]
}

// Geometry returns the i-th feature's geometry, or nil when i is out
// of range.
func (c *Collection) Geometry(i int) orb.Geometry {
	if f := c.Feature(i); f != nil {
		return f.Geometry
	}
	return nil
}

// CRS returns the coordinate reference system tag the collection was
// read with. Derived layers carry this tag forward.
func (c *Collection) CRS() string { return c.crs }

// SetCRS overrides the coordinate reference system tag.
func (c *Collection) SetCRS(crs string) {
	if crs == "" {
		crs = DefaultCRS
	}
	c.crs = crs
}

// Bound returns the bounding box of all features.
func (c *Collection) Bound() orb.Bound {
	b := c.fc.Features[0].Geometry.Bound()
	for _, f := range c.fc.Features[1:] {
		b = b.Union(f.Geometry.Bound())
	}
	return b
}

// Name returns the display name of area i: the "name" property when it
// is a string, otherwise the empty string.
func (c *Collection) Name(i int) string {
	f := c.Feature(i)
	if f == nil || f.Properties == nil {
		return ""
	}
	if s, ok := f.Properties["name"].(string); ok {
		return s
	}
	return ""
}

// Neighbours extracts and normalizes the "nb" column. Every feature
// must carry the property; its values must parse as neighbour index
// lists or adjacency matrix rows (see [nb.FromRows]). Errors wrap
// [ErrNoNeighbourColumn] or [ErrBadNeighbourColumn].
func (c *Collection) Neighbours() (*nb.Relation, error) {
	n := c.Len()
	rows := make([][]float64, n)
	for i, f := range c.fc.Features {
		raw, ok := f.Properties[NeighbourColumn]
		if !ok {
			return nil, fmt.Errorf("feature %d: %w", i+1, ErrNoNeighbourColumn)
		}
		row, ok := numericRow(raw)
		if !ok {
			return nil, fmt.Errorf("feature %d: %w", i+1, ErrBadNeighbourColumn)
		}
		rows[i] = row
	}
	rel, err := nb.FromRows(rows, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadNeighbourColumn, err)
	}
	return rel, nil
}

// SetNeighbours writes the relation into the "nb" column, one row per
// feature in the relation's external form. The relation must cover the
// collection exactly.
func (c *Collection) SetNeighbours(r *nb.Relation) error {
	if r.Len() != c.Len() {
		return fmt.Errorf("relation covers %d areas, collection has %d", r.Len(), c.Len())
	}
	rows := r.Rows()
	for i, f := range c.fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		f.Properties[NeighbourColumn] = rows[i]
	}
	return nil
}

// numericRow coerces a decoded property value into a numeric slice.
// JSON arrays arrive as []interface{}; values set in code may be typed
// slices. Scalars are rejected: the column must hold lists or matrix
// rows, never a plain numeric value.
func numericRow(v interface{}) ([]float64, bool) {
	switch row := v.(type) {
	case []interface{}:
		out := make([]float64, len(row))
		for i, e := range row {
			f, ok := numeric(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	case []float64:
		return row, true
	case []int:
		out := make([]float64, len(row))
		for i, e := range row {
			out[i] = float64(e)
		}
		return out, true
	default:
		return nil, false
	}
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// crsMember reads the legacy GeoJSON "crs" member:
//
//	{"type": "name", "properties": {"name": "EPSG:27700"}}
func crsMember(fc *geojson.FeatureCollection) string {
	raw, ok := fc.ExtraMembers["crs"]
	if !ok {
		return DefaultCRS
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return DefaultCRS
	}
	props, ok := m["properties"].(map[string]interface{})
	if !ok {
		return DefaultCRS
	}
	if name, ok := props["name"].(string); ok && name != "" {
		return name
	}
	return DefaultCRS
}

// Geographic reports whether a CRS tag names a geographic (lon/lat)
// system. Projected systems need no latitude correction when fitting a
// viewport.
func Geographic(crs string) bool {
	switch crs {
	case "EPSG:4326", "OGC:CRS84", "CRS84", "WGS84", "urn:ogc:def:crs:OGC:1.3:CRS84":
		return true
	}
	return false
}

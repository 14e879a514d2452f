package areal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"
)

// Read decodes a GeoJSON feature collection from r and validates it as
// an areal collection. The reader is consumed but not closed.
func Read(r io.Reader) (*Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Decode(data)
}

// Decode validates raw GeoJSON bytes as an areal collection.
func Decode(data []byte) (*Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromFeatureCollection(fc)
}

// ReadFile reads the GeoJSON file at path and returns the decoded
// collection. Errors are wrapped with the path for context.
func ReadFile(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	col, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return col, nil
}

// Write encodes the collection as indented GeoJSON to w. A non-default
// CRS is recorded as a legacy "crs" member so round trips preserve it.
func (c *Collection) Write(w io.Writer) error {
	if c.crs != "" && c.crs != DefaultCRS {
		if c.fc.ExtraMembers == nil {
			c.fc.ExtraMembers = map[string]interface{}{}
		}
		c.fc.ExtraMembers["crs"] = map[string]interface{}{
			"type":       "name",
			"properties": map[string]interface{}{"name": c.crs},
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.fc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the collection to a GeoJSON file at path.
// This is a convenience wrapper around [Collection.Write].
func (c *Collection) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return c.Write(f)
}

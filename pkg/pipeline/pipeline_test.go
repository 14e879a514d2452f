package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/cache"
	"github.com/nbmap/nbmap/pkg/render/mapview"
)

func mapOptions(hullRatio float64) mapview.Options {
	return mapview.Options{HullRatio: hullRatio}
}

// gridGeoJSON builds the canonical 2x2 queen grid as raw GeoJSON.
// withColumn controls whether the features carry the 'nb' column.
func gridGeoJSON(t *testing.T, withColumn bool) []byte {
	t.Helper()
	neighbours := [][]int{{2, 3, 4}, {1, 3, 4}, {1, 2, 4}, {1, 2, 3}}

	fc := geojson.NewFeatureCollection()
	for i, o := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := o[0], o[1]
		f := geojson.NewFeature(orb.Polygon{orb.Ring{
			{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
		}})
		if withColumn {
			f.Properties["nb"] = neighbours[i]
		}
		fc.Append(f)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), gridGeoJSON(t, true), Options{
		Source:  "grid.geojson",
		Formats: []string{FormatSVG, FormatGeoJSON, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.Areas != 4 {
		t.Errorf("Areas = %d, want 4", result.Stats.Areas)
	}
	if result.Stats.Links != 6 {
		t.Errorf("Links = %d, want 6 for the queen grid", result.Stats.Links)
	}

	svg := string(result.Artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("svg artifact does not start with <svg: %.40s", svg)
	}
	if got := strings.Count(svg, "<line"); got != 6 {
		t.Errorf("svg link segments = %d, want 6", got)
	}

	dot := string(result.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("dot artifact does not start with graph G: %.40s", dot)
	}
	if got := strings.Count(dot, "--"); got != 6 {
		t.Errorf("dot edges = %d, want 6", got)
	}

	var layer struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatGeoJSON], &layer); err != nil {
		t.Fatalf("geojson artifact: %v", err)
	}
	if len(layer.Features) != 6 {
		t.Errorf("geojson link features = %d, want 6", len(layer.Features))
	}

	var stats struct {
		Areas int `json:"areas"`
		Links int `json:"links"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &stats); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if stats.Areas != 4 || stats.Links != 6 {
		t.Errorf("json stats = %+v, want 4 areas, 6 links", stats)
	}
}

func TestExecuteCaching(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	data := gridGeoJSON(t, true)
	opts := Options{Formats: []string{FormatSVG}}

	first, err := runner.Execute(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.NeighboursHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(context.Background(), data, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.NeighboursHit {
		t.Error("second run should hit the relation cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact must match the rendered one")
	}

	// Refresh bypasses the cache
	third, err := runner.Execute(context.Background(), data, Options{Formats: []string{FormatSVG}, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.NeighboursHit || third.CacheInfo.RenderHit {
		t.Error("refresh run should not read the cache")
	}
}

func TestExecuteQueenMatchesColumn(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	column, err := runner.Execute(context.Background(), gridGeoJSON(t, true), Options{
		Formats: []string{FormatSVG},
	})
	if err != nil {
		t.Fatalf("column Execute() error = %v", err)
	}

	queen, err := runner.Execute(context.Background(), gridGeoJSON(t, false), Options{
		Method:  MethodQueen,
		Formats: []string{FormatSVG},
	})
	if err != nil {
		t.Fatalf("queen Execute() error = %v", err)
	}

	if !bytes.Equal(column.Artifacts[FormatSVG], queen.Artifacts[FormatSVG]) {
		t.Error("queen contiguity on the grid must reproduce the recorded column")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{"bad format", Options{Formats: []string{"bmp"}}, "invalid format"},
		{"bad method", Options{Method: "hexagon"}, "invalid method"},
		{"bad hull ratio", Options{Map: mapOptions(2)}, "hull_ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	// Defaults land as documented
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Method != MethodColumn {
		t.Errorf("Method = %q, want column", opts.Method)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}

func TestRelationKeyOpts(t *testing.T) {
	knn := Options{Method: MethodKNN, K: 3, Snap: 0.5}
	if got := knn.RelationKeyOpts(); got.K != 3 || got.Snap != 0 {
		t.Errorf("knn key opts = %+v, want K only", got)
	}
	queen := Options{Method: MethodQueen, K: 3, Snap: 0.5}
	if got := queen.RelationKeyOpts(); got.Snap != 0.5 || got.K != 0 {
		t.Errorf("queen key opts = %+v, want Snap only", got)
	}
}

package nodelink

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/nb"
)

func gridRelation(t *testing.T) (*areal.Collection, *nb.Relation) {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	names := []string{"north west", "north east", "south west", "south east"}
	for i, o := range [][2]float64{{0, 1}, {1, 1}, {0, 0}, {1, 0}} {
		f := geojson.NewFeature(orb.Polygon{orb.Ring{
			{o[0], o[1]}, {o[0] + 1, o[1]}, {o[0] + 1, o[1] + 1}, {o[0], o[1] + 1}, {o[0], o[1]},
		}})
		f.Properties[areal.NeighbourColumn] = [][]int{{2, 3, 4}, {1, 3, 4}, {1, 2, 4}, {1, 2, 3}}[i]
		f.Properties["name"] = names[i]
		fc.Append(f)
	}
	col, err := areal.FromFeatureCollection(fc)
	if err != nil {
		t.Fatalf("FromFeatureCollection() error = %v", err)
	}
	rel, err := col.Neighbours()
	if err != nil {
		t.Fatalf("Neighbours() error = %v", err)
	}
	return col, rel
}

func TestToDOT(t *testing.T) {
	col, rel := gridRelation(t)

	dot := ToDOT(col, rel, Options{})

	// Check basic DOT structure
	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("ToDOT() should start with 'graph G {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}

	// Check for expected attributes
	expected := []string{
		"layout=neato",
		"bgcolor=\"transparent\"",
		"overlap=false",
		"shape=circle",
	}
	for _, exp := range expected {
		if !strings.Contains(dot, exp) {
			t.Errorf("ToDOT() missing %q", exp)
		}
	}

	// One undirected edge per pair, no arrows
	if got := strings.Count(dot, " -- "); got != 6 {
		t.Errorf("ToDOT() edge count = %d, want 6", got)
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() must not emit directed edges")
	}
}

func TestToDOTLabels(t *testing.T) {
	col, rel := gridRelation(t)

	dot := ToDOT(col, rel, Options{})
	for _, name := range []string{"north west", "north east", "south west", "south east"} {
		if !strings.Contains(dot, name) {
			t.Errorf("ToDOT() should contain label %q", name)
		}
	}

	detailed := ToDOT(col, rel, Options{Detailed: true})
	if !strings.Contains(detailed, "row: 1") || !strings.Contains(detailed, "neighbours: 3") {
		t.Error("detailed labels should include row and neighbour count")
	}
}

func TestToDOTIndexLabels(t *testing.T) {
	// Without a collection, nodes fall back to 1-based row indices.
	rel, err := nb.FromList(nb.List{{1}, {0}})
	if err != nil {
		t.Fatalf("FromList() error = %v", err)
	}

	dot := ToDOT(nil, rel, Options{})
	if !strings.Contains(dot, `1 [label="1"]`) || !strings.Contains(dot, `2 [label="2"]`) {
		t.Errorf("ToDOT() missing index labels:\n%s", dot)
	}
	if !strings.Contains(dot, "1 -- 2;") {
		t.Error("ToDOT() missing the single edge")
	}
}

func TestToDOTLayoutFallback(t *testing.T) {
	col, rel := gridRelation(t)

	dot := ToDOT(col, rel, Options{Layout: "banana"})
	if !strings.Contains(dot, "layout=neato") {
		t.Error("unknown layout should fall back to neato")
	}

	dot = ToDOT(col, rel, Options{Layout: "circo"})
	if !strings.Contains(dot, "layout=circo") {
		t.Error("recognized layout should be kept")
	}
}

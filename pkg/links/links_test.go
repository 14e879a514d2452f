package links

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/nb"
)

func unitSquare(x, y float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}}
}

// Four unit squares in a 2x2 grid; queen adjacency links every pair.
func gridCollection(t *testing.T) *areal.Collection {
	t.Helper()
	nbRows := [][]int{{2, 3, 4}, {1, 3, 4}, {1, 2, 4}, {1, 2, 3}}
	origins := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	fc := geojson.NewFeatureCollection()
	for i, o := range origins {
		f := geojson.NewFeature(unitSquare(o[0], o[1]))
		f.Properties[areal.NeighbourColumn] = nbRows[i]
		fc.Append(f)
	}
	col, err := areal.FromFeatureCollection(fc)
	if err != nil {
		t.Fatalf("FromFeatureCollection() error = %v", err)
	}
	return col
}

func TestBuildQueenGrid(t *testing.T) {
	col := gridCollection(t)
	rel, err := col.Neighbours()
	if err != nil {
		t.Fatalf("Neighbours() error = %v", err)
	}

	set, err := Build(col, rel)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// Six unordered pairs even though the symmetric relation records
	// twelve directions.
	if set.Len() != 6 {
		t.Errorf("Len() = %d, want 6", set.Len())
	}

	first := set.Links()[0]
	if first.From != 0 || first.To != 1 {
		t.Errorf("first link = %d-%d, want 0-1", first.From, first.To)
	}
	wantLine := orb.LineString{{0.5, 0.5}, {1.5, 0.5}}
	if !first.Line.Equal(wantLine) {
		t.Errorf("first line = %v, want %v", first.Line, wantLine)
	}
}

func TestBuildMatrixAgrees(t *testing.T) {
	col := gridCollection(t)
	fromList, _ := col.Neighbours()

	matrix, err := nb.FromMatrix(fromList.Symmetrize().Matrix())
	if err != nil {
		t.Fatalf("FromMatrix() error = %v", err)
	}

	a, _ := Build(col, fromList)
	b, _ := Build(col, matrix)
	if a.Len() != b.Len() {
		t.Fatalf("list links = %d, matrix links = %d", a.Len(), b.Len())
	}
	for i := range a.Links() {
		if a.Links()[i].From != b.Links()[i].From || a.Links()[i].To != b.Links()[i].To {
			t.Errorf("link %d differs between list and matrix input", i)
		}
	}
}

func TestBuildOneSided(t *testing.T) {
	col := gridCollection(t)
	// Only area 1 records the adjacency; the connector still appears.
	rel, _ := nb.FromList(nb.List{{1}, {}, {}, {}})

	set, err := Build(col, rel)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
}

func TestBuildSizeMismatch(t *testing.T) {
	col := gridCollection(t)
	rel, _ := nb.FromList(nb.List{{1}, {0}})

	if _, err := Build(col, rel); err == nil {
		t.Error("Build() with a short relation should fail")
	}
}

func TestEndpoints(t *testing.T) {
	col := gridCollection(t)
	rel, _ := col.Neighbours()
	set, _ := Build(col, rel)

	pts := set.Endpoints()
	if len(pts) != 4 {
		t.Fatalf("endpoint count = %d, want 4", len(pts))
	}
	if pts[0] != (orb.Point{0.5, 0.5}) {
		t.Errorf("pts[0] = %v, want {0.5 0.5}", pts[0])
	}

	// An isolated area contributes no endpoint.
	sparse, _ := nb.FromList(nb.List{{1}, {0}, {}, {}})
	set, _ = Build(col, sparse)
	if got := len(set.Endpoints()); got != 2 {
		t.Errorf("sparse endpoint count = %d, want 2", got)
	}
}

func TestCRSPropagates(t *testing.T) {
	col := gridCollection(t)
	col.SetCRS("EPSG:27700")
	rel, _ := col.Neighbours()

	set, _ := Build(col, rel)
	if got := set.CRS(); got != "EPSG:27700" {
		t.Errorf("CRS() = %q, want EPSG:27700", got)
	}

	fc := set.FeatureCollection()
	if _, ok := fc.ExtraMembers["crs"]; !ok {
		t.Error("exported layer should carry the crs member")
	}
}

func TestFeatureCollection(t *testing.T) {
	col := gridCollection(t)
	rel, _ := col.Neighbours()
	set, _ := Build(col, rel)

	fc := set.FeatureCollection()
	if len(fc.Features) != 6 {
		t.Fatalf("feature count = %d, want 6", len(fc.Features))
	}
	f := fc.Features[0]
	if f.Properties["from"] != 1 || f.Properties["to"] != 2 {
		t.Errorf("first link props = %v/%v, want 1/2", f.Properties["from"], f.Properties["to"])
	}
	if _, ok := f.Geometry.(orb.LineString); !ok {
		t.Errorf("geometry type = %T, want orb.LineString", f.Geometry)
	}
}

package contig

import (
	"reflect"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/areal"
)

func squareAt(x, y, side float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + side, y}, {x + side, y + side}, {x, y + side}, {x, y}}}
}

func collectionOf(t *testing.T, geoms ...orb.Geometry) *areal.Collection {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	for _, g := range geoms {
		fc.Append(geojson.NewFeature(g))
	}
	col, err := areal.FromFeatureCollection(fc)
	if err != nil {
		t.Fatalf("FromFeatureCollection() error = %v", err)
	}
	return col
}

func grid(t *testing.T) *areal.Collection {
	return collectionOf(t,
		squareAt(0, 0, 1), squareAt(1, 0, 1), squareAt(0, 1, 1), squareAt(1, 1, 1))
}

func TestQueenGrid(t *testing.T) {
	rel, err := Queen(grid(t), Options{})
	if err != nil {
		t.Fatalf("Queen() error = %v", err)
	}

	// Corner contact counts: every square touches every other.
	want := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if got := rel.Pairs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Queen pairs = %v, want %v", got, want)
	}
	if !rel.Symmetric() {
		t.Error("contiguity must be symmetric")
	}
}

func TestRookGrid(t *testing.T) {
	rel, err := Rook(grid(t), Options{})
	if err != nil {
		t.Fatalf("Rook() error = %v", err)
	}

	// Only edge contacts: the two diagonal pairs drop out.
	want := [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}
	if got := rel.Pairs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rook pairs = %v, want %v", got, want)
	}
}

func TestContiguitySnap(t *testing.T) {
	// The second square sits a nanometre east of the first; the default
	// snap welds the boundary back together.
	col := collectionOf(t, squareAt(0, 0, 1), squareAt(1+1e-9, 0, 1))

	rel, err := Rook(col, Options{})
	if err != nil {
		t.Fatalf("Rook() error = %v", err)
	}
	if got := len(rel.Pairs()); got != 1 {
		t.Errorf("pairs with default snap = %d, want 1", got)
	}

	tight, err := Rook(col, Options{Snap: 1e-12})
	if err != nil {
		t.Fatalf("Rook(tight snap) error = %v", err)
	}
	if got := len(tight.Pairs()); got != 0 {
		t.Errorf("pairs with tight snap = %d, want 0", got)
	}
}

func TestContiguityDisjoint(t *testing.T) {
	col := collectionOf(t, squareAt(0, 0, 1), squareAt(5, 5, 1))

	rel, err := Queen(col, Options{})
	if err != nil {
		t.Fatalf("Queen() error = %v", err)
	}
	if got := len(rel.Pairs()); got != 0 {
		t.Errorf("pairs = %d, want 0 for disjoint squares", got)
	}
	if rel.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rel.Len())
	}
}

func TestContiguityInvalidSnap(t *testing.T) {
	if _, err := Queen(grid(t), Options{Snap: -1}); err == nil {
		t.Error("expected error for negative snap")
	}
	if _, err := Queen(nil, Options{}); err == nil {
		t.Error("expected error for nil collection")
	}
}

func TestKNearest(t *testing.T) {
	col := collectionOf(t,
		orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{3, 0}, orb.Point{10, 0})

	rel, err := KNearest(col, 1)
	if err != nil {
		t.Fatalf("KNearest() error = %v", err)
	}

	want := [][]int{{1}, {0}, {1}, {2}}
	for i, wantRow := range want {
		if got := rel.Neighbours(i); !reflect.DeepEqual(got, wantRow) {
			t.Errorf("Neighbours(%d) = %v, want %v", i, got, wantRow)
		}
	}

	// Area 2 points at 1, but 1 prefers 0: one-sided by construction.
	if rel.Symmetric() {
		t.Error("k=1 relation over this layout should be asymmetric")
	}

	sym := rel.Symmetrize()
	wantPairs := [][2]int{{0, 1}, {1, 2}, {2, 3}}
	if got := sym.Pairs(); !reflect.DeepEqual(got, wantPairs) {
		t.Errorf("symmetrized pairs = %v, want %v", got, wantPairs)
	}
}

func TestKNearestBounds(t *testing.T) {
	col := collectionOf(t,
		orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{3, 0}, orb.Point{10, 0})

	for _, k := range []int{0, -1, 4, 5} {
		_, err := KNearest(col, k)
		if err == nil || !strings.Contains(err.Error(), "invalid k") {
			t.Errorf("KNearest(k=%d) error = %v, want invalid k", k, err)
		}
	}
}

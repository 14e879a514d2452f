package quickmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/render/mapview"
)

func unitSquare(x, y float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}}
}

// gridCollection builds the 2x2 queen grid with the nb column in either
// list or matrix form.
func gridCollection(t *testing.T, nbRows func(i int) any) *areal.Collection {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	for i, o := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		f := geojson.NewFeature(unitSquare(o[0], o[1]))
		f.Properties[areal.NeighbourColumn] = nbRows(i)
		fc.Append(f)
	}
	col, err := areal.FromFeatureCollection(fc)
	if err != nil {
		t.Fatalf("FromFeatureCollection() error = %v", err)
	}
	return col
}

func listRows(i int) any {
	return [][]int{{2, 3, 4}, {1, 3, 4}, {1, 2, 4}, {1, 2, 3}}[i]
}

func matrixRows(i int) any {
	return [][]int{{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 0, 1}, {1, 1, 1, 0}}[i]
}

func TestCompose(t *testing.T) {
	col := gridCollection(t, listRows)

	m, err := Compose(col, mapview.Options{Nodes: mapview.NodesNumeric})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	svg := string(m.SVG())
	if got := strings.Count(svg, "<line"); got != 6 {
		t.Errorf("link segments = %d, want 6 for the queen grid", got)
	}
	for _, want := range []string{">1</text>", ">2</text>", ">3</text>", ">4</text>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing label %s", want)
		}
	}
}

func TestComposeListMatrixAgree(t *testing.T) {
	list := gridCollection(t, listRows)
	matrix := gridCollection(t, matrixRows)

	mList, err := Compose(list, mapview.Options{})
	if err != nil {
		t.Fatalf("Compose(list) error = %v", err)
	}
	mMatrix, err := Compose(matrix, mapview.Options{})
	if err != nil {
		t.Fatalf("Compose(matrix) error = %v", err)
	}

	if !bytes.Equal(mList.SVG(), mMatrix.SVG()) {
		t.Error("list and matrix forms of the same relation must plot identically")
	}
}

func TestComposeValidation(t *testing.T) {
	t.Run("nil collection", func(t *testing.T) {
		_, err := Compose(nil, mapview.Options{})
		if !errors.Is(err, areal.ErrNotSimpleFeatures) {
			t.Errorf("error = %v, want ErrNotSimpleFeatures", err)
		}
		if err == nil || !strings.Contains(err.Error(), "requires a simple features") {
			t.Errorf("error = %v, want simple features message", err)
		}
	})

	t.Run("missing nb column", func(t *testing.T) {
		col := gridCollection(t, listRows)
		for i := 0; i < col.Len(); i++ {
			delete(col.Feature(i).Properties, areal.NeighbourColumn)
		}
		_, err := Compose(col, mapview.Options{})
		if err == nil || !strings.Contains(err.Error(), "must contain a column called 'nb'") {
			t.Errorf("error = %v, want missing column message", err)
		}
	})

	t.Run("malformed nb column", func(t *testing.T) {
		col := gridCollection(t, func(int) any { return "north" })
		_, err := Compose(col, mapview.Options{})
		if err == nil || !strings.Contains(err.Error(), "must be a neighbours list or matrix") {
			t.Errorf("error = %v, want malformed column message", err)
		}
	})

	t.Run("scalar nb column", func(t *testing.T) {
		scalars := []float64{2, 3, 4, 1}
		col := gridCollection(t, func(i int) any { return scalars[i] })
		_, err := Compose(col, mapview.Options{})
		if err == nil || !strings.Contains(err.Error(), "must be a neighbours list or matrix") {
			t.Errorf("error = %v, want malformed column message", err)
		}
	})

	t.Run("bad hull ratio", func(t *testing.T) {
		col := gridCollection(t, listRows)
		_, err := Compose(col, mapview.Options{ConcaveHull: true, HullRatio: 2})
		if err == nil {
			t.Error("expected error for out-of-range hull ratio")
		}
	})
}

func TestComposeDeterministic(t *testing.T) {
	col := gridCollection(t, listRows)
	opts := mapview.Options{Title: "Grid", ConcaveHull: true, HullRatio: 1}

	m1, err := Compose(col, opts)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	m2, err := Compose(col, opts)
	if err != nil {
		t.Fatalf("second Compose() error = %v", err)
	}
	if !bytes.Equal(m1.SVG(), m2.SVG()) {
		t.Error("repeated composition must produce identical SVG")
	}
}

package nb

import (
	"errors"
	"reflect"
	"slices"
	"testing"
)

// Four squares in a 2x2 grid, row order (0,0), (1,0), (0,1), (1,1).
// With corner touches counted every pair is adjacent.
func gridQueenList() List {
	return List{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}}
}

func gridQueenMatrix() Matrix {
	return Matrix{
		{0, 1, 1, 1},
		{1, 0, 1, 1},
		{1, 1, 0, 1},
		{1, 1, 1, 0},
	}
}

// Edge adjacency only: the diagonal pairs 0-3 and 1-2 drop out.
func gridRookList() List {
	return List{{1, 2}, {0, 3}, {0, 3}, {1, 2}}
}

func TestFromList(t *testing.T) {
	r, err := FromList(List{{2, 1, 1}, {0}, {0}})
	if err != nil {
		t.Fatalf("FromList() error = %v", err)
	}
	if r.Kind() != KindList {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindList)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	// Sorted and deduplicated.
	if got := r.Neighbours(0); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Neighbours(0) = %v, want [1 2]", got)
	}
}

func TestFromListErrors(t *testing.T) {
	tests := []struct {
		name string
		list List
		want error
	}{
		{"index too large", List{{5}, {}}, ErrIndexOutOfRange},
		{"negative index", List{{-1}, {}}, ErrIndexOutOfRange},
		{"self neighbour", List{{0}, {}}, ErrSelfNeighbour},
	}

	for _, tt := range tests {
		if _, err := FromList(tt.list); !errors.Is(err, tt.want) {
			t.Errorf("%s: FromList() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestFromMatrix(t *testing.T) {
	r, err := FromMatrix(gridQueenMatrix())
	if err != nil {
		t.Fatalf("FromMatrix() error = %v", err)
	}
	if r.Kind() != KindMatrix {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindMatrix)
	}
	if got := r.List(); !reflect.DeepEqual(got, gridQueenList()) {
		t.Errorf("List() = %v, want %v", got, gridQueenList())
	}
}

func TestFromMatrixErrors(t *testing.T) {
	tests := []struct {
		name   string
		matrix Matrix
		want   error
	}{
		{"ragged", Matrix{{0, 1}, {1}}, ErrNotSquare},
		{"weighted", Matrix{{0, 2}, {2, 0}}, ErrNotBinary},
		{"nonzero diagonal", Matrix{{1, 1}, {1, 0}}, ErrSelfNeighbour},
		{"asymmetric", Matrix{{0, 1}, {0, 0}}, ErrAsymmetric},
	}

	for _, tt := range tests {
		if _, err := FromMatrix(tt.matrix); !errors.Is(err, tt.want) {
			t.Errorf("%s: FromMatrix() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		n    int
		want Kind
	}{
		{"binary square", [][]float64{{0, 1}, {1, 0}}, 2, KindMatrix},
		{"index lists", [][]float64{{2}, {1}}, 2, KindList},
		{"short rows", [][]float64{{1}, {1}}, 2, KindList},
		{"entry above one", [][]float64{{0, 2}, {2, 0}}, 2, KindList},
		{"nonzero diagonal", [][]float64{{1, 1}, {1, 1}}, 2, KindList},
		{"single isolated area", [][]float64{{0}}, 1, KindMatrix},
		{"no areas", nil, 0, KindList},
	}

	for _, tt := range tests {
		if got := DetectKind(tt.rows, tt.n); got != tt.want {
			t.Errorf("%s: DetectKind() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFromRows(t *testing.T) {
	// 1-based list rows for the rook grid.
	rows := [][]float64{{2, 3}, {1, 4}, {1, 4}, {2, 3}}
	r, err := FromRows(rows, 4)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	if r.Kind() != KindList {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindList)
	}
	if got := r.List(); !reflect.DeepEqual(got, gridRookList()) {
		t.Errorf("List() = %v, want %v", got, gridRookList())
	}
}

func TestFromRowsMatrix(t *testing.T) {
	rows := [][]float64{
		{0, 1, 1, 1},
		{1, 0, 1, 1},
		{1, 1, 0, 1},
		{1, 1, 1, 0},
	}
	r, err := FromRows(rows, 4)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	if r.Kind() != KindMatrix {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindMatrix)
	}
	if got := len(r.Pairs()); got != 6 {
		t.Errorf("Pairs() count = %d, want 6", got)
	}
}

func TestFromRowsIsolated(t *testing.T) {
	// A single 0 in a list row means no neighbours.
	r, err := FromRows([][]float64{{2}, {1}, {0}}, 3)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	if got := r.Card(2); got != 0 {
		t.Errorf("Card(2) = %d, want 0", got)
	}
}

func TestFromRowsErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want error
	}{
		{"fractional index", [][]float64{{1.5}, {1}}, ErrNonIntegerIndex},
		{"index above n", [][]float64{{3}, {1}}, ErrIndexOutOfRange},
		{"negative index", [][]float64{{-2}, {1}}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		if _, err := FromRows(tt.rows, len(tt.rows)); !errors.Is(err, tt.want) {
			t.Errorf("%s: FromRows() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestPairs(t *testing.T) {
	queen, _ := FromList(gridQueenList())
	if got := len(queen.Pairs()); got != 6 {
		t.Errorf("queen Pairs() count = %d, want 6", got)
	}

	rook, _ := FromList(gridRookList())
	want := [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}
	if got := rook.Pairs(); !reflect.DeepEqual(got, want) {
		t.Errorf("rook Pairs() = %v, want %v", got, want)
	}
}

func TestPairsOneSided(t *testing.T) {
	// Only area 0 records the adjacency; the pair still appears once.
	r, _ := FromList(List{{1}, {}})
	want := [][2]int{{0, 1}}
	if got := r.Pairs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Pairs() = %v, want %v", got, want)
	}
}

func TestListAndMatrixAgree(t *testing.T) {
	fromList, _ := FromList(gridQueenList())
	fromMatrix, _ := FromMatrix(gridQueenMatrix())
	if !reflect.DeepEqual(fromList.Pairs(), fromMatrix.Pairs()) {
		t.Errorf("list pairs %v != matrix pairs %v", fromList.Pairs(), fromMatrix.Pairs())
	}
}

func TestSymmetric(t *testing.T) {
	sym, _ := FromList(gridRookList())
	if !sym.Symmetric() {
		t.Error("rook grid should be symmetric")
	}

	knn, _ := FromList(List{{1}, {2}, {1}})
	if knn.Symmetric() {
		t.Error("one-sided relation should not be symmetric")
	}
}

func TestSymmetrize(t *testing.T) {
	knn, _ := FromList(List{{1}, {2}, {1}})
	sym := knn.Symmetrize()
	if !sym.Symmetric() {
		t.Error("Symmetrize() result should be symmetric")
	}
	if got := sym.Neighbours(1); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Neighbours(1) = %v, want [0 2]", got)
	}
	// The receiver stays untouched.
	if got := knn.Neighbours(1); !slices.Equal(got, []int{2}) {
		t.Errorf("receiver Neighbours(1) = %v, want [2]", got)
	}
}

func TestRows(t *testing.T) {
	list, _ := FromList(List{{1}, {0}, {}})
	want := [][]int{{2}, {1}, {0}}
	if got := list.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("list Rows() = %v, want %v", got, want)
	}

	matrix, _ := FromMatrix(gridQueenMatrix())
	if got := matrix.Rows(); !reflect.DeepEqual(got, [][]int(gridQueenMatrix())) {
		t.Errorf("matrix Rows() = %v, want the original rows", got)
	}
}

func TestRowsRoundTrip(t *testing.T) {
	orig, _ := FromList(gridRookList())
	rows := orig.Rows()
	raw := make([][]float64, len(rows))
	for i, row := range rows {
		raw[i] = make([]float64, len(row))
		for j, v := range row {
			raw[i][j] = float64(v)
		}
	}
	back, err := FromRows(raw, orig.Len())
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	if !reflect.DeepEqual(back.List(), orig.List()) {
		t.Errorf("round trip = %v, want %v", back.List(), orig.List())
	}
}

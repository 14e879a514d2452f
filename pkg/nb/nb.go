package nb

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNotSquare is returned by [FromMatrix] when a row's length differs
	// from the number of rows. Adjacency matrices must be n×n.
	ErrNotSquare = errors.New("neighbour matrix must be square")

	// ErrNotBinary is returned by [FromMatrix] when an entry is neither 0
	// nor 1. Weighted matrices are not accepted; reduce them to binary
	// adjacency first.
	ErrNotBinary = errors.New("neighbour matrix entries must be 0 or 1")

	// ErrAsymmetric is returned by [FromMatrix] when m[i][j] != m[j][i].
	// Adjacency is an undirected property, so matrix input must be
	// symmetric. One-sided relations (e.g. k-nearest) use list form.
	ErrAsymmetric = errors.New("neighbour matrix must be symmetric")

	// ErrSelfNeighbour is returned by [FromList] and [FromMatrix] when an
	// area records itself as a neighbour (nonzero matrix diagonal).
	ErrSelfNeighbour = errors.New("area cannot neighbour itself")

	// ErrIndexOutOfRange is returned by [FromList] and [FromRows] when a
	// neighbour index does not identify an area of the collection.
	ErrIndexOutOfRange = errors.New("neighbour index out of range")

	// ErrNonIntegerIndex is returned by [FromRows] when a list entry is
	// not a whole number and therefore cannot be an area number.
	ErrNonIntegerIndex = errors.New("neighbour index must be an integer")
)

// Kind identifies the source form of a neighbour relation.
type Kind int

const (
	// KindList marks a relation built from per-area neighbour index lists.
	KindList Kind = iota
	// KindMatrix marks a relation built from a binary adjacency matrix.
	KindMatrix
)

// String returns "list" or "matrix".
func (k Kind) String() string {
	if k == KindMatrix {
		return "matrix"
	}
	return "list"
}

// List is the list-of-neighbours form: one slice of neighbour indices per
// area, in collection row order. Indices are 0-based positions into that
// same order. A nil or empty inner slice means the area has no neighbours.
type List [][]int

// Len returns the number of areas covered by the list.
func (l List) Len() int { return len(l) }

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, row := range l {
		out[i] = slices.Clone(row)
	}
	return out
}

// Matrix converts the list into a binary adjacency matrix. Only recorded
// directions are set, so an asymmetric list yields an asymmetric matrix.
// Out-of-range indices are ignored; validated relations never have any.
func (l List) Matrix() Matrix {
	n := len(l)
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	for i, row := range l {
		for _, j := range row {
			if j >= 0 && j < n {
				m[i][j] = 1
			}
		}
	}
	return m
}

// Matrix is the adjacency-matrix form: a square 0/1 matrix where
// m[i][j] == 1 records that area j neighbours area i.
type Matrix [][]int

// Len returns the number of areas covered by the matrix.
func (m Matrix) Len() int { return len(m) }

// List converts the matrix into list form, preserving row order.
// Neighbour indices come out ascending.
func (m Matrix) List() List {
	l := make(List, len(m))
	for i, row := range m {
		for j, v := range row {
			if v != 0 {
				l[i] = append(l[i], j)
			}
		}
	}
	return l
}

// Relation is a neighbour relation normalized to list form, tagged with
// the form it was built from. Both constructors reduce to the same
// internal representation, so derived geometry does not depend on the
// input form.
//
// The zero value is not usable - use FromList, FromMatrix or FromRows.
type Relation struct {
	kind Kind
	list List
}

// FromList builds a relation from list form. Every index must lie in
// [0, n) and must not reference its own area. Each area's neighbours are
// sorted ascending and deduplicated. The input is not modified.
func FromList(l List) (*Relation, error) {
	n := len(l)
	norm := make(List, n)
	for i, row := range l {
		for _, j := range row {
			if j < 0 || j >= n {
				return nil, fmt.Errorf("area %d: %w", i+1, ErrIndexOutOfRange)
			}
			if j == i {
				return nil, fmt.Errorf("area %d: %w", i+1, ErrSelfNeighbour)
			}
		}
		row = slices.Clone(row)
		slices.Sort(row)
		norm[i] = slices.Compact(row)
	}
	return &Relation{kind: KindList, list: norm}, nil
}

// FromMatrix builds a relation from a binary adjacency matrix. The matrix
// must be square with entries 0 or 1, a zero diagonal and symmetric
// off-diagonal entries. The unit weights carry no information beyond
// adjacency, so only the neighbour indices are kept.
func FromMatrix(m Matrix) (*Relation, error) {
	n := len(m)
	for i, row := range m {
		if len(row) != n {
			return nil, fmt.Errorf("row %d: %w", i+1, ErrNotSquare)
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("row %d: %w", i+1, ErrNotBinary)
			}
			if v == 1 && j == i {
				return nil, fmt.Errorf("row %d: %w", i+1, ErrSelfNeighbour)
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i][j] != m[j][i] {
				return nil, fmt.Errorf("rows %d and %d: %w", i+1, j+1, ErrAsymmetric)
			}
		}
	}
	return &Relation{kind: KindMatrix, list: m.List()}, nil
}

// DetectKind inspects raw numeric rows, one per area, and reports whether
// they form an adjacency matrix or neighbour index lists. The rows are a
// matrix exactly when every row has length n with every entry 0 or 1 and
// a zero diagonal; anything else is read as 1-based index lists. With a
// single isolated area the two readings agree.
func DetectKind(rows [][]float64, n int) Kind {
	if n == 0 || len(rows) != n {
		return KindList
	}
	for i, row := range rows {
		if len(row) != n {
			return KindList
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				return KindList
			}
			if i == j && v != 0 {
				return KindList
			}
		}
	}
	return KindMatrix
}

// FromRows builds a relation from the raw rows of a neighbour column, one
// row per area, detecting the form with [DetectKind]. List entries are
// 1-based area numbers, the convention the column is written in; a single
// 0 encodes an area without neighbours. Matrix rows must satisfy the
// [FromMatrix] rules.
func FromRows(rows [][]float64, n int) (*Relation, error) {
	if DetectKind(rows, n) == KindMatrix {
		m := make(Matrix, n)
		for i, row := range rows {
			m[i] = make([]int, n)
			for j, v := range row {
				m[i][j] = int(v)
			}
		}
		return FromMatrix(m)
	}

	l := make(List, len(rows))
	for i, row := range rows {
		if len(row) == 1 && row[0] == 0 {
			continue
		}
		l[i] = make([]int, 0, len(row))
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
				return nil, fmt.Errorf("area %d: %w", i+1, ErrNonIntegerIndex)
			}
			idx := int(v)
			if idx < 1 || idx > len(rows) {
				return nil, fmt.Errorf("area %d: %w", i+1, ErrIndexOutOfRange)
			}
			l[i] = append(l[i], idx-1)
		}
	}
	return FromList(l)
}

// Kind reports which form the relation was built from.
func (r *Relation) Kind() Kind { return r.kind }

// Len returns the number of areas.
func (r *Relation) Len() int { return len(r.list) }

// Neighbours returns the neighbour indices of area i in ascending order.
// The returned slice is shared - treat it as read-only. Returns nil for
// an out-of-range i or an area without neighbours.
func (r *Relation) Neighbours(i int) []int {
	if i < 0 || i >= len(r.list) {
		return nil
	}
	return r.list[i]
}

// Card returns the cardinality (neighbour count) of area i.
func (r *Relation) Card(i int) int { return len(r.Neighbours(i)) }

// List returns a deep copy of the relation in list form.
func (r *Relation) List() List { return r.list.Clone() }

// Matrix returns the relation as a binary adjacency matrix. Only recorded
// directions are set; call [Relation.Symmetrize] first when an undirected
// matrix is needed.
func (r *Relation) Matrix() Matrix { return r.list.Matrix() }

// Pairs returns every adjacency as an unordered pair {low, high}, each
// pair exactly once, sorted lexicographically. A pair is present when
// either area records the other, so symmetric and one-sided input produce
// the same pairs.
func (r *Relation) Pairs() [][2]int {
	var pairs [][2]int
	for i, row := range r.list {
		for _, j := range row {
			lo, hi := i, j
			if lo > hi {
				lo, hi = hi, lo
			}
			pairs = append(pairs, [2]int{lo, hi})
		}
	}
	slices.SortFunc(pairs, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return slices.Compact(pairs)
}

// Symmetric reports whether every recorded neighbour records the relation
// back. Matrix-built relations are always symmetric.
func (r *Relation) Symmetric() bool {
	for i, row := range r.list {
		for _, j := range row {
			if !slices.Contains(r.list[j], i) {
				return false
			}
		}
	}
	return true
}

// Symmetrize returns a relation holding the union of both directions of
// every recorded adjacency. K-nearest relations are one-sided by
// construction and need this before matrix export. The receiver is not
// modified; the kind is preserved.
func (r *Relation) Symmetrize() *Relation {
	out := r.list.Clone()
	for i, row := range r.list {
		for _, j := range row {
			if !slices.Contains(out[j], i) {
				out[j] = append(out[j], i)
			}
		}
	}
	for i := range out {
		slices.Sort(out[i])
	}
	return &Relation{kind: r.kind, list: out}
}

// Rows returns the relation in the external row form: for a list
// relation, 1-based neighbour numbers per area with a single 0 for areas
// without neighbours; for a matrix relation, full 0/1 rows.
func (r *Relation) Rows() [][]int {
	if r.kind == KindMatrix {
		return r.list.Matrix()
	}
	rows := make([][]int, len(r.list))
	for i, row := range r.list {
		if len(row) == 0 {
			rows[i] = []int{0}
			continue
		}
		rows[i] = make([]int, len(row))
		for k, j := range row {
			rows[i][k] = j + 1
		}
	}
	return rows
}

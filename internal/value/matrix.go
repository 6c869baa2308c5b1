package value

import "cantus/internal/decimal"

// Matrix is an ordered sequence of rows; each cell is a Reference holding a
// Number or Complex (spec.md §3). Construction accepts rows given either
// as a flat scalar (wrapped into a single-cell row) or as a nested Matrix
// (spliced in as however many rows the nested matrix has) — Normalize
// then pads every row to a common Width, per spec.md §4.3.2.
type Matrix struct {
	Rows  [][]*Reference
	Width int
}

// RowItem is a pre-normalization row descriptor: exactly one of Scalar or
// Nested is set.
type RowItem struct {
	Scalar Value
	Nested *Matrix
}

// NewMatrixFromItems builds a Matrix from row descriptors and normalizes
// it immediately, matching spec.md §3's invariant that a Matrix's height
// always equals its row count and every row's width equals the matrix
// width after normalize.
func NewMatrixFromItems(items []RowItem) *Matrix {
	m := &Matrix{}
	for _, it := range items {
		if it.Nested != nil {
			m.Rows = append(m.Rows, it.Nested.Rows...)
			continue
		}
		m.Rows = append(m.Rows, []*Reference{NewReference(it.Scalar)})
	}
	return m.Normalize()
}

// NewMatrix builds a Matrix from explicit rows of Values.
func NewMatrix(rows [][]Value) *Matrix {
	m := &Matrix{}
	for _, row := range rows {
		r := make([]*Reference, len(row))
		for i, v := range row {
			r[i] = NewReference(v)
		}
		m.Rows = append(m.Rows, r)
	}
	return m.Normalize()
}

// NewColumnVector wraps each scalar as its own single-cell row (a height-n,
// width-1 matrix), the "wrap scalars" half of normalize applied to a bare
// list literal like `[1,2,3]`.
func NewColumnVector(scalars []Value) *Matrix {
	m := &Matrix{}
	for _, v := range scalars {
		m.Rows = append(m.Rows, []*Reference{NewReference(v)})
	}
	return m.Normalize()
}

func (m *Matrix) Kind() Kind { return KindMatrix }

func (m *Matrix) Height() int { return len(m.Rows) }

// Normalize pads every row with zero Numbers up to the widest row's
// length, then records that as Width. It is idempotent (spec.md testable
// property 4): renormalizing an already-normalized matrix is a no-op.
func (m *Matrix) Normalize() *Matrix {
	width := 0
	for _, row := range m.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range m.Rows {
		if len(row) < width {
			padded := make([]*Reference, width)
			copy(padded, row)
			for j := len(row); j < width; j++ {
				padded[j] = NewReference(NewNumber(decimal.Zero()))
			}
			m.Rows[i] = padded
		}
	}
	m.Width = width
	return m
}

func (m *Matrix) DeepCopy() Value {
	rows := make([][]*Reference, len(m.Rows))
	for i, row := range m.Rows {
		r := make([]*Reference, len(row))
		for j, cell := range row {
			r[j] = NewReference(cell.Resolve().DeepCopy())
		}
		rows[i] = r
	}
	return &Matrix{Rows: rows, Width: m.Width}
}

func (m *Matrix) Display() string {
	s := "["
	for i, row := range m.Rows {
		if i > 0 {
			s += ","
		}
		s += "["
		for j, cell := range row {
			if j > 0 {
				s += ","
			}
			s += cell.Display()
		}
		s += "]"
	}
	return s + "]"
}

// At returns the cell reference at (row, col), or false if out of range.
func (m *Matrix) At(row, col int) (*Reference, bool) {
	if row < 0 || row >= len(m.Rows) || col < 0 || col >= m.Width {
		return nil, false
	}
	return m.Rows[row][col], true
}

// IsSquare reports whether the matrix has equal height and width.
func (m *Matrix) IsSquare() bool { return m.Height() == m.Width }

// Transpose returns a new matrix with rows and columns swapped.
func (m *Matrix) Transpose() *Matrix {
	rows := make([][]Value, m.Width)
	for j := 0; j < m.Width; j++ {
		rows[j] = make([]Value, m.Height())
		for i := 0; i < m.Height(); i++ {
			rows[j][i] = m.Rows[i][j].Resolve().DeepCopy()
		}
	}
	return NewMatrix(rows)
}

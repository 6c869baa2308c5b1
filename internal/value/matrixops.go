package value

import (
	"math"

	"cantus/internal/decimal"
)

// numCell is a numeric promotion of a matrix cell: BigDecimal stays a
// Decimal, Complex is carried as (re, im); any other value becomes an
// undefined Decimal.
type numCell struct {
	d       decimal.Decimal
	complex bool
	re, im  float64
}

func toNumCell(v Value) numCell {
	switch vv := Unwrap(v).(type) {
	case *Number:
		return numCell{d: vv.D}
	case *Complex:
		return numCell{complex: true, re: vv.Re, im: vv.Im}
	default:
		return numCell{d: decimal.Undef()}
	}
}

func (c numCell) toValue() Value {
	if c.complex {
		return NewComplex(c.re, c.im)
	}
	return NewNumber(c.d)
}

func numAdd(a, b numCell) numCell {
	if a.complex || b.complex {
		ac, bc := a.asComplex(), b.asComplex()
		r := ComplexAdd(ac, bc)
		return numCell{complex: true, re: r.Re, im: r.Im}
	}
	return numCell{d: decimal.Add(a.d, b.d)}
}

func numMul(a, b numCell) numCell {
	if a.complex || b.complex {
		ac, bc := a.asComplex(), b.asComplex()
		r := ComplexMul(ac, bc)
		return numCell{complex: true, re: r.Re, im: r.Im}
	}
	return numCell{d: decimal.Mul(a.d, b.d)}
}

func numSub(a, b numCell) numCell {
	if a.complex || b.complex {
		ac, bc := a.asComplex(), b.asComplex()
		r := ComplexSub(ac, bc)
		return numCell{complex: true, re: r.Re, im: r.Im}
	}
	return numCell{d: decimal.Sub(a.d, b.d)}
}

// numDiv is only ever called with a pivot-guaranteed-nonzero divisor
// (RREF always selects a nonzero pivot row before scaling/eliminating),
// so a zero-divisor error here can only mean a caller broke that
// invariant; fall back to Undef rather than propagating, matching the
// rest of this file's degrade-to-Undef-on-domain-violation style.
func numDiv(a, b numCell) numCell {
	if a.complex || b.complex {
		ac, bc := a.asComplex(), b.asComplex()
		r := ComplexDiv(ac, bc)
		return numCell{complex: true, re: r.Re, im: r.Im}
	}
	d, err := decimal.Div(a.d, b.d)
	if err != nil {
		return numCell{d: decimal.Undef()}
	}
	return numCell{d: d}
}

func (c numCell) asComplex() *Complex {
	if c.complex {
		return &Complex{Re: c.re, Im: c.im}
	}
	return &Complex{Re: c.d.Float64()}
}

func (c numCell) isZero() bool {
	if c.complex {
		return c.re == 0 && c.im == 0
	}
	return decimal.IsZero(c.d)
}

func (c numCell) neg() numCell {
	if c.complex {
		return numCell{complex: true, re: -c.re, im: -c.im}
	}
	return numCell{d: decimal.Neg(c.d)}
}

// MatrixMultiply computes (m×k)·(k×n) → m×n (spec.md §4.3.2).
func MatrixMultiply(a, b *Matrix) (*Matrix, bool) {
	if a.Width != b.Height() {
		return nil, false
	}
	rows := make([][]Value, a.Height())
	for i := 0; i < a.Height(); i++ {
		row := make([]Value, b.Width)
		for j := 0; j < b.Width; j++ {
			acc := numCell{d: decimal.Zero()}
			for k := 0; k < a.Width; k++ {
				av, _ := a.At(i, k)
				bv, _ := b.At(k, j)
				acc = numAdd(acc, numMul(toNumCell(av.Resolve()), toNumCell(bv.Resolve())))
			}
			row[j] = acc.toValue()
		}
		rows[i] = row
	}
	return NewMatrix(rows), true
}

// Determinant computes a cofactor expansion along row 0 (spec.md §4.3.2).
// Only defined for square matrices; 0×0 is 1, 1×1 is its single element.
func Determinant(m *Matrix) (Value, bool) {
	if !m.IsSquare() {
		return nil, false
	}
	n := m.Height()
	if n == 0 {
		return NewNumber(decimal.FromInt64(1)), true
	}
	if n == 1 {
		v, _ := m.At(0, 0)
		return v.Resolve().DeepCopy(), true
	}
	acc := numCell{d: decimal.Zero()}
	for col := 0; col < n; col++ {
		minor := cofactorMinor(m, 0, col)
		subDet, ok := Determinant(minor)
		if !ok {
			return nil, false
		}
		cell, _ := m.At(0, col)
		term := numMul(toNumCell(cell.Resolve()), toNumCell(subDet))
		if col%2 == 1 {
			term = term.neg()
		}
		acc = numAdd(acc, term)
	}
	return acc.toValue(), true
}

func cofactorMinor(m *Matrix, skipRow, skipCol int) *Matrix {
	var rows [][]Value
	for i := 0; i < m.Height(); i++ {
		if i == skipRow {
			continue
		}
		var row []Value
		for j := 0; j < m.Width; j++ {
			if j == skipCol {
				continue
			}
			cell, _ := m.At(i, j)
			row = append(row, cell.Resolve().DeepCopy())
		}
		rows = append(rows, row)
	}
	return NewMatrix(rows)
}

// RREF reduces m to row-reduced echelon form via Gauss-Jordan elimination,
// optionally transforming augmented in lockstep (spec.md §4.3.2). Results
// are truncated to 19 digits then rounded to 11 to suppress residue.
func RREF(m *Matrix, augmented *Matrix) (*Matrix, *Matrix) {
	work := copyNumCells(m)
	var aug [][]numCell
	if augmented != nil {
		aug = copyNumCells(augmented)
	}

	rows, cols := len(work), m.Width
	lead := 0
	for r := 0; r < rows && lead < cols; r++ {
		pivotRow := -1
		for i := r; i < rows; i++ {
			if !work[i][lead].isZero() {
				pivotRow = i
				break
			}
		}
		if pivotRow == -1 {
			lead++
			r--
			continue
		}
		work[r], work[pivotRow] = work[pivotRow], work[r]
		if aug != nil {
			aug[r], aug[pivotRow] = aug[pivotRow], aug[r]
		}

		pivot := work[r][lead]
		for j := 0; j < cols; j++ {
			work[r][j] = numDiv(work[r][j], pivot)
		}
		if aug != nil {
			for j := range aug[r] {
				aug[r][j] = numDiv(aug[r][j], pivot)
			}
		}

		for i := 0; i < rows; i++ {
			if i == r {
				continue
			}
			factor := work[i][lead]
			if factor.isZero() {
				continue
			}
			for j := 0; j < cols; j++ {
				work[i][j] = numSub(work[i][j], numMul(factor, work[r][j]))
			}
			if aug != nil {
				for j := range aug[i] {
					aug[i][j] = numSub(aug[i][j], numMul(factor, aug[r][j]))
				}
			}
		}
		lead++
	}

	return cellsToMatrix(work), cellsToMatrixOrNil(aug)
}

func copyNumCells(m *Matrix) [][]numCell {
	out := make([][]numCell, m.Height())
	for i := 0; i < m.Height(); i++ {
		out[i] = make([]numCell, m.Width)
		for j := 0; j < m.Width; j++ {
			cell, _ := m.At(i, j)
			out[i][j] = toNumCell(cell.Resolve())
		}
	}
	return out
}

func cellsToMatrix(cells [][]numCell) *Matrix {
	rows := make([][]Value, len(cells))
	for i, row := range cells {
		r := make([]Value, len(row))
		for j, c := range row {
			if !c.complex {
				c.d = decimal.TruncateThenRound(c.d)
			}
			r[j] = c.toValue()
		}
		rows[i] = r
	}
	return NewMatrix(rows)
}

func cellsToMatrixOrNil(cells [][]numCell) *Matrix {
	if cells == nil {
		return nil
	}
	return cellsToMatrix(cells)
}

// Identity builds the n×n identity matrix.
func Identity(n int) *Matrix {
	rows := make([][]Value, n)
	for i := 0; i < n; i++ {
		row := make([]Value, n)
		for j := 0; j < n; j++ {
			if i == j {
				row[j] = NewNumber(decimal.FromInt64(1))
			} else {
				row[j] = NewNumber(decimal.Zero())
			}
		}
		rows[i] = row
	}
	return NewMatrix(rows)
}

// Inverse RREFs [m | I]; if the left half becomes I, the right half is the
// inverse, else ok is false (spec.md §4.3.2). Its callers, `^-1` in Pow
// and the inv builtin, report a non-invertible matrix as an error; no
// NaN matrix is produced.
func Inverse(m *Matrix) (*Matrix, bool) {
	if !m.IsSquare() {
		return nil, false
	}
	id := Identity(m.Height())
	lhs, rhs := RREF(m, id)
	if !matrixIsIdentity(lhs) {
		return nil, false
	}
	return rhs, true
}

func matrixIsIdentity(m *Matrix) bool {
	if !m.IsSquare() {
		return false
	}
	for i := 0; i < m.Height(); i++ {
		for j := 0; j < m.Width; j++ {
			cell, _ := m.At(i, j)
			c := toNumCell(cell.Resolve())
			want := 0
			if i == j {
				want = 1
			}
			if c.complex {
				if math.Abs(c.re-float64(want)) > 1e-9 || math.Abs(c.im) > 1e-9 {
					return false
				}
				continue
			}
			diff := decimal.Sub(c.d, decimal.FromInt64(int64(want)))
			if decimal.Abs(diff).Float64() > 1e-9 {
				return false
			}
		}
	}
	return true
}

// CrossProduct is defined only for column vectors in R^3 (spec.md
// §4.3.2); both operands are zero-padded to height 3 first.
func CrossProduct(a, b *Matrix) (*Matrix, bool) {
	if a.Width != 1 || b.Width != 1 {
		return nil, false
	}
	av := padColumn3(a)
	bv := padColumn3(b)
	cross := []Value{
		numSub(numMul(av[1], bv[2]), numMul(av[2], bv[1])).toValue(),
		numSub(numMul(av[2], bv[0]), numMul(av[0], bv[2])).toValue(),
		numSub(numMul(av[0], bv[1]), numMul(av[1], bv[0])).toValue(),
	}
	return NewColumnVector(cross), true
}

func padColumn3(m *Matrix) [3]numCell {
	var out [3]numCell
	for i := range out {
		out[i] = numCell{d: decimal.Zero()}
	}
	for i := 0; i < m.Height() && i < 3; i++ {
		cell, _ := m.At(i, 0)
		out[i] = toNumCell(cell.Resolve())
	}
	return out
}

// NormSquared sums the squares of every element (spec.md §4.3.2).
func NormSquared(m *Matrix) Value {
	acc := numCell{d: decimal.Zero()}
	for i := 0; i < m.Height(); i++ {
		for j := 0; j < m.Width; j++ {
			cell, _ := m.At(i, j)
			c := toNumCell(cell.Resolve())
			acc = numAdd(acc, numMul(c, c))
		}
	}
	return acc.toValue()
}

// Magnitude is the square root of NormSquared, complex-aware.
func Magnitude(m *Matrix) Value {
	ns := toNumCell(NormSquared(m))
	if ns.complex {
		mag := (&Complex{Re: ns.re, Im: ns.im}).Magnitude()
		return NewNumber(decimal.FromFloat64(math.Sqrt(mag)))
	}
	f := ns.d.Float64()
	return NewNumber(decimal.FromFloat64(math.Sqrt(f)))
}

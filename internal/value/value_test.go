package value

import (
	"testing"

	"cantus/internal/decimal"
)

func num(n int64) Value { return NewNumber(decimal.FromInt64(n)) }

func TestComparatorTotality(t *testing.T) {
	pairs := [][2]Value{
		{num(1), num(2)},
		{num(2), num(2)},
		{NewText("a"), NewText("b")},
		{NewBoolean(true), NewBoolean(false)},
		{num(1), NewText("1")},
	}
	for _, p := range pairs {
		c1 := Compare(p[0], p[1])
		c2 := Compare(p[1], p[0])
		if c1 != -c2 {
			t.Errorf("Compare not antisymmetric: cmp(a,b)=%d cmp(b,a)=%d", c1, c2)
		}
	}
}

func TestMatrixNormalizeIdempotent(t *testing.T) {
	m := NewMatrix([][]Value{{num(1), num(2)}, {num(3)}})
	m2 := m.Normalize()
	if m2.Width != 2 {
		t.Fatalf("width = %d, want 2", m2.Width)
	}
	for _, row := range m2.Rows {
		if len(row) != m2.Width {
			t.Fatalf("row width %d != matrix width %d", len(row), m2.Width)
		}
	}
}

func TestMatrixMultiply(t *testing.T) {
	a := NewMatrix([][]Value{{num(1), num(2)}, {num(3), num(4)}})
	b := NewMatrix([][]Value{{num(5), num(6)}, {num(7), num(8)}})
	got, ok := MatrixMultiply(a, b)
	if !ok {
		t.Fatal("multiply failed")
	}
	want := [][]int64{{19, 22}, {43, 50}}
	for i := range want {
		for j := range want[i] {
			cell, _ := got.At(i, j)
			n := cell.Resolve().(*Number)
			if decimal.Cmp(n.D, decimal.FromInt64(want[i][j])) != 0 {
				t.Errorf("[%d][%d] = %s, want %d", i, j, n.D.String(), want[i][j])
			}
		}
	}
}

func TestDeterminant(t *testing.T) {
	m := NewMatrix([][]Value{{num(2), num(0)}, {num(0), num(3)}})
	d, ok := Determinant(m)
	if !ok {
		t.Fatal("determinant failed")
	}
	n := d.(*Number)
	if decimal.Cmp(n.D, decimal.FromInt64(6)) != 0 {
		t.Errorf("det = %s, want 6", n.D.String())
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := NewMatrix([][]Value{{num(1), num(2)}, {num(3), num(4)}})
	inv, ok := Inverse(m)
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	prod, ok := MatrixMultiply(m, inv)
	if !ok {
		t.Fatal("multiply failed")
	}
	if !matrixIsIdentity(prod) {
		t.Errorf("m * m.inverse() should be identity, got %s", prod.Display())
	}
}

func TestPowNegativeOneInvertsMatrix(t *testing.T) {
	m := NewMatrix([][]Value{{num(1), num(2)}, {num(3), num(4)}})
	inv, err := Pow(m, num(-1))
	if err != nil {
		t.Fatal(err)
	}
	product, err := Mul(inv, m)
	if err != nil {
		t.Fatal(err)
	}
	if !matrixIsIdentity(product.(*Matrix)) {
		t.Errorf("m^-1 * m should be identity, got %s", product.Display())
	}
}

func TestPowMatrixIntegerExponent(t *testing.T) {
	m := NewMatrix([][]Value{{num(1), num(1)}, {num(0), num(1)}})
	result, err := Pow(m, num(3))
	if err != nil {
		t.Fatal(err)
	}
	cell, _ := result.(*Matrix).At(0, 1)
	if Compare(cell.Resolve(), num(3)) != 0 {
		t.Errorf("[[1,1],[0,1]]^3 top-right = %v, want 3", cell.Resolve().Display())
	}
}

func TestDeepCopyIndependence(t *testing.T) {
	orig := NewMatrix([][]Value{{num(1), num(2)}})
	cp := orig.DeepCopy().(*Matrix)
	cell, _ := cp.At(0, 0)
	cell.Store(num(99))
	origCell, _ := orig.At(0, 0)
	if Compare(origCell.Resolve(), num(1)) != 0 {
		t.Errorf("mutating the copy changed the original")
	}
}

func TestSetUnion(t *testing.T) {
	a := NewSet()
	a.Add(num(1))
	a.Add(num(2))
	a.Add(num(3))
	b := NewSet()
	b.Add(num(3))
	b.Add(num(4))
	u := Union(a, b)
	want := []int64{1, 2, 3, 4}
	if len(u.Entries) != len(want) {
		t.Fatalf("union has %d entries, want %d", len(u.Entries), len(want))
	}
	for i, w := range want {
		n := u.Entries[i].Key.(*Number)
		if decimal.Cmp(n.D, decimal.FromInt64(w)) != 0 {
			t.Errorf("entry %d = %s, want %d", i, n.D.String(), w)
		}
	}
}

func TestReferenceResolveTerminates(t *testing.T) {
	r := NewReference(num(5))
	if Compare(r.Resolve(), num(5)) != 0 {
		t.Errorf("resolve mismatch")
	}
	outer := NewReference(r)
	if Compare(outer.Resolve(), num(5)) != 0 {
		t.Errorf("multi-level resolve mismatch")
	}
}

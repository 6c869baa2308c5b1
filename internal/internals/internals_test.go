package internals

import (
	"testing"

	"cantus/internal/decimal"
	"cantus/internal/value"
)

func num(n int64) value.Value { return value.NewNumber(decimal.FromInt64(n)) }

func TestDefaultRegistersCoreBuiltins(t *testing.T) {
	r := Default()
	for _, name := range []string{"abs", "sqrt", "upper", "len", "range"} {
		if !r.Has(name) {
			t.Errorf("Default() missing builtin %q", name)
		}
	}
	if r.Has("not_a_builtin") {
		t.Errorf("Has() reported a builtin that was never registered")
	}
}

func TestCallUnknownBuiltinErrors(t *testing.T) {
	r := Default()
	if _, err := r.Call("not_a_builtin", nil); err == nil {
		t.Error("expected Call on an unregistered name to error")
	}
}

func TestAbsAndSqrt(t *testing.T) {
	r := Default()
	result, err := r.Call("abs", []value.Value{num(-5)})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(result, num(5)) != 0 {
		t.Errorf("abs(-5) = %v, want 5", result.Display())
	}

	result, err = r.Call("sqrt", []value.Value{num(9)})
	if err != nil {
		t.Fatal(err)
	}
	n, ok := value.Unwrap(result).(*value.Number)
	if !ok || n.D.Float64() != 3 {
		t.Errorf("sqrt(9) = %v, want 3", result.Display())
	}
}

func TestMinMax(t *testing.T) {
	r := Default()
	result, err := r.Call("min", []value.Value{num(5), num(1), num(3)})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(result, num(1)) != 0 {
		t.Errorf("min(5,1,3) = %v, want 1", result.Display())
	}

	result, err = r.Call("max", []value.Value{num(5), num(1), num(3)})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(result, num(5)) != 0 {
		t.Errorf("max(5,1,3) = %v, want 5", result.Display())
	}
}

func TestUpperLowerTrim(t *testing.T) {
	r := Default()
	result, err := r.Call("upper", []value.Value{value.NewText("abc")})
	if err != nil {
		t.Fatal(err)
	}
	if txt := value.Unwrap(result).(*value.Text); txt.S != "ABC" {
		t.Errorf("upper(abc) = %q, want ABC", txt.S)
	}

	result, err = r.Call("trim", []value.Value{value.NewText("  hi  ")})
	if err != nil {
		t.Fatal(err)
	}
	if txt := value.Unwrap(result).(*value.Text); txt.S != "hi" {
		t.Errorf("trim = %q, want %q", txt.S, "hi")
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	r := Default()
	split, err := r.Call("split", []value.Value{value.NewText("a,b,c"), value.NewText(",")})
	if err != nil {
		t.Fatal(err)
	}
	list, ok := value.Unwrap(split).(*value.LinkedList)
	if !ok || list.Len() != 3 {
		t.Fatalf("split(a,b,c) = %v, want a 3-element LinkedList", split.Display())
	}

	joined, err := r.Call("join", []value.Value{split, value.NewText("-")})
	if err != nil {
		t.Fatal(err)
	}
	if txt := value.Unwrap(joined).(*value.Text); txt.S != "a-b-c" {
		t.Errorf("join = %q, want a-b-c", txt.S)
	}
}

func TestLenAcrossKinds(t *testing.T) {
	r := Default()
	cases := []struct {
		name string
		v    value.Value
		want int64
	}{
		{"text", value.NewText("hello"), 5},
		{"linkedlist", value.NewLinkedListFrom([]value.Value{num(1), num(2)}), 2},
	}
	for _, c := range cases {
		result, err := r.Call("len", []value.Value{c.v})
		if err != nil {
			t.Fatalf("len(%s): %v", c.name, err)
		}
		if value.Compare(result, num(c.want)) != 0 {
			t.Errorf("len(%s) = %v, want %d", c.name, result.Display(), c.want)
		}
	}
}

func TestRangeVariants(t *testing.T) {
	r := Default()
	result, err := r.Call("range", []value.Value{num(3)})
	if err != nil {
		t.Fatal(err)
	}
	list := value.Unwrap(result).(*value.LinkedList)
	if list.Len() != 3 {
		t.Fatalf("range(3) has %d elements, want 3", list.Len())
	}
	got := list.ToSlice()
	for i, v := range got {
		if value.Compare(v, num(int64(i))) != 0 {
			t.Errorf("range(3)[%d] = %v, want %d", i, v.Display(), i)
		}
	}

	if _, err := r.Call("range", []value.Value{num(0), num(10), num(0)}); err == nil {
		t.Error("expected range with a zero step to error")
	}
}

func TestSorted(t *testing.T) {
	r := Default()
	list := value.NewLinkedListFrom([]value.Value{num(3), num(1), num(2)})
	result, err := r.Call("sorted", []value.Value{list})
	if err != nil {
		t.Fatal(err)
	}
	got := value.Unwrap(result).(*value.LinkedList).ToSlice()
	want := []int64{1, 2, 3}
	for i, w := range want {
		if value.Compare(got[i], num(w)) != 0 {
			t.Errorf("sorted[%d] = %v, want %d", i, got[i].Display(), w)
		}
	}
}

func TestTypeBuiltin(t *testing.T) {
	r := Default()
	result, err := r.Call("type", []value.Value{num(1)})
	if err != nil {
		t.Fatal(err)
	}
	if txt := value.Unwrap(result).(*value.Text); txt.S != value.KindNumber.String() {
		t.Errorf("type(1) = %q, want %q", txt.S, value.KindNumber.String())
	}
}

func TestDetInvCrossBuiltins(t *testing.T) {
	r := Default()
	m := value.NewMatrix([][]value.Value{
		{num(2), num(0)},
		{num(0), num(3)},
	})
	det, err := r.Call("det", []value.Value{m})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(det, num(6)) != 0 {
		t.Errorf("det([[2,0],[0,3]]) = %v, want 6", det.Display())
	}

	inv, err := r.Call("inv", []value.Value{m})
	if err != nil {
		t.Fatal(err)
	}
	product, err := value.Mul(inv, m)
	if err != nil {
		t.Fatal(err)
	}
	id, ok := value.Unwrap(product).(*value.Matrix)
	if !ok {
		t.Fatalf("inv(m)*m did not produce a Matrix, got %v", product.Display())
	}
	for i := 0; i < id.Height(); i++ {
		for j := 0; j < id.Width; j++ {
			cell, _ := id.At(i, j)
			want := int64(0)
			if i == j {
				want = 1
			}
			if value.Compare(cell.Resolve(), num(want)) != 0 {
				t.Errorf("inv(m)*m[%d][%d] = %v, want %d", i, j, cell.Resolve().Display(), want)
			}
		}
	}

	a := value.NewColumnVector([]value.Value{num(1), num(0), num(0)})
	b := value.NewColumnVector([]value.Value{num(0), num(1), num(0)})
	cross, err := r.Call("cross", []value.Value{a, b})
	if err != nil {
		t.Fatal(err)
	}
	cm, ok := value.Unwrap(cross).(*value.Matrix)
	if !ok {
		t.Fatalf("cross did not produce a Matrix, got %v", cross.Display())
	}
	wantZ := []int64{0, 0, 1}
	for i, w := range wantZ {
		cell, _ := cm.At(i, 0)
		if value.Compare(cell.Resolve(), num(w)) != 0 {
			t.Errorf("i x j component %d = %v, want %d", i, cell.Resolve().Display(), w)
		}
	}
}

func TestMergeOverwritesOnClash(t *testing.T) {
	base := New()
	base.Register("f", func(args []value.Value) (value.Value, error) { return num(1), nil })
	override := New()
	override.Register("f", func(args []value.Value) (value.Value, error) { return num(2), nil })
	base.Merge(override)

	result, err := base.Call("f", nil)
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(result, num(2)) != 0 {
		t.Errorf("Merge did not overwrite clashing name, got %v", result.Display())
	}
}

package exprevaluator

import (
	"testing"

	"cantus/internal/decimal"
	"cantus/internal/operator"
	"cantus/internal/value"
)

// mapHost is a minimal Host backed by a plain map, enough to exercise
// identifier resolution and assignment without the real scope tree.
type mapHost struct {
	vars map[string]*value.Reference
}

func newMapHost() *mapHost { return &mapHost{vars: make(map[string]*value.Reference)} }

func (h *mapHost) ResolveIdentifier(name string) (value.Value, *value.Reference, bool) {
	ref, ok := h.vars[name]
	if !ok {
		ref = value.NewReference(value.NewNumber(decimal.FromInt64(0)))
		h.vars[name] = ref
	}
	return ref.Resolve(), ref, true
}

func (h *mapHost) Call(name string, args []value.Value) (value.Value, bool, error) {
	return nil, false, nil
}

func (h *mapHost) InvokeLambda(lam *value.Lambda, args []value.Value) (value.Value, error) {
	return nil, nil
}

func (h *mapHost) SpawnAsync(exprText string) (value.Value, error) {
	return num(0), nil
}

func num(n int64) value.Value { return value.NewNumber(decimal.FromInt64(n)) }

func evalNum(t *testing.T, ev *Evaluator, expr string) float64 {
	t.Helper()
	result, err := ev.Evaluate(expr, Options{})
	if err != nil {
		t.Fatalf("evaluate %q: %v", expr, err)
	}
	n, ok := value.Unwrap(result).(*value.Number)
	if !ok {
		t.Fatalf("evaluate %q: want Number, got %s", expr, result.Kind())
	}
	return n.D.Float64()
}

func TestArithmeticPrecedence(t *testing.T) {
	ev := New(operator.Default(), newMapHost())
	if got := evalNum(t, ev, "2+3*4"); got != 14 {
		t.Fatalf("2+3*4 = %v, want 14", got)
	}
	if got := evalNum(t, ev, "(2+3)*4"); got != 20 {
		t.Fatalf("(2+3)*4 = %v, want 20", got)
	}
	if got := evalNum(t, ev, "2^3^2"); got != 512 {
		t.Fatalf("2^3^2 = %v, want 512 (right-assoc)", got)
	}
}

func TestImplicitMultiplication(t *testing.T) {
	ev := New(operator.Default(), newMapHost())
	if got := evalNum(t, ev, "2(3+4)"); got != 14 {
		t.Fatalf("2(3+4) = %v, want 14", got)
	}
}

func TestChainedAssignmentRightAssoc(t *testing.T) {
	host := newMapHost()
	ev := New(operator.Default(), host)
	result, err := ev.Evaluate("a:=b:=5", Options{})
	if err != nil {
		t.Fatalf("evaluate chained assignment: %v", err)
	}
	if n, ok := value.Unwrap(result).(*value.Number); !ok || n.D.Float64() != 5 {
		t.Fatalf("a:=b:=5 result = %v, want 5", result)
	}
	a, _, _ := host.ResolveIdentifier("a")
	b, _, _ := host.ResolveIdentifier("b")
	if value.Unwrap(a).(*value.Number).D.Float64() != 5 {
		t.Fatalf("a = %v, want 5", a)
	}
	if value.Unwrap(b).(*value.Number).D.Float64() != 5 {
		t.Fatalf("b = %v, want 5", b)
	}
}

func TestEqualsComparesWhenNotAssigning(t *testing.T) {
	ev := New(operator.Default(), newMapHost())
	result, err := ev.Evaluate("3=3", Options{})
	if err != nil {
		t.Fatalf("evaluate 3=3: %v", err)
	}
	if b, ok := value.Unwrap(result).(*value.Boolean); !ok || !b.B {
		t.Fatalf("3=3 = %v, want true", result)
	}
}

func TestMatrixMultiplication(t *testing.T) {
	ev := New(operator.Default(), newMapHost())
	result, err := ev.Evaluate("[[1,2],[3,4]]*[[5,6],[7,8]]", Options{})
	if err != nil {
		t.Fatalf("evaluate matrix multiply: %v", err)
	}
	m, ok := value.Unwrap(result).(*value.Matrix)
	if !ok {
		t.Fatalf("want Matrix, got %s", result.Kind())
	}
	want := [][]int64{{19, 22}, {43, 50}}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			ref, _ := m.At(r, c)
			got := value.Unwrap(ref.Resolve()).(*value.Number).D.Float64()
			if got != float64(want[r][c]) {
				t.Fatalf("cell [%d][%d] = %v, want %v", r, c, got, want[r][c])
			}
		}
	}
}

func TestSetUnion(t *testing.T) {
	ev := New(operator.Default(), newMapHost())
	result, err := ev.Evaluate("{1,2,3}+{3,4}", Options{})
	if err != nil {
		t.Fatalf("evaluate set union: %v", err)
	}
	s, ok := value.Unwrap(result).(*value.Set)
	if !ok {
		t.Fatalf("want Set, got %s", result.Kind())
	}
	if len(s.Entries) != 4 {
		t.Fatalf("union has %d entries, want 4", len(s.Entries))
	}
}

func TestColumnVectorAddition(t *testing.T) {
	ev := New(operator.Default(), newMapHost())
	result, err := ev.Evaluate("[1,0,1]+[0,1,0]", Options{})
	if err != nil {
		t.Fatalf("evaluate vector add: %v", err)
	}
	m, ok := value.Unwrap(result).(*value.Matrix)
	if !ok {
		t.Fatalf("want Matrix, got %s", result.Kind())
	}
	want := []int64{1, 1, 1}
	for i, w := range want {
		ref, _ := m.At(i, 0)
		got := value.Unwrap(ref.Resolve()).(*value.Number).D.Float64()
		if got != float64(w) {
			t.Fatalf("row %d = %v, want %v", i, got, w)
		}
	}
}

func TestIndexIntoMatrixCell(t *testing.T) {
	host := newMapHost()
	ev := New(operator.Default(), host)
	host.vars["m"] = value.NewReference(value.NewMatrix([][]value.Value{
		{num(1), num(2)},
		{num(3), num(4)},
	}))
	result, err := ev.Evaluate("m[0][0]", Options{})
	if err != nil {
		t.Fatalf("evaluate m[0][0]: %v", err)
	}
	if n, ok := value.Unwrap(result).(*value.Number); !ok || n.D.Float64() != 1 {
		t.Fatalf("m[0][0] = %v, want 1", result)
	}
}

func TestStringConcatViaPlus(t *testing.T) {
	ev := New(operator.Default(), newMapHost())
	result, err := ev.Evaluate(`"foo"+"bar"`, Options{})
	if err != nil {
		t.Fatalf("evaluate string concat: %v", err)
	}
	if txt, ok := value.Unwrap(result).(*value.Text); !ok || txt.S != "foobar" {
		t.Fatalf("\"foo\"+\"bar\" = %v, want foobar", result)
	}
}

package operator

import (
	"testing"

	"cantus/internal/decimal"
	"cantus/internal/value"
)

func num(n int64) value.Value { return value.NewNumber(decimal.FromInt64(n)) }

func TestArithmeticDispatch(t *testing.T) {
	tbl := Default()
	add := tbl.Lookup("+", PrecAddSub, Binary)
	if add == nil {
		t.Fatal("expected + to be registered at add_sub")
	}
	result, err := add.Exec([]Operand{{Val: num(3)}, {Val: num(4)}})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(result, num(7)) != 0 {
		t.Errorf("3+4 = %v, want 7", result.Display())
	}

	mul := tbl.Lookup("*", PrecMulDiv, Binary)
	result, err = mul.Exec([]Operand{{Val: num(3)}, {Val: num(4)}})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(result, num(12)) != 0 {
		t.Errorf("3*4 = %v, want 12", result.Display())
	}
}

func TestEqualsDefersWhenLHSIsReference(t *testing.T) {
	tbl := Default()
	eqAtComparison := tbl.Lookup("=", PrecComparison, Binary)
	if eqAtComparison == nil {
		t.Fatal("expected = to be registered at comparison precedence")
	}
	ref := value.NewReference(num(1))
	result, err := eqAtComparison.Exec([]Operand{{Val: ref.Resolve(), Ref: ref}, {Val: num(5)}})
	if err != nil {
		t.Fatal(err)
	}
	if !value.IsDefer(result) {
		t.Errorf("expected = to defer when LHS is a reference, got %v", result.Display())
	}

	assign := tbl.NextLower("=", PrecComparison)
	if assign == nil || assign.Precedence != PrecAssignment {
		t.Fatal("expected = to also be registered at assignment precedence")
	}
	stored, err := assign.Exec([]Operand{{Val: ref.Resolve(), Ref: ref}, {Val: num(5)}})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(stored, num(5)) != 0 || value.Compare(ref.Resolve(), num(5)) != 0 {
		t.Errorf("expected assignment to store 5 into the reference")
	}
}

func TestEqualsInConditionModeNeverDefers(t *testing.T) {
	tbl := Default()
	eq := tbl.Lookup("=", PrecComparison, Binary)
	ref := value.NewReference(num(1))
	result, err := eq.Exec([]Operand{{Val: ref.Resolve(), Ref: ref, ConditionMode: true}, {Val: num(1)}})
	if err != nil {
		t.Fatal(err)
	}
	b, ok := result.(*value.Boolean)
	if !ok || !b.B {
		t.Errorf("expected `if x = 1` to compare true without reassigning, got %v", result.Display())
	}
	if value.Compare(ref.Resolve(), num(1)) != 0 {
		t.Errorf("condition mode must not mutate the reference, ref is now %v", ref.Resolve().Display())
	}
}

func TestTupleDestructuringAssignment(t *testing.T) {
	tbl := Default()
	aRef := value.NewReference(num(0))
	bRef := value.NewReference(num(0))
	lhs := value.NewTupleFromRefs([]*value.Reference{aRef, bRef})
	rhs := value.NewTuple(num(1), num(2))

	assign := tbl.Lookup("=", PrecAssignment, Binary)
	if assign == nil {
		t.Fatal("expected = to be registered at assignment precedence")
	}
	_, err := assign.Exec([]Operand{{Val: lhs}, {Val: rhs}})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(aRef.Resolve(), num(1)) != 0 || value.Compare(bRef.Resolve(), num(2)) != 0 {
		t.Errorf("expected a,b = 1,2 to store 1 and 2, got %v and %v", aRef.Resolve().Display(), bRef.Resolve().Display())
	}
}

func TestEqualsDefersWhenLHSIsTuple(t *testing.T) {
	tbl := Default()
	eqAtComparison := tbl.Lookup("=", PrecComparison, Binary)
	aRef := value.NewReference(num(0))
	bRef := value.NewReference(num(0))
	lhs := value.NewTupleFromRefs([]*value.Reference{aRef, bRef})
	result, err := eqAtComparison.Exec([]Operand{{Val: lhs}, {Val: value.NewTuple(num(1), num(2))}})
	if err != nil {
		t.Fatal(err)
	}
	if !value.IsDefer(result) {
		t.Errorf("expected = to defer when LHS is a tuple, got %v", result.Display())
	}
}

func TestEqualsWithoutReferenceComparesImmediately(t *testing.T) {
	tbl := Default()
	eq := tbl.Lookup("=", PrecComparison, Binary)
	result, err := eq.Exec([]Operand{{Val: num(5)}, {Val: num(5)}})
	if err != nil {
		t.Fatal(err)
	}
	b, ok := result.(*value.Boolean)
	if !ok || !b.B {
		t.Errorf("expected 5 = 5 to compare true, got %v", result.Display())
	}
}

func TestIncDecRejectsNonReference(t *testing.T) {
	tbl := Default()
	inc := tbl.Lookup("++", PrecAssignment, UnaryAfter)
	if _, err := inc.Exec([]Operand{{Val: num(1)}}); err == nil {
		t.Error("expected ++ on a non-reference operand to fail")
	}
	ref := value.NewReference(num(1))
	result, err := inc.Exec([]Operand{{Val: ref.Resolve(), Ref: ref}})
	if err != nil {
		t.Fatal(err)
	}
	if value.Compare(result, num(2)) != 0 {
		t.Errorf("++1 = %v, want 2", result.Display())
	}
}

func TestBracketMatchingHonorsNesting(t *testing.T) {
	tbl := Default()
	brackets := tbl.Brackets()
	paren, ok := FindOpen(brackets, "(a, [b, c], d)", 0)
	if !ok || paren.Name != "paren" {
		t.Fatal("expected to find the opening paren")
	}
	closeIdx := MatchClose(brackets, paren, "(a, [b, c], d)", 1)
	if closeIdx != len("(a, [b, c], d)")-1 {
		t.Errorf("expected close at the last index, got %d", closeIdx)
	}
}

func TestPrecedencesDescending(t *testing.T) {
	tbl := Default()
	ps := tbl.Precedences()
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[i-1] {
			t.Fatalf("Precedences() not descending: %v", ps)
		}
	}
	if ps[0] != PrecFactPct {
		t.Errorf("expected highest precedence first, got %d", ps[0])
	}
}

func TestSetUnionViaAdd(t *testing.T) {
	a := value.NewSet()
	a.Add(num(1))
	a.Add(num(2))
	b := value.NewSet()
	b.Add(num(2))
	b.Add(num(3))
	result, err := value.Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := result.(*value.Set)
	if !ok || len(s.Entries) != 3 {
		t.Errorf("expected {1,2}+{2,3} to union to 3 entries, got %v", result.Display())
	}
}

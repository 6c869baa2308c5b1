package scope

import (
	"testing"

	"cantus/internal/value"
	"cantus/internal/decimal"
)

func TestPrivateVariableHiddenFromSibling(t *testing.T) {
	store := NewStore()
	store.Set("cantus.a", "secret", value.NewNumber(decimal.FromInt64(1)), ModPrivate)

	if store.Has("cantus.b", nil, "secret") {
		t.Errorf("private var declared in cantus.a should not be visible from cantus.b")
	}
	if !store.Has("cantus.a", nil, "secret") {
		t.Errorf("private var should be visible from its own declaring scope")
	}
	if !store.Has("cantus.a.child", nil, "secret") {
		t.Errorf("private var should be visible from a descendant scope")
	}
}

func TestResolveWalksUpToRoot(t *testing.T) {
	store := NewStore()
	store.Set(Root, "g", value.NewNumber(decimal.FromInt64(5)), ModPublic)

	v, ok := store.Resolve("cantus.deep.nested", nil, "g")
	if !ok {
		t.Fatal("expected to resolve root-declared variable from a nested scope")
	}
	if value.Compare(v.Ref.Resolve(), value.NewNumber(decimal.FromInt64(5))) != 0 {
		t.Errorf("unexpected value")
	}
}

func TestResolveThroughImports(t *testing.T) {
	store := NewStore()
	store.Set("cantus.mathlib", "pi", value.NewNumber(decimal.FromInt64(3)), ModPublic)

	s := NewRootScope().Child("main")
	s.Import("cantus.mathlib")

	if !store.Has(s.Name, s.Imports(), "pi") {
		t.Errorf("expected to resolve variable through an imported scope")
	}
}

func TestUnsetRemovesVariable(t *testing.T) {
	store := NewStore()
	store.Set(Root, "x", value.NewNumber(decimal.FromInt64(1)), ModPublic)
	if !store.Unset(Root, "x") {
		t.Fatal("unset should report success")
	}
	if store.Has(Root, nil, "x") {
		t.Errorf("variable should be gone after unset")
	}
}

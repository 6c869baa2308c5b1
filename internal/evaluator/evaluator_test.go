package evaluator

import (
	"testing"
	"time"

	"cantus/internal/decimal"
	"cantus/internal/scope"
	"cantus/internal/value"
)

func TestEvalSavesAns(t *testing.T) {
	ev := New(Options{})
	result, err := ev.Eval("2+3", EvalOptions{})
	if err != nil {
		t.Fatal(err)
	}
	ans, ok := ev.GetVariableRef("ans")
	if !ok {
		t.Fatal("expected eval to save its result to ans")
	}
	if value.Compare(ans.Resolve(), result) != 0 {
		t.Errorf("ans = %v, want %v", ans.Resolve().Display(), result.Display())
	}
}

func TestEvalNoSaveAnsSkipsAns(t *testing.T) {
	ev := New(Options{})
	if _, err := ev.Eval("1+1", EvalOptions{NoSaveAns: true}); err != nil {
		t.Fatal(err)
	}
	if ev.HasVariable("ans") {
		t.Error("expected NoSaveAns to skip writing ans")
	}
}

func TestEvalExprRaw(t *testing.T) {
	ev := New(Options{})
	result, err := ev.EvalExprRaw("6*7", false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Display() != "42" {
		t.Errorf("6*7 = %s, want 42", result.Display())
	}
}

func TestSetGetUnsetVariable(t *testing.T) {
	ev := New(Options{})
	ev.SetVariable("x", value.NewNumber(decimal.FromInt64(10)), scope.ModPublic)
	if !ev.HasVariable("x") {
		t.Fatal("expected x to be set")
	}
	ref, ok := ev.GetVariableRef("x")
	if !ok || ref.Resolve().Display() != "10" {
		t.Fatalf("x = %v, want 10", ref.Resolve().Display())
	}
	if !ev.UnsetVariable("x") {
		t.Fatal("expected UnsetVariable to report success")
	}
	if ev.HasVariable("x") {
		t.Error("expected x to be gone after UnsetVariable")
	}
}

func TestEvalAsyncJoinAsync(t *testing.T) {
	ev := New(Options{})
	id, err := ev.EvalAsync("40+2", nil)
	if err != nil {
		t.Fatal(err)
	}
	result, err := ev.JoinAsync(id, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if result.Display() != "42" {
		t.Errorf("async 40+2 = %s, want 42", result.Display())
	}
}

func TestJoinAsyncUnknownID(t *testing.T) {
	ev := New(Options{})
	if _, err := ev.JoinAsync(999999, time.Second); err == nil {
		t.Error("expected JoinAsync on an unknown id to error")
	}
}

func TestAsyncBracketSpawnsAndJoins(t *testing.T) {
	ev := New(Options{})
	result, err := ev.EvalExprRaw("$(40+2)", false)
	if err != nil {
		t.Fatal(err)
	}
	taskID := result.Display()
	joined, err := ev.JoinAsync(int64(mustAtoi(t, taskID)), 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if joined.Display() != "42" {
		t.Errorf("joined async bracket result = %s, want 42", joined.Display())
	}
}

func TestSubEvaluatorSharesStoreNotScope(t *testing.T) {
	ev := New(Options{})
	ev.SetVariable("shared", value.NewNumber(decimal.FromInt64(1)), scope.ModPublic)

	sub := ev.SubEvaluator()
	if !sub.HasVariable("shared") {
		t.Error("sub-evaluator should see the parent's public variables")
	}
	sub.SetVariable("only_in_sub", value.NewNumber(decimal.FromInt64(2)), scope.ModPublic)
	if ev.HasVariable("only_in_sub") {
		t.Error("parent evaluator should not see a variable set in a sub-evaluator's own scope")
	}
}

func TestSubScopeAndParentScope(t *testing.T) {
	ev := New(Options{})
	ev.SubScope("inner")
	ev.SetVariable("depth", value.NewNumber(decimal.FromInt64(1)), scope.ModPublic)
	ev.ParentScope()
	if ev.HasVariable("depth") {
		t.Error("expected a variable set in a child scope not to leak to the parent scope")
	}
}

func TestDefineUserFunctionAndCall(t *testing.T) {
	ev := New(Options{})
	if err := ev.DefineUserFunction("double(n)", "return n*2", scope.ModPublic); err != nil {
		t.Fatalf("DefineUserFunction: %v", err)
	}
	result, err := ev.EvalExprRaw("double(21)", false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Display() != "42" {
		t.Errorf("double(21) = %s, want 42", result.Display())
	}
}

func TestStopAllIsIdempotent(t *testing.T) {
	ev := New(Options{})
	ev.StopAll()
	ev.StopAll()
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("task id %q is not a plain integer", s)
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Package exprevaluator implements Cantus's ExprEvaluator (spec.md §4.4):
// bracket-first scan, longest-match tokenization, and precedence passes
// over a registered operator.Table, including the defer protocol that
// resolves operator overlap (`=` as assign vs compare, unary vs binary
// `-`).
package exprevaluator

import (
	"cantus/internal/cantuserr"
	"cantus/internal/operator"
	"cantus/internal/value"
)

// Options mirrors the flags spec.md §4.4 names on ExprEvaluator's input.
type Options struct {
	ConditionMode     bool
	NoSaveAns         bool
	IdentifierAsText  bool
}

// Host is the minimal capability ExprEvaluator needs from its
// surrounding evaluator: identifier resolution against the live scope
// tree and dispatch of a call-form token (`name(args...)`) to a user
// function, lambda, or builtin. Keeping this as a narrow interface (per
// spec.md §9's "global mutable state should not be process-global")
// lets internal/evaluator own the real Scope/Store/UserFunction wiring
// without exprevaluator importing those packages and creating a cycle.
type Host interface {
	// ResolveIdentifier looks up name in the current scope chain. ref is
	// non-nil when the identifier names an assignable variable.
	ResolveIdentifier(name string) (val value.Value, ref *value.Reference, found bool)
	// Call invokes a named function, lambda, or builtin with already
	// evaluated arguments.
	Call(name string, args []value.Value) (value.Value, bool, error)
	// InvokeLambda calls a Lambda value directly — the call target is
	// already in hand (a literal `x => x*x`, a value pulled out of a
	// variable or collection, or a class method bound off an
	// instance) rather than a bareword the Host must look up by name.
	InvokeLambda(lam *value.Lambda, args []value.Value) (value.Value, error)
	// SpawnAsync schedules exprText for evaluation on an independent
	// task (spec.md §4.7 `$(expr)` bracket) and returns an integer task
	// id a script can later join against via the facade's
	// `eval_async`-completion surface.
	SpawnAsync(exprText string) (value.Value, error)
}

// Evaluator evaluates single Cantus expressions against a shared
// operator.Table and a Host providing identifier/function resolution.
type Evaluator struct {
	Table *operator.Table
	Host  Host
	Line  int
}

func New(table *operator.Table, host Host) *Evaluator {
	return &Evaluator{Table: table, Host: host}
}

// Evaluate runs the full ExprEvaluator contract (spec.md §4.4 steps 1-6)
// over a single expression string.
func (e *Evaluator) Evaluate(text string, opts Options) (value.Value, error) {
	toks, err := e.tokenize(text, opts)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return value.NewReference(nil), nil
	}
	toks = resolveImplicitMultiplication(toks, e.Table)
	result, err := e.runPrecedencePasses(toks, opts)
	if err != nil {
		return nil, err
	}
	if len(result) != 1 {
		return nil, cantuserr.Syntaxf(e.Line, "expression did not reduce to a single value (got %d residual tokens)", len(result))
	}
	return coerceResult(result[0]), nil
}

// coerceResult implements step 6: unwrap a single-level reference to its
// non-reference target (spec.md §4.4 step 6: "caller-configurable";
// ExprEvaluator's own default is to unwrap once).
func coerceResult(tok token) value.Value {
	if tok.ref != nil {
		return tok.ref.Resolve()
	}
	return tok.val
}

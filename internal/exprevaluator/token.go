package exprevaluator

import "cantus/internal/value"

type tokenKind int

const (
	tokValue tokenKind = iota
	tokIdent
	tokOp
)

// token is one element of the flat stream the precedence passes walk.
// A bracket span (spec.md §4.4 step 1) is reduced to a tokValue (or
// tokIdent, for an unresolved bareword) before precedence passes begin;
// ExprEvaluator does not defer bracket evaluation to a later lazy thunk
// since every bracket kind this interpreter supports is side-effect-free
// to evaluate eagerly once its span is known.
type token struct {
	kind tokenKind
	val  value.Value
	ref  *value.Reference
	name string // identifier text, or the operator sign for tokOp

	// adjacentToPrev records whether this token immediately followed the
	// previous one with no separating whitespace, used to disambiguate
	// `f(x)` (call) / `a[i]` (index) from `(expr)` / `[items]` literals.
	adjacentToPrev bool
}

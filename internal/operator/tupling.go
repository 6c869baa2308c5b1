package operator

import "cantus/internal/value"

// registerTupling wires `,` and `:` at the tupling precedence (spec.md
// §4.3). Both build a Tuple, flattening an already-tupled operand so a
// left-to-right chain like `a, b, c` yields one three-element Tuple
// rather than a nested pair; `:` is kept as a distinct sign because
// literal contexts (e.g. a `{k:v}` Set entry) intercept it structurally
// before generic tupling would ever see it. Joining preserves each
// operand's live Reference rather than resolving to a detached copy, so
// a tuple built from bare identifiers (`a, b`) still carries the
// original variables through to a destructuring assignment.
func registerTupling(t *Table) {
	exec := func(args []Operand) (value.Value, error) {
		return tupleJoin(args[0], args[1]), nil
	}
	t.Register(&Operator{Signs: []string{","}, Precedence: PrecTupling, Arity: Binary, Exec: exec})
	t.Register(&Operator{Signs: []string{":"}, Precedence: PrecTupling, Arity: Binary, Exec: exec})
}

func tupleJoin(a, b Operand) value.Value {
	refs := append(tupleRefsOf(a), tupleRefsOf(b)...)
	return value.NewTupleFromRefs(refs)
}

// tupleRefsOf flattens op into the list of references it contributes to
// a joined Tuple: an already-tupled operand's own element refs, the
// operand's own Reference when it's an lvalue, or a fresh Reference
// wrapping its value otherwise.
func tupleRefsOf(op Operand) []*value.Reference {
	if t, ok := value.Unwrap(op.Val).(*value.Tuple); ok {
		return append([]*value.Reference(nil), t.Items...)
	}
	if op.Ref != nil {
		return []*value.Reference{op.Ref}
	}
	return []*value.Reference{value.NewReference(op.Val)}
}

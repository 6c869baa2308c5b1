package operator

import (
	"cantus/internal/value"
)

// registerComparison wires the comparison precedence bucket (spec.md
// §4.3), including "=" which is ALSO registered at the assignment
// precedence: the executor here defers to that lower-precedence pass
// whenever the LHS is reference-like (or a destructurable Tuple),
// implementing the auto-select described in spec.md §4.3.1. In condition
// mode (an `if`/`while` header) "=" never defers, since spec.md §4.3.1
// requires it to always compare there regardless of the LHS shape.
func registerComparison(t *Table) {
	t.Register(&Operator{
		Signs: []string{"="}, Precedence: PrecComparison, Arity: Binary, ByRef: true,
		Exec: func(args []Operand) (value.Value, error) {
			if !args[0].ConditionMode && isAssignableLHS(args[0]) {
				return value.Defer, nil
			}
			return value.NewBoolean(value.Equal(args[0].Val, args[1].Val)), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"=="}, Precedence: PrecComparison, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(value.Equal(args[0].Val, args[1].Val)), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"!="}, Precedence: PrecComparison, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(!value.Equal(args[0].Val, args[1].Val)), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"<"}, Precedence: PrecComparison, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(value.Compare(args[0].Val, args[1].Val) < 0), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{">"}, Precedence: PrecComparison, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(value.Compare(args[0].Val, args[1].Val) > 0), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"<="}, Precedence: PrecComparison, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(value.Compare(args[0].Val, args[1].Val) <= 0), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{">="}, Precedence: PrecComparison, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(value.Compare(args[0].Val, args[1].Val) >= 0), nil
		},
	})
}

// isAssignableLHS reports whether op could serve as the LHS of an
// assignment: a plain reference, or a Tuple fit for destructuring
// (spec.md §4.3.1's "Reference/Tuple" assignable shapes).
func isAssignableLHS(op Operand) bool {
	if op.Ref != nil {
		return true
	}
	_, ok := value.Unwrap(op.Val).(*value.Tuple)
	return ok
}

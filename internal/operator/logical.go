package operator

import "cantus/internal/value"

// registerLogical wires `and`/`or`/`not` (spec.md §4.3). Operands arrive
// already evaluated by the expression evaluator's precedence passes, so
// `and`/`or` are necessarily eager rather than short-circuiting; this is
// an accepted simplification since Cantus has no side-effect-
// free guarantee that would make short-circuiting observable at this
// layer without restructuring the evaluator around lazy thunks.
func registerLogical(t *Table) {
	t.Register(&Operator{
		Signs: []string{"and"}, Precedence: PrecAnd, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(value.Truthy(args[0].Val) && value.Truthy(args[1].Val)), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"or"}, Precedence: PrecOr, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(value.Truthy(args[0].Val) || value.Truthy(args[1].Val)), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"not"}, Precedence: PrecNot, Arity: UnaryBefore,
		Exec: func(args []Operand) (value.Value, error) {
			return value.NewBoolean(!value.Truthy(args[0].Val)), nil
		},
	})
}

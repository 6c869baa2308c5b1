package operator

import (
	"cantus/internal/decimal"
	"cantus/internal/value"
)

// registerArithmetic wires the add_sub and mul_div/exponent precedence
// buckets (spec.md §4.3) onto Value's polymorphic arithmetic (spec.md §3,
// implemented in package value since it is the owner of cross-type
// operand coercion).
func registerArithmetic(t *Table) {
	t.Register(&Operator{
		Signs: []string{"+"}, Precedence: PrecAddSub, Arity: Binary,
		Exec: binaryExec(value.Add),
	})
	t.Register(&Operator{
		Signs: []string{"-"}, Precedence: PrecAddSub, Arity: Binary,
		Exec: binaryExec(value.Sub),
	})
	t.Register(&Operator{
		Signs: []string{"-"}, Precedence: PrecFactPct, Arity: UnaryBefore,
		Exec: func(args []Operand) (value.Value, error) {
			return value.Sub(value.NewNumber(decimal.Zero()), args[0].Val)
		},
	})
	t.Register(&Operator{
		Signs: []string{"+"}, Precedence: PrecFactPct, Arity: UnaryBefore,
		Exec: func(args []Operand) (value.Value, error) { return args[0].Val, nil },
	})
	t.Register(&Operator{
		Signs: []string{"*"}, Precedence: PrecMulDiv, Arity: Binary,
		Exec: binaryExec(value.Mul),
	})
	t.Register(&Operator{
		Signs: []string{"/"}, Precedence: PrecMulDiv, Arity: Binary,
		Exec: binaryExec(value.Div),
	})
	t.Register(&Operator{
		Signs: []string{"mod"}, Precedence: PrecMulDiv, Arity: Binary,
		Exec: binaryExec(value.Mod),
	})
	t.Register(&Operator{
		Signs: []string{"^"}, Precedence: PrecExponent, Arity: Binary, RightAssoc: true,
		Exec: binaryExec(value.Pow),
	})
}

func binaryExec(fn func(a, b value.Value) (value.Value, error)) ExecFunc {
	return func(args []Operand) (value.Value, error) {
		return fn(args[0].Val, args[1].Val)
	}
}

package operator

import (
	"fmt"
	"math"

	"cantus/internal/decimal"
	"cantus/internal/value"
)

// registerMulDivExtras wires the bitwise-or/and/xor and `choose`
// (combinatorial nCr) signs spec.md §4.3 places at mul_div precedence
// alongside `*`/`/`/`mod`.
func registerMulDivExtras(t *Table) {
	t.Register(&Operator{
		Signs: []string{"||"}, Precedence: PrecMulDiv, Arity: Binary,
		Exec: intBinary(func(a, b int64) int64 { return a | b }),
	})
	t.Register(&Operator{
		Signs: []string{"&&"}, Precedence: PrecMulDiv, Arity: Binary,
		Exec: intBinary(func(a, b int64) int64 { return a & b }),
	})
	t.Register(&Operator{
		Signs: []string{"^^"}, Precedence: PrecMulDiv, Arity: Binary,
		Exec: intBinary(func(a, b int64) int64 { return a ^ b }),
	})
	t.Register(&Operator{
		Signs: []string{"choose"}, Precedence: PrecMulDiv, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			n, err := asInt64(args[0].Val)
			if err != nil {
				return nil, err
			}
			k, err := asInt64(args[1].Val)
			if err != nil {
				return nil, err
			}
			return value.NewNumber(decimal.FromInt64(binomial(n, k))), nil
		},
	})
}

func intBinary(fn func(a, b int64) int64) ExecFunc {
	return func(args []Operand) (value.Value, error) {
		a, err := asInt64(args[0].Val)
		if err != nil {
			return nil, err
		}
		b, err := asInt64(args[1].Val)
		if err != nil {
			return nil, err
		}
		return value.NewNumber(decimal.FromInt64(fn(a, b))), nil
	}
}

func binomial(n, k int64) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	var result int64 = 1
	for i := int64(0); i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// registerFactPct wires the fact_pct bucket (spec.md §4.3): factorial
// `!`, percent `%`, scientific-notation `E`, bitwise complement unary
// `~`, and the `ref`/`deref` indirection operators.
func registerFactPct(t *Table) {
	t.Register(&Operator{
		Signs: []string{"!"}, Precedence: PrecFactPct, Arity: UnaryAfter,
		Exec: func(args []Operand) (value.Value, error) {
			n, ok := value.Unwrap(args[0].Val).(*value.Number)
			if !ok {
				return nil, fmt.Errorf("! requires a numeric operand")
			}
			f := n.D.Float64()
			if f < 0 || f != math.Trunc(f) {
				return value.NewNumber(decimal.Undef()), nil
			}
			result := decimal.FromInt64(1)
			for i := int64(2); i <= int64(f); i++ {
				result = decimal.Mul(result, decimal.FromInt64(i))
			}
			return value.NewNumber(result), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"%"}, Precedence: PrecFactPct, Arity: UnaryAfter,
		Exec: func(args []Operand) (value.Value, error) {
			n, ok := value.Unwrap(args[0].Val).(*value.Number)
			if !ok {
				return nil, fmt.Errorf("%% requires a numeric operand")
			}
			q, err := decimal.Div(n.D, decimal.FromInt64(100))
			if err != nil {
				return nil, err
			}
			return value.NewNumber(q), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"E"}, Precedence: PrecFactPct, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			an, aok := value.Unwrap(args[0].Val).(*value.Number)
			bn, bok := value.Unwrap(args[1].Val).(*value.Number)
			if !aok || !bok {
				return nil, fmt.Errorf("E requires numeric operands")
			}
			exp := bn.D.Float64()
			return value.NewNumber(decimal.FromFloat64(an.D.Float64() * math.Pow(10, exp))), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"~"}, Precedence: PrecFactPct, Arity: UnaryBefore,
		Exec: func(args []Operand) (value.Value, error) {
			a, err := asInt64(args[0].Val)
			if err != nil {
				return nil, err
			}
			return value.NewNumber(decimal.FromInt64(^a)), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"ref"}, Precedence: PrecFactPct, Arity: UnaryBefore, ByRef: true,
		Exec: func(args []Operand) (value.Value, error) {
			if args[0].Ref != nil {
				return args[0].Ref, nil
			}
			return value.NewReference(args[0].Val), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"deref"}, Precedence: PrecFactPct, Arity: UnaryBefore,
		Exec: func(args []Operand) (value.Value, error) {
			return value.Unwrap(args[0].Val), nil
		},
	})
}

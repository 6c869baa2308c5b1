package operator

import (
	"fmt"
	"math"

	"cantus/internal/decimal"
	"cantus/internal/value"
)

// registerBitshiftConcatFrac wires the bitshift_concat_frac bucket
// (spec.md §4.3): `<<`/`>>` are integer bitshifts, `&` is text
// concatenation when either operand is Text and bitwise AND otherwise,
// and `\` is integer (floor) division.
func registerBitshiftConcatFrac(t *Table) {
	t.Register(&Operator{
		Signs: []string{"<<"}, Precedence: PrecBitshift, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			a, err := asInt64(args[0].Val)
			if err != nil {
				return nil, err
			}
			b, err := asInt64(args[1].Val)
			if err != nil {
				return nil, err
			}
			return value.NewNumber(decimal.FromInt64(a << uint(b))), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{">>"}, Precedence: PrecBitshift, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			a, err := asInt64(args[0].Val)
			if err != nil {
				return nil, err
			}
			b, err := asInt64(args[1].Val)
			if err != nil {
				return nil, err
			}
			return value.NewNumber(decimal.FromInt64(a >> uint(b))), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{"&"}, Precedence: PrecBitshift, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			av, bv := value.Unwrap(args[0].Val), value.Unwrap(args[1].Val)
			if _, ok := av.(*value.Text); ok {
				return value.NewText(av.Display() + bv.Display()), nil
			}
			if _, ok := bv.(*value.Text); ok {
				return value.NewText(av.Display() + bv.Display()), nil
			}
			a, err := asInt64(av)
			if err != nil {
				return nil, err
			}
			b, err := asInt64(bv)
			if err != nil {
				return nil, err
			}
			return value.NewNumber(decimal.FromInt64(a & b)), nil
		},
	})
	t.Register(&Operator{
		Signs: []string{`\`}, Precedence: PrecBitshift, Arity: Binary,
		Exec: func(args []Operand) (value.Value, error) {
			an, aok := value.Unwrap(args[0].Val).(*value.Number)
			bn, bok := value.Unwrap(args[1].Val).(*value.Number)
			if !aok || !bok {
				return nil, fmt.Errorf("\\ requires numeric operands")
			}
			if decimal.IsZero(bn.D) {
				return value.NewNumber(decimal.Undef()), nil
			}
			q := math.Floor(an.D.Float64() / bn.D.Float64())
			return value.NewNumber(decimal.FromFloat64(q)), nil
		},
	})
}

func asInt64(v value.Value) (int64, error) {
	n, ok := value.Unwrap(v).(*value.Number)
	if !ok {
		return 0, fmt.Errorf("expected a numeric operand, got %s", value.Unwrap(v).Kind())
	}
	return int64(n.D.Float64()), nil
}

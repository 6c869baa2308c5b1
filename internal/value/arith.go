package value

import (
	"fmt"
	"math"

	"cantus/internal/decimal"
)

// Add implements Cantus's polymorphic `+`: numeric addition, complex
// addition, elementwise matrix addition, text concatenation, and set
// union, matching the worked examples in spec.md §8
// ({1,2,3} + {3,4} => set union; [1,0,1] + [0,1,0] => elementwise).
func Add(a, b Value) (Value, error) {
	a, b = Unwrap(a), Unwrap(b)
	switch av := a.(type) {
	case *Number:
		if bv, ok := b.(*Number); ok {
			return NewNumber(decimal.Add(av.D, bv.D)), nil
		}
	case *Text:
		return NewText(av.S + DisplayOperand(b)), nil
	case *Set:
		if bv, ok := b.(*Set); ok {
			return Union(av, bv), nil
		}
	}
	if isComplexLike(a) || isComplexLike(b) {
		return ComplexAdd(toComplex(a), toComplex(b)), nil
	}
	if am, ok := a.(*Matrix); ok {
		if bm, ok := b.(*Matrix); ok {
			return elementwise(am, bm, func(x, y numCell) numCell { return numAdd(x, y) })
		}
	}
	return nil, fmt.Errorf("unsupported operand types for +: %s and %s", a.Kind(), b.Kind())
}

// Sub implements `-`.
func Sub(a, b Value) (Value, error) {
	a, b = Unwrap(a), Unwrap(b)
	if av, ok := a.(*Number); ok {
		if bv, ok := b.(*Number); ok {
			return NewNumber(decimal.Sub(av.D, bv.D)), nil
		}
	}
	if isComplexLike(a) || isComplexLike(b) {
		return ComplexSub(toComplex(a), toComplex(b)), nil
	}
	if am, ok := a.(*Matrix); ok {
		if bm, ok := b.(*Matrix); ok {
			return elementwise(am, bm, func(x, y numCell) numCell { return numSub(x, y) })
		}
	}
	if as, ok := a.(*Set); ok {
		if bs, ok := b.(*Set); ok {
			return Difference(as, bs), nil
		}
	}
	return nil, fmt.Errorf("unsupported operand types for -: %s and %s", a.Kind(), b.Kind())
}

// Mul implements `*`: numeric/complex multiply, matrix product, scalar
// times matrix, and string repetition (text * number).
func Mul(a, b Value) (Value, error) {
	a, b = Unwrap(a), Unwrap(b)
	if av, ok := a.(*Number); ok {
		if bv, ok := b.(*Number); ok {
			return NewNumber(decimal.Mul(av.D, bv.D)), nil
		}
	}
	if am, ok := a.(*Matrix); ok {
		if bm, ok := b.(*Matrix); ok {
			m, ok := MatrixMultiply(am, bm)
			if !ok {
				return nil, fmt.Errorf("matrix multiply: inner dimensions do not match (%dx%d · %dx%d)", am.Height(), am.Width, bm.Height(), bm.Width)
			}
			return m, nil
		}
		return scaleMatrix(am, b)
	}
	if bm, ok := b.(*Matrix); ok {
		return scaleMatrix(bm, a)
	}
	if t, ok := a.(*Text); ok {
		if n, ok := b.(*Number); ok {
			return repeatText(t.S, n), nil
		}
	}
	if isComplexLike(a) || isComplexLike(b) {
		return ComplexMul(toComplex(a), toComplex(b)), nil
	}
	return nil, fmt.Errorf("unsupported operand types for *: %s and %s", a.Kind(), b.Kind())
}

// Div implements `/`.
func Div(a, b Value) (Value, error) {
	a, b = Unwrap(a), Unwrap(b)
	if av, ok := a.(*Number); ok {
		if bv, ok := b.(*Number); ok {
			q, err := decimal.Div(av.D, bv.D)
			if err != nil {
				return nil, err
			}
			return NewNumber(q), nil
		}
	}
	if isComplexLike(a) || isComplexLike(b) {
		return ComplexDiv(toComplex(a), toComplex(b)), nil
	}
	return nil, fmt.Errorf("unsupported operand types for /: %s and %s", a.Kind(), b.Kind())
}

// Mod implements the `mod` operator (mul_div precedence, spec.md §4.3).
func Mod(a, b Value) (Value, error) {
	an, aok := Unwrap(a).(*Number)
	bn, bok := Unwrap(b).(*Number)
	if !aok || !bok {
		return nil, fmt.Errorf("mod requires numeric operands")
	}
	if decimal.IsZero(bn.D) {
		return NewNumber(decimal.Undef()), nil
	}
	q, _ := decimal.Div(an.D, bn.D)
	qi := decimal.FromFloat64(math.Floor(q.Float64()))
	rem := decimal.Sub(an.D, decimal.Mul(qi, bn.D))
	return NewNumber(rem), nil
}

// Pow implements the exponent operator `^`.
func Pow(a, b Value) (Value, error) {
	an, aok := Unwrap(a).(*Number)
	bn, bok := Unwrap(b).(*Number)
	if am, ok := Unwrap(a).(*Matrix); ok && bok {
		exp := bn.D.Float64()
		if exp != math.Trunc(exp) {
			return nil, fmt.Errorf("matrix exponent must be an integer, got %v", exp)
		}
		if exp == -1 {
			inv, ok := Inverse(am)
			if !ok {
				return nil, fmt.Errorf("matrix is not invertible")
			}
			return inv, nil
		}
		if exp < 0 {
			return nil, fmt.Errorf("unsupported operand types for ^: %s and %s", a.Kind(), b.Kind())
		}
		result := Identity(am.Height())
		for i := int64(0); i < int64(exp); i++ {
			m, ok := MatrixMultiply(result, am)
			if !ok {
				return nil, fmt.Errorf("matrix exponent requires a square matrix")
			}
			result = m
		}
		return result, nil
	}
	if aok && bok {
		exp := bn.D.Float64()
		if exp == math.Trunc(exp) && exp >= 0 && exp < 1<<20 {
			return NewNumber(intPow(an.D, int64(exp))), nil
		}
		f := math.Pow(an.D.Float64(), exp)
		return NewNumber(decimal.FromFloat64(f)), nil
	}
	if isComplexLike(a) && bok {
		c := toComplex(a)
		exp := bn.D.Float64()
		mag := math.Pow(c.Magnitude(), exp)
		angle := math.Atan2(c.Im, c.Re) * exp
		return NewComplex(mag*math.Cos(angle), mag*math.Sin(angle)), nil
	}
	return nil, fmt.Errorf("unsupported operand types for ^: %s and %s", a.Kind(), b.Kind())
}

func intPow(base decimal.Decimal, exp int64) decimal.Decimal {
	result := decimal.FromInt64(1)
	for i := int64(0); i < exp; i++ {
		result = decimal.Mul(result, base)
	}
	return result
}

func isComplexLike(v Value) bool {
	_, ok := v.(*Complex)
	return ok
}

func toComplex(v Value) *Complex {
	switch vv := v.(type) {
	case *Complex:
		return vv
	case *Number:
		return &Complex{Re: vv.D.Float64()}
	}
	return &Complex{}
}

func scaleMatrix(m *Matrix, scalar Value) (Value, error) {
	sc := toNumCell(scalar)
	rows := make([][]Value, m.Height())
	for i := 0; i < m.Height(); i++ {
		row := make([]Value, m.Width)
		for j := 0; j < m.Width; j++ {
			cell, _ := m.At(i, j)
			row[j] = numMul(toNumCell(cell.Resolve()), sc).toValue()
		}
		rows[i] = row
	}
	return NewMatrix(rows), nil
}

func elementwise(a, b *Matrix, op func(x, y numCell) numCell) (Value, error) {
	if a.Height() != b.Height() || a.Width != b.Width {
		return nil, fmt.Errorf("elementwise op requires equal dimensions (%dx%d vs %dx%d)", a.Height(), a.Width, b.Height(), b.Width)
	}
	rows := make([][]Value, a.Height())
	for i := 0; i < a.Height(); i++ {
		row := make([]Value, a.Width)
		for j := 0; j < a.Width; j++ {
			ac, _ := a.At(i, j)
			bc, _ := b.At(i, j)
			row[j] = op(toNumCell(ac.Resolve()), toNumCell(bc.Resolve())).toValue()
		}
		rows[i] = row
	}
	return NewMatrix(rows), nil
}

func repeatText(s string, n *Number) Value {
	count := int(n.D.Float64())
	if count < 0 {
		count = 0
	}
	out := ""
	for i := 0; i < count; i++ {
		out += s
	}
	return NewText(out)
}

// DisplayOperand renders v for implicit string coercion (text + other).
func DisplayOperand(v Value) string {
	return Unwrap(v).Display()
}

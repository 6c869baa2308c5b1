// Package decimal implements BigDecimal, Cantus's arbitrary-precision
// signed decimal: a big.Int mantissa paired with a base-10 exponent.
package decimal

import (
	"math/big"
	"strconv"
	"strings"

	"cantus/internal/cantuserr"
)

// DefaultPrecision is the minimum number of significant digits carried
// through a division or non-integer exponent, per spec.md §4.1.
const DefaultPrecision = 50

// Decimal is an arbitrary-precision signed decimal value: its numeric
// value is Mantissa * 10^Exponent. Undefined is a sentinel produced by
// parsing "null"/"undefined" or by an illegal operation such as a modulo
// by zero (division by zero is a Math error instead); it participates in comparisons but never in arithmetic results other
// than propagating itself.
type Decimal struct {
	Mantissa  *big.Int
	Exponent  int32
	Undefined bool
	// SigFigs is the number of significant figures carried from the
	// source text, or -1 if not tracked.
	SigFigs int32
}

// Undef returns the undefined sentinel.
func Undef() Decimal {
	return Decimal{Mantissa: big.NewInt(0), Undefined: true, SigFigs: -1}
}

// Zero returns the decimal 0.
func Zero() Decimal {
	return Decimal{Mantissa: big.NewInt(0), SigFigs: -1}
}

// FromInt64 builds an exact integer decimal.
func FromInt64(v int64) Decimal {
	return Decimal{Mantissa: big.NewInt(v), SigFigs: -1}
}

// FromString parses a literal per spec.md §4.1: "0x…" hex, "00…" octal,
// plain decimal with an optional fractional part, or "null"/"undefined".
// When trackSigFigs is true, the significant-figure count is inferred
// from the text (digits after leading zeros, including trailing zeros
// after the decimal point).
func FromString(text string, trackSigFigs bool) (Decimal, bool) {
	s := strings.TrimSpace(text)
	if s == "null" || s == "undefined" {
		return Undef(), true
	}
	if s == "" {
		return Decimal{}, false
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		m, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return Decimal{}, false
		}
		if neg {
			m.Neg(m)
		}
		return Decimal{Mantissa: m, SigFigs: -1}, true
	}
	if len(s) > 1 && s[0] == '0' && !strings.ContainsAny(s, ".eE") {
		m, ok := new(big.Int).SetString(s, 8)
		if !ok {
			return Decimal{}, false
		}
		if neg {
			m.Neg(m)
		}
		return Decimal{Mantissa: m, SigFigs: -1}, true
	}

	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
	}
	digits := intPart + fracPart
	if digits == "" {
		return Decimal{}, false
	}
	m, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, false
	}
	if neg {
		m.Neg(m)
	}
	d := Decimal{Mantissa: m, Exponent: -int32(len(fracPart)), SigFigs: -1}
	if trackSigFigs {
		d.SigFigs = inferSigFigs(intPart, fracPart)
	}
	return d, true
}

func inferSigFigs(intPart, fracPart string) int32 {
	trimmed := strings.TrimLeft(intPart, "0")
	if trimmed == "" && fracPart == "" {
		return 1
	}
	if trimmed == "" {
		// 0.00xyz: leading zeros after the point don't count, trailing do.
		t := strings.TrimLeft(fracPart, "0")
		if t == "" {
			return int32(len(fracPart))
		}
		return int32(len(t))
	}
	return int32(len(trimmed) + len(fracPart))
}

// align returns both mantissas scaled to a shared exponent.
func align(a, b Decimal) (*big.Int, *big.Int, int32) {
	exp := a.Exponent
	if b.Exponent < exp {
		exp = b.Exponent
	}
	am := scaleTo(a.Mantissa, a.Exponent, exp)
	bm := scaleTo(b.Mantissa, b.Exponent, exp)
	return am, bm, exp
}

func scaleTo(m *big.Int, from, to int32) *big.Int {
	if from == to {
		return new(big.Int).Set(m)
	}
	diff := int64(from) - int64(to)
	scale := pow10(diff)
	return new(big.Int).Mul(m, scale)
}

func pow10(n int64) *big.Int {
	if n < 0 {
		n = -n
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func normalize(m *big.Int, exp int32) Decimal {
	if m.Sign() == 0 {
		return Decimal{Mantissa: big.NewInt(0), Exponent: 0, SigFigs: -1}
	}
	ten := big.NewInt(10)
	for {
		q, r := new(big.Int).QuoRem(m, ten, new(big.Int))
		if r.Sign() != 0 {
			break
		}
		m = q
		exp++
	}
	return Decimal{Mantissa: m, Exponent: exp, SigFigs: -1}
}

// Add returns a+b.
func Add(a, b Decimal) Decimal {
	if a.Undefined || b.Undefined {
		return Undef()
	}
	am, bm, exp := align(a, b)
	return normalize(new(big.Int).Add(am, bm), exp)
}

// Sub returns a-b.
func Sub(a, b Decimal) Decimal {
	if a.Undefined || b.Undefined {
		return Undef()
	}
	am, bm, exp := align(a, b)
	return normalize(new(big.Int).Sub(am, bm), exp)
}

// Mul returns a*b.
func Mul(a, b Decimal) Decimal {
	if a.Undefined || b.Undefined {
		return Undef()
	}
	m := new(big.Int).Mul(a.Mantissa, b.Mantissa)
	return normalize(m, a.Exponent+b.Exponent)
}

// Div returns a/b to DefaultPrecision significant digits. Division by an
// undefined operand propagates Undef, but division by zero is a Math-kind
// error (spec.md §7: "division by zero in integer/bigdecimal paths where
// not representable"), not a silent sentinel.
func Div(a, b Decimal) (Decimal, error) {
	if a.Undefined || b.Undefined {
		return Undef(), nil
	}
	if b.Mantissa.Sign() == 0 {
		return Decimal{}, cantuserr.Mathf(0, "division by zero")
	}
	// Scale the numerator up so the quotient carries DefaultPrecision
	// significant digits, then round-half-even at the last digit, mirroring
	// big.Float's default rounding mode (see DESIGN.md open-question log).
	scale := pow10(int64(DefaultPrecision) + 10)
	scaledNum := new(big.Int).Mul(a.Mantissa, scale)
	q, r := new(big.Int).QuoRem(scaledNum, b.Mantissa, new(big.Int))
	halfRoundEven(q, r, b.Mantissa)
	exp := a.Exponent - b.Exponent - int32(DefaultPrecision) - 10
	result := normalize(q, exp)
	return roundToSigFigs(result, DefaultPrecision), nil
}

func halfRoundEven(q, r, divisor *big.Int) {
	twice := new(big.Int).Mul(r, big.NewInt(2))
	twice.Abs(twice)
	divAbs := new(big.Int).Abs(divisor)
	cmp := twice.Cmp(divAbs)
	if cmp > 0 || (cmp == 0 && q.Bit(0) == 1) {
		if (r.Sign() < 0) != (divisor.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
}

// Neg returns -a.
func Neg(a Decimal) Decimal {
	if a.Undefined {
		return Undef()
	}
	return Decimal{Mantissa: new(big.Int).Neg(a.Mantissa), Exponent: a.Exponent, SigFigs: a.SigFigs}
}

// Cmp orders a against b. Comparison with undefined always yields "less"
// (a total-order escape hatch per spec.md §4.1), except undefined vs
// undefined which is equal.
func Cmp(a, b Decimal) int {
	if a.Undefined && b.Undefined {
		return 0
	}
	if a.Undefined {
		return -1
	}
	if b.Undefined {
		return 1
	}
	am, bm, _ := align(a, b)
	return am.Cmp(bm)
}

// IsZero reports whether a is the (defined) decimal zero.
func IsZero(a Decimal) bool {
	return !a.Undefined && a.Mantissa.Sign() == 0
}

// digitCount returns the number of decimal digits in |m|.
func digitCount(m *big.Int) int {
	if m.Sign() == 0 {
		return 1
	}
	return len(new(big.Int).Abs(m).Text(10))
}

// roundToSigFigs rounds a result half-even to n significant digits; it
// is the rounding step of TruncateThenRound.
func roundToSigFigs(d Decimal, n int32) Decimal {
	if d.Undefined || d.Mantissa.Sign() == 0 {
		return d
	}
	dc := int32(digitCount(d.Mantissa))
	if dc <= n {
		return d
	}
	drop := dc - n
	scale := pow10(int64(drop))
	q, r := new(big.Int).QuoRem(d.Mantissa, scale, new(big.Int))
	halfRoundEven(q, r, scale)
	return normalize(q, d.Exponent+drop)
}

// TruncateThenRound implements spec.md §4.3.2's RREF cleanup: truncate to
// 19 digits, then round to 11, to suppress floating-point residue carried
// through Gauss-Jordan elimination.
func TruncateThenRound(d Decimal) Decimal {
	if !d.Undefined && d.Mantissa.Sign() != 0 {
		if dc := int32(digitCount(d.Mantissa)); dc > 19 {
			drop := dc - 19
			q := new(big.Int).Quo(d.Mantissa, pow10(int64(drop)))
			d = normalize(q, d.Exponent+drop)
		}
	}
	return roundToSigFigs(d, 11)
}

// String renders the decimal in plain (non-scientific) form.
func (d Decimal) String() string {
	if d.Undefined {
		return "undefined"
	}
	m := new(big.Int).Set(d.Mantissa)
	neg := m.Sign() < 0
	m.Abs(m)
	digits := m.Text(10)
	exp := d.Exponent

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	if exp >= 0 {
		sb.WriteString(digits)
		sb.WriteString(strings.Repeat("0", int(exp)))
		return sb.String()
	}
	point := len(digits) + int(exp)
	if point <= 0 {
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -point))
		sb.WriteString(digits)
	} else {
		sb.WriteString(digits[:point])
		sb.WriteByte('.')
		sb.WriteString(digits[point:])
	}
	return sb.String()
}

// Float64 converts to a float64, e.g. for interop with Complex arithmetic.
func (d Decimal) Float64() float64 {
	if d.Undefined {
		return 0
	}
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}

// FromFloat64 builds a decimal approximating f (used when coercing Complex
// real/imaginary parts into BigDecimal-typed matrix cells).
func FromFloat64(f float64) Decimal {
	d, ok := FromString(strconv.FormatFloat(f, 'f', -1, 64), false)
	if !ok {
		return Undef()
	}
	return d
}

// Abs returns |a|.
func Abs(a Decimal) Decimal {
	if a.Undefined {
		return Undef()
	}
	return Decimal{Mantissa: new(big.Int).Abs(a.Mantissa), Exponent: a.Exponent, SigFigs: a.SigFigs}
}

// Sign returns -1, 0, or 1.
func Sign(a Decimal) int {
	if a.Undefined {
		return 0
	}
	return a.Mantissa.Sign()
}

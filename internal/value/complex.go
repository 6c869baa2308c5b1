package value

import (
	"fmt"
	"math"
)

// Complex is a pair of 64-bit floats (spec.md §3).
type Complex struct {
	Re, Im float64
}

func NewComplex(re, im float64) *Complex { return &Complex{Re: re, Im: im} }

func (c *Complex) Kind() Kind { return KindComplex }

func (c *Complex) DeepCopy() Value { return &Complex{Re: c.Re, Im: c.Im} }

func (c *Complex) Display() string {
	if c.Im == 0 {
		return fmt.Sprintf("%g", c.Re)
	}
	if c.Re == 0 {
		return fmt.Sprintf("%gi", c.Im)
	}
	sign := "+"
	im := c.Im
	if im < 0 {
		sign = "-"
		im = -im
	}
	return fmt.Sprintf("%g%s%gi", c.Re, sign, im)
}

func (c *Complex) Magnitude() float64 {
	return math.Hypot(c.Re, c.Im)
}

func ComplexAdd(a, b *Complex) *Complex { return &Complex{a.Re + b.Re, a.Im + b.Im} }
func ComplexSub(a, b *Complex) *Complex { return &Complex{a.Re - b.Re, a.Im - b.Im} }
func ComplexMul(a, b *Complex) *Complex {
	return &Complex{a.Re*b.Re - a.Im*b.Im, a.Re*b.Im + a.Im*b.Re}
}
func ComplexDiv(a, b *Complex) *Complex {
	denom := b.Re*b.Re + b.Im*b.Im
	if denom == 0 {
		return &Complex{math.NaN(), math.NaN()}
	}
	return &Complex{
		(a.Re*b.Re + a.Im*b.Im) / denom,
		(a.Im*b.Re - a.Re*b.Im) / denom,
	}
}

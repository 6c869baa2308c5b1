package value

import "cantus/internal/decimal"

// Number holds a BigDecimal (spec.md §3).
type Number struct {
	D decimal.Decimal
}

func NewNumber(d decimal.Decimal) *Number { return &Number{D: d} }

func (n *Number) Kind() Kind { return KindNumber }

func (n *Number) DeepCopy() Value {
	return &Number{D: n.D}
}

func (n *Number) Display() string { return n.D.String() }

package value

// Boolean is Cantus's two-valued truth type (spec.md §3).
type Boolean struct {
	B bool
}

func NewBoolean(b bool) *Boolean { return &Boolean{B: b} }

func (b *Boolean) Kind() Kind { return KindBoolean }

func (b *Boolean) DeepCopy() Value { return &Boolean{B: b.B} }

func (b *Boolean) Display() string {
	if b.B {
		return "true"
	}
	return "false"
}

package value

// Identifier is a textual name used where a symbol, not a string, is
// meant: variable names, function names, unresolved bareword tokens
// (spec.md §3).
type Identifier struct {
	Name string
}

func NewIdentifier(name string) *Identifier { return &Identifier{Name: name} }

func (i *Identifier) Kind() Kind { return KindIdentifier }

func (i *Identifier) DeepCopy() Value { return &Identifier{Name: i.Name} }

func (i *Identifier) Display() string { return i.Name }

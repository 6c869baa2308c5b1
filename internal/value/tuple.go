package value

// Tuple is an ordered, fixed-length sequence of references (spec.md §3).
type Tuple struct {
	Items []*Reference
}

func NewTuple(items ...Value) *Tuple {
	refs := make([]*Reference, len(items))
	for i, v := range items {
		refs[i] = NewReference(v)
	}
	return &Tuple{Items: refs}
}

// NewTupleFromRefs builds a Tuple directly over refs, without wrapping
// each in a fresh Reference. Used when joining operands that are
// themselves live variable references (spec.md §4.3.1 destructuring
// assignment needs the Tuple's elements to still be the original
// variables, not disconnected copies).
func NewTupleFromRefs(refs []*Reference) *Tuple {
	return &Tuple{Items: refs}
}

func (t *Tuple) Kind() Kind { return KindTuple }

func (t *Tuple) DeepCopy() Value {
	items := make([]*Reference, len(t.Items))
	for i, r := range t.Items {
		items[i] = NewReference(r.Resolve().DeepCopy())
	}
	return &Tuple{Items: items}
}

func (t *Tuple) Display() string {
	s := "("
	for i, r := range t.Items {
		if i > 0 {
			s += ", "
		}
		s += r.Display()
	}
	return s + ")"
}

func (t *Tuple) Len() int { return len(t.Items) }

func (t *Tuple) At(i int) (*Reference, bool) {
	if i < 0 || i >= len(t.Items) {
		return nil, false
	}
	return t.Items[i], true
}

package value

import (
	"strings"

	"cantus/internal/decimal"
)

// Compare defines the total ordering over Values required by spec.md
// §4.2: bucket by type class first, then compare within the class.
// Lists and maps compare lexicographically; map equality requires both
// key and value equality (spec.md testable property 3: exactly one of
// <0/==0/>0 holds, Compare(x,y) == -Compare(y,x), and it is transitive).
func Compare(a, b Value) int {
	a, b = Unwrap(a), Unwrap(b)
	ca, cb := typeClass(a), typeClass(b)
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}
	switch ca {
	case 0:
		return decimal.Cmp(a.(*Number).D, b.(*Number).D)
	case 1:
		return compareComplex(a.(*Complex), b.(*Complex))
	case 2:
		return compareTextual(a, b)
	case 3, 4:
		return CompareDateTime(a.(*DateTime), b.(*DateTime))
	case 5:
		return compareListlike(a, b)
	case 6, 7:
		return compareMaplike(a, b)
	default:
		return compareOther(a, b)
	}
}

func compareComplex(a, b *Complex) int {
	am, bm := a.Magnitude(), b.Magnitude()
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	}
	switch {
	case a.Im < b.Im:
		return -1
	case a.Im > b.Im:
		return 1
	}
	return 0
}

func textOf(v Value) string {
	switch vv := v.(type) {
	case *Text:
		return vv.S
	case *Identifier:
		return vv.Name
	}
	return ""
}

func compareTextual(a, b Value) int {
	return strings.Compare(textOf(a), textOf(b))
}

func asSlice(v Value) []Value {
	switch vv := v.(type) {
	case *Tuple:
		out := make([]Value, len(vv.Items))
		for i, r := range vv.Items {
			out[i] = r.Resolve()
		}
		return out
	case *LinkedList:
		return vv.ToSlice()
	case *Matrix:
		out := make([]Value, 0, vv.Height()*vv.Width)
		for i := 0; i < vv.Height(); i++ {
			for j := 0; j < vv.Width; j++ {
				cell, _ := vv.At(i, j)
				out = append(out, cell.Resolve())
			}
		}
		return out
	}
	return nil
}

func compareListlike(a, b Value) int {
	as, bs := asSlice(a), asSlice(b)
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if c := Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func entriesOf(v Value) []SetEntry {
	switch vv := v.(type) {
	case *Set:
		return vv.Entries
	case *HashSet:
		e := vv.Entries()
		// HashSet is unordered; sort by key for a deterministic comparison
		// so Compare stays well-defined (§4.2) even though iteration order
		// over the underlying map is not.
		sorted := append([]SetEntry(nil), e...)
		sortEntries(sorted)
		return sorted
	}
	return nil
}

func sortEntries(e []SetEntry) {
	for i := 1; i < len(e); i++ {
		for j := i; j > 0 && Compare(e[j-1].Key, e[j].Key) > 0; j-- {
			e[j-1], e[j] = e[j], e[j-1]
		}
	}
}

func compareMaplike(a, b Value) int {
	ae, be := entriesOf(a), entriesOf(b)
	n := len(ae)
	if len(be) < n {
		n = len(be)
	}
	for i := 0; i < n; i++ {
		if c := Compare(ae[i].Key, be[i].Key); c != 0 {
			return c
		}
		av, bv := ae[i].Val, be[i].Val
		switch {
		case av == nil && bv == nil:
		case av == nil:
			return -1
		case bv == nil:
			return 1
		default:
			if c := Compare(av, bv); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(ae) < len(be):
		return -1
	case len(ae) > len(be):
		return 1
	}
	return 0
}

func compareOther(a, b Value) int {
	ra, rb := otherRank(a), otherRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if ab, ok := a.(*Boolean); ok {
		bb := b.(*Boolean)
		switch {
		case !ab.B && bb.B:
			return -1
		case ab.B && !bb.B:
			return 1
		default:
			return 0
		}
	}
	// Reference/Lambda/ClassInstance/SystemMessage have no natural
	// ordering among distinct values of the same kind; fall back to a
	// stable display-string comparison so Compare stays total.
	return strings.Compare(a.Display(), b.Display())
}

// Equal reports whether Compare(a, b) == 0.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

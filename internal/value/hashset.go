package value

import "fmt"

// HashSet has the same key→optional-value semantics as Set but makes no
// ordering guarantee, backed by a Go map keyed on each member's canonical
// hash string (spec.md §3).
type HashSet struct {
	entries map[string]SetEntry
}

func NewHashSet() *HashSet {
	return &HashSet{entries: make(map[string]SetEntry)}
}

func (h *HashSet) Kind() Kind { return KindHashSet }

func (h *HashSet) DeepCopy() Value {
	out := NewHashSet()
	for k, e := range h.entries {
		ne := SetEntry{Key: e.Key.DeepCopy()}
		if e.Val != nil {
			ne.Val = e.Val.DeepCopy()
		}
		out.entries[k] = ne
	}
	return out
}

func (h *HashSet) Display() string {
	s := "{"
	first := true
	for _, e := range h.entries {
		if !first {
			s += ","
		}
		first = false
		s += e.Key.Display()
		if e.Val != nil {
			s += ":" + e.Val.Display()
		}
	}
	return s + "}"
}

// hashKey builds a canonical, Kind-disambiguated hash key so e.g. Number 1
// and Text "1" never collide.
func hashKey(v Value) string {
	return fmt.Sprintf("%s:%s", v.Kind(), v.Display())
}

func (h *HashSet) Put(key, val Value) {
	h.entries[hashKey(key)] = SetEntry{Key: key, Val: val}
}

func (h *HashSet) Add(key Value) {
	k := hashKey(key)
	if _, ok := h.entries[k]; !ok {
		h.entries[k] = SetEntry{Key: key}
	}
}

func (h *HashSet) Get(key Value) (Value, bool) {
	e, ok := h.entries[hashKey(key)]
	if !ok {
		return nil, false
	}
	return e.Val, true
}

func (h *HashSet) Has(key Value) bool {
	_, ok := h.entries[hashKey(key)]
	return ok
}

func (h *HashSet) Remove(key Value) bool {
	k := hashKey(key)
	if _, ok := h.entries[k]; !ok {
		return false
	}
	delete(h.entries, k)
	return true
}

func (h *HashSet) Len() int { return len(h.entries) }

// Entries returns the members in unspecified order.
func (h *HashSet) Entries() []SetEntry {
	out := make([]SetEntry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e)
	}
	return out
}

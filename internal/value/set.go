package value

import "sort"

// SetEntry is a key with an optional value: Set doubles as both a set
// (Val == nil) and an insertion-ordered-by-comparator map (spec.md §3).
type SetEntry struct {
	Key Value
	Val Value
}

// Set is a key→optional-value mapping kept sorted by the cross-type
// comparator (spec.md §3/§4.2); keys are unique under Compare.
type Set struct {
	Entries []SetEntry
}

func NewSet() *Set { return &Set{} }

func (s *Set) Kind() Kind { return KindSet }

func (s *Set) DeepCopy() Value {
	out := &Set{Entries: make([]SetEntry, len(s.Entries))}
	for i, e := range s.Entries {
		ne := SetEntry{Key: e.Key.DeepCopy()}
		if e.Val != nil {
			ne.Val = e.Val.DeepCopy()
		}
		out.Entries[i] = ne
	}
	return out
}

func (s *Set) Display() string {
	str := "{"
	for i, e := range s.Entries {
		if i > 0 {
			str += ","
		}
		str += e.Key.Display()
		if e.Val != nil {
			str += ":" + e.Val.Display()
		}
	}
	return str + "}"
}

// indexOf returns the position of key (by Compare) and whether it is
// present.
func (s *Set) indexOf(key Value) (int, bool) {
	i := sort.Search(len(s.Entries), func(i int) bool {
		return Compare(s.Entries[i].Key, key) >= 0
	})
	if i < len(s.Entries) && Compare(s.Entries[i].Key, key) == 0 {
		return i, true
	}
	return i, false
}

// Put inserts or updates key→val, keeping Entries sorted.
func (s *Set) Put(key, val Value) {
	i, found := s.indexOf(key)
	if found {
		s.Entries[i].Val = val
		return
	}
	s.Entries = append(s.Entries, SetEntry{})
	copy(s.Entries[i+1:], s.Entries[i:])
	s.Entries[i] = SetEntry{Key: key, Val: val}
}

// Add inserts key as a member-only entry (no value).
func (s *Set) Add(key Value) {
	if _, found := s.indexOf(key); !found {
		s.Put(key, nil)
	}
}

// Get returns the value bound to key, if present.
func (s *Set) Get(key Value) (Value, bool) {
	i, found := s.indexOf(key)
	if !found {
		return nil, false
	}
	return s.Entries[i].Val, true
}

// Has reports whether key is a member.
func (s *Set) Has(key Value) bool {
	_, found := s.indexOf(key)
	return found
}

// Remove deletes key, reporting whether it was present.
func (s *Set) Remove(key Value) bool {
	i, found := s.indexOf(key)
	if !found {
		return false
	}
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	return true
}

// Union returns a new Set containing every key of both operands.
func Union(a, b *Set) *Set {
	out := NewSet()
	for _, e := range a.Entries {
		out.Put(e.Key.DeepCopy(), copyOrNil(e.Val))
	}
	for _, e := range b.Entries {
		if !out.Has(e.Key) {
			out.Put(e.Key.DeepCopy(), copyOrNil(e.Val))
		}
	}
	return out
}

// Intersect returns the keys present in both a and b.
func Intersect(a, b *Set) *Set {
	out := NewSet()
	for _, e := range a.Entries {
		if b.Has(e.Key) {
			out.Put(e.Key.DeepCopy(), copyOrNil(e.Val))
		}
	}
	return out
}

// Difference returns the keys of a not present in b.
func Difference(a, b *Set) *Set {
	out := NewSet()
	for _, e := range a.Entries {
		if !b.Has(e.Key) {
			out.Put(e.Key.DeepCopy(), copyOrNil(e.Val))
		}
	}
	return out
}

func copyOrNil(v Value) Value {
	if v == nil {
		return nil
	}
	return v.DeepCopy()
}

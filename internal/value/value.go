// Package value implements Cantus's tagged Value union (spec.md §3): the
// runtime representation shared by the expression evaluator, statement
// engine, and user-class machinery.
package value

import "cantus/internal/decimal"

// Kind identifies a Value's concrete variant.
type Kind int

const (
	KindNumber Kind = iota
	KindComplex
	KindBoolean
	KindText
	KindIdentifier
	KindDateTime
	KindTuple
	KindMatrix
	KindSet
	KindHashSet
	KindLinkedList
	KindReference
	KindLambda
	KindClassInstance
	KindSystemMessage
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindComplex:
		return "Complex"
	case KindBoolean:
		return "Boolean"
	case KindText:
		return "Text"
	case KindIdentifier:
		return "Identifier"
	case KindDateTime:
		return "DateTime"
	case KindTuple:
		return "Tuple"
	case KindMatrix:
		return "Matrix"
	case KindSet:
		return "Set"
	case KindHashSet:
		return "HashSet"
	case KindLinkedList:
		return "LinkedList"
	case KindReference:
		return "Reference"
	case KindLambda:
		return "Lambda"
	case KindClassInstance:
		return "ClassInstance"
	case KindSystemMessage:
		return "SystemMessage"
	}
	return "Unknown"
}

// Value is the common contract every runtime variant satisfies: spec.md §3
// requires equality, ordering, deep copy, and display on every variant.
type Value interface {
	Kind() Kind
	// DeepCopy returns an independent copy sharing no mutable state with
	// the receiver, except where spec.md §3 explicitly allows sharing
	// (static class fields).
	DeepCopy() Value
	// Display renders the value the way a script's output would show it.
	Display() string
}

// typeClass buckets a Value's Kind into the comparator's cross-type
// ordering classes (spec.md §4.2): numeric, floating, textual, date,
// span, listlike, maplike, other.
func typeClass(v Value) int {
	switch vv := v.(type) {
	case *Number:
		return 0 // numeric
	case *Complex:
		return 1 // floating
	case *Text, *Identifier:
		return 2 // textual
	case *DateTime:
		if vv.IsSpan {
			return 4 // span
		}
		return 3 // date
	case *Tuple, *Matrix, *LinkedList:
		return 5 // listlike
	case *Set:
		return 6 // maplike (ordered)
	case *HashSet:
		// Distinct from Set's bucket so Set == HashSet is always false
		// under the comparator (DESIGN.md Open Question resolution 4: no
		// coercion path between the two map kinds).
		return 7 // maplike (unordered)
	default:
		return 8 // other: Boolean, Reference, Lambda, ClassInstance, SystemMessage
	}
}

// otherRank orders the "other" bucket deterministically so Compare stays
// total even for kinds with no natural ordering among themselves.
func otherRank(v Value) int {
	switch v.(type) {
	case *Boolean:
		return 0
	case *Reference:
		return 1
	case *Lambda:
		return 2
	case *ClassInstance:
		return 3
	case *SystemMessage:
		return 4
	}
	return 5
}

// Truthy reports whether v should be treated as true in a boolean context
// (condition of if/while/and/or short-circuit).
func Truthy(v Value) bool {
	switch vv := Unwrap(v).(type) {
	case *Boolean:
		return vv.B
	case *Number:
		return !decimal.IsZero(vv.D) && !vv.D.Undefined
	case *Text:
		return vv.S != ""
	case nil:
		return false
	default:
		return true
	}
}

// Unwrap resolves v through its whole reference chain (via
// Reference.Resolve) if it is a Reference, matching ExprEvaluator's
// caller-configurable result coercion (spec.md §4.4 step 6); any other
// value is returned unchanged.
func Unwrap(v Value) Value {
	if r, ok := v.(*Reference); ok {
		return r.Resolve()
	}
	return v
}

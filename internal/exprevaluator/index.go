package exprevaluator

import (
	"cantus/internal/cantuserr"
	"cantus/internal/value"
)

// indexInto implements the `[…]` index form against the value
// immediately to its left (spec.md §4.4 step 1). It returns a Reference
// alongside the resolved value whenever the target cell is addressable,
// so a chained assignment like `m[0][0] := 5` can write through.
func indexInto(target value.Value, indices []value.Value) (value.Value, *value.Reference, error) {
	tv := value.Unwrap(target)
	switch v := tv.(type) {
	case *value.Matrix:
		switch len(indices) {
		case 2:
			r, c := intIndex(indices[0]), intIndex(indices[1])
			ref, ok := v.At(r, c)
			if !ok {
				return nil, nil, cantuserr.Evalf(0, "matrix index [%d,%d] out of range", r, c)
			}
			return ref.Resolve(), ref, nil
		case 1:
			r := intIndex(indices[0])
			if v.Height() == 1 {
				// A single row (e.g. one returned by a previous row index):
				// one subscript addresses a cell of that row.
				ref, ok := v.At(0, r)
				if !ok {
					return nil, nil, cantuserr.Evalf(0, "matrix column index %d out of range", r)
				}
				return ref.Resolve(), ref, nil
			}
			if r < 0 || r >= v.Height() {
				return nil, nil, cantuserr.Evalf(0, "matrix row index %d out of range", r)
			}
			// Share the original row's Reference slice (not a deep copy) so
			// a further index into the returned row-matrix still writes
			// through to the parent matrix's cells.
			row := &value.Matrix{Rows: [][]*value.Reference{v.Rows[r]}, Width: v.Width}
			return row, nil, nil
		default:
			return nil, nil, cantuserr.Evalf(0, "matrix index requires 1 or 2 subscripts, got %d", len(indices))
		}
	case *value.Tuple:
		if len(indices) != 1 {
			return nil, nil, cantuserr.Evalf(0, "tuple index requires exactly 1 subscript")
		}
		i := intIndex(indices[0])
		ref, ok := v.At(i)
		if !ok {
			return nil, nil, cantuserr.Evalf(0, "tuple index %d out of range", i)
		}
		return ref.Resolve(), ref, nil
	case *value.LinkedList:
		if len(indices) != 1 {
			return nil, nil, cantuserr.Evalf(0, "list index requires exactly 1 subscript")
		}
		i := intIndex(indices[0])
		node, ok := v.NodeAt(i)
		if !ok {
			return nil, nil, cantuserr.Evalf(0, "list index %d out of range", i)
		}
		ref := value.NewListReference(node)
		return ref.Resolve(), ref, nil
	case *value.Set:
		if len(indices) != 1 {
			return nil, nil, cantuserr.Evalf(0, "set index requires exactly 1 key")
		}
		val, ok := v.Get(indices[0])
		if !ok {
			return nil, nil, cantuserr.Evalf(0, "key %s not present in set", indices[0].Display())
		}
		if val == nil {
			return value.NewBoolean(true), nil, nil
		}
		return val, nil, nil
	case *value.HashSet:
		if len(indices) != 1 {
			return nil, nil, cantuserr.Evalf(0, "hash set index requires exactly 1 key")
		}
		val, ok := v.Get(indices[0])
		if !ok {
			return nil, nil, cantuserr.Evalf(0, "key %s not present in hash set", indices[0].Display())
		}
		if val == nil {
			return value.NewBoolean(true), nil, nil
		}
		return val, nil, nil
	case *value.Text:
		if len(indices) != 1 {
			return nil, nil, cantuserr.Evalf(0, "text index requires exactly 1 subscript")
		}
		i := intIndex(indices[0])
		runes := []rune(v.S)
		if i < 0 || i >= len(runes) {
			return nil, nil, cantuserr.Evalf(0, "text index %d out of range", i)
		}
		return value.NewText(string(runes[i])), nil, nil
	case *value.ClassInstance:
		// Member access has no dedicated operator in the precedence
		// table, so fields and methods both resolve through index
		// syntax: instance["field"] reads/writes the field's
		// Reference, instance["method"] yields a callable bound to
		// this instance.
		if v.Disposed {
			return nil, nil, cantuserr.Evalf(0, "cannot access a disposed instance")
		}
		if len(indices) != 1 {
			return nil, nil, cantuserr.Evalf(0, "instance member access requires exactly 1 key")
		}
		name, ok := memberName(indices[0])
		if !ok {
			return nil, nil, cantuserr.Evalf(0, "instance member key must be text or an identifier")
		}
		if name == "instanceid" {
			return value.BoundMethod(v, "instanceid", nil), nil, nil
		}
		if ref, ok := v.GetField(name); ok {
			return ref.Resolve(), ref, nil
		}
		if argNames, ok := v.Class.MethodArgNames(name); ok {
			return value.BoundMethod(v, name, argNames), nil, nil
		}
		return nil, nil, cantuserr.Evalf(0, "%s has no field or method %q", v.Class.ClassName(), name)
	default:
		return nil, nil, cantuserr.Evalf(0, "%s is not indexable", tv.Kind())
	}
}

// memberName extracts a field/method name from an index key: either a
// literal Text ("field") or a bareword that tokenized as an Identifier
// (field, written without quotes).
func memberName(v value.Value) (string, bool) {
	switch k := value.Unwrap(v).(type) {
	case *value.Text:
		return k.S, true
	case *value.Identifier:
		return k.Name, true
	default:
		return "", false
	}
}

func intIndex(v value.Value) int {
	if n, ok := value.Unwrap(v).(*value.Number); ok {
		return int(n.D.Float64())
	}
	return 0
}

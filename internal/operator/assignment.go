package operator

import (
	"cantus/internal/cantuserr"
	"cantus/internal/decimal"
	"cantus/internal/value"
)

// registerAssignment wires the assignment family (spec.md §4.3.1): `=`
// (also registered in comparison.go at comparison precedence; whichever
// occurrence isn't deferred away runs here), `:=`, the compound
// `op=` forms, and `++`/`--`. Every member follows "resolve LHS as a
// reference, compute the operator on the resolved value and RHS, store
// back" and returns the newly stored value so assignment chains like
// `a := b := 5` read naturally left of the final `:=`.
func registerAssignment(t *Table) {
	t.Register(&Operator{
		Signs: []string{"="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(func(_, rhs value.Value) (value.Value, error) { return rhs, nil }),
	})
	t.Register(&Operator{
		Signs: []string{":="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(func(_, rhs value.Value) (value.Value, error) { return rhs, nil }),
	})
	t.Register(&Operator{
		Signs: []string{"+="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(value.Add),
	})
	t.Register(&Operator{
		Signs: []string{"-="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(value.Sub),
	})
	t.Register(&Operator{
		Signs: []string{"*="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(value.Mul),
	})
	t.Register(&Operator{
		Signs: []string{"/="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(value.Div),
	})
	t.Register(&Operator{
		Signs: []string{"<<="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(func(a, b value.Value) (value.Value, error) {
			return shiftOp(a, b, func(x, y int64) int64 { return x << uint(y) })
		}),
	})
	t.Register(&Operator{
		Signs: []string{">>="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(func(a, b value.Value) (value.Value, error) {
			return shiftOp(a, b, func(x, y int64) int64 { return x >> uint(y) })
		}),
	})
	t.Register(&Operator{
		Signs: []string{"&="}, Precedence: PrecAssignment, Arity: Binary,
		ByRef: true, IsAssignment: true, RightAssoc: true,
		Exec: storeExec(func(a, b value.Value) (value.Value, error) {
			return shiftOp(a, b, func(x, y int64) int64 { return x & y })
		}),
	})
	t.Register(&Operator{
		Signs: []string{"++"}, Precedence: PrecAssignment, Arity: UnaryAfter, ByRef: true,
		Exec: incDecExec(true),
	})
	t.Register(&Operator{
		Signs: []string{"--"}, Precedence: PrecAssignment, Arity: UnaryAfter, ByRef: true,
		Exec: incDecExec(false),
	})
}

// storeExec builds an Exec that computes fn(current, rhs), stores the
// result through the LHS reference, and returns it. A Tuple LHS (spec.md
// §4.3.1's "Reference/Tuple" assignable shapes) destructures
// element-wise against a same-length Tuple RHS instead.
func storeExec(fn func(a, b value.Value) (value.Value, error)) ExecFunc {
	return func(args []Operand) (value.Value, error) {
		if args[0].Ref == nil {
			if lt, ok := value.Unwrap(args[0].Val).(*value.Tuple); ok {
				return storeTuple(lt, args[1].Val, fn)
			}
			return nil, cantuserr.Evalf(0, "left-hand side of assignment is not a reference")
		}
		result, err := fn(args[0].Ref.Resolve(), args[1].Val)
		if err != nil {
			return nil, err
		}
		args[0].Ref.Store(result)
		return result, nil
	}
}

// storeTuple destructures rhs against lhs element-wise: rhs must itself
// be a Tuple of the same length, and each lhs element must carry a live
// Reference (spec.md §4.3.1, e.g. `a, b = 1, 2`).
func storeTuple(lhs *value.Tuple, rhs value.Value, fn func(a, b value.Value) (value.Value, error)) (value.Value, error) {
	rt, ok := value.Unwrap(rhs).(*value.Tuple)
	if !ok {
		return nil, cantuserr.Evalf(0, "cannot destructure a non-tuple right-hand side into %d targets", lhs.Len())
	}
	if rt.Len() != lhs.Len() {
		return nil, cantuserr.Evalf(0, "tuple assignment length mismatch: %d targets, %d values", lhs.Len(), rt.Len())
	}
	results := make([]value.Value, lhs.Len())
	for i := 0; i < lhs.Len(); i++ {
		lref, _ := lhs.At(i)
		if lref == nil {
			return nil, cantuserr.Evalf(0, "tuple assignment target %d is not a reference", i)
		}
		rref, _ := rt.At(i)
		result, err := fn(lref.Resolve(), rref.Resolve())
		if err != nil {
			return nil, err
		}
		lref.Store(result)
		results[i] = result
	}
	return value.NewTuple(results...), nil
}

func shiftOp(a, b value.Value, fn func(x, y int64) int64) (value.Value, error) {
	x, err := asInt64(a)
	if err != nil {
		return nil, err
	}
	y, err := asInt64(b)
	if err != nil {
		return nil, err
	}
	return value.NewNumber(decimal.FromInt64(fn(x, y))), nil
}

// incDecExec implements `++`/`--`. Applying either to a non-reference
// operand is rejected with an Evaluator error rather than silently
// falling through to a no-op (a deliberate tightening of an
// unspecified source behavior, see DESIGN.md).
func incDecExec(increment bool) ExecFunc {
	return func(args []Operand) (value.Value, error) {
		if args[0].Ref == nil {
			return nil, cantuserr.Evalf(0, "++/-- requires a reference operand")
		}
		n, ok := value.Unwrap(args[0].Ref.Resolve()).(*value.Number)
		if !ok {
			return nil, cantuserr.Evalf(0, "++/-- requires a numeric reference")
		}
		delta := value.NewNumber(decimal.FromInt64(1))
		var result value.Value
		var err error
		if increment {
			result, err = value.Add(n, delta)
		} else {
			result, err = value.Sub(n, delta)
		}
		if err != nil {
			return nil, err
		}
		args[0].Ref.Store(result)
		return result, nil
	}
}

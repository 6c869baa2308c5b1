// Package internals is the default, optional implementation of the
// statement.Internals capability (SPEC_FULL.md §1.2/§4.8): a small set of
// math/string/collection builtins the core invokes through
// `Call`/`Has` but never constructs itself, plus additive hooks
// (WithDB, WithCrypto, WithNotify) that layer the domain-stack
// sub-packages on top. Grounded in the shape of the teacher's
// internal/vmregister/stdlib.go registration table: one map from
// builtin name to a Go function, populated by a handful of
// `register*` helpers grouped by concern rather than one giant switch.
package internals

import (
	"math"
	"sort"
	"strings"

	"cantus/internal/cantuserr"
	"cantus/internal/decimal"
	"cantus/internal/value"
)

// Fn is a single builtin's implementation: already-evaluated arguments in,
// a Value or error out.
type Fn func(args []value.Value) (value.Value, error)

// Registry is the default Internals implementation: a name->Fn table
// built additively by Default() and the With* option functions.
type Registry struct {
	fns map[string]Fn
}

// New builds an empty Registry. Most callers want Default(), which
// pre-populates the core math/string/collection set.
func New() *Registry {
	return &Registry{fns: make(map[string]Fn)}
}

// Register adds or overwrites a single builtin.
func (r *Registry) Register(name string, fn Fn) {
	r.fns[name] = fn
}

// Merge copies every entry of other into r, overwriting on name clash.
func (r *Registry) Merge(other *Registry) {
	for name, fn := range other.fns {
		r.fns[name] = fn
	}
}

// Has satisfies statement.Internals.
func (r *Registry) Has(name string) bool {
	_, ok := r.fns[name]
	return ok
}

// Call satisfies statement.Internals.
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	fn, ok := r.fns[name]
	if !ok {
		return nil, cantuserr.Evalf(0, "undefined internal function %q", name)
	}
	return fn(args)
}

// Default builds the minimal builtin set needed to run the worked
// examples in spec.md §8 and simple scripts in the chemistry-script
// style spec.md §1 describes as a user of the core: arithmetic helpers
// beyond what operators already cover, string case/trim/split/join,
// and collection introspection (len, type, sorted, range).
func Default() *Registry {
	r := New()
	registerMath(r)
	registerText(r)
	registerCollections(r)
	registerMatrix(r)
	return r
}

func numArg(args []value.Value, i int) (decimal.Decimal, error) {
	if i >= len(args) {
		return decimal.Decimal{}, cantuserr.Evalf(0, "missing numeric argument %d", i)
	}
	n, ok := value.Unwrap(args[i]).(*value.Number)
	if !ok {
		return decimal.Decimal{}, cantuserr.Evalf(0, "argument %d is not a Number", i)
	}
	return n.D, nil
}

func registerMath(r *Registry) {
	unary := func(f func(float64) float64) Fn {
		return func(args []value.Value) (value.Value, error) {
			d, err := numArg(args, 0)
			if err != nil {
				return nil, err
			}
			return value.NewNumber(decimal.FromFloat64(f(d.Float64()))), nil
		}
	}
	r.Register("abs", func(args []value.Value) (value.Value, error) {
		d, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.NewNumber(decimal.Abs(d)), nil
	})
	r.Register("sqrt", unary(math.Sqrt))
	r.Register("sin", unary(math.Sin))
	r.Register("cos", unary(math.Cos))
	r.Register("tan", unary(math.Tan))
	r.Register("log", unary(math.Log))
	r.Register("log10", unary(math.Log10))
	r.Register("exp", unary(math.Exp))
	r.Register("floor", unary(math.Floor))
	r.Register("ceil", unary(math.Ceil))
	r.Register("round", unary(math.Round))
	r.Register("pow", func(args []value.Value) (value.Value, error) {
		base, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		exp, err := numArg(args, 1)
		if err != nil {
			return nil, err
		}
		return value.NewNumber(decimal.FromFloat64(math.Pow(base.Float64(), exp.Float64()))), nil
	})
	r.Register("min", func(args []value.Value) (value.Value, error) {
		return foldNumbers(args, func(a, b decimal.Decimal) decimal.Decimal {
			if decimal.Cmp(a, b) <= 0 {
				return a
			}
			return b
		})
	})
	r.Register("max", func(args []value.Value) (value.Value, error) {
		return foldNumbers(args, func(a, b decimal.Decimal) decimal.Decimal {
			if decimal.Cmp(a, b) >= 0 {
				return a
			}
			return b
		})
	})
}

func foldNumbers(args []value.Value, pick func(a, b decimal.Decimal) decimal.Decimal) (value.Value, error) {
	if len(args) == 0 {
		return nil, cantuserr.Evalf(0, "requires at least one argument")
	}
	best, err := numArg(args, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		d, err := numArg(args, i)
		if err != nil {
			return nil, err
		}
		best = pick(best, d)
	}
	return value.NewNumber(best), nil
}

func textArg(args []value.Value, i int) (string, error) {
	if i >= len(args) {
		return "", cantuserr.Evalf(0, "missing text argument %d", i)
	}
	switch t := value.Unwrap(args[i]).(type) {
	case *value.Text:
		return t.S, nil
	case *value.Identifier:
		return t.Name, nil
	default:
		return value.DisplayOperand(args[i]), nil
	}
}

func registerText(r *Registry) {
	r.Register("upper", func(args []value.Value) (value.Value, error) {
		s, err := textArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.NewText(strings.ToUpper(s)), nil
	})
	r.Register("lower", func(args []value.Value) (value.Value, error) {
		s, err := textArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.NewText(strings.ToLower(s)), nil
	})
	r.Register("trim", func(args []value.Value) (value.Value, error) {
		s, err := textArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.NewText(strings.TrimSpace(s)), nil
	})
	r.Register("split", func(args []value.Value) (value.Value, error) {
		s, err := textArg(args, 0)
		if err != nil {
			return nil, err
		}
		sep, err := textArg(args, 1)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		items := make([]value.Value, len(parts))
		for i, p := range parts {
			items[i] = value.NewText(p)
		}
		return value.NewLinkedListFrom(items), nil
	})
	r.Register("join", func(args []value.Value) (value.Value, error) {
		sep, err := textArg(args, 1)
		if err != nil {
			return nil, err
		}
		var parts []string
		switch list := value.Unwrap(args[0]).(type) {
		case *value.LinkedList:
			for _, v := range list.ToSlice() {
				parts = append(parts, value.DisplayOperand(v))
			}
		default:
			return nil, cantuserr.Evalf(0, "join requires a LinkedList")
		}
		return value.NewText(strings.Join(parts, sep)), nil
	})
	r.Register("str", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewText(""), nil
		}
		return value.NewText(value.DisplayOperand(args[0])), nil
	})
	r.Register("num", func(args []value.Value) (value.Value, error) {
		s, err := textArg(args, 0)
		if err != nil {
			return nil, err
		}
		d, ok := decimal.FromString(s, false)
		if !ok {
			return nil, cantuserr.Evalf(0, "cannot parse %q as a number", s)
		}
		return value.NewNumber(d), nil
	})
	r.Register("type", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewText("Undefined"), nil
		}
		return value.NewText(value.Unwrap(args[0]).Kind().String()), nil
	})
}

func registerCollections(r *Registry) {
	r.Register("len", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, cantuserr.Evalf(0, "len requires one argument")
		}
		switch v := value.Unwrap(args[0]).(type) {
		case *value.Text:
			return value.NewNumber(decimal.FromInt64(int64(len([]rune(v.S))))), nil
		case *value.Tuple:
			return value.NewNumber(decimal.FromInt64(int64(v.Len()))), nil
		case *value.Matrix:
			return value.NewNumber(decimal.FromInt64(int64(len(v.Rows)))), nil
		case *value.Set:
			return value.NewNumber(decimal.FromInt64(int64(len(v.Entries)))), nil
		case *value.HashSet:
			return value.NewNumber(decimal.FromInt64(int64(v.Len()))), nil
		case *value.LinkedList:
			return value.NewNumber(decimal.FromInt64(int64(v.Len()))), nil
		default:
			return nil, cantuserr.Evalf(0, "len: unsupported type %s", v.Kind())
		}
	})
	r.Register("sorted", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, cantuserr.Evalf(0, "sorted requires one argument")
		}
		list, ok := value.Unwrap(args[0]).(*value.LinkedList)
		if !ok {
			return nil, cantuserr.Evalf(0, "sorted requires a LinkedList")
		}
		items := append([]value.Value(nil), list.ToSlice()...)
		sort.SliceStable(items, func(i, j int) bool { return value.Compare(items[i], items[j]) < 0 })
		return value.NewLinkedListFrom(items), nil
	})
	r.Register("range", func(args []value.Value) (value.Value, error) {
		var start, stop, step int64 = 0, 0, 1
		switch len(args) {
		case 1:
			d, err := numArg(args, 0)
			if err != nil {
				return nil, err
			}
			stop = int64(d.Float64())
		case 2, 3:
			d0, err := numArg(args, 0)
			if err != nil {
				return nil, err
			}
			d1, err := numArg(args, 1)
			if err != nil {
				return nil, err
			}
			start, stop = int64(d0.Float64()), int64(d1.Float64())
			if len(args) == 3 {
				d2, err := numArg(args, 2)
				if err != nil {
					return nil, err
				}
				step = int64(d2.Float64())
			}
		default:
			return nil, cantuserr.Evalf(0, "range expects 1-3 arguments")
		}
		if step == 0 {
			return nil, cantuserr.Mathf(0, "range step cannot be 0")
		}
		var items []value.Value
		if step > 0 {
			for i := start; i < stop; i += step {
				items = append(items, value.NewNumber(decimal.FromInt64(i)))
			}
		} else {
			for i := start; i > stop; i += step {
				items = append(items, value.NewNumber(decimal.FromInt64(i)))
			}
		}
		return value.NewLinkedListFrom(items), nil
	})
}

func matrixArg(args []value.Value, i int) (*value.Matrix, error) {
	if i >= len(args) {
		return nil, cantuserr.Evalf(0, "missing matrix argument %d", i)
	}
	m, ok := value.Unwrap(args[i]).(*value.Matrix)
	if !ok {
		return nil, cantuserr.Evalf(0, "argument %d is not a Matrix", i)
	}
	return m, nil
}

// registerMatrix exposes the core matrix operations spec.md §4.3.2
// documents (det/inv/cross), wiring the Determinant/Inverse/CrossProduct
// implementations in internal/value/matrixops.go up to script text.
func registerMatrix(r *Registry) {
	r.Register("det", func(args []value.Value) (value.Value, error) {
		m, err := matrixArg(args, 0)
		if err != nil {
			return nil, err
		}
		d, ok := value.Determinant(m)
		if !ok {
			return nil, cantuserr.Mathf(0, "det requires a square matrix")
		}
		return d, nil
	})
	r.Register("inv", func(args []value.Value) (value.Value, error) {
		m, err := matrixArg(args, 0)
		if err != nil {
			return nil, err
		}
		inv, ok := value.Inverse(m)
		if !ok {
			return nil, cantuserr.Mathf(0, "matrix is not invertible")
		}
		return inv, nil
	})
	r.Register("cross", func(args []value.Value) (value.Value, error) {
		a, err := matrixArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matrixArg(args, 1)
		if err != nil {
			return nil, err
		}
		c, ok := value.CrossProduct(a, b)
		if !ok {
			return nil, cantuserr.Mathf(0, "cross requires two 3-component column vectors")
		}
		return c, nil
	})
}

package statement

import (
	"cantus/internal/cantuserr"
	"cantus/internal/class"
	"cantus/internal/decimal"
	"cantus/internal/scope"
	"cantus/internal/value"
)

// CallUserFunction runs fn against args: a fresh sub-evaluator scoped
// under fn's declaring scope, positional-then-default argument
// binding, and the function's previously parsed body (spec.md §4.6
// "User function" execution recipe: "creates a sub-evaluator, sets
// the current scope to a fresh child of the declaring scope, binds
// positional then keyword arguments, runs the body, and returns the
// return value, or undefined on fall-through").
func (e *Engine) CallUserFunction(fn *class.UserFunction, args []value.Value) (value.Value, error) {
	child := e.Clone(newInnerScopeName(&scope.Scope{Name: fn.DeclScope}, "call"))
	if err := bindArgs(child, fn.Name, fn.Params, args); err != nil {
		return nil, err
	}
	return runBody(child, e.bodyOf(fn))
}

// InvokeLambda satisfies exprevaluator.Host for directly-held Lambda
// values: a literal `x => x*x`, one pulled out of a variable or
// collection, or a class method bound off an instance.
func (e *Engine) InvokeLambda(lam *value.Lambda, args []value.Value) (value.Value, error) {
	if lam.Receiver != nil {
		return e.callMethod(lam.Receiver, lam.Name, args)
	}
	if lam.Bound {
		fn, ok := e.resolveFunction(lam.Name)
		if !ok {
			return nil, cantuserr.Evalf(0, "undefined function %q", lam.Name)
		}
		return e.CallUserFunction(fn, args)
	}
	return e.callFlatLambda(lam, args)
}

// callFlatLambda runs a literal lambda's body in a throwaway scope
// with its parameters bound positionally (spec.md §4.7 closures: a
// sub-evaluator spawned to carry the binding, not a process-global).
func (e *Engine) callFlatLambda(lam *value.Lambda, args []value.Value) (value.Value, error) {
	child := e.Clone(newInnerScopeName(e.Scope, "lambda"))
	for i, name := range lam.ArgNames {
		var v value.Value = value.NewNumber(decimal.Undef())
		if i < len(args) {
			v = args[i]
		}
		child.SetVariable(name, v, 0)
	}
	return child.evalExpr(lam.Body)
}

// callMethod dispatches a method call against a live instance,
// honoring inheritance resolution (spec.md §4.6 "left-to-right,
// depth-first, first-seen-wins").
func (e *Engine) callMethod(inst *value.ClassInstance, name string, args []value.Value) (value.Value, error) {
	if inst.Disposed {
		return nil, cantuserr.Evalf(0, "cannot call %q on a disposed instance", name)
	}
	if name == "instanceid" {
		return value.NewText(inst.InnerScope), nil
	}
	cls, ok := inst.Class.(*class.UserClass)
	if !ok {
		return nil, cantuserr.Evalf(0, "instance has no resolvable class")
	}
	fn, _, ok := cls.ResolveMethod(name)
	if !ok {
		return nil, cantuserr.Evalf(0, "%s has no method %q", cls.Name, name)
	}
	return e.callBoundMethod(inst, fn, args)
}

// callBoundMethod runs a method body in a child of the instance's
// inner scope, with every field rebound by reference (so a bare
// identifier inside the method resolves straight to the field's
// shared cell) and "self" bound to the instance.
func (e *Engine) callBoundMethod(inst *value.ClassInstance, fn *class.UserFunction, args []value.Value) (value.Value, error) {
	child := e.Clone(newInnerScopeName(&scope.Scope{Name: inst.InnerScope}, "method"))
	child.SetVariable("self", inst, 0)
	for name, ref := range inst.Fields {
		child.Store.SetRef(child.Scope.Name, name, ref, 0)
	}
	if err := bindArgs(child, fn.Name, fn.Params, args); err != nil {
		return nil, err
	}
	return runBody(child, e.bodyOf(fn))
}

// bindArgs installs fn's parameters into child's scope: positional
// arguments first, then defaults (evaluated against child so later
// defaults can see earlier parameters), erroring on arity mismatch.
func bindArgs(child *Engine, fnName string, params []class.Param, args []value.Value) error {
	required := 0
	for _, p := range params {
		if !p.HasDefault {
			required++
		}
	}
	if len(args) > len(params) {
		return cantuserr.Evalf(0, "%s expects at most %d argument(s), got %d", fnName, len(params), len(args))
	}
	if len(args) < required {
		return cantuserr.Evalf(0, "%s expects at least %d argument(s), got %d", fnName, required, len(args))
	}
	for i, p := range params {
		var v value.Value
		switch {
		case i < len(args):
			v = args[i]
		case p.HasDefault:
			dv, err := child.evalExpr(p.Default)
			if err != nil {
				return err
			}
			v = dv
		default:
			v = value.NewNumber(decimal.Undef())
		}
		child.SetVariable(p.Name, v, 0)
	}
	return nil
}

// runBody executes a parsed function/method body, mapping an
// uncaught Return into its value and any other fall-through into
// undefined (spec.md §4.6).
func runBody(child *Engine, body []*Node) (value.Value, error) {
	res, err := child.ExecBlock(body)
	if err != nil {
		return nil, err
	}
	if res.Code == Return {
		return res.Value, nil
	}
	return value.NewNumber(decimal.Undef()), nil
}

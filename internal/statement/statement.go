// Package statement implements Cantus's StatementEngine (spec.md §4.5):
// indentation-block grouping of script source into a statement tree, and
// execution of that tree against a shared scope/variable store and
// operator table. Engine also implements exprevaluator.Host, so a single
// object is both "the evaluator" expressions dispatch through and the
// thing that owns scope, user functions, and user classes (spec.md §9:
// "the evaluator's variable table and class registry should be owned by
// the evaluator instance, not a process-global").
package statement

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"cantus/internal/class"
	"cantus/internal/decimal"
	"cantus/internal/exprevaluator"
	"cantus/internal/operator"
	"cantus/internal/scope"
	"cantus/internal/value"
)

// Code is a control-flow signal a statement's execution can produce
// (spec.md §4.5 ExecCode).
type Code int

const (
	Resume Code = iota
	Return
	Continue
	Break
	BreakLevel
)

// Result is every statement's return shape.
type Result struct {
	Value value.Value
	Code  Code
}

func resumed(v value.Value) Result { return Result{Value: v, Code: Resume} }

func voidResult() Result { return resumed(value.NewNumber(decimal.Undef())) }

// Internals is the capability an Engine calls out to for builtin
// functions it does not itself implement (math/string/collection
// builtins, I/O, database, crypto — SPEC_FULL.md §4.8). Defined here
// rather than imported from internal/internals so this package never
// depends on that one; the evaluator facade wires a concrete
// implementation in.
type Internals interface {
	Call(name string, args []value.Value) (value.Value, error)
	Has(name string) bool
}

// Loader resolves an `import`/`load` path statement (spec.md §6.1). The
// evaluator facade wires in internal/module's real implementation.
type Loader interface {
	Load(path string, currentScope string) (scopeName string, err error)
}

type funcTable struct {
	mu     sync.RWMutex
	m      map[string]*class.UserFunction
	bodies map[*class.UserFunction][]*Node
}

func newFuncTable() *funcTable {
	return &funcTable{m: make(map[string]*class.UserFunction), bodies: make(map[*class.UserFunction][]*Node)}
}

type classTable struct {
	mu sync.RWMutex
	m  map[string]*class.UserClass
}

func newClassTable() *classTable { return &classTable{m: make(map[string]*class.UserClass)} }

// Engine executes a parsed statement tree. Multiple Engines created via
// Clone for sub-evaluators share Store/Funcs/Classes/dying but each owns
// its own current Scope (spec.md §9 "sub-evaluators share via an
// explicit link to the parent's tables").
type Engine struct {
	Table     *operator.Table
	Store     *scope.Store
	Internals Internals
	Loader    Loader
	Async     Scheduler

	funcs   *funcTable
	classes *classTable

	Scope *scope.Scope

	LoopLimit int
	dying     *int32

	expr *exprevaluator.Evaluator
}

// New builds a root Engine rooted at scope.Root.
func New(table *operator.Table, internals Internals) *Engine {
	e := &Engine{
		Table:     table,
		Store:     scope.NewStore(),
		Internals: internals,
		funcs:     newFuncTable(),
		classes:   newClassTable(),
		Scope:     scope.NewRootScope(),
		LoopLimit: 1_000_000,
		dying:     new(int32),
	}
	e.expr = exprevaluator.New(table, e)
	return e
}

// Clone builds a sub-evaluator sharing this Engine's store, function
// table, class table, and die-flag, but owning an independent current
// scope (spec.md §4.7/§9).
func (e *Engine) Clone(childScope *scope.Scope) *Engine {
	clone := &Engine{
		Table:     e.Table,
		Store:     e.Store,
		Internals: e.Internals,
		Loader:    e.Loader,
		Async:     e.Async,
		funcs:     e.funcs,
		classes:   e.classes,
		Scope:     childScope,
		LoopLimit: e.LoopLimit,
		dying:     e.dying,
	}
	clone.expr = exprevaluator.New(e.Table, clone)
	return clone
}

// StopAll sets the die-flag shared by this Engine and every clone
// descended from it (spec.md §5 cancellation).
func (e *Engine) StopAll() { atomic.StoreInt32(e.dying, 1) }

func (e *Engine) dying_() bool { return atomic.LoadInt32(e.dying) != 0 }

func newInnerScopeName(parent *scope.Scope, tag string) *scope.Scope {
	return parent.Child(tag + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Run parses src and executes it against this Engine's current scope,
// returning the value of the last statement executed (spec.md §6
// `eval`). A trailing statement that yields no value, such as a
// declaration, makes the result undefined; earlier values are not
// carried forward past it.
func (e *Engine) Run(src string) (value.Value, error) {
	nodes, err := Parse(src, e.Table.Brackets())
	if err != nil {
		return nil, err
	}
	res, err := e.ExecBlock(nodes)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// EvalExprRaw runs a single expression (spec.md §6 `eval_expr_raw`).
func (e *Engine) EvalExprRaw(text string, conditionMode bool) (value.Value, error) {
	return e.expr.Evaluate(text, exprevaluator.Options{ConditionMode: conditionMode})
}

func (e *Engine) evalExpr(text string) (value.Value, error) {
	return e.expr.Evaluate(text, exprevaluator.Options{})
}

func (e *Engine) evalCond(text string) (bool, error) {
	v, err := e.expr.Evaluate(text, exprevaluator.Options{ConditionMode: true})
	if err != nil {
		return false, err
	}
	return value.Truthy(v), nil
}

// ResolveIdentifier satisfies exprevaluator.Host: variables first, then
// a bareword naming a user function (bound as a callable Lambda so it
// can be passed around or invoked). Class names are not resolved here;
// `Name(args)` reaches a class through Call.
func (e *Engine) ResolveIdentifier(name string) (value.Value, *value.Reference, bool) {
	if v, ok := e.Store.Resolve(e.Scope.Name, e.Scope.Imports(), name); ok {
		return v.Ref.Resolve(), v.Ref, true
	}
	if fn, ok := e.resolveFunction(name); ok {
		return value.NewBoundLambda(fn.Name, paramNames(fn.Params)), nil, true
	}
	return nil, nil, false
}

func paramNames(params []class.Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

// Call satisfies exprevaluator.Host: user functions, user classes
// (instantiation), then Internals builtins, in that order.
func (e *Engine) Call(name string, args []value.Value) (value.Value, bool, error) {
	if fn, ok := e.resolveFunction(name); ok {
		v, err := e.CallUserFunction(fn, args)
		return v, true, err
	}
	if cls, ok := e.resolveClass(name); ok {
		v, err := e.Instantiate(cls, args)
		return v, true, err
	}
	if e.Internals != nil && e.Internals.Has(name) {
		v, err := e.Internals.Call(name, args)
		return v, true, err
	}
	return nil, false, nil
}

func (e *Engine) lookupScopeChain(name string, exists func(qualified string) bool) (string, bool) {
	cur := e.Scope.Name
	for {
		q := cur + "." + name
		if exists(q) {
			return q, true
		}
		i := strings.LastIndexByte(cur, '.')
		if i < 0 {
			if cur != scope.Root {
				if q := scope.Root + "." + name; exists(q) {
					return q, true
				}
			}
			break
		}
		cur = cur[:i]
	}
	for _, imp := range e.Scope.Imports() {
		if q := imp + "." + name; exists(q) {
			return q, true
		}
	}
	return "", false
}

func (e *Engine) resolveFunction(name string) (*class.UserFunction, bool) {
	e.funcs.mu.RLock()
	defer e.funcs.mu.RUnlock()
	q, ok := e.lookupScopeChain(name, func(q string) bool { _, ok := e.funcs.m[q]; return ok })
	if !ok {
		return nil, false
	}
	return e.funcs.m[q], true
}

func (e *Engine) resolveClass(name string) (*class.UserClass, bool) {
	e.classes.mu.RLock()
	defer e.classes.mu.RUnlock()
	q, ok := e.lookupScopeChain(name, func(q string) bool { _, ok := e.classes.m[q]; return ok })
	if !ok {
		return nil, false
	}
	return e.classes.m[q], true
}

// DefineFunction registers fn in the current scope, along with its
// already-parsed body (spec.md §4.6: "body: script text" — parsed once
// at definition time and re-run per call rather than re-parsed).
func (e *Engine) DefineFunction(fn *class.UserFunction, body []*Node) {
	e.funcs.mu.Lock()
	defer e.funcs.mu.Unlock()
	e.funcs.m[fn.DeclScope+"."+fn.Name] = fn
	e.funcs.bodies[fn] = body
}

// registerMethodBody stores a class method's body without adding it to
// the scope-chain function table (methods resolve through the class's
// inheritance chain, not the ordinary scope lookup).
func (e *Engine) registerMethodBody(fn *class.UserFunction, body []*Node) {
	e.funcs.mu.Lock()
	defer e.funcs.mu.Unlock()
	e.funcs.bodies[fn] = body
}

// bodyOf returns the parsed body registered for fn.
func (e *Engine) bodyOf(fn *class.UserFunction) []*Node {
	e.funcs.mu.RLock()
	defer e.funcs.mu.RUnlock()
	return e.funcs.bodies[fn]
}

// DefineClass registers cls in the current scope.
func (e *Engine) DefineClass(cls *class.UserClass) {
	e.classes.mu.Lock()
	defer e.classes.mu.Unlock()
	e.classes.m[cls.DeclScope+"."+cls.Name] = cls
}

// ResolveClass is the exported form of resolveClass, exposed to hosts
// through the facade's Evaluator.ResolveClass.
func (e *Engine) ResolveClass(name string) (*class.UserClass, bool) { return e.resolveClass(name) }

// SetVariable sets name in the current scope (spec.md §6 `set_variable`).
func (e *Engine) SetVariable(name string, v value.Value, mods scope.Modifier) {
	e.Store.Set(e.Scope.Name, name, v, mods)
}

// GetVariableRef resolves name from the current scope chain.
func (e *Engine) GetVariableRef(name string) (*value.Reference, bool) {
	v, ok := e.Store.Resolve(e.Scope.Name, e.Scope.Imports(), name)
	if !ok {
		return nil, false
	}
	return v.Ref, true
}

func (e *Engine) HasVariable(name string) bool {
	return e.Store.Has(e.Scope.Name, e.Scope.Imports(), name)
}

func (e *Engine) UnsetVariable(name string) bool {
	return e.Store.Unset(e.Scope.Name, name)
}

func (e *Engine) Import(scopeName string)   { e.Scope.Import(scopeName) }
func (e *Engine) Unimport(scopeName string) { e.Scope.Unimport(scopeName) }

// lineOf returns a parsed node's source line number, defaulting to 0
// when unavailable (used in error construction helpers).
func lineOf(n *Node) int {
	if n == nil {
		return 0
	}
	return n.Line
}

func parseIntLoose(s string) int {
	s = strings.TrimSpace(s)
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

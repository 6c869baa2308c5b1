// Package evaluator is Cantus's public facade (spec.md §6): the single
// entry point host applications construct and drive. It owns nothing
// the core doesn't already own — an operator.Table, a statement.Engine,
// an internals.Registry, a module.Loader, and an async
// concurrency.Pool — and exposes them through the operation set spec.md
// §6 names, the way the teacher's cmd/sentra/main.go drives its VM
// through a small set of top-level entry points rather than reaching
// into VM internals directly.
package evaluator

import (
	"context"
	"time"

	"cantus/internal/cantuserr"
	"cantus/internal/cantuslog"
	"cantus/internal/class"
	"cantus/internal/concurrency"
	"cantus/internal/internals"
	"cantus/internal/module"
	"cantus/internal/operator"
	"cantus/internal/scope"
	"cantus/internal/statement"
	"cantus/internal/value"
)

// Options configures a new Evaluator (SPEC_FULL.md §1.1's
// `evaluator.Options`, read from cmd/cantus's `-loop-limit`/`-precision`
// flags).
type Options struct {
	// LoopLimit caps loop iterations (spec.md §4.5); 0 selects the
	// Engine default.
	LoopLimit int
	// Internals overrides the default builtin registry. Nil selects
	// internals.Default().
	Internals statement.Internals
	// Log receives component diagnostics (module loads, async task
	// lifecycle). Nil selects cantuslog.Default("evaluator").
	Log *cantuslog.Logger
}

// EvalOptions mirrors spec.md §6's `eval` flags.
type EvalOptions struct {
	NoSaveAns  bool
	Declarative bool
	Internal   bool
}

// Evaluator is the root object a host application constructs. Every
// `sub_evaluator` it creates shares this Evaluator's Table, Store,
// function/class tables, Loader, and Pool (spec.md §9: sub-evaluators
// "share via an explicit link to the parent's tables").
type Evaluator struct {
	table *operator.Table
	eng   *statement.Engine
	pool  *concurrency.Pool
	loader *module.Loader
	log   *cantuslog.Logger
}

// New builds a root Evaluator with its own operator table, variable
// store, function/class tables, module loader, and async pool.
func New(opts Options) *Evaluator {
	table := operator.Default()
	var internalsCap statement.Internals = opts.Internals
	if internalsCap == nil {
		internalsCap = internals.Default()
	}
	eng := statement.New(table, internalsCap)
	if opts.LoopLimit > 0 {
		eng.LoopLimit = opts.LoopLimit
	}
	loader := module.New()
	loader.Engine = eng
	eng.Loader = loader

	pool := concurrency.NewPool()
	log := opts.Log
	if log == nil {
		log = cantuslog.Default("evaluator")
	}
	sched := &poolScheduler{pool: pool, log: log}
	eng.Async = sched

	return &Evaluator{table: table, eng: eng, pool: pool, loader: loader, log: log}
}

// poolScheduler adapts concurrency.Pool to statement.Scheduler.
type poolScheduler struct {
	pool *concurrency.Pool
	log  *cantuslog.Logger
}

func (s *poolScheduler) Spawn(host *statement.Engine, fn func(sub *statement.Engine) (value.Value, error)) (int64, error) {
	sub := host.Clone(host.Scope.Child("async"))
	task := s.pool.Spawn(func(ctx context.Context) (interface{}, error) {
		return fn(sub)
	})
	s.log.Debugf("spawned %s", task.ID)
	return task.Seq, nil
}

// Eval evaluates a multi-line script and returns the value of the last
// statement executed (spec.md §6 `eval`); a trailing statement that
// yields no value, such as a declaration, makes the result undefined
// rather than an earlier statement's value. Unless opts.NoSaveAns is set, the
// result is also stored in the current scope's `ans` variable, the
// calculator-language convention spec.md §1 frames Cantus around
// ("a programmable calculator"). Declarative and Internal are accepted
// for API parity with spec.md §6's flag set; spec.md does not describe
// a distinct effect for them beyond no_save_ans, so they are no-ops
// here (recorded in DESIGN.md).
func (ev *Evaluator) Eval(text string, opts EvalOptions) (value.Value, error) {
	v, err := ev.eng.Run(text)
	if err != nil {
		return nil, err
	}
	if !opts.NoSaveAns {
		ev.eng.SetVariable("ans", v, scope.ModPublic)
	}
	return v, nil
}

// EvalExprRaw evaluates a single expression (spec.md §6
// `eval_expr_raw`); the "raw" host value is simply the Value itself —
// callers that want a BigDecimal or native Go type unwrap it themselves
// via the decimal/value packages, since the core has no separate "host
// value" representation to convert into.
func (ev *Evaluator) EvalExprRaw(text string, conditionMode bool) (value.Value, error) {
	return ev.eng.EvalExprRaw(text, conditionMode)
}

// AsyncResult is what a joined `eval_async` task eventually produces.
type AsyncResult struct {
	Value value.Value
	Err   error
}

// EvalAsync schedules text for evaluation on an independent task and
// returns its integer id (spec.md §6 `eval_async`). If callback is
// non-nil, it is invoked with the task's eventual result on completion
// (spec.md §4.7 "the caller ... can optionally supply a callback
// lambda").
func (ev *Evaluator) EvalAsync(text string, callback *value.Lambda) (int64, error) {
	sub := ev.eng.Clone(ev.eng.Scope.Child("async"))
	task := ev.pool.Spawn(func(ctx context.Context) (interface{}, error) {
		v, err := sub.Run(text)
		if callback != nil {
			if _, cbErr := sub.InvokeLambda(callback, []value.Value{resultOrUndef(v, err)}); cbErr != nil {
				ev.log.Warnf("eval_async callback failed: %v", cbErr)
			}
		}
		return v, err
	})
	return task.Seq, nil
}

func resultOrUndef(v value.Value, err error) value.Value {
	if err != nil {
		return value.NewText(err.Error())
	}
	return v
}

// JoinAsync blocks up to timeout (0 = forever) for task id's completion
// and returns its result.
func (ev *Evaluator) JoinAsync(id int64, timeout time.Duration) (value.Value, error) {
	task, ok := ev.pool.GetBySeq(id)
	if !ok {
		return nil, cantuserr.Evalf(0, "no such async task %d", id)
	}
	ctx := context.Background()
	cancel := func() {}
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()
	result, err := task.Wait(ctx)
	if err != nil {
		return nil, err
	}
	v, _ := result.(value.Value)
	return v, nil
}

// StopAll sets the die-flag shared by every Engine descended from this
// Evaluator's root and cancels every pending async task, then waits up
// to a 50ms drain delay for in-flight work to notice (spec.md §5).
func (ev *Evaluator) StopAll() {
	ev.eng.StopAll()
	ev.pool.StopAll()
	ev.pool.DrainFor(50 * time.Millisecond)
}

// SetVariable sets name in the current scope (spec.md §6
// `set_variable`).
func (ev *Evaluator) SetVariable(name string, v value.Value, mods scope.Modifier) {
	ev.eng.SetVariable(name, v, mods)
}

// GetVariableRef resolves name from the current scope chain (spec.md
// §6 `get_variable_ref`).
func (ev *Evaluator) GetVariableRef(name string) (*value.Reference, bool) {
	return ev.eng.GetVariableRef(name)
}

// HasVariable reports whether name resolves from the current scope
// chain (spec.md §6 `has_variable`).
func (ev *Evaluator) HasVariable(name string) bool { return ev.eng.HasVariable(name) }

// UnsetVariable removes name from its declaring scope (spec.md §6
// `unset_variable`).
func (ev *Evaluator) UnsetVariable(name string) bool { return ev.eng.UnsetVariable(name) }

// DefineUserFunction registers a script-defined function (spec.md §6
// `define_user_function`). signature is e.g. `add(a, b=1)`; body is the
// function's statement-engine source text.
func (ev *Evaluator) DefineUserFunction(signature, body string, mods scope.Modifier) error {
	return ev.eng.DeclareFunction(signature, body, mods)
}

// DefineUserClass registers a script-defined class (spec.md §6
// `define_user_class`). parents, if non-empty, overrides any parent
// list already present in header.
func (ev *Evaluator) DefineUserClass(header, body string, parents []string, mods scope.Modifier) error {
	return ev.eng.DeclareClass(header, body, parents, mods)
}

// ResolveClass exposes class lookup for hosts that want to inspect a
// declared class without instantiating it (e.g. a REPL's `describe`).
func (ev *Evaluator) ResolveClass(name string) (*class.UserClass, bool) {
	return ev.eng.ResolveClass(name)
}

// Import adds scopeName to the current scope's import list (spec.md §6
// `import`).
func (ev *Evaluator) Import(scopeName string) { ev.eng.Import(scopeName) }

// Unimport removes scopeName from the current scope's import list
// (spec.md §6 `unimport`).
func (ev *Evaluator) Unimport(scopeName string) { ev.eng.Unimport(scopeName) }

// Load resolves and runs an external script via the module loader
// (spec.md §6 `load`), optionally importing the loaded scope
// immediately.
func (ev *Evaluator) Load(path string, autoImport bool) (string, error) {
	scopeName, err := ev.loader.Load(path, ev.eng.Scope.Name)
	if err != nil {
		return "", err
	}
	if autoImport {
		ev.Import(scopeName)
	}
	return scopeName, nil
}

// AddModuleSearchPath appends a directory the module loader searches
// for bare (non-relative) `load`/`import` paths.
func (ev *Evaluator) AddModuleSearchPath(path string) { ev.loader.AddSearchPath(path) }

// SubEvaluator builds a new Evaluator sharing this one's variable
// store, function/class tables, module loader, and async pool, but
// owning an independent current scope (spec.md §6 `sub_evaluator`).
func (ev *Evaluator) SubEvaluator() *Evaluator {
	child := ev.eng.Clone(ev.eng.Scope.Child("sub"))
	return &Evaluator{table: ev.table, eng: child, pool: ev.pool, loader: ev.loader, log: ev.log}
}

// SubScope moves this Evaluator's current scope to a named (or
// anonymous, if name == "") child of its current scope (spec.md §6
// `sub_scope`). It mutates ev in place and returns ev for chaining.
func (ev *Evaluator) SubScope(name string) *Evaluator {
	if name == "" {
		name = "scope"
	}
	ev.eng = ev.eng.Clone(ev.eng.Scope.Child(name))
	return ev
}

// ParentScope moves this Evaluator's current scope up one level
// (spec.md §6 `parent_scope`). It is a no-op at the root scope.
func (ev *Evaluator) ParentScope() *Evaluator {
	parentName := ev.eng.Scope.Parent()
	if parentName == "" {
		return ev
	}
	ev.eng = ev.eng.Clone(&scope.Scope{Name: parentName})
	return ev
}

// Engine exposes the underlying statement.Engine for advanced host
// integrations (e.g. a REPL wiring its own print/input builtins in
// terms of the live scope). Most callers should prefer the facade
// methods above.
func (ev *Evaluator) Engine() *statement.Engine { return ev.eng }

package statement

import (
	"cantus/internal/cantuserr"
	"cantus/internal/decimal"
	"cantus/internal/value"
)

// Scheduler is the capability an Engine calls out to for async
// execution (spec.md §4.7/§5): the `$(expr)` bracket and the facade's
// `eval_async` both go through it. internal/evaluator wires in a real
// implementation backed by internal/concurrency.Pool; an Engine with no
// Scheduler configured rejects async spawns rather than silently
// running them inline (spec.md §5 treats async as an explicit
// suspension point, not an optimization detail a caller can ignore).
type Scheduler interface {
	// Spawn runs fn on its own task, against a fresh sub-evaluator of
	// host, and returns an integer task id.
	Spawn(host *Engine, fn func(sub *Engine) (value.Value, error)) (int64, error)
}

// SpawnAsync satisfies exprevaluator.Host for the `$(expr)` bracket: it
// evaluates text against a fresh sub-evaluator on its own task and
// returns the spawned task's integer id (spec.md §4.7).
func (e *Engine) SpawnAsync(text string) (value.Value, error) {
	if e.Async == nil {
		return nil, cantuserr.Evalf(0, "no async scheduler configured")
	}
	seq, err := e.Async.Spawn(e, func(sub *Engine) (value.Value, error) {
		return sub.evalExpr(text)
	})
	if err != nil {
		return nil, err
	}
	return value.NewNumber(decimal.FromInt64(seq)), nil
}

// Package concurrency implements the future/task pool backing
// Cantus's `async` bracket and `eval_async` facade operation
// (SPEC_FULL.md §5), grounded in the teacher's WorkerPool/Job/
// JobResult shapes but narrowed to exactly what concurrent expression
// evaluation needs: one future per spawned task, an errgroup-backed
// batch spawn for fan-out, and a shared context cancellation for
// stop_all.
package concurrency

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// TaskFunc is one unit of asynchronous work: an expression or block
// run against its own sub-evaluator, returning whatever result that
// evaluator produced.
type TaskFunc func(ctx context.Context) (interface{}, error)

// TaskStatus mirrors a Job's lifecycle in the teacher's WorkerPool.
type TaskStatus int32

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// Task is a single spawned unit of work and its eventual result
// (spec.md §4.7 async-bracket future handle).
type Task struct {
	ID      string
	Seq     int64
	status  int32
	done    chan struct{}
	result  interface{}
	err     error
	Created time.Time
}

func newTask(id string, seq int64) *Task {
	return &Task{ID: id, Seq: seq, done: make(chan struct{}), Created: time.Now()}
}

// Status reports the task's current lifecycle state.
func (t *Task) Status() TaskStatus { return TaskStatus(atomic.LoadInt32(&t.status)) }

// Wait blocks until the task finishes or ctx is done, whichever comes
// first.
func (t *Task) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *Task) finish(result interface{}, err error) {
	t.result = result
	t.err = err
	if err != nil {
		atomic.StoreInt32(&t.status, int32(StatusFailed))
	} else {
		atomic.StoreInt32(&t.status, int32(StatusDone))
	}
	close(t.done)
}

// Pool runs spawned tasks each on their own goroutine and holds a
// single cooperative cancellation shared by every task it has ever
// spawned (spec.md §5 stop_all).
type Pool struct {
	mu     sync.Mutex
	tasks  map[string]*Task
	nextID int64
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool builds a Pool with its own cancellable root context.
func NewPool() *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{tasks: make(map[string]*Task), ctx: ctx, cancel: cancel}
}

// Spawn starts fn on its own goroutine immediately and returns a Task
// handle for it (spec.md §4.7 "async" bracket semantics).
func (p *Pool) Spawn(fn TaskFunc) *Task {
	p.mu.Lock()
	p.nextID++
	seq := p.nextID
	id := fmt.Sprintf("task-%d", seq)
	t := newTask(id, seq)
	t.status = int32(StatusRunning)
	p.tasks[id] = t
	ctx := p.ctx
	p.mu.Unlock()

	go func() {
		result, err := fn(ctx)
		t.finish(result, err)
	}()
	return t
}

// SpawnBatch runs every fn concurrently as one errgroup, returning
// once all have finished; the first error cancels the context the
// others share and is the error returned — used to fan a
// for-loop body across its iterations (spec.md §5's batch
// enrichment, folded into the existing `async` bracket rather than a
// second keyword since spec.md §6 reserves no `spawn` word).
func (p *Pool) SpawnBatch(fns []TaskFunc) ([]interface{}, error) {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()

	results := make([]interface{}, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			r, err := fn(gctx)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// StopAll cancels every task's shared context (spec.md §5 "stop_all
// cancellation with drain delay"); DrainFor then gives running tasks
// a chance to notice before the pool is discarded.
func (p *Pool) StopAll() {
	p.cancel()
}

// DrainFor blocks up to d waiting for every currently tracked task to
// reach a terminal status.
func (p *Pool) DrainFor(d time.Duration) {
	deadline := time.Now().Add(d)
	p.mu.Lock()
	tasks := make([]*Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		tasks = append(tasks, t)
	}
	p.mu.Unlock()
	for _, t := range tasks {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		timer := time.NewTimer(remaining)
		select {
		case <-t.done:
		case <-timer.C:
		}
		timer.Stop()
	}
}

// Get returns a previously spawned task by id.
func (p *Pool) Get(id string) (*Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tasks[id]
	return t, ok
}

// GetBySeq looks a task up by its numeric sequence id, the form
// exposed to scripts as an `eval_async`/`$(...)` task handle (spec.md
// §4.7 "the caller receives an integer task id").
func (p *Pool) GetBySeq(seq int64) (*Task, bool) {
	return p.Get(fmt.Sprintf("task-%d", seq))
}

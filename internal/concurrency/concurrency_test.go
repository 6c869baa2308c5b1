package concurrency

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSpawnCompletesWithResult(t *testing.T) {
	p := NewPool()
	task := p.Spawn(func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	result, err := task.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.(int) != 42 {
		t.Errorf("task result = %v, want 42", result)
	}
	if task.Status() != StatusDone {
		t.Errorf("task status = %v, want StatusDone", task.Status())
	}
}

func TestSpawnPropagatesError(t *testing.T) {
	p := NewPool()
	boom := errors.New("boom")
	task := p.Spawn(func(ctx context.Context) (interface{}, error) {
		return nil, boom
	})
	_, err := task.Wait(context.Background())
	if err != boom {
		t.Errorf("task error = %v, want %v", err, boom)
	}
	if task.Status() != StatusFailed {
		t.Errorf("task status = %v, want StatusFailed", task.Status())
	}
}

func TestSeqIDsAreSequentialAndLookupWorks(t *testing.T) {
	p := NewPool()
	t1 := p.Spawn(func(ctx context.Context) (interface{}, error) { return 1, nil })
	t2 := p.Spawn(func(ctx context.Context) (interface{}, error) { return 2, nil })
	if t2.Seq != t1.Seq+1 {
		t.Errorf("sequence ids not consecutive: %d then %d", t1.Seq, t2.Seq)
	}
	t1.Wait(context.Background())
	t2.Wait(context.Background())

	found, ok := p.GetBySeq(t1.Seq)
	if !ok || found != t1 {
		t.Error("GetBySeq did not find the task spawned with that sequence id")
	}
	if _, ok := p.GetBySeq(99999); ok {
		t.Error("GetBySeq found a task that was never spawned")
	}
}

func TestSpawnBatchWaitsForAll(t *testing.T) {
	p := NewPool()
	fns := []TaskFunc{
		func(ctx context.Context) (interface{}, error) { return 1, nil },
		func(ctx context.Context) (interface{}, error) { return 2, nil },
		func(ctx context.Context) (interface{}, error) { return 3, nil },
	}
	results, err := p.SpawnBatch(fns)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int{1, 2, 3} {
		if results[i].(int) != want {
			t.Errorf("results[%d] = %v, want %d", i, results[i], want)
		}
	}
}

func TestSpawnBatchStopsOnFirstError(t *testing.T) {
	p := NewPool()
	boom := errors.New("boom")
	fns := []TaskFunc{
		func(ctx context.Context) (interface{}, error) { return 1, nil },
		func(ctx context.Context) (interface{}, error) { return nil, boom },
	}
	if _, err := p.SpawnBatch(fns); err == nil {
		t.Error("expected SpawnBatch to surface the failing task's error")
	}
}

func TestStopAllCancelsContextSeenByTasks(t *testing.T) {
	p := NewPool()
	started := make(chan struct{})
	task := p.Spawn(func(ctx context.Context) (interface{}, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started
	p.StopAll()
	_, err := task.Wait(context.Background())
	if err == nil {
		t.Error("expected task to observe context cancellation after StopAll")
	}
	p.DrainFor(100 * time.Millisecond)
}

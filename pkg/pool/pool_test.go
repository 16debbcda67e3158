package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/gridexec/pkg/future"
	"github.com/nemanja-m/gridexec/pkg/jobs"
)

// execWorker runs each invocation in its own goroutine. The pool guarantees
// at most one in-flight invocation per worker, so this still behaves like a
// dedicated slot.
type execWorker struct{}

func (w *execWorker) Invoke(fut *future.Future, fn jobs.Func, args []any) {
	go func() {
		if !fut.SetRunning() {
			return
		}
		value, err := fn(args...)
		if err != nil {
			fut.Reject(err)
			return
		}
		fut.Resolve(value)
	}()
}

func newPool(size int) *Pool {
	workers := make([]Worker, size)
	for i := range workers {
		workers[i] = &execWorker{}
	}
	return New(workers)
}

func identity(args ...any) (any, error) {
	return args[0], nil
}

func TestPool_SubmitAndNext(t *testing.T) {
	p := newPool(2)

	p.Submit(identity, []any{1})

	value, err := p.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, value)
	require.False(t, p.HasNext())
}

func TestPool_NextReturnsCompletionOrder(t *testing.T) {
	p := newPool(2)

	slow := func(args ...any) (any, error) {
		time.Sleep(100 * time.Millisecond)
		return "slow", nil
	}
	fast := func(args ...any) (any, error) {
		return "fast", nil
	}

	p.Submit(slow, nil)
	p.Submit(fast, nil)

	first, err := p.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fast", first)

	second, err := p.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "slow", second)
}

func TestPool_QueuesWhenAllWorkersBusy(t *testing.T) {
	p := newPool(1)

	release := make(chan struct{})
	blocking := func(args ...any) (any, error) {
		<-release
		return nil, nil
	}

	p.Submit(blocking, nil)
	queued := p.Submit(identity, []any{2})

	// The second submission has no idle worker yet.
	require.Equal(t, future.StatePending, queued.State())
	require.Equal(t, 0, p.Idle())
	require.Equal(t, 2, p.Len())

	close(release)

	value, err := queued.Result(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, value)
}

func TestPool_BoundsParallelism(t *testing.T) {
	p := newPool(3)

	const tasks = 12
	sleep := func(args ...any) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return nil, nil
	}

	start := time.Now()
	for range tasks {
		p.Submit(sleep, nil)
	}
	for p.HasNext() {
		_, err := p.Next(context.Background())
		require.NoError(t, err)
	}

	// 12 tasks over 3 workers is at least 4 rounds.
	require.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestPool_NextHonorsDeadline(t *testing.T) {
	p := newPool(1)

	p.Submit(func(args ...any) (any, error) {
		time.Sleep(200 * time.Millisecond)
		return nil, nil
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The submission itself is still outstanding and resolvable.
	require.True(t, p.HasNext())
	_, err = p.Next(context.Background())
	require.NoError(t, err)
}

func TestPool_NextOnIdlePool(t *testing.T) {
	p := newPool(1)

	_, err := p.Next(context.Background())
	require.ErrorIs(t, err, ErrEmpty)
}

func TestPool_QueuedSubmissionCanBeCancelled(t *testing.T) {
	p := newPool(1)

	release := make(chan struct{})
	p.Submit(func(args ...any) (any, error) {
		<-release
		return "ran", nil
	}, nil)

	var executed atomic.Bool
	queued := p.Submit(func(args ...any) (any, error) {
		executed.Store(true)
		return nil, nil
	}, nil)

	require.True(t, queued.Cancel())
	close(release)

	_, err := queued.Result(context.Background())
	require.ErrorIs(t, err, future.ErrCancelled)

	// Drain both results; the cancelled one never executed.
	for p.HasNext() {
		_, _ = p.Next(context.Background())
	}
	require.False(t, executed.Load())
}

func TestPool_TaskErrorSurfacesThroughNext(t *testing.T) {
	p := newPool(1)

	taskErr := errors.New("task exploded")
	p.Submit(func(args ...any) (any, error) {
		return nil, taskErr
	}, nil)

	_, err := p.Next(context.Background())
	require.ErrorIs(t, err, taskErr)
}

func TestPool_TaskIndexCorrelatesHandles(t *testing.T) {
	p := newPool(1)

	release := make(chan struct{})
	first := p.Submit(func(args ...any) (any, error) {
		<-release
		return nil, nil
	}, nil)
	second := p.Submit(identity, []any{2})

	got, ok := p.Future(0)
	require.True(t, ok)
	require.Same(t, first, got)

	got, ok = p.Future(1)
	require.True(t, ok)
	require.Same(t, second, got)

	close(release)
}

func TestPool_SizeAndIdle(t *testing.T) {
	p := newPool(4)
	require.Equal(t, 4, p.Size())
	require.Equal(t, 4, p.Idle())
}

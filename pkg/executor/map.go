package executor

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/nemanja-m/gridexec/pkg/future"
	"github.com/nemanja-m/gridexec/pkg/jobs"
)

// Map zips the iterables positionally, submits fn for every tuple, and
// returns a lazy sequence of results. The shortest iterable bounds the
// count. All submissions happen eagerly before Map returns, so dispatch
// parallelism does not depend on when the caller consumes the sequence.
//
// Result ordering differs between configurations and is kept that way for
// compatibility: with a fixed pool, results arrive in completion order;
// without one, in submission order.
func (e *Executor) Map(fn jobs.Func, iterables ...[]any) (iter.Seq2[any, error], error) {
	return e.mapDeadline(fn, time.Time{}, iterables)
}

// MapWithTimeout is Map with a bound on the total wall-clock time across
// the whole sequence, not per element. Exceeding it yields ErrTimeout at
// whichever element was being awaited. The deadline is only re-checked at
// result boundaries, so an overrun of up to one task's execution time is
// expected.
func (e *Executor) MapWithTimeout(fn jobs.Func, timeout time.Duration, iterables ...[]any) (iter.Seq2[any, error], error) {
	return e.mapDeadline(fn, time.Now().Add(timeout), iterables)
}

func (e *Executor) mapDeadline(fn jobs.Func, deadline time.Time, iterables [][]any) (iter.Seq2[any, error], error) {
	n := zipLen(iterables)

	if e.pool != nil {
		for i := range n {
			if _, err := e.Submit(fn, zipArgs(iterables, i)...); err != nil {
				return nil, err
			}
		}
		return e.poolResults(deadline), nil
	}

	futures := make([]*future.Future, 0, n)
	for i := range n {
		fut, err := e.Submit(fn, zipArgs(iterables, i)...)
		if err != nil {
			return nil, err
		}
		futures = append(futures, fut)
	}
	return orderedResults(futures, deadline), nil
}

// poolResults drains the pool in completion order. On timeout the sequence
// ends with ErrTimeout; handles not yet consumed stay valid.
func (e *Executor) poolResults(deadline time.Time) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		ctx, cancel := deadlineContext(deadline)
		defer cancel()

		for e.pool.HasNext() {
			value, err := e.pool.Next(ctx)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = ErrTimeout
				}
				yield(nil, err)
				return
			}
			if !yield(value, nil) {
				return
			}
		}
	}
}

// orderedResults consumes the handles in submission order. Each consumed
// handle is cancelled after its result is read, which is a no-op once it
// finished; handles never consumed because the caller broke out early, or
// because an error ended the sequence, are cancelled on the way out.
func orderedResults(futures []*future.Future, deadline time.Time) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		ctx, cancel := deadlineContext(deadline)
		defer cancel()

		next := 0
		defer func() {
			for _, fut := range futures[next:] {
				fut.Cancel()
			}
		}()

		for ; next < len(futures); next++ {
			fut := futures[next]
			value, err := fut.Result(ctx)
			fut.Cancel()
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = ErrTimeout
				}
				next++
				yield(nil, err)
				return
			}
			if !yield(value, nil) {
				next++
				return
			}
		}
	}
}

func zipLen(iterables [][]any) int {
	if len(iterables) == 0 {
		return 0
	}
	n := len(iterables[0])
	for _, it := range iterables[1:] {
		n = min(n, len(it))
	}
	return n
}

func zipArgs(iterables [][]any, i int) []any {
	args := make([]any, len(iterables))
	for j, it := range iterables {
		args[j] = it[i]
	}
	return args
}

func deadlineContext(deadline time.Time) (context.Context, context.CancelFunc) {
	if deadline.IsZero() {
		return context.WithCancel(context.Background())
	}
	return context.WithDeadline(context.Background(), deadline)
}

package future

import (
	"context"
	"errors"
	"sync"
)

// State describes the lifecycle of a result handle.
type State string

const (
	StatePending   State = "PENDING"
	StateRunning   State = "RUNNING"
	StateFinished  State = "FINISHED"
	StateCancelled State = "CANCELLED"
)

// ErrCancelled is returned by Result when the handle was cancelled before
// the task started running.
var ErrCancelled = errors.New("task was cancelled")

// Future is the handle for a single unit of work submitted to the backend.
// The backend resolves it exactly once; any number of callers may block on
// Result concurrently. A handle stays valid and resolvable independently of
// the executor that produced it.
type Future struct {
	mu    sync.Mutex
	state State
	value any
	err   error
	done  chan struct{}
}

func New() *Future {
	return &Future{
		state: StatePending,
		done:  make(chan struct{}),
	}
}

// SetRunning transitions the handle from PENDING to RUNNING. It returns
// false if the handle was already cancelled or resolved, in which case the
// backend must not execute the task.
func (f *Future) SetRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePending {
		return false
	}
	f.state = StateRunning
	return true
}

// Resolve finishes the handle with the task's return value.
func (f *Future) Resolve(value any) {
	f.complete(value, nil)
}

// Reject finishes the handle with the error the task raised.
func (f *Future) Reject(err error) {
	f.complete(nil, err)
}

func (f *Future) complete(value any, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateFinished || f.state == StateCancelled {
		return
	}
	f.state = StateFinished
	f.value = value
	f.err = err
	close(f.done)
}

// Cancel succeeds only while the task has not started running. Cancelling a
// running or finished task is a no-op and returns false.
func (f *Future) Cancel() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePending {
		return false
	}
	f.state = StateCancelled
	f.err = ErrCancelled
	close(f.done)
	return true
}

// Result blocks until the handle resolves or ctx expires. It returns the
// task's value, the task's own error, ErrCancelled for a cancelled handle,
// or ctx.Err() when the wait was cut short.
func (f *Future) Result(ctx context.Context) (any, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Done is closed once the handle is finished or cancelled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

func (f *Future) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Future) Running() bool {
	return f.State() == StateRunning
}

func (f *Future) Cancelled() bool {
	return f.State() == StateCancelled
}

func (f *Future) Finished() bool {
	return f.State() == StateFinished
}

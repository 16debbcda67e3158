// Package executor adapts a distributed task backend to the familiar
// submit/map/shutdown contract of process- and thread-pool executors. The
// adapter performs no computation of its own: it issues units of remote
// work, tracks the resulting handles, and manages pool lifecycle. Task
// placement, serialization, and fault tolerance stay with the backend.
package executor

import (
	"fmt"
	"sync"

	"github.com/nemanja-m/gridexec/internal/cluster"
	"github.com/nemanja-m/gridexec/internal/shared/logging"
	"github.com/nemanja-m/gridexec/pkg/future"
	"github.com/nemanja-m/gridexec/pkg/jobs"
	"github.com/nemanja-m/gridexec/pkg/pool"
)

// Backend is the cluster runtime surface the executor drives. The cluster
// Runtime satisfies it; tests substitute fakes.
type Backend interface {
	Invoke(name string, fn jobs.Func, args []any) (*future.Future, error)
	NewWorker() (pool.Worker, error)
	Address() string
	Shutdown()
}

// Executor submits work to a backend runtime and hands back future handles.
//
// With WithMaxWorkers it owns a fixed pool of backend workers and
// round-robins submissions over them; otherwise every submission becomes an
// independent backend call. Handles issued before shutdown stay valid and
// resolvable regardless of the executor's lifecycle.
type Executor struct {
	backend         Backend
	pool            *pool.Pool
	shutdownCluster bool
	logger          logging.Logger

	mu      sync.Mutex
	futures []*future.Future
	closed  bool
}

// New initializes or attaches to the backend runtime and builds an executor
// around it. Construction fails with ErrInvalidMaxWorkers when a fixed pool
// smaller than one worker is requested.
func New(opts ...Option) (*Executor, error) {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.hasMaxWorkers && o.maxWorkers < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMaxWorkers, o.maxWorkers)
	}

	backend := o.backend
	if backend == nil {
		runtime, err := cluster.Init(cluster.Config{
			Address:     o.address,
			Parallelism: o.parallelism,
			Logger:      o.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cluster runtime: %w", err)
		}
		backend = runtime
	}

	e := &Executor{
		backend:         backend,
		shutdownCluster: o.shutdownCluster,
		logger:          o.logger,
	}

	if o.hasMaxWorkers {
		workers := make([]pool.Worker, 0, o.maxWorkers)
		for range o.maxWorkers {
			w, err := backend.NewWorker()
			if err != nil {
				return nil, fmt.Errorf("failed to allocate worker: %w", err)
			}
			workers = append(workers, w)
		}
		e.pool = pool.New(workers)
		e.logger.Info("Executor started with fixed pool", "max_workers", o.maxWorkers, "address", backend.Address())
	} else {
		e.logger.Info("Executor started", "address", backend.Address())
	}

	return e, nil
}

// Address returns the resolved address of the backend runtime.
func (e *Executor) Address() string {
	return e.backend.Address()
}

// Submit schedules fn(args...) and returns its handle. The handle resolves
// to the task's return value or error exactly once. Fails with ErrShutdown
// after a backend-destroying shutdown.
func (e *Executor) Submit(fn jobs.Func, args ...any) (*future.Future, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrShutdown
	}

	var fut *future.Future
	if e.pool != nil {
		fut = e.pool.Submit(fn, args)
	} else {
		name := jobs.FuncName(fn)
		f, err := e.backend.Invoke(name, fn, args)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("Submitted task", "name", name)
		fut = f
	}

	e.futures = append(e.futures, fut)
	return fut, nil
}

// Outstanding returns the number of handles the executor is tracking for
// shutdown bookkeeping.
func (e *Executor) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.futures)
}

// Shutdown releases the executor. Safe to call multiple times.
//
// Without WithShutdownCluster this only clears the bookkeeping list:
// nothing is cancelled or waited for, already-issued handles stay valid,
// and further submissions remain legal.
//
// With WithShutdownCluster it blocks further submissions, optionally
// cancels pending handles (CancelPending), waits for running ones unless
// NoWait is given, and tears down the backend runtime entirely.
func (e *Executor) Shutdown(opts ...ShutdownOption) {
	o := shutdownOptions{wait: true}
	for _, opt := range opts {
		opt(&o)
	}

	e.mu.Lock()
	futures := e.futures
	e.futures = nil
	if !e.shutdownCluster {
		e.mu.Unlock()
		e.logger.Debug("Executor released, cluster runtime left running")
		return
	}
	alreadyClosed := e.closed
	e.closed = true
	e.mu.Unlock()

	if o.cancelPending {
		for _, fut := range futures {
			fut.Cancel()
		}
	}
	if o.wait {
		for _, fut := range futures {
			if fut.Running() {
				<-fut.Done()
			}
		}
	}

	if alreadyClosed {
		return
	}
	e.backend.Shutdown()
	e.logger.Info("Executor shut down")
}

// Close shuts the executor down with default options, so an executor can be
// scoped with defer.
func (e *Executor) Close() error {
	e.Shutdown()
	return nil
}

package cluster

import (
	"fmt"
	"sync"

	"github.com/eapache/queue"

	"github.com/nemanja-m/gridexec/internal/shared/logging"
	"github.com/nemanja-m/gridexec/pkg/future"
	"github.com/nemanja-m/gridexec/pkg/jobs"
	"github.com/nemanja-m/gridexec/pkg/pool"
)

type localInvocation struct {
	name string
	fut  *future.Future
	fn   jobs.Func
	args []any
}

// localDriver executes work in-process. Free submissions go through an
// unbounded FIFO drained by a fixed number of scheduler goroutines, sized by
// available CPUs, so the enqueue side never blocks and dispatch parallelism
// follows the machine.
type localDriver struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending *queue.Queue // *localInvocation
	closed  bool

	workers []*localWorker
	wg      sync.WaitGroup
	logger  logging.Logger
}

func newLocalDriver(parallelism int, logger logging.Logger) *localDriver {
	d := &localDriver{
		pending: queue.New(),
		logger:  logger,
	}
	d.cond = sync.NewCond(&d.mu)
	for range parallelism {
		d.wg.Go(d.schedulerLoop)
	}
	return d
}

func (d *localDriver) schedulerLoop() {
	for {
		d.mu.Lock()
		for d.pending.Length() == 0 && !d.closed {
			d.cond.Wait()
		}
		if d.pending.Length() == 0 {
			d.mu.Unlock()
			return
		}
		inv := d.pending.Remove().(*localInvocation)
		closed := d.closed
		d.mu.Unlock()

		if closed {
			inv.fut.Cancel()
			continue
		}
		execute(inv.fut, inv.fn, inv.args)
	}
}

func (d *localDriver) invoke(name string, fn jobs.Func, args []any) (*future.Future, error) {
	fut := future.New()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrNotRunning
	}
	d.pending.Add(&localInvocation{name: name, fut: fut, fn: fn, args: args})
	d.mu.Unlock()
	d.cond.Signal()

	d.logger.Debug("Scheduled local task", "name", name)
	return fut, nil
}

func (d *localDriver) newWorker() (pool.Worker, error) {
	w := &localWorker{tasks: make(chan *localInvocation, 1)}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrNotRunning
	}
	d.workers = append(d.workers, w)
	d.mu.Unlock()

	d.wg.Go(w.loop)
	return w, nil
}

// shutdown stops accepting work and cancels everything still queued.
// Invocations already running finish on their own; waiting for them is the
// executor's concern.
func (d *localDriver) shutdown() {
	d.mu.Lock()
	d.closed = true
	workers := d.workers
	d.workers = nil
	d.mu.Unlock()

	d.cond.Broadcast()
	for _, w := range workers {
		w.close()
	}
}

// localWorker is a dedicated execution slot backed by a single goroutine.
// The pool guarantees at most one in-flight invocation per worker, so the
// buffered channel send in Invoke never blocks.
type localWorker struct {
	mu     sync.Mutex
	closed bool
	tasks  chan *localInvocation
}

// Invoke delivers one invocation to the worker goroutine. A pool may still
// dispatch parked work after the driver shut down; those invocations are
// cancelled here instead of sent, like the scheduler queue drain.
func (w *localWorker) Invoke(fut *future.Future, fn jobs.Func, args []any) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		fut.Cancel()
		return
	}
	w.tasks <- &localInvocation{fut: fut, fn: fn, args: args}
	w.mu.Unlock()
}

func (w *localWorker) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.tasks)
}

func (w *localWorker) loop() {
	for inv := range w.tasks {
		execute(inv.fut, inv.fn, inv.args)
	}
}

// execute runs one invocation and resolves its handle. Cancelled handles
// are skipped; panics in the job body become task failures.
func execute(fut *future.Future, fn jobs.Func, args []any) {
	if !fut.SetRunning() {
		return
	}
	value, err := call(fn, args)
	if err != nil {
		fut.Reject(err)
		return
	}
	fut.Resolve(value)
}

func call(fn jobs.Func, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(args...)
}

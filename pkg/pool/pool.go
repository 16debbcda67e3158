package pool

import (
	"context"
	"errors"
	"sync"

	"github.com/eapache/queue"

	"github.com/nemanja-m/gridexec/pkg/future"
	"github.com/nemanja-m/gridexec/pkg/jobs"
)

// Worker is a dedicated backend execution slot. A worker runs a single
// invocation at a time and resolves the given handle with the outcome.
type Worker interface {
	Invoke(fut *future.Future, fn jobs.Func, args []any)
}

// ErrEmpty is returned by Next when no submissions are outstanding.
var ErrEmpty = errors.New("pool has no outstanding results")

type invocation struct {
	index uint64
	fut   *future.Future
	fn    jobs.Func
	args  []any
}

// Pool distributes invocations over a fixed set of workers. Submissions go
// to the next idle worker or park on a FIFO queue until one frees up.
// Finished handles are consumable in completion order via Next. All
// idle/busy bookkeeping and the task index counter are guarded by a single
// mutex, so concurrent Submit calls cannot race on index-to-handle
// correlation.
type Pool struct {
	mu            sync.Mutex
	idle          []Worker
	pending       *queue.Queue // *invocation
	completed     *queue.Queue // *future.Future, completion order
	indexToFuture map[uint64]*future.Future
	nextTaskIndex uint64
	outstanding   int
	size          int

	ready chan struct{}
}

func New(workers []Worker) *Pool {
	return &Pool{
		idle:          append([]Worker(nil), workers...),
		pending:       queue.New(),
		completed:     queue.New(),
		indexToFuture: make(map[uint64]*future.Future),
		size:          len(workers),
		ready:         make(chan struct{}, 1),
	}
}

// Submit assigns fn(args...) to the next idle worker, or queues it when all
// workers are busy. The returned handle exists immediately and can be
// cancelled while the invocation is still parked.
func (p *Pool) Submit(fn jobs.Func, args []any) *future.Future {
	p.mu.Lock()
	defer p.mu.Unlock()

	inv := &invocation{
		index: p.nextTaskIndex,
		fut:   future.New(),
		fn:    fn,
		args:  args,
	}
	p.nextTaskIndex++
	p.indexToFuture[inv.index] = inv.fut
	p.outstanding++

	if len(p.idle) > 0 {
		p.dispatch(inv)
	} else {
		p.pending.Add(inv)
	}
	return inv.fut
}

// dispatch hands inv to an idle worker. Caller must hold p.mu.
func (p *Pool) dispatch(inv *invocation) {
	w := p.idle[len(p.idle)-1]
	p.idle = p.idle[:len(p.idle)-1]
	go p.watch(w, inv)
}

func (p *Pool) watch(w Worker, inv *invocation) {
	w.Invoke(inv.fut, inv.fn, inv.args)
	<-inv.fut.Done()

	p.mu.Lock()
	delete(p.indexToFuture, inv.index)
	p.completed.Add(inv.fut)
	p.idle = append(p.idle, w)
	if p.pending.Length() > 0 {
		p.dispatch(p.pending.Remove().(*invocation))
	}
	p.mu.Unlock()

	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Next blocks until the next invocation completes and returns its result in
// completion order, whichever task finishes first. It returns ErrEmpty when
// nothing is outstanding and ctx.Err() when the deadline elapses first.
func (p *Pool) Next(ctx context.Context) (any, error) {
	for {
		p.mu.Lock()
		if p.completed.Length() > 0 {
			fut := p.completed.Remove().(*future.Future)
			p.outstanding--
			p.mu.Unlock()
			return fut.Result(ctx)
		}
		if p.outstanding == 0 {
			p.mu.Unlock()
			return nil, ErrEmpty
		}
		p.mu.Unlock()

		select {
		case <-p.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// HasNext reports whether any submission has not yet been consumed via Next.
func (p *Pool) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstanding > 0
}

// Future correlates a task index with its handle. Completed invocations are
// dropped from the index once they resolve.
func (p *Pool) Future(index uint64) (*future.Future, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fut, ok := p.indexToFuture[index]
	return fut, ok
}

// Len returns the number of unconsumed submissions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstanding
}

// Idle returns the number of workers currently without an assignment.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Size returns the fixed number of workers in the pool.
func (p *Pool) Size() int {
	return p.size
}

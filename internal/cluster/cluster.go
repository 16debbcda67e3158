package cluster

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/gridexec/internal/shared/logging"
	"github.com/nemanja-m/gridexec/pkg/future"
	"github.com/nemanja-m/gridexec/pkg/jobs"
	"github.com/nemanja-m/gridexec/pkg/pool"
)

// ErrNotRunning is returned for invocations issued after the runtime was
// shut down.
var ErrNotRunning = errors.New("cluster runtime is not running")

// Config is forwarded verbatim to runtime initialization. An empty Address
// starts an in-process runtime; otherwise the runtime attaches to the worker
// daemon at that address.
type Config struct {
	Address     string
	Parallelism int
	Logger      logging.Logger
}

// Context describes the runtime an executor is attached to.
type Context struct {
	NodeID    uuid.UUID
	Address   string
	StartedAt time.Time
	Local     bool
}

// driver is the execution substrate behind a Runtime.
type driver interface {
	invoke(name string, fn jobs.Func, args []any) (*future.Future, error)
	newWorker() (pool.Worker, error)
	shutdown()
}

// Runtime is the process-wide backend handle. It is reference counted:
// Init attaches to the already-running runtime when one exists, so multiple
// executors can share it and a non-destructive executor shutdown leaves it
// alive for the next one.
type Runtime struct {
	ctx    Context
	driver driver
	logger logging.Logger

	mu     sync.Mutex
	closed bool
}

var (
	initMu  sync.Mutex
	current *Runtime
	refs    int
)

// Init attaches to the process-wide runtime, starting one if none is
// running. Re-initialization with a different config silently reuses the
// existing runtime.
func Init(cfg Config) (*Runtime, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if current != nil {
		refs++
		return current, nil
	}

	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.NumCPU()
	}

	nodeID := uuid.New()
	local := cfg.Address == ""

	var d driver
	address := cfg.Address
	if local {
		d = newLocalDriver(cfg.Parallelism, cfg.Logger)
		address = fmt.Sprintf("local://%s", nodeID)
	} else {
		rd, err := newRemoteDriver(cfg.Address, cfg.Logger)
		if err != nil {
			return nil, err
		}
		d = rd
	}

	current = &Runtime{
		ctx: Context{
			NodeID:    nodeID,
			Address:   address,
			StartedAt: time.Now().UTC(),
			Local:     local,
		},
		driver: d,
		logger: cfg.Logger,
	}
	refs = 1

	cfg.Logger.Info("Cluster runtime started",
		"node_id", nodeID.String(),
		"address", address,
		"local", local,
	)
	return current, nil
}

// Refs returns the number of attached handles, for introspection.
func Refs() int {
	initMu.Lock()
	defer initMu.Unlock()
	return refs
}

func (r *Runtime) Context() Context {
	return r.ctx
}

func (r *Runtime) Address() string {
	return r.ctx.Address
}

// Invoke schedules fn(args...) as an independent unit of work and returns
// its handle. The name tags the submission for observability.
func (r *Runtime) Invoke(name string, fn jobs.Func, args []any) (*future.Future, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrNotRunning
	}
	return r.driver.invoke(name, fn, args)
}

// NewWorker allocates a dedicated execution slot, suitable for grouping
// into a fixed-size pool.
func (r *Runtime) NewWorker() (pool.Worker, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrNotRunning
	}
	return r.driver.newWorker()
}

// Release detaches a handle without stopping the runtime.
func (r *Runtime) Release() {
	initMu.Lock()
	defer initMu.Unlock()
	if refs > 0 {
		refs--
	}
}

// Shutdown stops the process-wide runtime entirely, regardless of how many
// handles are attached. Queued invocations that have not started running are
// cancelled. Safe to call multiple times.
func (r *Runtime) Shutdown() {
	initMu.Lock()
	defer initMu.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.driver.shutdown()
	if current == r {
		current = nil
		refs = 0
	}
	r.logger.Info("Cluster runtime stopped", "node_id", r.ctx.NodeID.String())
}

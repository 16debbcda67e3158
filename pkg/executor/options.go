package executor

import "github.com/nemanja-m/gridexec/internal/shared/logging"

type options struct {
	maxWorkers      int
	hasMaxWorkers   bool
	shutdownCluster bool
	address         string
	parallelism     int
	logger          logging.Logger
	backend         Backend
}

type Option func(*options)

// WithMaxWorkers bounds parallelism to a fixed pool of n backend workers.
// Without it, every submission is an independent backend call and the
// backend sizes parallelism by available resources.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
		o.hasMaxWorkers = true
	}
}

// WithShutdownCluster makes Shutdown tear down the backend runtime. The
// default leaves the runtime alive so the next executor can reuse it.
func WithShutdownCluster() Option {
	return func(o *options) {
		o.shutdownCluster = true
	}
}

// WithAddress attaches to the worker daemon at addr instead of starting an
// in-process runtime.
func WithAddress(addr string) Option {
	return func(o *options) {
		o.address = addr
	}
}

// WithParallelism overrides the in-process runtime's scheduler width.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend substitutes the cluster runtime entirely.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

type shutdownOptions struct {
	wait          bool
	cancelPending bool
}

type ShutdownOption func(*shutdownOptions)

// NoWait makes Shutdown return without waiting for running tasks.
func NoWait() ShutdownOption {
	return func(o *shutdownOptions) {
		o.wait = false
	}
}

// CancelPending makes Shutdown cancel outstanding handles that have not
// started running. Running and finished tasks are unaffected.
func CancelPending() ShutdownOption {
	return func(o *shutdownOptions) {
		o.cancelPending = true
	}
}

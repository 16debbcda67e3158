package executor

import "errors"

var (
	// ErrInvalidMaxWorkers rejects a fixed pool smaller than one worker.
	ErrInvalidMaxWorkers = errors.New("max workers must be at least 1")

	// ErrShutdown rejects submissions after a backend-destroying shutdown.
	ErrShutdown = errors.New("new task submitted after shutdown was called")

	// ErrTimeout is reported when a map sequence cannot fully resolve
	// within its deadline.
	ErrTimeout = errors.New("map deadline exceeded")
)

package wire

import (
	"fmt"
	"time"
)

// TaskError reports a failure raised by the job body on a remote worker.
// It is distinguishable from transport errors, which surface as gRPC status
// errors and are never translated by this layer.
type TaskError struct {
	Job     string
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.Job, e.Message)
}

// InvokeRequest carries one unit of work to a worker daemon. Args holds the
// gob-encoded positional arguments.
type InvokeRequest struct {
	TaskID string
	Job    string
	Args   []byte
}

// InvokeResponse carries the outcome back. Exactly one of Value and Err is
// meaningful; a nil Value with a nil Err means the job returned nil.
type InvokeResponse struct {
	Value []byte
	Err   *TaskError
}

type StatusRequest struct{}

// StatusResponse describes a worker daemon for operator tooling.
type StatusResponse struct {
	NodeID         string
	Address        string
	StartedAt      time.Time
	Jobs           []string
	ActiveTasks    int
	CompletedTasks int
	FailedTasks    int
}

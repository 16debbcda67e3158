package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nemanja-m/gridexec/internal/shared/logging"
	"github.com/nemanja-m/gridexec/internal/shared/wire"
	"github.com/nemanja-m/gridexec/pkg/jobs"
)

// Service executes registered jobs on behalf of remote executors and
// answers status queries for operator tooling.
type Service struct {
	nodeID    uuid.UUID
	addr      string
	startedAt time.Time
	store     *taskStore
	logger    logging.Logger
}

func NewService(addr string, logger logging.Logger) *Service {
	return &Service{
		nodeID:    uuid.New(),
		addr:      addr,
		startedAt: time.Now().UTC(),
		store:     newTaskStore(),
		logger:    logger,
	}
}

func (s *Service) NodeID() uuid.UUID {
	return s.nodeID
}

func (s *Service) Invoke(ctx context.Context, req *wire.InvokeRequest) (*wire.InvokeResponse, error) {
	fn, err := jobs.Get(req.Job)
	if err != nil {
		s.logger.Error("Unknown job requested", "task_id", req.TaskID, "job", req.Job)
		return nil, status.Errorf(codes.NotFound, "job not registered on worker: %s", req.Job)
	}

	args, err := wire.DecodeArgs(req.Args)
	if err != nil {
		s.logger.Error("Malformed arguments", "task_id", req.TaskID, "job", req.Job, "error", err)
		return nil, status.Errorf(codes.InvalidArgument, "failed to decode arguments: %v", err)
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		taskID = uuid.New()
	}

	s.store.start(taskID, req.Job)
	s.logger.Info("Task started", "task_id", taskID.String(), "job", req.Job)

	value, taskErr := run(fn, args)
	s.store.finish(taskID, taskErr)

	if taskErr != nil {
		s.logger.Error("Task failed", "task_id", taskID.String(), "job", req.Job, "error", taskErr)
		return &wire.InvokeResponse{
			Err: &wire.TaskError{Job: req.Job, Message: taskErr.Error()},
		}, nil
	}

	payload, err := wire.EncodeValue(value)
	if err != nil {
		s.logger.Error("Unencodable result", "task_id", taskID.String(), "job", req.Job, "error", err)
		return nil, status.Errorf(codes.Internal, "failed to encode result: %v", err)
	}

	s.logger.Info("Task completed", "task_id", taskID.String(), "job", req.Job)
	return &wire.InvokeResponse{Value: payload}, nil
}

func (s *Service) Status(ctx context.Context, req *wire.StatusRequest) (*wire.StatusResponse, error) {
	completed, failed := s.store.counters()
	return &wire.StatusResponse{
		NodeID:         s.nodeID.String(),
		Address:        s.addr,
		StartedAt:      s.startedAt,
		Jobs:           jobs.List(),
		ActiveTasks:    s.store.activeCount(),
		CompletedTasks: completed,
		FailedTasks:    failed,
	}, nil
}

func run(fn jobs.Func, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(args...)
}

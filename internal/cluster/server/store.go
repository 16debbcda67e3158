package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
)

type TaskRecord struct {
	ID        uuid.UUID
	Job       string
	Status    TaskStatus
	StartedAt time.Time
	EndedAt   *time.Time
	Error     *string
}

// taskStore is the daemon's in-memory task ledger. Active records are kept
// for inspection; finished ones collapse into counters so the ledger stays
// bounded.
type taskStore struct {
	mu        sync.RWMutex
	active    map[uuid.UUID]*TaskRecord
	completed int
	failed    int
}

func newTaskStore() *taskStore {
	return &taskStore{
		active: make(map[uuid.UUID]*TaskRecord),
	}
}

func (s *taskStore) start(id uuid.UUID, job string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id] = &TaskRecord{
		ID:        id,
		Job:       job,
		Status:    TaskStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

func (s *taskStore) finish(id uuid.UUID, taskErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
	if taskErr != nil {
		s.failed++
	} else {
		s.completed++
	}
}

func (s *taskStore) activeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}

func (s *taskStore) counters() (completed, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed, s.failed
}

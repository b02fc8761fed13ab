package task

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/catstash/catstash-api/internal/store"
	"github.com/google/uuid"
)

// mockTaskStore is an in-memory TaskStore for tests in this package.
type mockTaskStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*TaskRecord

	saveErr   error
	updateErr error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{
		records: make(map[uuid.UUID]*TaskRecord),
	}
}

func (s *mockTaskStore) SaveTask(ctx context.Context, task Task) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[task.ID()] = &TaskRecord{
		ID:     task.ID(),
		Type:   task.Type(),
		Status: task.Status(),
	}
	return nil
}

func (s *mockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[taskID]; ok {
		record.Status = status
		record.ErrorMessage = errorMsg
	}
	return nil
}

func (s *mockTaskStore) GetByID(ctx context.Context, taskID uuid.UUID) (*TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[taskID]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *mockTaskStore) MarkInterrupted(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, record := range s.records {
		if record.Status == TaskStatusPending || record.Status == TaskStatusProcessing {
			record.Status = TaskStatusFailed
			record.ErrorMessage = "interrupted by shutdown"
			n++
		}
	}
	return n, nil
}

func (s *mockTaskStore) FailStuckTasks(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, record := range s.records {
		if record.Status == TaskStatusProcessing {
			record.Status = TaskStatusFailed
			record.ErrorMessage = "stuck in processing state"
			n++
		}
	}
	return n, nil
}

func (s *mockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}

func (s *mockTaskStore) statusOf(taskID uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[taskID]; ok {
		return record.Status
	}
	return ""
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/catstash/catstash-api/internal/platform/logger"
	"github.com/catstash/catstash-api/internal/store"
	"github.com/catstash/catstash-api/internal/task"
	"github.com/google/uuid"
)

// PostgresTaskStore implements the task.TaskStore interface using PostgreSQL
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgresTaskStore
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{
		db: db,
	}
}

// Ensure PostgresTaskStore implements task.TaskStore interface
var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SaveTask persists a task to the database
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.Type(),
		t.Payload(),
		t.Status(),
		now,
		now,
	)

	if err != nil {
		log.Error("failed to save task",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
		return fmt.Errorf("failed to save task to database: %w", err)
	}

	return nil
}

// UpdateTaskStatus updates the status of a task in the database
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		now,
		taskID,
	)

	if err != nil {
		log.Error("failed to update task status",
			"task_id", taskID,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			"task_id", taskID,
			"error", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Warn("no task found with ID to update status",
			"task_id", taskID)
		return nil // Task not found, treat as no-op
	}

	return nil
}

// GetByID retrieves the persisted record for a task.
// Returns store.ErrTaskNotFound if no record exists. A missing record is
// an expected outcome for expired or never-issued job IDs, so it is not
// logged as an error.
func (s *PostgresTaskStore) GetByID(
	ctx context.Context,
	taskID uuid.UUID,
) (*task.TaskRecord, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, type, status, error_message, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var record task.TaskRecord
	var status string
	err := s.db.QueryRowContext(ctx, query, taskID).Scan(
		&record.ID,
		&record.Type,
		&status,
		&record.ErrorMessage,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			"task_id", taskID,
			"error", err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	record.Status = task.TaskStatus(status)
	return &record, nil
}

// MarkInterrupted fails every task still recorded as pending or
// processing. See task.TaskStore for the recovery contract.
func (s *PostgresTaskStore) MarkInterrupted(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE status IN ($4, $5)
	`

	result, err := s.db.ExecContext(ctx, query,
		task.TaskStatusFailed,
		"interrupted by shutdown",
		time.Now().UTC(),
		task.TaskStatusPending,
		task.TaskStatusProcessing,
	)

	if err != nil {
		log.Error("failed to mark interrupted tasks", "error", err)
		return 0, fmt.Errorf("failed to mark interrupted tasks: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// FailStuckTasks fails tasks that have sat in processing longer than
// olderThan. See task.TaskStore for the contract.
func (s *PostgresTaskStore) FailStuckTasks(
	ctx context.Context,
	olderThan time.Duration,
) (int64, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE status = $4 AND updated_at < $5
	`

	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, query,
		task.TaskStatusFailed,
		"stuck in processing state",
		now,
		task.TaskStatusProcessing,
		now.Add(-olderThan),
	)

	if err != nil {
		log.Error("failed to fail stuck tasks", "error", err)
		return 0, fmt.Errorf("failed to fail stuck tasks: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// WithTx returns a new TaskStore instance that uses the provided transaction
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db: tx,
	}
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/platform/logger"
	"github.com/catstash/catstash-api/internal/store"
)

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the TagStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore interface
var _ store.TagStore = (*PostgresTagStore)(nil)

// GetByName implements store.TagStore.GetByName
// It retrieves a tag by its exact, case-sensitive name.
// Returns store.ErrTagNotFound if the tag does not exist.
func (s *PostgresTagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at
		FROM tags
		WHERE name = $1
	`

	var tag domain.Tag
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&tag.ID,
		&tag.Name,
		&tag.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		log.Error("failed to get tag by name",
			slog.String("error", err.Error()),
			slog.String("tag_name", name))
		return nil, err
	}

	return &tag, nil
}

// Create implements store.TagStore.Create
// It inserts a new tag and fills in its assigned ID.
// Returns store.ErrTagNameExists on a unique violation so callers racing
// to create the same name can re-read instead of failing.
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during create",
			slog.String("error", err.Error()),
			slog.String("tag_name", tag.Name))
		return err
	}

	query := `
		INSERT INTO tags (name, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, tag.Name, tag.CreatedAt).Scan(&tag.ID)
	if err != nil {
		if isUniqueViolation(err, "tags_name_key") {
			log.Debug("tag name already exists",
				slog.String("tag_name", tag.Name))
			return fmt.Errorf("%w: %q", store.ErrTagNameExists, tag.Name)
		}

		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_name", tag.Name))
		return err
	}

	log.Debug("tag created successfully",
		slog.Int64("tag_id", tag.ID),
		slog.String("tag_name", tag.Name))
	return nil
}

// WithTx implements store.TagStore.WithTx
// It returns a new TagStore instance using the provided transaction.
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{
		db:     tx,
		logger: s.logger,
	}
}

package store

import (
	"context"
	"database/sql"

	"github.com/catstash/catstash-api/internal/domain"
)

// TagStore defines the interface for tag data persistence.
//
// Tag creation is racy across concurrent ingestion runs, so the contract
// is deliberately "insert, and on unique violation re-select": Create
// returns ErrTagNameExists when it loses the race and callers recover by
// calling GetByName. The uniqueness constraint lives in the database, not
// in a read-then-write check.
type TagStore interface {
	// GetByName retrieves a tag by its exact name.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByName(ctx context.Context, name string) (*domain.Tag, error)

	// Create saves a new tag, filling in its assigned ID.
	// Returns ErrTagNameExists if a tag with the same name already exists
	// and validation errors from the domain Tag if the data is invalid.
	Create(ctx context.Context, tag *domain.Tag) error

	// WithTx returns a new TagStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}

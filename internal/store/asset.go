package store

import (
	"context"
	"database/sql"

	"github.com/catstash/catstash-api/internal/domain"
)

// ListFilter describes a paginated, optionally tag-filtered read over assets.
// Page is 1-based. Validation of the ranges happens in the service layer
// before the store is touched.
type ListFilter struct {
	// Tag restricts results to assets carrying a tag with this exact name.
	// Empty means no filter.
	Tag      string
	Page     int
	PageSize int
}

// Offset returns the row offset for the filter's page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// AssetPage is one page of assets plus the total number of matching rows.
type AssetPage struct {
	Items      []*domain.Asset
	TotalCount int
}

// AssetStore defines the interface for asset data persistence.
type AssetStore interface {
	// Create saves a new asset together with its tag associations as a
	// single atomic unit on the store's underlying DBTX. To get
	// per-candidate atomicity, call this through WithTx.
	// Returns ErrExternalIDExists if the external ID is already taken and
	// validation errors from the domain Asset if the data is invalid.
	Create(ctx context.Context, asset *domain.Asset, tagIDs []int64) error

	// ExistsByExternalID reports whether an asset with the given external
	// catalog identifier has already been persisted. This is the dedup check.
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)

	// GetByID retrieves an asset by its surrogate ID with its tag names
	// populated. The image payload is not loaded; use GetImage for that.
	// Returns ErrAssetNotFound if the asset does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)

	// GetImage retrieves the raw image bytes for an asset.
	// Returns ErrAssetNotFound if the asset does not exist.
	GetImage(ctx context.Context, id int64) ([]byte, error)

	// List retrieves one page of assets ordered by creation time descending
	// (ties broken by ID descending so pagination is stable), with tag
	// names populated. A page past the end yields an empty Items slice.
	List(ctx context.Context, filter ListFilter) (*AssetPage, error)

	// WithTx returns a new AssetStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) AssetStore
}

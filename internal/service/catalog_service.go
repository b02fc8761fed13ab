package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/store"
)

// Paging bounds for catalog listings.
const (
	MinPageSize = 1
	MaxPageSize = 100
)

// CatalogPage is one page of the asset listing together with its
// pagination envelope.
type CatalogPage struct {
	Items      []*domain.Asset
	PageNumber int
	PageSize   int
	TotalCount int
	TotalPages int
}

// CatalogService provides read-only, paginated access to persisted
// assets. It never blocks on the ingestion pipeline.
type CatalogService struct {
	assets store.AssetStore
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService.
// If logger is nil, a default logger will be used.
func NewCatalogService(assets store.AssetStore, logger *slog.Logger) (*CatalogService, error) {
	if assets == nil {
		return nil, &ServiceError{
			Operation: "create_catalog_service",
			Message:   "asset store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		assets: assets,
		logger: logger.With(slog.String("component", "catalog_service")),
	}, nil
}

// List returns one page of assets, newest first, optionally restricted
// to those carrying the exactly named tag. Paging parameters are
// validated before any storage access: page must be >= 1 and pageSize
// within [1, 100]. A page past the end yields an empty item list,
// not an error.
func (s *CatalogService) List(
	ctx context.Context,
	tag string,
	page, pageSize int,
) (*CatalogPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return nil, ErrInvalidPageSize
	}

	result, err := s.assets.List(ctx, store.ListFilter{
		Tag:      tag,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		s.logger.Error("failed to list assets",
			"error", err,
			"tag", tag,
			"page", page,
			"page_size", pageSize)
		return nil, NewServiceError("list_assets", "failed to list assets", err)
	}

	return &CatalogPage{
		Items:      result.Items,
		PageNumber: page,
		PageSize:   pageSize,
		TotalCount: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, pageSize),
	}, nil
}

// Get retrieves a single asset by ID with its tag names populated.
// Returns ErrAssetNotFound if no such asset exists.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAssetNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("failed to get asset", "error", err, "asset_id", id)
		return nil, NewServiceError("get_asset", "failed to retrieve asset", err)
	}

	return asset, nil
}

// GetImage retrieves the raw image bytes for an asset.
// Returns ErrAssetNotFound if no such asset exists.
func (s *CatalogService) GetImage(ctx context.Context, id int64) ([]byte, error) {
	image, err := s.assets.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAssetNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("failed to get asset image", "error", err, "asset_id", id)
		return nil, NewServiceError("get_asset_image", "failed to retrieve asset image", err)
	}

	return image, nil
}

// totalPages computes ceil(totalCount / pageSize).
func totalPages(totalCount, pageSize int) int {
	return (totalCount + pageSize - 1) / pageSize
}

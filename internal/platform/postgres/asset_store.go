package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/platform/logger"
	"github.com/catstash/catstash-api/internal/store"
)

// PostgresAssetStore implements the store.AssetStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAssetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAssetStore creates a new PostgreSQL implementation of the AssetStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAssetStore(db store.DBTX, logger *slog.Logger) *PostgresAssetStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAssetStore{
		db:     db,
		logger: logger.With(slog.String("component", "asset_store")),
	}
}

// Ensure PostgresAssetStore implements store.AssetStore interface
var _ store.AssetStore = (*PostgresAssetStore)(nil)

// Create implements store.AssetStore.Create
// It inserts the asset row and its asset_tags join rows on the store's
// DBTX. Run it through WithTx to make the pair one atomic unit.
// Returns store.ErrExternalIDExists if the external ID is already taken.
func (s *PostgresAssetStore) Create(
	ctx context.Context,
	asset *domain.Asset,
	tagIDs []int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := asset.Validate(); err != nil {
		log.Warn("asset validation failed during create",
			slog.String("error", err.Error()),
			slog.String("external_id", asset.ExternalID))
		return err
	}

	query := `
		INSERT INTO assets (external_id, width, height, image, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		asset.ExternalID,
		asset.Width,
		asset.Height,
		asset.Image,
		asset.CreatedAt,
	).Scan(&asset.ID)

	if err != nil {
		if isUniqueViolation(err, "assets_external_id_key") {
			log.Debug("asset external ID already exists",
				slog.String("external_id", asset.ExternalID))
			return fmt.Errorf("%w: %q", store.ErrExternalIDExists, asset.ExternalID)
		}

		log.Error("failed to create asset",
			slog.String("error", err.Error()),
			slog.String("external_id", asset.ExternalID))
		return err
	}

	for _, tagID := range tagIDs {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO asset_tags (asset_id, tag_id) VALUES ($1, $2)`,
			asset.ID,
			tagID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: tag with ID %d not found",
					store.ErrInvalidEntity, tagID)
			}
			log.Error("failed to create asset tag association",
				slog.String("error", err.Error()),
				slog.Int64("asset_id", asset.ID),
				slog.Int64("tag_id", tagID))
			return err
		}
	}

	log.Info("asset created successfully",
		slog.Int64("asset_id", asset.ID),
		slog.String("external_id", asset.ExternalID),
		slog.Int("tag_count", len(tagIDs)))
	return nil
}

// ExistsByExternalID implements store.AssetStore.ExistsByExternalID
func (s *PostgresAssetStore) ExistsByExternalID(
	ctx context.Context,
	externalID string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE external_id = $1)`,
		externalID,
	).Scan(&exists)

	if err != nil {
		log.Error("failed to check asset existence",
			slog.String("error", err.Error()),
			slog.String("external_id", externalID))
		return false, err
	}

	return exists, nil
}

// GetByID implements store.AssetStore.GetByID
// It retrieves an asset by its surrogate ID with its tag names populated.
// The image payload is not loaded; use GetImage for that.
// Returns store.ErrAssetNotFound if the asset does not exist.
func (s *PostgresAssetStore) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, external_id, width, height, created_at
		FROM assets
		WHERE id = $1
	`

	var asset domain.Asset
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.ExternalID,
		&asset.Width,
		&asset.Height,
		&asset.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("asset not found", slog.Int64("asset_id", id))
			return nil, store.ErrAssetNotFound
		}
		log.Error("failed to get asset by ID",
			slog.String("error", err.Error()),
			slog.Int64("asset_id", id))
		return nil, err
	}

	tags, err := s.tagNamesFor(ctx, []int64{id})
	if err != nil {
		log.Error("failed to load tags for asset",
			slog.String("error", err.Error()),
			slog.Int64("asset_id", id))
		return nil, err
	}
	asset.Tags = tags[id]
	if asset.Tags == nil {
		asset.Tags = []string{}
	}

	return &asset, nil
}

// GetImage implements store.AssetStore.GetImage
// Returns store.ErrAssetNotFound if the asset does not exist.
func (s *PostgresAssetStore) GetImage(ctx context.Context, id int64) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var image []byte
	err := s.db.QueryRowContext(
		ctx,
		`SELECT image FROM assets WHERE id = $1`,
		id,
	).Scan(&image)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAssetNotFound
		}
		log.Error("failed to get asset image",
			slog.String("error", err.Error()),
			slog.Int64("asset_id", id))
		return nil, err
	}

	return image, nil
}

// List implements store.AssetStore.List
// It issues a count query plus one page query ordered by created_at
// descending with ID as the tiebreaker, then loads tag names for the
// returned page in a single join query.
func (s *PostgresAssetStore) List(
	ctx context.Context,
	filter store.ListFilter,
) (*store.AssetPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var where string
	var args []any
	if filter.Tag != "" {
		where = `
		WHERE EXISTS (
			SELECT 1
			FROM asset_tags at
			JOIN tags t ON t.id = at.tag_id
			WHERE at.asset_id = a.id AND t.name = $1
		)`
		args = append(args, filter.Tag)
	}

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM assets a` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		log.Error("failed to count assets",
			slog.String("error", err.Error()),
			slog.String("tag", filter.Tag))
		return nil, err
	}

	pageQuery := fmt.Sprintf(`
		SELECT a.id, a.external_id, a.width, a.height, a.created_at
		FROM assets a%s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, filter.Offset())

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		log.Error("failed to query assets page",
			slog.String("error", err.Error()),
			slog.String("tag", filter.Tag),
			slog.Int("page", filter.Page))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*domain.Asset{}
	var ids []int64
	for rows.Next() {
		var asset domain.Asset
		err := rows.Scan(
			&asset.ID,
			&asset.ExternalID,
			&asset.Width,
			&asset.Height,
			&asset.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan asset row", slog.String("error", err.Error()))
			return nil, err
		}
		asset.Tags = []string{}
		items = append(items, &asset)
		ids = append(ids, asset.ID)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if len(ids) > 0 {
		tags, err := s.tagNamesFor(ctx, ids)
		if err != nil {
			log.Error("failed to load tags for assets page",
				slog.String("error", err.Error()))
			return nil, err
		}
		for _, asset := range items {
			if names, ok := tags[asset.ID]; ok {
				asset.Tags = names
			}
		}
	}

	log.Debug("listed assets",
		slog.String("tag", filter.Tag),
		slog.Int("page", filter.Page),
		slog.Int("page_size", filter.PageSize),
		slog.Int("total_count", totalCount),
		slog.Int("returned", len(items)))

	return &store.AssetPage{
		Items:      items,
		TotalCount: totalCount,
	}, nil
}

// WithTx implements store.AssetStore.WithTx
// It returns a new AssetStore instance using the provided transaction.
func (s *PostgresAssetStore) WithTx(tx *sql.Tx) store.AssetStore {
	return &PostgresAssetStore{
		db:     tx,
		logger: s.logger,
	}
}

// tagNamesFor loads the tag names for the given asset IDs in one query,
// keyed by asset ID.
func (s *PostgresAssetStore) tagNamesFor(
	ctx context.Context,
	assetIDs []int64,
) (map[int64][]string, error) {
	placeholders := make([]string, len(assetIDs))
	args := make([]any, len(assetIDs))
	for i, id := range assetIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT at.asset_id, t.name
		FROM asset_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.asset_id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	result := make(map[int64][]string)
	for rows.Next() {
		var assetID int64
		var name string
		if err := rows.Scan(&assetID, &name); err != nil {
			return nil, err
		}
		result[assetID] = append(result[assetID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/store"
)

// SourceClient defines the interface the pipeline needs from the
// external catalog client.
type SourceClient interface {
	// FetchCandidates pulls up to limit candidate records from the catalog.
	// A failure here is fatal to the run.
	FetchCandidates(ctx context.Context, limit int) ([]domain.Candidate, error)

	// DownloadImage retrieves the raw bytes for one image URL.
	// A failure here is per-item.
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// IngestionService orchestrates one ingestion run: fetch a batch of
// candidates, and for each one dedup, download, resolve tags, and
// persist. Failures are isolated per candidate; only a failed batch
// fetch fails the run.
type IngestionService struct {
	source     SourceClient
	assets     store.AssetStore
	resolver   *TagResolver
	db         *sql.DB
	fetchLimit int
	logger     *slog.Logger

	// runInTx wraps store.RunInTransaction; tests substitute it to run
	// the transactional body against fakes.
	runInTx func(ctx context.Context, fn store.TxFn) error
}

// NewIngestionService creates a new IngestionService.
// A non-positive fetchLimit lets the source client apply its default.
// If logger is nil, a default logger will be used.
func NewIngestionService(
	source SourceClient,
	assets store.AssetStore,
	resolver *TagResolver,
	db *sql.DB,
	fetchLimit int,
	logger *slog.Logger,
) (*IngestionService, error) {
	if source == nil {
		return nil, &ServiceError{
			Operation: "create_ingestion_service",
			Message:   "source client cannot be nil",
		}
	}
	if assets == nil {
		return nil, &ServiceError{
			Operation: "create_ingestion_service",
			Message:   "asset store cannot be nil",
		}
	}
	if resolver == nil {
		return nil, &ServiceError{
			Operation: "create_ingestion_service",
			Message:   "tag resolver cannot be nil",
		}
	}
	if db == nil {
		return nil, &ServiceError{
			Operation: "create_ingestion_service",
			Message:   "db cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &IngestionService{
		source:     source,
		assets:     assets,
		resolver:   resolver,
		db:         db,
		fetchLimit: fetchLimit,
		logger:     logger.With(slog.String("component", "ingestion_service")),
	}
	s.runInTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s, nil
}

// Run executes one ingestion pass and reports per-item outcomes.
// The returned error is non-nil only when the batch fetch itself fails;
// per-item download or persistence failures are counted in the summary
// and logged, and processing continues with the remaining candidates.
func (s *IngestionService) Run(ctx context.Context) (*domain.IngestionSummary, error) {
	s.logger.Info("starting ingestion run", "fetch_limit", s.fetchLimit)

	candidates, err := s.source.FetchCandidates(ctx, s.fetchLimit)
	if err != nil {
		s.logger.Error("batch fetch from source failed", "error", err)
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	summary := &domain.IngestionSummary{}
	for _, candidate := range candidates {
		outcome, err := s.processCandidate(ctx, candidate)
		switch {
		case err != nil:
			summary.Failed++
			s.logger.Warn("candidate failed, continuing batch",
				"external_id", candidate.ExternalID,
				"error", err)
		case outcome == outcomeSkipped:
			summary.Skipped++
			s.logger.Debug("candidate already ingested, skipping",
				"external_id", candidate.ExternalID)
		default:
			summary.Added++
		}
	}

	s.logger.Info("ingestion run completed",
		"fetched", len(candidates),
		"added", summary.Added,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

type candidateOutcome int

const (
	outcomeAdded candidateOutcome = iota
	outcomeSkipped
)

// processCandidate walks one candidate through dedup, download, tag
// resolution, and persistence. The asset row and its join rows are
// written in one transaction so a crash mid-batch loses at most this
// candidate. Tags are resolved outside that transaction: they are
// shared, never deleted, and their uniqueness is guarded by the store's
// insert-then-re-read contract.
func (s *IngestionService) processCandidate(
	ctx context.Context,
	candidate domain.Candidate,
) (candidateOutcome, error) {
	exists, err := s.assets.ExistsByExternalID(ctx, candidate.ExternalID)
	if err != nil {
		return 0, fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		return outcomeSkipped, nil
	}

	image, err := s.source.DownloadImage(ctx, candidate.URL)
	if err != nil {
		return 0, fmt.Errorf("download failed: %w", err)
	}

	tags, err := s.resolver.Resolve(ctx, candidate.Temperaments)
	if err != nil {
		return 0, fmt.Errorf("tag resolution failed: %w", err)
	}

	asset, err := domain.NewAsset(candidate.ExternalID, candidate.Width, candidate.Height, image)
	if err != nil {
		return 0, fmt.Errorf("invalid candidate: %w", err)
	}

	tagIDs := make([]int64, len(tags))
	for i, tag := range tags {
		tagIDs[i] = tag.ID
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.assets.WithTx(tx).Create(ctx, asset, tagIDs)
	})
	if err != nil {
		// Another run persisted the same candidate after our dedup check.
		// The constraint did its job; treat it as a skip.
		if store.IsDuplicateError(err) {
			return outcomeSkipped, nil
		}
		return 0, fmt.Errorf("persist failed: %w", err)
	}

	s.logger.Info("candidate ingested",
		"asset_id", asset.ID,
		"external_id", asset.ExternalID,
		"tag_count", len(tagIDs))
	return outcomeAdded, nil
}

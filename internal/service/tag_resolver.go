package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/store"
)

// TagResolver turns free-text temperament strings into persisted tags,
// creating missing ones on first sight.
//
// Creation races with concurrent ingestion runs, so the resolver never
// does a bare check-then-insert: it inserts, and when the store reports
// a unique violation it re-reads the row the winner created. The
// conflict is absorbed here and never surfaces to callers.
type TagResolver struct {
	tags   store.TagStore
	logger *slog.Logger
}

// NewTagResolver creates a new TagResolver.
// If logger is nil, a default logger will be used.
func NewTagResolver(tags store.TagStore, logger *slog.Logger) (*TagResolver, error) {
	if tags == nil {
		return nil, &ServiceError{
			Operation: "create_tag_resolver",
			Message:   "tag store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TagResolver{
		tags:   tags,
		logger: logger.With(slog.String("component", "tag_resolver")),
	}, nil
}

// Resolve derives normalized tag names from the raw temperament strings
// and resolves each to a persisted tag. Order of the result is not
// significant. Empty input resolves to no tags.
func (r *TagResolver) Resolve(ctx context.Context, raw []string) ([]domain.Tag, error) {
	names := domain.DeriveTagNames(raw)
	if len(names) == 0 {
		return nil, nil
	}

	resolved := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		tag, err := r.resolveOne(ctx, name)
		if err != nil {
			return nil, NewServiceError("resolve_tags",
				fmt.Sprintf("failed to resolve tag %q", name), err)
		}
		resolved = append(resolved, *tag)
	}

	return resolved, nil
}

// resolveOne looks a tag up by name and creates it if absent. Losing the
// create race is recovered by re-reading the now-existing row.
func (r *TagResolver) resolveOne(ctx context.Context, name string) (*domain.Tag, error) {
	existing, err := r.tags.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, err
	}

	tag, err := domain.NewTag(name)
	if err != nil {
		return nil, err
	}

	err = r.tags.Create(ctx, tag)
	if err == nil {
		r.logger.Debug("created new tag", "tag_name", name, "tag_id", tag.ID)
		return tag, nil
	}
	if !errors.Is(err, store.ErrTagNameExists) {
		return nil, err
	}

	// A concurrent run created the tag between our read and insert.
	r.logger.Debug("lost tag creation race, re-reading", "tag_name", name)
	return r.tags.GetByName(ctx, name)
}

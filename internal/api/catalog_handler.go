package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/catstash/catstash-api/internal/api/shared"
	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/platform/logger"
	"github.com/catstash/catstash-api/internal/service"
)

// CatalogReader is the catalog access surface the handler depends on.
type CatalogReader interface {
	List(ctx context.Context, tag string, page, pageSize int) (*service.CatalogPage, error)
	Get(ctx context.Context, id int64) (*domain.Asset, error)
	GetImage(ctx context.Context, id int64) ([]byte, error)
}

// Default paging when the client omits the parameters.
const (
	defaultPage     = 1
	defaultPageSize = 10
)

// CatalogHandler handles catalog-related HTTP requests.
type CatalogHandler struct {
	catalog CatalogReader
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog CatalogReader, baseLogger *slog.Logger) *CatalogHandler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}
	return &CatalogHandler{
		catalog: catalog,
		logger:  baseLogger.With(slog.String("handler", "catalog")),
	}
}

// ListCats handles GET /api/cats requests. Supported query parameters:
// tag (exact match filter), page, pageSize.
func (h *CatalogHandler) ListCats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	query := r.URL.Query()

	page, err := shared.QueryInt(query.Get("page"), defaultPage)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page parameter")
		return
	}
	pageSize, err := shared.QueryInt(query.Get("pageSize"), defaultPageSize)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid pageSize parameter")
		return
	}
	tag := query.Get("tag")

	result, err := h.catalog.List(r.Context(), tag, page, pageSize)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("catalog page served",
		slog.Int("page", page),
		slog.Int("returned", len(result.Items)),
		slog.Int("total_count", result.TotalCount))

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(result))
}

// GetCat handles GET /api/cats/{id} requests.
func (h *CatalogHandler) GetCat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	asset, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, catToResponse(asset))
}

// GetCatImage handles GET /api/cats/{id}/image requests, serving the
// stored image bytes as image/jpeg.
func (h *CatalogHandler) GetCatImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	image, err := h.catalog.GetImage(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(image)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		log.Error("failed to write image response", "error", err, "asset_id", id)
	}
}

// pathID extracts and parses the {id} path parameter, writing the error
// response itself when the value is missing or malformed.
func (h *CatalogHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Cat ID is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Debug("invalid cat ID format", slog.String("cat_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid cat ID format")
		return 0, false
	}
	return id, true
}

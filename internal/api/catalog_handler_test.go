package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/service"
)

// MockCatalogReader is a mock implementation of CatalogReader for testing
type MockCatalogReader struct {
	ListFn     func(ctx context.Context, tag string, page, pageSize int) (*service.CatalogPage, error)
	GetFn      func(ctx context.Context, id int64) (*domain.Asset, error)
	GetImageFn func(ctx context.Context, id int64) ([]byte, error)
}

func (m *MockCatalogReader) List(
	ctx context.Context,
	tag string,
	page, pageSize int,
) (*service.CatalogPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tag, page, pageSize)
	}
	return &service.CatalogPage{Items: []*domain.Asset{}}, nil
}

func (m *MockCatalogReader) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, service.ErrAssetNotFound
}

func (m *MockCatalogReader) GetImage(ctx context.Context, id int64) ([]byte, error) {
	if m.GetImageFn != nil {
		return m.GetImageFn(ctx, id)
	}
	return nil, service.ErrAssetNotFound
}

// newCatalogRouter mounts the handler under the real route patterns so
// chi URL parameters resolve as they do in production.
func newCatalogRouter(handler *CatalogHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/cats", handler.ListCats)
	r.Get("/api/cats/{id}", handler.GetCat)
	r.Get("/api/cats/{id}/image", handler.GetCatImage)
	return r
}

func sampleAsset(id int64, externalID string, tags ...string) *domain.Asset {
	return &domain.Asset{
		ID:         id,
		ExternalID: externalID,
		Width:      800,
		Height:     600,
		CreatedAt:  time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		Tags:       tags,
	}
}

func TestCatalogHandler_ListCats(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockCatalogReader)
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name: "default_paging",
			url:  "/api/cats",
			setupMock: func(m *MockCatalogReader) {
				m.ListFn = func(ctx context.Context, tag string, page, pageSize int) (*service.CatalogPage, error) {
					assert.Equal(t, "", tag)
					assert.Equal(t, 1, page)
					assert.Equal(t, 10, pageSize)
					return &service.CatalogPage{
						Items:      []*domain.Asset{sampleAsset(1, "cat-a", "Playful")},
						PageNumber: page,
						PageSize:   pageSize,
						TotalCount: 1,
						TotalPages: 1,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp CatPageResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.Len(t, resp.Items, 1)
				assert.Equal(t, "cat-a", resp.Items[0].CatID)
				assert.Equal(t, "/api/cats/1/image", resp.Items[0].ImageURL)
				assert.Equal(t, []string{"Playful"}, resp.Items[0].Tags)
				assert.Equal(t, 1, resp.TotalPages)
			},
		},
		{
			name: "explicit_paging_and_tag",
			url:  "/api/cats?tag=Friendly&page=2&pageSize=5",
			setupMock: func(m *MockCatalogReader) {
				m.ListFn = func(ctx context.Context, tag string, page, pageSize int) (*service.CatalogPage, error) {
					assert.Equal(t, "Friendly", tag)
					assert.Equal(t, 2, page)
					assert.Equal(t, 5, pageSize)
					return &service.CatalogPage{
						Items:      []*domain.Asset{},
						PageNumber: page,
						PageSize:   pageSize,
						TotalCount: 5,
						TotalPages: 1,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp CatPageResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Empty(t, resp.Items)
				assert.Equal(t, 2, resp.PageNumber)
			},
		},
		{
			name:           "non_numeric_page",
			url:            "/api/cats?page=abc",
			setupMock:      func(m *MockCatalogReader) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non_numeric_page_size",
			url:            "/api/cats?pageSize=huge",
			setupMock:      func(m *MockCatalogReader) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "out_of_range_page_size",
			url:  "/api/cats?pageSize=500",
			setupMock: func(m *MockCatalogReader) {
				m.ListFn = func(ctx context.Context, tag string, page, pageSize int) (*service.CatalogPage, error) {
					return nil, service.ErrInvalidPageSize
				}
			},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "Page size must be between 1 and 100", resp["error"])
			},
		},
		{
			name: "storage_failure",
			url:  "/api/cats",
			setupMock: func(m *MockCatalogReader) {
				m.ListFn = func(ctx context.Context, tag string, page, pageSize int) (*service.CatalogPage, error) {
					return nil, service.NewServiceError("list_assets", "failed to list assets", assert.AnError)
				}
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				// The raw error text must never reach the client.
				assert.NotContains(t, string(body), assert.AnError.Error())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &MockCatalogReader{}
			tc.setupMock(mock)
			router := newCatalogRouter(NewCatalogHandler(mock, nil))

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.check != nil {
				tc.check(t, rec.Body.Bytes())
			}
		})
	}
}

func TestCatalogHandler_GetCat(t *testing.T) {
	mock := &MockCatalogReader{
		GetFn: func(ctx context.Context, id int64) (*domain.Asset, error) {
			if id == 42 {
				return sampleAsset(42, "cat-x", "Calm"), nil
			}
			return nil, service.ErrAssetNotFound
		},
	}
	router := newCatalogRouter(NewCatalogHandler(mock, nil))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cats/42", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp CatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "cat-x", resp.CatID)
		assert.Equal(t, "/api/cats/42/image", resp.ImageURL)
	})

	t.Run("missing_returns_404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cats/999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed_id_returns_400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cats/not-a-number", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCatalogHandler_GetCatImage(t *testing.T) {
	imageBytes := []byte{0xff, 0xd8, 0xff, 0xe0}
	mock := &MockCatalogReader{
		GetImageFn: func(ctx context.Context, id int64) ([]byte, error) {
			if id == 7 {
				return imageBytes, nil
			}
			return nil, service.ErrAssetNotFound
		},
	}
	router := newCatalogRouter(NewCatalogHandler(mock, nil))

	t.Run("serves_jpeg_bytes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cats/7/image", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
		assert.Equal(t, imageBytes, rec.Body.Bytes())
	})

	t.Run("missing_returns_404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cats/8/image", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

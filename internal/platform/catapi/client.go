package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/catstash/catstash-api/internal/domain"
)

// Common errors returned by the catalog client.
var (
	// ErrSourceUnavailable indicates the catalog itself could not be
	// queried (transport error or non-2xx). Fatal to an ingestion run.
	ErrSourceUnavailable = errors.New("source catalog unavailable")

	// ErrDownloadFailed indicates a single image payload could not be
	// downloaded. Per-item; the batch continues.
	ErrDownloadFailed = errors.New("image download failed")
)

const (
	// DefaultFetchLimit is used when the caller passes a non-positive limit.
	DefaultFetchLimit = 25

	// MaxFetchLimit caps a single batch; the upstream API rejects more.
	MaxFetchLimit = 100
)

// apiImage mirrors the catalog's images/search response shape.
type apiImage struct {
	ID     string     `json:"id"`
	URL    string     `json:"url"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Breeds []apiBreed `json:"breeds"`
}

type apiBreed struct {
	Name        string `json:"name"`
	Temperament string `json:"temperament"`
}

// Client performs HTTP calls against the external image catalog.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a catalog client. The http.Client is injected so
// callers control timeouts; if nil, http.DefaultClient is used.
// If logger is nil, a default logger will be used.
func NewClient(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "catapi_client")),
	}
}

// FetchCandidates pulls up to limit candidate records that carry breed
// data from the catalog. A non-positive limit falls back to
// DefaultFetchLimit; limits above MaxFetchLimit are capped.
// Returns ErrSourceUnavailable (wrapped) when the catalog call fails.
func (c *Client) FetchCandidates(ctx context.Context, limit int) ([]domain.Candidate, error) {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	if limit > MaxFetchLimit {
		limit = MaxFetchLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("has_breeds", "1")
	endpoint := c.baseURL + "/images/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrSourceUnavailable, err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog search request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer closeBody(resp.Body, c.logger)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("catalog search returned non-success status",
			"status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var images []apiImage
	if err := json.NewDecoder(resp.Body).Decode(&images); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrSourceUnavailable, err)
	}

	candidates := make([]domain.Candidate, 0, len(images))
	for _, img := range images {
		candidate := domain.Candidate{
			ExternalID: img.ID,
			URL:        img.URL,
			Width:      img.Width,
			Height:     img.Height,
		}
		for _, breed := range img.Breeds {
			if breed.Temperament != "" {
				candidate.Temperaments = append(candidate.Temperaments, breed.Temperament)
			}
		}
		candidates = append(candidates, candidate)
	}

	c.logger.Debug("fetched candidates from catalog",
		"requested", limit,
		"received", len(candidates))
	return candidates, nil
}

// DownloadImage retrieves the raw bytes for one image URL.
// Returns ErrDownloadFailed (wrapped) on any transport or status failure.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrDownloadFailed, err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer closeBody(resp.Body, c.logger)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrDownloadFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDownloadFailed)
	}

	return data, nil
}

func closeBody(body io.ReadCloser, logger *slog.Logger) {
	if err := body.Close(); err != nil {
		logger.Error("failed to close response body", "error", err)
	}
}

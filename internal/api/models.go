package api

import (
	"fmt"
	"time"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/service"
)

// CatResponse represents one catalog entry in API responses.
type CatResponse struct {
	ID        int64     `json:"id"`
	CatID     string    `json:"cat_id"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	Tags      []string  `json:"tags"`
}

// CatPageResponse is one page of catalog entries with its pagination
// envelope.
type CatPageResponse struct {
	Items      []CatResponse `json:"items"`
	PageNumber int           `json:"page_number"`
	PageSize   int           `json:"page_size"`
	TotalCount int           `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}

// JobResponse reports the identity and status of an ingestion job.
type JobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// catToResponse converts a domain.Asset to a CatResponse. The image
// itself is not inlined; clients follow image_url to fetch it.
func catToResponse(asset *domain.Asset) CatResponse {
	tags := asset.Tags
	if tags == nil {
		tags = []string{}
	}
	return CatResponse{
		ID:        asset.ID,
		CatID:     asset.ExternalID,
		Width:     asset.Width,
		Height:    asset.Height,
		ImageURL:  fmt.Sprintf("/api/cats/%d/image", asset.ID),
		CreatedAt: asset.CreatedAt,
		Tags:      tags,
	}
}

// pageToResponse converts a service.CatalogPage to its response form.
func pageToResponse(page *service.CatalogPage) CatPageResponse {
	items := make([]CatResponse, 0, len(page.Items))
	for _, asset := range page.Items {
		items = append(items, catToResponse(asset))
	}
	return CatPageResponse{
		Items:      items,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}
}

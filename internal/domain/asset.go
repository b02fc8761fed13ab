package domain

import (
	"errors"
	"time"
)

// Common validation errors for Asset
var (
	ErrEmptyExternalID   = errors.New("asset external ID cannot be empty")
	ErrInvalidDimensions = errors.New("asset dimensions must be positive")
	ErrEmptyImage        = errors.New("asset image cannot be empty")
)

// Asset represents a downloaded image record from the external catalog,
// together with the tag names derived from its breed temperaments.
// An asset is created once by the ingestion pipeline and never mutated.
type Asset struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Image      []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`

	// Tags holds the names of the tags associated with this asset.
	// It is populated on reads; order is not significant.
	Tags []string `json:"tags"`
}

// NewAsset creates a new Asset from a downloaded candidate. The surrogate
// ID is assigned by the store at persistence time.
// Returns an error if validation fails.
func NewAsset(externalID string, width, height int, image []byte) (*Asset, error) {
	asset := &Asset{
		ExternalID: externalID,
		Width:      width,
		Height:     height,
		Image:      image,
		CreatedAt:  time.Now().UTC(),
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	return asset, nil
}

// Validate checks if the Asset has valid data.
// Returns an error if any field fails validation.
func (a *Asset) Validate() error {
	if a.ExternalID == "" {
		return ErrEmptyExternalID
	}

	if a.Width <= 0 || a.Height <= 0 {
		return ErrInvalidDimensions
	}

	if len(a.Image) == 0 {
		return ErrEmptyImage
	}

	return nil
}

package domain

import (
	"errors"
	"strings"
	"time"
)

// Common validation errors for Tag
var (
	ErrEmptyTagName     = errors.New("tag name cannot be empty")
	ErrUntrimmedTagName = errors.New("tag name cannot have leading or trailing whitespace")
)

// Tag represents a normalized temperament label. Tag names are unique
// (exact string match, case-sensitive) and a tag is created lazily the
// first time its name is seen; tags are never mutated or deleted.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTag creates a new Tag with the given name.
// Returns an error if validation fails.
func NewTag(name string) (*Tag, error) {
	tag := &Tag{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.Name == "" {
		return ErrEmptyTagName
	}

	if t.Name != strings.TrimSpace(t.Name) {
		return ErrUntrimmedTagName
	}

	return nil
}

// DeriveTagNames normalizes free-text temperament strings into tag names.
// Each input string is split on commas, fragments are trimmed of
// whitespace, empty fragments are dropped, and exact duplicates are
// removed. First-seen order is preserved, though callers must not rely
// on tag ordering.
func DeriveTagNames(raw []string) []string {
	seen := make(map[string]struct{})
	var names []string

	for _, s := range raw {
		for _, fragment := range strings.Split(s, ",") {
			name := strings.TrimSpace(fragment)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrAssetNotFound))
	assert.True(t, IsNotFoundError(ErrTagNotFound))
	assert.True(t, IsNotFoundError(ErrTaskNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrAssetNotFound)))

	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsNotFoundError(errors.New("boom")))
	assert.False(t, IsNotFoundError(nil))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrExternalIDExists))
	assert.True(t, IsDuplicateError(ErrTagNameExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrTagNameExists)))

	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreErrorFormatting(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StoreError{
		Entity:    "asset",
		Operation: "create",
		Message:   "insert failed",
		Err:       cause,
	}

	assert.Contains(t, err.Error(), "asset")
	assert.Contains(t, err.Error(), "create")
	assert.ErrorIs(t, err, cause)
}

func TestListFilterOffset(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		expected int
	}{
		{name: "first page", page: 1, pageSize: 20, expected: 0},
		{name: "second page", page: 2, pageSize: 20, expected: 20},
		{name: "deep page", page: 7, pageSize: 25, expected: 150},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := ListFilter{Page: tc.page, PageSize: tc.pageSize}
			assert.Equal(t, tc.expected, f.Offset())
		})
	}
}

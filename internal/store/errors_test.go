package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrNotFound", err: fmt.Errorf("lookup: %w", ErrNotFound), expected: true},
		{name: "ErrItemNotFound", err: ErrItemNotFound, expected: true},
		{name: "ErrReviewStateNotFound", err: ErrReviewStateNotFound, expected: true},
		{name: "ErrProfileNotFound", err: ErrProfileNotFound, expected: true},
		{
			name:     "StoreError wrapping not found",
			err:      NewStoreError("item", "get", "lookup failed", ErrItemNotFound),
			expected: true,
		},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("review_state", "update", "no rows", ErrReviewStateNotFound)
		assert.Equal(t, "update operation on review_state failed: no rows: entity not found: review state", err.Error())
		assert.ErrorIs(t, err, ErrNotFound)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "review_state", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("item", "create", "bad input", nil)
		assert.Equal(t, "create operation on item failed: bad input", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("entity specific errors carry the base sentinel", func(t *testing.T) {
		assert.ErrorIs(t, ErrItemNotFound, ErrNotFound)
		assert.Contains(t, ErrReviewStateNotFound.Error(), "review state")
	})
}

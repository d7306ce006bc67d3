package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/domain/srs"
)

// DueSummary describes how a due list was cut down by the daily limit.
type DueSummary struct {
	TotalDue   int `json:"total_due"`
	Returned   int `json:"returned"`
	DailyLimit int `json:"daily_limit"`
}

// Service schedules vocabulary reviews for individual users.
type Service interface {
	// GetDueItems returns the user's due items in catalog order, cut to the
	// user's daily limit. Items the user has never seen are due today.
	//
	// Returns:
	//   - (items, summary, nil): possibly empty
	//   - (nil, DueSummary{}, error): store or decoding failures, including
	//     domain.ErrMalformedState for corrupt stored states
	GetDueItems(ctx context.Context, userID uuid.UUID) ([]domain.DueItem, DueSummary, error)

	// GetNextItem returns the first item GetDueItems would return.
	// Returns ErrNoItemsDue when nothing is due.
	GetNextItem(ctx context.Context, userID uuid.UUID) (*domain.DueItem, error)

	// SubmitGrade applies an SM-2 grade to the user's state for the item and
	// persists the result in a single transaction. The first grade for an item
	// creates the state.
	//
	// Error Handling:
	//   - errors wrapping domain.ErrInvalidGrade for grades outside 0..5
	//   - ErrItemNotFound when the item does not exist
	//   - *ServiceError for everything else
	SubmitGrade(ctx context.Context, userID, itemID uuid.UUID, grade domain.Grade) (*domain.ReviewState, error)

	// Postpone pushes the next review of an item back by days without
	// touching easiness, interval or repetitions.
	// Returns srs.ErrInvalidDays when days is outside [1, 36500] or the
	// result would pass the last representable date.
	Postpone(ctx context.Context, userID, itemID uuid.UUID, days int) (*domain.ReviewState, error)
}

// Common error types for the review Service
var (
	// ErrNoItemsDue indicates that the user has nothing to review today.
	ErrNoItemsDue = errors.New("no items due for review")

	// ErrItemNotFound indicates that the item does not exist in the catalog.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidGrade is the domain error for grades outside 0..5.
	ErrInvalidGrade = domain.ErrInvalidGrade

	// ErrInvalidDays is returned by Postpone for out-of-range day counts.
	ErrInvalidDays = srs.ErrInvalidDays
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_due_items", "submit_grade")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

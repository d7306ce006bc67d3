package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
)

// ReviewStateStore persists per-user scheduling state keyed by (user, item).
type ReviewStateStore interface {
	// Create saves a new review state.
	// Returns ErrDuplicate if the user already has a state for the item.
	Create(ctx context.Context, state *domain.ReviewState) error

	// Get retrieves the state for a user and item without locking.
	// Returns ErrReviewStateNotFound if the user has never been scheduled on the item.
	// NOTE: Do not use this when the row is about to be updated; use GetForUpdate instead.
	Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error)

	// GetForUpdate retrieves the state and locks it for the rest of the transaction.
	// Must be called on a store obtained from WithTx.
	// Returns ErrReviewStateNotFound if the state does not exist.
	GetForUpdate(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error)

	// Update overwrites the scheduling fields of an existing state.
	// Returns ErrReviewStateNotFound if the state does not exist.
	Update(ctx context.Context, state *domain.ReviewState) error

	// Delete removes the state for a user and item.
	// Returns ErrReviewStateNotFound if the state does not exist.
	Delete(ctx context.Context, userID, itemID uuid.UUID) error

	// ListByUser returns every state the user has, in no particular order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewState, error)

	// WithTx returns a new ReviewStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStateStore
}

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
)

// ItemStore defines the interface for the shared vocabulary catalog.
type ItemStore interface {
	// Create saves a new item. Returns ErrInvalidEntity when the item fails validation.
	Create(ctx context.Context, item *domain.Item) error

	// CreateMultiple saves several items in one statement batch.
	// Used by bulk import; callers wrap it in a transaction for atomicity.
	CreateMultiple(ctx context.Context, items []*domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// List returns items ordered by creation time.
	// An empty category returns the whole catalog.
	List(ctx context.Context, category string) ([]*domain.Item, error)

	// Delete removes an item and, through cascading, every review state that references it.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ItemStore
}

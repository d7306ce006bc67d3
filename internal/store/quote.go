package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
)

// QuoteStore persists the typing-practice catalog.
type QuoteStore interface {
	// Create saves a new quote. Returns ErrInvalidEntity when the quote fails validation.
	Create(ctx context.Context, quote *domain.Quote) error

	// CreateMultiple saves several quotes. Every quote is validated before any row is written.
	CreateMultiple(ctx context.Context, quotes []*domain.Quote) error

	// GetByID retrieves a quote.
	// Returns ErrQuoteNotFound if the quote does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)

	// List returns quotes ordered by creation time.
	// An empty category returns the whole catalog.
	List(ctx context.Context, category string) ([]*domain.Quote, error)

	// Delete removes a quote.
	// Returns ErrQuoteNotFound if the quote does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new QuoteStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QuoteStore
}

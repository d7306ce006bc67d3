package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
)

// ProfileStore persists per-user preferences.
type ProfileStore interface {
	// Get retrieves a user's profile.
	// Returns ErrProfileNotFound if the user never saved one.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// GetForUpdate reads a profile and locks its row until the transaction ends.
	// Only meaningful on a store bound to a transaction.
	// Returns ErrProfileNotFound if the user never saved one.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// CreateIfMissing inserts profile unless a row for the user already exists.
	CreateIfMissing(ctx context.Context, profile *domain.Profile) error

	// Upsert creates the profile or replaces its mutable fields,
	// including level and exp.
	Upsert(ctx context.Context, profile *domain.Profile) error

	// ListReminderEnabled returns every profile that opted into due reminders.
	ListReminderEnabled(ctx context.Context) ([]*domain.Profile, error)

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/store"
)

// PostgresReviewStateStore implements the store.ReviewStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a new PostgreSQL implementation of the ReviewStateStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure PostgresReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

const reviewStateColumns = `user_id, item_id, easiness, interval_days, repetitions, next_review,
	last_reviewed_at, review_count, created_at, updated_at`

// Create implements store.ReviewStateStore.Create
func (s *PostgresReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.db.ExecContext(ctx, query,
		state.UserID, state.ItemID, state.Easiness, state.Interval, state.Repetitions,
		dateParam(state.NextReview), nullTime(state.LastReviewedAt), state.ReviewCount,
		state.CreatedAt, state.UpdatedAt)
	if err != nil {
		log.Error("failed to insert review state",
			slog.String("user_id", state.UserID.String()),
			slog.String("item_id", state.ItemID.String()),
			slog.String("error", err.Error()))
		if IsForeignKeyViolation(err) {
			return store.ErrItemNotFound
		}
		return store.NewStoreError("review_state", "create", "insert failed", MapError(err))
	}
	return nil
}

// Get implements store.ReviewStateStore.Get
func (s *PostgresReviewStateStore) Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error) {
	return s.get(ctx, userID, itemID, "")
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
// The row stays locked until the surrounding transaction ends.
func (s *PostgresReviewStateStore) GetForUpdate(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error) {
	return s.get(ctx, userID, itemID, " FOR UPDATE")
}

func (s *PostgresReviewStateStore) get(ctx context.Context, userID, itemID uuid.UUID, suffix string) (*domain.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + ` FROM review_states
		WHERE user_id = $1 AND item_id = $2` + suffix

	state, err := scanReviewState(s.db.QueryRowContext(ctx, query, userID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get review state",
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("review_state", "get", "query failed", MapError(err))
	}
	return state, nil
}

// Update implements store.ReviewStateStore.Update
func (s *PostgresReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `UPDATE review_states
		SET easiness = $3, interval_days = $4, repetitions = $5, next_review = $6,
			last_reviewed_at = $7, review_count = $8, updated_at = $9
		WHERE user_id = $1 AND item_id = $2`
	result, err := s.db.ExecContext(ctx, query,
		state.UserID, state.ItemID, state.Easiness, state.Interval, state.Repetitions,
		dateParam(state.NextReview), nullTime(state.LastReviewedAt), state.ReviewCount,
		state.UpdatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update review state",
			slog.String("user_id", state.UserID.String()),
			slog.String("item_id", state.ItemID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("review_state", "update", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrReviewStateNotFound)
}

// Delete implements store.ReviewStateStore.Delete
func (s *PostgresReviewStateStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM review_states WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return store.NewStoreError("review_state", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrReviewStateNotFound)
}

// ListByUser implements store.ReviewStateStore.ListByUser
func (s *PostgresReviewStateStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + ` FROM review_states WHERE user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("review_state", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var states []*domain.ReviewState
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			return nil, store.NewStoreError("review_state", "list", "scan failed", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_state", "list", "iteration failed", err)
	}
	return states, nil
}

// WithTx implements store.ReviewStateStore.WithTx
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{db: tx, logger: s.logger}
}

func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var (
		state        domain.ReviewState
		nextReview   time.Time
		lastReviewed sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := row.Scan(
		&state.UserID, &state.ItemID, &state.Easiness, &state.Interval, &state.Repetitions,
		&nextReview, &lastReviewed, &state.ReviewCount, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	// DATE arrives as midnight UTC.
	state.NextReview = civil.DateOf(nextReview.UTC())
	if lastReviewed.Valid {
		state.LastReviewedAt = lastReviewed.Time.UTC()
	}
	state.CreatedAt = createdAt.UTC()
	state.UpdatedAt = updatedAt.UTC()

	if err := domain.ValidateSchedule(state.Interval, state.Repetitions, state.Easiness, domain.MinEasiness); err != nil {
		return nil, err
	}
	return &state, nil
}

func dateParam(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

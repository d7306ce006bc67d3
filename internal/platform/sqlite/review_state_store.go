package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/store"
)

// ReviewStateStore implements store.ReviewStateStore on SQLite.
type ReviewStateStore struct {
	db     sqlx.ExtContext
	mapper *reflectx.Mapper
	logger *slog.Logger
}

// NewReviewStateStore creates a ReviewStateStore. If logger is nil, a default logger will be used.
func NewReviewStateStore(db *sqlx.DB, logger *slog.Logger) *ReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewStateStore{
		db:     db,
		mapper: db.Mapper,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

var _ store.ReviewStateStore = (*ReviewStateStore)(nil)

type reviewStateRow struct {
	UserID         string         `db:"user_id"`
	ItemID         string         `db:"item_id"`
	Easiness       float64        `db:"easiness"`
	Interval       int            `db:"interval_days"`
	Repetitions    int            `db:"repetitions"`
	NextReview     string         `db:"next_review"`
	LastReviewedAt sql.NullString `db:"last_reviewed_at"`
	ReviewCount    int            `db:"review_count"`
	CreatedAt      string         `db:"created_at"`
	UpdatedAt      string         `db:"updated_at"`
}

// toDomain decodes a row. Stored rows that break scheduling invariants
// surface as domain.ErrMalformedState.
func (r reviewStateRow) toDomain() (*domain.ReviewState, error) {
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored user id %q: %w", r.UserID, err)
	}
	itemID, err := uuid.Parse(r.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored item id %q: %w", r.ItemID, err)
	}
	nextReview, err := domain.ParseDate(r.NextReview)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	state := &domain.ReviewState{
		UserID:      userID,
		ItemID:      itemID,
		Easiness:    r.Easiness,
		Interval:    r.Interval,
		Repetitions: r.Repetitions,
		NextReview:  nextReview,
		ReviewCount: r.ReviewCount,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if r.LastReviewedAt.Valid {
		if state.LastReviewedAt, err = parseTime(r.LastReviewedAt.String); err != nil {
			return nil, err
		}
	}
	if err := domain.ValidateSchedule(state.Interval, state.Repetitions, state.Easiness, domain.MinEasiness); err != nil {
		return nil, err
	}
	return state, nil
}

const reviewStateColumns = `user_id, item_id, easiness, interval_days, repetitions, next_review,
	last_reviewed_at, review_count, created_at, updated_at`

// Create implements store.ReviewStateStore.Create
func (s *ReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		state.UserID.String(), state.ItemID.String(), state.Easiness, state.Interval, state.Repetitions,
		domain.FormatDate(state.NextReview), nullableTime(state.LastReviewedAt), state.ReviewCount,
		formatTime(state.CreatedAt), formatTime(state.UpdatedAt))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert review state",
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
func (s *ReviewStateStore) Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error) {
	var row reviewStateRow
	query := `SELECT ` + reviewStateColumns + ` FROM review_states WHERE user_id = ? AND item_id = ?`
	if err := sqlx.GetContext(ctx, s.db, &row, query, userID.String(), itemID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		return nil, store.NewStoreError("review_state", "get", "query failed", MapError(err))
	}
	return row.toDomain()
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
// SQLite has no row locks; the single pooled connection already serializes
// transactions, so this is a plain read.
func (s *ReviewStateStore) GetForUpdate(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error) {
	return s.Get(ctx, userID, itemID)
}

// Update implements store.ReviewStateStore.Update
func (s *ReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `UPDATE review_states
		SET easiness = ?, interval_days = ?, repetitions = ?, next_review = ?,
			last_reviewed_at = ?, review_count = ?, updated_at = ?
		WHERE user_id = ? AND item_id = ?`
	result, err := s.db.ExecContext(ctx, query,
		state.Easiness, state.Interval, state.Repetitions, domain.FormatDate(state.NextReview),
		nullableTime(state.LastReviewedAt), state.ReviewCount, formatTime(state.UpdatedAt),
		state.UserID.String(), state.ItemID.String())
	if err != nil {
		return store.NewStoreError("review_state", "update", "update failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrReviewStateNotFound)
}

// Delete implements store.ReviewStateStore.Delete
func (s *ReviewStateStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM review_states WHERE user_id = ? AND item_id = ?`, userID.String(), itemID.String())
	if err != nil {
		return store.NewStoreError("review_state", "delete", "delete failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrReviewStateNotFound)
}

// ListByUser implements store.ReviewStateStore.ListByUser
func (s *ReviewStateStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewState, error) {
	var rows []reviewStateRow
	query := `SELECT ` + reviewStateColumns + ` FROM review_states WHERE user_id = ?`
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, userID.String()); err != nil {
		return nil, store.NewStoreError("review_state", "list", "query failed", MapError(err))
	}

	states := make([]*domain.ReviewState, 0, len(rows))
	for _, row := range rows {
		state, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError("review_state", "list", "decode failed", err)
		}
		states = append(states, state)
	}
	return states, nil
}

// WithTx implements store.ReviewStateStore.WithTx
func (s *ReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &ReviewStateStore{db: wrapTx(tx, s.mapper), mapper: s.mapper, logger: s.logger}
}

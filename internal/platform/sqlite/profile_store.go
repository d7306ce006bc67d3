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
	"github.com/phrazzld/kioku/internal/store"
)

// ProfileStore implements store.ProfileStore on SQLite.
type ProfileStore struct {
	db     sqlx.ExtContext
	mapper *reflectx.Mapper
	logger *slog.Logger
}

// NewProfileStore creates a ProfileStore. If logger is nil, a default logger will be used.
func NewProfileStore(db *sqlx.DB, logger *slog.Logger) *ProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileStore{
		db:     db,
		mapper: db.Mapper,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

var _ store.ProfileStore = (*ProfileStore)(nil)

type profileRow struct {
	UserID          string `db:"user_id"`
	DailyLimit      int    `db:"daily_limit"`
	ReminderEnabled bool   `db:"reminder_enabled"`
	TelegramChatID  int64  `db:"telegram_chat_id"`
	Level           int    `db:"level"`
	Exp             int    `db:"exp"`
	CreatedAt       string `db:"created_at"`
	UpdatedAt       string `db:"updated_at"`
}

func (r profileRow) toDomain() (*domain.Profile, error) {
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored user id %q: %w", r.UserID, err)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		UserID:          userID,
		DailyLimit:      r.DailyLimit,
		ReminderEnabled: r.ReminderEnabled,
		TelegramChatID:  r.TelegramChatID,
		Level:           r.Level,
		Exp:             r.Exp,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

const profileColumns = `user_id, daily_limit, reminder_enabled, telegram_chat_id, level, exp, created_at, updated_at`

// Get implements store.ProfileStore.Get
func (s *ProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var row profileRow
	err := sqlx.GetContext(ctx, s.db, &row, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		return nil, store.NewStoreError("profile", "get", "query failed", MapError(err))
	}
	return row.toDomain()
}

// GetForUpdate implements store.ProfileStore.GetForUpdate
// The single connection already serializes writers, so this is a plain read.
func (s *ProfileStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.Get(ctx, userID)
}

// CreateIfMissing implements store.ProfileStore.CreateIfMissing
func (s *ProfileStore) CreateIfMissing(ctx context.Context, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, profileArgs(profile)...); err != nil {
		return store.NewStoreError("profile", "create", "insert failed", MapError(err))
	}
	return nil
}

// Upsert implements store.ProfileStore.Upsert
func (s *ProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET daily_limit = excluded.daily_limit,
			reminder_enabled = excluded.reminder_enabled,
			telegram_chat_id = excluded.telegram_chat_id,
			level = excluded.level,
			exp = excluded.exp,
			updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query, profileArgs(profile)...)
	if err != nil {
		s.logger.Error("failed to upsert profile",
			slog.String("user_id", profile.UserID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("profile", "upsert", "upsert failed", MapError(err))
	}
	return nil
}

// ListReminderEnabled implements store.ProfileStore.ListReminderEnabled
func (s *ProfileStore) ListReminderEnabled(ctx context.Context) ([]*domain.Profile, error) {
	var rows []profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE reminder_enabled = 1 ORDER BY user_id`
	if err := sqlx.SelectContext(ctx, s.db, &rows, query); err != nil {
		return nil, store.NewStoreError("profile", "list", "query failed", MapError(err))
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError("profile", "list", "decode failed", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func profileArgs(p *domain.Profile) []any {
	return []any{
		p.UserID.String(), p.DailyLimit, p.ReminderEnabled, p.TelegramChatID, p.Level, p.Exp,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	}
}

// WithTx implements store.ProfileStore.WithTx
func (s *ProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &ProfileStore{db: wrapTx(tx, s.mapper), mapper: s.mapper, logger: s.logger}
}

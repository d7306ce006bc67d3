package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

const profileColumns = `user_id, daily_limit, reminder_enabled, telegram_chat_id, level, exp, created_at, updated_at`

// Get implements store.ProfileStore.Get
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		return nil, store.NewStoreError("profile", "get", "query failed", MapError(err))
	}
	return profile, nil
}

// GetForUpdate implements store.ProfileStore.GetForUpdate
func (s *PostgresProfileStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 FOR UPDATE`

	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		return nil, store.NewStoreError("profile", "get", "locking query failed", MapError(err))
	}
	return profile, nil
}

// CreateIfMissing implements store.ProfileStore.CreateIfMissing
func (s *PostgresProfileStore) CreateIfMissing(ctx context.Context, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, profileArgs(profile)...); err != nil {
		return store.NewStoreError("profile", "create", "insert failed", MapError(err))
	}
	return nil
}

// Upsert implements store.ProfileStore.Upsert
// created_at is preserved when the row already exists.
func (s *PostgresProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET daily_limit = EXCLUDED.daily_limit,
			reminder_enabled = EXCLUDED.reminder_enabled,
			telegram_chat_id = EXCLUDED.telegram_chat_id,
			level = EXCLUDED.level,
			exp = EXCLUDED.exp,
			updated_at = EXCLUDED.updated_at`
	_, err := s.db.ExecContext(ctx, query, profileArgs(profile)...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert profile",
			slog.String("user_id", profile.UserID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("profile", "upsert", "upsert failed", MapError(err))
	}
	return nil
}

// ListReminderEnabled implements store.ProfileStore.ListReminderEnabled
func (s *PostgresProfileStore) ListReminderEnabled(ctx context.Context) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE reminder_enabled ORDER BY user_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.NewStoreError("profile", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var profiles []*domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, store.NewStoreError("profile", "list", "scan failed", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("profile", "list", "iteration failed", err)
	}
	return profiles, nil
}

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{db: tx, logger: s.logger}
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&p.UserID, &p.DailyLimit, &p.ReminderEnabled, &p.TelegramChatID, &p.Level, &p.Exp,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}

func profileArgs(p *domain.Profile) []any {
	return []any{
		p.UserID, p.DailyLimit, p.ReminderEnabled, p.TelegramChatID, p.Level, p.Exp,
		p.CreatedAt, p.UpdatedAt,
	}
}

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

// QuoteStore implements store.QuoteStore on SQLite.
type QuoteStore struct {
	db     sqlx.ExtContext
	mapper *reflectx.Mapper
	logger *slog.Logger
}

// NewQuoteStore creates a QuoteStore. If logger is nil, a default logger will be used.
func NewQuoteStore(db *sqlx.DB, logger *slog.Logger) *QuoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteStore{
		db:     db,
		mapper: db.Mapper,
		logger: logger.With(slog.String("component", "quote_store")),
	}
}

var _ store.QuoteStore = (*QuoteStore)(nil)

type quoteRow struct {
	ID        string `db:"id"`
	Sentence  string `db:"sentence"`
	Kana      string `db:"kana"`
	Meaning   string `db:"meaning"`
	Origin    string `db:"origin"`
	Category  string `db:"category"`
	CreatedAt string `db:"created_at"`
}

func (r quoteRow) toDomain() (*domain.Quote, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored quote id %q: %w", r.ID, err)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.Quote{
		ID:        id,
		Sentence:  r.Sentence,
		Kana:      r.Kana,
		Meaning:   r.Meaning,
		Origin:    r.Origin,
		Category:  r.Category,
		CreatedAt: createdAt,
	}, nil
}

const quoteColumns = `id, sentence, kana, meaning, origin, category, created_at`

// Create implements store.QuoteStore.Create
func (s *QuoteStore) Create(ctx context.Context, quote *domain.Quote) error {
	return s.CreateMultiple(ctx, []*domain.Quote{quote})
}

// CreateMultiple implements store.QuoteStore.CreateMultiple
func (s *QuoteStore) CreateMultiple(ctx context.Context, quotes []*domain.Quote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, q := range quotes {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	query := `INSERT INTO quotes (` + quoteColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, q := range quotes {
		_, err := s.db.ExecContext(ctx, query,
			q.ID.String(), q.Sentence, q.Kana, q.Meaning, q.Origin, q.Category, formatTime(q.CreatedAt))
		if err != nil {
			log.Error("failed to insert quote",
				slog.String("quote_id", q.ID.String()),
				slog.String("error", err.Error()))
			return store.NewStoreError("quote", "create", "insert failed", MapError(err))
		}
	}
	return nil
}

// GetByID implements store.QuoteStore.GetByID
func (s *QuoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var row quoteRow
	err := sqlx.GetContext(ctx, s.db, &row, `SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuoteNotFound
		}
		return nil, store.NewStoreError("quote", "get", "query failed", MapError(err))
	}
	return row.toDomain()
}

// List implements store.QuoteStore.List
func (s *QuoteStore) List(ctx context.Context, category string) ([]*domain.Quote, error) {
	var rows []quoteRow
	query := `SELECT ` + quoteColumns + ` FROM quotes
		WHERE (? = '' OR category = ?)
		ORDER BY created_at, id`
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, category, category); err != nil {
		return nil, store.NewStoreError("quote", "list", "query failed", MapError(err))
	}

	quotes := make([]*domain.Quote, 0, len(rows))
	for _, row := range rows {
		q, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError("quote", "list", "decode failed", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// Delete implements store.QuoteStore.Delete
func (s *QuoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id.String())
	if err != nil {
		return store.NewStoreError("quote", "delete", "delete failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrQuoteNotFound)
}

// WithTx implements store.QuoteStore.WithTx
func (s *QuoteStore) WithTx(tx *sql.Tx) store.QuoteStore {
	return &QuoteStore{db: wrapTx(tx, s.mapper), mapper: s.mapper, logger: s.logger}
}

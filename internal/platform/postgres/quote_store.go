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

// PostgresQuoteStore implements the store.QuoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuoteStore creates a new PostgreSQL implementation of the QuoteStore interface.
func NewPostgresQuoteStore(db store.DBTX, logger *slog.Logger) *PostgresQuoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "quote_store")),
	}
}

// Ensure PostgresQuoteStore implements store.QuoteStore interface
var _ store.QuoteStore = (*PostgresQuoteStore)(nil)

const quoteColumns = `id, sentence, kana, meaning, origin, category, created_at`

// Create implements store.QuoteStore.Create
func (s *PostgresQuoteStore) Create(ctx context.Context, quote *domain.Quote) error {
	return s.CreateMultiple(ctx, []*domain.Quote{quote})
}

// CreateMultiple implements store.QuoteStore.CreateMultiple
func (s *PostgresQuoteStore) CreateMultiple(ctx context.Context, quotes []*domain.Quote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, q := range quotes {
		if err := q.Validate(); err != nil {
			log.Warn("quote validation failed",
				slog.String("quote_id", q.ID.String()),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	query := `INSERT INTO quotes (` + quoteColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, q := range quotes {
		_, err := s.db.ExecContext(ctx, query,
			q.ID, q.Sentence, q.Kana, q.Meaning, q.Origin, q.Category, q.CreatedAt)
		if err != nil {
			log.Error("failed to insert quote",
				slog.String("quote_id", q.ID.String()),
				slog.String("error", err.Error()))
			return store.NewStoreError("quote", "create", "insert failed", MapError(err))
		}
	}

	log.Debug("quotes created", slog.Int("count", len(quotes)))
	return nil
}

// GetByID implements store.QuoteStore.GetByID
func (s *PostgresQuoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`

	q, err := scanQuote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuoteNotFound
		}
		return nil, store.NewStoreError("quote", "get", "query failed", MapError(err))
	}
	return q, nil
}

// List implements store.QuoteStore.List
func (s *PostgresQuoteStore) List(ctx context.Context, category string) ([]*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, store.NewStoreError("quote", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, store.NewStoreError("quote", "list", "scan failed", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("quote", "list", "iteration failed", err)
	}
	return quotes, nil
}

// Delete implements store.QuoteStore.Delete
func (s *PostgresQuoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("quote", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrQuoteNotFound)
}

// WithTx implements store.QuoteStore.WithTx
func (s *PostgresQuoteStore) WithTx(tx *sql.Tx) store.QuoteStore {
	return &PostgresQuoteStore{db: tx, logger: s.logger}
}

func scanQuote(row rowScanner) (*domain.Quote, error) {
	var q domain.Quote
	var createdAt time.Time
	if err := row.Scan(
		&q.ID, &q.Sentence, &q.Kana, &q.Meaning, &q.Origin, &q.Category, &createdAt,
	); err != nil {
		return nil, err
	}
	q.CreatedAt = createdAt.UTC()
	return &q, nil
}

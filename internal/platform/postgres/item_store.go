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

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the ItemStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

const itemColumns = `id, term, reading, meaning, category, created_at, updated_at`

// Create implements store.ItemStore.Create
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	return s.CreateMultiple(ctx, []*domain.Item{item})
}

// CreateMultiple implements store.ItemStore.CreateMultiple
// Every item is validated before any row is written.
func (s *PostgresItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("item validation failed",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	query := `INSERT INTO items (` + itemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, item := range items {
		_, err := s.db.ExecContext(ctx, query,
			item.ID, item.Term, item.Reading, item.Meaning, item.Category,
			item.CreatedAt, item.UpdatedAt)
		if err != nil {
			log.Error("failed to insert item",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()))
			return store.NewStoreError("item", "create", "insert failed", MapError(err))
		}
	}

	log.Debug("items created", slog.Int("count", len(items)))
	return nil
}

// GetByID implements store.ItemStore.GetByID
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "get", "query failed", MapError(err))
	}
	return item, nil
}

// List implements store.ItemStore.List
func (s *PostgresItemStore) List(ctx context.Context, category string) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, store.NewStoreError("item", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, store.NewStoreError("item", "list", "scan failed", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("item", "list", "iteration failed", err)
	}
	return items, nil
}

// Delete implements store.ItemStore.Delete
func (s *PostgresItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("item", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrItemNotFound)
}

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&item.ID, &item.Term, &item.Reading, &item.Meaning, &item.Category,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	item.CreatedAt = createdAt.UTC()
	item.UpdatedAt = updatedAt.UTC()
	return &item, nil
}

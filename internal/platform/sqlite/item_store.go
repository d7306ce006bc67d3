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

// ItemStore implements store.ItemStore on SQLite.
type ItemStore struct {
	db     sqlx.ExtContext
	mapper *reflectx.Mapper
	logger *slog.Logger
}

// NewItemStore creates an ItemStore. If logger is nil, a default logger will be used.
func NewItemStore(db *sqlx.DB, logger *slog.Logger) *ItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemStore{
		db:     db,
		mapper: db.Mapper,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

var _ store.ItemStore = (*ItemStore)(nil)

type itemRow struct {
	ID        string `db:"id"`
	Term      string `db:"term"`
	Reading   string `db:"reading"`
	Meaning   string `db:"meaning"`
	Category  string `db:"category"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r itemRow) toDomain() (*domain.Item, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored item id %q: %w", r.ID, err)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.Item{
		ID:        id,
		Term:      r.Term,
		Reading:   r.Reading,
		Meaning:   r.Meaning,
		Category:  r.Category,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

const itemColumns = `id, term, reading, meaning, category, created_at, updated_at`

// Create implements store.ItemStore.Create
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	return s.CreateMultiple(ctx, []*domain.Item{item})
}

// CreateMultiple implements store.ItemStore.CreateMultiple
func (s *ItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	query := `INSERT INTO items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, item := range items {
		_, err := s.db.ExecContext(ctx, query,
			item.ID.String(), item.Term, item.Reading, item.Meaning, item.Category,
			formatTime(item.CreatedAt), formatTime(item.UpdatedAt))
		if err != nil {
			log.Error("failed to insert item",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()))
			return store.NewStoreError("item", "create", "insert failed", MapError(err))
		}
	}
	return nil
}

// GetByID implements store.ItemStore.GetByID
func (s *ItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var row itemRow
	err := sqlx.GetContext(ctx, s.db, &row, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		return nil, store.NewStoreError("item", "get", "query failed", MapError(err))
	}
	return row.toDomain()
}

// List implements store.ItemStore.List
func (s *ItemStore) List(ctx context.Context, category string) ([]*domain.Item, error) {
	var rows []itemRow
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE (? = '' OR category = ?)
		ORDER BY created_at, id`
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, category, category); err != nil {
		return nil, store.NewStoreError("item", "list", "query failed", MapError(err))
	}

	items := make([]*domain.Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError("item", "list", "decode failed", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete implements store.ItemStore.Delete
func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id.String())
	if err != nil {
		return store.NewStoreError("item", "delete", "delete failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrItemNotFound)
}

// WithTx implements store.ItemStore.WithTx
func (s *ItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &ItemStore{db: wrapTx(tx, s.mapper), mapper: s.mapper, logger: s.logger}
}

// wrapTx lets sqlx scan helpers run on a transaction started through database/sql.
// Queries use ? placeholders, so the unset driver name never triggers a rebind.
func wrapTx(tx *sql.Tx, mapper *reflectx.Mapper) *sqlx.Tx {
	return &sqlx.Tx{Tx: tx, Mapper: mapper}
}

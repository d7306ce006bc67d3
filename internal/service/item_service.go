package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/store"
)

// CreateItemInput carries the user-supplied fields of a new catalog item.
type CreateItemInput struct {
	Term     string
	Reading  string
	Meaning  string
	Category string
}

// ItemService manages the shared vocabulary catalog.
type ItemService interface {
	// CreateItem validates and stores a single item.
	// Validation failures are *domain.ValidationError wrapping domain.ErrValidation.
	CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error)

	// ImportItems stores items, and optionally review states for them, atomically.
	// Either everything is written or nothing is.
	ImportItems(ctx context.Context, items []*domain.Item, states []*domain.ReviewState) error

	// GetItem returns a single item or ErrItemNotFound.
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// ListItems returns the catalog, optionally filtered by category.
	ListItems(ctx context.Context, category string) ([]*domain.Item, error)

	// DeleteItem removes an item and every user's progress on it.
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type itemServiceImpl struct {
	tx     store.Transactor
	items  store.ItemStore
	states store.ReviewStateStore
	logger *slog.Logger
}

var _ ItemService = (*itemServiceImpl)(nil)

// NewItemService creates a new ItemService.
func NewItemService(
	tx store.Transactor,
	items store.ItemStore,
	states store.ReviewStateStore,
	logger *slog.Logger,
) ItemService {
	if tx == nil || items == nil || states == nil {
		panic("item service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &itemServiceImpl{
		tx:     tx,
		items:  items,
		states: states,
		logger: logger.With(slog.String("component", "item_service")),
	}
}

// CreateItem implements ItemService.CreateItem.
func (s *itemServiceImpl) CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewItem(input.Term, input.Reading, input.Meaning, input.Category)
	if err != nil {
		return nil, itemValidationError(err)
	}

	if err := s.items.Create(ctx, item); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateItem
		}
		log.Error("failed to create item", slog.String("error", err.Error()))
		return nil, NewServiceError("item", "create", "failed to store item", err)
	}

	log.Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("category", item.Category))
	return item, nil
}

// ImportItems implements ItemService.ImportItems.
func (s *itemServiceImpl) ImportItems(
	ctx context.Context,
	items []*domain.Item,
	states []*domain.ReviewState,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return itemValidationError(err)
		}
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.items.WithTx(tx).CreateMultiple(ctx, items); err != nil {
			return fmt.Errorf("failed to create items: %w", err)
		}
		txStates := s.states.WithTx(tx)
		for _, st := range states {
			if err := txStates.Create(ctx, st); err != nil {
				return fmt.Errorf("failed to create review state for item %s: %w", st.ItemID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("%w: %v", ErrDuplicateItem, err)
		}
		log.Error("item import failed", slog.String("error", err.Error()))
		return NewServiceError("item", "import", "failed to import items", err)
	}

	log.Info("items imported",
		slog.Int("items", len(items)),
		slog.Int("review_states", len(states)))
	return nil
}

// GetItem implements ItemService.GetItem.
func (s *itemServiceImpl) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, NewServiceError("item", "get", "failed to load item", err)
	}
	return item, nil
}

// ListItems implements ItemService.ListItems.
func (s *itemServiceImpl) ListItems(ctx context.Context, category string) ([]*domain.Item, error) {
	items, err := s.items.List(ctx, category)
	if err != nil {
		return nil, NewServiceError("item", "list", "failed to list items", err)
	}
	return items, nil
}

// DeleteItem implements ItemService.DeleteItem.
func (s *itemServiceImpl) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return NewServiceError("item", "delete", "failed to delete item", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("item deleted", slog.String("item_id", id.String()))
	return nil
}

func itemValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrItemTermEmpty):
		return domain.NewValidationError("term", "is required", err)
	case errors.Is(err, domain.ErrItemMeaningEmpty):
		return domain.NewValidationError("meaning", "is required", err)
	case errors.Is(err, domain.ErrItemIDEmpty):
		return domain.NewValidationError("id", "is required", err)
	default:
		return domain.NewValidationError("item", err.Error(), err)
	}
}

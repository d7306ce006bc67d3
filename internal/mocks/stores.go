package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockItemStore is a testify mock of store.ItemStore. WithTx returns the receiver.
type MockItemStore struct {
	mock.Mock
}

var _ store.ItemStore = (*MockItemStore)(nil)

func (m *MockItemStore) Create(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemStore) List(ctx context.Context, category string) ([]*domain.Item, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockItemStore) WithTx(*sql.Tx) store.ItemStore { return m }

// MockReviewStateStore is a testify mock of store.ReviewStateStore. WithTx returns the receiver.
type MockReviewStateStore struct {
	mock.Mock
}

var _ store.ReviewStateStore = (*MockReviewStateStore)(nil)

func (m *MockReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	return m.Called(ctx, state).Error(0)
}

func (m *MockReviewStateStore) Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewState), args.Error(1)
}

func (m *MockReviewStateStore) GetForUpdate(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewState), args.Error(1)
}

func (m *MockReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	return m.Called(ctx, state).Error(0)
}

func (m *MockReviewStateStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockReviewStateStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewState), args.Error(1)
}

func (m *MockReviewStateStore) WithTx(*sql.Tx) store.ReviewStateStore { return m }

// MockProfileStore is a testify mock of store.ProfileStore. WithTx returns the receiver.
type MockProfileStore struct {
	mock.Mock
}

var _ store.ProfileStore = (*MockProfileStore)(nil)

func (m *MockProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) CreateIfMissing(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileStore) ListReminderEnabled(ctx context.Context) ([]*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) WithTx(*sql.Tx) store.ProfileStore { return m }

// MockQuoteStore is a testify mock of store.QuoteStore. WithTx returns the receiver.
type MockQuoteStore struct {
	mock.Mock
}

var _ store.QuoteStore = (*MockQuoteStore)(nil)

func (m *MockQuoteStore) Create(ctx context.Context, quote *domain.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

func (m *MockQuoteStore) CreateMultiple(ctx context.Context, quotes []*domain.Quote) error {
	return m.Called(ctx, quotes).Error(0)
}

func (m *MockQuoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteStore) List(ctx context.Context, category string) ([]*domain.Quote, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quote), args.Error(1)
}

func (m *MockQuoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuoteStore) WithTx(*sql.Tx) store.QuoteStore { return m }

// InlineTransactor runs the function directly with a nil *sql.Tx and counts calls.
// Pair it with mocks whose WithTx ignores the transaction.
type InlineTransactor struct {
	Calls int
}

var _ store.Transactor = (*InlineTransactor)(nil)

// RunInTransaction implements store.Transactor.
func (t *InlineTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	t.Calls++
	return fn(ctx, nil)
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/service"
	"github.com/phrazzld/kioku/internal/service/auth"
	"github.com/phrazzld/kioku/internal/service/review"
)

// MockReviewService is a function-field mock of review.Service.
// Unset functions return zero values.
type MockReviewService struct {
	GetDueItemsFn func(ctx context.Context, userID uuid.UUID) ([]domain.DueItem, review.DueSummary, error)
	GetNextItemFn func(ctx context.Context, userID uuid.UUID) (*domain.DueItem, error)
	SubmitGradeFn func(ctx context.Context, userID, itemID uuid.UUID, grade domain.Grade) (*domain.ReviewState, error)
	PostponeFn    func(ctx context.Context, userID, itemID uuid.UUID, days int) (*domain.ReviewState, error)
}

var _ review.Service = (*MockReviewService)(nil)

func (m *MockReviewService) GetDueItems(ctx context.Context, userID uuid.UUID) ([]domain.DueItem, review.DueSummary, error) {
	if m.GetDueItemsFn != nil {
		return m.GetDueItemsFn(ctx, userID)
	}
	return nil, review.DueSummary{}, nil
}

func (m *MockReviewService) GetNextItem(ctx context.Context, userID uuid.UUID) (*domain.DueItem, error) {
	if m.GetNextItemFn != nil {
		return m.GetNextItemFn(ctx, userID)
	}
	return nil, review.ErrNoItemsDue
}

func (m *MockReviewService) SubmitGrade(ctx context.Context, userID, itemID uuid.UUID, grade domain.Grade) (*domain.ReviewState, error) {
	if m.SubmitGradeFn != nil {
		return m.SubmitGradeFn(ctx, userID, itemID, grade)
	}
	return nil, nil
}

func (m *MockReviewService) Postpone(ctx context.Context, userID, itemID uuid.UUID, days int) (*domain.ReviewState, error) {
	if m.PostponeFn != nil {
		return m.PostponeFn(ctx, userID, itemID, days)
	}
	return nil, nil
}

// MockItemService is a function-field mock of service.ItemService.
type MockItemService struct {
	CreateItemFn  func(ctx context.Context, input service.CreateItemInput) (*domain.Item, error)
	ImportItemsFn func(ctx context.Context, items []*domain.Item, states []*domain.ReviewState) error
	GetItemFn     func(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListItemsFn   func(ctx context.Context, category string) ([]*domain.Item, error)
	DeleteItemFn  func(ctx context.Context, id uuid.UUID) error
}

var _ service.ItemService = (*MockItemService)(nil)

func (m *MockItemService) CreateItem(ctx context.Context, input service.CreateItemInput) (*domain.Item, error) {
	if m.CreateItemFn != nil {
		return m.CreateItemFn(ctx, input)
	}
	return domain.NewItem(input.Term, input.Reading, input.Meaning, input.Category)
}

func (m *MockItemService) ImportItems(ctx context.Context, items []*domain.Item, states []*domain.ReviewState) error {
	if m.ImportItemsFn != nil {
		return m.ImportItemsFn(ctx, items, states)
	}
	return nil
}

func (m *MockItemService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, id)
	}
	return nil, service.ErrItemNotFound
}

func (m *MockItemService) ListItems(ctx context.Context, category string) ([]*domain.Item, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, category)
	}
	return nil, nil
}

func (m *MockItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, id)
	}
	return nil
}

// MockProfileService is a function-field mock of service.ProfileService.
type MockProfileService struct {
	GetProfileFn    func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateProfileFn func(ctx context.Context, userID uuid.UUID, input service.UpdateProfileInput) (*domain.Profile, error)
}

var _ service.ProfileService = (*MockProfileService)(nil)

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, userID)
	}
	return domain.NewProfile(userID, 0)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input service.UpdateProfileInput) (*domain.Profile, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, userID, input)
	}
	return domain.NewProfile(userID, 0)
}

// MockPracticeService is a function-field mock of service.PracticeService.
// Unset functions return zero values.
type MockPracticeService struct {
	CreateQuoteFn  func(ctx context.Context, input service.CreateQuoteInput) (*domain.Quote, error)
	ImportQuotesFn func(ctx context.Context, quotes []*domain.Quote) error
	GetQuoteFn     func(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	ListQuotesFn   func(ctx context.Context, category string) ([]*domain.Quote, error)
	DeleteQuoteFn  func(ctx context.Context, id uuid.UUID) error
	NextQuoteFn    func(ctx context.Context, category string) (*domain.Quote, error)
	CheckTypingFn  func(ctx context.Context, userID, quoteID uuid.UUID, input string) (*service.TypingResult, error)
}

var _ service.PracticeService = (*MockPracticeService)(nil)

func (m *MockPracticeService) CreateQuote(ctx context.Context, input service.CreateQuoteInput) (*domain.Quote, error) {
	if m.CreateQuoteFn != nil {
		return m.CreateQuoteFn(ctx, input)
	}
	return nil, nil
}

func (m *MockPracticeService) ImportQuotes(ctx context.Context, quotes []*domain.Quote) error {
	if m.ImportQuotesFn != nil {
		return m.ImportQuotesFn(ctx, quotes)
	}
	return nil
}

func (m *MockPracticeService) GetQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	if m.GetQuoteFn != nil {
		return m.GetQuoteFn(ctx, id)
	}
	return nil, nil
}

func (m *MockPracticeService) ListQuotes(ctx context.Context, category string) ([]*domain.Quote, error) {
	if m.ListQuotesFn != nil {
		return m.ListQuotesFn(ctx, category)
	}
	return nil, nil
}

func (m *MockPracticeService) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	if m.DeleteQuoteFn != nil {
		return m.DeleteQuoteFn(ctx, id)
	}
	return nil
}

func (m *MockPracticeService) NextQuote(ctx context.Context, category string) (*domain.Quote, error) {
	if m.NextQuoteFn != nil {
		return m.NextQuoteFn(ctx, category)
	}
	return nil, nil
}

func (m *MockPracticeService) CheckTyping(ctx context.Context, userID, quoteID uuid.UUID, input string) (*service.TypingResult, error) {
	if m.CheckTypingFn != nil {
		return m.CheckTypingFn(ctx, userID, quoteID, input)
	}
	return &service.TypingResult{}, nil
}

// MockJWTService is a function-field mock of auth.JWTService.
// Without ValidateTokenFn it accepts any token as UserID.
type MockJWTService struct {
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)
	UserID          uuid.UUID
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return &auth.Claims{UserID: m.UserID}, nil
}

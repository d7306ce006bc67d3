package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/service"
	"github.com/phrazzld/kioku/internal/service/review"
)

// ItemResponse is the client view of a catalog item.
type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Term      string    `json:"term"`
	Reading   string    `json:"reading,omitempty"`
	Meaning   string    `json:"meaning"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewStateResponse is the client view of a user's progress on an item.
// Dates are YYYY-MM-DD.
type ReviewStateResponse struct {
	ItemID         uuid.UUID  `json:"item_id"`
	Easiness       float64    `json:"easiness"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	NextReview     string     `json:"next_review"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	ReviewCount    int        `json:"review_count"`
}

// DueItemResponse pairs an item with the caller's state for it.
type DueItemResponse struct {
	Item  ItemResponse        `json:"item"`
	State ReviewStateResponse `json:"state"`
}

// DueItemsResponse is returned by GET /api/reviews/due.
type DueItemsResponse struct {
	Items []DueItemResponse `json:"items"`
	review.DueSummary
}

// ProfileResponse is the client view of review preferences and practice progress.
type ProfileResponse struct {
	DailyLimit      int   `json:"daily_limit"`
	ReminderEnabled bool  `json:"reminder_enabled"`
	TelegramChatID  int64 `json:"telegram_chat_id,omitempty"`
	Level           int   `json:"level"`
	Exp             int   `json:"exp"`
	ExpToNext       int   `json:"exp_to_next"`
}

// QuoteResponse is the client view of a practice quote.
type QuoteResponse struct {
	ID        uuid.UUID `json:"id"`
	Sentence  string    `json:"sentence"`
	Kana      string    `json:"kana"`
	Meaning   string    `json:"meaning,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// TypingResultResponse is returned by POST /api/practice/{id}/check.
type TypingResultResponse struct {
	Correct    bool `json:"correct"`
	ExpAwarded int  `json:"exp_awarded"`
	LeveledUp  bool `json:"leveled_up"`
	Level      int  `json:"level"`
	Exp        int  `json:"exp"`
	ExpToNext  int  `json:"exp_to_next"`
}

// GradeRequest carries either a numeric grade or a three-button answer.
type GradeRequest struct {
	Grade  *int   `json:"grade,omitempty"`
	Answer string `json:"answer,omitempty"`
}

// Validate requires exactly one of grade and answer.
func (r *GradeRequest) Validate() error {
	switch {
	case r.Grade == nil && r.Answer == "":
		return domain.NewValidationError("grade", "or answer is required", nil)
	case r.Grade != nil && r.Answer != "":
		return domain.NewValidationError("grade", "and answer are mutually exclusive", nil)
	}
	return nil
}

// Resolve returns the SM-2 grade the request stands for.
func (r *GradeRequest) Resolve() (domain.Grade, error) {
	if r.Grade != nil {
		return domain.Grade(*r.Grade), nil
	}
	return domain.ParseAnswerButton(r.Answer)
}

// PostponeRequest defines the payload for postponing an item.
type PostponeRequest struct {
	Days int `json:"days" validate:"required"`
}

// CreateItemRequest defines the payload for adding a catalog item.
type CreateItemRequest struct {
	Term     string `json:"term"               validate:"required,max=200"`
	Reading  string `json:"reading,omitempty"  validate:"max=200"`
	Meaning  string `json:"meaning"            validate:"required,max=500"`
	Category string `json:"category,omitempty" validate:"max=64"`
}

// CreateQuoteRequest defines the payload for adding a practice quote.
type CreateQuoteRequest struct {
	Sentence string `json:"sentence"           validate:"required,max=500"`
	Kana     string `json:"kana"               validate:"required,max=1000"`
	Meaning  string `json:"meaning,omitempty"  validate:"max=1000"`
	Origin   string `json:"origin,omitempty"   validate:"max=200"`
	Category string `json:"category,omitempty" validate:"max=64"`
}

// CheckTypingRequest carries one typing attempt.
type CheckTypingRequest struct {
	Input string `json:"input" validate:"required,max=1000"`
}

// UpdateProfileRequest defines the payload for PUT /api/profile.
// Omitted fields keep their current value.
type UpdateProfileRequest struct {
	DailyLimit      *int   `json:"daily_limit,omitempty"`
	ReminderEnabled *bool  `json:"reminder_enabled,omitempty"`
	TelegramChatID  *int64 `json:"telegram_chat_id,omitempty"`
}

func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Term:      item.Term,
		Reading:   item.Reading,
		Meaning:   item.Meaning,
		Category:  item.Category,
		CreatedAt: item.CreatedAt,
	}
}

func stateToResponse(state *domain.ReviewState) ReviewStateResponse {
	resp := ReviewStateResponse{
		ItemID:      state.ItemID,
		Easiness:    state.Easiness,
		Interval:    state.Interval,
		Repetitions: state.Repetitions,
		NextReview:  domain.FormatDate(state.NextReview),
		ReviewCount: state.ReviewCount,
	}
	if !state.LastReviewedAt.IsZero() {
		t := state.LastReviewedAt
		resp.LastReviewedAt = &t
	}
	return resp
}

func dueItemToResponse(d domain.DueItem) DueItemResponse {
	return DueItemResponse{
		Item:  itemToResponse(d.Item),
		State: stateToResponse(d.State),
	}
}

func profileToResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		DailyLimit:      p.DailyLimit,
		ReminderEnabled: p.ReminderEnabled,
		TelegramChatID:  p.TelegramChatID,
		Level:           p.Level,
		Exp:             p.Exp,
		ExpToNext:       p.ExpToNextLevel(),
	}
}

func quoteToResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Sentence:  q.Sentence,
		Kana:      q.Kana,
		Meaning:   q.Meaning,
		Origin:    q.Origin,
		Category:  q.Category,
		CreatedAt: q.CreatedAt,
	}
}

func typingResultToResponse(r *service.TypingResult) TypingResultResponse {
	return TypingResultResponse{
		Correct:    r.Correct,
		ExpAwarded: r.ExpAwarded,
		LeveledUp:  r.LeveledUp,
		Level:      r.Level,
		Exp:        r.Exp,
		ExpToNext:  r.ExpToNext,
	}
}

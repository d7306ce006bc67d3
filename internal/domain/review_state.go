package domain

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Scheduling defaults for a newly tracked item.
const (
	// InitialEasiness is the ease factor every item starts with.
	InitialEasiness = 2.5

	// MinEasiness is the hard floor of the ease factor.
	MinEasiness = 1.3
)

// Common validation errors for ReviewState
var (
	ErrEmptyStateUserID = errors.New("review state user ID cannot be empty")
	ErrEmptyStateItemID = errors.New("review state item ID cannot be empty")
)

// ReviewState is one user's spaced repetition progress on one catalog item.
// The four scheduling fields (Easiness, Interval, Repetitions, NextReview)
// always change together as a unit.
type ReviewState struct {
	UserID         uuid.UUID  `json:"user_id"`
	ItemID         uuid.UUID  `json:"item_id"`
	Easiness       float64    `json:"easiness"`
	Interval       int        `json:"interval"`    // days until the next review
	Repetitions    int        `json:"repetitions"` // consecutive successful reviews
	NextReview     civil.Date `json:"next_review"` // due on or after this date
	LastReviewedAt time.Time  `json:"last_reviewed_at"`
	ReviewCount    int        `json:"review_count"` // total grading events
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewReviewState creates default progress for a user and item.
// The state is due on today so new items are reviewed immediately.
func NewReviewState(userID, itemID uuid.UUID, today civil.Date) (*ReviewState, error) {
	now := time.Now().UTC()
	state := &ReviewState{
		UserID:      userID,
		ItemID:      itemID,
		Easiness:    InitialEasiness,
		Interval:    0,
		Repetitions: 0,
		NextReview:  today,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks identity fields and the scheduling invariants.
// Invariant violations wrap ErrMalformedState.
func (s *ReviewState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}
	if s.ItemID == uuid.Nil {
		return ErrEmptyStateItemID
	}
	return ValidateSchedule(s.Interval, s.Repetitions, s.Easiness, MinEasiness)
}

// ValidateSchedule checks the scheduling invariants shared by stored state
// and algorithm input. floor is the minimum allowed ease factor.
func ValidateSchedule(interval, repetitions int, easiness, floor float64) error {
	switch {
	case interval < 0:
		return fmt.Errorf("%w: interval %d is negative", ErrMalformedState, interval)
	case repetitions < 0:
		return fmt.Errorf("%w: repetitions %d is negative", ErrMalformedState, repetitions)
	case easiness < floor:
		return fmt.Errorf("%w: easiness %.4f is below %.2f", ErrMalformedState, easiness, floor)
	case repetitions > 0 && interval < 1:
		return fmt.Errorf("%w: interval must be at least 1 after %d repetitions",
			ErrMalformedState, repetitions)
	}
	return nil
}

// IsDue reports whether the state is due on today.
func (s *ReviewState) IsDue(today civil.Date) bool {
	return !s.NextReview.After(today)
}

// NextReviewDate implements srs.Schedulable.
func (s *ReviewState) NextReviewDate() civil.Date {
	return s.NextReview
}

// Reviewed reports whether the state has been graded at least once.
func (s *ReviewState) Reviewed() bool {
	return !s.LastReviewedAt.IsZero()
}

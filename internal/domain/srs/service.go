package srs

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/phrazzld/kioku/internal/domain"
)

// Common errors
var (
	ErrNilState    = errors.New("review state cannot be nil")
	ErrInvalidDays = errors.New("postpone days out of range")
)

// Service defines the interface for SRS algorithm operations on stored
// review state records.
type Service interface {
	// CalculateNextReview returns a new ReviewState with the grade applied.
	// The input record is never modified.
	CalculateNextReview(
		state *domain.ReviewState,
		grade domain.Grade,
		today civil.Date,
		now time.Time,
	) (*domain.ReviewState, error)

	// PostponeReview pushes the next review date forward by days.
	// days must be in [1, Params.MaxInterval] and the new date must not pass
	// domain.MaxDate; otherwise ErrInvalidDays.
	PostponeReview(
		state *domain.ReviewState,
		days int,
		now time.Time,
	) (*domain.ReviewState, error)

	// Params exposes the parameters the service schedules with.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
// Returns an error if the parameters are invalid.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// CalculateNextReview implements Service.
func (s *defaultService) CalculateNextReview(
	state *domain.ReviewState,
	grade domain.Grade,
	today civil.Date,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	result, err := Update(Input{
		Quality:     grade,
		Interval:    state.Interval,
		Repetitions: state.Repetitions,
		Easiness:    state.Easiness,
	}, today, s.params)
	if err != nil {
		return nil, err
	}

	next := *state
	next.Easiness = result.Easiness
	next.Interval = result.Interval
	next.Repetitions = result.Repetitions
	next.NextReview = result.NextReview
	next.ReviewCount++
	next.LastReviewedAt = now
	next.UpdatedAt = now

	return &next, nil
}

// PostponeReview implements Service.
func (s *defaultService) PostponeReview(
	state *domain.ReviewState,
	days int,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if days < 1 || days > s.params.MaxInterval {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidDays, days, s.params.MaxInterval)
	}
	pushed := state.NextReview.AddDays(days)
	if pushed.After(domain.MaxDate) {
		return nil, fmt.Errorf("%w: next review would pass %s", ErrInvalidDays, domain.MaxDate)
	}

	next := *state
	next.NextReview = pushed
	next.UpdatedAt = now

	return &next, nil
}

// Params implements Service.
func (s *defaultService) Params() Params {
	return *s.params
}

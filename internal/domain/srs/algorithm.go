package srs

import (
	"cloud.google.com/go/civil"
	"github.com/phrazzld/kioku/internal/domain"
)

// Input is the scheduling state of one item plus the grade being applied.
type Input struct {
	Quality     domain.Grade
	Interval    int
	Repetitions int
	Easiness    float64
}

// Result is the complete next scheduling state. All four fields are meant to
// replace the stored ones together.
type Result struct {
	NextReview  civil.Date
	Interval    int
	Repetitions int
	Easiness    float64
}

// Update applies one grading event to a scheduling state.
//
// The grade must be in [0,5] and the state must satisfy the ReviewState
// invariants; violations return domain.ErrInvalidGrade or
// domain.ErrMalformedState. No other errors are possible.
func Update(in Input, today civil.Date, params *Params) (Result, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := in.Quality.Validate(); err != nil {
		return Result{}, err
	}
	if err := domain.ValidateSchedule(in.Interval, in.Repetitions, in.Easiness, params.MinEasiness); err != nil {
		return Result{}, err
	}

	easiness := calculateNewEasiness(in.Easiness, in.Quality, params)
	interval, repetitions := calculateNewInterval(in.Interval, in.Repetitions, easiness, in.Quality, params)

	return Result{
		NextReview:  calculateNextReviewDate(today, interval),
		Interval:    interval,
		Repetitions: repetitions,
		Easiness:    easiness,
	}, nil
}

// calculateNewEasiness applies the SM-2 ease factor update:
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// A perfect grade adds 0.1, a 4 leaves it unchanged and lower grades subtract
// quadratically. The result never drops below params.MinEasiness.
func calculateNewEasiness(current float64, quality domain.Grade, params *Params) float64 {
	miss := float64(domain.MaxGrade - quality)
	newEF := current + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEasiness {
		newEF = params.MinEasiness
	}

	return newEF
}

// calculateNewInterval returns the next interval in days and the new
// consecutive-success count.
//
// A failure resets to the failure interval with zero repetitions regardless
// of history. Successes use the fixed first and second intervals, then grow
// by the new ease factor. Growth truncates toward zero; it is not rounded,
// and it stops at params.MaxInterval.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easiness float64,
	quality domain.Grade,
	params *Params,
) (int, int) {
	if !quality.Passed() {
		return params.FailureInterval, 0
	}

	repetitions++
	switch repetitions {
	case 1:
		return params.FirstInterval, repetitions
	case 2:
		return params.SecondInterval, repetitions
	default:
		grown := float64(currentInterval) * easiness
		if grown >= float64(params.MaxInterval) {
			return params.MaxInterval, repetitions
		}
		return int(grown), repetitions
	}
}

// calculateNextReviewDate is today plus interval days, never past domain.MaxDate.
func calculateNextReviewDate(today civil.Date, interval int) civil.Date {
	next := today.AddDays(interval)
	if next.After(domain.MaxDate) {
		return domain.MaxDate
	}
	return next
}

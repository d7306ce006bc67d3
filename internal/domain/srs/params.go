package srs

import (
	"errors"
	"fmt"

	"github.com/phrazzld/kioku/internal/domain"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid srs params")

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Ease factor limits
	MinEasiness     float64
	InitialEasiness float64

	// Fixed intervals for the first and second consecutive success
	FirstInterval  int
	SecondInterval int

	// Interval after a failed recall
	FailureInterval int

	// Upper bound for any interval. Keeps next review dates inside the
	// four-digit-year range of the stored date format.
	MaxInterval int
}

// DefaultMaxInterval is roughly one hundred years.
const DefaultMaxInterval = 36500

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	MinEasiness     float64
	InitialEasiness float64
	FirstInterval   int
	SecondInterval  int
	FailureInterval int
	MaxInterval     int
}

// NewDefaultParams creates a new Params instance with the classic SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		MinEasiness:     domain.MinEasiness,
		InitialEasiness: domain.InitialEasiness,
		FirstInterval:   1,
		SecondInterval:  6,
		FailureInterval: 1,
		MaxInterval:     DefaultMaxInterval,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEasiness > 0 {
		params.MinEasiness = config.MinEasiness
	}
	if config.InitialEasiness > 0 {
		params.InitialEasiness = config.InitialEasiness
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FailureInterval > 0 {
		params.FailureInterval = config.FailureInterval
	}
	if config.MaxInterval > 0 {
		params.MaxInterval = config.MaxInterval
	}

	return params
}

// Validate checks that the parameters describe a usable schedule.
func (p *Params) Validate() error {
	switch {
	case p.MinEasiness <= 1.0:
		return fmt.Errorf("%w: min easiness %.2f must exceed 1.0", ErrInvalidParams, p.MinEasiness)
	case p.InitialEasiness < p.MinEasiness:
		return fmt.Errorf("%w: initial easiness %.2f is below the floor", ErrInvalidParams, p.InitialEasiness)
	case p.FirstInterval < 1 || p.SecondInterval < 1 || p.FailureInterval < 1:
		return fmt.Errorf("%w: intervals must be at least one day", ErrInvalidParams)
	case p.MaxInterval < p.SecondInterval || p.MaxInterval < p.FailureInterval:
		return fmt.Errorf("%w: max interval %d is below a fixed interval", ErrInvalidParams, p.MaxInterval)
	}
	return nil
}

package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DateLayout is the only accepted serialized form of a calendar date.
// Zero-padded, no time of day, no zone; this keeps string order equal to
// chronological order wherever dates are compared as text.
const DateLayout = "2006-01-02"

// MaxDate is the last date DateLayout can represent.
var MaxDate = civil.Date{Year: 9999, Month: 12, Day: 31}

// ParseDate parses a YYYY-MM-DD string into a civil.Date.
// Any other layout (timestamps, zone suffixes, unpadded fields) is rejected.
func ParseDate(s string) (civil.Date, error) {
	if len(s) != len(DateLayout) {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return civil.DateOf(t), nil
}

// FormatDate renders d as YYYY-MM-DD.
func FormatDate(d civil.Date) string {
	return d.String()
}

// Today returns the calendar date of now as observed in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}

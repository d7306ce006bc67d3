package domain

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-01-07")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d != (civil.Date{Year: 2024, Month: time.January, Day: 7}) {
		t.Errorf("Expected 2024-01-07, got %v", d)
	}
	if FormatDate(d) != "2024-01-07" {
		t.Errorf("Expected round trip to 2024-01-07, got %s", FormatDate(d))
	}

	for _, bad := range []string{"", "2024-1-7", "2024-01-07T00:00:00Z", "2024-01-07Z", "07/01/2024", "2024-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	if got := Today(now, nil); got.String() != "2024-01-01" {
		t.Errorf("Expected 2024-01-01 in UTC, got %s", got)
	}

	tokyo := time.FixedZone("JST", 9*60*60)
	if got := Today(now, tokyo); got.String() != "2024-01-02" {
		t.Errorf("Expected 2024-01-02 in JST, got %s", got)
	}
}

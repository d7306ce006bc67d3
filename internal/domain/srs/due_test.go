package srs

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

type dated struct {
	name string
	next civil.Date
}

func (d dated) NextReviewDate() civil.Date { return d.next }

type isoRecord struct {
	Word       string
	NextReview string
}

func (r isoRecord) NextReviewISO() string { return r.NextReview }

func TestSelectDue(t *testing.T) {
	t.Parallel()

	items := []dated{
		{"a", civil.Date{Year: 2024, Month: 1, Day: 1}},
		{"b", civil.Date{Year: 2024, Month: 1, Day: 3}},
		{"c", civil.Date{Year: 2023, Month: 12, Day: 31}},
		{"d", civil.Date{Year: 2024, Month: 1, Day: 2}},
	}
	today := civil.Date{Year: 2024, Month: 1, Day: 2}

	due := SelectDue(items, today)

	names := make([]string, 0, len(due))
	for _, d := range due {
		names = append(names, d.name)
	}
	assert.Equal(t, []string{"a", "c", "d"}, names, "due items keep input order")

	again := SelectDue(items, today)
	assert.Equal(t, due, again, "selection is idempotent")
	assert.Equal(t, "b", items[1].name, "input is untouched")
}

func TestSelectDueEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SelectDue([]dated(nil), civil.Date{Year: 2024, Month: 1, Day: 1}))
	future := []dated{{"x", civil.Date{Year: 2030, Month: 1, Day: 1}}}
	assert.Empty(t, SelectDue(future, civil.Date{Year: 2024, Month: 1, Day: 1}))
}

func TestSelectDueISO(t *testing.T) {
	t.Parallel()

	// Scenario D
	items := []isoRecord{
		{Word: "one", NextReview: "2024-01-01"},
		{Word: "two", NextReview: "2024-01-03"},
		{Word: "three", NextReview: "2023-12-31"},
	}

	due := SelectDueISO(items, "2024-01-02")

	assert.Equal(t, []isoRecord{items[0], items[2]}, due)
	assert.Equal(t, due, SelectDueISO(items, "2024-01-02"))
}

func TestLimit(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2}, Limit(items, 2))
	assert.Equal(t, items, Limit(items, 10))
	assert.Empty(t, Limit(items, 0))
	assert.Empty(t, Limit(items, -3))

	limited := Limit(items, 2)
	limited = append(limited, 99)
	assert.Equal(t, 3, items[2], "appending to a limited slice must not clobber the source")
	assert.Len(t, limited, 3)
}

package srs

import "cloud.google.com/go/civil"

// Schedulable is anything carrying a next review date.
type Schedulable interface {
	NextReviewDate() civil.Date
}

// ISODated is a record whose next review date is still in its serialized
// YYYY-MM-DD form, as found in legacy data files.
type ISODated interface {
	NextReviewISO() string
}

// SelectDue returns the items whose next review date is on or before today,
// in their original relative order. The input slice is not modified.
func SelectDue[T Schedulable](items []T, today civil.Date) []T {
	due := make([]T, 0, len(items))
	for _, item := range items {
		if !item.NextReviewDate().After(today) {
			due = append(due, item)
		}
	}
	return due
}

// SelectDueISO is SelectDue for records that have not been parsed yet. It
// compares the fixed-width date strings directly, which matches chronological
// order only for zero-padded YYYY-MM-DD values. Malformed dates compare
// arbitrarily; validate before relying on the result.
func SelectDueISO[T ISODated](items []T, today string) []T {
	due := make([]T, 0, len(items))
	for _, item := range items {
		if item.NextReviewISO() <= today {
			due = append(due, item)
		}
	}
	return due
}

// Limit returns at most the first n items.
func Limit[T any](items []T, n int) []T {
	if n <= 0 {
		return items[:0:0]
	}
	if len(items) > n {
		return items[:n:n]
	}
	return items
}

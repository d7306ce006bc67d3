package domain

import "cloud.google.com/go/civil"

// DueItem pairs a catalog item with the requesting user's progress on it.
type DueItem struct {
	Item  *Item
	State *ReviewState
}

// NextReviewDate implements srs.Schedulable.
func (d DueItem) NextReviewDate() civil.Date {
	return d.State.NextReview
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item-specific validation errors
var (
	// ErrItemIDEmpty is returned when an item ID is empty or nil.
	ErrItemIDEmpty = errors.New("item ID cannot be empty")

	// ErrItemTermEmpty is returned when an item has no term to review.
	ErrItemTermEmpty = errors.New("item term cannot be empty")

	// ErrItemMeaningEmpty is returned when an item has no meaning.
	ErrItemMeaningEmpty = errors.New("item meaning cannot be empty")
)

// DefaultCategory is assigned to items imported without a category.
const DefaultCategory = "general"

// Item is a vocabulary entry in the shared catalog. It carries only display
// content; scheduling progress lives in ReviewState.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Term      string    `json:"term"`    // written form, e.g. kanji
	Reading   string    `json:"reading"` // e.g. kana
	Meaning   string    `json:"meaning"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewItem creates a new Item with a generated ID and current timestamps.
// Returns an error if validation fails.
func NewItem(term, reading, meaning, category string) (*Item, error) {
	now := time.Now().UTC()
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	item := &Item{
		ID:        uuid.New(),
		Term:      strings.TrimSpace(term),
		Reading:   strings.TrimSpace(reading),
		Meaning:   strings.TrimSpace(meaning),
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}
	if strings.TrimSpace(i.Term) == "" {
		return ErrItemTermEmpty
	}
	if strings.TrimSpace(i.Meaning) == "" {
		return ErrItemMeaningEmpty
	}
	return nil
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Quote validation errors
var (
	ErrQuoteIDEmpty       = errors.New("quote ID cannot be empty")
	ErrQuoteSentenceEmpty = errors.New("quote sentence cannot be empty")
	ErrQuoteKanaEmpty     = errors.New("quote kana cannot be empty")
)

// DefaultQuoteCategory is assigned to quotes stored without a category.
const DefaultQuoteCategory = "Quotes"

// Quote is a sentence in the shared typing-practice catalog. A learner may
// type either the written Sentence or its Kana reading.
type Quote struct {
	ID        uuid.UUID `json:"id"`
	Sentence  string    `json:"sentence"`
	Kana      string    `json:"kana"`
	Meaning   string    `json:"meaning"`
	Origin    string    `json:"origin"` // attribution, may be empty
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// NewQuote creates a Quote with a generated ID.
func NewQuote(sentence, kana, meaning, origin, category string) (*Quote, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultQuoteCategory
	}
	q := &Quote{
		ID:        uuid.New(),
		Sentence:  strings.TrimSpace(sentence),
		Kana:      strings.TrimSpace(kana),
		Meaning:   strings.TrimSpace(meaning),
		Origin:    strings.TrimSpace(origin),
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks if the Quote has valid data.
func (q *Quote) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuoteIDEmpty
	}
	if NormalizeTyping(q.Sentence) == "" {
		return ErrQuoteSentenceEmpty
	}
	if NormalizeTyping(q.Kana) == "" {
		return ErrQuoteKanaEmpty
	}
	return nil
}

// Accepts reports whether input is a correct typing of the quote.
func (q *Quote) Accepts(input string) bool {
	typed := NormalizeTyping(input)
	if typed == "" {
		return false
	}
	return typed == NormalizeTyping(q.Sentence) || typed == NormalizeTyping(q.Kana)
}

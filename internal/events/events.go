package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeReviewGraded = "review.graded"
	TypeReminderDue  = "reminder.due"
	TypeLevelUp      = "profile.level_up"
)

// Event is a single domain occurrence with a JSON payload.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReviewGradedPayload is carried by review.graded events.
type ReviewGradedPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	ItemID      uuid.UUID `json:"item_id"`
	Grade       int       `json:"grade"`
	Passed      bool      `json:"passed"`
	WasDue      bool      `json:"was_due"` // false for reviews ahead of schedule
	Easiness    float64   `json:"easiness"`
	Interval    int       `json:"interval"`
	Repetitions int       `json:"repetitions"`
	NextReview  string    `json:"next_review"` // YYYY-MM-DD
}

// ReminderDuePayload is carried by reminder.due events.
type ReminderDuePayload struct {
	UserID     uuid.UUID `json:"user_id"`
	DueCount   int       `json:"due_count"` // capped by DailyLimit
	TotalDue   int       `json:"total_due"`
	DailyLimit int       `json:"daily_limit"`
}

// LevelUpPayload is carried by profile.level_up events.
type LevelUpPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Level  int       `json:"level"` // the level just reached
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

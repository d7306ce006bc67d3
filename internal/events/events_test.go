package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	mu           sync.Mutex
	HandledCount int
	LastEvent    *Event
	HandlerError error
}

func (m *MockEventHandler) HandleEvent(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HandledCount++
	m.LastEvent = event
	return m.HandlerError
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	payload := ReviewGradedPayload{
		UserID:      uuid.New(),
		ItemID:      uuid.New(),
		Grade:       4,
		Easiness:    2.5,
		Interval:    6,
		Repetitions: 2,
		NextReview:  "2024-01-07",
	}

	event, err := NewEvent(TypeReviewGraded, payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeReviewGraded, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded ReviewGradedPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventUnmarshalablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewEvent("bad", make(chan int))
	assert.Error(t, err)
}

func TestEventJSON(t *testing.T) {
	t.Parallel()

	event, err := NewEvent(TypeReminderDue, ReminderDuePayload{UserID: uuid.New(), DueCount: 3, DailyLimit: 20})
	require.NoError(t, err)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "payload")
	assert.JSONEq(t, string(event.Payload), string(raw["payload"]))
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewEvent("test-event", map[string]string{"key": "value"})
		require.NoError(t, err)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("all handlers receive the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &MockEventHandler{}, &MockEventHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event, err := NewEvent("test-event", nil)
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, 1, h1.HandledCount)
		assert.Equal(t, 1, h2.HandledCount)
		assert.Same(t, event, h1.LastEvent)
	})

	t.Run("failing handler does not stop dispatch", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		first := &MockEventHandler{HandlerError: errors.New("first")}
		second := &MockEventHandler{HandlerError: errors.New("second")}
		ok := &MockEventHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)
		emitter.RegisterHandler(ok)

		event, err := NewEvent("test-event", nil)
		require.NoError(t, err)
		err = emitter.EmitEvent(context.Background(), event)

		assert.EqualError(t, err, "first")
		assert.Equal(t, 1, ok.HandledCount)
	})

	t.Run("handler func adapter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		var got string
		emitter.RegisterHandler(EventHandlerFunc(func(_ context.Context, e *Event) error {
			got = e.Type
			return nil
		}))

		event, err := NewEvent(TypeReminderDue, nil)
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, TypeReminderDue, got)
	})

	t.Run("concurrent registration and emit", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h := &MockEventHandler{}
		emitter.RegisterHandler(h)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				emitter.RegisterHandler(&MockEventHandler{})
			}()
			go func() {
				defer wg.Done()
				event, _ := NewEvent("concurrent", nil)
				_ = emitter.EmitEvent(context.Background(), event)
			}()
		}
		wg.Wait()
		assert.Equal(t, 10, h.HandledCount)
	})
}

func TestLoggingHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewLoggingHandler(slog.New(slog.NewJSONHandler(&buf, nil)))

	event, err := NewEvent(TypeReviewGraded, map[string]int{"grade": 5})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), event))

	assert.Contains(t, buf.String(), `"event_type":"review.graded"`)
	assert.Contains(t, buf.String(), event.ID.String())
}

package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/redact"
)

// Reminder is one user's due summary at the time the job ran.
type Reminder struct {
	UserID     uuid.UUID
	ChatID     int64 // Telegram chat, 0 when not linked
	DueCount   int   // items the user will be shown today
	TotalDue   int
	DailyLimit int
}

// Notifier delivers a reminder to a user.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r Reminder) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, r Reminder) error {
	return f(ctx, r)
}

// MultiNotifier fans a reminder out to every notifier. All notifiers run;
// their errors are joined.
type MultiNotifier []Notifier

// Notify implements Notifier.
func (m MultiNotifier) Notify(ctx context.Context, r Reminder) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes reminders to the log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, r Reminder) error {
	logger.FromContextOrDefault(ctx, n.logger).Info("review reminder",
		slog.String("user_id", r.UserID.String()),
		slog.Int("due_count", r.DueCount),
		slog.Int("total_due", r.TotalDue))
	return nil
}

// EventNotifier publishes reminder.due events.
type EventNotifier struct {
	emitter events.EventEmitter
}

// NewEventNotifier creates an EventNotifier.
func NewEventNotifier(emitter events.EventEmitter) *EventNotifier {
	if emitter == nil {
		panic("emitter cannot be nil for EventNotifier")
	}
	return &EventNotifier{emitter: emitter}
}

// Notify implements Notifier.
func (n *EventNotifier) Notify(ctx context.Context, r Reminder) error {
	event, err := events.NewEvent(events.TypeReminderDue, events.ReminderDuePayload{
		UserID:     r.UserID,
		DueCount:   r.DueCount,
		TotalDue:   r.TotalDue,
		DailyLimit: r.DailyLimit,
	})
	if err != nil {
		return err
	}
	return n.emitter.EmitEvent(ctx, event)
}

// MessageSender is the part of *tgbotapi.BotAPI the Telegram notifier uses.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends reminders to the user's linked Telegram chat.
// Users without a chat ID are skipped.
type TelegramNotifier struct {
	sender MessageSender
	logger *slog.Logger
}

// NewTelegramNotifier wraps an existing sender.
func NewTelegramNotifier(sender MessageSender, logger *slog.Logger) *TelegramNotifier {
	if sender == nil {
		panic("sender cannot be nil for TelegramNotifier")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramNotifier{sender: sender, logger: logger}
}

// NewTelegramBotNotifier connects to the Bot API with token.
func NewTelegramBotNotifier(token string, logger *slog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %s", redact.Error(err))
	}
	return NewTelegramNotifier(bot, logger), nil
}

// Notify implements Notifier.
func (n *TelegramNotifier) Notify(ctx context.Context, r Reminder) error {
	if r.ChatID == 0 {
		logger.FromContextOrDefault(ctx, n.logger).Debug("no telegram chat linked, skipping",
			slog.String("user_id", r.UserID.String()))
		return nil
	}

	msg := tgbotapi.NewMessage(r.ChatID, FormatMessage(r))
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("telegram send to user %s failed: %s", r.UserID, redact.Error(err))
	}
	return nil
}

// FormatMessage renders the reminder text.
func FormatMessage(r Reminder) string {
	if r.TotalDue > r.DueCount {
		return fmt.Sprintf("You have %d words to review today (%d due in total).", r.DueCount, r.TotalDue)
	}
	if r.DueCount == 1 {
		return "You have 1 word to review today."
	}
	return fmt.Sprintf("You have %d words to review today.", r.DueCount)
}

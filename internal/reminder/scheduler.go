package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/service/review"
	"github.com/phrazzld/kioku/internal/store"
)

// DueCounter reports a user's due summary. review.Service satisfies it.
type DueCounter interface {
	GetDueItems(ctx context.Context, userID uuid.UUID) ([]domain.DueItem, review.DueSummary, error)
}

// RunResult summarizes one pass over the opted-in profiles.
type RunResult struct {
	Checked  int
	Notified int
	Failed   int
}

// Scheduler runs the reminder pass once a day at a fixed local time.
type Scheduler struct {
	cron     *gocron.Scheduler
	at       string
	timeout  time.Duration
	profiles store.ProfileStore
	due      DueCounter
	notifier Notifier
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler firing daily at at ("HH:MM") in loc.
func NewScheduler(
	at string,
	loc *time.Location,
	profiles store.ProfileStore,
	due DueCounter,
	notifier Notifier,
	logger *slog.Logger,
) *Scheduler {
	if profiles == nil || due == nil || notifier == nil {
		panic("reminder scheduler dependencies cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	cron := gocron.NewScheduler(loc)
	cron.SingletonModeAll()
	return &Scheduler{
		cron:     cron,
		at:       at,
		timeout:  5 * time.Minute,
		profiles: profiles,
		due:      due,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "reminder")),
	}
}

// Start registers the daily job and starts the scheduler without blocking.
func (s *Scheduler) Start() error {
	if _, err := s.cron.Every(1).Day().At(s.at).Do(s.runJob); err != nil {
		return fmt.Errorf("failed to schedule reminder job at %q: %w", s.at, err)
	}
	s.cron.StartAsync()
	s.logger.Info("reminder job scheduled", slog.String("at", s.at))
	return nil
}

// Stop halts the scheduler. A pass already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("reminder pass failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("reminder pass finished",
		slog.Int("checked", res.Checked),
		slog.Int("notified", res.Notified),
		slog.Int("failed", res.Failed))
}

// RunOnce notifies every opted-in user who has items due. A failure for one
// user is logged and counted; it does not stop the pass.
func (s *Scheduler) RunOnce(ctx context.Context) (RunResult, error) {
	var res RunResult

	profiles, err := s.profiles.ListReminderEnabled(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list reminder profiles: %w", err)
	}

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++

		_, summary, err := s.due.GetDueItems(ctx, p.UserID)
		if err != nil {
			res.Failed++
			s.logger.Error("failed to count due items",
				slog.String("user_id", p.UserID.String()),
				slog.String("error", err.Error()))
			continue
		}
		if summary.TotalDue == 0 {
			continue
		}

		err = s.notifier.Notify(ctx, Reminder{
			UserID:     p.UserID,
			ChatID:     p.TelegramChatID,
			DueCount:   summary.Returned,
			TotalDue:   summary.TotalDue,
			DailyLimit: summary.DailyLimit,
		})
		if err != nil {
			res.Failed++
			s.logger.Error("failed to send reminder",
				slog.String("user_id", p.UserID.String()),
				slog.String("error", err.Error()))
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return res, err
			}
			continue
		}
		res.Notified++
	}
	return res, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/kioku/internal/config"
	"github.com/phrazzld/kioku/internal/domain/srs"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/reminder"
	"github.com/phrazzld/kioku/internal/service"
	"github.com/phrazzld/kioku/internal/service/auth"
	"github.com/phrazzld/kioku/internal/service/review"
	"github.com/phrazzld/kioku/internal/store"
)

// application holds the wired dependencies of a running kioku process.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	storage  *storage
	location *time.Location

	reviewService   review.Service
	itemService     service.ItemService
	profileService  service.ProfileService
	practiceService service.PracticeService
	jwtService      auth.JWTService
	reminders       *reminder.Scheduler
}

// newApplication wires stores, services and background jobs.
// On error the caller still owns st.
func newApplication(cfg *config.Config, logger *slog.Logger, st *storage) (*application, error) {
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))

	tx := store.NewDBTransactor(st.db)

	reviewService := review.NewReviewService(
		tx,
		st.items,
		st.states,
		st.profiles,
		srs.NewDefaultService(),
		logger,
		review.WithLocation(loc),
		review.WithDefaultDailyLimit(cfg.Scheduler.DefaultDailyLimit),
		review.WithEventEmitter(emitter),
	)

	limit := cfg.Scheduler.DefaultDailyLimit
	app := &application{
		config:          cfg,
		logger:          logger,
		storage:         st,
		location:        loc,
		reviewService:   reviewService,
		itemService:     service.NewItemService(tx, st.items, st.states, logger),
		profileService:  service.NewProfileService(tx, st.profiles, limit, logger),
		practiceService: service.NewPracticeService(tx, st.quotes, st.profiles, limit, logger,
			service.WithPracticeEventEmitter(emitter)),
		jwtService: jwtService,
	}

	if cfg.Reminder.Enabled {
		notifier, err := buildNotifier(cfg.Reminder, emitter, logger)
		if err != nil {
			return nil, err
		}
		app.reminders = reminder.NewScheduler(
			cfg.Reminder.At, loc, st.profiles, reviewService, notifier, logger)
	}

	return app, nil
}

// buildNotifier always logs and emits an event; Telegram is added when a bot token is set.
func buildNotifier(cfg config.ReminderConfig, emitter events.EventEmitter, logger *slog.Logger) (reminder.Notifier, error) {
	notifiers := reminder.MultiNotifier{
		reminder.NewLogNotifier(logger),
		reminder.NewEventNotifier(emitter),
	}
	if cfg.TelegramBotToken != "" {
		tg, err := reminder.NewTelegramBotNotifier(cfg.TelegramBotToken, logger)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
	}
	return notifiers, nil
}

// Run starts background jobs and serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.reminders != nil {
		if err := app.reminders.Start(); err != nil {
			return err
		}
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup stops background jobs and closes the database.
func (app *application) cleanup() {
	if app.reminders != nil {
		app.reminders.Stop()
	}
	closeStorage(app.storage, app.logger)
}

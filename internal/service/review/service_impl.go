package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/domain/srs"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*reviewServiceImpl)(nil)

// Option customizes a review service.
type Option func(*reviewServiceImpl)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(s *reviewServiceImpl) { s.clock = clock }
}

// WithLocation sets the timezone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *reviewServiceImpl) { s.location = loc }
}

// WithDefaultDailyLimit sets the limit used for users without a stored profile.
func WithDefaultDailyLimit(n int) Option {
	return func(s *reviewServiceImpl) { s.defaultDailyLimit = n }
}

// WithEventEmitter publishes review.graded events after each committed grade.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(s *reviewServiceImpl) { s.emitter = emitter }
}

type reviewServiceImpl struct {
	tx                store.Transactor
	items             store.ItemStore
	states            store.ReviewStateStore
	profiles          store.ProfileStore
	srsService        srs.Service
	emitter           events.EventEmitter
	clock             Clock
	location          *time.Location
	defaultDailyLimit int
	logger            *slog.Logger
}

// NewReviewService creates a new review Service implementation.
func NewReviewService(
	tx store.Transactor,
	items store.ItemStore,
	states store.ReviewStateStore,
	profiles store.ProfileStore,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if tx == nil {
		panic("tx cannot be nil")
	}
	if items == nil {
		panic("items cannot be nil")
	}
	if states == nil {
		panic("states cannot be nil")
	}
	if profiles == nil {
		panic("profiles cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &reviewServiceImpl{
		tx:                tx,
		items:             items,
		states:            states,
		profiles:          profiles,
		srsService:        srsService,
		clock:             SystemClock{},
		location:          time.UTC,
		defaultDailyLimit: domain.DefaultDailyLimit,
		logger:            logger.With(slog.String("component", "review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reviewServiceImpl) today(now time.Time) civil.Date {
	return domain.Today(now, s.location)
}

// GetDueItems implements Service.GetDueItems.
func (s *reviewServiceImpl) GetDueItems(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.DueItem, DueSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	today := s.today(s.clock.Now())

	items, err := s.items.List(ctx, "")
	if err != nil {
		log.Error("failed to list items", slog.String("error", err.Error()))
		return nil, DueSummary{}, newServiceError("get_due_items", "failed to list items", err)
	}

	states, err := s.states.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list review states",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, DueSummary{}, newServiceError("get_due_items", "failed to list review states", err)
	}

	byItem := make(map[uuid.UUID]*domain.ReviewState, len(states))
	for _, st := range states {
		byItem[st.ItemID] = st
	}

	candidates := make([]domain.DueItem, 0, len(items))
	for _, item := range items {
		st, ok := byItem[item.ID]
		if !ok {
			st, err = s.seedState(userID, item.ID, today)
			if err != nil {
				return nil, DueSummary{}, newServiceError("get_due_items", "failed to seed review state", err)
			}
		}
		candidates = append(candidates, domain.DueItem{Item: item, State: st})
	}

	limit, err := s.dailyLimit(ctx, userID)
	if err != nil {
		return nil, DueSummary{}, newServiceError("get_due_items", "failed to load profile", err)
	}

	due := srs.SelectDue(candidates, today)
	selected := srs.Limit(due, limit)

	summary := DueSummary{TotalDue: len(due), Returned: len(selected), DailyLimit: limit}
	log.Debug("selected due items",
		slog.String("user_id", userID.String()),
		slog.String("today", today.String()),
		slog.Int("catalog_size", len(items)),
		slog.Int("total_due", summary.TotalDue),
		slog.Int("returned", summary.Returned))

	return selected, summary, nil
}

func (s *reviewServiceImpl) dailyLimit(ctx context.Context, userID uuid.UUID) (int, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return s.defaultDailyLimit, nil
		}
		return 0, err
	}
	return profile.DailyLimit, nil
}

// GetNextItem implements Service.GetNextItem.
func (s *reviewServiceImpl) GetNextItem(ctx context.Context, userID uuid.UUID) (*domain.DueItem, error) {
	due, _, err := s.GetDueItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("no items due for review",
			slog.String("user_id", userID.String()))
		return nil, ErrNoItemsDue
	}
	next := due[0]
	return &next, nil
}

// SubmitGrade implements Service.SubmitGrade.
func (s *reviewServiceImpl) SubmitGrade(
	ctx context.Context,
	userID, itemID uuid.UUID,
	grade domain.Grade,
) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()))

	if err := grade.Validate(); err != nil {
		log.Warn("invalid grade", slog.Int("grade", int(grade)))
		return nil, err
	}

	now := s.clock.Now()
	today := s.today(now)

	wasDue := true
	apply := func(st *domain.ReviewState) (*domain.ReviewState, error) {
		wasDue = st.IsDue(today)
		return s.srsService.CalculateNextReview(st, grade, today, now.UTC())
	}

	updated, err := s.mutateState(ctx, userID, itemID, today, apply)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, domain.ErrInvalidGrade) {
			return nil, err
		}
		log.Error("failed to submit grade", slog.String("error", err.Error()))
		return nil, newServiceError("submit_grade", "failed to update review state", err)
	}

	log.Debug("grade applied",
		slog.Int("grade", int(grade)),
		slog.Bool("passed", grade.Passed()),
		slog.Bool("was_due", wasDue),
		slog.Float64("easiness", updated.Easiness),
		slog.Int("interval", updated.Interval),
		slog.Int("repetitions", updated.Repetitions),
		slog.String("next_review", updated.NextReview.String()))

	s.emitGraded(ctx, updated, grade, wasDue)
	return updated, nil
}

// Postpone implements Service.Postpone.
func (s *reviewServiceImpl) Postpone(
	ctx context.Context,
	userID, itemID uuid.UUID,
	days int,
) (*domain.ReviewState, error) {
	if days < 1 {
		return nil, ErrInvalidDays
	}

	now := s.clock.Now()
	today := s.today(now)

	apply := func(st *domain.ReviewState) (*domain.ReviewState, error) {
		return s.srsService.PostponeReview(st, days, now.UTC())
	}

	updated, err := s.mutateState(ctx, userID, itemID, today, apply)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrInvalidDays) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to postpone review",
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return nil, newServiceError("postpone", "failed to update review state", err)
	}
	return updated, nil
}

// mutateState loads (or seeds) the state under lock, applies fn and writes the
// result back. A concurrent first write for the same pair surfaces as a
// duplicate insert; the transaction is then retried once against the row the
// other writer created.
func (s *reviewServiceImpl) mutateState(
	ctx context.Context,
	userID, itemID uuid.UUID,
	today civil.Date,
	fn func(*domain.ReviewState) (*domain.ReviewState, error),
) (*domain.ReviewState, error) {
	var updated *domain.ReviewState
	run := func(ctx context.Context, tx *sql.Tx) error {
		items := s.items.WithTx(tx)
		states := s.states.WithTx(tx)

		if _, err := items.GetByID(ctx, itemID); err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		current, err := states.GetForUpdate(ctx, userID, itemID)
		isNew := false
		if err != nil {
			if !errors.Is(err, store.ErrReviewStateNotFound) {
				return fmt.Errorf("failed to get review state: %w", err)
			}
			current, err = s.seedState(userID, itemID, today)
			if err != nil {
				return fmt.Errorf("failed to seed review state: %w", err)
			}
			isNew = true
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if isNew {
			if err := states.Create(ctx, next); err != nil {
				return fmt.Errorf("failed to create review state: %w", err)
			}
		} else if err := states.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update review state: %w", err)
		}

		updated = next
		return nil
	}

	err := s.tx.RunInTransaction(ctx, run)
	if err != nil && errors.Is(err, store.ErrDuplicate) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("concurrent first review, retrying",
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		err = s.tx.RunInTransaction(ctx, run)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// seedState is the implicit state of an item the user has never graded:
// due today, starting at the scheduler's initial easiness.
func (s *reviewServiceImpl) seedState(userID, itemID uuid.UUID, today civil.Date) (*domain.ReviewState, error) {
	st, err := domain.NewReviewState(userID, itemID, today)
	if err != nil {
		return nil, err
	}
	st.Easiness = s.srsService.Params().InitialEasiness
	return st, nil
}

func (s *reviewServiceImpl) emitGraded(ctx context.Context, st *domain.ReviewState, grade domain.Grade, wasDue bool) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewEvent(events.TypeReviewGraded, events.ReviewGradedPayload{
		UserID:      st.UserID,
		ItemID:      st.ItemID,
		Grade:       int(grade),
		Passed:      grade.Passed(),
		WasDue:      wasDue,
		Easiness:    st.Easiness,
		Interval:    st.Interval,
		Repetitions: st.Repetitions,
		NextReview:  domain.FormatDate(st.NextReview),
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	// Emission failures are only logged; the grade is already committed.
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit review event",
			slog.String("error", err.Error()))
	}
}

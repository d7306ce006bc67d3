package review_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/domain/srs"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/mocks"
	"github.com/phrazzld/kioku/internal/service/review"
	"github.com/phrazzld/kioku/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	jan1     = civil.Date{Year: 2024, Month: 1, Day: 1}
	fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	items    *mocks.MockItemStore
	states   *mocks.MockReviewStateStore
	profiles *mocks.MockProfileStore
	tx       *mocks.InlineTransactor
	emitted  []*events.Event
	svc      review.Service
}

func newFixture(t *testing.T, opts ...review.Option) *fixture {
	t.Helper()
	f := &fixture{
		items:    &mocks.MockItemStore{},
		states:   &mocks.MockReviewStateStore{},
		profiles: &mocks.MockProfileStore{},
		tx:       &mocks.InlineTransactor{},
	}
	emitter := events.NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	emitter.RegisterHandler(events.EventHandlerFunc(func(_ context.Context, e *events.Event) error {
		f.emitted = append(f.emitted, e)
		return nil
	}))

	all := append([]review.Option{
		review.WithClock(review.ClockFunc(func() time.Time { return fixedNow })),
		review.WithEventEmitter(emitter),
	}, opts...)

	f.svc = review.NewReviewService(f.tx, f.items, f.states, f.profiles, srs.NewDefaultService(),
		slog.New(slog.NewTextHandler(io.Discard, nil)), all...)

	t.Cleanup(func() {
		f.items.AssertExpectations(t)
		f.states.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
	})
	return f
}

func item(t *testing.T, term string) *domain.Item {
	t.Helper()
	it, err := domain.NewItem(term, "", term+" meaning", "")
	require.NoError(t, err)
	return it
}

func stateFor(userID uuid.UUID, it *domain.Item, next civil.Date, interval, reps int) *domain.ReviewState {
	return &domain.ReviewState{
		UserID:         userID,
		ItemID:         it.ID,
		Easiness:       2.5,
		Interval:       interval,
		Repetitions:    reps,
		NextReview:     next,
		LastReviewedAt: fixedNow.Add(-24 * time.Hour),
		ReviewCount:    reps,
	}
}

func TestGetDueItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("joins catalog with states and seeds unseen items", func(t *testing.T) {
		f := newFixture(t)
		seen := item(t, "a")
		future := item(t, "b")
		unseen := item(t, "c")
		f.items.On("List", ctx, "").Return([]*domain.Item{seen, future, unseen}, nil)
		f.states.On("ListByUser", ctx, userID).Return([]*domain.ReviewState{
			stateFor(userID, seen, jan1.AddDays(-3), 1, 1),
			stateFor(userID, future, jan1.AddDays(5), 6, 2),
		}, nil)
		f.profiles.On("Get", ctx, userID).Return(nil, store.ErrProfileNotFound)

		due, summary, err := f.svc.GetDueItems(ctx, userID)

		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, seen.ID, due[0].Item.ID)
		assert.Equal(t, unseen.ID, due[1].Item.ID)
		assert.Equal(t, jan1, due[1].State.NextReview)
		assert.Equal(t, domain.InitialEasiness, due[1].State.Easiness)
		assert.Equal(t, review.DueSummary{TotalDue: 2, Returned: 2, DailyLimit: domain.DefaultDailyLimit}, summary)
	})

	t.Run("daily limit from profile", func(t *testing.T) {
		f := newFixture(t)
		var catalog []*domain.Item
		for i := 0; i < 8; i++ {
			catalog = append(catalog, item(t, string(rune('a'+i))))
		}
		f.items.On("List", ctx, "").Return(catalog, nil)
		f.states.On("ListByUser", ctx, userID).Return([]*domain.ReviewState{}, nil)
		f.profiles.On("Get", ctx, userID).Return(&domain.Profile{UserID: userID, DailyLimit: 5}, nil)

		due, summary, err := f.svc.GetDueItems(ctx, userID)

		require.NoError(t, err)
		require.Len(t, due, 5)
		assert.Equal(t, catalog[0].ID, due[0].Item.ID)
		assert.Equal(t, catalog[4].ID, due[4].Item.ID)
		assert.Equal(t, 8, summary.TotalDue)
		assert.Equal(t, 5, summary.Returned)
		assert.Equal(t, 5, summary.DailyLimit)
	})

	t.Run("configured default daily limit", func(t *testing.T) {
		f := newFixture(t, review.WithDefaultDailyLimit(7))
		f.items.On("List", ctx, "").Return([]*domain.Item{}, nil)
		f.states.On("ListByUser", ctx, userID).Return([]*domain.ReviewState{}, nil)
		f.profiles.On("Get", ctx, userID).Return(nil, store.ErrProfileNotFound)

		due, summary, err := f.svc.GetDueItems(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, due)
		assert.Equal(t, 7, summary.DailyLimit)
	})

	t.Run("today follows the configured timezone", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		// 20:00 UTC on Jan 1 is already Jan 2 in Tokyo.
		late := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
		f := newFixture(t,
			review.WithLocation(tokyo),
			review.WithClock(review.ClockFunc(func() time.Time { return late })))

		it := item(t, "tomorrow")
		f.items.On("List", ctx, "").Return([]*domain.Item{it}, nil)
		f.states.On("ListByUser", ctx, userID).Return([]*domain.ReviewState{
			stateFor(userID, it, civil.Date{Year: 2024, Month: 1, Day: 2}, 1, 1),
		}, nil)
		f.profiles.On("Get", ctx, userID).Return(nil, store.ErrProfileNotFound)

		due, _, err := f.svc.GetDueItems(ctx, userID)

		require.NoError(t, err)
		assert.Len(t, due, 1)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.items.On("List", ctx, "").Return(nil, errors.New("db down"))

		_, _, err := f.svc.GetDueItems(ctx, userID)

		var svcErr *review.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "get_due_items", svcErr.Operation)
	})

	t.Run("malformed stored state propagates", func(t *testing.T) {
		f := newFixture(t)
		f.items.On("List", ctx, "").Return([]*domain.Item{}, nil)
		f.states.On("ListByUser", ctx, userID).Return(nil, domain.ErrMalformedState)

		_, _, err := f.svc.GetDueItems(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrMalformedState)
	})
}

func TestGetNextItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first due item", func(t *testing.T) {
		f := newFixture(t)
		a, b := item(t, "a"), item(t, "b")
		f.items.On("List", ctx, "").Return([]*domain.Item{a, b}, nil)
		f.states.On("ListByUser", ctx, userID).Return([]*domain.ReviewState{}, nil)
		f.profiles.On("Get", ctx, userID).Return(nil, store.ErrProfileNotFound)

		next, err := f.svc.GetNextItem(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, a.ID, next.Item.ID)
	})

	t.Run("nothing due", func(t *testing.T) {
		f := newFixture(t)
		a := item(t, "a")
		f.items.On("List", ctx, "").Return([]*domain.Item{a}, nil)
		f.states.On("ListByUser", ctx, userID).Return([]*domain.ReviewState{
			stateFor(userID, a, jan1.AddDays(1), 1, 1),
		}, nil)
		f.profiles.On("Get", ctx, userID).Return(nil, store.ErrProfileNotFound)

		_, err := f.svc.GetNextItem(ctx, userID)
		assert.ErrorIs(t, err, review.ErrNoItemsDue)
	})
}

func TestSubmitGrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first review creates state", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "水")
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(nil, store.ErrReviewStateNotFound)
		f.states.On("Create", ctx, mock.MatchedBy(func(s *domain.ReviewState) bool {
			return s.Repetitions == 1 && s.Interval == 1 && s.NextReview == jan1.AddDays(1)
		})).Return(nil)

		got, err := f.svc.SubmitGrade(ctx, userID, it.ID, domain.GradeHesitant)

		require.NoError(t, err)
		assert.Equal(t, 1, got.Repetitions)
		assert.Equal(t, 1, got.Interval)
		assert.InDelta(t, 2.5, got.Easiness, 1e-9)
		assert.Equal(t, "2024-01-02", got.NextReview.String())
		assert.Equal(t, 1, got.ReviewCount)
		assert.True(t, fixedNow.Equal(got.LastReviewedAt))
		assert.Equal(t, 1, f.tx.Calls)

		require.Len(t, f.emitted, 1)
		assert.Equal(t, events.TypeReviewGraded, f.emitted[0].Type)
		var payload events.ReviewGradedPayload
		require.NoError(t, f.emitted[0].UnmarshalPayload(&payload))
		assert.Equal(t, 4, payload.Grade)
		assert.Equal(t, "2024-01-02", payload.NextReview)
		assert.True(t, payload.Passed)
		assert.True(t, payload.WasDue, "unseen items are due today")
	})

	t.Run("review ahead of schedule is flagged", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "雨")
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(stateFor(userID, it, jan1.AddDays(5), 6, 2), nil)
		f.states.On("Update", ctx, mock.Anything).Return(nil)

		_, err := f.svc.SubmitGrade(ctx, userID, it.ID, domain.GradeFamiliar)

		require.NoError(t, err)
		require.Len(t, f.emitted, 1)
		var payload events.ReviewGradedPayload
		require.NoError(t, f.emitted[0].UnmarshalPayload(&payload))
		assert.False(t, payload.WasDue)
		assert.False(t, payload.Passed)
	})

	t.Run("existing state is updated", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "火")
		current := stateFor(userID, it, jan1, 6, 2)
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(current, nil)
		f.states.On("Update", ctx, mock.AnythingOfType("*domain.ReviewState")).Return(nil)

		got, err := f.svc.SubmitGrade(ctx, userID, it.ID, domain.GradePerfect)

		require.NoError(t, err)
		assert.Equal(t, 3, got.Repetitions)
		assert.Equal(t, 15, got.Interval) // int(6 * 2.6)
		assert.InDelta(t, 2.6, got.Easiness, 1e-9)
		assert.Equal(t, 2, current.Repetitions, "stored state must not be mutated")
	})

	t.Run("failure resets", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "木")
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(stateFor(userID, it, jan1, 15, 3), nil)
		f.states.On("Update", ctx, mock.AnythingOfType("*domain.ReviewState")).Return(nil)

		got, err := f.svc.SubmitGrade(ctx, userID, it.ID, domain.GradeBlackout)

		require.NoError(t, err)
		assert.Equal(t, 0, got.Repetitions)
		assert.Equal(t, 1, got.Interval)
		assert.InDelta(t, 1.7, got.Easiness, 1e-9)
	})

	t.Run("invalid grade never touches the store", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SubmitGrade(ctx, userID, uuid.New(), domain.Grade(6))
		assert.ErrorIs(t, err, review.ErrInvalidGrade)
		assert.Equal(t, 0, f.tx.Calls)
		assert.Empty(t, f.emitted)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.items.On("GetByID", ctx, id).Return(nil, store.ErrItemNotFound)

		_, err := f.svc.SubmitGrade(ctx, userID, id, domain.GradeHesitant)
		assert.ErrorIs(t, err, review.ErrItemNotFound)
		assert.Empty(t, f.emitted)
	})

	t.Run("malformed stored state", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "土")
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(nil, domain.ErrMalformedState)

		_, err := f.svc.SubmitGrade(ctx, userID, it.ID, domain.GradeHesitant)

		assert.ErrorIs(t, err, domain.ErrMalformedState)
		var svcErr *review.ServiceError
		assert.ErrorAs(t, err, &svcErr)
	})

	t.Run("concurrent first review retries", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "金")
		other := stateFor(userID, it, jan1.AddDays(1), 1, 1)
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(nil, store.ErrReviewStateNotFound).Once()
		f.states.On("Create", ctx, mock.Anything).Return(store.ErrDuplicate).Once()
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(other, nil).Once()
		f.states.On("Update", ctx, mock.Anything).Return(nil).Once()

		got, err := f.svc.SubmitGrade(ctx, userID, it.ID, domain.GradeHesitant)

		require.NoError(t, err)
		assert.Equal(t, 2, got.Repetitions)
		assert.Equal(t, 6, got.Interval)
		assert.Equal(t, 2, f.tx.Calls)
	})

	t.Run("update failure is a service error", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "銀")
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(stateFor(userID, it, jan1, 1, 1), nil)
		f.states.On("Update", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := f.svc.SubmitGrade(ctx, userID, it.ID, domain.GradeHesitant)

		var svcErr *review.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "submit_grade", svcErr.Operation)
		assert.Empty(t, f.emitted)
	})
}

func TestPostpone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("moves next review only", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "月")
		current := stateFor(userID, it, jan1, 6, 2)
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(current, nil)
		f.states.On("Update", ctx, mock.Anything).Return(nil)

		got, err := f.svc.Postpone(ctx, userID, it.ID, 3)

		require.NoError(t, err)
		assert.Equal(t, "2024-01-04", got.NextReview.String())
		assert.Equal(t, 6, got.Interval)
		assert.Equal(t, 2, got.Repetitions)
		assert.Equal(t, current.Easiness, got.Easiness)
		assert.Empty(t, f.emitted)
	})

	t.Run("unseen item is seeded then postponed", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "日")
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).Return(nil, store.ErrReviewStateNotFound)
		f.states.On("Create", ctx, mock.Anything).Return(nil)

		got, err := f.svc.Postpone(ctx, userID, it.ID, 2)

		require.NoError(t, err)
		assert.Equal(t, "2024-01-03", got.NextReview.String())
		assert.Equal(t, 0, got.Repetitions)
	})

	t.Run("invalid days", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Postpone(ctx, userID, uuid.New(), 0)
		assert.ErrorIs(t, err, review.ErrInvalidDays)
		assert.Equal(t, 0, f.tx.Calls)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.items.On("GetByID", ctx, id).Return(nil, store.ErrItemNotFound)

		_, err := f.svc.Postpone(ctx, userID, id, 1)
		assert.ErrorIs(t, err, review.ErrItemNotFound)
	})

	t.Run("cannot pass the last representable date", func(t *testing.T) {
		f := newFixture(t)
		it := item(t, "星")
		f.items.On("GetByID", ctx, it.ID).Return(it, nil)
		f.states.On("GetForUpdate", ctx, userID, it.ID).
			Return(stateFor(userID, it, civil.Date{Year: 9999, Month: 12, Day: 1}, 6, 2), nil)

		_, err := f.svc.Postpone(ctx, userID, it.ID, 31)

		assert.ErrorIs(t, err, review.ErrInvalidDays)
		var svcErr *review.ServiceError
		assert.False(t, errors.As(err, &svcErr), "range errors are returned as-is")
	})
}

func TestSeededStatesUseSchedulerParams(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	srsService, err := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{InitialEasiness: 2.0}))
	require.NoError(t, err)

	items := &mocks.MockItemStore{}
	states := &mocks.MockReviewStateStore{}
	profiles := &mocks.MockProfileStore{}
	svc := review.NewReviewService(&mocks.InlineTransactor{}, items, states, profiles, srsService,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		review.WithClock(review.ClockFunc(func() time.Time { return fixedNow })))

	unseen := item(t, "風")
	items.On("List", ctx, "").Return([]*domain.Item{unseen}, nil)
	states.On("ListByUser", ctx, userID).Return([]*domain.ReviewState{}, nil)
	profiles.On("Get", ctx, userID).Return(nil, store.ErrProfileNotFound)

	due, _, err := svc.GetDueItems(ctx, userID)

	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.InDelta(t, 2.0, due[0].State.Easiness, 1e-9)
}

func TestServiceError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := &review.ServiceError{Operation: "submit_grade", Message: "failed", Err: inner}
	assert.Equal(t, "submit_grade operation failed: failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := &review.ServiceError{Operation: "postpone", Message: "nope"}
	assert.Equal(t, "postpone operation failed: nope", bare.Error())
}

func TestNewReviewServicePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		review.NewReviewService(nil, &mocks.MockItemStore{}, &mocks.MockReviewStateStore{},
			&mocks.MockProfileStore{}, srs.NewDefaultService(), nil)
	})
}

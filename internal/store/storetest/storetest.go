// Package storetest holds behaviour tests shared by every store backend.
// Each backend supplies a Factory and calls Run from its own _test.go file.
package storetest

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stores bundles the stores under test. All of them must share one database
// (or one transaction) so foreign keys and cascades are observable.
type Stores struct {
	Items    store.ItemStore
	States   store.ReviewStateStore
	Profiles store.ProfileStore
	Quotes   store.QuoteStore
}

// Factory returns fresh, isolated stores for a single subtest.
type Factory func(t *testing.T) Stores

// Run executes the full conformance suite.
func Run(t *testing.T, newStores Factory) {
	t.Run("ItemStore", func(t *testing.T) { testItemStore(t, newStores) })
	t.Run("ReviewStateStore", func(t *testing.T) { testReviewStateStore(t, newStores) })
	t.Run("ProfileStore", func(t *testing.T) { testProfileStore(t, newStores) })
	t.Run("QuoteStore", func(t *testing.T) { testQuoteStore(t, newStores) })
}

func mustItem(t *testing.T, term, meaning, category string) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(term, "", meaning, category)
	require.NoError(t, err)
	// Postgres keeps microseconds; truncate so round trips compare equal.
	item.CreatedAt = item.CreatedAt.Truncate(time.Millisecond)
	item.UpdatedAt = item.CreatedAt
	return item
}

func testItemStore(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newStores(t)
		item := mustItem(t, "水", "water", "nouns")
		item.Reading = "みず"

		require.NoError(t, s.Items.Create(ctx, item))

		got, err := s.Items.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
		assert.Equal(t, "水", got.Term)
		assert.Equal(t, "みず", got.Reading)
		assert.Equal(t, "water", got.Meaning)
		assert.Equal(t, "nouns", got.Category)
		assert.True(t, item.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStores(t)
		_, err := s.Items.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrItemNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("create invalid", func(t *testing.T) {
		s := newStores(t)
		item := mustItem(t, "火", "fire", "")
		item.Meaning = " "
		assert.ErrorIs(t, s.Items.Create(ctx, item), store.ErrInvalidEntity)
	})

	t.Run("create duplicate id", func(t *testing.T) {
		s := newStores(t)
		item := mustItem(t, "木", "tree", "")
		require.NoError(t, s.Items.Create(ctx, item))
		assert.ErrorIs(t, s.Items.Create(ctx, item), store.ErrDuplicate)
	})

	t.Run("create multiple and list by category", func(t *testing.T) {
		s := newStores(t)
		a := mustItem(t, "一", "one", "numbers")
		b := mustItem(t, "二", "two", "numbers")
		c := mustItem(t, "猫", "cat", "animals")
		b.CreatedAt = a.CreatedAt.Add(time.Second)
		c.CreatedAt = a.CreatedAt.Add(2 * time.Second)
		require.NoError(t, s.Items.CreateMultiple(ctx, []*domain.Item{a, b, c}))

		numbers, err := s.Items.List(ctx, "numbers")
		require.NoError(t, err)
		require.Len(t, numbers, 2)
		assert.Equal(t, a.ID, numbers[0].ID)
		assert.Equal(t, b.ID, numbers[1].ID)

		all, err := s.Items.List(ctx, "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 3)
	})

	t.Run("delete cascades to review states", func(t *testing.T) {
		s := newStores(t)
		item := mustItem(t, "犬", "dog", "")
		require.NoError(t, s.Items.Create(ctx, item))

		userID := uuid.New()
		state, err := domain.NewReviewState(userID, item.ID, civil.Date{Year: 2024, Month: 1, Day: 1})
		require.NoError(t, err)
		require.NoError(t, s.States.Create(ctx, state))

		require.NoError(t, s.Items.Delete(ctx, item.ID))

		_, err = s.Items.GetByID(ctx, item.ID)
		assert.ErrorIs(t, err, store.ErrItemNotFound)
		_, err = s.States.Get(ctx, userID, item.ID)
		assert.ErrorIs(t, err, store.ErrReviewStateNotFound)

		assert.ErrorIs(t, s.Items.Delete(ctx, item.ID), store.ErrItemNotFound)
	})
}

func testReviewStateStore(t *testing.T, newStores Factory) {
	ctx := context.Background()
	jan1 := civil.Date{Year: 2024, Month: 1, Day: 1}

	setup := func(t *testing.T) (Stores, *domain.Item, uuid.UUID) {
		s := newStores(t)
		item := mustItem(t, "本", "book", "")
		require.NoError(t, s.Items.Create(ctx, item))
		return s, item, uuid.New()
	}

	t.Run("create and get round trip", func(t *testing.T) {
		s, item, userID := setup(t)
		state, err := domain.NewReviewState(userID, item.ID, jan1)
		require.NoError(t, err)

		require.NoError(t, s.States.Create(ctx, state))

		got, err := s.States.Get(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InitialEasiness, got.Easiness)
		assert.Equal(t, 0, got.Interval)
		assert.Equal(t, 0, got.Repetitions)
		assert.Equal(t, jan1, got.NextReview)
		assert.True(t, got.LastReviewedAt.IsZero())
		assert.False(t, got.Reviewed())
	})

	t.Run("duplicate create", func(t *testing.T) {
		s, item, userID := setup(t)
		state, err := domain.NewReviewState(userID, item.ID, jan1)
		require.NoError(t, err)
		require.NoError(t, s.States.Create(ctx, state))
		assert.ErrorIs(t, s.States.Create(ctx, state), store.ErrDuplicate)
	})

	t.Run("create for unknown item", func(t *testing.T) {
		s := newStores(t)
		state, err := domain.NewReviewState(uuid.New(), uuid.New(), jan1)
		require.NoError(t, err)
		assert.ErrorIs(t, s.States.Create(ctx, state), store.ErrItemNotFound)
	})

	t.Run("update persists schedule", func(t *testing.T) {
		s, item, userID := setup(t)
		state, err := domain.NewReviewState(userID, item.ID, jan1)
		require.NoError(t, err)
		require.NoError(t, s.States.Create(ctx, state))

		reviewedAt := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
		state.Easiness = 2.6
		state.Interval = 6
		state.Repetitions = 2
		state.NextReview = civil.Date{Year: 2024, Month: 1, Day: 7}
		state.LastReviewedAt = reviewedAt
		state.ReviewCount = 2
		state.UpdatedAt = reviewedAt
		require.NoError(t, s.States.Update(ctx, state))

		got, err := s.States.GetForUpdate(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.InDelta(t, 2.6, got.Easiness, 1e-9)
		assert.Equal(t, 6, got.Interval)
		assert.Equal(t, 2, got.Repetitions)
		assert.Equal(t, "2024-01-07", got.NextReview.String())
		assert.True(t, reviewedAt.Equal(got.LastReviewedAt))
		assert.Equal(t, 2, got.ReviewCount)
	})

	t.Run("update missing", func(t *testing.T) {
		s, item, userID := setup(t)
		state, err := domain.NewReviewState(userID, item.ID, jan1)
		require.NoError(t, err)
		assert.ErrorIs(t, s.States.Update(ctx, state), store.ErrReviewStateNotFound)
	})

	t.Run("update rejects malformed state", func(t *testing.T) {
		s, item, userID := setup(t)
		state, err := domain.NewReviewState(userID, item.ID, jan1)
		require.NoError(t, err)
		require.NoError(t, s.States.Create(ctx, state))

		state.Easiness = 1.0
		err = s.States.Update(ctx, state)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("list by user and delete", func(t *testing.T) {
		s, item, userID := setup(t)
		other := mustItem(t, "車", "car", "")
		require.NoError(t, s.Items.Create(ctx, other))

		for _, id := range []uuid.UUID{item.ID, other.ID} {
			state, err := domain.NewReviewState(userID, id, jan1)
			require.NoError(t, err)
			require.NoError(t, s.States.Create(ctx, state))
		}
		stranger, err := domain.NewReviewState(uuid.New(), item.ID, jan1)
		require.NoError(t, err)
		require.NoError(t, s.States.Create(ctx, stranger))

		states, err := s.States.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, states, 2)

		require.NoError(t, s.States.Delete(ctx, userID, item.ID))
		assert.ErrorIs(t, s.States.Delete(ctx, userID, item.ID), store.ErrReviewStateNotFound)

		states, err = s.States.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, states, 1)
	})

	t.Run("list for unknown user is empty", func(t *testing.T) {
		s := newStores(t)
		states, err := s.States.ListByUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, states)
	})
}

func testProfileStore(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStores(t)
		_, err := s.Profiles.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrProfileNotFound)
	})

	t.Run("upsert inserts then updates", func(t *testing.T) {
		s := newStores(t)
		p, err := domain.NewProfile(uuid.New(), 0)
		require.NoError(t, err)
		require.NoError(t, s.Profiles.Upsert(ctx, p))

		got, err := s.Profiles.Get(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultDailyLimit, got.DailyLimit)
		assert.False(t, got.ReminderEnabled)

		p.DailyLimit = 35
		p.ReminderEnabled = true
		p.TelegramChatID = 987654321
		require.NoError(t, s.Profiles.Upsert(ctx, p))

		got, err = s.Profiles.Get(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, 35, got.DailyLimit)
		assert.True(t, got.ReminderEnabled)
		assert.Equal(t, int64(987654321), got.TelegramChatID)
	})

	t.Run("upsert persists progress", func(t *testing.T) {
		s := newStores(t)
		p, err := domain.NewProfile(uuid.New(), 0)
		require.NoError(t, err)
		require.NoError(t, s.Profiles.Upsert(ctx, p))

		got, err := s.Profiles.GetForUpdate(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Level)
		assert.Equal(t, 0, got.Exp)

		p.Level = 3
		p.Exp = 2990
		require.NoError(t, s.Profiles.Upsert(ctx, p))

		got, err = s.Profiles.Get(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Level)
		assert.Equal(t, 2990, got.Exp)
	})

	t.Run("create if missing keeps the existing row", func(t *testing.T) {
		s := newStores(t)
		p, err := domain.NewProfile(uuid.New(), 40)
		require.NoError(t, err)
		require.NoError(t, s.Profiles.CreateIfMissing(ctx, p))

		fresh, err := domain.NewProfile(p.UserID, 0)
		require.NoError(t, err)
		require.NoError(t, s.Profiles.CreateIfMissing(ctx, fresh))

		got, err := s.Profiles.Get(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, 40, got.DailyLimit)
	})

	t.Run("get for update missing", func(t *testing.T) {
		s := newStores(t)
		_, err := s.Profiles.GetForUpdate(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrProfileNotFound)
	})

	t.Run("upsert rejects exp past the level", func(t *testing.T) {
		s := newStores(t)
		p, err := domain.NewProfile(uuid.New(), 0)
		require.NoError(t, err)
		p.Exp = 1000
		assert.ErrorIs(t, s.Profiles.Upsert(ctx, p), store.ErrInvalidEntity)
	})

	t.Run("upsert rejects invalid limit", func(t *testing.T) {
		s := newStores(t)
		p := &domain.Profile{UserID: uuid.New(), DailyLimit: 3}
		assert.ErrorIs(t, s.Profiles.Upsert(ctx, p), store.ErrInvalidEntity)
	})

	t.Run("list reminder enabled", func(t *testing.T) {
		s := newStores(t)
		on, err := domain.NewProfile(uuid.New(), 10)
		require.NoError(t, err)
		on.ReminderEnabled = true
		off, err := domain.NewProfile(uuid.New(), 10)
		require.NoError(t, err)
		require.NoError(t, s.Profiles.Upsert(ctx, on))
		require.NoError(t, s.Profiles.Upsert(ctx, off))

		profiles, err := s.Profiles.ListReminderEnabled(ctx)
		require.NoError(t, err)

		var ids []uuid.UUID
		for _, p := range profiles {
			ids = append(ids, p.UserID)
		}
		assert.Contains(t, ids, on.UserID)
		assert.NotContains(t, ids, off.UserID)
	})
}

func mustQuote(t *testing.T, sentence, kana, category string) *domain.Quote {
	t.Helper()
	q, err := domain.NewQuote(sentence, kana, "", "", category)
	require.NoError(t, err)
	q.CreatedAt = q.CreatedAt.Truncate(time.Millisecond)
	return q
}

func testQuoteStore(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newStores(t)
		q := mustQuote(t, "七転び八起き", "ななころびやおき", "")
		q.Meaning = "fall seven times, stand up eight"
		q.Origin = "proverb"

		require.NoError(t, s.Quotes.Create(ctx, q))

		got, err := s.Quotes.GetByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, "七転び八起き", got.Sentence)
		assert.Equal(t, "ななころびやおき", got.Kana)
		assert.Equal(t, "fall seven times, stand up eight", got.Meaning)
		assert.Equal(t, "proverb", got.Origin)
		assert.Equal(t, domain.DefaultQuoteCategory, got.Category)
		assert.True(t, q.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStores(t)
		_, err := s.Quotes.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrQuoteNotFound)
	})

	t.Run("create multiple validates first", func(t *testing.T) {
		s := newStores(t)
		good := mustQuote(t, "猿も木から落ちる", "さるもきからおちる", "")
		bad := mustQuote(t, "花より団子", "はなよりだんご", "")
		bad.Kana = "。"

		assert.ErrorIs(t, s.Quotes.CreateMultiple(ctx, []*domain.Quote{good, bad}), store.ErrInvalidEntity)
		_, err := s.Quotes.GetByID(ctx, good.ID)
		assert.ErrorIs(t, err, store.ErrQuoteNotFound)
	})

	t.Run("list by category and delete", func(t *testing.T) {
		s := newStores(t)
		a := mustQuote(t, "石の上にも三年", "いしのうえにもさんねん", "proverbs")
		b := mustQuote(t, "一期一会", "いちごいちえ", "idioms")
		require.NoError(t, s.Quotes.CreateMultiple(ctx, []*domain.Quote{a, b}))

		all, err := s.Quotes.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		proverbs, err := s.Quotes.List(ctx, "proverbs")
		require.NoError(t, err)
		require.Len(t, proverbs, 1)
		assert.Equal(t, a.ID, proverbs[0].ID)

		require.NoError(t, s.Quotes.Delete(ctx, a.ID))
		assert.ErrorIs(t, s.Quotes.Delete(ctx, a.ID), store.ErrQuoteNotFound)
	})
}

package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/store"
	"github.com/phrazzld/kioku/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "kioku.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db.DB, "up"))
	return db
}

func newStores(db *sqlx.DB) storetest.Stores {
	return storetest.Stores{
		Items:    NewItemStore(db, nil),
		States:   NewReviewStateStore(db, nil),
		Profiles: NewProfileStore(db, nil),
		Quotes:   NewQuoteStore(db, nil),
	}
}

func TestSQLiteStores(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Stores {
		return newStores(openTestDB(t))
	})
}

func TestSQLiteStoresInTransaction(t *testing.T) {
	db := openTestDB(t)
	s := newStores(db)
	ctx := context.Background()

	item, err := domain.NewItem("雨", "あめ", "rain", "")
	require.NoError(t, err)
	userID := uuid.New()

	err = store.RunInTransaction(ctx, db.DB, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.Items.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		state, err := domain.NewReviewState(userID, item.ID, civil.Date{Year: 2024, Month: 3, Day: 1})
		if err != nil {
			return err
		}
		if err := s.States.WithTx(tx).Create(ctx, state); err != nil {
			return err
		}
		locked, err := s.States.WithTx(tx).GetForUpdate(ctx, userID, item.ID)
		if err != nil {
			return err
		}
		locked.Repetitions = 1
		locked.Interval = 1
		return s.States.WithTx(tx).Update(ctx, locked)
	})
	require.NoError(t, err)

	got, err := s.States.Get(ctx, userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Repetitions)
}

func TestSQLiteTransactionRollback(t *testing.T) {
	db := openTestDB(t)
	s := newStores(db)
	ctx := context.Background()

	item, err := domain.NewItem("雪", "ゆき", "snow", "")
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, db.DB, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.Items.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = s.Items.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestMalformedStoredState(t *testing.T) {
	db := openTestDB(t)
	s := newStores(db)
	ctx := context.Background()

	item, err := domain.NewItem("風", "かぜ", "wind", "")
	require.NoError(t, err)
	require.NoError(t, s.Items.Create(ctx, item))
	userID := uuid.New()
	state, err := domain.NewReviewState(userID, item.ID, civil.Date{Year: 2024, Month: 3, Day: 1})
	require.NoError(t, err)
	require.NoError(t, s.States.Create(ctx, state))

	// Bypass validation: repetitions without an interval.
	_, err = db.Exec(`UPDATE review_states SET repetitions = 2, interval_days = 0 WHERE user_id = ?`, userID.String())
	require.NoError(t, err)

	_, err = s.States.Get(ctx, userID, item.ID)
	assert.ErrorIs(t, err, domain.ErrMalformedState)
}

func TestWithPragmas(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a.db?_foreign_keys=on&_busy_timeout=5000", withPragmas("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000", withPragmas("file:a.db?mode=rwc"))
}

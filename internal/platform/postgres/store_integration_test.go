//go:build integration

package postgres_test

import (
	"database/sql"
	"testing"

	"github.com/phrazzld/kioku/internal/platform/postgres"
	"github.com/phrazzld/kioku/internal/store/storetest"
	"github.com/phrazzld/kioku/internal/testdb"
)

// TestPostgresStores runs the shared store suite with every subtest inside
// its own rolled-back transaction.
func TestPostgresStores(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	storetest.Run(t, func(t *testing.T) storetest.Stores {
		t.Helper()
		tx, err := db.Begin()
		if err != nil {
			t.Fatalf("failed to begin transaction: %v", err)
		}
		t.Cleanup(func() { _ = tx.Rollback() })
		return newStores(tx)
	})
}

func newStores(tx *sql.Tx) storetest.Stores {
	return storetest.Stores{
		Items:    postgres.NewPostgresItemStore(tx, nil),
		States:   postgres.NewPostgresReviewStateStore(tx, nil),
		Profiles: postgres.NewPostgresProfileStore(tx, nil),
		Quotes:   postgres.NewPostgresQuoteStore(tx, nil),
	}
}

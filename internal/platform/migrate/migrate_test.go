package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMigrations = fstest.MapFS{
	"00001_create_words.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE words (id INTEGER PRIMARY KEY, term TEXT NOT NULL);

-- +goose Down
DROP TABLE words;
`)},
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestRun_UpAndDown(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, "sqlite3", testMigrations, "up"))
	assert.True(t, tableExists(t, db, "words"))
	assert.True(t, tableExists(t, db, TableName))

	// up is idempotent
	require.NoError(t, Run(ctx, db, "sqlite3", testMigrations, "up"))

	require.NoError(t, Run(ctx, db, "sqlite3", testMigrations, "status"))
	require.NoError(t, Run(ctx, db, "sqlite3", testMigrations, "version"))

	require.NoError(t, Run(ctx, db, "sqlite3", testMigrations, "down"))
	assert.False(t, tableExists(t, db, "words"))
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()
	db := openDB(t)

	err := Run(context.Background(), db, "sqlite3", testMigrations, "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestRun_UnknownDialect(t *testing.T) {
	t.Parallel()
	db := openDB(t)

	err := Run(context.Background(), db, "oracle-ish", testMigrations, "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set dialect")
}

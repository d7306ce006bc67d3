package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/phrazzld/kioku/internal/platform/migrate"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrations returns the embedded PostgreSQL schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Migrate applies a goose command ("up", "down", "status", ...) to db.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	return migrate.Run(ctx, db, "postgres", Migrations(), command)
}

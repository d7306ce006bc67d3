package sqlite

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrations returns the embedded SQLite schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

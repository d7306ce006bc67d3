package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/kioku/internal/config"
	"github.com/phrazzld/kioku/internal/platform/postgres"
	"github.com/phrazzld/kioku/internal/platform/sqlite"
	"github.com/phrazzld/kioku/internal/redact"
	"github.com/phrazzld/kioku/internal/store"
)

// storage bundles one backend's connection, stores and migration runner.
type storage struct {
	driver   string
	db       *sql.DB
	items    store.ItemStore
	states   store.ReviewStateStore
	profiles store.ProfileStore
	quotes   store.QuoteStore
	migrate  func(ctx context.Context, db *sql.DB, command string) error
}

// openStorage connects to the configured backend and builds its stores.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	switch cfg.Driver {
	case "postgres":
		return openPostgres(ctx, cfg.URL, logger)
	case sqlite.DriverName:
		return openSQLite(ctx, cfg.URL, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, url string, logger *slog.Logger) (*storage, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	logger.Info("database connection established", slog.String("driver", "postgres"))
	return &storage{
		driver:   "postgres",
		db:       db,
		items:    postgres.NewPostgresItemStore(db, logger),
		states:   postgres.NewPostgresReviewStateStore(db, logger),
		profiles: postgres.NewPostgresProfileStore(db, logger),
		quotes:   postgres.NewPostgresQuoteStore(db, logger),
		migrate:  postgres.Migrate,
	}, nil
}

func openSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*storage, error) {
	db, err := sqlite.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	logger.Info("database connection established", slog.String("driver", sqlite.DriverName))
	return &storage{
		driver:   sqlite.DriverName,
		db:       db.DB,
		items:    sqlite.NewItemStore(db, logger),
		states:   sqlite.NewReviewStateStore(db, logger),
		profiles: sqlite.NewProfileStore(db, logger),
		quotes:   sqlite.NewQuoteStore(db, logger),
		migrate:  sqlite.Migrate,
	}, nil
}

func closeStorage(st *storage, logger *slog.Logger) {
	if err := st.db.Close(); err != nil {
		logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}

// handleMigrations runs a single migration command against the open backend.
func handleMigrations(ctx context.Context, st *storage, command string, logger *slog.Logger) error {
	logger.Info("executing migrations",
		slog.String("command", command),
		slog.String("driver", st.driver))

	if err := st.migrate(ctx, st.db, command); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}

	logger.Info("migrations finished", slog.String("command", command))
	return nil
}

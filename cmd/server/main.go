// Package main implements the kioku API server: spaced-repetition review of
// a shared vocabulary catalog, with optional daily reminders.
//
// Flags select one-shot maintenance modes instead of serving:
//
//	-migrate up|down|reset|status|version   run database migrations
//	-import <file> [-import-user <uuid>]     import an xlsx, csv or legacy json vocabulary file
//	-import-quotes <file>                    import a json typing-practice catalog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
)

type cliFlags struct {
	migrate      string
	importPath   string
	importUser   string
	importSheet  string
	importHeader bool
	quotesPath   string
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("kioku", flag.ContinueOnError)
	fs.StringVar(&f.migrate, "migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	fs.StringVar(&f.importPath, "import", "", "import a vocabulary file (.xlsx, .csv, .json) and exit")
	fs.StringVar(&f.importUser, "import-user", "", "attach legacy json review progress to this user ID")
	fs.StringVar(&f.importSheet, "import-sheet", "", "xlsx sheet to read (default: first sheet)")
	fs.BoolVar(&f.importHeader, "import-header", true, "skip the first spreadsheet row")
	fs.StringVar(&f.quotesPath, "import-quotes", "", "import a typing-practice quote catalog (.json) and exit")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	modes := 0
	for _, set := range []bool{f.migrate != "", f.importPath != "", f.quotesPath != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return f, fmt.Errorf("-migrate, -import and -import-quotes cannot be combined")
	}
	if f.importUser != "" {
		if _, err := uuid.Parse(f.importUser); err != nil {
			return f, fmt.Errorf("invalid -import-user: %w", err)
		}
	}
	return f, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("kioku exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	if flags.migrate != "" {
		defer closeStorage(st, logger)
		return handleMigrations(ctx, st, flags.migrate, logger)
	}

	app, err := newApplication(cfg, logger, st)
	if err != nil {
		closeStorage(st, logger)
		return err
	}

	if flags.importPath != "" {
		defer app.cleanup()
		return app.importFile(ctx, flags)
	}
	if flags.quotesPath != "" {
		defer app.cleanup()
		return app.importQuotes(ctx, flags.quotesPath)
	}

	return app.Run(ctx)
}

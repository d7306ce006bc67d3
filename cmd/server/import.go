package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/importer"
)

// importFile parses a vocabulary file and stores its items (and legacy
// review progress) in one transaction.
func (app *application) importFile(ctx context.Context, flags cliFlags) error {
	format, err := importer.FormatFromPath(flags.importPath)
	if err != nil {
		return err
	}

	var userID uuid.UUID
	if flags.importUser != "" {
		userID = uuid.MustParse(flags.importUser)
	}

	f, err := os.Open(flags.importPath)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	result, err := importer.Import(ctx, f, format, importer.Options{
		UserID:    userID,
		Today:     domain.Today(time.Now(), app.location),
		SheetName: flags.importSheet,
		HasHeader: flags.importHeader,
	})
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", flags.importPath, err)
	}

	for _, msg := range result.Errors {
		app.logger.Warn("import row skipped", slog.String("detail", msg))
	}

	if err := app.itemService.ImportItems(ctx, result.Items, result.States); err != nil {
		return fmt.Errorf("failed to store imported items: %w", err)
	}

	app.logger.Info("import complete",
		slog.String("file", flags.importPath),
		slog.String("format", string(format)),
		slog.Int("processed", result.Processed),
		slog.Int("imported", len(result.Items)),
		slog.Int("states", len(result.States)),
		slog.Int("skipped", result.Skipped),
		slog.Int("due_today", result.DueToday))
	return nil
}

// importQuotes parses a quotes.json catalog and stores it in one transaction.
func (app *application) importQuotes(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open quote file: %w", err)
	}
	defer f.Close()

	result, err := importer.ImportQuotes(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, msg := range result.Errors {
		app.logger.Warn("quote skipped", slog.String("detail", msg))
	}

	if err := app.practiceService.ImportQuotes(ctx, result.Quotes); err != nil {
		return fmt.Errorf("failed to store imported quotes: %w", err)
	}

	app.logger.Info("quote import complete",
		slog.String("file", path),
		slog.Int("processed", result.Processed),
		slog.Int("imported", len(result.Quotes)),
		slog.Int("skipped", result.Skipped))
	return nil
}

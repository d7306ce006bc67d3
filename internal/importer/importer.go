package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
)

// Format names a supported input format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for unknown formats or file extensions.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Options controls an import.
type Options struct {
	// UserID receives the review progress found in legacy JSON. Nil imports items only.
	UserID uuid.UUID
	// Today is used to report how many imported states are already due.
	// The zero value means the current UTC date.
	Today civil.Date
	// SheetName selects the xlsx sheet. Empty means the first sheet.
	SheetName string
	// HasHeader skips the first spreadsheet row.
	HasHeader bool
	// DefaultCategory applies to rows without a category.
	DefaultCategory string
}

// Result is the outcome of an import. Rows listed in Errors were skipped.
type Result struct {
	Items     []*domain.Item
	States    []*domain.ReviewState
	Processed int
	Skipped   int
	DueToday  int
	Errors    []string
}

func (r *Result) skip(row int, format string, args ...interface{}) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: ", row)+fmt.Sprintf(format, args...))
}

// Import parses r in the given format.
func Import(ctx context.Context, r io.Reader, format Format, opts Options) (*Result, error) {
	if !opts.Today.IsValid() {
		opts.Today = domain.Today(time.Now(), time.UTC)
	}

	switch format {
	case FormatXLSX:
		rows, err := readXLSX(r, opts.SheetName)
		if err != nil {
			return nil, err
		}
		return importRows(ctx, rows, opts)
	case FormatCSV:
		rows, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		return importRows(ctx, rows, opts)
	case FormatJSON:
		return importLegacyJSON(ctx, r, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// importRows turns spreadsheet rows into items. Columns: term, reading, meaning, category.
func importRows(ctx context.Context, rows [][]string, opts Options) (*Result, error) {
	res := &Result{}
	seen := make(map[string]int)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum := i + 1
		if i == 0 && opts.HasHeader {
			continue
		}
		if isBlank(row) {
			continue
		}
		res.Processed++

		term, reading, meaning, category := cell(row, 0), cell(row, 1), cell(row, 2), cell(row, 3)
		if category == "" {
			category = opts.DefaultCategory
		}

		key := term + "\x00" + reading
		if first, dup := seen[key]; dup {
			res.skip(rowNum, "duplicate of row %d", first)
			continue
		}

		item, err := domain.NewItem(term, reading, meaning, category)
		if err != nil {
			res.skip(rowNum, "%v", err)
			continue
		}
		seen[key] = rowNum
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/domain/srs"
)

// legacyNamespace derives stable item IDs from legacy IDs, so importing the
// same file twice collides instead of duplicating the catalog.
var legacyNamespace = uuid.MustParse("6f1c1f0e-0a53-4d8e-9a55-2c1d0f6b7a41")

// legacyRecord is one entry of the legacy vocabulary list.
type legacyRecord struct {
	ID          json.RawMessage `json:"id"`
	Kanji       string          `json:"kanji"`
	Kana        string          `json:"kana"`
	Meaning     string          `json:"meaning"`
	Category    string          `json:"category"`
	NextReview  string          `json:"next_review"`
	Interval    *int            `json:"interval"`
	Repetitions *int            `json:"repetitions"`
	Easiness    *float64        `json:"easiness"`
}

// NextReviewISO implements srs.ISODated.
func (r legacyRecord) NextReviewISO() string {
	return r.NextReview
}

// LegacyItemID returns the catalog ID a legacy record ID maps to.
func LegacyItemID(legacyID string) uuid.UUID {
	return uuid.NewSHA1(legacyNamespace, []byte("legacy:"+legacyID))
}

func importLegacyJSON(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	var records []legacyRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode legacy vocabulary: %w", err)
	}

	res := &Result{}
	var withState []legacyRecord
	seen := make(map[uuid.UUID]int)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum := i + 1
		res.Processed++

		category := rec.Category
		if category == "" {
			category = opts.DefaultCategory
		}
		item, err := domain.NewItem(strings.TrimSpace(rec.Kanji), strings.TrimSpace(rec.Kana),
			strings.TrimSpace(rec.Meaning), category)
		if err != nil {
			res.skip(rowNum, "%v", err)
			continue
		}
		if id := legacyID(rec.ID); id != "" {
			item.ID = LegacyItemID(id)
		}
		if first, dup := seen[item.ID]; dup {
			res.skip(rowNum, "duplicate id of record %d", first)
			continue
		}

		var state *domain.ReviewState
		if opts.UserID != uuid.Nil && rec.NextReview != "" {
			state, err = legacyState(opts.UserID, item.ID, rec)
			if err != nil {
				res.skip(rowNum, "%v", err)
				continue
			}
		}

		seen[item.ID] = rowNum
		res.Items = append(res.Items, item)
		if state != nil {
			res.States = append(res.States, state)
			withState = append(withState, rec)
		}
	}

	// Dates were validated above, so the string comparison is chronological.
	res.DueToday = len(srs.SelectDueISO(withState, domain.FormatDate(opts.Today)))
	return res, nil
}

func legacyID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}

func legacyState(userID, itemID uuid.UUID, rec legacyRecord) (*domain.ReviewState, error) {
	next, err := domain.ParseDate(rec.NextReview)
	if err != nil {
		return nil, fmt.Errorf("next_review: %w", err)
	}

	state, err := domain.NewReviewState(userID, itemID, next)
	if err != nil {
		return nil, err
	}
	if rec.Interval != nil {
		state.Interval = *rec.Interval
	}
	if rec.Repetitions != nil {
		state.Repetitions = *rec.Repetitions
		state.ReviewCount = *rec.Repetitions
	}
	if rec.Easiness != nil {
		state.Easiness = *rec.Easiness
	}
	if err := domain.ValidateSchedule(state.Interval, state.Repetitions, state.Easiness, domain.MinEasiness); err != nil {
		return nil, err
	}
	return state, nil
}

package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
)

var quoteNamespace = uuid.MustParse("0d6a3c52-5b0e-4f0b-8f7e-93e1b1c4a2d7")

// quoteRecord is one entry of a quotes.json practice catalog.
type quoteRecord struct {
	Sentence string `json:"sentence"`
	Kana     string `json:"kana"`
	Meaning  string `json:"meaning"`
	Origin   string `json:"origin"`
	Category string `json:"category"`
}

// QuoteResult is the outcome of a quote import. Records listed in Errors were skipped.
type QuoteResult struct {
	Quotes    []*domain.Quote
	Processed int
	Skipped   int
	Errors    []string
}

// QuoteID returns the stable ID of a quote, so importing the same catalog
// twice collides instead of duplicating it.
func QuoteID(sentence string) uuid.UUID {
	return uuid.NewSHA1(quoteNamespace, []byte("quote:"+domain.NormalizeTyping(sentence)))
}

// ImportQuotes parses a JSON array of practice quotes. Records without a
// category fall into domain.DefaultQuoteCategory.
func ImportQuotes(ctx context.Context, r io.Reader) (*QuoteResult, error) {
	var records []quoteRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}

	res := &QuoteResult{}
	seen := make(map[uuid.UUID]int)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum := i + 1
		res.Processed++

		q, err := domain.NewQuote(rec.Sentence, rec.Kana, rec.Meaning, rec.Origin, rec.Category)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: %v", rowNum, err))
			continue
		}
		q.ID = QuoteID(q.Sentence)
		if first, dup := seen[q.ID]; dup {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: duplicate of record %d", rowNum, first))
			continue
		}
		seen[q.ID] = rowNum
		res.Quotes = append(res.Quotes, q)
	}
	return res, nil
}

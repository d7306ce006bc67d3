package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quotesJSON = `[
  {"sentence": "七転び八起き", "kana": "ななころびやおき", "meaning": "fall seven times, stand up eight", "origin": "proverb"},
  {"sentence": "今日はいい天気ですね。", "kana": "きょうはいいてんきですね", "category": "Daily"},
  {"sentence": "七転び 八起き", "kana": "ななころびやおき"},
  {"sentence": "", "kana": "なし"}
]`

func TestImportQuotes(t *testing.T) {
	res, err := importer.ImportQuotes(context.Background(), strings.NewReader(quotesJSON))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Quotes, 2)
	assert.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "record 3: duplicate of record 1")

	first := res.Quotes[0]
	assert.Equal(t, domain.DefaultQuoteCategory, first.Category)
	assert.Equal(t, "proverb", first.Origin)
	assert.Equal(t, importer.QuoteID("七転び八起き"), first.ID)
	assert.Equal(t, "Daily", res.Quotes[1].Category)
}

func TestImportQuotesStableIDs(t *testing.T) {
	a, err := importer.ImportQuotes(context.Background(), strings.NewReader(quotesJSON))
	require.NoError(t, err)
	b, err := importer.ImportQuotes(context.Background(), strings.NewReader(quotesJSON))
	require.NoError(t, err)

	assert.Equal(t, a.Quotes[1].ID, b.Quotes[1].ID)
}

func TestImportQuotesMalformed(t *testing.T) {
	_, err := importer.ImportQuotes(context.Background(), strings.NewReader(`{"sentence": "x"}`))
	assert.Error(t, err)
}

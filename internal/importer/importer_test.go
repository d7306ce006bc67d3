package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var today = civil.Date{Year: 2024, Month: 3, Day: 10}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]importer.Format{
		"vocab.XLSX":      importer.FormatXLSX,
		"/tmp/words.csv":  importer.FormatCSV,
		"data/vocab.json": importer.FormatJSON,
	}
	for path, want := range tests {
		got, err := importer.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got)
	}

	_, err := importer.FormatFromPath("notes.txt")
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
}

func TestImportCSV(t *testing.T) {
	input := strings.Join([]string{
		"term,reading,meaning,category",
		"猫,ねこ,cat,animals",
		"犬,いぬ,dog",
		"猫,ねこ,cat again,animals",
		",,no term,",
		`"水", "みず", "water", "nature"`,
	}, "\n")

	res, err := importer.Import(context.Background(), strings.NewReader(input), importer.FormatCSV,
		importer.Options{HasHeader: true, DefaultCategory: "jlpt-n5"})

	require.NoError(t, err)
	assert.Equal(t, 5, res.Processed)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "animals", res.Items[0].Category)
	assert.Equal(t, "jlpt-n5", res.Items[1].Category)
	assert.Equal(t, "水", res.Items[2].Term)
	assert.Equal(t, "nature", res.Items[2].Category)
	assert.Contains(t, res.Errors[0], "row 4: duplicate of row 2")
	assert.Contains(t, res.Errors[1], "row 5:")
	assert.Empty(t, res.States)
}

func TestImportXLSX(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"term", "reading", "meaning", "category"},
		{"火", "ひ", "fire", "nature"},
		{"木", "き", "tree"},
		{"金", "", ""},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	res, err := importer.Import(context.Background(), &buf, importer.FormatXLSX, importer.Options{HasHeader: true})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "fire", res.Items[0].Meaning)
	assert.Equal(t, domain.DefaultCategory, res.Items[1].Category)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportXLSXMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := importer.Import(context.Background(), &buf, importer.FormatXLSX, importer.Options{SheetName: "Nope"})
	assert.Error(t, err)
}

const legacyJSON = `[
  {"id": 1, "kanji": "日", "kana": "ひ", "meaning": "sun", "next_review": "2024-03-09", "interval": 6, "repetitions": 2, "easiness": 2.6},
  {"id": "2", "kanji": "月", "kana": "つき", "meaning": "moon", "next_review": "2024-03-10", "interval": 1, "repetitions": 1, "easiness": 2.5},
  {"id": 3, "kanji": "星", "kana": "ほし", "meaning": "star", "next_review": "2024-03-20", "interval": 15, "repetitions": 3, "easiness": 2.7},
  {"id": 4, "kanji": "空", "kana": "そら", "meaning": "sky", "next_review": "2024-3-1"},
  {"id": 5, "kanji": "雨", "kana": "あめ", "meaning": "rain", "next_review": "2024-03-01", "easiness": 1.1},
  {"id": 6, "kanji": "雪", "kana": "ゆき", "meaning": "snow"},
  {"id": 1, "kanji": "日", "kana": "にち", "meaning": "day"}
]`

func TestImportLegacyJSONWithUser(t *testing.T) {
	userID := uuid.New()

	res, err := importer.Import(context.Background(), strings.NewReader(legacyJSON), importer.FormatJSON,
		importer.Options{UserID: userID, Today: today})

	require.NoError(t, err)
	assert.Equal(t, 7, res.Processed)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Items, 4)
	require.Len(t, res.States, 3)
	assert.Equal(t, 2, res.DueToday)

	sun := res.States[0]
	assert.Equal(t, userID, sun.UserID)
	assert.Equal(t, importer.LegacyItemID("1"), sun.ItemID)
	assert.Equal(t, res.Items[0].ID, sun.ItemID)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 9}, sun.NextReview)
	assert.Equal(t, 6, sun.Interval)
	assert.Equal(t, 2, sun.Repetitions)
	assert.Equal(t, 2.6, sun.Easiness)

	assert.Equal(t, importer.LegacyItemID("2"), res.Items[1].ID)
	assert.Equal(t, "雪", res.Items[3].Term)

	joined := strings.Join(res.Errors, "\n")
	assert.Contains(t, joined, "row 4: next_review")
	assert.Contains(t, joined, "row 5:")
	assert.Contains(t, joined, "row 7: duplicate id of record 1")
}

func TestImportLegacyJSONItemsOnly(t *testing.T) {
	res, err := importer.Import(context.Background(), strings.NewReader(legacyJSON), importer.FormatJSON,
		importer.Options{Today: today})

	require.NoError(t, err)
	assert.Len(t, res.Items, 6)
	assert.Empty(t, res.States)
	assert.Zero(t, res.DueToday)
}

func TestImportLegacyJSONMalformed(t *testing.T) {
	_, err := importer.Import(context.Background(), strings.NewReader(`{"not": "a list"}`), importer.FormatJSON, importer.Options{})
	assert.Error(t, err)
}

func TestImportHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := importer.Import(ctx, strings.NewReader("a,b,c\n"), importer.FormatCSV, importer.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportUnknownFormat(t *testing.T) {
	_, err := importer.Import(context.Background(), strings.NewReader(""), importer.Format("yaml"), importer.Options{})
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
}

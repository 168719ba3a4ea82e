package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"artref/internal/sheet"
)

// ErrMissingColumn is returned when the sheet lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

var multiValueSeparator = regexp.MustCompile(`\s*(?:;|,|/|\|)\s*`)

// SplitMulti splits a multi-valued cell on ";", ",", "/" or "|". Segments are
// trimmed and empty segments dropped; the result is never nil.
func SplitMulti(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}
	parts := multiValueSeparator.Split(value, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeYear parses value as an integer year. Strings must hold a base-10
// integer after trimming; floats are truncated toward zero. Anything else,
// including nil, blank, NaN and infinities, yields nil.
func NormalizeYear(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case sheet.Cell:
		if v.IsNumber {
			return yearFromFloat(v.Number)
		}
		return NormalizeYear(v.Text)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &n
	case int:
		return &v
	case int64:
		return yearFromFloat(float64(v))
	case float64:
		return yearFromFloat(v)
	case float32:
		return yearFromFloat(float64(v))
	default:
		return nil
	}
}

func yearFromFloat(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(f)
	return &n
}

// Normalize maps every data row of table to an Artwork, preserving row order.
// It fails before producing any record when a required column is absent.
func Normalize(table *sheet.Table) ([]Artwork, error) {
	if table == nil {
		return nil, errors.New("normalize: nil table")
	}
	if missing := table.Missing(RequiredColumns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	rows := table.Records()
	artworks := make([]Artwork, 0, len(rows))
	for _, row := range rows {
		artworks = append(artworks, normalizeRow(row))
	}
	return artworks, nil
}

func normalizeRow(row sheet.Row) Artwork {
	year, _ := row.Get(ColumnYear)
	return Artwork{
		ID:         scalar(row, ColumnID),
		Title:      scalar(row, ColumnTitle),
		Artist:     scalar(row, ColumnArtist),
		Year:       NormalizeYear(year),
		Periods:    SplitMulti(scalar(row, ColumnPeriod)),
		Subjects:   SplitMulti(scalar(row, ColumnSubject)),
		Techniques: SplitMulti(scalar(row, ColumnTechnique)),
		ImagePath:  scalar(row, ColumnImagePath),
		Museum:     scalar(row, ColumnMuseum),
		License:    scalar(row, ColumnLicense),
		SourceURL:  scalar(row, ColumnSourceURL),
	}
}

func scalar(row sheet.Row, column string) string {
	cell, _ := row.Get(column)
	return strings.TrimSpace(cell.String())
}

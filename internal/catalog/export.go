package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"artref/internal/fileutil"
	"artref/internal/logging"
	"artref/internal/sheet"
)

// Options selects the spreadsheet to read and where to write the catalog.
type Options struct {
	Input  string
	Output string
	Sheet  string
}

// Result describes a completed export.
type Result struct {
	Count    int
	Output   string
	Sheet    string
	Duration time.Duration
}

// Load reads and normalizes the input sheet without writing anything.
func Load(opts Options) ([]Artwork, string, error) {
	if strings.TrimSpace(opts.Input) == "" {
		return nil, "", errors.New("catalog input path is empty")
	}
	table, err := sheet.Open(opts.Input, sheet.Options{Sheet: opts.Sheet})
	if err != nil {
		return nil, "", err
	}
	artworks, err := Normalize(table)
	if err != nil {
		return nil, table.Name, fmt.Errorf("%s: %w", opts.Input, err)
	}
	return artworks, table.Name, nil
}

// Export reads the input sheet, normalizes every row and replaces the output
// file with the full JSON array. Nothing is written unless every row was
// normalized.
func Export(opts Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "catalog")
	if strings.TrimSpace(opts.Output) == "" {
		return Result{}, errors.New("catalog output path is empty")
	}

	start := time.Now()
	artworks, sheetName, err := Load(opts)
	if err != nil {
		logging.ErrorWithContext(logger, "catalog export failed", "catalog_failed",
			logging.String(logging.FieldPath, opts.Input),
			logging.String(logging.FieldErrorHint, "check the header row of the input sheet"),
			logging.Error(err),
		)
		return Result{}, err
	}

	if err := fileutil.WriteAtomic(opts.Output, 0o644, func(w io.Writer) error {
		return Encode(w, artworks)
	}); err != nil {
		return Result{}, fmt.Errorf("write catalog %s: %w", opts.Output, err)
	}

	result := Result{
		Count:    len(artworks),
		Output:   opts.Output,
		Sheet:    sheetName,
		Duration: time.Since(start),
	}
	logger.Info("catalog exported",
		logging.String(logging.FieldEventType, "catalog_exported"),
		logging.Int("records", result.Count),
		logging.String("sheet", sheetName),
		logging.String("input", opts.Input),
		logging.String("output", opts.Output),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

// Encode writes artworks as an indented JSON array. Non-ASCII text and HTML
// characters are written as-is.
func Encode(w io.Writer, artworks []Artwork) error {
	if artworks == nil {
		artworks = []Artwork{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(artworks)
}

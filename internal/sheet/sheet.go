package sheet

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when the file extension has no reader.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrSheetNotFound is returned when a named sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrEmpty is returned when the sheet has no header row.
	ErrEmpty = errors.New("sheet has no header row")
)

// Cell is a single spreadsheet value. Numeric cells keep their number next
// to the displayed text.
type Cell struct {
	Text     string
	Number   float64
	IsNumber bool
}

// TextCell returns a text-only cell.
func TextCell(text string) Cell {
	return Cell{Text: text}
}

// NumberCell returns a numeric cell whose text is the canonical rendering of n.
func NumberCell(n float64) Cell {
	return Cell{Text: FormatNumber(n), Number: n, IsNumber: true}
}

// Blank reports whether the cell holds no value.
func (c Cell) Blank() bool {
	return !c.IsNumber && strings.TrimSpace(c.Text) == ""
}

// String returns the cell value as text. Numeric cells render their number
// canonically rather than the formatted display text.
func (c Cell) String() string {
	if c.IsNumber {
		return FormatNumber(c.Number)
	}
	return c.Text
}

// FormatNumber renders integral values without a fractional part.
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return ""
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Row is one data row keyed by header name.
type Row struct {
	header map[string]int
	cells  []Cell
}

// Get returns the cell under column. Cells missing from a short row are blank.
func (r Row) Get(column string) (Cell, bool) {
	idx, ok := r.header[column]
	if !ok {
		return Cell{}, false
	}
	if idx >= len(r.cells) {
		return Cell{}, true
	}
	return r.cells[idx], true
}

// Table is a header row followed by data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]Cell
}

// Columns returns the trimmed header names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.Header))
	for i, name := range t.Header {
		out[i] = strings.TrimSpace(name)
	}
	return out
}

// Missing returns the required columns absent from the header, in order.
func (t *Table) Missing(required []string) []string {
	present := make(map[string]struct{}, len(t.Header))
	for _, name := range t.Columns() {
		present[name] = struct{}{}
	}
	var missing []string
	for _, name := range required {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Records returns the data rows in sheet order.
func (t *Table) Records() []Row {
	header := make(map[string]int, len(t.Header))
	for i, name := range t.Columns() {
		if name == "" {
			continue
		}
		if _, dup := header[name]; dup {
			continue
		}
		header[name] = i
	}
	rows := make([]Row, 0, len(t.Rows))
	for _, cells := range t.Rows {
		rows = append(rows, Row{header: header, cells: cells})
	}
	return rows
}

// Options selects what to read from a workbook.
type Options struct {
	// Sheet names the sheet to read. Empty selects the first sheet.
	Sheet string
}

// Supported reports whether Open has a reader for the extension of path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ods", ".xlsx", ".xlsm", ".csv", ".tsv":
		return true
	default:
		return false
	}
}

// Open reads the first (or named) sheet of the spreadsheet at path. The
// reader is chosen from the file extension.
func Open(path string, opts Options) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		table *Table
		err   error
	)
	switch ext {
	case ".ods":
		table, err = readODS(path, opts)
	case ".xlsx", ".xlsm":
		table, err = readXLSX(path, opts)
	case ".csv":
		table, err = readDelimited(path, ',')
	case ".tsv":
		table, err = readDelimited(path, '\t')
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// fromRows splits raw rows into header and data, dropping fully blank rows.
func fromRows(name string, raw [][]Cell) (*Table, error) {
	var (
		header []string
		rows   [][]Cell
	)
	for _, cells := range raw {
		if blankRow(cells) {
			continue
		}
		if header == nil {
			header = make([]string, len(cells))
			for i, c := range cells {
				header[i] = c.String()
			}
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, ErrEmpty
	}
	return &Table{Name: name, Header: header, Rows: rows}, nil
}

func blankRow(cells []Cell) bool {
	for _, c := range cells {
		if !c.Blank() {
			return false
		}
	}
	return true
}

package sheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports add it.
const utf8BOM = "\ufeff"

func readDelimited(path string, comma rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}

	raw := make([][]Cell, 0, len(records))
	for i, record := range records {
		cells := make([]Cell, len(record))
		for j, value := range record {
			if i == 0 && j == 0 {
				value = strings.TrimPrefix(value, utf8BOM)
			}
			cells[j] = TextCell(value)
		}
		raw = append(raw, cells)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fromRows(name, raw)
}

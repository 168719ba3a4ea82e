package sheet

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

func readXLSX(path string, opts Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := opts.Sheet
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmpty
		}
		name = sheets[0]
	} else if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	values, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows of %q: %w", name, err)
	}

	raw := make([][]Cell, 0, len(values))
	for r, row := range values {
		cells := make([]Cell, len(row))
		for c, value := range row {
			cells[c] = xlsxCell(f, name, c+1, r+1, value)
		}
		raw = append(raw, cells)
	}
	return fromRows(name, raw)
}

// xlsxCell keeps the number of a numeric cell. Text cells that merely look
// numeric stay text.
func xlsxCell(f *excelize.File, sheetName string, col, row int, value string) Cell {
	if value == "" {
		return Cell{}
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return TextCell(value)
	}
	kind, err := f.GetCellType(sheetName, axis)
	if err != nil {
		return TextCell(value)
	}
	switch kind {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TextCell(value)
		}
		return NumberCell(n)
	default:
		return TextCell(value)
	}
}

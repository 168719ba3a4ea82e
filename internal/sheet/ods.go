package sheet

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const odsContentFile = "content.xml"

// maxBlankRepeat caps the expansion of repeated empty rows and cells.
// Spreadsheet apps pad sheets with runs like number-columns-repeated="16384".
const maxBlankRepeat = 1024

func readODS(path string, opts Options) (*Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open ods archive: %w", err)
	}
	defer zr.Close()

	var content *zip.File
	for _, f := range zr.File {
		if f.Name == odsContentFile {
			content = f
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("ods archive has no %s", odsContentFile)
	}

	rc, err := content.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", odsContentFile, err)
	}
	defer rc.Close()

	name, raw, err := parseODSContent(rc, opts.Sheet)
	if err != nil {
		return nil, err
	}
	return fromRows(name, raw)
}

type odsCell struct {
	cell   Cell
	repeat int
	text   strings.Builder
	paras  int
}

// parseODSContent streams content.xml and returns the rows of the selected
// table. Elements are matched by local name so namespace prefixes do not matter.
func parseODSContent(r io.Reader, sheetName string) (string, [][]Cell, error) {
	dec := xml.NewDecoder(r)

	var (
		inTable    bool
		tableName  string
		found      bool
		rows       [][]Cell
		row        []Cell
		rowRepeat  int
		cell       *odsCell
		inPara     bool
		tableDepth int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("parse %s: %w", odsContentFile, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "table":
				if inTable {
					tableDepth++
					continue
				}
				name := attr(t, "name")
				if found || (sheetName != "" && name != sheetName) {
					if err := dec.Skip(); err != nil {
						return "", nil, fmt.Errorf("parse %s: %w", odsContentFile, err)
					}
					continue
				}
				inTable = true
				found = true
				tableName = name
			case "table-row":
				if !inTable || tableDepth > 0 {
					continue
				}
				row = row[:0:0]
				rowRepeat = repeatAttr(t, "number-rows-repeated")
			case "table-cell", "covered-table-cell":
				if !inTable || tableDepth > 0 {
					continue
				}
				cell = &odsCell{repeat: repeatAttr(t, "number-columns-repeated")}
				if isNumericType(attr(t, "value-type")) {
					if v, err := strconv.ParseFloat(attr(t, "value"), 64); err == nil {
						cell.cell.Number = v
						cell.cell.IsNumber = true
					}
				}
			case "p", "h":
				if cell == nil {
					continue
				}
				if cell.paras > 0 {
					cell.text.WriteByte('\n')
				}
				cell.paras++
				inPara = true
			case "s":
				if cell != nil && inPara {
					n := repeatAttr(t, "c")
					cell.text.WriteString(strings.Repeat(" ", n))
				}
			case "tab":
				if cell != nil && inPara {
					cell.text.WriteByte('\t')
				}
			case "line-break":
				if cell != nil && inPara {
					cell.text.WriteByte('\n')
				}
			case "annotation":
				// Comments attached to a cell are not part of its value.
				if err := dec.Skip(); err != nil {
					return "", nil, fmt.Errorf("parse %s: %w", odsContentFile, err)
				}
			}
		case xml.CharData:
			if cell != nil && inPara {
				cell.text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "table":
				if !inTable {
					continue
				}
				if tableDepth > 0 {
					tableDepth--
					continue
				}
				inTable = false
			case "p", "h":
				inPara = false
			case "table-cell", "covered-table-cell":
				if cell == nil {
					continue
				}
				c := cell.cell
				c.Text = cell.text.String()
				repeat := cell.repeat
				if c.Blank() && repeat > maxBlankRepeat {
					repeat = 0
				}
				for i := 0; i < repeat; i++ {
					row = append(row, c)
				}
				cell = nil
			case "table-row":
				if !inTable || tableDepth > 0 {
					continue
				}
				row = trimTrailingBlank(row)
				repeat := rowRepeat
				if len(row) == 0 && repeat > maxBlankRepeat {
					repeat = 0
				}
				for i := 0; i < repeat; i++ {
					cp := make([]Cell, len(row))
					copy(cp, row)
					rows = append(rows, cp)
				}
			}
		}
	}

	if !found {
		if sheetName != "" {
			return "", nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
		}
		return "", nil, ErrEmpty
	}
	return tableName, rows, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func repeatAttr(el xml.StartElement, local string) int {
	value := attr(el, local)
	if value == "" {
		return 1
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func isNumericType(valueType string) bool {
	switch valueType {
	case "float", "percentage", "currency":
		return true
	default:
		return false
	}
}

func trimTrailingBlank(cells []Cell) []Cell {
	end := len(cells)
	for end > 0 && cells[end-1].Blank() {
		end--
	}
	return cells[:end]
}

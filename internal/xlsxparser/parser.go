// =============================================================================
// Invoice and PO Lookup - XLSX Workbook Parser
// =============================================================================
//
// This module decodes one worksheet of an XLSX workbook into a RawTable.
// The worksheet is expected to be a saved search export with a single header
// row followed by data rows:
//
//   | Document Number | Subsidiary (no hierarchy) | Name      | Date  | ... | Created From                        |
//   |-----------------|---------------------------|-----------|-------|-----|-------------------------------------|
//   | INV1042         | Acme US                   | Widget Co | 45306 | ... | Purchase Order #PO1042              |
//
// CELL VALUES:
//   Cells are read raw (no number formatting), so dates arrive as Excel serial
//   numbers and amounts without thousands separators. Each cell is typed:
//   - blank          -> nil
//   - boolean cell   -> bool
//   - numeric cell   -> float64
//   - anything else  -> string
//
// Header text is kept exactly as written, including surrounding whitespace,
// because column renaming matches headers exactly.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SHEET LAYOUT CONFIGURATION
// =============================================================================

// SheetLayout describes where the header row is.
type SheetLayout struct {
	// HeaderRow is the row containing column headers (0-based).
	// Data rows start on the row after it.
	// Default: 0 (Row 1)
	HeaderRow int
}

// DefaultSheetLayout returns the layout of a plain saved search export.
func DefaultSheetLayout() SheetLayout {
	return SheetLayout{HeaderRow: 0}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads the named sheet of an XLSX file.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - sheet: The worksheet name (exact match).
//
// RETURNS:
//   - The decoded RawTable, with SourceName set to "path#sheet".
//   - An error wrapping types.ErrSheetNotFound if the sheet is absent,
//     or any error from opening the workbook.
func ParseFile(path, sheet string) (*types.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := parseSheet(f, sheet, DefaultSheetLayout())
	if err != nil {
		return nil, err
	}
	table.SourceName = path + "#" + sheet
	return table, nil
}

// Decode reads the named sheet from workbook bytes held in r.
func Decode(r io.Reader, sheet string) (*types.RawTable, error) {
	return DecodeWithLayout(r, sheet, DefaultSheetLayout())
}

// DecodeBytes is Decode over an in-memory workbook.
func DecodeBytes(data []byte, sheet string) (*types.RawTable, error) {
	return Decode(bytes.NewReader(data), sheet)
}

// DecodeWithLayout reads the named sheet using a custom layout.
func DecodeWithLayout(r io.Reader, sheet string, layout SheetLayout) (*types.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseSheet(f, sheet, layout)
}

// parseSheet decodes a single sheet from an open workbook.
func parseSheet(f *excelize.File, sheet string, layout SheetLayout) (*types.RawTable, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			types.ErrSheetNotFound, sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) <= layout.HeaderRow {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	table := &types.RawTable{
		Headers: rows[layout.HeaderRow],
		Rows:    make([][]any, 0, len(rows)-layout.HeaderRow-1),
	}

	for i := layout.HeaderRow + 1; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows.
		if isRowEmpty(row) {
			continue
		}

		cells := make([]any, len(row))
		for j, raw := range row {
			cells[j], err = typedCell(f, sheet, j, i, raw)
			if err != nil {
				return nil, fmt.Errorf("error reading row %d: %w", i+1, err)
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

// typedCell converts the raw text of the cell at 0-based (col, row).
func typedCell(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	cellType, err := f.GetCellType(sheet, name)
	if err != nil {
		return nil, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		// Numeric cells carry no type attribute; text that is not a number stays text.
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v, nil
		}
	}
	return raw, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

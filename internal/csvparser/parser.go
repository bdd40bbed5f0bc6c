// =============================================================================
// Invoice and PO Lookup - CSV Parser Module
// =============================================================================
//
// This module decodes a CSV export of the bill payment saved search into a
// RawTable, so the same loader can serve a workbook or a CSV download.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - UTF-8 byte order mark removal (saved search exports start with one)
//   - Lazy quotes and ragged rows are accepted
//
// CELL VALUES:
//   CSV carries no types: every non-blank cell is a string, blank cells are nil.
//   Headers are kept exactly as written apart from the byte order mark.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

const utf8BOM = "\ufeff"

// Settings controls how a CSV file is read.
type Settings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string

	// HeaderRow is the 0-based row holding the column headers.
	// Default: 0
	HeaderRow int
}

// DefaultSettings returns the settings for a plain comma separated export.
func DefaultSettings() Settings {
	return Settings{Delimiter: ",", HeaderRow: 0}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads a CSV file into a RawTable.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The decoded RawTable, with SourceName set to filePath.
//   - An error if the file cannot be read or has no header row.
func ParseFile(filePath string, settings Settings) (*types.RawTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := Decode(file, settings)
	if err != nil {
		return nil, err
	}
	table.SourceName = filePath
	return table, nil
}

// Decode reads CSV data from r into a RawTable.
func Decode(r io.Reader, settings Settings) (*types.RawTable, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) <= settings.HeaderRow {
		return nil, fmt.Errorf("CSV has no header row")
	}

	headers := allRows[settings.HeaderRow]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}

	table := &types.RawTable{
		Headers: headers,
		Rows:    make([][]any, 0, len(allRows)-settings.HeaderRow-1),
	}

	for _, row := range allRows[settings.HeaderRow+1:] {
		if isRowEmpty(row) {
			continue
		}

		cells := make([]any, len(row))
		for j, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}
			cells[j] = value
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Allow a variable number of fields per row.
	reader.FieldsPerRecord = -1

	// Allow quotes that don't follow strict CSV rules.
	reader.LazyQuotes = true
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

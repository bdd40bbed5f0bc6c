// =============================================================================
// Invoice and PO Lookup - Result Export
// =============================================================================
//
// This package writes search results in the display column order, using the
// human column labels as headers. Three formats are supported:
//
//   xlsx : a single-sheet workbook ("Results")
//   csv  : comma separated, header row first
//   xml  : <records><record n="1"><Invoice>...</Invoice>...</record></records>
//
// Cells are rendered with types.Record.Cell, so every format shows the same
// text the web page shows.
//
// =============================================================================

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatXLSX, FormatCSV, FormatXML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use xlsx, csv or xml)", name)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXML:
		return "application/xml; charset=utf-8"
	}
	return "application/octet-stream"
}

// FileName returns a download name with the format's extension.
func (f Format) FileName(base string) string {
	return base + "." + string(f)
}

// Write writes rows to w in format f.
func Write(w io.Writer, f Format, rows []types.Record) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXML:
		return WriteXML(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

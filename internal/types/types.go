// =============================================================================
// Invoice and PO Lookup - Shared Types
// =============================================================================
//
// This package contains the types shared by the loader, the query engine and
// the presentation layers. Keeping them here avoids import cycles between:
//   - loader   (builds Records from a RawTable)
//   - query    (filters a Table)
//   - export   (writes Records)
//   - web, cmd (render Records)
//
// =============================================================================

package types

import (
	"errors"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW TABLE
// =============================================================================

// RawTable is a decoded but not yet normalized dataset.
//
// A cell is nil when it is blank, otherwise a string, float64 or bool
// depending on what the decoder could tell about it.
type RawTable struct {
	// Headers are the column names exactly as they appear in the source.
	Headers []string

	// Rows holds one slice per data row, aligned with Headers.
	// Rows shorter than Headers are treated as having trailing blank cells.
	Rows [][]any

	// SourceName describes where the table came from (path, gs:// URI, sheet id).
	SourceName string
}

// Cell returns the value at row i, column j, or nil if it is out of range.
func (t *RawTable) Cell(i, j int) any {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	row := t.Rows[i]
	if j < 0 || j >= len(row) {
		return nil
	}
	return row[j]
}

// =============================================================================
// RECORD
// =============================================================================

// Record is one normalized row of the bill payment dataset.
type Record struct {
	Invoice          string
	Subsidiary       string
	Name             string
	Date             civil.Date
	Type             string
	Status           string
	Amount           decimal.NullDecimal
	CanadaAmt        decimal.NullDecimal
	PaymentHold      bool
	VendorBillDate   civil.Date
	ReceivedBillDate civil.Date
	DueDate          civil.Date
	EDI              bool
	AccuratePay      bool
	Location         string
	CreatedBy        string
	DateCreated      civil.Date
	PaymentDate      civil.Date
	Account          string

	// CreatedFrom is the free text the PO is derived from.
	CreatedFrom string

	// PO is never absent: it is "" when no purchase order marker was found.
	PO string

	// Row is the 1-based data row number in the source, for diagnostics.
	Row int
}

// =============================================================================
// TABLE
// =============================================================================

// Table is the immutable, ordered sequence of Records produced by the loader.
type Table struct {
	records    []Record
	sourceName string
	loadedAt   time.Time
}

// NewTable takes ownership of records. Callers must not modify the slice afterwards.
func NewTable(records []Record, sourceName string, loadedAt time.Time) *Table {
	if records == nil {
		records = []Record{}
	}
	return &Table{
		records:    records,
		sourceName: sourceName,
		loadedAt:   loadedAt,
	}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// At returns a copy of the i-th record.
func (t *Table) At(i int) Record {
	return t.records[i]
}

// Records returns a copy of all records in source order.
func (t *Table) Records() []Record {
	return slices.Clone(t.records)
}

// SourceName returns the description of the source the table was loaded from.
func (t *Table) SourceName() string {
	return t.sourceName
}

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}

// =============================================================================
// DECODER ERRORS
// =============================================================================

// ErrSheetNotFound is returned by decoders when the requested sheet or range
// does not exist in the source.
var ErrSheetNotFound = errors.New("sheet not found")

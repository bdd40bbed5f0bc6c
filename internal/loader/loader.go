// =============================================================================
// Invoice and PO Lookup - Loader
// =============================================================================
//
// The loader turns a decoded RawTable into the immutable Table that the query
// engine searches. It holds no state between calls, so loading the same
// RawTable twice gives equal tables.
//
// LOAD PIPELINE:
//   1. Rename source headers through RenameMap (exact match, others dropped)
//   2. Check that every required column is present
//   3. Convert each row into a typed Record
//   4. Derive PO from the "Created From" cell
//   5. Wrap the Records in a Table
//
// =============================================================================

package loader

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Fetcher is the part of a source the loader needs.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (*types.RawTable, error)
}

// =============================================================================
// LOADER STRUCTURE
// =============================================================================

// Loader builds Tables from RawTables and reports dropped values to its logger.
type Loader struct {
	log zerolog.Logger
}

// New creates a Loader that logs through log.
func New(log zerolog.Logger) *Loader {
	return &Loader{log: log.With().Str("component", "loader").Logger()}
}

// Load builds a Table from raw without logging.
func Load(raw *types.RawTable) (*types.Table, error) {
	return New(zerolog.Nop()).Load(raw)
}

// =============================================================================
// LOADING
// =============================================================================

// LoadSource fetches the source and builds its Table.
//
// PARAMETERS:
//   - ctx: Bounds the fetch.
//   - src: The source to read.
//
// RETURNS:
//   - The Table, or a *LoadError. No partial Table is ever returned.
func (l *Loader) LoadSource(ctx context.Context, src Fetcher) (*types.Table, error) {
	start := time.Now()

	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, SourceError(src.Name(), err)
	}
	if raw != nil && raw.SourceName == "" {
		named := *raw
		named.SourceName = src.Name()
		raw = &named
	}

	table, err := l.Load(raw)
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Str("source", table.SourceName()).
		Int("rows", table.Len()).
		Dur("duration", time.Since(start)).
		Msg("table loaded")
	return table, nil
}

// Load builds a Table from raw.
//
// RETURNS:
//   - The Table with one Record per row of raw, in the same order.
//   - A *LoadError wrapping ErrMissingColumn if a required column is absent.
func (l *Loader) Load(raw *types.RawTable) (*types.Table, error) {
	if raw == nil {
		return nil, &LoadError{Reason: ErrSourceUnreadable, Err: fmt.Errorf("no table decoded")}
	}

	index := l.columnIndex(raw)

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{
			Source: raw.SourceName,
			Reason: ErrMissingColumn,
			Err:    fmt.Errorf("missing %v (headers: %q)", missing, raw.Headers),
		}
	}

	conv := rowConverter{index: index, dropped: make(map[string]int)}
	records := make([]types.Record, len(raw.Rows))
	for i := range raw.Rows {
		records[i] = conv.record(raw, i)
	}

	for col, n := range conv.dropped {
		l.log.Warn().
			Str("source", raw.SourceName).
			Str("column", col).
			Int("values", n).
			Msg("unparseable values left empty")
	}

	return types.NewTable(records, raw.SourceName, time.Now()), nil
}

// columnIndex maps canonical column names to their position in raw.Headers.
// When two headers map to the same name, the first one is used.
func (l *Loader) columnIndex(raw *types.RawTable) map[string]int {
	index := make(map[string]int, len(RenameMap))
	for j, header := range raw.Headers {
		name, ok := Canonical(header)
		if !ok {
			continue
		}
		if first, dup := index[name]; dup {
			l.log.Warn().
				Str("source", raw.SourceName).
				Str("column", name).
				Int("kept", first).
				Int("ignored", j).
				Msg("duplicate source column")
			continue
		}
		index[name] = j
	}
	return index
}

// =============================================================================
// ROW CONVERSION
// =============================================================================

type rowConverter struct {
	index   map[string]int
	dropped map[string]int
}

func (c *rowConverter) cell(raw *types.RawTable, i int, col string) any {
	j, ok := c.index[col]
	if !ok {
		return nil
	}
	return raw.Cell(i, j)
}

func (c *rowConverter) text(raw *types.RawTable, i int, col string) string {
	return toText(c.cell(raw, i, col))
}

func (c *rowConverter) date(raw *types.RawTable, i int, col string) civil.Date {
	d, ok := toDate(c.cell(raw, i, col))
	if !ok {
		c.dropped[col]++
	}
	return d
}

func (c *rowConverter) amount(raw *types.RawTable, i int, col string) decimal.NullDecimal {
	d, ok := toAmount(c.cell(raw, i, col))
	if !ok {
		c.dropped[col]++
	}
	return d
}

func (c *rowConverter) flag(raw *types.RawTable, i int, col string) bool {
	return toFlag(c.cell(raw, i, col))
}

func (c *rowConverter) record(raw *types.RawTable, i int) types.Record {
	createdFrom := c.cell(raw, i, types.ColCreatedFrom)

	return types.Record{
		Invoice:          c.text(raw, i, types.ColInvoice),
		Subsidiary:       c.text(raw, i, types.ColSubsidiary),
		Name:             c.text(raw, i, types.ColName),
		Date:             c.date(raw, i, types.ColDate),
		Type:             c.text(raw, i, types.ColType),
		Status:           c.text(raw, i, types.ColStatus),
		Amount:           c.amount(raw, i, types.ColAmount),
		CanadaAmt:        c.amount(raw, i, types.ColCanadaAmt),
		PaymentHold:      c.flag(raw, i, types.ColPaymentHold),
		VendorBillDate:   c.date(raw, i, types.ColVendorBillDate),
		ReceivedBillDate: c.date(raw, i, types.ColReceivedBillDate),
		DueDate:          c.date(raw, i, types.ColDueDate),
		EDI:              c.flag(raw, i, types.ColEDI),
		AccuratePay:      c.flag(raw, i, types.ColAccuratePay),
		Location:         c.text(raw, i, types.ColLocation),
		CreatedBy:        c.text(raw, i, types.ColCreatedBy),
		DateCreated:      c.date(raw, i, types.ColDateCreated),
		PaymentDate:      c.date(raw, i, types.ColPaymentDate),
		Account:          c.text(raw, i, types.ColAccount),
		CreatedFrom:      toText(createdFrom),
		PO:               ExtractPO(createdFrom),
		Row:              i + 1,
	}
}

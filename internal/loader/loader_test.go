package loader

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/ginjaninja78/invoice-po-lookup/internal/logger"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sourceHeaders = []string{
	"Document Number", "Subsidiary (no hierarchy)", "Name", "Date", "Type", "Status",
	"Amount", "Amount (Foreign Currency)", "Payment Hold", "Vendor Bill Date",
	"Received Bill Date", "Due Date/Receive By", "Created By 810 EDI Script",
	"Added by ShortPay", "Location", "Created By", "Date Created", "Payment Date",
	"Account (Main)", "Created From",
}

func minimalTable(rows ...[]any) *types.RawTable {
	return &types.RawTable{
		Headers:    []string{"Document Number", "Subsidiary (no hierarchy)", "Status", "Created From"},
		Rows:       rows,
		SourceName: "test",
	}
}

type fakeFetcher struct {
	raw *types.RawTable
	err error
}

func (f fakeFetcher) Name() string { return "fake" }

func (f fakeFetcher) Fetch(context.Context) (*types.RawTable, error) {
	return f.raw, f.err
}

func TestExtractPO(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"marker", "Bill Created from Purchase Order #PO1042", "PO1042"},
		{"no marker", "Manual entry", ""},
		{"nil", nil, ""},
		{"number", 1042.0, ""},
		{"trailing space", "Purchase Order #  PO7  ", "PO7"},
		{"last occurrence", "Purchase Order #A / Purchase Order #B", "B"},
		{"marker only", "Purchase Order #", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPO(tt.value))
		})
	}
}

func TestLoad_DerivesPOAndKeepsOrder(t *testing.T) {
	raw := minimalTable(
		[]any{"INV1", "US", "Paid", "Bill Created from Purchase Order #PO1042"},
		[]any{"INV2", "CA", "Open", "Manual entry"},
		[]any{"INV3", "US", "Open", nil},
	)

	table, err := Load(raw)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	assert.Equal(t, "INV1", table.At(0).Invoice)
	assert.Equal(t, "PO1042", table.At(0).PO)
	assert.Equal(t, "Bill Created from Purchase Order #PO1042", table.At(0).CreatedFrom)
	assert.Equal(t, "", table.At(1).PO)
	assert.Equal(t, "", table.At(2).PO)
	assert.Equal(t, "", table.At(2).CreatedFrom)

	for i := 0; i < table.Len(); i++ {
		assert.Equal(t, i+1, table.At(i).Row)
	}
	assert.Equal(t, "test", table.SourceName())
}

func TestLoad_TypedColumns(t *testing.T) {
	row := []any{
		"INV9", "US", "Acme", 45000.0, "Vendor Bill", "Paid In Full",
		"$1,234.50", "(12.00)", "Yes", "3/15/2023",
		"2023-03-16", "", true,
		"x", "Main", "jdoe", "Mar 17, 2023", "not a date",
		1200.0, "Purchase Order #PO9",
	}
	raw := &types.RawTable{Headers: sourceHeaders, Rows: [][]any{row}}

	table, err := Load(raw)
	require.NoError(t, err)
	r := table.At(0)

	assert.Equal(t, civil.Date{Year: 2023, Month: 3, Day: 15}, r.Date)
	assert.Equal(t, civil.Date{Year: 2023, Month: 3, Day: 15}, r.VendorBillDate)
	assert.Equal(t, civil.Date{Year: 2023, Month: 3, Day: 16}, r.ReceivedBillDate)
	assert.True(t, r.DueDate.IsZero())
	assert.Equal(t, civil.Date{Year: 2023, Month: 3, Day: 17}, r.DateCreated)
	assert.True(t, r.PaymentDate.IsZero(), "unparseable date is left empty")

	require.True(t, r.Amount.Valid)
	assert.Equal(t, "1234.50", r.Amount.Decimal.StringFixed(2))
	require.True(t, r.CanadaAmt.Valid)
	assert.Equal(t, "-12.00", r.CanadaAmt.Decimal.StringFixed(2))

	assert.True(t, r.PaymentHold)
	assert.True(t, r.EDI)
	assert.True(t, r.AccuratePay)

	assert.Equal(t, "1200", r.Account, "numbers in text columns have no trailing .0")
	assert.Equal(t, "PO9", r.PO)
}

func TestLoad_TextIsVerbatim(t *testing.T) {
	table, err := Load(minimalTable([]any{" INV1 ", "US", "Paid", nil}))
	require.NoError(t, err)
	assert.Equal(t, " INV1 ", table.At(0).Invoice)
}

func TestLoad_RenameIsExact(t *testing.T) {
	raw := &types.RawTable{
		Headers: []string{"document number", "Subsidiary (no hierarchy)", "Status", "Created From"},
		Rows:    [][]any{{"INV1", "US", "Paid", nil}},
	}

	table, err := Load(raw)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrMissingColumn)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Error(), types.ColInvoice)
}

func TestLoad_UnmappedAndDuplicateColumns(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter(&buf, "debug")
	require.NoError(t, err)

	raw := &types.RawTable{
		Headers: []string{"Document Number", "Internal ID", "Subsidiary (no hierarchy)", "Status", "Created From", "Document Number"},
		Rows:    [][]any{{"INV1", "77", "US", "Paid", nil, "INV-DUP"}},
	}

	table, err := New(log).Load(raw)
	require.NoError(t, err)
	assert.Equal(t, "INV1", table.At(0).Invoice, "first duplicate wins")
	assert.Contains(t, buf.String(), "duplicate source column")
}

func TestLoad_EmptyRows(t *testing.T) {
	table, err := Load(minimalTable())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.NotNil(t, table.Records())
}

func TestLoad_Idempotent(t *testing.T) {
	raw := &types.RawTable{
		Headers: sourceHeaders,
		Rows: [][]any{
			{"INV1", "US", "Acme", 45000.0, "Bill", "Paid", 10.5, nil, "No", nil, nil, nil, false, nil, "", "", nil, nil, "", "Purchase Order #P1"},
			{"INV2", "CA", "Beta", "2023-01-02", "Bill", "Open", "7", "7", "Yes", nil, nil, nil, true, "y", "", "", nil, nil, "", nil},
		},
	}

	first, err := Load(raw)
	require.NoError(t, err)
	second, err := Load(raw)
	require.NoError(t, err)

	assert.Equal(t, first.Records(), second.Records())
}

func TestLoadSource_ClassifiesErrors(t *testing.T) {
	l := New(zerolog.Nop())

	t.Run("sheet missing", func(t *testing.T) {
		_, err := l.LoadSource(context.Background(), fakeFetcher{err: types.ErrSheetNotFound})
		assert.ErrorIs(t, err, ErrSheetMissing)
		assert.NotErrorIs(t, err, ErrSourceUnreadable)
	})

	t.Run("unreadable", func(t *testing.T) {
		cause := errors.New("permission denied")
		_, err := l.LoadSource(context.Background(), fakeFetcher{err: cause})
		assert.ErrorIs(t, err, ErrSourceUnreadable)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "fake")
	})

	t.Run("success names the table", func(t *testing.T) {
		raw := minimalTable([]any{"INV1", "US", "Paid", nil})
		raw.SourceName = ""
		table, err := l.LoadSource(context.Background(), fakeFetcher{raw: raw})
		require.NoError(t, err)
		assert.Equal(t, "fake", table.SourceName())
	})
}

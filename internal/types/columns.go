package types

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL COLUMN NAMES
// =============================================================================

const (
	ColInvoice          = "Invoice"
	ColSubsidiary       = "Subsidiary"
	ColName             = "Name"
	ColDate             = "Date"
	ColType             = "Type"
	ColStatus           = "Status"
	ColAmount           = "Amount"
	ColCanadaAmt        = "CanadaAmt"
	ColPaymentHold      = "PaymentHold"
	ColVendorBillDate   = "VendorBillDate"
	ColReceivedBillDate = "ReceivedBillDate"
	ColDueDate          = "DueDate"
	ColEDI              = "EDI"
	ColAccuratePay      = "AccuratePay"
	ColLocation         = "Location"
	ColCreatedBy        = "CreatedBy"
	ColDateCreated      = "DateCreated"
	ColPaymentDate      = "PaymentDate"
	ColAccount          = "Account"
	ColCreatedFrom      = "CreatedFrom"
	ColPO               = "PO"
)

// DisplayColumns is the fixed order in which results are shown and exported.
var DisplayColumns = []string{
	ColInvoice, ColSubsidiary, ColName, ColDate, ColType, ColStatus, ColAmount,
	ColCanadaAmt, ColPaymentHold, ColVendorBillDate, ColReceivedBillDate,
	ColDueDate, ColEDI, ColAccuratePay, ColLocation, ColCreatedBy,
	ColDateCreated, ColPaymentDate, ColAccount,
}

// columnLabels are the human headers used by the web page and the exports.
var columnLabels = map[string]string{
	ColCanadaAmt:        "Canada Amt",
	ColPaymentHold:      "Payment Hold",
	ColVendorBillDate:   "Vendor Bill Date",
	ColReceivedBillDate: "Received Bill Date",
	ColDueDate:          "Due Date",
	ColAccuratePay:      "Accurate Pay",
	ColCreatedBy:        "Created By",
	ColDateCreated:      "Date Created",
	ColPaymentDate:      "Payment Date",
	ColCreatedFrom:      "Created From",
}

// Label returns the display header for a canonical column name.
func Label(col string) string {
	if label, ok := columnLabels[col]; ok {
		return label
	}
	return col
}

// DisplayLabels returns the labels of DisplayColumns, in order.
func DisplayLabels() []string {
	labels := make([]string, len(DisplayColumns))
	for i, col := range DisplayColumns {
		labels[i] = Label(col)
	}
	return labels
}

// =============================================================================
// CELL FORMATTING
// =============================================================================

// Cell returns the display text of a canonical column. Absent values are "".
// Unknown column names also yield "".
func (r Record) Cell(col string) string {
	switch col {
	case ColInvoice:
		return r.Invoice
	case ColSubsidiary:
		return r.Subsidiary
	case ColName:
		return r.Name
	case ColDate:
		return formatDate(r.Date)
	case ColType:
		return r.Type
	case ColStatus:
		return r.Status
	case ColAmount:
		return formatAmount(r.Amount)
	case ColCanadaAmt:
		return formatAmount(r.CanadaAmt)
	case ColPaymentHold:
		return formatFlag(r.PaymentHold)
	case ColVendorBillDate:
		return formatDate(r.VendorBillDate)
	case ColReceivedBillDate:
		return formatDate(r.ReceivedBillDate)
	case ColDueDate:
		return formatDate(r.DueDate)
	case ColEDI:
		return formatFlag(r.EDI)
	case ColAccuratePay:
		return formatFlag(r.AccuratePay)
	case ColLocation:
		return r.Location
	case ColCreatedBy:
		return r.CreatedBy
	case ColDateCreated:
		return formatDate(r.DateCreated)
	case ColPaymentDate:
		return formatDate(r.PaymentDate)
	case ColAccount:
		return r.Account
	case ColCreatedFrom:
		return r.CreatedFrom
	case ColPO:
		return r.PO
	}
	return ""
}

// DisplayValues returns the record's cells in DisplayColumns order.
func (r Record) DisplayValues() []string {
	values := make([]string, len(DisplayColumns))
	for i, col := range DisplayColumns {
		values[i] = r.Cell(col)
	}
	return values
}

func formatDate(d civil.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func formatFlag(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

package loader

import "github.com/ginjaninja78/invoice-po-lookup/internal/types"

// ColumnMapping renames one source header to its canonical name.
type ColumnMapping struct {
	Source    string
	Canonical string
}

// RenameMap is the fixed source-to-canonical header mapping. Source headers are
// matched exactly, including case and whitespace.
var RenameMap = []ColumnMapping{
	{"Document Number", types.ColInvoice},
	{"Subsidiary (no hierarchy)", types.ColSubsidiary},
	{"Name", types.ColName},
	{"Date", types.ColDate},
	{"Type", types.ColType},
	{"Status", types.ColStatus},
	{"Amount", types.ColAmount},
	{"Amount (Foreign Currency)", types.ColCanadaAmt},
	{"Payment Hold", types.ColPaymentHold},
	{"Vendor Bill Date", types.ColVendorBillDate},
	{"Received Bill Date", types.ColReceivedBillDate},
	{"Due Date/Receive By", types.ColDueDate},
	{"Created By 810 EDI Script", types.ColEDI},
	{"Added by ShortPay", types.ColAccuratePay},
	{"Location", types.ColLocation},
	{"Created By", types.ColCreatedBy},
	{"Date Created", types.ColDateCreated},
	{"Payment Date", types.ColPaymentDate},
	{"Account (Main)", types.ColAccount},
	{"Created From", types.ColCreatedFrom},
}

// RequiredColumns must be present after renaming or the load fails.
var RequiredColumns = []string{
	types.ColInvoice,
	types.ColSubsidiary,
	types.ColStatus,
	types.ColCreatedFrom,
}

var renameIndex = func() map[string]string {
	m := make(map[string]string, len(RenameMap))
	for _, cm := range RenameMap {
		m[cm.Source] = cm.Canonical
	}
	return m
}()

// Canonical returns the canonical name for a source header, if it is mapped.
func Canonical(header string) (string, bool) {
	name, ok := renameIndex[header]
	return name, ok
}

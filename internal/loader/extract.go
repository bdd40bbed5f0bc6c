package loader

import "strings"

// PurchaseOrderMarker precedes the PO number in the "Created From" text.
const PurchaseOrderMarker = "Purchase Order #"

// ExtractPO derives the PO number from a "Created From" cell.
//
// If the value is a string containing PurchaseOrderMarker, the text after the
// last occurrence of the marker is returned with surrounding whitespace
// removed. Any other value, nil included, yields "".
//
// Last occurrence wins: "Purchase Order #A / Purchase Order #B" gives "B".
// Consumers may depend on that, so it is kept as is.
func ExtractPO(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	i := strings.LastIndex(s, PurchaseOrderMarker)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i+len(PurchaseOrderMarker):])
}

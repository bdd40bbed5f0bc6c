// =============================================================================
// Invoice and PO Lookup - Cell Conversion
// =============================================================================
//
// Converts decoded cells (nil, string, float64, bool) into the typed fields of
// a Record. Each converter reports ok=false when a non-blank value cannot be
// understood; the caller leaves the field absent and counts the problem.
//
// ACCEPTED INPUTS:
//   text   : any cell; numbers render without a trailing ".0"
//   date   : Excel serial numbers, or text in one of dateLayouts
//   amount : numbers, or text such as "1,234.50", "$1,234.50", "(12.00)"
//   flag   : bools, non-zero numbers, or text such as "Yes", "T", "X"
//
// =============================================================================

package loader

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order for text date cells.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006-01-02 15:04:05",
	"1/2/2006 3:04 pm",
	"Jan 2, 2006",
}

// truthy lists the lowercase text values read as a set flag.
var truthy = map[string]bool{
	"yes": true, "y": true, "true": true, "t": true, "1": true, "x": true, "checked": true,
}

// toText renders a cell as text without altering string content.
func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	}
	return ""
}

// toDate converts a cell to a civil date. A blank cell is a zero date with ok=true.
func toDate(v any) (civil.Date, bool) {
	switch x := v.(type) {
	case nil:
		return civil.Date{}, true
	case float64:
		return serialDate(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return civil.Date{}, true
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialDate(serial)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return civil.DateOf(t), true
			}
		}
	}
	return civil.Date{}, false
}

// serialDate converts an Excel 1900-system serial number.
func serialDate(serial float64) (civil.Date, bool) {
	if serial <= 0 {
		return civil.Date{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return civil.Date{}, false
	}
	return civil.DateOf(t), true
}

// toAmount converts a cell to a decimal. A blank cell is NULL with ok=true.
func toAmount(v any) (decimal.NullDecimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.NullDecimal{}, true
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(x)), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.NullDecimal{}, true
		}

		negative := false
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			negative = true
			s = s[1 : len(s)-1]
		}
		s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)

		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}, false
		}
		if negative {
			d = d.Neg()
		}
		return decimal.NewNullDecimal(d), true
	}
	return decimal.NullDecimal{}, false
}

// toFlag converts a cell to a boolean. Unrecognised text is false.
func toFlag(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return truthy[strings.ToLower(strings.TrimSpace(x))]
	}
	return false
}

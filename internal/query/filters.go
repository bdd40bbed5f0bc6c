// =============================================================================
// Invoice and PO Lookup - Search Filters
// =============================================================================
//
// Filters carries the four user-supplied criteria. Values are compared after
// trimming surrounding whitespace; an empty value places no constraint.
// Subsidiary and Status also accept the sentinel "All", which the select
// boxes of the web form submit when nothing is chosen.
//
// VALIDATION:
//   Validate rejects values the form could not have produced:
//   - longer than the configured maximum length
//   - containing control characters
//   Validation is optional. Search never fails on any input.
//
// =============================================================================

package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AllSentinel disables the Subsidiary and Status filters.
const AllSentinel = "All"

// Filters are the search criteria.
type Filters struct {
	Invoice    string `form:"invoice" json:"invoice"`
	PO         string `form:"po" json:"po"`
	Subsidiary string `form:"subsidiary" json:"subsidiary"`
	Status     string `form:"status" json:"status"`
}

// Normalized returns the filters as Search applies them: trimmed, with the
// "All" sentinel replaced by "".
func (f Filters) Normalized() Filters {
	n := Filters{
		Invoice:    strings.TrimSpace(f.Invoice),
		PO:         strings.TrimSpace(f.PO),
		Subsidiary: strings.TrimSpace(f.Subsidiary),
		Status:     strings.TrimSpace(f.Status),
	}
	if n.Subsidiary == AllSentinel {
		n.Subsidiary = ""
	}
	if n.Status == AllSentinel {
		n.Status = ""
	}
	return n
}

// IsEmpty reports whether no filter constrains the search.
func (f Filters) IsEmpty() bool {
	return f.Normalized() == Filters{}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a filter value that was rejected.
type ValidationError struct {
	// Field is the filter name ("invoice", "po", "subsidiary", "status").
	Field string

	// Value is the rejected value, trimmed.
	Value string

	// Rule is the check that failed: "max_length" or "control_chars".
	Rule string

	// Message is a human-readable explanation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter '%s': %s", e.Field, e.Message)
}

// Validate checks each trimmed value against maxLen (in characters; 0 means
// unbounded) and rejects control characters.
//
// RETURNS:
//   - nil if every value is acceptable.
//   - A *ValidationError for the first rejected value.
func (f Filters) Validate(maxLen int) error {
	fields := []struct {
		name  string
		value string
	}{
		{"invoice", f.Invoice},
		{"po", f.PO},
		{"subsidiary", f.Subsidiary},
		{"status", f.Status},
	}

	for _, field := range fields {
		value := strings.TrimSpace(field.value)

		if n := utf8.RuneCountInString(value); maxLen > 0 && n > maxLen {
			return &ValidationError{
				Field:   field.name,
				Value:   value,
				Rule:    "max_length",
				Message: fmt.Sprintf("value exceeds maximum length of %d characters (actual: %d)", maxLen, n),
			}
		}

		if strings.IndexFunc(value, unicode.IsControl) >= 0 {
			return &ValidationError{
				Field:   field.name,
				Value:   value,
				Rule:    "control_chars",
				Message: "value contains control characters",
			}
		}
	}

	return nil
}

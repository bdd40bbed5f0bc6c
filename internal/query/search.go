package query

import (
	"slices"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// Result is the outcome of a search.
type Result struct {
	// Rows are the matching records in source order. Never nil.
	Rows []types.Record

	// MatchedCount equals len(Rows).
	MatchedCount int
}

// Search returns the records of table that satisfy every active filter.
// Comparison is exact and case-sensitive. The table is not modified, and an
// empty result is not an error.
func Search(table *types.Table, f Filters) Result {
	n := f.Normalized()
	rows := []types.Record{}

	if table != nil {
		for i := 0; i < table.Len(); i++ {
			r := table.At(i)
			if matches(r, n) {
				rows = append(rows, r)
			}
		}
	}

	return Result{Rows: rows, MatchedCount: len(rows)}
}

// matches applies normalized filters to one record.
func matches(r types.Record, n Filters) bool {
	if n.Invoice != "" && r.Invoice != n.Invoice {
		return false
	}
	if n.PO != "" && r.PO != n.PO {
		return false
	}
	if n.Subsidiary != "" && r.Subsidiary != n.Subsidiary {
		return false
	}
	if n.Status != "" && r.Status != n.Status {
		return false
	}
	return true
}

// =============================================================================
// FILTER OPTIONS
// =============================================================================

// FilterOptions are the choices offered by the Subsidiary and Status selects.
type FilterOptions struct {
	Subsidiaries []string `json:"subsidiaries"`
	Statuses     []string `json:"statuses"`
}

// Options collects the sorted distinct non-empty Subsidiary and Status values.
// The "All" sentinel is not included.
func Options(table *types.Table) FilterOptions {
	opts := FilterOptions{Subsidiaries: []string{}, Statuses: []string{}}
	if table == nil {
		return opts
	}

	subsidiaries := make(map[string]struct{})
	statuses := make(map[string]struct{})
	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		if r.Subsidiary != "" {
			subsidiaries[r.Subsidiary] = struct{}{}
		}
		if r.Status != "" {
			statuses[r.Status] = struct{}{}
		}
	}

	for s := range subsidiaries {
		opts.Subsidiaries = append(opts.Subsidiaries, s)
	}
	for s := range statuses {
		opts.Statuses = append(opts.Statuses, s)
	}
	slices.Sort(opts.Subsidiaries)
	slices.Sort(opts.Statuses)
	return opts
}

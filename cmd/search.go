// =============================================================================
// Invoice and PO Lookup - Search Command
// =============================================================================
//
// COMMAND USAGE:
//   lookup search [flags]
//
// FLAGS:
//   --invoice     : Exact invoice number
//   --po          : Exact PO number
//   --subsidiary  : Exact subsidiary, or "All"
//   --status      : Exact status, or "All"
//   --format      : table (default), csv, xml or xlsx
//   --out         : Write to this file instead of stdout (required for xlsx)
//   --all-columns : Show every display column in table output
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/invoice-po-lookup/internal/export"
	"github.com/ginjaninja78/invoice-po-lookup/internal/query"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/spf13/cobra"
)

const formatTable = "table"

var (
	searchFilters query.Filters
	outputFormat  string
	outputPath    string
	allColumns    bool
)

// compactColumns are shown by the table output unless --all-columns is set.
var compactColumns = []string{
	types.ColInvoice, types.ColPO, types.ColSubsidiary, types.ColName, types.ColDate,
	types.ColStatus, types.ColAmount, types.ColDueDate, types.ColPaymentDate,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the records from the terminal",
	Long: `Search the configured source with the same rules as the web form: values
are trimmed, matching is exact and case-sensitive, and all filters must match.
Without any filter every record is returned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchFilters.Invoice, "invoice", "", "Invoice number")
	searchCmd.Flags().StringVar(&searchFilters.PO, "po", "", "PO number")
	searchCmd.Flags().StringVar(&searchFilters.Subsidiary, "subsidiary", query.AllSentinel, "Subsidiary")
	searchCmd.Flags().StringVar(&searchFilters.Status, "status", query.AllSentinel, "Status")
	searchCmd.Flags().StringVar(&outputFormat, "format", formatTable, "Output format: table, csv, xml or xlsx")
	searchCmd.Flags().StringVar(&outputPath, "out", "", "Output file (default stdout)")
	searchCmd.Flags().BoolVar(&allColumns, "all-columns", false, "Show every display column in table output")
}

func runSearch(cmd *cobra.Command) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	if err := searchFilters.Validate(rt.cfg.Query.MaxFilterLength); err != nil {
		return err
	}

	var format export.Format
	if outputFormat != formatTable {
		if format, err = export.ParseFormat(outputFormat); err != nil {
			return err
		}
		if format == export.FormatXLSX && outputPath == "" {
			return fmt.Errorf("--out is required for xlsx output")
		}
	}

	table, err := rt.cache.Get(cmd.Context(), rt.src)
	if err != nil {
		return err
	}
	res := query.Search(table, searchFilters)

	out := cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if format == "" {
		return writeTable(out, res)
	}
	if err := export.Write(out, format, res.Rows); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d record(s) to %s\n", res.MatchedCount, outputPath)
	}
	return nil
}

// writeTable prints results as aligned columns.
func writeTable(w io.Writer, res query.Result) error {
	if res.MatchedCount == 0 {
		_, err := fmt.Fprintln(w, "No records found with the given filters.")
		return err
	}

	columns := compactColumns
	if allColumns {
		columns = types.DisplayColumns
	}

	fmt.Fprintf(w, "Found %d record(s). Displaying results:\n\n", res.MatchedCount)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, len(columns))
	for i, col := range columns {
		labels[i] = types.Label(col)
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))

	for _, r := range res.Rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = r.Cell(col)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

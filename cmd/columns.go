package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/invoice-po-lookup/internal/loader"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/spf13/cobra"
)

// columnsCmd prints the column mapping. It needs no configuration.
var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Show how source columns are renamed and displayed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeColumns(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}

func writeColumns(w io.Writer) error {
	required := make(map[string]bool, len(loader.RequiredColumns))
	for _, col := range loader.RequiredColumns {
		required[col] = true
	}

	fmt.Fprintln(w, "Source columns:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  SOURCE\tCANONICAL\tREQUIRED")
	for _, m := range loader.RenameMap {
		req := ""
		if required[m.Canonical] {
			req = "yes"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Source, m.Canonical, req)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nDerived: %s from %q text after %q\n",
		types.ColPO, "Created From", loader.PurchaseOrderMarker)
	fmt.Fprintf(w, "\nDisplay order:\n  %s\n", strings.Join(types.DisplayLabels(), ", "))
	return nil
}

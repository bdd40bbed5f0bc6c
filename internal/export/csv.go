package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// WriteCSV writes a header row of labels followed by one line per record.
func WriteCSV(w io.Writer, rows []types.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(types.DisplayLabels()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.DisplayValues()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", r.Row, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

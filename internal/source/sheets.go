package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets reads a range of a Google Sheets spreadsheet. The first row of the
// range is the header row.
//
// The Sheets API offers no cheap revision marker for a range, so Key is
// fixed and makes no API call. A loaded sheet is reused until the cache is
// invalidated (POST /api/reload or a restart).
type Sheets struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string

	// Options are passed to sheets.NewService after the credentials option.
	Options []option.ClientOption
}

// Name implements Source.
func (s *Sheets) Name() string {
	return fmt.Sprintf("sheets:%s!%s", s.SpreadsheetID, s.Range)
}

// Key implements Source.
func (s *Sheets) Key(context.Context) (string, error) {
	return s.Name(), nil
}

// Fetch implements Source.
func (s *Sheets) Fetch(ctx context.Context) (*types.RawTable, error) {
	values, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("range %s has no header row", s.Range)
	}

	table := &types.RawTable{
		Headers:    make([]string, len(values[0])),
		Rows:       make([][]any, 0, len(values)-1),
		SourceName: s.Name(),
	}
	for j, v := range values[0] {
		table.Headers[j] = fmt.Sprint(v)
	}

	for _, row := range values[1:] {
		cells := make([]any, len(row))
		empty := true
		for j, v := range row {
			cells[j] = sheetCell(v)
			if cells[j] != nil {
				empty = false
			}
		}
		if !empty {
			table.Rows = append(table.Rows, cells)
		}
	}

	return table, nil
}

// read fetches the raw values of the range.
func (s *Sheets) read(ctx context.Context) ([][]interface{}, error) {
	opts := make([]option.ClientOption, 0, len(s.Options)+1)
	if s.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
	}
	opts = append(opts, s.Options...)

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		if isRangeError(err) {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrSheetNotFound, s.Range, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Name(), err)
	}
	return resp.Values, nil
}

// isRangeError reports whether the API rejected the range itself.
func isRangeError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}

// sheetCell maps a JSON-decoded value to a RawTable cell.
func sheetCell(v interface{}) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return x
	case float64, bool:
		return x
	default:
		return fmt.Sprint(x)
	}
}

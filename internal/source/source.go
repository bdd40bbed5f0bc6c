// =============================================================================
// Invoice and PO Lookup - Data Sources
// =============================================================================
//
// A Source delivers the bill payment saved search as a RawTable. Sources know
// nothing about renaming or typing; that is the loader's job.
//
// AVAILABLE SOURCES:
//   File   : a local .xlsx/.xlsm workbook or .csv export
//   GCS    : a workbook stored in a Cloud Storage bucket
//   Sheets : a range of a Google Sheets spreadsheet
//   Static : an in-memory RawTable
//
// Each source also reports a Key that changes whenever its content changes,
// so the cache can tell when a stored table is stale.
//
// =============================================================================

package source

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/invoice-po-lookup/internal/config"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// Source is an external provider of the raw dataset.
type Source interface {
	// Name describes the source for logs and errors.
	Name() string

	// Key identifies the current content of the source.
	Key(ctx context.Context) (string, error)

	// Fetch reads and decodes the source.
	Fetch(ctx context.Context) (*types.RawTable, error)
}

// FromConfig builds the source selected by cfg.Kind.
//
// PARAMETERS:
//   - cfg: The validated source configuration.
//
// RETURNS:
//   - The configured Source.
//   - An error if the kind is unknown.
func FromConfig(cfg config.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case config.SourceFile:
		return &File{Path: cfg.Path, Sheet: cfg.Sheet}, nil
	case config.SourceGCS:
		return &GCS{Bucket: cfg.Bucket, Object: cfg.Object, Sheet: cfg.Sheet}, nil
	case config.SourceSheets:
		return &Sheets{
			SpreadsheetID:   cfg.SpreadsheetID,
			Range:           cfg.Range,
			CredentialsFile: cfg.CredentialsFile,
		}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

package loader

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// =============================================================================
// LOAD ERRORS
// =============================================================================

var (
	// ErrSourceUnreadable means the source could not be read or decoded.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrSheetMissing means the expected sheet or range is absent.
	ErrSheetMissing = types.ErrSheetNotFound

	// ErrMissingColumn means a required column is absent after renaming.
	ErrMissingColumn = errors.New("required column missing")
)

// LoadError is returned when a table cannot be built. A LoadError never comes
// with a partial table.
type LoadError struct {
	// Source is the description of the source being loaded.
	Source string

	// Reason is one of ErrSourceUnreadable, ErrSheetMissing, ErrMissingColumn.
	Reason error

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %v", e.Source, e.Reason)
	}
	if errors.Is(e.Err, e.Reason) {
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("load %s: %v: %v", e.Source, e.Reason, e.Err)
}

// Unwrap exposes both the reason and the cause to errors.Is / errors.As.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// SourceError classifies a failure to identify, read or decode a source.
// A missing sheet or range maps to ErrSheetMissing, anything else to
// ErrSourceUnreadable.
func SourceError(source string, err error) *LoadError {
	if errors.Is(err, types.ErrSheetNotFound) {
		return &LoadError{Source: source, Reason: ErrSheetMissing, Err: err}
	}
	return &LoadError{Source: source, Reason: ErrSourceUnreadable, Err: err}
}

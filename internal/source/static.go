package source

import (
	"context"
	"errors"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// Static serves a fixed in-memory RawTable. Its key never changes.
type Static struct {
	Table *types.RawTable
}

// Name implements Source.
func (s *Static) Name() string {
	if s.Table != nil && s.Table.SourceName != "" {
		return s.Table.SourceName
	}
	return "static"
}

// Key implements Source.
func (s *Static) Key(context.Context) (string, error) {
	return "static:" + s.Name(), nil
}

// Fetch implements Source.
func (s *Static) Fetch(context.Context) (*types.RawTable, error) {
	if s.Table == nil {
		return nil, errors.New("static source has no table")
	}
	return s.Table, nil
}

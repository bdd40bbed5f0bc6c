package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ginjaninja78/invoice-po-lookup/internal/csvparser"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/ginjaninja78/invoice-po-lookup/internal/xlsxparser"
	"github.com/ginjaninja78/invoice-po-lookup/pkg/utils"
)

// File reads a workbook or CSV export from the local filesystem. The decoder
// is chosen by extension; Sheet is ignored for CSV files.
type File struct {
	Path  string
	Sheet string

	mu   sync.Mutex
	last utils.Fingerprint
}

// Name implements Source.
func (f *File) Name() string {
	if f.isCSV() {
		return f.Path
	}
	return f.Path + "#" + f.Sheet
}

// Key implements Source. It changes when the file's size or content changes.
// The content is hashed only when size or mtime differ from the last call,
// so an unchanged file costs one stat.
func (f *File) Key(_ context.Context) (string, error) {
	stat, err := utils.StatFile(f.Path)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.last.Checksum == "" || !f.last.SameStat(stat) {
		fp, err := utils.FingerprintFile(f.Path)
		if err != nil {
			return "", err
		}
		f.last = fp
	}
	return "file:" + f.Sheet + ":" + f.last.Key(), nil
}

// Fetch implements Source.
func (f *File) Fetch(_ context.Context) (*types.RawTable, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".xlsx", ".xlsm":
		return xlsxparser.ParseFile(f.Path, f.Sheet)
	case ".csv":
		return csvparser.ParseFile(f.Path, csvparser.DefaultSettings())
	default:
		return nil, fmt.Errorf("unsupported file type %q: %s", ext, f.Path)
	}
}

func (f *File) isCSV() bool {
	return strings.EqualFold(filepath.Ext(f.Path), ".csv")
}

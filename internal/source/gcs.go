package source

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/ginjaninja78/invoice-po-lookup/internal/xlsxparser"
	"google.golang.org/api/option"
)

// GCS reads a workbook object from Cloud Storage. The object generation is
// the content key, so a re-upload invalidates any cached table.
type GCS struct {
	Bucket string
	Object string
	Sheet  string

	// Options are passed to storage.NewClient (endpoint, credentials).
	Options []option.ClientOption
}

// Name implements Source.
func (g *GCS) Name() string {
	return fmt.Sprintf("gs://%s/%s#%s", g.Bucket, g.Object, g.Sheet)
}

// Key implements Source.
func (g *GCS) Key(ctx context.Context) (string, error) {
	client, err := storage.NewClient(ctx, g.Options...)
	if err != nil {
		return "", fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	attrs, err := client.Bucket(g.Bucket).Object(g.Object).Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read attributes of %s: %w", g.Name(), err)
	}
	return "gcs:" + g.Name() + "@" + strconv.FormatInt(attrs.Generation, 10), nil
}

// Fetch implements Source.
func (g *GCS) Fetch(ctx context.Context) (*types.RawTable, error) {
	client, err := storage.NewClient(ctx, g.Options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(g.Bucket).Object(g.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", g.Name(), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", g.Name(), err)
	}

	raw, err := xlsxparser.DecodeBytes(data, g.Sheet)
	if err != nil {
		return nil, err
	}
	raw.SourceName = g.Name()
	return raw, nil
}

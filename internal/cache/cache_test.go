package cache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ginjaninja78/invoice-po-lookup/internal/loader"
	"github.com/ginjaninja78/invoice-po-lookup/internal/query"
	"github.com/ginjaninja78/invoice-po-lookup/internal/source"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeSource reports whatever key it is given.
type fakeSource struct {
	mu     sync.Mutex
	key    string
	keyErr error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Key(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key, f.keyErr
}

func (f *fakeSource) Fetch(context.Context) (*types.RawTable, error) {
	return &types.RawTable{}, nil
}

func (f *fakeSource) setKey(key string) {
	f.mu.Lock()
	f.key = key
	f.mu.Unlock()
}

// countingLoad returns a LoadFunc that counts calls and builds empty tables.
func countingLoad(calls *atomic.Int32, gate <-chan struct{}) LoadFunc {
	return func(ctx context.Context, src source.Source) (*types.Table, error) {
		calls.Add(1)
		if gate != nil {
			<-gate
		}
		return types.NewTable(nil, src.Name(), time.Now()), nil
	}
}

func TestGet_ReusesTableForSameKey(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoad(&calls, nil), zerolog.Nop())
	src := &fakeSource{key: "v1"}

	first, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	second, err := c.Get(context.Background(), src)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Stats{Loads: 1, Hits: 1}, c.Stats())
}

func TestGet_ReloadsWhenKeyChanges(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoad(&calls, nil), zerolog.Nop())
	src := &fakeSource{key: "v1"}

	first, err := c.Get(context.Background(), src)
	require.NoError(t, err)

	src.setKey("v2")
	second, err := c.Get(context.Background(), src)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_ConcurrentCallersLoadOnce(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})
	c := New(countingLoad(&calls, gate), zerolog.Nop())
	src := &fakeSource{key: "v1"}

	const callers = 16
	tables := make([]*types.Table, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := c.Get(context.Background(), src)
			assert.NoError(t, err)
			tables[i] = table
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, table := range tables {
		assert.Same(t, tables[0], table)
	}
}

func TestGet_FailedLoadIsNotCached(t *testing.T) {
	var calls atomic.Int32
	fail := true
	c := New(func(ctx context.Context, src source.Source) (*types.Table, error) {
		calls.Add(1)
		if fail {
			return nil, errors.New("boom")
		}
		return types.NewTable(nil, src.Name(), time.Now()), nil
	}, zerolog.Nop())
	src := &fakeSource{key: "v1"}

	table, err := c.Get(context.Background(), src)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.Nil(t, c.Current())

	fail = false
	table, err = c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int64(1), c.Stats().Errors)
}

func TestGet_KeyError(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoad(&calls, nil), zerolog.Nop())
	src := &fakeSource{keyErr: errors.New("stat failed")}

	_, err := c.Get(context.Background(), src)
	assert.ErrorContains(t, err, "stat failed")
	assert.ErrorIs(t, err, loader.ErrSourceUnreadable)
	var loadErr *loader.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "fake", loadErr.Source)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, int64(1), c.Stats().Errors)
}

func TestGet_MissingFileIsUnreadable(t *testing.T) {
	l := loader.New(zerolog.Nop())
	c := New(func(ctx context.Context, src source.Source) (*types.Table, error) {
		return l.LoadSource(ctx, src)
	}, zerolog.Nop())

	_, err := c.Get(context.Background(), &source.File{Path: filepath.Join(t.TempDir(), "missing.xlsx"), Sheet: "Bills"})

	assert.ErrorIs(t, err, loader.ErrSourceUnreadable)
	var loadErr *loader.LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Nil(t, c.Current())
}

func TestGet_KeyErrorServesStoredTable(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoad(&calls, nil), zerolog.Nop())
	src := &fakeSource{key: "v1"}

	first, err := c.Get(context.Background(), src)
	require.NoError(t, err)

	src.mu.Lock()
	src.keyErr = errors.New("api hiccup")
	src.mu.Unlock()

	second, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Stats{Loads: 1, Hits: 1}, c.Stats())
}

func TestGet_UnchangedSheetIsReadOnce(t *testing.T) {
	var reads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reads.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"values": [
			["Document Number", "Subsidiary (no hierarchy)", "Status", "Created From"],
			["INV1", "US", "Open", "Purchase Order #PO1"],
			["INV2", "CA", "Paid", "Purchase Order #PO2"]
		]}`)
	}))
	defer srv.Close()

	src := &source.Sheets{
		SpreadsheetID: "sheet-id",
		Range:         "Bills",
		Options:       []option.ClientOption{option.WithEndpoint(srv.URL + "/"), option.WithoutAuthentication()},
	}
	l := loader.New(zerolog.Nop())
	c := New(func(ctx context.Context, src source.Source) (*types.Table, error) {
		return l.LoadSource(ctx, src)
	}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		table, err := c.Get(context.Background(), src)
		require.NoError(t, err)
		assert.Equal(t, 1, query.Search(table, query.Filters{PO: "PO2"}).MatchedCount)
	}
	assert.Equal(t, int32(1), reads.Load())
	assert.Equal(t, Stats{Loads: 1, Hits: 4}, c.Stats())

	c.Invalidate()
	_, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(2), reads.Load())
}

func TestGet_UnchangedFileIsLoadedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"Document Number,Subsidiary (no hierarchy),Status,Created From\nINV1,US,Open,Purchase Order #PO1\n"), 0o644))

	var loads atomic.Int32
	l := loader.New(zerolog.Nop())
	c := New(func(ctx context.Context, src source.Source) (*types.Table, error) {
		loads.Add(1)
		return l.LoadSource(ctx, src)
	}, zerolog.Nop())
	src := &source.File{Path: path}

	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), src)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), loads.Load())

	require.NoError(t, os.WriteFile(path, []byte(
		"Document Number,Subsidiary (no hierarchy),Status,Created From\nINV2,US,Open,Purchase Order #PO2\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	table, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
	assert.Equal(t, "INV2", table.At(0).Invoice)
}

func TestInvalidate(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoad(&calls, nil), zerolog.Nop())
	src := &fakeSource{key: "v1"}

	_, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, c.Current())

	c.Invalidate()
	assert.Nil(t, c.Current())

	_, err = c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

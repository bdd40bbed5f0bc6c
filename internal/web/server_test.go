package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/invoice-po-lookup/internal/cache"
	"github.com/ginjaninja78/invoice-po-lookup/internal/loader"
	"github.com/ginjaninja78/invoice-po-lookup/internal/source"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleSource() *source.Static {
	return &source.Static{Table: &types.RawTable{
		Headers: []string{"Document Number", "Subsidiary (no hierarchy)", "Status", "Amount", "Created From"},
		Rows: [][]any{
			{"INV1", "US", "Paid", 100.0, "Bill Created from Purchase Order #PO1042"},
			{"INV2", "CA", "Open", "(5.25)", nil},
			{"INV3", "US", "Open", nil, "Purchase Order #PO1042"},
		},
		SourceName: "sample",
	}}
}

// brokenSource fails every fetch.
type brokenSource struct{}

func (brokenSource) Name() string { return "broken" }

func (brokenSource) Key(context.Context) (string, error) { return "broken", nil }

func (brokenSource) Fetch(context.Context) (*types.RawTable, error) {
	return nil, errors.New("disk on fire")
}

func newTestServer(t *testing.T, src source.Source) *Server {
	t.Helper()

	l := loader.New(zerolog.Nop())
	c := cache.New(func(ctx context.Context, src source.Source) (*types.Table, error) {
		return l.LoadSource(ctx, src)
	}, zerolog.Nop())

	s, err := NewServer(Options{
		Source:          src,
		Cache:           c,
		Logger:          zerolog.Nop(),
		MaxFilterLength: 16,
	})
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestIndex_Prompt(t *testing.T) {
	w := get(t, newTestServer(t, sampleSource()), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invoice and PO Lookup")
	assert.Contains(t, body, "Enter your search terms and click &#39;Search&#39; to begin.")
	assert.Contains(t, body, `<option value="CA">CA</option>`)
	assert.Contains(t, body, `<option value="All" selected>All</option>`)
}

func TestIndex_Results(t *testing.T) {
	w := get(t, newTestServer(t, sampleSource()), "/?search=1&po=PO1042&subsidiary=All&status=All")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Found 2 record(s). Displaying results:")
	assert.Contains(t, body, "<th>Canada Amt</th>")
	assert.Contains(t, body, "<td>INV1</td>")
	assert.Contains(t, body, "<td>INV3</td>")
	assert.NotContains(t, body, "<td>INV2</td>")
	assert.Contains(t, body, "/export?format=csv&amp;po=PO1042")
}

func TestIndex_NoResults(t *testing.T) {
	w := get(t, newTestServer(t, sampleSource()), "/?search=1&invoice=NOPE")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No records found with the given filters.")
}

func TestIndex_InvalidFilter(t *testing.T) {
	s := newTestServer(t, sampleSource())

	w := get(t, s, "/?search=1&po="+strings.Repeat("x", 17))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "filter &#39;po&#39;")
	assert.Contains(t, body, "maximum length of 16")
	assert.NotContains(t, body, "<td>INV1</td>")

	w = get(t, s, "/?po="+strings.Repeat("x", 17))
	assert.Equal(t, http.StatusOK, w.Code, "no search requested")
}

func TestIndex_LoadFailure(t *testing.T) {
	w := get(t, newTestServer(t, brokenSource{}), "/?search=1")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "disk on fire")
}

func TestAPISearch(t *testing.T) {
	s := newTestServer(t, sampleSource())

	w := get(t, s, "/api/search?status=Open")
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.MatchedCount)
	assert.Equal(t, types.DisplayColumns, resp.Columns)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "INV2", resp.Rows[0][0])
	assert.Equal(t, "-5.25", resp.Rows[0][6])

	w = get(t, s, "/api/search?invoice=NOPE")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.MatchedCount)
	assert.NotNil(t, resp.Rows)
}

func TestAPISearch_Validation(t *testing.T) {
	w := get(t, newTestServer(t, sampleSource()), "/api/search?invoice="+strings.Repeat("x", 17))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invoice", body["field"])
	assert.Equal(t, "max_length", body["rule"])
}

func TestAPISearch_LoadFailure(t *testing.T) {
	w := get(t, newTestServer(t, brokenSource{}), "/api/search?invoice=INV1")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "source unreadable")
}

func TestAPIOptions(t *testing.T) {
	w := get(t, newTestServer(t, sampleSource()), "/api/options")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subsidiaries":["CA","US"],"statuses":["Open","Paid"]}`, w.Body.String())
}

func TestExport(t *testing.T) {
	s := newTestServer(t, sampleSource())

	w := get(t, s, "/export?format=csv&subsidiary=US")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-po-lookup.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)

	w = get(t, s, "/export?format=pdf")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReloadAndHealth(t *testing.T) {
	s := newTestServer(t, sampleSource())

	w := get(t, s, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, false, health["loaded"])

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rows":3`)

	w = get(t, s, "/health")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, true, health["loaded"])
	assert.Equal(t, float64(3), health["rows"])
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, sampleSource())

	w := get(t, s, "/health")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

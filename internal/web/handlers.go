package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/invoice-po-lookup/internal/export"
	"github.com/ginjaninja78/invoice-po-lookup/internal/logger"
	"github.com/ginjaninja78/invoice-po-lookup/internal/query"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// Messages shown above the results.
const (
	msgPrompt   = "Enter your search terms and click 'Search' to begin."
	msgNoResult = "No records found with the given filters."
	msgFound    = "Found %d record(s). Displaying results:"
)

// exportBaseName is the download name without extension.
const exportBaseName = "invoice-po-lookup"

// pageData feeds templates/index.html.
type pageData struct {
	Filters      query.Filters
	Subsidiaries []string
	Statuses     []string
	Message      string
	MessageKind  string
	Columns      []string
	Rows         [][]string
	Query        template.URL
}

// searchResponse is the body of GET /api/search.
type searchResponse struct {
	MatchedCount int        `json:"matched_count"`
	Columns      []string   `json:"columns"`
	Rows         [][]string `json:"rows"`
}

// =============================================================================
// HTML FORM
// =============================================================================

func (s *Server) handleIndex(c *gin.Context) {
	f, filterErr := s.readFilters(c)

	page := pageData{
		Filters:      f,
		Subsidiaries: []string{query.AllSentinel},
		Statuses:     []string{query.AllSentinel},
	}
	if page.Filters.Subsidiary == "" {
		page.Filters.Subsidiary = query.AllSentinel
	}
	if page.Filters.Status == "" {
		page.Filters.Status = query.AllSentinel
	}

	table, err := s.table(c)
	if err != nil {
		s.logLoadError(c, err)
		page.Message, page.MessageKind = err.Error(), "error"
		c.HTML(http.StatusServiceUnavailable, "index.html", page)
		return
	}

	opts := query.Options(table)
	page.Subsidiaries = append(page.Subsidiaries, opts.Subsidiaries...)
	page.Statuses = append(page.Statuses, opts.Statuses...)

	if c.Query("search") == "" {
		page.Message, page.MessageKind = msgPrompt, "info"
		c.HTML(http.StatusOK, "index.html", page)
		return
	}

	if filterErr != nil {
		page.Message, page.MessageKind = filterErr.Error(), "error"
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}

	res := query.Search(table, f)
	if res.MatchedCount == 0 {
		page.Message, page.MessageKind = msgNoResult, "warning"
		c.HTML(http.StatusOK, "index.html", page)
		return
	}

	page.Message, page.MessageKind = fmt.Sprintf(msgFound, res.MatchedCount), "success"
	page.Columns = types.DisplayLabels()
	page.Rows = displayRows(res.Rows)
	page.Query = template.URL(filterQuery(f))
	c.HTML(http.StatusOK, "index.html", page)
}

// =============================================================================
// JSON API
// =============================================================================

func (s *Server) handleSearch(c *gin.Context) {
	f, ok := s.bindFilters(c)
	if !ok {
		return
	}

	table, err := s.table(c)
	if err != nil {
		s.logLoadError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	res := query.Search(table, f)
	c.JSON(http.StatusOK, searchResponse{
		MatchedCount: res.MatchedCount,
		Columns:      types.DisplayColumns,
		Rows:         displayRows(res.Rows),
	})
}

func (s *Server) handleOptions(c *gin.Context) {
	table, err := s.table(c)
	if err != nil {
		s.logLoadError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, query.Options(table))
}

func (s *Server) handleReload(c *gin.Context) {
	s.cache.Invalidate()

	table, err := s.table(c)
	if err != nil {
		s.logLoadError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	log := logger.FromContext(c.Request.Context())
	log.Info().Int("rows", table.Len()).Msg("table reloaded")
	c.JSON(http.StatusOK, gin.H{
		"rows":      table.Len(),
		"source":    table.SourceName(),
		"loaded_at": table.LoadedAt(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"source": s.src.Name(),
		"loaded": false,
		"rows":   0,
	}
	if table := s.cache.Current(); table != nil {
		body["loaded"] = true
		body["rows"] = table.Len()
		body["loaded_at"] = table.LoadedAt()
	}
	stats := s.cache.Stats()
	body["loads"], body["hits"], body["errors"] = stats.Loads, stats.Hits, stats.Errors

	c.JSON(http.StatusOK, body)
}

// =============================================================================
// EXPORT
// =============================================================================

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatXLSX)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, ok := s.bindFilters(c)
	if !ok {
		return
	}

	table, err := s.table(c)
	if err != nil {
		s.logLoadError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	res := query.Search(table, f)

	var buf bytes.Buffer
	if err := export.Write(&buf, format, res.Rows); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Str("format", string(format)).Msg("export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName(exportBaseName)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// =============================================================================
// HELPERS
// =============================================================================

// readFilters binds the filters from the query string and validates them.
func (s *Server) readFilters(c *gin.Context) (query.Filters, error) {
	var f query.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		return f, fmt.Errorf("failed to read filters: %w", err)
	}
	return f, f.Validate(s.maxLen)
}

// bindFilters reads and validates the filters, answering 400 on failure.
func (s *Server) bindFilters(c *gin.Context) (query.Filters, bool) {
	f, err := s.readFilters(c)
	if err != nil {
		body := gin.H{"error": err.Error()}
		var vErr *query.ValidationError
		if errors.As(err, &vErr) {
			body["field"] = vErr.Field
			body["rule"] = vErr.Rule
		}
		c.JSON(http.StatusBadRequest, body)
		return f, false
	}
	return f, true
}

func (s *Server) logLoadError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())
	log.Error().Err(err).Str("source", s.src.Name()).Msg("failed to load table")
}

// displayRows renders records in display column order.
func displayRows(records []types.Record) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.DisplayValues()
	}
	return rows
}

// filterQuery encodes the active filters for the export links.
func filterQuery(f query.Filters) string {
	v := url.Values{}
	n := f.Normalized()
	for key, value := range map[string]string{
		"invoice":    n.Invoice,
		"po":         n.PO,
		"subsidiary": n.Subsidiary,
		"status":     n.Status,
	} {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v.Encode()
}

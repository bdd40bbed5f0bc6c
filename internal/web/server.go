// =============================================================================
// Invoice and PO Lookup - Web Server
// =============================================================================
//
// The web server is the presentation layer over the cache and the query
// engine. It never searches a partially loaded table: when the source cannot
// be loaded, every endpoint that needs data answers 503.
//
// ROUTES:
//   GET  /             HTML search form and results
//   GET  /api/search   JSON search
//   GET  /api/options  JSON subsidiary and status choices
//   GET  /export       download results as xlsx, csv or xml
//   POST /api/reload   drop the cached table and load it again
//   GET  /health       liveness and cache state
//
// =============================================================================

package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/invoice-po-lookup/internal/cache"
	"github.com/ginjaninja78/invoice-po-lookup/internal/source"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// shutdownTimeout bounds how long in-flight requests may run after Run's
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Source is the dataset served by the form.
	Source source.Source

	// Cache holds the loaded table for Source.
	Cache *cache.Cache

	// Logger receives the access log and handler errors.
	Logger zerolog.Logger

	// MaxFilterLength bounds each filter value; 0 disables the check.
	MaxFilterLength int

	// Mode is the gin mode ("debug", "release", "test").
	Mode string
}

// Server serves the lookup form and API.
type Server struct {
	src    source.Source
	cache  *cache.Cache
	log    zerolog.Logger
	maxLen int
	router *gin.Engine
}

// NewServer builds the router and parses the page template.
func NewServer(opts Options) (*Server, error) {
	if opts.Source == nil || opts.Cache == nil {
		return nil, errors.New("web server needs a source and a cache")
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		src:    opts.Source,
		cache:  opts.Cache,
		log:    opts.Logger.With().Str("component", "web").Logger(),
		maxLen: opts.MaxFilterLength,
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery(), RequestID(), AccessLog(s.log))

	router.GET("/", s.handleIndex)
	router.GET("/export", s.handleExport)
	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/search", s.handleSearch)
		api.GET("/options", s.handleOptions)
		api.POST("/reload", s.handleReload)
	}

	s.router = router
	return s, nil
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("source", s.src.Name()).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// table returns the current table, loading it if needed.
func (s *Server) table(c *gin.Context) (*types.Table, error) {
	return s.cache.Get(c.Request.Context(), s.src)
}

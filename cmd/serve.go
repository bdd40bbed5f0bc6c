// =============================================================================
// Invoice and PO Lookup - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   lookup serve [flags]
//
// FLAGS:
//   --addr     : Listen address, overrides server.addr from the config
//   --preload  : Load the table before accepting requests (default true)
//
// The server stops gracefully on SIGINT or SIGTERM.
//
// =============================================================================

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/invoice-po-lookup/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	preload   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lookup web form",
	Long: `Start the web form and JSON API. The table is loaded from the configured
source and reloaded automatically when the source changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&preload, "preload", true, "Load the table before accepting requests")
}

func runServe(ctx context.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed preload is logged, not fatal: the form reports it and retries.
	if preload {
		if table, err := rt.cache.Get(ctx, rt.src); err != nil {
			rt.log.Error().Err(err).Msg("initial load failed")
		} else {
			rt.log.Info().Int("rows", table.Len()).Msg("table ready")
		}
	}

	srv, err := web.NewServer(web.Options{
		Source:          rt.src,
		Cache:           rt.cache,
		Logger:          rt.log,
		MaxFilterLength: rt.cfg.Query.MaxFilterLength,
		Mode:            rt.cfg.Server.Mode,
	})
	if err != nil {
		return err
	}

	addr := rt.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return srv.Run(ctx, addr)
}

// =============================================================================
// Invoice and PO Lookup - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (lookup)
//   ├── serveCmd   (lookup serve)
//   ├── searchCmd  (lookup search)
//   ├── columnsCmd (lookup columns)
//   └── versionCmd (lookup version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration for subcommands that need it
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ginjaninja78/invoice-po-lookup/internal/cache"
	"github.com/ginjaninja78/invoice-po-lookup/internal/config"
	"github.com/ginjaninja78/invoice-po-lookup/internal/loader"
	"github.com/ginjaninja78/invoice-po-lookup/internal/logger"
	"github.com/ginjaninja78/invoice-po-lookup/internal/source"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Invoice and PO Lookup - search bill payment records by invoice or PO number",
	Long: `Invoice and PO Lookup loads the bill payment saved search (an Excel
workbook, a CSV export, a Cloud Storage object or a Google Sheets range) and
lets you find records by Invoice number, PO number, Subsidiary and Status.

The PO number is taken from the "Created From" column, e.g.
"Bill Created from Purchase Order #PO1042" gives PO1042.

Example Usage:
  lookup serve                          # Start the web form on :8080
  lookup search --po PO1042             # Search from the terminal
  lookup search --status Open --format xlsx --out open.xlsx
  lookup columns                        # Show how source columns are renamed`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (a missing file means defaults)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// app bundles what the data commands need.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	src   source.Source
	cache *cache.Cache
}

// setup loads the configuration and wires the source, loader and cache.
func setup() (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	src, err := source.FromConfig(cfg.Source)
	if err != nil {
		return nil, err
	}

	l := loader.New(log)
	c := cache.New(func(ctx context.Context, src source.Source) (*types.Table, error) {
		return l.LoadSource(ctx, src)
	}, log)

	log.Debug().Str("config", cfgFile).Str("source", src.Name()).Msg("configuration loaded")

	return &app{cfg: cfg, log: log, src: src, cache: c}, nil
}

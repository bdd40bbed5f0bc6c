// =============================================================================
// Invoice and PO Lookup - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values come from, in
// increasing order of precedence:
//   1. Built-in defaults
//   2. The YAML config file (config.yaml by default, optional)
//   3. A .env file in the working directory (optional)
//   4. Process environment variables
//
// ENVIRONMENT VARIABLES:
//   LOOKUP_SOURCE_KIND, LOOKUP_SOURCE_PATH, LOOKUP_SOURCE_SHEET,
//   LOOKUP_GCS_BUCKET, LOOKUP_GCS_OBJECT,
//   LOOKUP_SHEETS_ID, LOOKUP_SHEETS_RANGE, GOOGLE_APPLICATION_CREDENTIALS,
//   LOOKUP_ADDR (or PORT), LOOKUP_LOG_LEVEL
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ginjaninja78/invoice-po-lookup/internal/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceFile   = "file"
	SourceGCS    = "gcs"
	SourceSheets = "sheets"
)

// Default values.
const (
	DefaultSourcePath      = "./data/Bill Payment File.xlsx"
	DefaultSheet           = "BillsandRelatedBillPaymentsTSL"
	DefaultAddr            = ":8080"
	DefaultMode            = "release"
	DefaultMaxFilterLength = 64
	DefaultLogLevel        = "info"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Source   SourceConfig `yaml:"source"`
	Server   ServerConfig `yaml:"server"`
	Query    QueryConfig  `yaml:"query"`
	LogLevel string       `yaml:"log_level"`
}

// SourceConfig describes where the bill payment workbook is read from.
type SourceConfig struct {
	// Kind selects the source: "file", "gcs" or "sheets".
	// Default: "file"
	Kind string `yaml:"kind"`

	// Path is the local workbook (.xlsx, .xlsm) or CSV export. Used by "file".
	Path string `yaml:"path"`

	// Sheet is the worksheet holding the saved search. Used by "file" (xlsx) and "gcs".
	// Default: "BillsandRelatedBillPaymentsTSL"
	Sheet string `yaml:"sheet"`

	// Bucket and Object locate the workbook in Cloud Storage. Used by "gcs".
	Bucket string `yaml:"bucket"`
	Object string `yaml:"object"`

	// SpreadsheetID and Range locate the data in Google Sheets. Used by "sheets".
	// Range defaults to the sheet name, i.e. the whole sheet.
	SpreadsheetID string `yaml:"spreadsheet_id"`
	Range         string `yaml:"range"`

	// CredentialsFile is a service account JSON key for "sheets".
	// If empty, application default credentials are used.
	CredentialsFile string `yaml:"credentials_file"`
}

// ServerConfig configures the web form.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// Mode is the gin mode: "debug", "release" or "test".
	// Default: "release"
	Mode string `yaml:"mode"`
}

// QueryConfig bounds the filter input accepted from users.
type QueryConfig struct {
	// MaxFilterLength is the longest accepted filter value, in characters.
	// Default: 64
	MaxFilterLength int `yaml:"max_filter_length"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadConfig loads the configuration from a YAML file and the environment.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. A missing file is not an error.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadConfig(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional; its absence is fine.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides copies set environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"LOOKUP_SOURCE_KIND", &cfg.Source.Kind},
		{"LOOKUP_SOURCE_PATH", &cfg.Source.Path},
		{"LOOKUP_SOURCE_SHEET", &cfg.Source.Sheet},
		{"LOOKUP_GCS_BUCKET", &cfg.Source.Bucket},
		{"LOOKUP_GCS_OBJECT", &cfg.Source.Object},
		{"LOOKUP_SHEETS_ID", &cfg.Source.SpreadsheetID},
		{"LOOKUP_SHEETS_RANGE", &cfg.Source.Range},
		{"GOOGLE_APPLICATION_CREDENTIALS", &cfg.Source.CredentialsFile},
		{"PORT", &cfg.Server.Addr},
		{"LOOKUP_ADDR", &cfg.Server.Addr},
		{"LOOKUP_LOG_LEVEL", &cfg.LogLevel},
	}

	for _, o := range overrides {
		if value, ok := os.LookupEnv(o.key); ok && value != "" {
			*o.target = value
		}
	}

	// PORT carries a bare port number on most platforms.
	if cfg.Server.Addr != "" && !strings.Contains(cfg.Server.Addr, ":") {
		cfg.Server.Addr = ":" + cfg.Server.Addr
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceFile
	}
	if cfg.Source.Kind == SourceFile && cfg.Source.Path == "" {
		cfg.Source.Path = DefaultSourcePath
	}
	if cfg.Source.Sheet == "" {
		cfg.Source.Sheet = DefaultSheet
	}
	if cfg.Source.Kind == SourceSheets && cfg.Source.Range == "" {
		cfg.Source.Range = cfg.Source.Sheet
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultMode
	}
	if cfg.Query.MaxFilterLength == 0 {
		cfg.Query.MaxFilterLength = DefaultMaxFilterLength
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for kind %q", SourceFile)
		}
	case SourceGCS:
		if c.Source.Bucket == "" || c.Source.Object == "" {
			return fmt.Errorf("source.bucket and source.object are required for kind %q", SourceGCS)
		}
	case SourceSheets:
		if c.Source.SpreadsheetID == "" {
			return fmt.Errorf("source.spreadsheet_id is required for kind %q", SourceSheets)
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}

	if c.Query.MaxFilterLength < 0 {
		return fmt.Errorf("query.max_filter_length must not be negative, got %d", c.Query.MaxFilterLength)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

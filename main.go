// =============================================================================
// Invoice and PO Lookup - Main Entry Point
// =============================================================================
//
// This is the main entry point for the lookup CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   lookup serve     - Start the web form
//   lookup search    - Search from the terminal
//   lookup columns   - Show the column mapping
//   lookup version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : loader, query engine, sources, cache, exports, web
//   - pkg/       : shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/invoice-po-lookup/cmd"
)

func main() {
	cmd.Execute()
}

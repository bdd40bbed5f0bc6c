// =============================================================================
// Invoice and PO Lookup - Version Command
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Version and BuildDate are overridden at release time with
//   -ldflags "-X '<module>/cmd.Version=...' -X '<module>/cmd.BuildDate=...'"
var (
	Version   = "dev"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeVersion(cmd.OutOrStdout(), versionShort)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print the version number only")
	rootCmd.AddCommand(versionCmd)
}

// writeVersion prints the build information, or just Version when short.
func writeVersion(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, Version)
		return err
	}
	_, err := fmt.Fprintf(w, "Invoice and PO Lookup %s (built %s, %s %s/%s)\n",
		Version, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}

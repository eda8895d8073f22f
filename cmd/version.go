package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(_ *cobra.Command, _ []string) error {
		return printJSON(map[string]string{
			"name":    app,
			"version": version,
			"go":      runtime.Version(),
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

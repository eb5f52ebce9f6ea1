package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	// With no subcommand the interactive browser opens.
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = func(_ *cobra.Command, args []string) error {
		return browseCmd.RunE(browseCmd, args)
	}
}

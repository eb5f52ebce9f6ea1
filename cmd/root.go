package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blueprint-browser",
	Short: "Browse the community blueprint catalog from the terminal",
	Long: `Loads the blueprint index (local index.json first, the remote mirror as a fallback)
and lets you search, filter, sort and inspect blueprints.

Run without a subcommand to open the interactive browser.

Configuration comes from a .env file in the --config directory or the environment.
REMOTE_BASE_URL is required: it names the mirror that serves index.json when
SITE_ORIGIN (default: the current directory) does not.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing the .env configuration file")
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"blueprint-browser/catalog"

	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [blueprintID]",
	Short: "Show every detail of one blueprint",
	Long: `Show the full record of a blueprint, including its description,
required mods and image locations.
Example: blueprint-browser show 3f2a9c`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(configDir)
		if err != nil {
			return err
		}
		return runShow(cmd.Context(), a, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(ctx context.Context, a *app, id string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	state, err := a.load(ctx)
	if err != nil {
		return err
	}
	record, ok := catalog.Find(state.Records, id)
	if !ok {
		return fmt.Errorf("blueprint %q not found", id)
	}
	_, err = fmt.Fprint(w, renderDetail(record))
	return err
}

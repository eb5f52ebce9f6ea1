package cmd

import (
	"context"
	"fmt"
	"io"

	"blueprint-browser/catalog"
	"blueprint-browser/ui"

	"github.com/spf13/cobra"
)

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories present in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(configDir)
		if err != nil {
			return err
		}
		return runCategories(cmd.Context(), a, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(ctx context.Context, a *app, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	state, err := a.load(ctx)
	if err != nil {
		return err
	}

	counts := catalog.CategoryCounts(state.Records)
	for _, c := range catalog.Categories(state.Records) {
		n := len(state.Records)
		if c != catalog.AllCategories {
			n = counts[c]
		}
		padded := fmt.Sprintf("%-24s", c)
		if c != catalog.AllCategories {
			padded = ui.Colorize(padded, ui.CategoryColor(c))
		}
		if _, err := fmt.Fprintf(w, "%s %5d\n", padded, n); err != nil {
			return err
		}
	}
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"blueprint-browser/catalog"
	"blueprint-browser/logger"
	"blueprint-browser/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print blueprints matching a search, category and sort order",
	Long: `Loads the catalog once and prints the matching blueprints.

Example: blueprint-browser list --search steel --category Industry --sort newest --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := listOptions{}
		opts.search, _ = cmd.Flags().GetString("search")
		opts.category, _ = cmd.Flags().GetString("category")
		opts.sort, _ = cmd.Flags().GetString("sort")
		opts.limit, _ = cmd.Flags().GetInt("limit")
		opts.asJSON, _ = cmd.Flags().GetBool("json")

		a, err := bootstrap(configDir)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("sort") {
			opts.sort = string(a.defaultSort())
		}
		return runList(cmd.Context(), a, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("search", "s", "", "case-insensitive match on name, author or category")
	listCmd.Flags().StringP("category", "c", catalog.AllCategories, "category to show (All for every category)")
	listCmd.Flags().StringP("sort", "o", "score", "sort order: score, newest, downloads, likes, rating")
	listCmd.Flags().IntP("limit", "n", 0, "maximum number of rows (0 for all)")
	listCmd.Flags().Bool("json", false, "print the matching records as JSON")
}

type listOptions struct {
	search   string
	category string
	sort     string
	limit    int
	asJSON   bool
}

func runList(ctx context.Context, a *app, opts listOptions, w io.Writer) error {
	sortOpt, err := catalog.ParseSortOption(opts.sort)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	state, err := a.load(ctx)
	if err != nil {
		logger.Log.Errorw("Failed to load catalog", zap.Error(err))
		return err
	}

	category, ok := matchCategory(catalog.Categories(state.Records), opts.category)
	if !ok {
		return fmt.Errorf("unknown category %q (see the categories command)", opts.category)
	}

	view := a.controller.Query(catalog.Query{
		Search:   opts.search,
		Category: category,
		Sort:     sortOpt,
	})
	total := len(view)
	if opts.limit > 0 && len(view) > opts.limit {
		view = view[:opts.limit]
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return writeTable(w, view, total, state)
}

func writeTable(w io.Writer, view []catalog.Record, total int, state catalog.State) error {
	if len(view) == 0 {
		_, err := fmt.Fprintln(w, "No blueprints found.")
		return err
	}
	if _, err := fmt.Fprintln(w, renderHeader()); err != nil {
		return err
	}
	for _, r := range view {
		if _, err := fmt.Fprintln(w, renderRow(r)); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf("\nShowing %d of %d matching blueprints (%d total, source: %s)",
		len(view), total, len(state.Records), state.Tier)
	_, err := fmt.Fprintln(w, ui.Footer.Render(summary))
	return err
}

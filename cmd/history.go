package cmd

import (
	"fmt"
	"io"

	"blueprint-browser/db"
	"blueprint-browser/ui"

	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent index fetch attempts",
	Long: `Shows the most recent requests made for index.json, which tier served
them and how long they took. Requires HISTORY_ENABLED (the default).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		a, err := bootstrap(configDir)
		if err != nil {
			return err
		}
		if a.history == nil {
			return fmt.Errorf("fetch history is disabled (HISTORY_ENABLED=false)")
		}
		return runHistory(a.history, limit, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "number of attempts to show")
}

func runHistory(history *db.FetchLog, limit int, w io.Writer) error {
	attempts, err := history.Recent(limit)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No fetch attempts recorded yet.")
		return err
	}

	fmt.Fprintln(w, ui.Header.Render(fmt.Sprintf("%-19s %-6s %6s %7s %8s  %s", "When", "Tier", "Status", "Records", "Time", "URL / error")))
	for _, a := range attempts {
		status := "-"
		if a.StatusCode != 0 {
			status = fmt.Sprintf("%d", a.StatusCode)
		}
		detail := a.URL
		if !a.Succeeded() {
			detail = ui.Error.Render(a.Error)
		}
		fmt.Fprintf(w, " %-19s %-6s %6s %7d %6dms  %s\n",
			a.AttemptAt.Local().Format("2006-01-02 15:04:05"),
			a.Tier,
			status,
			a.Records,
			a.DurationMS,
			detail,
		)
	}

	stats, err := history.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, s := range stats {
		fmt.Fprintln(w, ui.Footer.Render(fmt.Sprintf("%s: %d attempts, %d failed, avg %.0fms", s.Tier, s.Attempts, s.Failures, s.AvgMillis)))
	}
	return nil
}

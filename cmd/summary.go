package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var summaryMinMatches int

// summaryCmd prints season champions and the all-time team summary.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Season champions and all-time team summary",
	Long: `Display the champion of every season (winner of the season's last match)
and, per team, total matches, wins, trophies and win percentage.
Teams with fewer than --min-matches matches are left out.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryMinMatches, "min-matches", -1, "minimum matches per team (default from config)")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	minMatches := cfg.MinMatches
	if summaryMinMatches >= 0 {
		minMatches = summaryMinMatches
	}
	return withData(cmd, pipeline.NeedMatches, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		champs, err := aggregator.Champions(d.Matches)
		if err != nil {
			return fmt.Errorf("compute champions: %w", err)
		}
		summary, err := aggregator.Summarize(d.Matches, minMatches)
		if err != nil {
			return fmt.Errorf("compute summary: %w", err)
		}
		w := cmd.OutOrStdout()
		report.Champions(champs).Print(w)
		report.TeamSummary(summary).Print(w)
		return nil
	})
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Wins split into defended and chased, plus wins per season",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

func runResults(cmd *cobra.Command, _ []string) error {
	return withData(cmd, pipeline.NeedMatches, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		seasonWins, err := aggregator.SeasonWins(d.Matches)
		if err != nil {
			return fmt.Errorf("compute season wins: %w", err)
		}
		w := cmd.OutOrStdout()
		report.ResultTypes(aggregator.ResultTypes(d.Matches)).Print(w)
		report.SeasonWins(seasonWins).Print(w)
		return nil
	})
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var bowlingMinOvers int

var bowlingCmd = &cobra.Command{
	Use:   "bowling",
	Short: "Career bowling leaderboard, economy in wins, dismissals and wickets by over",
	Args:  cobra.NoArgs,
	RunE:  runBowling,
}

func init() {
	bowlingCmd.Flags().IntVar(&bowlingMinOvers, "min-overs", -1, "minimum overs bowled (default from config)")
}

func runBowling(cmd *cobra.Command, _ []string) error {
	minOvers := cfg.MinOvers
	if bowlingMinOvers >= 0 {
		minOvers = bowlingMinOvers
	}
	return withData(cmd, pipeline.NeedDeliveries, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		inWins, err := aggregator.WinningBowlers(d.Matches, d.Deliveries, cfg.MinOversInWins, cfg.TopN)
		if err != nil {
			return fmt.Errorf("compute winning bowlers: %w", err)
		}
		w := cmd.OutOrStdout()
		report.Bowlers(aggregator.BowlerLeaders(d.Deliveries, minOvers)).Print(w)
		report.WinningBowlers(inWins).Print(w)
		report.Dismissals(aggregator.Dismissals(d.Deliveries)).Print(w)
		report.WicketsByOver(aggregator.WicketsByOver(d.Deliveries)).Print(w)
		return nil
	})
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var battingMinBalls int

var battingCmd = &cobra.Command{
	Use:   "batting",
	Short: "Career batting leaderboard, run scorers in wins and partnerships",
	Args:  cobra.NoArgs,
	RunE:  runBatting,
}

func init() {
	battingCmd.Flags().IntVar(&battingMinBalls, "min-balls", -1, "minimum balls faced (default from config)")
}

func runBatting(cmd *cobra.Command, _ []string) error {
	minBalls := cfg.MinBallsFaced
	if battingMinBalls >= 0 {
		minBalls = battingMinBalls
	}
	return withData(cmd, pipeline.NeedDeliveries, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		inWins, err := aggregator.WinningBatters(d.Matches, d.Deliveries, cfg.TopN)
		if err != nil {
			return fmt.Errorf("compute winning batters: %w", err)
		}
		w := cmd.OutOrStdout()
		report.Batters(aggregator.BatterLeaders(d.Deliveries, minBalls)).Print(w)
		report.WinningBatters(inWins).Print(w)
		report.Partnerships(aggregator.Partnerships(d.Deliveries, cfg.PartnershipMinRuns)).Print(w)
		return nil
	})
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var (
	valuationTop    int
	valuationPlayer string
)

var valuationCmd = &cobra.Command{
	Use:   "valuation",
	Short: "Year-over-year auction valuation changes",
	Long: `Rank players by the change in their auction price since their previous
appearance, by percentage and by amount. With --player, print that player's
full price history instead.`,
	Args: cobra.NoArgs,
	RunE: runValuation,
}

func init() {
	valuationCmd.Flags().IntVar(&valuationTop, "top", 0, "rows per ranking (default from config)")
	valuationCmd.Flags().StringVar(&valuationPlayer, "player", "", "show one player's trend")
}

func runValuation(cmd *cobra.Command, _ []string) error {
	n := cfg.TopN
	if valuationTop > 0 {
		n = valuationTop
	}
	return withData(cmd, pipeline.NeedAuction, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		trend := aggregator.ValuationTrend(d.Auctions)
		w := cmd.OutOrStdout()

		if valuationPlayer != "" {
			rows := aggregator.PlayerTrend(trend, valuationPlayer)
			if len(rows) == 0 {
				return fmt.Errorf("no auction rows for player %q", valuationPlayer)
			}
			report.Valuation("valuation", valuationPlayer+" valuation", rows).Print(w)
			return nil
		}

		report.Valuation("top_rises", "Top valuation rises (%)", aggregator.TopRises(trend, n)).Print(w)
		report.Valuation("top_crashes", "Top valuation crashes (%)", aggregator.TopCrashes(trend, n)).Print(w)
		report.Valuation("top_rockets_by_diff", "Top valuation rises (amount)", aggregator.TopRocketsByDiff(trend, n)).Print(w)
		report.Valuation("top_crashes_by_diff", "Top valuation crashes (amount)", aggregator.TopCrashesByDiff(trend, n)).Print(w)
		return nil
	})
}

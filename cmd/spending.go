package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var spendingCmd = &cobra.Command{
	Use:   "spending",
	Short: "Auction spend by team, year and role, and the most expensive buys",
	Args:  cobra.NoArgs,
	RunE:  runSpending,
}

func runSpending(cmd *cobra.Command, _ []string) error {
	return withData(cmd, pipeline.NeedAuction, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		as := d.Auctions
		w := cmd.OutOrStdout()
		report.TeamSpend(aggregator.TeamSpend(as)).Print(w)
		report.TeamSpendByYear(aggregator.TeamSpendByYear(as)).Print(w)
		report.RoleSpendByYear(aggregator.RoleSpendByYear(as)).Print(w)
		report.TopPaidPerYear(aggregator.TopPaidPerYear(as, cfg.TopN)).Print(w)
		report.TopAuctionRows(aggregator.TopAuctionRows(as, pipeline.TopAuctionRows)).Print(w)
		return nil
	})
}

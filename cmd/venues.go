package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Runs scored per venue with known stadium coordinates",
	Args:  cobra.NoArgs,
	RunE:  runVenues,
}

func runVenues(cmd *cobra.Command, _ []string) error {
	return withData(cmd, pipeline.NeedDeliveries, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		rows, err := aggregator.VenueStats(d.Matches, d.Deliveries)
		if err != nil {
			return fmt.Errorf("compute venues: %w", err)
		}
		report.Venues(rows).Print(cmd.OutOrStdout())
		return nil
	})
}

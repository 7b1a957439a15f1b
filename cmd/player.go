package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

// playerCmd prints one player's batting and bowling per season.
var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Per-season batting and bowling for one player",
	Long: `Print runs, balls faced and strike rate as a batter, and balls, runs
conceded, wickets and economy as a bowler, for every season the player
appears in. The name must match the deliveries file exactly, e.g. "V Kohli".`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := args[0]
	return withData(cmd, pipeline.NeedDeliveries, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		rows, err := aggregator.PlayerSeasons(d.Matches, d.Deliveries, name)
		if err != nil {
			return fmt.Errorf("compute player seasons: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("no deliveries found for player %q", name)
		}
		report.PlayerSeasons(name, rows).Print(cmd.OutOrStdout())
		return nil
	})
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var tossCmd = &cobra.Command{
	Use:   "toss",
	Short: "How often each team turns a toss win into a match win",
	Args:  cobra.NoArgs,
	RunE:  runToss,
}

func runToss(cmd *cobra.Command, _ []string) error {
	return withData(cmd, pipeline.NeedMatches, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		w := cmd.OutOrStdout()
		report.TossConversions(aggregator.TossConversions(d.Matches)).Print(w)
		report.TossImpact(aggregator.TossImpactSummary(d.Matches)).Print(w)
		return nil
	})
}

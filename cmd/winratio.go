package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/model"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

var (
	winRatioSeason string
	winRatioTeam   string
)

var winRatioCmd = &cobra.Command{
	Use:   "winratio",
	Short: "Matches played, won and win ratio per season and team",
	Args:  cobra.NoArgs,
	RunE:  runWinRatio,
}

func init() {
	winRatioCmd.Flags().StringVar(&winRatioSeason, "season", "", "only this season label, e.g. 2009 or 2009/10")
	winRatioCmd.Flags().StringVar(&winRatioTeam, "team", "", "only this team; former franchise names are accepted")
}

func runWinRatio(cmd *cobra.Command, _ []string) error {
	return withData(cmd, pipeline.NeedMatches, func(_ context.Context, _ *pipeline.Runner, d *pipeline.Data) error {
		rows, err := aggregator.WinRatios(d.Matches)
		if err != nil {
			return fmt.Errorf("compute win ratios: %w", err)
		}
		team := ""
		if winRatioTeam != "" {
			team = model.NewAliasTable(cfg.TeamAliases).Canonical(winRatioTeam)
		}
		report.WinRatios(filterWinRatios(rows, winRatioSeason, team)).Print(cmd.OutOrStdout())
		return nil
	})
}

// filterWinRatios keeps rows matching season label and team; empty filters
// match all. Labels are compared whole since "2009" and "2009/10" are
// different seasons.
func filterWinRatios(rows []aggregator.WinRatio, season, team string) []aggregator.WinRatio {
	var out []aggregator.WinRatio
	for _, r := range rows {
		if season != "" && r.Season != season {
			continue
		}
		if team != "" && r.Team != team {
			continue
		}
		out = append(out, r)
	}
	return out
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

// schemaHelp is shared with the shell's help output.
const schemaHelp = `Schema overview:
  matches(id, season, season_year, date, team1, team2, venue,
    toss_winner, toss_decision, winner)
  deliveries(match_id, inning, "over", ball, batting_team, bowling_team,
    batter, non_striker, bowler, batsman_runs, extra_runs, total_runs,
    is_wicket, dismissal_kind, player_dismissed)
  auctions(player, year, team, role, amount, origin)

Team names are already normalized. "over" is a keyword: quote it.`

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the loaded datasets",
	Long: `Load the configured datasets into an in-memory SQLite database, run an
arbitrary SQL query and print the result as a table. Nothing is persisted.

` + schemaHelp,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	return withData(cmd, configuredDatasets(), func(ctx context.Context, r *pipeline.Runner, d *pipeline.Data) error {
		db, err := r.OpenDB(ctx, d)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		cols, rows, err := db.QueryRaw(query, report.Missing)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(w, "(no rows)")
			return nil
		}
		report.PrintRaw(w, cols, rows)
		fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
		return nil
	})
}

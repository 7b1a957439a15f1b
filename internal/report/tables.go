package report

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/model"
)

func itoa(n int) string { return strconv.Itoa(n) }

func money(d decimal.Decimal) string { return d.String() }

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func coord(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// ---- Matches ----

// WinRatios builds the per-season win-ratio table.
func WinRatios(rows []aggregator.WinRatio) *Table {
	t := &Table{
		Name:    "win_ratio",
		Title:   "Win ratio by season",
		Columns: []string{"season", "team", "matches_played", "matches_won", "win_ratio"},
	}
	for _, r := range rows {
		t.Append(r.Season, r.Team, itoa(r.Played), itoa(r.Won), r.Ratio.Format(2))
	}
	return t
}

// Champions builds the season champions table.
func Champions(rows []aggregator.Champion) *Table {
	t := &Table{
		Name:    "champions",
		Title:   "Season champions",
		Columns: []string{"season", "final_date", "match_id", "champion"},
	}
	for _, r := range rows {
		t.Append(r.Season, r.FinalDate.Format("2006-01-02"), r.MatchID, r.Team)
	}
	return t
}

// TeamSummary builds the all-time team summary table.
func TeamSummary(rows []aggregator.TeamSummary) *Table {
	t := &Table{
		Name:    "team_summary",
		Title:   "Team summary",
		Columns: []string{"team", "total_matches", "total_wins", "trophies", "win_pct"},
	}
	for _, r := range rows {
		t.Append(r.Team, itoa(r.Played), itoa(r.Won), itoa(r.Trophies), r.WinPct.Format(2))
	}
	return t
}

// TossConversions builds the per-team toss table.
func TossConversions(rows []aggregator.TossConversion) *Table {
	t := &Table{
		Name:    "toss_conversion",
		Title:   "Toss conversion",
		Columns: []string{"team", "toss_wins", "toss_and_match_wins", "toss_and_match_losses", "conversion_ratio"},
	}
	for _, r := range rows {
		t.Append(r.Team, itoa(r.TossWins), itoa(r.TossAndMatch), itoa(r.TossButLost), r.ConversionRatio.Format(2))
	}
	return t
}

// TossImpact builds the league-wide toss outcome table.
func TossImpact(ti aggregator.TossImpact) *Table {
	t := &Table{
		Name:    "toss_impact",
		Title:   "Toss impact",
		Columns: []string{"outcome", "matches"},
	}
	t.Append("Won Toss and Match", itoa(ti.WonTossAndMatch))
	t.Append("Lost After Toss", itoa(ti.LostAfterToss))
	t.Append("No Result", itoa(ti.NoResult))
	return t
}

// ResultTypes builds the defended/chased table.
func ResultTypes(rows []aggregator.ResultType) *Table {
	t := &Table{
		Name:    "result_types",
		Title:   "Wins by result type",
		Columns: []string{"team", "win_type", "count", "total_wins", "percent"},
	}
	for _, r := range rows {
		t.Append(r.Team, r.WinType, itoa(r.Count), itoa(r.TeamWins), r.SharePct.Format(1))
	}
	return t
}

// SeasonWins builds the wins-per-season table.
func SeasonWins(rows []aggregator.SeasonWin) *Table {
	t := &Table{
		Name:    "season_wins",
		Title:   "Wins per season",
		Columns: []string{"season", "team", "wins"},
	}
	for _, r := range rows {
		t.Append(r.Season, r.Team, itoa(r.Wins))
	}
	return t
}

// ---- Deliveries ----

// PlayerSeasons builds a player's season batting and bowling table.
func PlayerSeasons(player string, rows []aggregator.PlayerSeason) *Table {
	t := &Table{
		Name:  "player_seasons",
		Title: player + " by season",
		Columns: []string{
			"season", "player", "runs", "balls_faced", "strike_rate",
			"balls_bowled", "overs", "runs_conceded", "wickets", "economy",
		},
	}
	for i := range rows {
		r := &rows[i]
		t.Append(r.Season, r.Player, itoa(r.Runs), itoa(r.BallsFaced), r.StrikeRate.Format(2),
			itoa(r.BallsBowled), r.Overs(), itoa(r.RunsConceded), itoa(r.Wickets), r.Economy.Format(2))
	}
	return t
}

func batterTable(name, title string, rows []aggregator.BatterStat) *Table {
	t := &Table{
		Name:    name,
		Title:   title,
		Columns: []string{"batter", "runs", "balls", "strike_rate"},
	}
	for _, r := range rows {
		t.Append(r.Batter, itoa(r.Runs), itoa(r.Balls), r.StrikeRate.Format(2))
	}
	return t
}

func bowlerTable(name, title string, rows []aggregator.BowlerStat) *Table {
	t := &Table{
		Name:    name,
		Title:   title,
		Columns: []string{"bowler", "balls", "overs", "runs_conceded", "wickets", "economy"},
	}
	for i := range rows {
		r := &rows[i]
		t.Append(r.Bowler, itoa(r.Balls), r.Overs(), itoa(r.RunsConceded), itoa(r.Wickets), r.Economy.Format(2))
	}
	return t
}

// Batters builds the career batting leaderboard.
func Batters(rows []aggregator.BatterStat) *Table {
	return batterTable("batters", "Batting leaderboard", rows)
}

// Bowlers builds the career bowling leaderboard.
func Bowlers(rows []aggregator.BowlerStat) *Table {
	return bowlerTable("bowlers", "Bowling leaderboard", rows)
}

// WinningBatters builds the runs-in-wins leaderboard.
func WinningBatters(rows []aggregator.BatterStat) *Table {
	return batterTable("winning_batters", "Top run scorers in wins", rows)
}

// WinningBowlers builds the economy-in-wins leaderboard.
func WinningBowlers(rows []aggregator.BowlerStat) *Table {
	return bowlerTable("winning_bowlers", "Most economical bowlers in wins", rows)
}

// Partnerships builds the batting pair table.
func Partnerships(rows []aggregator.Partnership) *Table {
	t := &Table{
		Name:    "partnerships",
		Title:   "Batting partnerships",
		Columns: []string{"batter_a", "batter_b", "runs"},
	}
	for _, r := range rows {
		t.Append(r.BatterA, r.BatterB, itoa(r.Runs))
	}
	return t
}

// Dismissals builds the dismissal kind table.
func Dismissals(rows []aggregator.DismissalCount) *Table {
	t := &Table{
		Name:    "dismissals",
		Title:   "Dismissal kinds",
		Columns: []string{"dismissal_kind", "count"},
	}
	for _, r := range rows {
		t.Append(r.Kind, itoa(r.Count))
	}
	return t
}

// Venues builds the venue scoring table.
func Venues(rows []aggregator.VenueStat) *Table {
	t := &Table{
		Name:    "venues",
		Title:   "Venues",
		Columns: []string{"venue", "matches_played", "total_runs", "avg_runs_per_match", "lat", "lon"},
	}
	for _, r := range rows {
		lat, lon := "", ""
		if r.Coords != nil {
			lat, lon = coord(r.Coords.Lat), coord(r.Coords.Lon)
		}
		t.Append(r.Venue, itoa(r.Matches), itoa(r.TotalRuns), r.AvgRuns.Format(2), lat, lon)
	}
	return t
}

// WicketsByOver builds the wickets-per-over table.
func WicketsByOver(rows []aggregator.OverWickets) *Table {
	t := &Table{
		Name:    "wickets_by_over",
		Title:   "Wickets fallen by over",
		Columns: []string{"batting_team", "over_number", "wicket_count"},
	}
	for _, r := range rows {
		t.Append(r.Team, itoa(r.Over), itoa(r.Wickets))
	}
	return t
}

// ---- Auction ----

// Valuation builds a player-year valuation table under the given name.
func Valuation(name, title string, rows []aggregator.PlayerYear) *Table {
	t := &Table{
		Name:    name,
		Title:   title,
		Columns: []string{"player", "year", "amount", "amount_diff", "amount_pct_change"},
	}
	for _, r := range rows {
		t.Append(r.Player, itoa(r.Year), money(r.Amount), nullMoney(r.Diff), pct(r.PctChange))
	}
	return t
}

// pct renders a fractional change as a percentage with two decimals.
func pct(r model.Rate) string {
	if !r.Defined() {
		return ""
	}
	return (r * 100).Format(2)
}

// TeamSpend builds the all-years team spend table.
func TeamSpend(rows []aggregator.Spend) *Table {
	t := &Table{
		Name:    "team_spend",
		Title:   "Total auction spend by team",
		Columns: []string{"team", "amount"},
	}
	for _, r := range rows {
		t.Append(r.Team, money(r.Total))
	}
	return t
}

// TeamSpendByYear builds the per-year team spend table.
func TeamSpendByYear(rows []aggregator.Spend) *Table {
	t := &Table{
		Name:    "team_spend_by_year",
		Title:   "Auction spend by team and year",
		Columns: []string{"year", "team", "amount"},
	}
	for _, r := range rows {
		t.Append(itoa(r.Year), r.Team, money(r.Total))
	}
	return t
}

// RoleSpendByYear builds the per-year role spend table.
func RoleSpendByYear(rows []aggregator.Spend) *Table {
	t := &Table{
		Name:    "role_spend_by_year",
		Title:   "Auction spend by role and year",
		Columns: []string{"year", "role", "amount"},
	}
	for _, r := range rows {
		t.Append(itoa(r.Year), r.Role, money(r.Total))
	}
	return t
}

// TopPaidPerYear builds the highest-paid-per-year table.
func TopPaidPerYear(rows []aggregator.PlayerYear) *Table {
	t := &Table{
		Name:    "top_paid_per_year",
		Title:   "Highest paid players per year",
		Columns: []string{"year", "player", "amount"},
	}
	for _, r := range rows {
		t.Append(itoa(r.Year), r.Player, money(r.Amount))
	}
	return t
}

// TopAuctionRows builds the most expensive individual purchases table.
func TopAuctionRows(rows []model.AuctionRecord) *Table {
	t := &Table{
		Name:    "top_auction_rows",
		Title:   "Most expensive purchases",
		Columns: []string{"team", "player", "year", "role", "amount"},
	}
	for _, r := range rows {
		t.Append(r.Team, r.Player, itoa(r.Year), r.Role, money(r.Amount))
	}
	return t
}

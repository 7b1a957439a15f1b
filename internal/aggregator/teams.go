// Package aggregator derives per-team, per-player and per-auction tables from
// normalized league records. Every function is a pure transform over its
// inputs and returns rows in a fully specified order.
package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pable/ipl-stats/internal/model"
)

var (
	ErrMissingSeason  = errors.New("match has no season")
	ErrMissingDate    = errors.New("match has no date")
	ErrAmbiguousFinal = errors.New("several matches share the final date")
	ErrUnknownMatch   = errors.New("delivery references unknown match")
	ErrBadWinner      = errors.New("winner is not a participant")
	ErrDuplicateMatch = errors.New("duplicate match id")
)

// CheckMatches verifies that match ids are unique and that every decided
// match names one of its two participants as winner.
func CheckMatches(ms []model.MatchRecord) error {
	seen := make(map[string]int, len(ms))
	for i := range ms {
		m := &ms[i]
		if first, ok := seen[m.ID]; ok {
			return fmt.Errorf("match %s (rows %d and %d): %w", m.ID, first, m.Row, ErrDuplicateMatch)
		}
		seen[m.ID] = m.Row
		if m.HasResult() && !m.Involves(m.Winner) {
			return fmt.Errorf("match %s (row %d): %w: %q not in {%q, %q}",
				m.ID, m.Row, ErrBadWinner, m.Winner, m.Team1, m.Team2)
		}
	}
	return nil
}

// Seasons are grouped by their source label. "2009" and "2009/10" share a
// start year but are different seasons.
type seasonTeam struct {
	season string
	team   string
}

func requireSeason(m *model.MatchRecord) error {
	if m.Season == "" {
		return fmt.Errorf("match %s (row %d): %w", m.ID, m.Row, ErrMissingSeason)
	}
	return nil
}

// seasonYears maps each season label to its start year.
func seasonYears(ms []model.MatchRecord) map[string]int {
	years := make(map[string]int)
	for i := range ms {
		years[ms[i].Season] = ms[i].SeasonYear
	}
	return years
}

// seasonBefore orders seasons by start year, then label.
func seasonBefore(aYear int, a string, bYear int, b string) bool {
	if aYear != bYear {
		return aYear < bYear
	}
	return a < b
}

// ---- Win ratio ----

// WinRatio is one (season, team) row of the win-ratio table.
type WinRatio struct {
	Season     string
	SeasonYear int
	Team       string
	Played     int
	Won        int
	Ratio      model.Rate // Won/Played rounded to 2 places
}

// WinRatios counts matches played and won per (season, team). Rows are driven
// by played counts, so a team without a win still gets a 0.00 row. Sorted by
// season then team.
func WinRatios(ms []model.MatchRecord) ([]WinRatio, error) {
	played := make(map[seasonTeam]int)
	won := make(map[seasonTeam]int)
	for i := range ms {
		m := &ms[i]
		if err := requireSeason(m); err != nil {
			return nil, err
		}
		played[seasonTeam{m.Season, m.Team1}]++
		played[seasonTeam{m.Season, m.Team2}]++
		if m.HasResult() {
			won[seasonTeam{m.Season, m.Winner}]++
		}
	}

	years := seasonYears(ms)
	out := make([]WinRatio, 0, len(played))
	for k, p := range played {
		w := won[k]
		out = append(out, WinRatio{
			Season:     k.season,
			SeasonYear: years[k.season],
			Team:       k.team,
			Played:     p,
			Won:        w,
			Ratio:      model.Ratio(float64(w), float64(p)).Round(2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Season != b.Season {
			return seasonBefore(a.SeasonYear, a.Season, b.SeasonYear, b.Season)
		}
		return a.Team < b.Team
	})
	return out, nil
}

// ---- Trophies and season summary ----

// Champion is the winner of one season's final match.
type Champion struct {
	Season     string
	SeasonYear int
	FinalDate  time.Time
	MatchID    string
	Team       string
}

// Champions picks, for every season, the match with the latest date and
// credits its winner. A season whose final has no result has no champion.
// Every match needs a date, and the final date must hold a single match.
func Champions(ms []model.MatchRecord) ([]Champion, error) {
	finals := make(map[string]*model.MatchRecord)
	tied := make(map[string]bool)
	for i := range ms {
		m := &ms[i]
		if err := requireSeason(m); err != nil {
			return nil, err
		}
		if m.Date.IsZero() {
			return nil, fmt.Errorf("season %s, match %s (row %d): %w",
				m.Season, m.ID, m.Row, ErrMissingDate)
		}
		cur, ok := finals[m.Season]
		switch {
		case !ok || m.Date.After(cur.Date):
			finals[m.Season] = m
			tied[m.Season] = false
		case m.Date.Equal(cur.Date):
			tied[m.Season] = true
		}
	}

	seasons := make([]string, 0, len(finals))
	for label := range finals {
		seasons = append(seasons, label)
	}
	sort.Slice(seasons, func(i, j int) bool {
		a, b := finals[seasons[i]], finals[seasons[j]]
		return seasonBefore(a.SeasonYear, a.Season, b.SeasonYear, b.Season)
	})

	var out []Champion
	for _, label := range seasons {
		f := finals[label]
		if tied[label] {
			return nil, fmt.Errorf("season %s, %s: %w", f.Season, f.Date.Format("2006-01-02"), ErrAmbiguousFinal)
		}
		if !f.HasResult() {
			continue
		}
		out = append(out, Champion{
			Season:     f.Season,
			SeasonYear: f.SeasonYear,
			FinalDate:  f.Date,
			MatchID:    f.ID,
			Team:       f.Winner,
		})
	}
	return out, nil
}

// TeamSummary is one team's all-time row.
type TeamSummary struct {
	Team     string
	Played   int
	Won      int
	Trophies int
	WinPct   model.Rate // Won/Played*100 rounded to 2 places
}

// Summarize combines career totals with trophy counts. Teams with fewer than
// minMatches played are dropped. Ranked by trophies, then win percentage,
// then team name.
func Summarize(ms []model.MatchRecord, minMatches int) ([]TeamSummary, error) {
	champs, err := Champions(ms)
	if err != nil {
		return nil, err
	}
	trophies := make(map[string]int)
	for _, c := range champs {
		trophies[c.Team]++
	}

	played := make(map[string]int)
	won := make(map[string]int)
	for i := range ms {
		m := &ms[i]
		played[m.Team1]++
		played[m.Team2]++
		if m.HasResult() {
			won[m.Winner]++
		}
	}

	out := make([]TeamSummary, 0, len(played))
	for team, p := range played {
		if p < minMatches {
			continue
		}
		out = append(out, TeamSummary{
			Team:     team,
			Played:   p,
			Won:      won[team],
			Trophies: trophies[team],
			WinPct:   model.Percent(float64(won[team]), float64(p)).Round(2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Trophies != b.Trophies {
			return a.Trophies > b.Trophies
		}
		if a.WinPct != b.WinPct {
			return a.WinPct > b.WinPct
		}
		return a.Team < b.Team
	})
	return out, nil
}

// ---- Toss ----

// TossConversion is one team's toss record.
type TossConversion struct {
	Team            string
	TossWins        int
	TossAndMatch    int
	TossButLost     int // TossWins - TossAndMatch; no-results count here too
	ConversionRatio model.Rate
}

// TossConversions tallies, per team, tosses won and how many of those matches
// it went on to win. Sorted by toss wins descending, then team.
func TossConversions(ms []model.MatchRecord) []TossConversion {
	toss := make(map[string]int)
	both := make(map[string]int)
	for i := range ms {
		m := &ms[i]
		if m.TossWinner == "" {
			continue
		}
		toss[m.TossWinner]++
		if m.Winner == m.TossWinner {
			both[m.TossWinner]++
		}
	}

	out := make([]TossConversion, 0, len(toss))
	for team, n := range toss {
		w := both[team]
		out = append(out, TossConversion{
			Team:            team,
			TossWins:        n,
			TossAndMatch:    w,
			TossButLost:     n - w,
			ConversionRatio: model.Ratio(float64(w), float64(n)).Round(2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TossWins != out[j].TossWins {
			return out[i].TossWins > out[j].TossWins
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// TossImpact is the league-wide split of toss winners by match outcome.
type TossImpact struct {
	WonTossAndMatch int
	LostAfterToss   int
	NoResult        int
}

// TossImpactSummary counts matches by whether the toss winner also won.
func TossImpactSummary(ms []model.MatchRecord) TossImpact {
	var ti TossImpact
	for i := range ms {
		m := &ms[i]
		switch {
		case !m.HasResult():
			ti.NoResult++
		case m.Winner == m.TossWinner:
			ti.WonTossAndMatch++
		default:
			ti.LostAfterToss++
		}
	}
	return ti
}

// ---- Batting first / result type ----

// BattingFirst returns the team that batted first: the toss winner when it
// chose to bat, otherwise its opponent.
func BattingFirst(m *model.MatchRecord) string {
	if m.TossDecision == model.DecisionBat {
		return m.TossWinner
	}
	return m.Opponent(m.TossWinner)
}

// WinType classifies a decided match as WinDefended or WinChased. It returns
// "" for a no-result.
func WinType(m *model.MatchRecord) string {
	if !m.HasResult() {
		return ""
	}
	if m.Winner == BattingFirst(m) {
		return model.WinDefended
	}
	return model.WinChased
}

// ResultType is one (team, win type) tally.
type ResultType struct {
	Team     string
	WinType  string
	Count    int
	TeamWins int
	SharePct model.Rate // Count/TeamWins*100 rounded to 1 place
}

// ResultTypes tallies wins per team by win type. Sorted by the team's total
// wins descending, then team, then win type.
func ResultTypes(ms []model.MatchRecord) []ResultType {
	type key struct{ team, kind string }
	counts := make(map[key]int)
	totals := make(map[string]int)
	for i := range ms {
		m := &ms[i]
		kind := WinType(m)
		if kind == "" {
			continue
		}
		counts[key{m.Winner, kind}]++
		totals[m.Winner]++
	}

	out := make([]ResultType, 0, len(counts))
	for k, n := range counts {
		out = append(out, ResultType{
			Team:     k.team,
			WinType:  k.kind,
			Count:    n,
			TeamWins: totals[k.team],
			SharePct: model.Percent(float64(n), float64(totals[k.team])).Round(1),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TeamWins != b.TeamWins {
			return a.TeamWins > b.TeamWins
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return a.WinType < b.WinType
	})
	return out
}

// ---- Season wins ----

// SeasonWin is one (season, team) win count.
type SeasonWin struct {
	Season     string
	SeasonYear int
	Team       string
	Wins       int
}

// SeasonWins counts wins per season and team, dropping no-results. Sorted by
// season, then wins descending, then team.
func SeasonWins(ms []model.MatchRecord) ([]SeasonWin, error) {
	wins := make(map[seasonTeam]int)
	for i := range ms {
		m := &ms[i]
		if err := requireSeason(m); err != nil {
			return nil, err
		}
		if m.HasResult() {
			wins[seasonTeam{m.Season, m.Winner}]++
		}
	}
	years := seasonYears(ms)
	out := make([]SeasonWin, 0, len(wins))
	for k, n := range wins {
		out = append(out, SeasonWin{Season: k.season, SeasonYear: years[k.season], Team: k.team, Wins: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Season != b.Season {
			return seasonBefore(a.SeasonYear, a.Season, b.SeasonYear, b.Season)
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Team < b.Team
	})
	return out, nil
}

package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/ipl-stats/internal/model"
)

const ballsPerOver = 6

// matchIndex keys matches by ID for delivery joins.
func matchIndex(ms []model.MatchRecord) map[string]*model.MatchRecord {
	idx := make(map[string]*model.MatchRecord, len(ms))
	for i := range ms {
		idx[ms[i].ID] = &ms[i]
	}
	return idx
}

func lookupMatch(idx map[string]*model.MatchRecord, d *model.DeliveryRecord) (*model.MatchRecord, error) {
	m, ok := idx[d.MatchID]
	if !ok {
		return nil, fmt.Errorf("delivery row %d: %w %q", d.Row, ErrUnknownMatch, d.MatchID)
	}
	return m, nil
}

func strikeRate(runs, balls int) model.Rate {
	return model.Percent(float64(runs), float64(balls)).Round(2)
}

func economy(runs, balls int) model.Rate {
	return model.Ratio(float64(runs), float64(balls)/ballsPerOver).Round(2)
}

// ---- Per-player season stats ----

// PlayerSeason is one season of a player's batting and bowling.
type PlayerSeason struct {
	Season     string
	SeasonYear int
	Player     string

	Runs       int
	BallsFaced int
	StrikeRate model.Rate

	BallsBowled  int
	RunsConceded int
	Wickets      int
	Economy      model.Rate
}

// Overs renders BallsBowled in cricket notation.
func (p *PlayerSeason) Overs() string {
	return model.OversNotation(p.BallsBowled)
}

// PlayerSeasons aggregates one player's deliveries by season. A season appears
// when the player batted or bowled in it; the role they did not play in that
// season has zero balls and an undefined rate. Sorted by season.
func PlayerSeasons(ms []model.MatchRecord, ds []model.DeliveryRecord, player string) ([]PlayerSeason, error) {
	idx := matchIndex(ms)
	bySeason := make(map[string]*PlayerSeason)
	for i := range ds {
		d := &ds[i]
		if d.Batter != player && d.Bowler != player {
			continue
		}
		m, err := lookupMatch(idx, d)
		if err != nil {
			return nil, err
		}
		if err := requireSeason(m); err != nil {
			return nil, err
		}
		ps, ok := bySeason[m.Season]
		if !ok {
			ps = &PlayerSeason{Season: m.Season, SeasonYear: m.SeasonYear, Player: player}
			bySeason[m.Season] = ps
		}
		if d.Batter == player {
			ps.Runs += d.BatterRuns
			ps.BallsFaced++
		}
		if d.Bowler == player {
			ps.BallsBowled++
			ps.RunsConceded += d.TotalRuns
			if d.BowlerWicket() {
				ps.Wickets++
			}
		}
	}

	out := make([]PlayerSeason, 0, len(bySeason))
	for _, ps := range bySeason {
		ps.StrikeRate = strikeRate(ps.Runs, ps.BallsFaced)
		ps.Economy = economy(ps.RunsConceded, ps.BallsBowled)
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		return seasonBefore(out[i].SeasonYear, out[i].Season, out[j].SeasonYear, out[j].Season)
	})
	return out, nil
}

// ---- Career leaderboards ----

// BatterStat is a batter's career line.
type BatterStat struct {
	Batter     string
	Runs       int
	Balls      int
	StrikeRate model.Rate
}

// BatterLeaders returns batters who faced at least minBalls deliveries,
// sorted by runs descending, then name.
func BatterLeaders(ds []model.DeliveryRecord, minBalls int) []BatterStat {
	acc := make(map[string]*BatterStat)
	for i := range ds {
		d := &ds[i]
		s, ok := acc[d.Batter]
		if !ok {
			s = &BatterStat{Batter: d.Batter}
			acc[d.Batter] = s
		}
		s.Runs += d.BatterRuns
		s.Balls++
	}
	out := make([]BatterStat, 0, len(acc))
	for _, s := range acc {
		if s.Balls < minBalls {
			continue
		}
		s.StrikeRate = strikeRate(s.Runs, s.Balls)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Runs != out[j].Runs {
			return out[i].Runs > out[j].Runs
		}
		return out[i].Batter < out[j].Batter
	})
	return out
}

// BowlerStat is a bowler's career (or filtered) line.
type BowlerStat struct {
	Bowler       string
	Balls        int
	RunsConceded int
	Wickets      int
	Economy      model.Rate
}

// Overs renders Balls in cricket notation.
func (s *BowlerStat) Overs() string {
	return model.OversNotation(s.Balls)
}

func bowlerLines(ds []model.DeliveryRecord, keep func(*model.DeliveryRecord) bool, minOvers int) []BowlerStat {
	acc := make(map[string]*BowlerStat)
	for i := range ds {
		d := &ds[i]
		if keep != nil && !keep(d) {
			continue
		}
		s, ok := acc[d.Bowler]
		if !ok {
			s = &BowlerStat{Bowler: d.Bowler}
			acc[d.Bowler] = s
		}
		s.Balls++
		s.RunsConceded += d.TotalRuns
		if d.BowlerWicket() {
			s.Wickets++
		}
	}
	out := make([]BowlerStat, 0, len(acc))
	for _, s := range acc {
		if s.Balls < minOvers*ballsPerOver {
			continue
		}
		s.Economy = economy(s.RunsConceded, s.Balls)
		out = append(out, *s)
	}
	return out
}

// BowlerLeaders returns bowlers with at least minOvers overs, sorted by
// wickets descending, then economy ascending, then name.
func BowlerLeaders(ds []model.DeliveryRecord, minOvers int) []BowlerStat {
	out := bowlerLines(ds, nil, minOvers)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Wickets != b.Wickets {
			return a.Wickets > b.Wickets
		}
		if a.Economy != b.Economy {
			return a.Economy < b.Economy
		}
		return a.Bowler < b.Bowler
	})
	return out
}

// ---- Partnerships ----

// Partnership is the runs two batters scored off the bat while together.
// BatterA sorts before BatterB.
type Partnership struct {
	BatterA, BatterB string
	Runs             int
}

// Partnerships sums batter runs per unordered pair of batters at the crease
// and keeps pairs with more than minRuns. Sorted by runs descending, then
// the pair names.
func Partnerships(ds []model.DeliveryRecord, minRuns int) []Partnership {
	type pair struct{ a, b string }
	runs := make(map[pair]int)
	for i := range ds {
		d := &ds[i]
		if d.NonStriker == "" {
			continue
		}
		p := pair{d.Batter, d.NonStriker}
		if p.b < p.a {
			p.a, p.b = p.b, p.a
		}
		runs[p] += d.BatterRuns
	}
	var out []Partnership
	for p, r := range runs {
		if r > minRuns {
			out = append(out, Partnership{BatterA: p.a, BatterB: p.b, Runs: r})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Runs != b.Runs {
			return a.Runs > b.Runs
		}
		if a.BatterA != b.BatterA {
			return a.BatterA < b.BatterA
		}
		return a.BatterB < b.BatterB
	})
	return out
}

// ---- Dismissals ----

// DismissalCount is the number of wickets of one kind.
type DismissalCount struct {
	Kind  string
	Count int
}

// Dismissals counts wickets by dismissal kind, most frequent first.
func Dismissals(ds []model.DeliveryRecord) []DismissalCount {
	counts := make(map[string]int)
	for i := range ds {
		d := &ds[i]
		if !d.IsWicket || d.DismissalKind == "" {
			continue
		}
		counts[d.DismissalKind]++
	}
	out := make([]DismissalCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, DismissalCount{Kind: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// ---- Venues ----

// Coordinates is a stadium location in decimal degrees.
type Coordinates struct {
	Lat, Lon float64
}

// StadiumCoordinates holds the locations of the regular league grounds.
var StadiumCoordinates = map[string]Coordinates{
	"Wankhede Stadium":                             {18.9388, 72.8258},
	"M. Chinnaswamy Stadium":                       {12.9788, 77.5996},
	"Eden Gardens":                                 {22.5646, 88.3433},
	"Narendra Modi Stadium":                        {23.0918, 72.5977},
	"Arun Jaitley Stadium":                         {28.6229, 77.2430},
	"Rajiv Gandhi Intl. Stadium":                   {17.4062, 78.5506},
	"MA Chidambaram Stadium":                       {13.0624, 80.2791},
	"Sawai Mansingh Stadium":                       {26.8945, 75.8039},
	"Himachal Pradesh Cricket Association Stadium": {32.1976, 76.3254},
	"Dr DY Patil Sports Academy":                   {19.0330, 73.0297},
	"Punjab Cricket Association Stadium":           {30.7036, 76.7183},
	"Green Park":                                   {26.4725, 80.3467},
	"Sheikh Zayed Stadium":                         {24.4672, 54.3717},
	"Sharjah Cricket Stadium":                      {25.3187, 55.4211},
	"Dubai International Cricket Stadium":          {25.0458, 55.2319},
}

// VenueStat summarizes scoring at one ground.
type VenueStat struct {
	Venue     string
	Matches   int
	TotalRuns int
	AvgRuns   model.Rate // TotalRuns/Matches rounded to 2 places
	Coords    *Coordinates
}

// VenueStats counts matches and runs per venue. Matches without a venue are
// skipped. Sorted by total runs descending, then venue.
func VenueStats(ms []model.MatchRecord, ds []model.DeliveryRecord) ([]VenueStat, error) {
	acc := make(map[string]*VenueStat)
	for i := range ms {
		m := &ms[i]
		if m.Venue == "" {
			continue
		}
		v, ok := acc[m.Venue]
		if !ok {
			v = &VenueStat{Venue: m.Venue}
			if c, ok := StadiumCoordinates[m.Venue]; ok {
				v.Coords = &c
			}
			acc[m.Venue] = v
		}
		v.Matches++
	}

	idx := matchIndex(ms)
	for i := range ds {
		d := &ds[i]
		m, err := lookupMatch(idx, d)
		if err != nil {
			return nil, err
		}
		if v, ok := acc[m.Venue]; ok {
			v.TotalRuns += d.TotalRuns
		}
	}

	out := make([]VenueStat, 0, len(acc))
	for _, v := range acc {
		v.AvgRuns = model.Ratio(float64(v.TotalRuns), float64(v.Matches)).Round(2)
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRuns != out[j].TotalRuns {
			return out[i].TotalRuns > out[j].TotalRuns
		}
		return out[i].Venue < out[j].Venue
	})
	return out, nil
}

// ---- Performances in wins ----

// WinningBatters returns the topN batters by runs scored in matches their
// batting side won. Sorted by runs descending, then name.
func WinningBatters(ms []model.MatchRecord, ds []model.DeliveryRecord, topN int) ([]BatterStat, error) {
	idx := matchIndex(ms)
	acc := make(map[string]*BatterStat)
	for i := range ds {
		d := &ds[i]
		m, err := lookupMatch(idx, d)
		if err != nil {
			return nil, err
		}
		if !m.HasResult() || m.Winner != d.BattingTeam {
			continue
		}
		s, ok := acc[d.Batter]
		if !ok {
			s = &BatterStat{Batter: d.Batter}
			acc[d.Batter] = s
		}
		s.Runs += d.BatterRuns
		s.Balls++
	}
	out := make([]BatterStat, 0, len(acc))
	for _, s := range acc {
		s.StrikeRate = strikeRate(s.Runs, s.Balls)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Runs != out[j].Runs {
			return out[i].Runs > out[j].Runs
		}
		return out[i].Batter < out[j].Batter
	})
	return head(out, topN), nil
}

// WinningBowlers returns the topN most economical bowlers, over matches their
// bowling side won, among those with at least minOvers overs in such matches.
// Sorted by economy ascending, then name.
func WinningBowlers(ms []model.MatchRecord, ds []model.DeliveryRecord, minOvers, topN int) ([]BowlerStat, error) {
	idx := matchIndex(ms)
	won := make(map[*model.DeliveryRecord]bool)
	for i := range ds {
		d := &ds[i]
		m, err := lookupMatch(idx, d)
		if err != nil {
			return nil, err
		}
		if m.HasResult() && m.Winner == d.BowlingTeam {
			won[d] = true
		}
	}
	out := bowlerLines(ds, func(d *model.DeliveryRecord) bool { return won[d] }, minOvers)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Economy != out[j].Economy {
			return out[i].Economy < out[j].Economy
		}
		return out[i].Bowler < out[j].Bowler
	})
	return head(out, topN), nil
}

// ---- Wickets by over ----

const oversPerInnings = 20

// OverWickets is the number of wickets a batting side lost in one over.
type OverWickets struct {
	Team    string
	Over    int // 1-based
	Wickets int
}

// WicketsByOver counts wickets lost per batting team in each over 1..20 of
// the two regular innings, emitting zero rows for overs without a wicket.
// Sorted by team, then over.
func WicketsByOver(ds []model.DeliveryRecord) []OverWickets {
	type key struct {
		team string
		over int
	}
	counts := make(map[key]int)
	teams := make(map[string]bool)
	for i := range ds {
		d := &ds[i]
		if d.Inning > 2 {
			continue
		}
		teams[d.BattingTeam] = true
		over := d.Over + 1
		if d.IsWicket && over >= 1 && over <= oversPerInnings {
			counts[key{d.BattingTeam, over}]++
		}
	}
	names := make([]string, 0, len(teams))
	for t := range teams {
		names = append(names, t)
	}
	sort.Strings(names)

	out := make([]OverWickets, 0, len(names)*oversPerInnings)
	for _, t := range names {
		for o := 1; o <= oversPerInnings; o++ {
			out = append(out, OverWickets{Team: t, Over: o, Wickets: counts[key{t, o}]})
		}
	}
	return out
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

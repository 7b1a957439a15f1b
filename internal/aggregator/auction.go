package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pable/ipl-stats/internal/model"
)

// PlayerYear is a player's summed auction price in one year, compared with the
// player's previous appearance.
type PlayerYear struct {
	Player    string
	Year      int
	Amount    decimal.Decimal
	Diff      decimal.NullDecimal // invalid on the first appearance
	PctChange model.Rate          // Diff/previous amount as a fraction; undefined on the first appearance
}

type playerYearKey struct {
	player string
	year   int
}

// ValuationTrend sums auction amounts per (player, year) and computes the
// change against the player's previous listed year. Sorted by player, then
// year.
func ValuationTrend(as []model.AuctionRecord) []PlayerYear {
	sums := make(map[playerYearKey]decimal.Decimal)
	for _, a := range as {
		k := playerYearKey{a.Player, a.Year}
		sums[k] = sums[k].Add(a.Amount)
	}

	out := make([]PlayerYear, 0, len(sums))
	for k, amt := range sums {
		out = append(out, PlayerYear{Player: k.player, Year: k.year, Amount: amt, PctChange: model.Undefined})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Year < out[j].Year
	})

	for i := 1; i < len(out); i++ {
		prev, cur := &out[i-1], &out[i]
		if prev.Player != cur.Player {
			continue
		}
		diff := cur.Amount.Sub(prev.Amount)
		cur.Diff = decimal.NewNullDecimal(diff)
		if !prev.Amount.IsZero() {
			cur.PctChange = model.Rate(diff.Div(prev.Amount).InexactFloat64())
		}
	}
	return out
}

// PlayerTrend returns the rows of trend belonging to player.
func PlayerTrend(trend []PlayerYear, player string) []PlayerYear {
	var out []PlayerYear
	for _, py := range trend {
		if py.Player == player {
			out = append(out, py)
		}
	}
	return out
}

func rankTrend(trend []PlayerYear, keep func(*PlayerYear) bool, less func(a, b *PlayerYear) int, n int) []PlayerYear {
	var out []PlayerYear
	for i := range trend {
		if keep(&trend[i]) {
			out = append(out, trend[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if c := less(a, b); c != 0 {
			return c < 0
		}
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		return a.Year < b.Year
	})
	return head(out, n)
}

func cmpRate(a, b model.Rate) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// TopRises returns the n largest positive percentage changes.
func TopRises(trend []PlayerYear, n int) []PlayerYear {
	return rankTrend(trend,
		func(p *PlayerYear) bool { return p.PctChange.Defined() && p.PctChange > 0 },
		func(a, b *PlayerYear) int { return cmpRate(b.PctChange, a.PctChange) },
		n)
}

// TopCrashes returns the n largest negative percentage changes.
func TopCrashes(trend []PlayerYear, n int) []PlayerYear {
	return rankTrend(trend,
		func(p *PlayerYear) bool { return p.PctChange.Defined() && p.PctChange < 0 },
		func(a, b *PlayerYear) int { return cmpRate(a.PctChange, b.PctChange) },
		n)
}

// TopRocketsByDiff returns the n largest positive absolute differences.
func TopRocketsByDiff(trend []PlayerYear, n int) []PlayerYear {
	return rankTrend(trend,
		func(p *PlayerYear) bool { return p.Diff.Valid && p.Diff.Decimal.IsPositive() },
		func(a, b *PlayerYear) int { return b.Diff.Decimal.Cmp(a.Diff.Decimal) },
		n)
}

// TopCrashesByDiff returns the n largest negative absolute differences.
func TopCrashesByDiff(trend []PlayerYear, n int) []PlayerYear {
	return rankTrend(trend,
		func(p *PlayerYear) bool { return p.Diff.Valid && p.Diff.Decimal.IsNegative() },
		func(a, b *PlayerYear) int { return a.Diff.Decimal.Cmp(b.Diff.Decimal) },
		n)
}

// ---- Spending ----

// Spend is a summed auction outlay. Year, Team and Role are set according to
// the grouping that produced it.
type Spend struct {
	Year  int
	Team  string
	Role  string
	Total decimal.Decimal
}

func sumSpend(as []model.AuctionRecord, key func(*model.AuctionRecord) Spend) []Spend {
	type k struct {
		year       int
		team, role string
	}
	acc := make(map[k]*Spend)
	for i := range as {
		s := key(&as[i])
		kk := k{s.Year, s.Team, s.Role}
		cur, ok := acc[kk]
		if !ok {
			cur = &Spend{Year: s.Year, Team: s.Team, Role: s.Role}
			acc[kk] = cur
		}
		cur.Total = cur.Total.Add(as[i].Amount)
	}
	out := make([]Spend, 0, len(acc))
	for _, s := range acc {
		out = append(out, *s)
	}
	return out
}

// TeamSpend totals each team's auction outlay across all years, largest first.
func TeamSpend(as []model.AuctionRecord) []Spend {
	out := sumSpend(as, func(a *model.AuctionRecord) Spend { return Spend{Team: a.Team} })
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// TeamSpendByYear totals outlay per (year, team). Sorted by year, then total
// descending, then team.
func TeamSpendByYear(as []model.AuctionRecord) []Spend {
	out := sumSpend(as, func(a *model.AuctionRecord) Spend { return Spend{Year: a.Year, Team: a.Team} })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// RoleSpendByYear totals outlay per (year, role). Sorted by year, then role.
func RoleSpendByYear(as []model.AuctionRecord) []Spend {
	out := sumSpend(as, func(a *model.AuctionRecord) Spend { return Spend{Year: a.Year, Role: a.Role} })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Role < out[j].Role
	})
	return out
}

// TopPaidPerYear returns, for every year, the n players with the largest
// summed price that year. Sorted by year, then amount descending, then player.
func TopPaidPerYear(as []model.AuctionRecord, n int) []PlayerYear {
	trend := ValuationTrend(as)
	byYear := make(map[int][]PlayerYear)
	for _, py := range trend {
		py.Diff = decimal.NullDecimal{}
		py.PctChange = model.Undefined
		byYear[py.Year] = append(byYear[py.Year], py)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var out []PlayerYear
	for _, y := range years {
		rows := byYear[y]
		sort.Slice(rows, func(i, j int) bool {
			if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
				return c > 0
			}
			return rows[i].Player < rows[j].Player
		})
		out = append(out, head(rows, n)...)
	}
	return out
}

// TopAuctionRows returns the n most expensive individual auction lines.
// Ties are broken by player, year, then team.
func TopAuctionRows(as []model.AuctionRecord, n int) []model.AuctionRecord {
	out := make([]model.AuctionRecord, len(as))
	copy(out, as)
	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Team < b.Team
	})
	return head(out, n)
}

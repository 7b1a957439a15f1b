package model

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Toss decisions as they appear in the match sources.
const (
	DecisionBat   = "bat"
	DecisionField = "field"
)

// Result types for a decided match, from the winner's point of view.
const (
	WinDefended = "Defended"
	WinChased   = "Chased"
)

// ---- Source records ----

// MatchRecord is one row of the match results file.
type MatchRecord struct {
	ID           string
	Season       string    // label as written in the source, e.g. "2007/08" or "2015"
	SeasonYear   int       // first year of Season; 0 when the source has no season column
	Date         time.Time // zero when the source has no date
	Team1, Team2 string
	Venue        string
	TossWinner   string
	TossDecision string // DecisionBat or DecisionField
	Winner       string // empty for a no-result
	Row          int    // 1-based data row in the source file
}

// HasResult reports whether the match produced a winner.
func (m *MatchRecord) HasResult() bool {
	return m.Winner != ""
}

// Involves reports whether team played in the match.
func (m *MatchRecord) Involves(team string) bool {
	return m.Team1 == team || m.Team2 == team
}

// Opponent returns the other participant. An unknown team yields Team1.
func (m *MatchRecord) Opponent(team string) string {
	if team == m.Team1 {
		return m.Team2
	}
	return m.Team1
}

// DeliveryRecord is one ball of the ball-by-ball file.
type DeliveryRecord struct {
	MatchID                    string
	Inning                     int
	Over                       int // 0-based over index within the innings
	Ball                       int
	BattingTeam, BowlingTeam   string
	Batter, NonStriker, Bowler string
	BatterRuns                 int
	ExtraRuns                  int
	TotalRuns                  int
	IsWicket                   bool
	DismissalKind              string
	PlayerDismissed            string // empty when nobody was out
	Row                        int
}

// dismissals that are not credited to the bowler.
var nonBowlerDismissals = map[string]bool{
	"run out":               true,
	"retired hurt":          true,
	"retired out":           true,
	"obstructing the field": true,
}

// BowlerWicket reports whether the delivery took a wicket credited to the bowler.
func (d *DeliveryRecord) BowlerWicket() bool {
	if !d.IsWicket {
		return false
	}
	return !nonBowlerDismissals[d.DismissalKind]
}

// AuctionRecord is one line of the player auction file.
type AuctionRecord struct {
	Player string
	Year   int
	Team   string
	Role   string
	Amount decimal.Decimal
	Origin string
	Row    int
}

// ---- Derived values ----

// Rate is a derived ratio. A zero denominator yields an undefined Rate (NaN),
// never a fabricated zero.
type Rate float64

// Undefined is the Rate produced by a zero denominator.
var Undefined = Rate(math.NaN())

// Ratio returns num/den, or Undefined when den is zero.
func Ratio(num, den float64) Rate {
	if den == 0 {
		return Undefined
	}
	return Rate(num / den)
}

// Percent returns num/den*100, or Undefined when den is zero.
func Percent(num, den float64) Rate {
	if den == 0 {
		return Undefined
	}
	return Rate(num / den * 100)
}

// Defined reports whether r holds a value.
func (r Rate) Defined() bool {
	return !math.IsNaN(float64(r))
}

// Round rounds r half away from zero to the given number of decimal places.
func (r Rate) Round(places int) Rate {
	if !r.Defined() {
		return r
	}
	p := math.Pow(10, float64(places))
	return Rate(math.Round(float64(r)*p) / p)
}

// Format renders r with prec decimals, or "" when undefined.
func (r Rate) Format(prec int) string {
	if !r.Defined() {
		return ""
	}
	return strconv.FormatFloat(float64(r), 'f', prec, 64)
}

// OversNotation renders a ball count the way scorecards do: 22 balls -> "3.4".
func OversNotation(balls int) string {
	return strconv.Itoa(balls/6) + "." + strconv.Itoa(balls%6)
}

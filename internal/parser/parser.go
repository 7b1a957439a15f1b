// Package parser reads the league CSV datasets into model records.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pable/ipl-stats/internal/model"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrMalformed     = errors.New("malformed value")
)

// Accepted header spellings per field. Headers are matched after lowercasing
// and replacing spaces with underscores.
var (
	colMatchID      = []string{"id", "match_id"}
	colSeason       = []string{"season"}
	colDate         = []string{"date", "match_date"}
	colTeam1        = []string{"team1", "team1_name", "home_team"}
	colTeam2        = []string{"team2", "team2_name", "away_team"}
	colVenue        = []string{"venue"}
	colTossWinner   = []string{"toss_winner"}
	colTossDecision = []string{"toss_decision", "toss_winner_choice"}
	colWinner       = []string{"winner", "match_winner"}

	colDeliveryMatchID = []string{"match_id", "id"}
	colInning          = []string{"inning", "innings"}
	colOver            = []string{"over"}
	colBall            = []string{"ball"}
	colBattingTeam     = []string{"batting_team"}
	colBowlingTeam     = []string{"bowling_team"}
	colBatter          = []string{"batter", "batsman", "striker"}
	colNonStriker      = []string{"non_striker"}
	colBowler          = []string{"bowler"}
	colBatterRuns      = []string{"batsman_runs", "batter_runs", "runs_off_bat"}
	colExtraRuns       = []string{"extra_runs", "extras"}
	colTotalRuns       = []string{"total_runs"}
	colIsWicket        = []string{"is_wicket"}
	colDismissal       = []string{"dismissal_kind", "wicket_type"}
	colDismissed       = []string{"player_dismissed"}

	colPlayer = []string{"player"}
	colYear   = []string{"year"}
	colTeam   = []string{"team"}
	colRole   = []string{"role"}
	colAmount = []string{"amount"}
	colOrigin = []string{"player_origin", "origin"}
)

var seasonYearRe = regexp.MustCompile(`^(\d{4})`)

var dateLayouts = []string{"2006-01-02", "2006/01/02", "02/01/2006", "02-01-2006", "2 January 2006"}

// table is a decoded CSV file: a header index plus data rows.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

func readTable(name string, r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	t := &table{name: name, cols: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if _, dup := t.cols[key]; !dup {
			t.cols[key] = i
		}
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: read row %d: %w", name, len(t.rows)+1, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// index returns the column position for the first matching spelling, or -1.
func (t *table) index(names []string) int {
	for _, n := range names {
		if i, ok := t.cols[n]; ok {
			return i
		}
	}
	return -1
}

type colReq struct {
	key   string
	names []string
}

// requireAll resolves every required column in order and fails on the first absent column.
func (t *table) requireAll(reqs ...colReq) (map[string]int, error) {
	idx := make(map[string]int, len(reqs))
	for _, c := range reqs {
		i := t.index(c.names)
		if i < 0 {
			return nil, fmt.Errorf("%s: %w %q", t.name, ErrMissingColumn, c.names[0])
		}
		idx[c.key] = i
	}
	return idx, nil
}

// field returns the trimmed cell, treating NA/NaN placeholders as empty.
func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	v := strings.TrimSpace(rec[i])
	switch v {
	case "NA", "NaN", "nan", "null", "NULL", "None":
		return ""
	}
	return v
}

func (t *table) malformed(row int, col, val string) error {
	return fmt.Errorf("%s row %d: %w in %s: %q", t.name, row, ErrMalformed, col, val)
}

func (t *table) intField(rec []string, i, row int, col string) (int, error) {
	v := field(rec, i)
	if v == "" {
		return 0, nil
	}
	// Some exports write integers as floats ("3.0").
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, t.malformed(row, col, v)
}

// ParseSeason extracts the starting year from a season label such as
// "2007/08", "2020/21" or "2015".
func ParseSeason(label string) (int, error) {
	m := seasonYearRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, fmt.Errorf("%w: season %q", ErrMalformed, label)
	}
	return strconv.Atoi(m[1])
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformed, v)
}

// ParseMatchesFile opens path and parses it with ParseMatches.
func ParseMatchesFile(path string) ([]model.MatchRecord, error) {
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open matches: %w", err)
	}
	defer f.Close()
	return ParseMatches(f)
}

// ParseMatches parses a match results file. Season and date columns are
// optional, but when present every row must carry a well-formed value.
func ParseMatches(r io.Reader) ([]model.MatchRecord, error) {
	t, err := readTable("matches", r)
	if err != nil {
		return nil, err
	}

	idx, err := t.requireAll(
		colReq{"id", colMatchID}, colReq{"team1", colTeam1}, colReq{"team2", colTeam2},
		colReq{"toss_winner", colTossWinner}, colReq{"toss_decision", colTossDecision},
		colReq{"winner", colWinner},
	)
	if err != nil {
		return nil, err
	}
	seasonCol := t.index(colSeason)
	dateCol := t.index(colDate)
	venueCol := t.index(colVenue)

	out := make([]model.MatchRecord, 0, len(t.rows))
	for n, rec := range t.rows {
		row := n + 1
		m := model.MatchRecord{
			ID:           field(rec, idx["id"]),
			Team1:        field(rec, idx["team1"]),
			Team2:        field(rec, idx["team2"]),
			Venue:        field(rec, venueCol),
			TossWinner:   field(rec, idx["toss_winner"]),
			TossDecision: strings.ToLower(field(rec, idx["toss_decision"])),
			Winner:       field(rec, idx["winner"]),
			Row:          row,
		}
		if m.ID == "" {
			return nil, t.malformed(row, "id", "")
		}
		if seasonCol >= 0 {
			m.Season = field(rec, seasonCol)
			year, err := ParseSeason(m.Season)
			if err != nil {
				return nil, fmt.Errorf("matches row %d: %w", row, err)
			}
			m.SeasonYear = year
		}
		if v := field(rec, dateCol); v != "" {
			d, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("matches row %d: %w", row, err)
			}
			m.Date = d
		}
		out = append(out, m)
	}
	return out, nil
}

// ParseDeliveriesFile opens path and parses it with ParseDeliveries.
func ParseDeliveriesFile(path string) ([]model.DeliveryRecord, error) {
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deliveries: %w", err)
	}
	defer f.Close()
	return ParseDeliveries(f)
}

// ParseDeliveries parses a ball-by-ball file. When the file has no is_wicket
// column, a non-empty player_dismissed marks the wicket.
func ParseDeliveries(r io.Reader) ([]model.DeliveryRecord, error) {
	t, err := readTable("deliveries", r)
	if err != nil {
		return nil, err
	}

	idx, err := t.requireAll(
		colReq{"match_id", colDeliveryMatchID}, colReq{"over", colOver}, colReq{"ball", colBall},
		colReq{"batting_team", colBattingTeam}, colReq{"bowling_team", colBowlingTeam},
		colReq{"batter", colBatter}, colReq{"bowler", colBowler},
		colReq{"batter_runs", colBatterRuns}, colReq{"total_runs", colTotalRuns},
	)
	if err != nil {
		return nil, err
	}
	inningCol := t.index(colInning)
	nonStrikerCol := t.index(colNonStriker)
	extraCol := t.index(colExtraRuns)
	wicketCol := t.index(colIsWicket)
	kindCol := t.index(colDismissal)
	dismissedCol := t.index(colDismissed)

	out := make([]model.DeliveryRecord, 0, len(t.rows))
	for n, rec := range t.rows {
		row := n + 1
		d := model.DeliveryRecord{
			MatchID:         field(rec, idx["match_id"]),
			BattingTeam:     field(rec, idx["batting_team"]),
			BowlingTeam:     field(rec, idx["bowling_team"]),
			Batter:          field(rec, idx["batter"]),
			NonStriker:      field(rec, nonStrikerCol),
			Bowler:          field(rec, idx["bowler"]),
			DismissalKind:   field(rec, kindCol),
			PlayerDismissed: field(rec, dismissedCol),
			Row:             row,
		}
		if d.MatchID == "" {
			return nil, t.malformed(row, "match_id", "")
		}
		ints := []struct {
			dst *int
			col int
			key string
		}{
			{&d.Inning, inningCol, "inning"},
			{&d.Over, idx["over"], "over"},
			{&d.Ball, idx["ball"], "ball"},
			{&d.BatterRuns, idx["batter_runs"], "batsman_runs"},
			{&d.ExtraRuns, extraCol, "extra_runs"},
			{&d.TotalRuns, idx["total_runs"], "total_runs"},
		}
		for _, f := range ints {
			if *f.dst, err = t.intField(rec, f.col, row, f.key); err != nil {
				return nil, err
			}
		}
		if wicketCol >= 0 {
			w, err := t.intField(rec, wicketCol, row, "is_wicket")
			if err != nil {
				return nil, err
			}
			d.IsWicket = w != 0
		} else {
			d.IsWicket = d.PlayerDismissed != ""
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseAuctionsFile opens path and parses it with ParseAuctions.
func ParseAuctionsFile(path string) ([]model.AuctionRecord, error) {
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open auction: %w", err)
	}
	defer f.Close()
	return ParseAuctions(f)
}

// ParseAuctions parses the player auction file. Rows without a year are
// dropped; every kept row needs a numeric amount.
func ParseAuctions(r io.Reader) ([]model.AuctionRecord, error) {
	t, err := readTable("auction", r)
	if err != nil {
		return nil, err
	}

	idx, err := t.requireAll(
		colReq{"player", colPlayer}, colReq{"year", colYear},
		colReq{"team", colTeam}, colReq{"amount", colAmount},
	)
	if err != nil {
		return nil, err
	}
	roleCol := t.index(colRole)
	originCol := t.index(colOrigin)

	out := make([]model.AuctionRecord, 0, len(t.rows))
	for n, rec := range t.rows {
		row := n + 1
		yearStr := field(rec, idx["year"])
		if yearStr == "" {
			continue
		}
		year, err := t.intField(rec, idx["year"], row, "year")
		if err != nil {
			return nil, err
		}
		amountStr := strings.ReplaceAll(field(rec, idx["amount"]), ",", "")
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, t.malformed(row, "amount", amountStr)
		}
		out = append(out, model.AuctionRecord{
			Player: field(rec, idx["player"]),
			Year:   year,
			Team:   field(rec, idx["team"]),
			Role:   field(rec, roleCol),
			Amount: amount,
			Origin: field(rec, originCol),
			Row:    row,
		})
	}
	return out, nil
}

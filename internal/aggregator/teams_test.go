package aggregator

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pable/ipl-stats/internal/model"
)

// day returns a date in April of the given year.
func day(year, d int) time.Time {
	return time.Date(year, time.April, d, 0, 0, 0, 0, time.UTC)
}

// makeMatch builds a decided match in season year on the given April day.
// The toss goes to team1, which chose to bat.
func makeMatch(id string, year, d int, team1, team2, winner string) model.MatchRecord {
	return model.MatchRecord{
		ID:           id,
		Season:       strconv.Itoa(year),
		SeasonYear:   year,
		Date:         day(year, d),
		Team1:        team1,
		Team2:        team2,
		TossWinner:   team1,
		TossDecision: model.DecisionBat,
		Winner:       winner,
	}
}

func findRatio(rows []WinRatio, year int, team string) (WinRatio, bool) {
	for _, r := range rows {
		if r.SeasonYear == year && r.Team == team {
			return r, true
		}
	}
	return WinRatio{}, false
}

// sharedStartYear returns two seasons labelled "2009" and "2009/10", both
// starting in 2009. The "2009/10" matches are played in 2010.
func sharedStartYear() []model.MatchRecord {
	late := func(m model.MatchRecord, d int) model.MatchRecord {
		m.Season = "2009/10"
		m.Date = day(2010, d)
		return m
	}
	return []model.MatchRecord{
		late(makeMatch("3", 2009, 1, "A", "B", "A"), 1),
		makeMatch("1", 2009, 1, "A", "B", "A"),
		makeMatch("2", 2009, 20, "A", "B", "B"),
		late(makeMatch("4", 2009, 25, "C", "A", "C"), 25),
	}
}

func findSeasonRatio(rows []WinRatio, season, team string) (WinRatio, bool) {
	for _, r := range rows {
		if r.Season == season && r.Team == team {
			return r, true
		}
	}
	return WinRatio{}, false
}

// ---- Win ratio ----

func TestWinRatios_SeasonsSharingStartYearStaySeparate(t *testing.T) {
	rows, err := WinRatios(sharedStartYear())
	if err != nil {
		t.Fatalf("WinRatios: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("want 5 rows, got %+v", rows)
	}
	want := []struct {
		season, team string
		played, won  int
	}{
		{"2009", "A", 2, 1},
		{"2009", "B", 2, 1},
		{"2009/10", "A", 2, 1},
		{"2009/10", "B", 1, 0},
		{"2009/10", "C", 1, 1},
	}
	for i, w := range want {
		r := rows[i]
		if r.Season != w.season || r.Team != w.team || r.Played != w.played || r.Won != w.won {
			t.Errorf("row %d: want %+v, got %+v", i, w, r)
		}
	}
	if _, ok := findSeasonRatio(rows, "2009", "C"); ok {
		t.Error("C played only in 2009/10")
	}
}

func TestSeasonWins_SeasonsSharingStartYearStaySeparate(t *testing.T) {
	rows, err := SeasonWins(sharedStartYear())
	if err != nil {
		t.Fatalf("SeasonWins: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("want 4 rows, got %+v", rows)
	}
	if rows[0].Season != "2009" || rows[2].Season != "2009/10" || rows[3].Team != "C" {
		t.Errorf("unexpected order: %+v", rows)
	}
}

func TestWinRatios_ZeroWinTeamStillListed(t *testing.T) {
	var ms []model.MatchRecord
	for i := 0; i < 10; i++ {
		ms = append(ms, makeMatch(strconv.Itoa(i+1), 2019, i+1, "A", "B", "A"))
	}
	rows, err := WinRatios(ms)
	if err != nil {
		t.Fatalf("WinRatios: %v", err)
	}
	b, ok := findRatio(rows, 2019, "B")
	if !ok {
		t.Fatal("team with zero wins must still have a row")
	}
	if b.Played != 10 || b.Won != 0 {
		t.Errorf("B: want played=10 won=0, got played=%d won=%d", b.Played, b.Won)
	}
	if b.Ratio != 0 {
		t.Errorf("B: want ratio 0.00, got %v", b.Ratio)
	}
	a, _ := findRatio(rows, 2019, "A")
	if a.Ratio != 1 {
		t.Errorf("A: want ratio 1.00, got %v", a.Ratio)
	}
}

func TestWinRatios_InvariantsAndRounding(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("1", 2020, 1, "A", "B", "A"),
		makeMatch("2", 2020, 2, "A", "C", "C"),
		makeMatch("3", 2020, 3, "A", "B", ""),
		makeMatch("4", 2021, 1, "B", "C", "B"),
	}
	rows, err := WinRatios(ms)
	if err != nil {
		t.Fatalf("WinRatios: %v", err)
	}
	for _, r := range rows {
		if r.Played < r.Won || r.Won < 0 {
			t.Errorf("%d %s: played %d < won %d", r.SeasonYear, r.Team, r.Played, r.Won)
		}
		if !r.Ratio.Defined() || r.Ratio < 0 || r.Ratio > 1 {
			t.Errorf("%d %s: ratio %v out of [0,1]", r.SeasonYear, r.Team, r.Ratio)
		}
	}
	a, _ := findRatio(rows, 2020, "A")
	if a.Played != 3 || a.Won != 1 {
		t.Errorf("A 2020: no-result must count as played; got played=%d won=%d", a.Played, a.Won)
	}
	if a.Ratio != 0.33 {
		t.Errorf("A 2020: want 0.33, got %v", a.Ratio)
	}
	if rows[0].SeasonYear != 2020 || rows[0].Team != "A" || rows[len(rows)-1].SeasonYear != 2021 {
		t.Errorf("unexpected order: %+v", rows)
	}
}

func TestWinRatios_AliasedTeamsShareBucket(t *testing.T) {
	tbl := model.NewAliasTable(nil)
	ms := tbl.NormalizeMatches([]model.MatchRecord{
		makeMatch("1", 2015, 1, "Delhi Daredevils", "Mumbai Indians", "Delhi Daredevils"),
		makeMatch("2", 2021, 1, "Delhi Capitals", "Mumbai Indians", "Mumbai Indians"),
	})
	rows, err := WinRatios(ms)
	if err != nil {
		t.Fatalf("WinRatios: %v", err)
	}
	for _, r := range rows {
		if r.Team == "Delhi Daredevils" {
			t.Fatalf("alias leaked into output: %+v", r)
		}
	}
	if _, ok := findRatio(rows, 2015, "Delhi Capitals"); !ok {
		t.Error("2015 row should be keyed as Delhi Capitals")
	}
	if _, ok := findRatio(rows, 2021, "Delhi Capitals"); !ok {
		t.Error("2021 row should be keyed as Delhi Capitals")
	}

	sum, err := Summarize(ms, 0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for _, s := range sum {
		if s.Team == "Delhi Capitals" && s.Played != 2 {
			t.Errorf("Delhi Capitals career: want 2 played, got %d", s.Played)
		}
	}
}

func TestWinRatios_MissingSeason(t *testing.T) {
	m := makeMatch("9", 2020, 1, "A", "B", "A")
	m.Season, m.SeasonYear = "", 0
	_, err := WinRatios([]model.MatchRecord{m})
	if !errors.Is(err, ErrMissingSeason) {
		t.Fatalf("want ErrMissingSeason, got %v", err)
	}
}

// ---- Champions ----

func TestChampions_LatestDateWinsRegardlessOfRowOrder(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("3", 2018, 28, "A", "B", "B"), // final listed first
		makeMatch("1", 2018, 1, "A", "C", "A"),
		makeMatch("2", 2018, 10, "B", "C", "C"),
		makeMatch("5", 2019, 12, "A", "C", "A"),
		makeMatch("4", 2019, 2, "A", "B", "B"),
	}
	champs, err := Champions(ms)
	if err != nil {
		t.Fatalf("Champions: %v", err)
	}
	if len(champs) != 2 {
		t.Fatalf("want 2 champions, got %d", len(champs))
	}
	if champs[0].SeasonYear != 2018 || champs[0].Team != "B" || champs[0].MatchID != "3" {
		t.Errorf("2018: %+v", champs[0])
	}
	if champs[1].Team != "A" {
		t.Errorf("2019: want A, got %s", champs[1].Team)
	}
}

func TestChampions_SeasonsSharingStartYear(t *testing.T) {
	ms := sharedStartYear()
	champs, err := Champions(ms)
	if err != nil {
		t.Fatalf("Champions: %v", err)
	}
	if len(champs) != 2 {
		t.Fatalf("want a champion per season, got %+v", champs)
	}
	if champs[0].Season != "2009" || champs[0].Team != "B" || champs[0].MatchID != "2" {
		t.Errorf("2009: %+v", champs[0])
	}
	if champs[1].Season != "2009/10" || champs[1].Team != "C" || champs[1].MatchID != "4" {
		t.Errorf("2009/10: %+v", champs[1])
	}

	sum, err := Summarize(ms, 0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	total := 0
	for _, s := range sum {
		total += s.Trophies
	}
	if total != 2 {
		t.Errorf("trophies must equal seasons with a decided final: want 2, got %d", total)
	}
}

func TestChampions_MissingDateFails(t *testing.T) {
	m := makeMatch("1", 2018, 1, "A", "B", "A")
	m.Date = time.Time{}
	_, err := Champions([]model.MatchRecord{m})
	if !errors.Is(err, ErrMissingDate) {
		t.Fatalf("want ErrMissingDate, got %v", err)
	}
}

func TestChampions_TiedFinalDateFails(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("1", 2018, 5, "A", "B", "A"),
		makeMatch("2", 2018, 5, "C", "D", "C"),
	}
	_, err := Champions(ms)
	if !errors.Is(err, ErrAmbiguousFinal) {
		t.Fatalf("want ErrAmbiguousFinal, got %v", err)
	}

	// A tie earlier in the season is fine once a later match exists.
	ms = append(ms, makeMatch("3", 2018, 9, "A", "C", "C"))
	champs, err := Champions(ms)
	if err != nil {
		t.Fatalf("Champions: %v", err)
	}
	if champs[0].Team != "C" {
		t.Errorf("want C, got %s", champs[0].Team)
	}
}

func TestChampions_TrophiesMatchDeterminableSeasons(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("1", 2010, 1, "A", "B", "A"),
		makeMatch("2", 2010, 2, "A", "B", "B"),
		makeMatch("3", 2011, 1, "A", "B", "A"),
		makeMatch("4", 2011, 2, "A", "B", ""), // washed-out final
		makeMatch("5", 2012, 1, "A", "C", "A"),
	}
	sum, err := Summarize(ms, 0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	total := 0
	for _, s := range sum {
		total += s.Trophies
	}
	if total != 2 {
		t.Errorf("want 2 trophies (2010 and 2012), got %d", total)
	}
}

// ---- Summary ----

func TestSummarize_RankingAndFilter(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("1", 2010, 1, "A", "B", "A"),
		makeMatch("2", 2010, 2, "A", "B", "B"), // B champion 2010
		makeMatch("3", 2011, 1, "A", "B", "A"),
		makeMatch("4", 2011, 2, "A", "C", "A"),
		makeMatch("5", 2011, 3, "B", "D", "D"), // D champion 2011
	}
	sum, err := Summarize(ms, 0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	// Trophies: B=1 (2010), D=1 (2011). A has 0.
	// Win%: D 100, B 25, A 75, C 0.
	want := []string{"D", "B", "A", "C"}
	if len(sum) != len(want) {
		t.Fatalf("want %d rows, got %d", len(want), len(sum))
	}
	for i, w := range want {
		if sum[i].Team != w {
			t.Errorf("rank %d: want %s, got %s (%+v)", i, w, sum[i].Team, sum)
		}
	}
	if sum[1].WinPct != 25 {
		t.Errorf("B win%%: want 25.00, got %v", sum[1].WinPct)
	}

	filtered, err := Summarize(ms, 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for _, s := range filtered {
		if s.Played < 3 {
			t.Errorf("%s has %d matches, below the filter", s.Team, s.Played)
		}
	}
	if len(filtered) != 2 {
		t.Errorf("want A and B after filter, got %+v", filtered)
	}
}

// ---- Toss ----

func TestTossConversions(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("1", 2020, 1, "A", "B", "A"),
		makeMatch("2", 2020, 2, "A", "B", "B"),
		makeMatch("3", 2020, 3, "A", "B", ""),
		makeMatch("4", 2020, 4, "B", "A", "B"),
	}
	rows := TossConversions(ms)
	if len(rows) != 2 || rows[0].Team != "A" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	a := rows[0]
	if a.TossWins != 3 || a.TossAndMatch != 1 || a.TossButLost != 2 {
		t.Errorf("A: %+v", a)
	}
	if a.ConversionRatio != 0.33 {
		t.Errorf("A conversion: want 0.33, got %v", a.ConversionRatio)
	}
	for _, r := range rows {
		if r.TossAndMatch > r.TossWins || r.TossButLost < 0 {
			t.Errorf("%s: toss-and-match %d exceeds toss wins %d", r.Team, r.TossAndMatch, r.TossWins)
		}
	}

	ti := TossImpactSummary(ms)
	if ti.WonTossAndMatch != 2 || ti.LostAfterToss != 1 || ti.NoResult != 1 {
		t.Errorf("toss impact: %+v", ti)
	}
}

// ---- Batting first ----

func TestBattingFirstAndWinType(t *testing.T) {
	cases := []struct {
		decision, winner string
		wantFirst        string
		wantType         string
	}{
		{model.DecisionBat, "A", "A", model.WinDefended},
		{model.DecisionBat, "B", "A", model.WinChased},
		{model.DecisionField, "B", "B", model.WinDefended},
		{model.DecisionField, "A", "B", model.WinChased},
		{model.DecisionField, "", "B", ""},
	}
	for _, c := range cases {
		m := model.MatchRecord{Team1: "A", Team2: "B", TossWinner: "A", TossDecision: c.decision, Winner: c.winner}
		if got := BattingFirst(&m); got != c.wantFirst {
			t.Errorf("%s/%s: batting first want %s, got %s", c.decision, c.winner, c.wantFirst, got)
		}
		if got := WinType(&m); got != c.wantType {
			t.Errorf("%s/%s: win type want %q, got %q", c.decision, c.winner, c.wantType, got)
		}
	}
}

func TestResultTypes(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("1", 2020, 1, "A", "B", "A"), // A bats first, defends
		makeMatch("2", 2020, 2, "A", "B", "A"),
		makeMatch("3", 2020, 3, "B", "A", "A"), // B bats first, A chases
		makeMatch("4", 2020, 4, "B", "A", "B"),
		makeMatch("5", 2020, 5, "B", "A", ""),
	}
	rows := ResultTypes(ms)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %+v", rows)
	}
	if rows[0].Team != "A" || rows[0].WinType != model.WinChased || rows[0].Count != 1 {
		t.Errorf("row 0: %+v", rows[0])
	}
	if rows[1].Team != "A" || rows[1].WinType != model.WinDefended || rows[1].SharePct != 66.7 {
		t.Errorf("row 1: %+v", rows[1])
	}
	if rows[2].Team != "B" || rows[2].TeamWins != 1 || rows[2].SharePct != 100 {
		t.Errorf("row 2: %+v", rows[2])
	}
}

func TestSeasonWins(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch("1", 2020, 1, "A", "B", "B"),
		makeMatch("2", 2020, 2, "A", "B", "A"),
		makeMatch("3", 2020, 3, "A", "B", "A"),
		makeMatch("4", 2019, 1, "A", "B", ""),
	}
	rows, err := SeasonWins(ms)
	if err != nil {
		t.Fatalf("SeasonWins: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("no-result season must produce no rows: %+v", rows)
	}
	if rows[0].Team != "A" || rows[0].Wins != 2 || rows[1].Team != "B" {
		t.Errorf("unexpected order: %+v", rows)
	}
}

func TestCheckMatches(t *testing.T) {
	ok := []model.MatchRecord{makeMatch("1", 2020, 1, "A", "B", "A"), makeMatch("2", 2020, 2, "A", "B", "")}
	if err := CheckMatches(ok); err != nil {
		t.Fatalf("valid matches: %v", err)
	}
	bad := []model.MatchRecord{makeMatch("3", 2020, 1, "A", "B", "C")}
	if err := CheckMatches(bad); !errors.Is(err, ErrBadWinner) {
		t.Fatalf("want ErrBadWinner, got %v", err)
	}
}

func TestCheckMatches_DuplicateID(t *testing.T) {
	a := makeMatch("7", 2020, 1, "A", "B", "A")
	b := makeMatch("7", 2020, 2, "A", "C", "C")
	a.Row, b.Row = 7, 12
	err := CheckMatches([]model.MatchRecord{a, b})
	if !errors.Is(err, ErrDuplicateMatch) {
		t.Fatalf("want ErrDuplicateMatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "rows 7 and 12") {
		t.Errorf("error should name both rows: %v", err)
	}
}

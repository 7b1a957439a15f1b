package model

import (
	"math"
	"testing"
)

func TestAliasTable_CanonicalMergesRebrandedTeams(t *testing.T) {
	tbl := NewAliasTable(nil)

	if got := tbl.Canonical("Delhi Daredevils"); got != "Delhi Capitals" {
		t.Errorf("Delhi Daredevils: want Delhi Capitals, got %q", got)
	}
	if got := tbl.Canonical("Delhi Capitals"); got != "Delhi Capitals" {
		t.Errorf("Delhi Capitals should pass through, got %q", got)
	}
	if got := tbl.Canonical("Gujarat Titans"); got != "Gujarat Titans" {
		t.Errorf("unknown team should pass through, got %q", got)
	}
	if got := tbl.Canonical(""); got != "" {
		t.Errorf("empty name should stay empty, got %q", got)
	}
}

func TestAliasTable_ExtraOverridesDefaults(t *testing.T) {
	tbl := NewAliasTable(map[string]string{
		" Gujarat Lions ": "Gujarat Titans",
		"Deccan Chargers": "Deccan",
	})
	if got := tbl.Canonical("Gujarat Lions"); got != "Gujarat Titans" {
		t.Errorf("extra alias: got %q", got)
	}
	if got := tbl.Canonical("Deccan Chargers"); got != "Deccan" {
		t.Errorf("override: got %q", got)
	}
	if got := tbl.Canonical("Kings XI Punjab"); got != "Punjab Kings" {
		t.Errorf("defaults must survive overlay: got %q", got)
	}
}

func TestNormalizeMatches_AllTeamFields(t *testing.T) {
	tbl := NewAliasTable(nil)
	in := []MatchRecord{{
		ID: "1", Team1: "Delhi Daredevils", Team2: "Kings XI Punjab",
		TossWinner: "Kings XI Punjab", Winner: "Delhi Daredevils",
	}}
	out := tbl.NormalizeMatches(in)

	m := out[0]
	if m.Team1 != "Delhi Capitals" || m.Team2 != "Punjab Kings" {
		t.Errorf("teams not normalized: %q vs %q", m.Team1, m.Team2)
	}
	if m.TossWinner != "Punjab Kings" {
		t.Errorf("toss winner not normalized: %q", m.TossWinner)
	}
	if m.Winner != "Delhi Capitals" {
		t.Errorf("winner not normalized: %q", m.Winner)
	}
	if in[0].Team1 != "Delhi Daredevils" {
		t.Error("source records must not be mutated")
	}
}

func TestNormalizeDeliveriesAndAuctions(t *testing.T) {
	tbl := NewAliasTable(nil)
	ds := tbl.NormalizeDeliveries([]DeliveryRecord{{BattingTeam: "Deccan Chargers", BowlingTeam: "Rising Pune Supergiant"}})
	if ds[0].BattingTeam != "Sunrisers Hyderabad" || ds[0].BowlingTeam != "Rising Pune Supergiants" {
		t.Errorf("delivery teams: %+v", ds[0])
	}
	as := tbl.NormalizeAuctions([]AuctionRecord{{Team: "Royal Challengers Bengaluru"}})
	if as[0].Team != "Royal Challengers Bangalore" {
		t.Errorf("auction team: %q", as[0].Team)
	}
}

func TestRatio_ZeroDenominatorIsUndefined(t *testing.T) {
	r := Ratio(3, 0)
	if r.Defined() {
		t.Errorf("expected undefined, got %v", float64(r))
	}
	if !math.IsNaN(float64(r)) {
		t.Error("undefined rate should be NaN")
	}
	if r.Format(2) != "" {
		t.Errorf("undefined should format empty, got %q", r.Format(2))
	}
	if Percent(1, 0).Defined() {
		t.Error("Percent with zero denominator should be undefined")
	}
}

func TestRate_Round(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.0 / 3.0, 0.67},
		{0.125, 0.13},
		{0, 0},
		{1, 1},
	}
	for _, c := range cases {
		if got := float64(Rate(c.in).Round(2)); got != c.want {
			t.Errorf("Round(%v): want %v, got %v", c.in, c.want, got)
		}
	}
	if Undefined.Round(2).Defined() {
		t.Error("rounding undefined must stay undefined")
	}
}

func TestMatchRecord_Opponent(t *testing.T) {
	m := MatchRecord{Team1: "A", Team2: "B"}
	if m.Opponent("A") != "B" || m.Opponent("B") != "A" {
		t.Error("opponent mismatch")
	}
	if !m.Involves("B") || m.Involves("C") {
		t.Error("involves mismatch")
	}
}

func TestBowlerWicket(t *testing.T) {
	cases := []struct {
		d    DeliveryRecord
		want bool
	}{
		{DeliveryRecord{IsWicket: true, DismissalKind: "caught"}, true},
		{DeliveryRecord{IsWicket: true, DismissalKind: "bowled"}, true},
		{DeliveryRecord{IsWicket: true, DismissalKind: "run out"}, false},
		{DeliveryRecord{IsWicket: true, DismissalKind: "retired hurt"}, false},
		{DeliveryRecord{IsWicket: false}, false},
	}
	for _, c := range cases {
		if got := c.d.BowlerWicket(); got != c.want {
			t.Errorf("%q: want %v, got %v", c.d.DismissalKind, c.want, got)
		}
	}
}

func TestOversNotation(t *testing.T) {
	if got := OversNotation(22); got != "3.4" {
		t.Errorf("22 balls: got %q", got)
	}
	if got := OversNotation(24); got != "4.0" {
		t.Errorf("24 balls: got %q", got)
	}
}

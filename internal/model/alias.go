package model

import "strings"

// DefaultTeamAliases maps retired or rebranded franchise names to the name
// the franchise carries today.
var DefaultTeamAliases = map[string]string{
	"Delhi Daredevils":            "Delhi Capitals",
	"Deccan Chargers":             "Sunrisers Hyderabad",
	"Kings XI Punjab":             "Punjab Kings",
	"Royal Challengers Bengaluru": "Royal Challengers Bangalore",
	"Rising Pune Supergiant":      "Rising Pune Supergiants",
}

// AliasTable resolves raw team names to canonical ones. Names missing from
// the table pass through unchanged.
type AliasTable map[string]string

// NewAliasTable returns the default aliases overlaid with extra.
func NewAliasTable(extra map[string]string) AliasTable {
	t := make(AliasTable, len(DefaultTeamAliases)+len(extra))
	for k, v := range DefaultTeamAliases {
		t[k] = v
	}
	for k, v := range extra {
		t[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return t
}

// Canonical returns the canonical name for a raw team name. Empty stays empty.
func (t AliasTable) Canonical(name string) string {
	name = strings.TrimSpace(name)
	if c, ok := t[name]; ok {
		return c
	}
	return name
}

// NormalizeMatches returns a copy of ms with every team-name field resolved.
func (t AliasTable) NormalizeMatches(ms []MatchRecord) []MatchRecord {
	out := make([]MatchRecord, len(ms))
	for i, m := range ms {
		m.Team1 = t.Canonical(m.Team1)
		m.Team2 = t.Canonical(m.Team2)
		m.TossWinner = t.Canonical(m.TossWinner)
		m.Winner = t.Canonical(m.Winner)
		out[i] = m
	}
	return out
}

// NormalizeDeliveries returns a copy of ds with batting and bowling teams resolved.
func (t AliasTable) NormalizeDeliveries(ds []DeliveryRecord) []DeliveryRecord {
	out := make([]DeliveryRecord, len(ds))
	for i, d := range ds {
		d.BattingTeam = t.Canonical(d.BattingTeam)
		d.BowlingTeam = t.Canonical(d.BowlingTeam)
		out[i] = d
	}
	return out
}

// NormalizeAuctions returns a copy of as with the buying team resolved.
func (t AliasTable) NormalizeAuctions(as []AuctionRecord) []AuctionRecord {
	out := make([]AuctionRecord, len(as))
	for i, a := range as {
		a.Team = t.Canonical(a.Team)
		out[i] = a
	}
	return out
}

package storage

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pable/ipl-stats/internal/model"
)

// LoadMatches bulk-inserts match records in a transaction. A repeated id
// fails the whole load.
func (db *DB) LoadMatches(ms []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO matches(
			id, season, season_year, date, team1, team2, venue,
			toss_winner, toss_decision, winner
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range ms {
		var date any
		if !m.Date.IsZero() {
			date = m.Date.Format("2006-01-02")
		}
		_, err = stmt.Exec(
			m.ID, nullStr(m.Season), nullInt(m.SeasonYear), date, m.Team1, m.Team2, nullStr(m.Venue),
			nullStr(m.TossWinner), nullStr(m.TossDecision), nullStr(m.Winner),
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// LoadDeliveries bulk-inserts delivery records in a transaction.
func (db *DB) LoadDeliveries(ds []model.DeliveryRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO deliveries(
			match_id, inning, "over", ball, batting_team, bowling_team,
			batter, non_striker, bowler,
			batsman_runs, extra_runs, total_runs,
			is_wicket, dismissal_kind, player_dismissed
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range ds {
		_, err = stmt.Exec(
			d.MatchID, nullInt(d.Inning), d.Over, d.Ball, d.BattingTeam, d.BowlingTeam,
			d.Batter, nullStr(d.NonStriker), d.Bowler,
			d.BatterRuns, d.ExtraRuns, d.TotalRuns,
			boolInt(d.IsWicket), nullStr(d.DismissalKind), nullStr(d.PlayerDismissed),
		)
		if err != nil {
			return fmt.Errorf("insert delivery row %d: %w", d.Row, err)
		}
	}
	return tx.Commit()
}

// LoadAuctions bulk-inserts auction records in a transaction. Amounts are
// stored from their exact decimal text.
func (db *DB) LoadAuctions(as []model.AuctionRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO auctions(player, year, team, role, amount, origin)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range as {
		_, err = stmt.Exec(a.Player, a.Year, nullStr(a.Team), nullStr(a.Role), a.Amount.String(), nullStr(a.Origin))
		if err != nil {
			return fmt.Errorf("insert auction row %d: %w", a.Row, err)
		}
	}
	return tx.Commit()
}

// TableCount is the number of rows in one table.
type TableCount struct {
	Table string
	Rows  int
}

// Counts returns row counts for every dataset table.
func (db *DB) Counts() ([]TableCount, error) {
	var out []TableCount
	for _, name := range []string{"matches", "deliveries", "auctions"} {
		var n int
		if err := db.conn.QueryRow("SELECT COUNT(1) FROM " + name).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		out = append(out, TableCount{Table: name, Rows: n})
	}
	return out, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified
// rows. NULL cells come back as the null argument so callers can tell them
// apart from empty text.
func (db *DB) QueryRaw(query, null string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v == nil {
				row[i] = null
				continue
			}
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

// Package storage mirrors the loaded datasets into an in-memory SQLite
// database for ad-hoc SQL. Nothing is written to disk.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB holding one run's records.
type DB struct {
	conn *sql.DB
}

// Open creates an empty in-memory database and applies the schema.
func Open() (*DB, error) {
	conn, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Every pooled connection would get its own private :memory: database.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection and discards the data.
func (db *DB) Close() error {
	return db.conn.Close()
}

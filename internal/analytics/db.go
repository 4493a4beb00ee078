// Package analytics records visitor activity in a local SQLite database and
// aggregates it into time-windowed reports. Writes are append-only except for
// session rows, which advance as the visit progresses.
package analytics

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// timeLayout is the column format for every DATETIME value. Lexicographic
// order equals chronological order, so window filters compare strings.
const timeLayout = "2006-01-02 15:04:05"

type DB struct {
	db *sql.DB
}

// Open opens or creates the analytics database and applies pending
// migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure analytics db: %w", err)
		}
	}

	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate analytics db: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Healthy(ctx context.Context) bool {
	return d.db.PingContext(ctx) == nil
}

// Package store provides SQLite-backed persistence for reminders.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reminders (
	id                TEXT PRIMARY KEY,
	owner_id          TEXT NOT NULL,
	title             TEXT NOT NULL DEFAULT '',
	body              TEXT NOT NULL DEFAULT '',
	due_at            DATETIME NOT NULL,
	timezone          TEXT NOT NULL DEFAULT '',
	is_repeating      INTEGER NOT NULL DEFAULT 0,
	repeat_interval   TEXT NOT NULL DEFAULT '',
	active            INTEGER NOT NULL DEFAULT 1,
	status            TEXT NOT NULL DEFAULT 'pending',
	snoozed_until     DATETIME,
	next_trigger      DATETIME,
	last_triggered_at DATETIME,
	trigger_count     INTEGER NOT NULL DEFAULT 0,
	completion_note   TEXT NOT NULL DEFAULT '',
	completed_at      DATETIME,
	response_color    TEXT NOT NULL DEFAULT '',
	word_count        INTEGER NOT NULL DEFAULT 0,
	snooze_count      INTEGER NOT NULL DEFAULT 0,
	edit_history      TEXT NOT NULL DEFAULT '[]',
	contact_name      TEXT NOT NULL DEFAULT '',
	contact_phone     TEXT NOT NULL DEFAULT '',
	contact_email     TEXT NOT NULL DEFAULT '',
	contact_location  TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_owner ON reminders(owner_id);
CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(active, status, due_at);
`

// DB wraps a sql.DB with reminder-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

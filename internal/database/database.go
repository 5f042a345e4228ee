package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// Timestamps are stored as unix milliseconds.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email_address TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		address TEXT NOT NULL,
		credit_card TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		subject TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'open', -- open, in_progress, closed
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_user_id ON tickets(user_id);

	CREATE TABLE IF NOT EXISTS refund_credits (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		ticket_id TEXT REFERENCES tickets(id) ON DELETE SET NULL,
		credit_available REAL NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_refund_credits_user_id ON refund_credits(user_id);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

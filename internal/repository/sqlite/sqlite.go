// Package sqlite implements the repository interfaces on SQLite.
//
// We use modernc.org/sqlite, a pure-Go translation of the SQLite C code —
// no CGo, so cross-compilation stays trivial and tests can open ":memory:"
// databases with zero setup.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns its lifecycle: New opens it, Close releases
// the file lock on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time, and a ":memory:" database is
	// per-connection — a single pooled connection avoids SQLITE_BUSY and
	// keeps in-memory databases coherent.
	conn.SetMaxOpenConns(1)

	// Surface a bad path or permissions problem now, not on first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; we rely on them for the
	// ON DELETE CASCADE from users to squads and suggestions.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// Schema notes:
//   - users.id holds UUIDs from both origins: provider-issued subject IDs
//     for mirrored accounts, locally generated UUIDs for registered ones.
//     Reconciliation re-runs are therefore lookups, never second inserts.
//   - user_squads.user_id is UNIQUE: one squad per user is enforced here,
//     not in application logic, so two racing create-or-update calls both
//     land on the same row.
//   - ON DELETE CASCADE removes a user's squad and suggestions with the
//     user row.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_squads (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			players          TEXT NOT NULL DEFAULT '[]',
			budget_remaining REAL NOT NULL DEFAULT 100.0,
			formation        TEXT NOT NULL DEFAULT '',
			updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user_squads table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS transfer_suggestions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			player_out_id    INTEGER NOT NULL,
			player_in_id     INTEGER NOT NULL,
			reasoning        TEXT NOT NULL DEFAULT '',
			confidence_score REAL NOT NULL DEFAULT 0.0,
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_suggestions_user_id
			ON transfer_suggestions(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating transfer_suggestions table: %w", err)
	}

	return nil
}

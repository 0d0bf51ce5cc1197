// internal/db/db.go
//
// SQLite bootstrap: open with sane pragmas, then run idempotent migrations.
// Stores two kinds of durable state: user accounts (auth + lifetime stats)
// and per-game history rows. Live game state is persisted separately by the
// store package.

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Open opens (and creates if missing) the SQLite database at path and runs
// migrations. WAL + busy_timeout keep concurrent request handlers from
// tripping over SQLITE_BUSY.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// migration is a named, idempotent DDL step. Applied steps are recorded in
// _migrations so each runs exactly once per database file.
type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "001_users",
		sql: `CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL,
			games_played  INTEGER NOT NULL DEFAULT 0,
			wins          INTEGER NOT NULL DEFAULT 0,
			streak        INTEGER NOT NULL DEFAULT 0
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (lower(username));`,
	},
	{
		name: "002_games",
		sql: `CREATE TABLE IF NOT EXISTS games (
			id           TEXT PRIMARY KEY,
			user_id      TEXT REFERENCES users(id),
			anonymous_id TEXT,
			status       TEXT NOT NULL DEFAULT 'playing',
			guesses      INTEGER NOT NULL DEFAULT 0,
			started_at   TEXT NOT NULL,
			finished_at  TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_games_user ON games (user_id, started_at);
		CREATE INDEX IF NOT EXISTS idx_games_anon ON games (anonymous_id);`,
	},
}

// Migrate applies any pending migrations in order.
func Migrate(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS _migrations (
		name       TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("migrations table: %w", err)
	}
	for _, m := range migrations {
		var done int
		err := conn.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, m.name).Scan(&done)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("migration check %s: %w", m.name, err)
		}
		for _, stmt := range strings.Split(m.sql, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := conn.Exec(stmt); err != nil {
				return fmt.Errorf("migration %s: %w", m.name, err)
			}
		}
		if _, err := conn.Exec(`INSERT INTO _migrations (name) VALUES (?)`, m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
		log.Info().Str("migration", m.name).Msg("applied")
	}
	return nil
}

// internal/store/sqlite.go
//
// SQLite implementation of Store. Snapshots are serialized to a JSON column
// keyed by session id, so games survive a process restart when the server is
// configured with STORE=sqlite.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wordduel/server/internal/game"
)

// sqliteStore persists snapshots in a single sessions table.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened database handle and ensures the sessions
// table exists.
func NewSQLiteStore(db *sql.DB) (Store, error) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            id         TEXT PRIMARY KEY,
            state      TEXT NOT NULL,
            updated_at TEXT NOT NULL DEFAULT (datetime('now'))
        )`)
	if err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Load(ctx context.Context, id string) (game.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id=?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return game.State{}, ErrNotFound
	}
	if err != nil {
		return game.State{}, err
	}
	var st game.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return game.State{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return st, nil
}

func (s *sqliteStore) Save(ctx context.Context, st game.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, state, updated_at) VALUES (?, ?, datetime('now'))
        ON CONFLICT(id) DO UPDATE SET state=excluded.state, updated_at=excluded.updated_at`,
		st.ID, string(raw))
	return err
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

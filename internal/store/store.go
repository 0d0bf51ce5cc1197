// internal/store/store.go
//
// Persistence interface for game sessions. Stores traffic in game.State
// snapshots, never in client projections: the snapshot includes the answer
// and lives strictly behind the server boundary.

package store

import (
	"context"
	"errors"

	"github.com/wordduel/server/internal/game"
)

// ErrNotFound is returned by Load and Delete for unknown session ids.
var ErrNotFound = errors.New("not found")

// Store defines the persistence collaborators for game sessions.
// Implementations may be backed by memory (ephemeral) or SQLite (durable);
// the engine is agnostic to which one it talks to.
type Store interface {
	// Load retrieves a session snapshot by id.
	Load(ctx context.Context, id string) (game.State, error)

	// Save persists or updates a session snapshot.
	Save(ctx context.Context, st game.State) error

	// Delete removes a session snapshot.
	Delete(ctx context.Context, id string) error
}

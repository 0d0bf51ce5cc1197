// internal/registry/rooms.go
//
// Concurrency-safe collection of two-player rooms. Mirrors the sessions
// registry: map lock for lookups, per-room mutex for mutations, idle
// sweeper for rooms whose players stopped polling. Rooms are in-memory
// only; their competitive state has no durability requirement.

package registry

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordduel/server/internal/game"
	"github.com/wordduel/server/internal/room"
)

type roomEntry struct {
	rm         *room.Room
	lastAccess atomic.Int64
}

func (e *roomEntry) touch() { e.lastAccess.Store(time.Now().UnixNano()) }

func (e *roomEntry) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, e.lastAccess.Load()))
}

// Rooms owns the live competitive rooms.
type Rooms struct {
	cfg game.Config
	ttl time.Duration

	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

// NewRooms constructs a room registry around a base config.
func NewRooms(cfg game.Config, ttl time.Duration) *Rooms {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Rooms{
		cfg:   cfg,
		ttl:   ttl,
		rooms: make(map[string]*roomEntry),
	}
}

// Create opens a new empty room.
func (r *Rooms) Create(ctx context.Context) (room.Projection, error) {
	rm, err := room.New(r.cfg)
	if err != nil {
		return room.Projection{}, err
	}
	e := &roomEntry{rm: rm}
	e.touch()
	r.mu.Lock()
	r.rooms[rm.ID()] = e
	r.mu.Unlock()

	log.Info().Str("roomId", rm.ID()).Msg("room created")
	return rm.Projection(), nil
}

// Get returns the current projection for a room.
func (r *Rooms) Get(ctx context.Context, id string) (room.Projection, error) {
	e, err := r.entry(id)
	if err != nil {
		return room.Projection{}, err
	}
	e.touch()
	return e.rm.Projection(), nil
}

// Join seats a player in a room.
func (r *Rooms) Join(ctx context.Context, id, player string) (room.Projection, error) {
	e, err := r.entry(id)
	if err != nil {
		return room.Projection{}, err
	}
	e.touch()
	p, err := e.rm.Join(player)
	if err != nil {
		return room.Projection{}, err
	}
	if p.Status == room.StatusActive {
		log.Info().Str("roomId", id).Msg("room activated")
	}
	return p, nil
}

// Leave removes a player; an emptied waiting room is collected immediately.
func (r *Rooms) Leave(ctx context.Context, id, player string) (room.Projection, error) {
	e, err := r.entry(id)
	if err != nil {
		return room.Projection{}, err
	}
	e.touch()
	p, err := e.rm.Leave(player)
	if err != nil {
		return room.Projection{}, err
	}
	if e.rm.Abandoned() {
		r.mu.Lock()
		delete(r.rooms, id)
		r.mu.Unlock()
	}
	return p, nil
}

// SubmitGuess applies one guess to the named player's board.
func (r *Rooms) SubmitGuess(ctx context.Context, id, player, word string) (room.Projection, error) {
	e, err := r.entry(id)
	if err != nil {
		return room.Projection{}, err
	}
	e.touch()
	return e.rm.SubmitGuess(player, word)
}

// Delete removes a room outright.
func (r *Rooms) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

// List returns the lobby view, sorted by id for a stable polling response.
func (r *Rooms) List(ctx context.Context) []room.Summary {
	r.mu.RLock()
	entries := make([]*roomEntry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]room.Summary, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.rm.Summarize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of live rooms (diagnostics).
func (r *Rooms) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Start launches the idle sweeper until ctx is cancelled.
func (r *Rooms) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *Rooms) sweep() {
	now := time.Now()
	evicted := 0
	r.mu.Lock()
	for id, e := range r.rooms {
		if e.idleSince(now) > r.ttl {
			delete(r.rooms, id)
			evicted++
		}
	}
	r.mu.Unlock()
	if evicted > 0 {
		log.Info().Int("evicted", evicted).Msg("swept idle rooms")
	}
}

func (r *Rooms) entry(id string) (*roomEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.rooms[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

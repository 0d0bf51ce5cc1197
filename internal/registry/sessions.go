// internal/registry/sessions.go
//
// Concurrency-safe collection of single-player games.
//
// The registry keeps live sessions in memory (each session serializes its
// own mutations) and writes snapshots through to the injected Store after
// every accepted change, so a durable store can rehydrate a game that has
// been evicted or survived a restart. Session ids are crypto-random UUIDs
// and double as the access token: possession of the id is the only
// credential needed to act on a single-player game.
//
// Different sessions are fully independent: the registry map lock is held
// only for lookups and inserts, never across a guess.

package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordduel/server/internal/game"
	"github.com/wordduel/server/internal/store"
)

// ErrNotFound is returned for ids unknown to a registry. No state is
// mutated on the way to it.
var ErrNotFound = errors.New("not found")

// DefaultTTL is how long an untouched entry survives before the sweeper
// considers it idle.
const DefaultTTL = 30 * time.Minute

const sweepInterval = 10 * time.Minute

type sessionEntry struct {
	sess       *game.Session
	lastAccess atomic.Int64 // unix nanos
}

func (e *sessionEntry) touch() { e.lastAccess.Store(time.Now().UnixNano()) }

func (e *sessionEntry) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, e.lastAccess.Load()))
}

// Sessions owns the live single-player games.
type Sessions struct {
	cfg   game.Config
	store store.Store
	ttl   time.Duration

	mu   sync.RWMutex
	live map[string]*sessionEntry
}

// NewSessions constructs a registry around a base config and a store.
// A non-positive ttl falls back to DefaultTTL.
func NewSessions(cfg game.Config, st store.Store, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{
		cfg:   cfg,
		store: st,
		ttl:   ttl,
		live:  make(map[string]*sessionEntry),
	}
}

// Create starts a new game. maxRounds of 0 takes the registry default.
func (s *Sessions) Create(ctx context.Context, maxRounds int) (game.Projection, error) {
	cfg := s.cfg
	if maxRounds != 0 {
		cfg.MaxRounds = maxRounds
	}
	sess, err := game.New(cfg)
	if err != nil {
		return game.Projection{}, err
	}
	if err := s.store.Save(ctx, sess.State()); err != nil {
		return game.Projection{}, err
	}

	e := &sessionEntry{sess: sess}
	e.touch()
	s.mu.Lock()
	s.live[sess.ID()] = e
	s.mu.Unlock()

	log.Info().Str("gameId", sess.ID()).Int("maxRounds", cfg.MaxRounds).Msg("game created")
	return sess.Projection(), nil
}

// Get returns the current projection for a game.
func (s *Sessions) Get(ctx context.Context, id string) (game.Projection, error) {
	e, err := s.entry(ctx, id)
	if err != nil {
		return game.Projection{}, err
	}
	e.touch()
	return e.sess.Projection(), nil
}

// SubmitGuess applies one guess to a game. Concurrent calls against the same
// id are serialized by the session itself, so the round advances by exactly
// one per accepted call.
func (s *Sessions) SubmitGuess(ctx context.Context, id, word string) (game.Projection, error) {
	e, err := s.entry(ctx, id)
	if err != nil {
		return game.Projection{}, err
	}
	e.touch()

	proj, err := e.sess.SubmitGuess(word)
	if err != nil {
		return game.Projection{}, err
	}
	if err := s.store.Save(ctx, e.sess.State()); err != nil {
		// The in-memory game already advanced; surface the persistence
		// failure to the caller rather than silently dropping durability.
		log.Error().Err(err).Str("gameId", id).Msg("save game state")
		return game.Projection{}, err
	}

	// A concurrent Delete may have removed the game between the guess and
	// the write-through; drop the snapshot again so the store does not
	// resurrect a deleted game. The sweeper cannot race here: the entry was
	// touched above, so it is not idle.
	s.mu.RLock()
	_, alive := s.live[id]
	s.mu.RUnlock()
	if !alive {
		if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("gameId", id).Msg("drop deleted game snapshot")
		}
	}
	return proj, nil
}

// Delete removes a game from the registry and the store. In-flight reads
// holding the session keep working on the last valid state.
func (s *Sessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, had := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	err := s.store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		if had {
			return nil
		}
		return ErrNotFound
	}
	return err
}

// Count returns the number of live games (diagnostics).
func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

// Start launches the idle sweeper until ctx is cancelled. Finished idle
// games are dropped from the store as well; unfinished ones only leave
// memory and can be rehydrated from a durable store.
func (s *Sessions) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Sessions) sweep(ctx context.Context) {
	now := time.Now()
	var evicted, purged int

	s.mu.Lock()
	idle := make(map[string]*sessionEntry)
	for id, e := range s.live {
		if e.idleSince(now) > s.ttl {
			idle[id] = e
			delete(s.live, id)
			evicted++
		}
	}
	s.mu.Unlock()

	for id, e := range idle {
		if e.sess.Over() {
			if err := s.store.Delete(ctx, id); err == nil {
				purged++
			}
		}
	}
	if evicted > 0 {
		log.Info().Int("evicted", evicted).Int("purged", purged).Msg("swept idle games")
	}
}

// entry returns the live entry for id, rehydrating from the store on a miss.
func (s *Sessions) entry(ctx context.Context, id string) (*sessionEntry, error) {
	s.mu.RLock()
	e, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return e, nil
	}

	st, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sess, err := game.Restore(s.cfg.Vocab, st)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have rehydrated the same game concurrently; keep
	// the first entry so both callers share one mutex.
	if e, ok := s.live[id]; ok {
		return e, nil
	}
	e = &sessionEntry{sess: sess}
	e.touch()
	s.live[id] = e
	return e, nil
}

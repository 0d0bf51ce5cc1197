// internal/game/session.go
//
// Single game session: one hidden answer, one guess history, a round counter
// and derived won/over flags.
//
// Concurrency model: every session carries its own mutex, so mutations on a
// given game are serialized no matter how many request handlers hold a
// reference to it. Reads return full copies; a caller never observes a guess
// half-applied to the history but not yet reflected in the letter board.
//
// Answer secrecy: Projection is the only client-facing view and populates
// Answer exclusively once the game is over. State/Restore are the
// persistence-facing snapshot used by stores and are never serialized to
// clients.

package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wordduel/server/internal/words"
)

// Config carries the injected parameters for a new session.
type Config struct {
	// Vocab supplies candidate answers and the guess vocabulary.
	Vocab *words.List
	// MaxRounds bounds the number of guesses; 0 means DefaultMaxRounds.
	MaxRounds int
	// Answer optionally fixes the answer (rooms share one, tests pin one).
	// When empty, an answer is drawn at random from Vocab.
	Answer string
}

// Session holds the state of a single game. Create with New; zero value is
// not usable.
type Session struct {
	mu        sync.Mutex
	id        string
	answer    string
	maxRounds int
	vocab     *words.List
	rounds    []Round
	letters   map[string]Mark
	over      bool
	won       bool
}

// Projection is the read-only, answer-safe view of a session.
type Projection struct {
	ID           string          `json:"id"`
	CurrentRound int             `json:"currentRound"`
	MaxRounds    int             `json:"maxRounds"`
	Guesses      []string        `json:"guesses"`
	Results      [][]LetterMark  `json:"results"`
	Letters      map[string]Mark `json:"letters"`
	Over         bool            `json:"over"`
	Won          bool            `json:"won"`
	// Answer is populated only once the game is over.
	Answer string `json:"answer,omitempty"`
}

// State is the persistence snapshot of a session. It contains the answer and
// must never cross the client boundary; the guess history is enough to
// rebuild evaluations and the letter board deterministically.
type State struct {
	ID        string   `json:"id"`
	Answer    string   `json:"answer"`
	MaxRounds int      `json:"maxRounds"`
	Guesses   []string `json:"guesses"`
	Over      bool     `json:"over"`
	Won       bool     `json:"won"`
}

// New validates cfg and constructs a fresh session. Configuration failures
// wrap ErrConfig and are never partially applied.
func New(cfg Config) (*Session, error) {
	if cfg.Vocab == nil {
		return nil, fmt.Errorf("%w: no word list", ErrConfig)
	}
	if n, _ := cfg.Vocab.Stats(); n == 0 {
		return nil, fmt.Errorf("%w: empty word list", ErrConfig)
	}
	maxRounds := cfg.MaxRounds
	if maxRounds == 0 {
		maxRounds = DefaultMaxRounds
	}
	if maxRounds < MinRounds || maxRounds > MaxRoundsLimit {
		return nil, fmt.Errorf("%w: max rounds must be %d-%d", ErrConfig, MinRounds, MaxRoundsLimit)
	}

	answer := strings.ToLower(strings.TrimSpace(cfg.Answer))
	if answer == "" {
		answer = cfg.Vocab.Random()
	} else if len(answer) != WordLength || !isAlpha(answer) {
		return nil, fmt.Errorf("%w: fixed answer must be %d letters", ErrConfig, WordLength)
	}

	return &Session{
		id:        uuid.NewString(),
		answer:    answer,
		maxRounds: maxRounds,
		vocab:     cfg.Vocab,
		rounds:    []Round{},
		letters:   newLetterBoard(),
	}, nil
}

// Restore rebuilds a session from a persisted snapshot by replaying the
// guess history against the stored answer. Replay bypasses the vocabulary
// check: the guesses were valid when accepted, and the configured word list
// may have changed since.
func Restore(vocab *words.List, st State) (*Session, error) {
	if st.ID == "" || len(st.Answer) != WordLength || !isAlpha(st.Answer) {
		return nil, fmt.Errorf("%w: corrupt session state", ErrConfig)
	}
	if st.MaxRounds < MinRounds || st.MaxRounds > MaxRoundsLimit {
		return nil, fmt.Errorf("%w: max rounds must be %d-%d", ErrConfig, MinRounds, MaxRoundsLimit)
	}
	s := &Session{
		id:        st.ID,
		answer:    st.Answer,
		maxRounds: st.MaxRounds,
		vocab:     vocab,
		rounds:    make([]Round, 0, len(st.Guesses)),
		letters:   newLetterBoard(),
	}
	for _, g := range st.Guesses {
		if len(g) != WordLength || !isAlpha(g) {
			return nil, fmt.Errorf("%w: corrupt guess %q", ErrConfig, g)
		}
		s.apply(g)
	}
	// A room may have terminated the game early; the replay cannot recover
	// that, so trust the persisted flag.
	if st.Over {
		s.over = true
	}
	return s, nil
}

// ID returns the session identifier. Immutable after creation.
func (s *Session) ID() string { return s.id }

// SubmitGuess validates and applies one guess, returning the updated
// projection. Application is all-or-nothing: on any error the session is
// untouched.
func (s *Session) SubmitGuess(word string) (Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return Projection{}, ErrGameOver
	}
	guess := strings.ToLower(strings.TrimSpace(word))
	if len(guess) != WordLength {
		return Projection{}, fmt.Errorf("%w: must be exactly %d letters", ErrInvalidGuess, WordLength)
	}
	if !isAlpha(guess) {
		return Projection{}, fmt.Errorf("%w: letters only", ErrInvalidGuess)
	}
	if !s.vocab.Contains(guess) {
		return Projection{}, fmt.Errorf("%w: not in word list", ErrInvalidGuess)
	}

	s.apply(guess)
	return s.projectionLocked(s.over), nil
}

// apply scores an already-validated guess and advances the state machine.
// Caller holds the lock (or has exclusive ownership during Restore).
func (s *Session) apply(guess string) {
	marks := Evaluate(guess, s.answer)
	s.rounds = append(s.rounds, Round{Word: guess, Marks: marks})
	applyMarks(s.letters, marks)

	if allHit(marks) {
		s.won = true
		s.over = true
	} else if len(s.rounds) >= s.maxRounds {
		s.over = true
	}
}

// Projection returns the client view; the answer appears only once the game
// is over.
func (s *Session) Projection() Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectionLocked(s.over)
}

// Redacted returns the client view with the answer unconditionally hidden.
// Rooms use it while the shared outcome is still undecided, since one
// player's board may finish before the room does.
func (s *Session) Redacted() Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectionLocked(false)
}

func (s *Session) projectionLocked(reveal bool) Projection {
	p := Projection{
		ID:           s.id,
		CurrentRound: len(s.rounds),
		MaxRounds:    s.maxRounds,
		Guesses:      make([]string, 0, len(s.rounds)),
		Results:      make([][]LetterMark, 0, len(s.rounds)),
		Letters:      copyLetterBoard(s.letters),
		Over:         s.over,
		Won:          s.won,
	}
	for _, r := range s.rounds {
		p.Guesses = append(p.Guesses, r.Word)
		p.Results = append(p.Results, append([]LetterMark{}, r.Marks...))
	}
	if reveal && s.over {
		p.Answer = s.answer
	}
	return p
}

// State returns the persistence snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:        s.id,
		Answer:    s.answer,
		MaxRounds: s.maxRounds,
		Guesses:   make([]string, 0, len(s.rounds)),
		Over:      s.over,
		Won:       s.won,
	}
	for _, r := range s.rounds {
		st.Guesses = append(st.Guesses, r.Word)
	}
	return st
}

// ForceOver terminates the game without a win. Used by rooms when the shared
// outcome is decided while this board still has rounds left. Idempotent.
func (s *Session) ForceOver() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.over = true
}

// Over reports whether the game has terminated.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Won reports whether the game was finished with a win.
func (s *Session) Won() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.won
}

// BestHits returns the highest hit count across all guesses so far. Rooms
// use it to break both-boards-exhausted outcomes.
func (s *Session) BestHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := 0
	for _, r := range s.rounds {
		if n := hitCount(r.Marks); n > best {
			best = n
		}
	}
	return best
}

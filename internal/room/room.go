// internal/room/room.go
//
// Two-player competitive room: two game sessions bound to one shared hidden
// answer, plus the joint outcome state machine.
//
// Lifecycle: waiting (0-1 players) → active (second player joined, both
// boards created against the same answer) → finished (terminal). The room
// finishes on the first of:
//   (a) a player guesses the answer — immediate win, even if the opponent
//       still has rounds left;
//   (b) both boards run out of rounds without a win — the higher best-guess
//       hit count wins, equal counts draw;
//   (c) a player leaves an active room — forfeit, the opponent wins.
//
// All room state sits behind one mutex and every read returns a copy, so
// pollers always observe a fully-applied snapshot. Answers stay hidden in
// room projections until the room is finished, even for a board that has
// already exhausted its rounds.

package room

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wordduel/server/internal/game"
)

// Status is the room lifecycle state.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Outcome identifies the winner once a room is finished.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomePlayerA Outcome = "player_a"
	OutcomePlayerB Outcome = "player_b"
	OutcomeDraw    Outcome = "draw"
)

var (
	// ErrRoomFull is returned when both seats are taken.
	ErrRoomFull = errors.New("room is full")
	// ErrAlreadyJoined is returned when a player joins a room twice.
	ErrAlreadyJoined = errors.New("already in room")
	// ErrNotActive is returned for guesses against a room still waiting for
	// its second player.
	ErrNotActive = errors.New("room not active")
	// ErrNotPlayer is returned when the named player has no seat in the room.
	ErrNotPlayer = errors.New("not a player in this room")
	// ErrBadPlayer is returned for an empty player name.
	ErrBadPlayer = errors.New("invalid player name")
)

// Room is a paired set of two sessions sharing one answer. Create with New.
type Room struct {
	mu       sync.Mutex
	id       string
	cfg      game.Config
	status   Status
	winner   Outcome
	players  [2]string
	sessions [2]*game.Session
}

// PlayerView is one player's slice of the room projection.
type PlayerView struct {
	Name string `json:"name"`
	// Board is nil until the room activates.
	Board *game.Projection `json:"board,omitempty"`
}

// Projection is the read-only view of a room. Boards hide their answers
// until the room is finished.
type Projection struct {
	ID         string       `json:"id"`
	Status     Status       `json:"status"`
	Winner     Outcome      `json:"winner,omitempty"`
	WinnerName string       `json:"winnerName,omitempty"`
	Players    []PlayerView `json:"players"`
}

// Summary is the compact lobby listing for a room.
type Summary struct {
	ID      string   `json:"id"`
	Status  Status   `json:"status"`
	Players []string `json:"players"`
}

// New validates the base config and constructs an empty waiting room.
// Sessions are not created until the second player joins.
func New(cfg game.Config) (*Room, error) {
	if cfg.Vocab == nil {
		return nil, fmt.Errorf("%w: no word list", game.ErrConfig)
	}
	if n, _ := cfg.Vocab.Stats(); n == 0 {
		return nil, fmt.Errorf("%w: empty word list", game.ErrConfig)
	}
	if cfg.MaxRounds != 0 && (cfg.MaxRounds < game.MinRounds || cfg.MaxRounds > game.MaxRoundsLimit) {
		return nil, fmt.Errorf("%w: max rounds must be %d-%d", game.ErrConfig, game.MinRounds, game.MaxRoundsLimit)
	}
	cfg.Answer = ""
	return &Room{
		id:     uuid.NewString(),
		cfg:    cfg,
		status: StatusWaiting,
	}, nil
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Join seats a player. When the second seat fills, one answer is drawn and
// both boards are created against it, and the room activates.
func (r *Room) Join(player string) (Projection, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return Projection{}, ErrBadPlayer
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusFinished {
		return Projection{}, game.ErrGameOver
	}
	if r.seatOf(player) >= 0 {
		return Projection{}, ErrAlreadyJoined
	}
	seat := -1
	for i := range r.players {
		if r.players[i] == "" {
			seat = i
			break
		}
	}
	if seat < 0 {
		return Projection{}, ErrRoomFull
	}
	r.players[seat] = player

	if r.players[0] != "" && r.players[1] != "" {
		cfg := r.cfg
		cfg.Answer = r.cfg.Vocab.Random()
		for i := range r.sessions {
			s, err := game.New(cfg)
			if err != nil {
				// cfg was validated in New; roll the seat back so the room
				// is not left half-activated.
				r.players[seat] = ""
				return Projection{}, err
			}
			r.sessions[i] = s
		}
		r.status = StatusActive
	}
	return r.projectionLocked(), nil
}

// Leave removes a player. Leaving a waiting room frees the seat; leaving an
// active room forfeits it and the opponent wins. Leaving a finished room is
// a no-op so post-game cleanup calls are idempotent.
func (r *Room) Leave(player string) (Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.seatOf(strings.TrimSpace(player))
	if seat < 0 {
		return Projection{}, ErrNotPlayer
	}
	switch r.status {
	case StatusWaiting:
		r.players[seat] = ""
	case StatusActive:
		r.finishLocked(seatOutcome(1 - seat))
	case StatusFinished:
		// no-op
	}
	return r.projectionLocked(), nil
}

// SubmitGuess applies one guess to the named player's board and re-evaluates
// the shared outcome.
func (r *Room) SubmitGuess(player, word string) (Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.seatOf(strings.TrimSpace(player))
	if seat < 0 {
		return Projection{}, ErrNotPlayer
	}
	switch r.status {
	case StatusWaiting:
		return Projection{}, ErrNotActive
	case StatusFinished:
		return Projection{}, game.ErrGameOver
	}

	if _, err := r.sessions[seat].SubmitGuess(word); err != nil {
		return Projection{}, err
	}

	if r.sessions[seat].Won() {
		r.finishLocked(seatOutcome(seat))
	} else if r.sessions[0].Over() && r.sessions[1].Over() {
		a, b := r.sessions[0].BestHits(), r.sessions[1].BestHits()
		switch {
		case a > b:
			r.finishLocked(OutcomePlayerA)
		case b > a:
			r.finishLocked(OutcomePlayerB)
		default:
			r.finishLocked(OutcomeDraw)
		}
	}
	return r.projectionLocked(), nil
}

// Projection returns a consistent snapshot of the room for pollers.
func (r *Room) Projection() Projection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projectionLocked()
}

// Summarize returns the compact lobby view.
func (r *Room) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Summary{ID: r.id, Status: r.status, Players: []string{}}
	for _, p := range r.players {
		if p != "" {
			s.Players = append(s.Players, p)
		}
	}
	return s
}

// Abandoned reports whether the room holds no players, so registries can
// collect it.
func (r *Room) Abandoned() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players[0] == "" && r.players[1] == ""
}

// Finished reports whether the room reached its terminal state.
func (r *Room) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status == StatusFinished
}

// finishLocked transitions to finished exactly once and terminates any board
// that still has rounds left, which both rejects further guesses and lets
// projections reveal the answer.
func (r *Room) finishLocked(w Outcome) {
	if r.status == StatusFinished {
		return
	}
	r.status = StatusFinished
	r.winner = w
	for _, s := range r.sessions {
		if s != nil {
			s.ForceOver()
		}
	}
}

func (r *Room) projectionLocked() Projection {
	p := Projection{
		ID:      r.id,
		Status:  r.status,
		Winner:  r.winner,
		Players: []PlayerView{},
	}
	for i, name := range r.players {
		if name == "" {
			continue
		}
		pv := PlayerView{Name: name}
		if r.sessions[i] != nil {
			var board game.Projection
			if r.status == StatusFinished {
				board = r.sessions[i].Projection()
			} else {
				board = r.sessions[i].Redacted()
			}
			pv.Board = &board
		}
		p.Players = append(p.Players, pv)
	}
	switch r.winner {
	case OutcomePlayerA:
		p.WinnerName = r.players[0]
	case OutcomePlayerB:
		p.WinnerName = r.players[1]
	}
	return p
}

func (r *Room) seatOf(player string) int {
	for i, p := range r.players {
		if p != "" && p == player {
			return i
		}
	}
	return -1
}

func seatOutcome(seat int) Outcome {
	if seat == 0 {
		return OutcomePlayerA
	}
	return OutcomePlayerB
}

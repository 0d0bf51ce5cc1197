// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Mark: per-letter result of a guess (hit/present/miss/unused).
//   - LetterMark: a guessed letter paired with its Mark.
//   - Round: one accepted guess and its evaluation.

package game

// WordLength is the fixed length of every answer and guess.
const WordLength = 5

// Round limits. MaxRounds for a session must fall inside [MinRounds, MaxRoundsLimit].
const (
	MinRounds        = 1
	MaxRoundsLimit   = 20
	DefaultMaxRounds = 6
)

// Mark represents the evaluation result for a single letter.
// Possible values:
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the answer but in a different position.
//   - "miss":    letter does not occur among the answer's unconsumed letters.
//   - "unused":  letter has not appeared in any guess yet (letter board only).
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
	MarkUnused  Mark = "unused"
)

// rank orders marks on the priority lattice unused < miss < present < hit.
// The letter board only ever moves up this order.
func rank(m Mark) int {
	switch m {
	case MarkHit:
		return 3
	case MarkPresent:
		return 2
	case MarkMiss:
		return 1
	default:
		return 0
	}
}

// LetterMark is one tile of an evaluated guess.
type LetterMark struct {
	Letter string `json:"letter"`
	Mark   Mark   `json:"mark"`
}

// Round records one accepted guess together with its evaluation.
type Round struct {
	Word  string       `json:"word"`
	Marks []LetterMark `json:"marks"`
}

// internal/game/errors.go
//
// Error taxonomy for the engine. Callers branch with errors.Is; details are
// attached by wrapping with %w at the point of failure. No error leaves a
// session partially updated.

package game

import "errors"

var (
	// ErrConfig marks a rejected session configuration (bad word list or
	// round bound). Construction fails atomically.
	ErrConfig = errors.New("invalid game config")

	// ErrInvalidGuess marks a malformed or out-of-vocabulary guess.
	// Session state is unchanged; retrying the same input fails the same way.
	ErrInvalidGuess = errors.New("invalid guess")

	// ErrGameOver marks a mutation attempted on a finished game.
	ErrGameOver = errors.New("game over")
)

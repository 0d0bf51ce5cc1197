// internal/game/letters.go
//
// Letter board: the per-letter best-ever status used for keyboard
// highlighting. Statuses only move up the unused < miss < present < hit
// order; a later miss for a letter already marked hit is ignored.

package game

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// newLetterBoard returns a board with every letter unused.
func newLetterBoard() map[string]Mark {
	b := make(map[string]Mark, len(alphabet))
	for _, r := range alphabet {
		b[string(r)] = MarkUnused
	}
	return b
}

// applyMarks folds an evaluation into the board, keeping the higher-ranked
// mark per letter.
func applyMarks(board map[string]Mark, marks []LetterMark) {
	for _, lm := range marks {
		if rank(lm.Mark) > rank(board[lm.Letter]) {
			board[lm.Letter] = lm.Mark
		}
	}
}

// copyLetterBoard returns an independent copy for projections.
func copyLetterBoard(board map[string]Mark) map[string]Mark {
	out := make(map[string]Mark, len(board))
	for k, v := range board {
		out[k] = v
	}
	return out
}

// internal/game/evaluate.go
//
// Guess evaluation: the classic two-pass scoring algorithm.
// Pure function of (guess, answer); no session state involved.

package game

// Evaluate scores a guess against an answer and returns one LetterMark per
// position.
//
// Pass 1:
//   - Mark exact matches as hit.
//   - Count remaining (non-hit) answer letters by letter index.
//
// Pass 2:
//   - For each non-hit guess letter: if there is remaining count for that
//     letter, mark present and decrement the count; otherwise mark miss.
//
// Counting the leftover answer letters guarantees that a letter repeated in
// the guess is marked present/hit no more times than it occurs in the answer.
// Both inputs are assumed pre-validated to WordLength lowercase a-z.
func Evaluate(guess, answer string) []LetterMark {
	n := len(guess)
	res := make([]LetterMark, n)

	// Letter frequency for the non-hit answer positions (a-z).
	var counts [26]int

	for i := 0; i < n; i++ {
		res[i].Letter = string(guess[i])
		if guess[i] == answer[i] {
			res[i].Mark = MarkHit
		} else {
			counts[idx(rune(answer[i]))]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i].Mark == MarkHit {
			continue
		}
		j := idx(rune(guess[i]))
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i].Mark = MarkPresent
			counts[j]--
		} else {
			res[i].Mark = MarkMiss
		}
	}
	return res
}

// allHit returns true if every mark is a hit.
func allHit(marks []LetterMark) bool {
	for _, m := range marks {
		if m.Mark != MarkHit {
			return false
		}
	}
	return true
}

// hitCount returns the number of hit marks in an evaluation.
func hitCount(marks []LetterMark) int {
	n := 0
	for _, m := range marks {
		if m.Mark == MarkHit {
			n++
		}
	}
	return n
}

// idx maps a lowercase ASCII letter rune to 0..25.
func idx(r rune) int { return int(r - 'a') }

// isAlpha checks that a string consists only of lowercase a-z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

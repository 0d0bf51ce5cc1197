// internal/words/words.go
//
// Word list configuration for the game engine.
//
// Responsibilities:
//   - Load answer and allowed guess lists from environment-provided files or
//     fall back to embedded defaults.
//   - Validate and normalize entries (exactly 5 lowercase a-z letters).
//   - Supply lookups used at session creation and guess validation time.
//
// Word lists:
//   - "answers": candidate solutions.
//   - "allowed": valid guesses (always includes answers).
//
// Environment variables:
//   WORDS_ANSWERS_FILE=/path/to/answers.txt
//   WORDS_ALLOWED_FILE=/path/to/allowed.txt
//
// A List is an immutable value handed to the registries at startup; there is
// no package-level state.

package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"
)

// WordLength is the fixed length of every entry.
const WordLength = 5

//go:embed default_answers.txt
var embeddedAnswers string

//go:embed default_allowed.txt
var embeddedAllowed string

// List is a validated word list: candidate answers plus the full guess
// vocabulary (answers ∪ allowed).
type List struct {
	answers []string
	allowed map[string]struct{}
}

// New builds a List from raw answer and extra-guess slices.
// Entries are trimmed and lowercased; every entry must be exactly WordLength
// ASCII letters. An empty answers list is an error.
func New(answers, allowed []string) (*List, error) {
	ans, err := normalize(answers)
	if err != nil {
		return nil, err
	}
	if len(ans) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	extra, err := normalize(allowed)
	if err != nil {
		return nil, err
	}

	set := lo.SliceToMap(append(append([]string{}, ans...), extra...), func(w string) (string, struct{}) {
		return w, struct{}{}
	})
	return &List{answers: lo.Uniq(ans), allowed: set}, nil
}

// Load builds a List from the configured files, or from the embedded
// defaults when neither env var is set. When only the allowed file is set it
// serves as both lists.
func Load() (*List, error) {
	answersPath := os.Getenv("WORDS_ANSWERS_FILE")
	allowedPath := os.Getenv("WORDS_ALLOWED_FILE")

	switch {
	case answersPath != "" && allowedPath != "":
		ans, err := readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		allow, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(ans, allow)

	case answersPath == "" && allowedPath != "":
		allow, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(allow, nil)

	default:
		return New(splitLines(embeddedAnswers), splitLines(embeddedAllowed))
	}
}

// Random returns a cryptographically random answer.
func (l *List) Random() string {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	if err != nil {
		// rand.Reader failing is effectively unreachable; fall back to the
		// first answer rather than panic mid-request.
		return l.answers[0]
	}
	return l.answers[nBig.Int64()]
}

// Contains reports whether w is a valid guess (answers ∪ allowed).
func (l *List) Contains(w string) bool {
	_, ok := l.allowed[strings.ToLower(w)]
	return ok
}

// Answers returns a copy of the candidate answer list.
func (l *List) Answers() []string {
	return append([]string{}, l.answers...)
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount, allowedCount int) {
	return len(l.answers), len(l.allowed)
}

// normalize trims, lowercases and validates each entry.
func normalize(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		w := strings.TrimSpace(strings.ToLower(raw))
		if w == "" {
			continue
		}
		if len(w) != WordLength || !isAlpha(w) {
			return nil, fmt.Errorf("words: invalid entry %q", raw)
		}
		out = append(out, w)
	}
	return out, nil
}

// readWordFile loads one word per line from a file; blank lines and
// #-comments are skipped. Validation happens in New.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func splitLines(s string) []string {
	return lo.Filter(strings.Split(s, "\n"), func(line string, _ int) bool {
		t := strings.TrimSpace(line)
		return t != "" && !strings.HasPrefix(t, "#")
	})
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

package game

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/wordduel/server/internal/words"
)

func testVocab(t *testing.T) *words.List {
	t.Helper()
	l, err := words.New(
		[]string{"light", "about", "field", "zesty", "crane", "again", "brain",
			"chair", "dance", "early", "heart", "round", "toast"},
		[]string{"digit", "arose"},
	)
	if err != nil {
		t.Fatalf("build word list: %v", err)
	}
	return l
}

func TestNewValidation(t *testing.T) {
	vocab := testVocab(t)

	cases := []struct {
		name string
		cfg  Config
	}{
		{"nil vocab", Config{}},
		{"max rounds too small", Config{Vocab: vocab, MaxRounds: -1}},
		{"max rounds too large", Config{Vocab: vocab, MaxRounds: MaxRoundsLimit + 1}},
		{"fixed answer wrong length", Config{Vocab: vocab, Answer: "tool"}},
		{"fixed answer not letters", Config{Vocab: vocab, Answer: "lig1t"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); !errors.Is(err, ErrConfig) {
				t.Errorf("New() err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t)})
	if err != nil {
		t.Fatal(err)
	}
	p := s.Projection()
	if p.MaxRounds != DefaultMaxRounds {
		t.Errorf("MaxRounds = %d, want %d", p.MaxRounds, DefaultMaxRounds)
	}
	if p.CurrentRound != 0 || p.Over || p.Won || p.Answer != "" {
		t.Errorf("fresh projection not pristine: %+v", p)
	}
	if s.ID() == "" {
		t.Error("session has no id")
	}
}

func TestSubmitGuessValidation(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t), Answer: "light"})
	if err != nil {
		t.Fatal(err)
	}

	for _, guess := range []string{"", "abc", "toolong", "lig1t", "qqqqq"} {
		if _, err := s.SubmitGuess(guess); !errors.Is(err, ErrInvalidGuess) {
			t.Errorf("SubmitGuess(%q) err = %v, want ErrInvalidGuess", guess, err)
		}
	}
	// rejected guesses consume no rounds
	if p := s.Projection(); p.CurrentRound != 0 {
		t.Errorf("CurrentRound = %d after rejected guesses, want 0", p.CurrentRound)
	}
}

func TestSubmitGuessNormalizes(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t), Answer: "light"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.SubmitGuess("  LiGhT ")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Won || !p.Over {
		t.Errorf("normalized winning guess not counted: %+v", p)
	}
	if p.Guesses[0] != "light" {
		t.Errorf("stored guess %q, want lowercased", p.Guesses[0])
	}
}

func TestWinFlow(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t), Answer: "light"})
	if err != nil {
		t.Fatal(err)
	}

	p, err := s.SubmitGuess("digit")
	if err != nil {
		t.Fatal(err)
	}
	if p.Over || p.Won || p.Answer != "" {
		t.Errorf("answer leaked or game ended early: %+v", p)
	}
	if p.CurrentRound != 1 {
		t.Errorf("CurrentRound = %d, want 1", p.CurrentRound)
	}

	p, err = s.SubmitGuess("light")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Won || !p.Over {
		t.Errorf("winning guess did not finish the game: %+v", p)
	}
	if p.Answer != "light" {
		t.Errorf("Answer = %q after win, want revealed", p.Answer)
	}

	if _, err := s.SubmitGuess("about"); !errors.Is(err, ErrGameOver) {
		t.Errorf("guess after win err = %v, want ErrGameOver", err)
	}
}

func TestLossRevealsAnswer(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t), Answer: "light", MaxRounds: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess("about"); err != nil {
		t.Fatal(err)
	}
	p, err := s.SubmitGuess("field")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Over || p.Won {
		t.Errorf("exhausted game should be over and lost: %+v", p)
	}
	if p.Answer != "light" {
		t.Errorf("Answer = %q after loss, want revealed", p.Answer)
	}
}

func TestRedactedNeverRevealsAnswer(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t), Answer: "light", MaxRounds: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess("about"); err != nil {
		t.Fatal(err)
	}
	if !s.Over() {
		t.Fatal("game should be over")
	}
	if p := s.Redacted(); p.Answer != "" {
		t.Errorf("Redacted leaked answer %q", p.Answer)
	}
	if p := s.Projection(); p.Answer != "light" {
		t.Errorf("Projection Answer = %q, want revealed after game over", p.Answer)
	}
}

func TestForceOver(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t), Answer: "light"})
	if err != nil {
		t.Fatal(err)
	}
	s.ForceOver()
	s.ForceOver() // idempotent
	if !s.Over() || s.Won() {
		t.Error("ForceOver should end the game without a win")
	}
	if _, err := s.SubmitGuess("about"); !errors.Is(err, ErrGameOver) {
		t.Errorf("guess after ForceOver err = %v, want ErrGameOver", err)
	}
}

func TestBestHits(t *testing.T) {
	s, err := New(Config{Vocab: testVocab(t), Answer: "light"})
	if err != nil {
		t.Fatal(err)
	}
	if n := s.BestHits(); n != 0 {
		t.Fatalf("BestHits = %d before any guess, want 0", n)
	}
	if _, err := s.SubmitGuess("about"); err != nil { // 0 hits
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess("digit"); err != nil { // 3 hits
		t.Fatal(err)
	}
	if n := s.BestHits(); n != 3 {
		t.Errorf("BestHits = %d, want 3", n)
	}
}

func TestConcurrentGuessesAdvanceOncePerCall(t *testing.T) {
	guesses := []string{"about", "field", "crane", "again", "brain",
		"chair", "dance", "early", "heart", "round"}
	s, err := New(Config{Vocab: testVocab(t), Answer: "zesty", MaxRounds: MaxRoundsLimit})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for _, g := range guesses {
		wg.Add(1)
		go func(word string) {
			defer wg.Done()
			if _, err := s.SubmitGuess(word); err != nil {
				t.Errorf("SubmitGuess(%q): %v", word, err)
			}
		}(g)
	}
	wg.Wait()

	p := s.Projection()
	if p.CurrentRound != len(guesses) {
		t.Errorf("CurrentRound = %d, want %d", p.CurrentRound, len(guesses))
	}
	if len(p.Guesses) != len(p.Results) {
		t.Errorf("guesses/results out of sync: %d vs %d", len(p.Guesses), len(p.Results))
	}
}

func TestRestoreReplaysHistory(t *testing.T) {
	vocab := testVocab(t)
	s, err := New(Config{Vocab: vocab, Answer: "light"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess("about"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess("digit"); err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(vocab, s.State())
	if err != nil {
		t.Fatal(err)
	}

	got, want := restored.Projection(), s.Projection()
	if got.ID != want.ID || got.CurrentRound != want.CurrentRound ||
		got.Over != want.Over || got.Won != want.Won {
		t.Errorf("restored projection differs:\n got %+v\nwant %+v", got, want)
	}
	if fmt.Sprint(got.Results) != fmt.Sprint(want.Results) {
		t.Errorf("restored results differ:\n got %v\nwant %v", got.Results, want.Results)
	}
	if fmt.Sprint(got.Letters) != fmt.Sprint(want.Letters) {
		t.Errorf("restored letter board differs:\n got %v\nwant %v", got.Letters, want.Letters)
	}
}

func TestRestoreKeepsForcedOver(t *testing.T) {
	vocab := testVocab(t)
	s, err := New(Config{Vocab: vocab, Answer: "light"})
	if err != nil {
		t.Fatal(err)
	}
	s.ForceOver()

	restored, err := Restore(vocab, s.State())
	if err != nil {
		t.Fatal(err)
	}
	if !restored.Over() {
		t.Error("restored session lost its forced-over flag")
	}
}

func TestRestoreRejectsCorruptState(t *testing.T) {
	vocab := testVocab(t)
	cases := []struct {
		name string
		st   State
	}{
		{"empty id", State{Answer: "light", MaxRounds: 6}},
		{"bad answer", State{ID: "x", Answer: "hi", MaxRounds: 6}},
		{"bad rounds", State{ID: "x", Answer: "light", MaxRounds: 99}},
		{"bad guess", State{ID: "x", Answer: "light", MaxRounds: 6, Guesses: []string{"zz"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Restore(vocab, tc.st); !errors.Is(err, ErrConfig) {
				t.Errorf("Restore err = %v, want ErrConfig", err)
			}
		})
	}
}

package game

import "testing"

func marksOf(res []LetterMark) []Mark {
	out := make([]Mark, len(res))
	for i, lm := range res {
		out[i] = lm.Mark
	}
	return out
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		guess  string
		answer string
		want   []Mark
	}{
		{
			name:   "all hits",
			guess:  "again",
			answer: "again",
			want:   []Mark{MarkHit, MarkHit, MarkHit, MarkHit, MarkHit},
		},
		{
			name:   "no overlap",
			guess:  "about",
			answer: "field",
			want:   []Mark{MarkMiss, MarkMiss, MarkMiss, MarkMiss, MarkMiss},
		},
		{
			name:   "mixed hits and presents",
			guess:  "digit",
			answer: "light",
			want:   []Mark{MarkMiss, MarkHit, MarkHit, MarkMiss, MarkHit},
		},
		{
			name:   "repeated guess letter consumed by hit",
			guess:  "toast",
			answer: "about",
			// only one t in the answer and the positional match claims it,
			// so the leading t scores miss
			want: []Mark{MarkMiss, MarkPresent, MarkPresent, MarkMiss, MarkHit},
		},
		{
			name:   "present capped at answer occurrences",
			guess:  "arose",
			answer: "crane",
			want:   []Mark{MarkPresent, MarkHit, MarkMiss, MarkMiss, MarkHit},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Evaluate(tc.guess, tc.answer)
			if len(res) != WordLength {
				t.Fatalf("got %d marks, want %d", len(res), WordLength)
			}
			got := marksOf(res)
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("pos %d: got %s, want %s (guess=%s answer=%s)",
						i, got[i], tc.want[i], tc.guess, tc.answer)
				}
			}
			for i, lm := range res {
				if lm.Letter != string(tc.guess[i]) {
					t.Errorf("pos %d: letter %q, want %q", i, lm.Letter, string(tc.guess[i]))
				}
			}
		})
	}
}

func TestEvaluateSelfIsAllHits(t *testing.T) {
	for _, w := range []string{"about", "light", "zesty", "crane"} {
		if !allHit(Evaluate(w, w)) {
			t.Errorf("Evaluate(%q, %q) should be all hits", w, w)
		}
	}
}

func TestHitCount(t *testing.T) {
	if n := hitCount(Evaluate("digit", "light")); n != 3 {
		t.Errorf("hitCount = %d, want 3", n)
	}
	if n := hitCount(Evaluate("about", "field")); n != 0 {
		t.Errorf("hitCount = %d, want 0", n)
	}
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordduel/server/internal/game"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	st := game.State{
		ID:        "g1",
		Answer:    "light",
		MaxRounds: 6,
		Guesses:   []string{"about", "digit"},
	}
	require.NoError(t, s.Save(ctx, st))

	got, err := s.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, st, got)

	// save again overwrites
	st.Guesses = append(st.Guesses, "light")
	st.Over, st.Won = true, true
	require.NoError(t, s.Save(ctx, st))
	got, err = s.Load(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, got.Won)
	assert.Len(t, got.Guesses, 3)
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "missing"), ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, game.State{ID: "g1", Answer: "light", MaxRounds: 6}))
	require.NoError(t, s.Delete(ctx, "g1"))

	_, err := s.Load(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

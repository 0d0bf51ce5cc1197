package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordduel/server/internal/game"
	"github.com/wordduel/server/internal/words"
)

// testConfig pins the room answer by giving the vocabulary a single
// candidate, so outcomes are deterministic.
func testConfig(t *testing.T, maxRounds int) game.Config {
	t.Helper()
	l, err := words.New([]string{"light"}, []string{"digit", "about", "field", "arose"})
	require.NoError(t, err)
	return game.Config{Vocab: l, MaxRounds: maxRounds}
}

func activeRoom(t *testing.T, maxRounds int) *Room {
	t.Helper()
	r, err := New(testConfig(t, maxRounds))
	require.NoError(t, err)
	_, err = r.Join("alice")
	require.NoError(t, err)
	p, err := r.Join("bob")
	require.NoError(t, err)
	require.Equal(t, StatusActive, p.Status)
	return r
}

func TestNewValidation(t *testing.T) {
	_, err := New(game.Config{})
	assert.ErrorIs(t, err, game.ErrConfig)

	cfg := testConfig(t, 0)
	cfg.MaxRounds = game.MaxRoundsLimit + 1
	_, err = New(cfg)
	assert.ErrorIs(t, err, game.ErrConfig)
}

func TestJoinLifecycle(t *testing.T) {
	r, err := New(testConfig(t, 0))
	require.NoError(t, err)

	p, err := r.Join("alice")
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, p.Status)
	require.Len(t, p.Players, 1)
	assert.Nil(t, p.Players[0].Board, "no board before activation")

	_, err = r.Join("alice")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = r.Join("  ")
	assert.ErrorIs(t, err, ErrBadPlayer)

	p, err = r.Join("bob")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, p.Status)
	require.Len(t, p.Players, 2)
	for _, pv := range p.Players {
		require.NotNil(t, pv.Board)
		assert.Empty(t, pv.Board.Answer, "answer must stay hidden while active")
	}

	_, err = r.Join("carol")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestGuessBeforeActive(t *testing.T) {
	r, err := New(testConfig(t, 0))
	require.NoError(t, err)
	_, err = r.Join("alice")
	require.NoError(t, err)

	_, err = r.SubmitGuess("alice", "digit")
	assert.ErrorIs(t, err, ErrNotActive)

	_, err = r.SubmitGuess("nobody", "digit")
	assert.ErrorIs(t, err, ErrNotPlayer)
}

func TestImmediateWin(t *testing.T) {
	r := activeRoom(t, 0)

	p, err := r.SubmitGuess("alice", "light")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, p.Status)
	assert.Equal(t, OutcomePlayerA, p.Winner)
	assert.Equal(t, "alice", p.WinnerName)

	// both boards now reveal the answer
	for _, pv := range p.Players {
		require.NotNil(t, pv.Board)
		assert.Equal(t, "light", pv.Board.Answer)
		assert.True(t, pv.Board.Over)
	}

	// the loser cannot keep guessing
	_, err = r.SubmitGuess("bob", "digit")
	assert.ErrorIs(t, err, game.ErrGameOver)
}

func TestBestHitsWinner(t *testing.T) {
	r := activeRoom(t, 1)

	// alice exhausts her single round with 3 hits
	p, err := r.SubmitGuess("alice", "digit")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, p.Status, "room stays active until both boards finish")
	for _, pv := range p.Players {
		assert.Empty(t, pv.Board.Answer, "answer hidden even for an exhausted board")
	}

	// bob exhausts his with 0 hits
	p, err = r.SubmitGuess("bob", "about")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, p.Status)
	assert.Equal(t, OutcomePlayerA, p.Winner)
	assert.Equal(t, "alice", p.WinnerName)
}

func TestDraw(t *testing.T) {
	r := activeRoom(t, 1)

	_, err := r.SubmitGuess("alice", "digit")
	require.NoError(t, err)
	p, err := r.SubmitGuess("bob", "digit")
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, p.Status)
	assert.Equal(t, OutcomeDraw, p.Winner)
	assert.Empty(t, p.WinnerName)
}

func TestLeaveWaitingFreesSeat(t *testing.T) {
	r, err := New(testConfig(t, 0))
	require.NoError(t, err)
	_, err = r.Join("alice")
	require.NoError(t, err)

	p, err := r.Leave("alice")
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, p.Status)
	assert.Empty(t, p.Players)
	assert.True(t, r.Abandoned())

	// seat is reusable
	_, err = r.Join("carol")
	require.NoError(t, err)
}

func TestLeaveActiveForfeits(t *testing.T) {
	r := activeRoom(t, 0)

	p, err := r.Leave("alice")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, p.Status)
	assert.Equal(t, OutcomePlayerB, p.Winner)
	assert.Equal(t, "bob", p.WinnerName)
	assert.True(t, r.Finished())
}

func TestLeaveFinishedIsNoop(t *testing.T) {
	r := activeRoom(t, 0)
	_, err := r.SubmitGuess("bob", "light")
	require.NoError(t, err)

	p, err := r.Leave("alice")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, p.Status)
	assert.Equal(t, OutcomePlayerB, p.Winner, "post-game leave must not change the outcome")

	_, err = r.Leave("nobody")
	assert.ErrorIs(t, err, ErrNotPlayer)
}

func TestInvalidGuessDoesNotAdvanceRoom(t *testing.T) {
	r := activeRoom(t, 0)

	_, err := r.SubmitGuess("alice", "zzzzz")
	assert.ErrorIs(t, err, game.ErrInvalidGuess)

	p := r.Projection()
	assert.Equal(t, StatusActive, p.Status)
	for _, pv := range p.Players {
		assert.Equal(t, 0, pv.Board.CurrentRound)
	}
}

func TestSummarize(t *testing.T) {
	r, err := New(testConfig(t, 0))
	require.NoError(t, err)
	_, err = r.Join("alice")
	require.NoError(t, err)

	s := r.Summarize()
	assert.Equal(t, r.ID(), s.ID)
	assert.Equal(t, StatusWaiting, s.Status)
	assert.Equal(t, []string{"alice"}, s.Players)
}

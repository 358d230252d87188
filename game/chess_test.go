package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"

// foolsMate plays 1.f3 e5 2.g4 Qh4#.
func foolsMate(t *testing.T) *Chess {
	t.Helper()
	var state State = NewChess()
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		move, err := state.(*Chess).ParseMove(uci)
		require.NoError(t, err)
		state = state.Play(move)
	}
	return state.(*Chess)
}

func TestChessStartingPosition(t *testing.T) {
	state := NewChess()

	require.Len(t, state.LegalMoves(), 20, "Starting position should have 20 legal moves")
	require.False(t, state.IsGameOver())
	require.False(t, state.IsCheckmate())
}

func TestChessPlay(t *testing.T) {
	t.Run("playing a move leaves the receiver untouched", func(t *testing.T) {
		state := NewChess()
		before := state.String()

		next := state.Play(state.LegalMoves()[0])

		require.Equal(t, before, state.String(), "Play should not mutate the original state")
		require.NotEqual(t, before, next.String(), "Play should return the successor position")
	})

	t.Run("applying the same move twice yields equal but distinct states", func(t *testing.T) {
		state := NewChess()
		for _, move := range state.LegalMoves() {
			first := state.Play(move)
			second := state.Play(move)

			require.True(t, first.Equal(second), "Same move should give equal successors")
			require.NotSame(t, first, second, "Successors should be distinct values")
			require.False(t, first.Equal(state), "Successor should differ from its parent")
		}
	})

	t.Run("move order is stable", func(t *testing.T) {
		state := NewChess()
		first := state.LegalMoves()
		second := state.LegalMoves()

		require.Equal(t, len(first), len(second))
		for i := range first {
			require.Equal(t, first[i].String(), second[i].String())
		}
	})

	t.Run("parsing a UCI move", func(t *testing.T) {
		state := NewChess()

		move, err := state.ParseMove("e2e4")
		require.NoError(t, err)
		next := state.Play(move).(*Chess)

		require.True(t, strings.HasPrefix(next.String(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq"),
			"Pawn should have moved to e4, got %s", next.String())
	})

	t.Run("rejecting a malformed move", func(t *testing.T) {
		_, err := NewChess().ParseMove("z9z9")
		require.Error(t, err)
	})
}

func TestChessTerminalPositions(t *testing.T) {
	t.Run("checkmate", func(t *testing.T) {
		state := foolsMate(t)

		require.True(t, state.IsGameOver())
		require.True(t, state.IsCheckmate())
		require.Empty(t, state.LegalMoves(), "Game over should expose no moves")
		require.Equal(t, "Checkmate", state.Termination())
	})

	t.Run("stalemate", func(t *testing.T) {
		state, err := ChessFromFEN(stalemateFEN)
		require.NoError(t, err)

		require.True(t, state.IsGameOver())
		require.False(t, state.IsCheckmate())
		require.Equal(t, "Stalemate", state.Termination())
	})

	t.Run("running game", func(t *testing.T) {
		require.Empty(t, NewChess().Termination())
	})

	t.Run("invalid fen", func(t *testing.T) {
		_, err := ChessFromFEN("not a position")
		require.Error(t, err)
	})
}

func TestChessEqual(t *testing.T) {
	a := NewChess()
	b := NewChess()

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(nil))
}

package agent

import (
	"context"
	"testing"

	"chessmcts/game"
	"chessmcts/searcher"

	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, state game.State, player int) *Agent {
	t.Helper()
	a, err := NewAgent(state, player, 20, searcher.Test, nil, searcher.WithSeed(uint64(player+1)), searcher.WithMetrics())
	require.NoError(t, err)
	return a
}

func play(t *testing.T, state game.State, uci ...string) game.State {
	t.Helper()
	for _, m := range uci {
		c := state.(*game.Chess)
		move, err := c.ParseMove(m)
		require.NoError(t, err)
		state = c.Play(move)
	}
	return state
}

func TestNewAgent(t *testing.T) {
	t.Run("rejects bad configuration", func(t *testing.T) {
		_, err := NewAgent(game.NewChess(), searcher.Maximizer, 0, searcher.Test, nil)
		require.ErrorIs(t, err, searcher.ErrConfiguration)
	})

	t.Run("anchors the tree at the given state", func(t *testing.T) {
		start := game.NewChess()
		a := newTestAgent(t, start, searcher.Minimizer)
		require.Equal(t, searcher.Minimizer, a.Player())
		require.True(t, a.Tree().RootState().Equal(start))
		require.Equal(t, searcher.Minimizer, a.Tree().RootPlayer())
	})
}

func TestMakeMove(t *testing.T) {
	start := game.NewChess()
	a := newTestAgent(t, start, searcher.Maximizer)

	next, err := a.MakeMove(context.Background(), start)
	require.NoError(t, err)
	require.True(t, a.Tree().RootState().Equal(next))

	decision := a.LastDecision()
	require.True(t, decision.State.Equal(start))
	require.Len(t, decision.Moves, 20)
	require.Len(t, decision.Policy, 20)
	require.Contains(t, decision.Moves, decision.Move)
	require.True(t, play(t, start, decision.Move).Equal(next))
	require.Equal(t, 20, decision.Metric.Episodes)

	sum := 0.0
	for _, p := range decision.Policy {
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestMakeMoveRebuildsStaleTree(t *testing.T) {
	start := game.NewChess()
	a := newTestAgent(t, start, searcher.Maximizer)
	elsewhere := play(t, start, "e2e4", "e7e5")

	next, err := a.MakeMove(context.Background(), elsewhere)
	require.NoError(t, err)
	require.True(t, a.LastDecision().State.Equal(elsewhere))
	require.True(t, a.LastDecision().Metric.IsTreeReset)
	require.True(t, a.Tree().RootState().Equal(next))
}

func TestMakeMoveGameOver(t *testing.T) {
	mate := play(t, game.NewChess(), "f2f3", "e7e5", "g2g4", "d8h4")
	a := newTestAgent(t, mate, searcher.Maximizer)

	_, err := a.MakeMove(context.Background(), mate)
	require.ErrorIs(t, err, searcher.ErrGameOver)
}

func TestUpdateTree(t *testing.T) {
	t.Run("follows a move on an unexpanded root", func(t *testing.T) {
		start := game.NewChess()
		a := newTestAgent(t, start, searcher.Minimizer)
		require.False(t, a.Tree().IsRootExpanded())

		next := play(t, start, "d2d4")
		a.UpdateTree(next)
		require.True(t, a.Tree().RootState().Equal(next))
		require.Equal(t, searcher.Maximizer, a.Tree().RootPlayer())
		require.Equal(t, "d2d4", a.Tree().RootMove())
	})

	t.Run("rebuilds on an unreachable state", func(t *testing.T) {
		start := game.NewChess()
		a := newTestAgent(t, start, searcher.Maximizer)

		far := play(t, start, "e2e4", "e7e5")
		a.UpdateTree(far)
		require.True(t, a.Tree().RootState().Equal(far))
		require.Equal(t, searcher.Minimizer, a.Tree().RootPlayer())
		require.Equal(t, 0, a.Tree().RootVisits())
	})
}

func TestLockStep(t *testing.T) {
	state := game.State(game.NewChess())
	agents := [2]*Agent{
		newTestAgent(t, state, searcher.Maximizer),
		newTestAgent(t, state, searcher.Minimizer),
	}

	for ply := 0; ply < 6; ply++ {
		mover := agents[ply%2]
		other := agents[1-ply%2]

		next, err := mover.MakeMove(context.Background(), state)
		require.NoError(t, err)
		other.UpdateTree(next)
		state = next

		require.True(t, mover.Tree().RootState().Equal(state))
		require.True(t, other.Tree().RootState().Equal(state))
		require.False(t, mover.LastDecision().Metric.IsTreeReset)
	}
}

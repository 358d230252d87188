package agent

import (
	"context"
	"errors"

	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher"

	"github.com/rs/zerolog/log"
)

// Decision is what an agent saw when it picked its last move.
type Decision struct {
	State  game.State // Position that was searched
	Move   string     // Move played from State
	Moves  []string   // Root moves in legal move order
	Policy []float64  // Visit share of each move
	Metric metrics.SearchMetric
}

// Agent plays one side of a game. It keeps a single search tree and moves its
// root along with the game so statistics carry over between turns.
type Agent struct {
	player int
	mcts   *searcher.MCTS
	last   Decision
}

// NewAgent anchors a tree at state with the root tagged as player. predictor may be nil.
func NewAgent(state game.State, player int, iterations int, mode searcher.Mode, predictor searcher.Predictor, options ...searcher.Option) (*Agent, error) {
	if predictor != nil {
		options = append(options, searcher.WithPredictor(predictor))
	}
	mcts, err := searcher.NewMCTS(state, player, iterations, mode, options...)
	if err != nil {
		return nil, err
	}
	return &Agent{player: player, mcts: mcts}, nil
}

func (a *Agent) Player() int {
	return a.player
}

// MakeMove searches from state, re-anchors the tree on the chosen move and returns it.
func (a *Agent) MakeMove(ctx context.Context, state game.State) (game.State, error) {
	if !a.mcts.RootState().Equal(state) {
		log.Warn().Msgf("player %d tree is anchored at %s, rebuilding at %s", a.player, a.mcts.RootState(), state)
		a.mcts.Reset(state, a.mcts.RootPlayer())
	}

	next, err := a.mcts.Search(ctx)
	if err != nil {
		return nil, err
	}

	moves, policy := a.mcts.Policy()
	a.last = Decision{
		State:  state,
		Moves:  moves,
		Policy: policy,
		Metric: a.mcts.Metric(),
	}

	a.reanchor(next)
	a.last.Move = a.mcts.RootMove()
	return next, nil
}

// UpdateTree follows the opponent's move. An unexpanded root is expanded first
// so the matching child exists.
func (a *Agent) UpdateTree(state game.State) {
	if !a.mcts.IsRootExpanded() {
		a.mcts.ExpandRoot()
	}
	a.reanchor(state)
}

func (a *Agent) reanchor(state game.State) {
	err := a.mcts.NewRoot(state)
	if err == nil {
		return
	}
	if !errors.Is(err, searcher.ErrTreeDesync) {
		panic(err)
	}
	log.Warn().Err(err).Msgf("player %d could not re-anchor its tree, starting a new one", a.player)
	a.mcts.Reset(state, 1-a.mcts.RootPlayer())
}

// LastDecision returns the decision of the most recent MakeMove.
func (a *Agent) LastDecision() Decision {
	return a.last
}

// Tree exposes the underlying search tree.
func (a *Agent) Tree() *searcher.MCTS {
	return a.mcts
}

package searcher

import (
	"context"
	"fmt"
	"math"
	"time"

	"chessmcts/experiments/metrics"
	"chessmcts/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a search tree over a root position. It is not safe for concurrent use;
// each game owns its own trees.
type MCTS struct {
	root        *node
	iterations  int
	mode        Mode
	predictor   Predictor
	exploration float64
	rng         *rand.Rand
	metrics     metrics.Collector
	metric      metrics.SearchMetric
}

// WithPredictor evaluates leaves with p instead of random playouts.
func WithPredictor(p Predictor) Option {
	return func(m *MCTS) {
		if p != nil {
			m.predictor = p
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.exploration = c
		}
	}
}

// WithSeed makes playouts and train-mode sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// NewMCTS anchors a tree at state. player is the tag of the root node.
func NewMCTS(state game.State, player int, iterations int, mode Mode, options ...Option) (*MCTS, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil root state", ErrConfiguration)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrConfiguration, iterations)
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if player != Maximizer && player != Minimizer {
		return nil, fmt.Errorf("%w: player must be %d or %d, got %d", ErrConfiguration, Maximizer, Minimizer, player)
	}

	m := &MCTS{ // Default values
		root:        newRoot(state, player),
		iterations:  iterations,
		mode:        mode,
		exploration: C,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m, nil
}

func newRoot(state game.State, player int) *node {
	return newNode(nil, opponent(player), nil, state, UniformPrior)
}

// Search runs the configured number of iterations from the root and returns the
// state of the chosen root child. Reaching a terminal leaf ends the search early
// and plays towards it. ctx is checked before every iteration.
func (m *MCTS) Search(ctx context.Context) (game.State, error) {
	if m.root.isTerminal() {
		return nil, fmt.Errorf("%w: cannot search from %s", ErrGameOver, m.root.state)
	}

	m.metrics.Start(m.iterations, string(m.mode))
	defer func() { m.metric = m.metrics.Complete() }()

	for i := 0; i < m.iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := m.root
		if current.isLeaf() {
			current.expand()
			if current.isLeaf() {
				return nil, fmt.Errorf("%w: no legal moves from %s", ErrGameOver, current.state)
			}
		}

		// Selection
		for !current.isLeaf() {
			current = current.selectChild()
		}

		if current.isTerminal() {
			m.metrics.SetCutOff()
			chosen := current.childOfRoot(m.root)
			log.Debug().Msgf("search reached a terminal position after %d iterations, playing %s", i, chosen.move)
			return chosen.state, nil
		}

		// Expansion and evaluation. A leaf is expanded only once it has been visited.
		var value float64
		if m.predictor != nil {
			priors, v, err := m.predict(current)
			if err != nil {
				return nil, err
			}
			value = v
			if current.visits > 0 {
				current.priors = priors
				current.expand()
				current = current.selectChild()
			}
		} else {
			if current.visits > 0 {
				current.expand()
				current = current.selectChild()
			}
			value = current.simulate(m.rng)
			m.metrics.AddFullPlayout()
		}

		current.backpropagate(value, m.exploration)
		m.metrics.AddEpisode()
	}

	chosen := m.choose()
	log.Debug().Msgf("search finished %d iterations, playing %s (%d visits)", m.iterations, chosen.move, chosen.visits)
	return chosen.state, nil
}

// predict queries the predictor for n and returns its value from the
// maximizer's side.
func (m *MCTS) predict(n *node) ([]float64, float64, error) {
	priors, value, err := m.predictor.Predict(n.state)
	m.metrics.AddPrediction()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrPredictor, err)
	}

	if moves := len(n.state.LegalMoves()); len(priors) != moves {
		return nil, 0, fmt.Errorf("%w: %d priors for %d legal moves", ErrPredictor, len(priors), moves)
	}
	for i, p := range priors {
		if math.IsNaN(p) || p < 0 {
			return nil, 0, fmt.Errorf("%w: prior %d is %v", ErrPredictor, i, p)
		}
	}
	if math.IsNaN(value) || value < LOSS || value > WIN {
		return nil, 0, fmt.Errorf("%w: value %v outside [%v, %v]", ErrPredictor, value, LOSS, WIN)
	}

	if n.player != Maximizer {
		value = -value
	}
	return priors, value, nil
}

// choose samples a root child in train mode with a predictor, otherwise it
// takes the most visited child.
func (m *MCTS) choose() *node {
	children := m.root.children
	if m.mode == Train && m.predictor != nil {
		weights := m.root.priors
		if weights == nil {
			weights = visitShares(children)
		}
		if chosen := sample(m.rng, children, weights); chosen != nil {
			return chosen
		}
	}
	return mostVisited(children)
}

// NewRoot promotes the root child whose state equals state. The rest of the
// tree is dropped. Returns ErrTreeDesync and leaves the tree untouched when
// no child matches.
func (m *MCTS) NewRoot(state game.State) error {
	for _, child := range m.root.children {
		if child.state.Equal(state) {
			child.parent = nil
			m.root = child
			m.metrics.SetTreeReset(false)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTreeDesync, state)
}

// Reset discards the tree and starts over from state.
func (m *MCTS) Reset(state game.State, player int) {
	m.root = newRoot(state, player)
	m.metrics.SetTreeReset(true)
}

// ExpandRoot expands the root if it has not been expanded yet.
func (m *MCTS) ExpandRoot() {
	m.root.expand()
}

func (m *MCTS) IsRootExpanded() bool {
	return !m.root.isLeaf()
}

func (m *MCTS) RootState() game.State {
	return m.root.state
}

func (m *MCTS) RootPlayer() int {
	return m.root.player
}

// RootMove is the move that led to the root, "" for the tree's first root.
func (m *MCTS) RootMove() string {
	if m.root.move == nil {
		return ""
	}
	return m.root.move.String()
}

func (m *MCTS) RootVisits() int {
	return m.root.visits
}

// Policy returns the root children's moves with their share of the visits.
func (m *MCTS) Policy() (moves []string, policy []float64) {
	children := m.root.children
	moves = make([]string, len(children))
	for i, child := range children {
		moves[i] = child.move.String()
	}
	policy = visitShares(children)
	if policy == nil {
		policy = make([]float64, len(children))
	}
	return moves, policy
}

// Metric returns the metrics of the last search. Empty unless WithMetrics is set.
func (m *MCTS) Metric() metrics.SearchMetric {
	return m.metric
}

func (m *MCTS) Mode() Mode {
	return m.mode
}

package searcher

import (
	"errors"
	"fmt"

	"chessmcts/game"
)

// Hyperparameters for MCTS

const C = 2.0 // Exploration constant

const UniformPrior = 1.0 // Prior of every child when no predictor distribution is stored

// Player tags. Maximizer picks the child with the highest UCB, the other tag the lowest.
// Values are scored from the maximizer's side: a checkmate with the minimizer to move is a win.
const (
	Maximizer = 0
	Minimizer = 1
)

const WIN = 1.0
const LOSS = -WIN
const DRAW = 0.0

var (
	ErrConfiguration = errors.New("invalid search configuration")
	ErrTreeDesync    = errors.New("state does not match any child of the root")
	ErrPredictor     = errors.New("invalid predictor output")
	ErrGameOver      = errors.New("game is over")
)

type Mode string

const (
	Train Mode = "train" // Sample moves by visit share to keep exploring
	Test  Mode = "test"  // Play the most visited move
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Train, Test:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrConfiguration, s)
}

// Predictor is a synchronous oracle for a state: a prior for each legal move,
// in LegalMoves order, and a value in [-1, 1] for the side to move.
type Predictor interface {
	Predict(state game.State) (priors []float64, value float64, err error)
}

func opponent(player int) int {
	return 1 - player
}

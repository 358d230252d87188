package engine

import (
	"chessmcts/experiments/metrics"

	"github.com/muesli/termenv"
)

// MaxPlies bounds a game that neither agent can finish.
const MaxPlies = 500

// Result is everything a finished game produced. Outcome is 1 if the first
// agent won, -1 if the second did and 0 otherwise.
type Result struct {
	Outcome  float64
	Game     metrics.GameMetric
	Moves    []metrics.MoveMetric
	Examples []metrics.Example
}

type Option func(e *Engine)

func WithMaxPlies(plies int) Option {
	return func(e *Engine) {
		if plies > 0 {
			e.maxPlies = plies
		}
	}
}

// WithRenderer draws the board to the debug log after every ply.
func WithRenderer(out *termenv.Output) Option {
	return func(e *Engine) {
		e.renderer = out
	}
}

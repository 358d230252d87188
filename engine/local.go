package engine

import (
	"context"
	"fmt"
	"time"

	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher"
	"chessmcts/searcher/agent"
	"chessmcts/utils"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
)

type Engine struct {
	State    game.State
	Agents   [2]*agent.Agent
	maxPlies int
	renderer *termenv.Output
}

// LocalEngine plays agents[0] against agents[1] from state, agents[0] moving first.
func LocalEngine(state game.State, agents [2]*agent.Agent, options ...Option) *Engine {
	if state == nil {
		panic("engine needs a starting state")
	}
	if agents[0] == nil || agents[1] == nil {
		panic("need two agents")
	}

	e := &Engine{
		State:    state,
		Agents:   agents,
		maxPlies: MaxPlies,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until the game is over or the ply limit is reached.
// The mover searches, the other agent follows the move on its own tree.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	result := Result{}
	start := time.Now()

	ply := 0
	for ; !e.State.IsGameOver() && ply < e.maxPlies; ply++ {
		mover := e.Agents[ply%2]
		other := e.Agents[1-ply%2]

		next, err := mover.MakeMove(ctx, e.State)
		if err != nil {
			return result, fmt.Errorf("ply %d: %w", ply+1, err)
		}
		other.UpdateTree(next)

		decision := mover.LastDecision()
		result.Moves = append(result.Moves, metrics.MoveMetric{
			Step:         ply + 1,
			Player:       ply % 2,
			SearchMetric: decision.Metric,
		})
		result.Examples = append(result.Examples, metrics.Example{
			Step:   ply + 1,
			Player: ply % 2,
			FEN:    decision.State.String(),
			Move:   decision.Move,
			Moves:  decision.Moves,
			Policy: decision.Policy,
		})

		if i := utils.FindIndex(decision.Moves, decision.Move); i >= 0 {
			log.Debug().Msgf("ply %d: player %d played %s (visit share %.3f)", ply+1, ply%2, decision.Move, decision.Policy[i])
		}
		e.State = next
		e.render()
	}

	result.Outcome = outcome(e.State, ply)
	for i := range result.Examples {
		result.Examples[i].Outcome = result.Outcome
	}
	result.Game = metrics.GameMetric{
		StartTime:   start,
		EndTime:     time.Now(),
		Duration:    time.Since(start),
		TotalMoves:  ply,
		Outcome:     result.Outcome,
		Termination: termination(e.State),
	}

	log.Info().Msgf("game over after %d plies: outcome %v (%s)", ply, result.Outcome, result.Game.Termination)
	return result, nil
}

func (e *Engine) render() {
	if e.renderer == nil {
		return
	}
	if c, ok := e.State.(*game.Chess); ok {
		log.Debug().Msg("\n" + game.Render(c, e.renderer))
	}
}

// outcome scores a final state after plies moves. An odd ply count means the
// first agent made the last move.
func outcome(state game.State, plies int) float64 {
	if !state.IsCheckmate() {
		return searcher.DRAW
	}
	if plies%2 == 1 {
		return searcher.WIN
	}
	return searcher.LOSS
}

func termination(state game.State) string {
	if t, ok := state.(interface{ Termination() string }); ok && t.Termination() != "" {
		return t.Termination()
	}
	switch {
	case state.IsCheckmate():
		return "checkmate"
	case state.IsGameOver():
		return "draw"
	default:
		return "max_plies"
	}
}

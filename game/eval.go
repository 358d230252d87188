package game

import (
	"fmt"

	"github.com/notnil/chess"
)

// Evaluate scores a state between -1 and 1 indicating how favorable it is to
// the side to move.
type Evaluate func(State) float64

var pieceValues = map[chess.PieceType]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// EvaluateMaterial compares the material of both sides to produce a score
// between -1 and 1 from the perspective of the side to move
func EvaluateMaterial(s State) float64 {
	c, ok := s.(*Chess)
	if !ok {
		panic("unexpected state type")
	}
	mine, theirs := c.materialScores()
	return normalize(mine, theirs)
}

// EvaluateMobility adds the number of legal moves to the material comparison.
// The opponent's mobility is not generated, so it only rewards the side to move
// for having options relative to its material.
func EvaluateMobility(s State) float64 {
	c, ok := s.(*Chess)
	if !ok {
		panic("unexpected state type")
	}
	mine, theirs := c.materialScores()
	mobility := float64(len(c.LegalMoves()))
	return (normalize(mine, theirs) + normalize(mobility, 20)) / 2
}

func (c *Chess) materialScores() (mine, theirs float64) {
	turn := c.Turn()
	for _, piece := range c.Board().SquareMap() {
		value := pieceValues[piece.Type()]
		if piece.Color() == turn {
			mine += value
		} else {
			theirs += value
		}
	}
	return mine, theirs
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}

// MaterialPredictor is a heuristic stand-in for a trained network: uniform
// priors over the legal moves and a static evaluation as the value.
type MaterialPredictor struct {
	Evaluate Evaluate
}

// NewMaterialPredictor returns a predictor valued by EvaluateMaterial.
func NewMaterialPredictor() *MaterialPredictor {
	return &MaterialPredictor{Evaluate: EvaluateMaterial}
}

func (p *MaterialPredictor) Predict(s State) ([]float64, float64, error) {
	if _, ok := s.(*Chess); !ok {
		return nil, 0, fmt.Errorf("material predictor cannot evaluate %T", s)
	}
	moves := s.LegalMoves()
	if len(moves) == 0 {
		return nil, 0, fmt.Errorf("no legal moves in %s", s)
	}
	priors := make([]float64, len(moves))
	for i := range priors {
		priors[i] = 1 / float64(len(moves))
	}
	evaluate := p.Evaluate
	if evaluate == nil {
		evaluate = EvaluateMaterial
	}
	return priors, evaluate(s), nil
}

package game

import (
	"fmt"

	"github.com/notnil/chess"
)

// Chess is a State backed by a notnil/chess game. Play clones the underlying
// game, so a Chess value is never mutated once it is shared.
type Chess struct {
	game *chess.Game
}

// NewChess returns the standard starting position.
func NewChess() *Chess {
	return &Chess{game: chess.NewGame()}
}

// ChessFromFEN parses a position in Forsyth-Edwards notation.
func ChessFromFEN(fen string) (*Chess, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid fen %q: %w", fen, err)
	}
	return &Chess{game: chess.NewGame(opt)}, nil
}

func (c *Chess) LegalMoves() []Move {
	if c.IsGameOver() {
		return nil
	}
	valid := c.game.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = m
	}
	return moves
}

func (c *Chess) Play(m Move) State {
	move, ok := m.(*chess.Move)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", m))
	}
	next := c.game.Clone()
	if err := next.Move(move); err != nil {
		panic(fmt.Sprintf("illegal move %s in %s: %v", move, c, err))
	}
	return &Chess{game: next}
}

// ParseMove decodes a move in UCI notation (e.g. "e2e4") against this position.
func (c *Chess) ParseMove(uci string) (Move, error) {
	move, err := chess.UCINotation{}.Decode(c.game.Position(), uci)
	if err != nil {
		return nil, fmt.Errorf("invalid move %q: %w", uci, err)
	}
	return move, nil
}

// IsGameOver covers checkmate, stalemate and the automatic draws of the rules library.
func (c *Chess) IsGameOver() bool {
	return c.game.Outcome() != chess.NoOutcome || c.game.Position().Status() != chess.NoMethod
}

func (c *Chess) IsCheckmate() bool {
	return c.game.Method() == chess.Checkmate || c.game.Position().Status() == chess.Checkmate
}

// Termination names how the game ended, "" while it is still running.
func (c *Chess) Termination() string {
	method := c.game.Method()
	if method == chess.NoMethod {
		method = c.game.Position().Status()
	}
	if method == chess.NoMethod {
		return ""
	}
	return method.String()
}

func (c *Chess) Equal(other State) bool {
	o, ok := other.(*Chess)
	if !ok || o == nil {
		return false
	}
	return c.String() == o.String()
}

// Turn returns the color to move.
func (c *Chess) Turn() chess.Color {
	return c.game.Position().Turn()
}

// Board exposes the current board for evaluation and rendering.
func (c *Chess) Board() *chess.Board {
	return c.game.Position().Board()
}

// String returns the FEN of the position.
func (c *Chess) String() string {
	return c.game.Position().String()
}

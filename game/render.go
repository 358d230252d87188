package game

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/notnil/chess"
)

const (
	lightSquare = "#d7b98e"
	darkSquare  = "#8f6a48"
)

// Render draws the board from white's side with colored squares. Profiles
// without color support (termenv.Ascii) produce a plain grid.
func Render(c *Chess, out *termenv.Output) string {
	board := c.Board()
	var sb strings.Builder
	for rank := chess.Rank8; rank >= chess.Rank1; rank-- {
		sb.WriteString(strconv.Itoa(int(rank) + 1))
		sb.WriteByte(' ')
		for file := chess.FileA; file <= chess.FileH; file++ {
			symbol := " . "
			if piece := board.Piece(chess.Square(int(file) + int(rank)*8)); piece != chess.NoPiece {
				symbol = " " + piece.String() + " "
			}
			background := lightSquare
			if (int(file)+int(rank))%2 == 0 {
				background = darkSquare
			}
			sb.WriteString(out.String(symbol).Background(out.Color(background)).String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a  b  c  d  e  f  g  h\n")
	return sb.String()
}

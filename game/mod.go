package game

// Move is a single ply produced by State.LegalMoves.
type Move interface {
	String() string
}

// State should be immutable - operations on State always return a new copy
type State interface {
	// LegalMoves returns the moves available to the side to move, always in the same order
	LegalMoves() []Move
	Play(Move) State
	IsGameOver() bool
	IsCheckmate() bool
	Equal(State) bool
	String() string
}

package searcher

import (
	"math"

	"chessmcts/game"

	"golang.org/x/exp/rand"
)

// node is one explored position. It owns its children; parent is a back
// reference that is cleared when the node becomes the root.
type node struct {
	parent   *node
	player   int       // Tag of the player to move at state
	move     game.Move // Move from the parent, nil for the initial root
	state    game.State
	visits   int     // N
	total    float64 // W
	mean     float64 // Q = W/N
	prior    float64 // P
	score    float64 // UCB, +Inf until visited
	children []*node
	priors   []float64 // Predictor distribution over children, in LegalMoves order
}

func newNode(parent *node, lastPlayer int, move game.Move, state game.State, prior float64) *node {
	return &node{
		parent: parent,
		player: opponent(lastPlayer),
		move:   move,
		state:  state,
		prior:  prior,
		score:  math.Inf(1),
	}
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) isTerminal() bool {
	return n.state.IsGameOver()
}

// expand creates one child per legal move. No-op unless n is a non-terminal leaf.
func (n *node) expand() {
	if !n.isLeaf() || n.isTerminal() {
		return
	}

	moves := n.state.LegalMoves()
	n.children = make([]*node, len(moves))
	for i, move := range moves {
		prior := UniformPrior
		if n.priors != nil {
			prior = n.priors[i]
		}
		n.children[i] = newNode(n, n.player, move, n.state.Play(move), prior)
	}
}

// selectChild returns the first unvisited child, otherwise the child with the
// best UCB for the player to move. Ties keep the earlier child.
func (n *node) selectChild() *node {
	best := n.children[0]
	if best.visits == 0 {
		return best
	}
	for _, child := range n.children[1:] {
		if child.visits == 0 {
			return child
		}
		if n.player == Maximizer && child.score > best.score {
			best = child
		} else if n.player != Maximizer && child.score < best.score {
			best = child
		}
	}
	return best
}

// simulate plays uniformly random moves from a copy of the state until the
// game ends and scores the final position.
func (n *node) simulate(rng *rand.Rand) float64 {
	state, player := n.state, n.player
	for !state.IsGameOver() {
		moves := state.LegalMoves()
		if len(moves) == 0 {
			break
		}
		state = state.Play(moves[rng.Intn(len(moves))])
		player = opponent(player)
	}
	return evaluateTerminal(state, player)
}

func evaluateTerminal(state game.State, player int) float64 {
	if !state.IsCheckmate() {
		return DRAW
	}
	// The player to move is the one checkmated
	if player == Minimizer {
		return WIN
	}
	return LOSS
}

// backpropagate records value on the path from n to the root. Nodes are
// updated root first so each UCB sees its parent's final visit count.
func (n *node) backpropagate(value float64, c float64) {
	path := []*node{}
	for node := n; node != nil; node = node.parent {
		path = append(path, node)
	}

	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		node.visits++
		if node.parent == nil { // Root has no confidence score
			continue
		}
		node.total += value
		node.mean = node.total / float64(node.visits)
		node.score = ucb(node.mean, node.visits, node.parent.visits, node.prior, c)
	}
}

// childOfRoot returns the ancestor of n (or n itself) whose parent is root.
func (n *node) childOfRoot(root *node) *node {
	node := n
	for node.parent != nil && node.parent != root {
		node = node.parent
	}
	return node
}

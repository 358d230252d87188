package searcher

import (
	"math"

	"chessmcts/utils"

	"golang.org/x/exp/rand"
)

// ucb = Q + c * sqrt(ln(N) / n) * P, +Inf for unvisited nodes
func ucb(mean float64, visits int, parentVisits int, prior float64, c float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	return mean + c*math.Sqrt(math.Log(float64(parentVisits))/float64(visits))*prior
}

// visitShares returns each child's share of the visits made below the parent,
// nil when no child has been visited.
func visitShares(children []*node) []float64 {
	total := 0
	for _, child := range children {
		total += child.visits
	}
	if total == 0 {
		return nil
	}
	shares := make([]float64, len(children))
	for i, child := range children {
		shares[i] = float64(child.visits) / float64(total)
	}
	return shares
}

// mostVisited picks the child with the most visits, breaking ties by the higher UCB.
func mostVisited(children []*node) *node {
	best := children[0]
	for _, child := range children[1:] {
		if child.visits > best.visits {
			best = child
		} else if child.visits == best.visits && child.score > best.score {
			best = child
		}
	}
	return best
}

// sample draws a child proportionally to weights. Returns nil when the weights
// do not line up with the children or sum to zero.
func sample(rng *rand.Rand, children []*node, weights []float64) *node {
	if len(weights) != len(children) {
		return nil
	}
	sum := utils.Sum(weights)
	if sum <= 0 {
		return nil
	}

	sampled := rng.Float64() * sum
	cumulative := 0.0
	var last *node
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = children[i]
		cumulative += w
		if sampled < cumulative {
			return last
		}
	}
	return last // Fallback in case of rounding errors
}

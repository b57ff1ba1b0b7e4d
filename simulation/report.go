package simulation

import (
	"math"

	"github.com/OilyCannelloni/simplex-mesh/grid"
	"github.com/OilyCannelloni/simplex-mesh/simplex"
)

// Distance returns origin's resolved distance to target, or false while
// the pair is unresolved.
func (s *Simulation) Distance(origin, target grid.NodeID) (float64, bool) {
	node, ok := s.net.Node(origin)
	if !ok {
		return 0, false
	}
	sol, ok := node.KnownDistance(target)
	if !ok {
		return 0, false
	}

	return sol.Value, true
}

// AnchoredCount returns how many nodes either are anchors or have
// resolved distances to the required number of anchors.
func (s *Simulation) AnchoredCount() int {
	count := 0
	for _, node := range s.nodes {
		if node.IsAnchor() || node.AnchorsReached() {
			count++
		}
	}

	return count
}

// ResolvedPairError summarizes accuracy over all resolved directed pairs:
// mean absolute error against ground truth and the pair count.
func (s *Simulation) ResolvedPairError() (meanAbs float64, pairs int) {
	sum := 0.0
	for _, node := range s.nodes {
		for _, target := range node.CompletedIDs() {
			sol, ok := node.KnownDistance(target)
			if !ok {
				continue
			}
			sum += math.Abs(sol.Value - s.world.TrueDistance(node.ID(), target))
			pairs++
		}
	}
	if pairs == 0 {
		return 0, 0
	}

	return sum / float64(pairs), pairs
}

// ComputePositions runs the least-squares fix for every non-anchor node
// that reached its required anchors and stores the result on the node.
// Returns the number of nodes fixed this call.
func (s *Simulation) ComputePositions() int {
	fixed := 0
	for _, node := range s.nodes {
		if node.IsAnchor() || !node.AnchorsReached() {
			continue
		}

		anchors := node.Anchors()
		positions := make([]grid.Point2D, 0, len(anchors))
		distances := make([]float64, 0, len(anchors))
		for id, pos := range anchors {
			sol, ok := node.KnownDistance(id)
			if !ok {
				continue
			}
			positions = append(positions, pos)
			distances = append(distances, sol.Value)
		}

		fix, err := simplex.PositionByAnchors(positions, distances)
		if err != nil {
			s.log.Debugw("position fix failed", "node", node.ID(), "err", err)
			continue
		}
		node.SetPosition(fix)
		fixed++
		s.log.Debugw("position fixed",
			"node", node.ID(),
			"position", fix,
			"true", s.world.TruePosition(node.ID()),
			"delta", fix.Distance(s.world.TruePosition(node.ID())))
	}

	return fixed
}

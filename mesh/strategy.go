package mesh

import (
	"sort"

	"github.com/OilyCannelloni/simplex-mesh/grid"
)

// Strategy decides what a node attempts on each scheduler pass. The three
// variants differ only in how they pick the (target, gate) combination;
// all share the same solver plumbing and failure semantics. Selected at
// node construction via WithStrategy.
type Strategy interface {
	Step(n *Node)
}

// RandomTarget picks a target uniformly from the node's unresolved pool,
// then a random gate from the intersection of both completed sets.
type RandomTarget struct{}

// Step implements Strategy.
func (RandomTarget) Step(n *Node) {
	n.mu.Lock()
	if len(n.unknown) == 0 {
		n.mu.Unlock()

		return
	}
	target := n.unknown[n.opts.Rand.Intn(len(n.unknown))]
	n.mu.Unlock()

	n.tryMeasureTarget(target)
}

// RandomTargetHopLevel is the preferred, hop-aware variant: targets are
// drawn only from the hop layers admitted so far, keeping solver attempts
// close to already-resolved territory where gates actually exist. Layers
// are admitted one at a time as the current one crosses the advance
// threshold.
type RandomTargetHopLevel struct{}

// Step implements Strategy.
func (RandomTargetHopLevel) Step(n *Node) {
	n.mu.Lock()
	if len(n.targetPool) == 0 {
		n.mu.Unlock()

		return
	}
	target := n.targetPool[n.opts.Rand.Intn(len(n.targetPool))]
	n.mu.Unlock()

	n.tryMeasureTarget(target)
}

// RandomGate picks a random gate from the node's completed set first,
// then attempts every target both gate endpoints know. One step can
// derive several edges; gates in sparse regions often derive none.
type RandomGate struct{}

// Step implements Strategy.
func (RandomGate) Step(n *Node) {
	n.mu.Lock()
	pool := make([]grid.NodeID, 0, len(n.completed))
	for id := range n.completed {
		if _, ok := n.knownLocked(id); ok {
			pool = append(pool, id)
		}
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i] < pool[j] })
	if len(pool) < 2 {
		n.mu.Unlock()

		return
	}
	g0, g1 := samplePair(n.opts.Rand, pool)
	p01, ok01 := n.knownLocked(g0)
	p02, ok02 := n.knownLocked(g1)
	n.mu.Unlock()
	if !ok01 || !ok02 {
		return
	}

	g0node, ok := n.net.Node(g0)
	if !ok {
		return
	}
	g1node, ok := n.net.Node(g1)
	if !ok {
		return
	}
	p12, ok := g0node.KnownDistance(g1)
	if !ok {
		return
	}

	for _, target := range intersectIDs(g0node.CompletedIDs(), g1node.CompletedIDs()) {
		if target == n.id {
			continue
		}
		n.mu.Lock()
		isNeighbor := n.neighbors[target]
		n.mu.Unlock()
		if isNeighbor {
			// Neighbors are exact already; never solver targets.
			continue
		}

		p13, ok := g0node.KnownDistance(target)
		if !ok {
			continue
		}
		p23, ok := g1node.KnownDistance(target)
		if !ok {
			continue
		}
		n.solveAndShare(target, g0, g1, p01, p02, p12, p13, p23)
	}
}

// intersectIDs returns the ids present in both slices.
func intersectIDs(a, b []grid.NodeID) []grid.NodeID {
	inA := make(map[grid.NodeID]bool, len(a))
	for _, id := range a {
		inA[id] = true
	}
	out := make([]grid.NodeID, 0)
	for _, id := range b {
		if inA[id] {
			out = append(out, id)
		}
	}

	return out
}

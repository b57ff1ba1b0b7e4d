package mesh

import (
	"math/rand"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/OilyCannelloni/simplex-mesh/grid"
	"github.com/OilyCannelloni/simplex-mesh/ranging"
	"github.com/OilyCannelloni/simplex-mesh/simplex"
	"github.com/OilyCannelloni/simplex-mesh/solution"
)

// Node is one member of the mesh. It owns its range filters, its
// SolutionSets, and its target bookkeeping; peers reach it only through
// the Network, via the remote surface (KnownDistance, CompletedIDs,
// AddSolutions, AnchorPosition).
//
// The mutex guards all solution and target state: the owning node mutates
// it from Step, and peers mutate it through AddSolutions.
type Node struct {
	id    grid.NodeID
	net   *Network
	world Oracle
	opts  NodeOptions
	log   *zap.SugaredLogger

	mu        sync.Mutex
	targets   map[grid.NodeID]*TargetInfo
	neighbors map[grid.NodeID]bool
	known     map[grid.NodeID]*solution.Set
	completed map[grid.NodeID]bool
	unknown   []grid.NodeID

	hopLayers  [][]grid.NodeID
	hopLevel   int
	layerDone  []int
	targetPool []grid.NodeID

	isAnchor       bool
	position       grid.Point2D
	hasPosition    bool
	anchors        map[grid.NodeID]grid.Point2D
	anchorsReached bool

	filters map[grid.NodeID]*ranging.Filter
}

// initialHopLevel is where the hop-level strategy starts: layer 1 holds
// direct neighbors, already exact, so layer 2 is the first solver target.
const initialHopLevel = 2

// NewNode builds a node, registers it with the network, and initializes
// its target bookkeeping from the world's BFS hop layers. Unreachable
// nodes are not targets.
// Returns ErrNilNetwork, ErrNilOracle, ErrOptionViolation, or
// ErrDuplicateID.
func NewNode(id grid.NodeID, net *Network, world Oracle, opts ...Option) (*Node, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if world == nil {
		return nil, ErrNilOracle
	}
	o := DefaultNodeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	n := &Node{
		id:        id,
		net:       net,
		world:     world,
		opts:      o,
		log:       o.Log,
		targets:   make(map[grid.NodeID]*TargetInfo),
		neighbors: make(map[grid.NodeID]bool),
		known:     make(map[grid.NodeID]*solution.Set),
		completed: make(map[grid.NodeID]bool),
		anchors:   make(map[grid.NodeID]grid.Point2D),
		filters:   make(map[grid.NodeID]*ranging.Filter),
		hopLevel:  initialHopLevel,
	}

	n.hopLayers = world.HopLayersFrom(id)
	n.layerDone = make([]int, len(n.hopLayers))
	for hops, layer := range n.hopLayers {
		if hops == 0 {
			continue // self
		}
		for _, target := range layer {
			n.targets[target] = &TargetInfo{ID: target, Hops: hops}
			n.unknown = append(n.unknown, target)
			if hops == 1 {
				n.neighbors[target] = true
			}
		}
	}
	if len(n.hopLayers) > initialHopLevel {
		n.targetPool = append(n.targetPool, n.hopLayers[initialHopLevel]...)
	}

	if err := net.AddNode(n); err != nil {
		return nil, err
	}

	return n, nil
}

// ID returns the node's address.
func (n *Node) ID() grid.NodeID { return n.id }

// SetAnchor flags the node as an anchor and fetches its ground-truth
// position from the position oracle.
func (n *Node) SetAnchor(po PositionOracle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.isAnchor = true
	n.position = po.TruePosition(n.id)
	n.hasPosition = true
}

// IsAnchor reports whether the node holds a ground-truth position.
func (n *Node) IsAnchor() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.isAnchor
}

// Position returns the node's position: ground truth for anchors, the
// value assigned via SetPosition otherwise. False when neither is set.
func (n *Node) Position() (grid.Point2D, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.position, n.hasPosition
}

// SetPosition stores a position computed by the positioning collaborator.
// Anchors keep their ground truth.
func (n *Node) SetPosition(p grid.Point2D) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.isAnchor {
		return
	}
	n.position = p
	n.hasPosition = true
}

// MeasureNeighbors runs the ranging pipeline against every direct
// neighbor: feeds the per-neighbor filter with raw samples and seeds the
// edge's SolutionSet as exact from the filtered estimate. Called once
// after all nodes are registered.
func (n *Node) MeasureNeighbors() {
	for _, nb := range n.world.NeighborsOf(n.id) {
		filter, err := ranging.New()
		if err != nil {
			continue
		}
		sum, count := 0.0, 0
		for i := 0; i < n.opts.RangeSamples; i++ {
			if d, ok := n.world.MeasuredDistance(n.id, nb); ok {
				filter.Add(d)
				sum += d
				count++
			}
		}
		estimate, ok := filter.Value()
		if !ok {
			if count == 0 {
				continue
			}
			// Too few samples for the median window; fall back to the
			// plain mean.
			estimate = sum / float64(count)
		}

		n.mu.Lock()
		n.filters[nb] = filter
		newly := n.addExactLocked(nb, estimate)
		n.mu.Unlock()
		if newly {
			n.checkAnchor(nb)
		}
	}
}

// Step makes one best-effort attempt at deriving a new distance,
// delegating to the configured strategy. It never fails; missing data
// means the attempt is dropped and retried on a later pass.
func (n *Node) Step() {
	n.opts.Strategy.Step(n)
}

// --- remote surface -------------------------------------------------------

// KnownDistance returns the resolved Solution for the edge to target,
// or false while unresolved.
func (n *Node) KnownDistance(target grid.NodeID) (solution.Solution, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.knownLocked(target)
}

// CompletedIDs returns a sorted snapshot of the ids this node has
// resolved distances to.
func (n *Node) CompletedIDs() []grid.NodeID {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]grid.NodeID, 0, len(n.completed))
	for id := range n.completed {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// UnresolvedIDs returns a snapshot of the reachable targets whose edges
// have not resolved yet.
func (n *Node) UnresolvedIDs() []grid.NodeID {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]grid.NodeID, len(n.unknown))
	copy(out, n.unknown)

	return out
}

// AddSolutions ingests a candidate batch pushed by the peer that derived
// it. The batch lands in this node's SolutionSet for that peer; the edge
// may resolve as a result.
func (n *Node) AddSolutions(from grid.NodeID, batch []solution.Solution) {
	n.mu.Lock()
	newly := n.addSolutionsLocked(from, batch)
	n.mu.Unlock()
	if newly {
		n.checkAnchor(from)
	}
}

// AnchorPosition returns the node's ground-truth position when it is an
// anchor, false otherwise. This is the only anchor oracle peers consult.
func (n *Node) AnchorPosition() (grid.Point2D, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.isAnchor {
		return grid.Point2D{}, false
	}

	return n.position, true
}

// AnchorsReached reports whether enough anchor distances have resolved
// to unlock positioning.
func (n *Node) AnchorsReached() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.anchorsReached
}

// Anchors returns a copy of the anchor positions discovered so far.
func (n *Node) Anchors() map[grid.NodeID]grid.Point2D {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[grid.NodeID]grid.Point2D, len(n.anchors))
	for id, p := range n.anchors {
		out[id] = p
	}

	return out
}

// --- locked internals -----------------------------------------------------

// setFor returns the SolutionSet for target, creating it on first use
// with the node's tuning.
func (n *Node) setFor(target grid.NodeID) *solution.Set {
	if s, ok := n.known[target]; ok {
		return s
	}
	s := solution.NewSet(n.setOptions()...)
	n.known[target] = s

	return s
}

func (n *Node) setOptions() []solution.Option {
	return []solution.Option{
		solution.WithCutoff(n.opts.MaxReach * n.opts.MaxReachConstant),
		solution.WithDerivFilterSize(n.opts.DerivFilterSize),
		solution.WithDerivAvgThreshold(n.opts.DerivAvgThreshold),
		solution.WithMaxSetLength(n.opts.MaxSetLength),
	}
}

func (n *Node) knownLocked(target grid.NodeID) (solution.Solution, bool) {
	s, ok := n.known[target]
	if !ok {
		return solution.Solution{}, false
	}

	return s.Get()
}

// addExactLocked seeds the edge to target from a direct measurement and
// marks it known. Returns true when the edge was not known before.
func (n *Node) addExactLocked(target grid.NodeID, value float64) bool {
	n.setFor(target).Add(solution.Exact(value))

	return n.markKnownLocked(target)
}

// addSolutionsLocked inserts a candidate batch and, on resolution, marks
// the target known. Returns true when the batch resolved the edge.
func (n *Node) addSolutionsLocked(target grid.NodeID, batch []solution.Solution) bool {
	if !n.setFor(target).Extend(batch) {
		return false
	}

	return n.markKnownLocked(target)
}

// markKnownLocked moves target from the unknown pool to the completed
// set and advances the hop-level bookkeeping. Returns false when the
// target was already known (peers may resolve an edge we hold too).
func (n *Node) markKnownLocked(target grid.NodeID) bool {
	if n.completed[target] {
		return false
	}
	n.completed[target] = true
	n.unknown = removeID(n.unknown, target)
	n.targetPool = removeID(n.targetPool, target)

	info, ok := n.targets[target]
	if !ok {
		// A peer outside our reachability view pushed a resolution.
		return true
	}
	info.Completed = true
	n.layerDone[info.Hops]++
	n.advanceHopLevelLocked(info.Hops)

	if s, ok := n.known[target]; ok {
		if resolved, ready := s.Get(); ready {
			n.log.Debugw("edge resolved",
				"node", n.id, "target", target,
				"value", resolved.Value, "exact", resolved.Exact,
				"hops", info.Hops)
		}
	}

	return true
}

// advanceHopLevelLocked admits the next hop layer once the current one is
// sufficiently resolved.
func (n *Node) advanceHopLevelLocked(hops int) {
	if hops != n.hopLevel || n.hopLevel >= len(n.hopLayers) {
		return
	}
	layer := len(n.hopLayers[n.hopLevel])
	if layer == 0 {
		return
	}
	frac := float64(n.layerDone[n.hopLevel]) / float64(layer)
	if frac <= n.opts.HopAdvanceThreshold {
		return
	}
	n.hopLevel++
	if n.hopLevel < len(n.hopLayers) {
		n.targetPool = append(n.targetPool, n.hopLayers[n.hopLevel]...)
		n.log.Debugw("hop level advanced", "node", n.id, "level", n.hopLevel)
	}
}

// checkAnchor asks the freshly resolved target whether it is an anchor
// and records its position; reaching the required count unlocks
// positioning. Called without the node lock held (remote call inside).
func (n *Node) checkAnchor(target grid.NodeID) {
	tnode, ok := n.net.Node(target)
	if !ok {
		return
	}
	pos, ok := tnode.AnchorPosition()
	if !ok {
		return
	}

	n.mu.Lock()
	n.anchors[target] = pos
	count := len(n.anchors)
	reachedNow := !n.anchorsReached && count >= n.opts.AnchorsRequired
	if reachedNow {
		n.anchorsReached = true
	}
	n.mu.Unlock()

	if reachedNow {
		n.log.Infow("required anchors acquired", "node", n.id, "anchors", count)
	}
}

// removeID deletes the first occurrence of id, preserving order.
func removeID(ids []grid.NodeID, id grid.NodeID) []grid.NodeID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}

	return ids
}

// --- solver plumbing ------------------------------------------------------

// tryMeasureTarget attempts one solver invocation toward target: gate
// selection from the intersection of both completed sets, five edge
// fetches, and candidate distribution to both endpoints. Any missing
// datum aborts the attempt silently.
func (n *Node) tryMeasureTarget(target grid.NodeID) {
	if target == n.id {
		return
	}
	n.mu.Lock()
	isNeighbor := n.neighbors[target]
	n.mu.Unlock()
	if isNeighbor {
		// Neighbors are exact already; never solver targets.
		return
	}

	tnode, ok := n.net.Node(target)
	if !ok {
		return
	}
	targetCompleted := tnode.CompletedIDs()

	n.mu.Lock()
	pool := make([]grid.NodeID, 0, len(targetCompleted))
	for _, id := range targetCompleted {
		if id != n.id && id != target && n.completed[id] {
			pool = append(pool, id)
		}
	}
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

	gnode, ok := n.net.Node(g0)
	if !ok {
		return
	}
	p12, ok := gnode.KnownDistance(g1)
	if !ok {
		return
	}
	p13, ok := tnode.KnownDistance(g0)
	if !ok {
		return
	}
	p23, ok := tnode.KnownDistance(g1)
	if !ok {
		return
	}

	n.solveAndShare(target, g0, g1, p01, p02, p12, p13, p23)
}

// solveAndShare invokes the geometric solver on the five known edges of
// the tetrahedron (origin, g0, g1, target) and feeds the candidate roots
// into both endpoints' SolutionSets.
func (n *Node) solveAndShare(target, g0, g1 grid.NodeID, p01, p02, p12, p13, p23 solution.Solution) {
	roots := simplex.DiagonalRoots(simplex.Edges{
		D01: p01.Value,
		D02: p02.Value,
		D12: p12.Value,
		D13: p13.Value,
		D23: p23.Value,
	})
	if len(roots) == 0 {
		return
	}

	badness := maxBadness(p01, p02, p12, p13, p23)
	batch := make([]solution.Solution, 0, len(roots))
	for _, root := range roots {
		batch = append(batch, solution.NewGated(root, badness, int(g0), int(g1)))
	}

	n.mu.Lock()
	newly := n.addSolutionsLocked(target, batch)
	n.mu.Unlock()
	if newly {
		n.checkAnchor(target)
	}

	if tnode, ok := n.net.Node(target); ok {
		tnode.AddSolutions(n.id, batch)
	}
}

// maxBadness propagates noise depth conservatively: the derived solution
// is as bad as the worst edge that produced it.
func maxBadness(edges ...solution.Solution) int {
	worst := 0
	for _, e := range edges {
		if e.Badness > worst {
			worst = e.Badness
		}
	}

	return worst
}

// samplePair draws two distinct elements uniformly without replacement.
// len(pool) must be ≥ 2.
func samplePair(rng *rand.Rand, pool []grid.NodeID) (grid.NodeID, grid.NodeID) {
	i := rng.Intn(len(pool))
	j := rng.Intn(len(pool) - 1)
	if j >= i {
		j++
	}

	return pool[i], pool[j]
}

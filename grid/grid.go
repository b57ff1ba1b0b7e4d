package grid

import (
	"fmt"
)

// placementAttempts bounds rejection sampling per node before giving up.
const placementAttempts = 10000

// Grid manages the physical placement of network nodes on a size×size
// square and serves as the range, adjacency, and ground-truth oracle.
// It is immutable once built.
type Grid struct {
	size      float64
	positions []Point2D
	opts      GridOptions
}

// NewGrid places n nodes uniformly at random on a size×size square such
// that no two lie closer than MinSeparation and none sits inside a wall.
// Returns ErrNodeCount, ErrGridSize, ErrOptionViolation, or ErrPlacement
// when the separation constraint cannot be met.
// Complexity: O(n²) distance checks expected.
func NewGrid(n int, size float64, opts ...Option) (*Grid, error) {
	if n <= 0 {
		return nil, ErrNodeCount
	}
	if size <= 0 {
		return nil, ErrGridSize
	}
	o := DefaultGridOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	g := &Grid{
		size:      size,
		positions: make([]Point2D, 0, n),
		opts:      o,
	}
	for i := 0; i < n; i++ {
		placed := false
		for attempt := 0; attempt < placementAttempts; attempt++ {
			p := RandomPoint2D(o.Rand, 0, size)
			if g.admissible(p) {
				g.positions = append(g.positions, p)
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("%w: node %d of %d", ErrPlacement, i, n)
		}
	}

	return g, nil
}

// NewGridFromPositions builds a grid around fixed, pre-computed positions.
// Used by tests, where the topology is given, not drawn.
func NewGridFromPositions(positions []Point2D, opts ...Option) (*Grid, error) {
	if len(positions) == 0 {
		return nil, ErrNodeCount
	}
	o := DefaultGridOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	ps := make([]Point2D, len(positions))
	copy(ps, positions)

	return &Grid{size: 0, positions: ps, opts: o}, nil
}

// admissible reports whether p keeps the minimum separation from all
// already-placed nodes and lies outside every wall.
func (g *Grid) admissible(p Point2D) bool {
	for _, q := range g.positions {
		if p.Distance(q) < g.opts.MinSeparation {
			return false
		}
	}
	for _, w := range g.opts.Walls {
		if w.Contains(p) {
			return false
		}
	}

	return true
}

// Len returns the number of placed nodes.
func (g *Grid) Len() int { return len(g.positions) }

// MaxReach returns the configured radio reach.
func (g *Grid) MaxReach() float64 { return g.opts.MaxReach }

// TruePosition returns the ground-truth position of a node.
func (g *Grid) TruePosition(id NodeID) Point2D {
	return g.positions[id]
}

// TrueDistance returns the ground-truth distance between two nodes,
// regardless of reach or occlusion.
func (g *Grid) TrueDistance(origin, target NodeID) float64 {
	return g.positions[origin].Distance(g.positions[target])
}

// inReach reports whether target is within radio reach of origin and
// not occluded by a wall.
func (g *Grid) inReach(origin, target NodeID) bool {
	if origin == target {
		return false
	}
	if g.TrueDistance(origin, target) > g.opts.MaxReach {
		return false
	}
	for _, w := range g.opts.Walls {
		if w.Blocks(g.positions[origin], g.positions[target]) {
			return false
		}
	}

	return true
}

// MeasuredDistance returns one noisy ranging sample between origin and
// target, or false when the target is out of direct range. Noise is
// Gaussian with the configured σ, centered on the true distance.
func (g *Grid) MeasuredDistance(origin, target NodeID) (float64, bool) {
	if !g.inReach(origin, target) {
		return 0, false
	}
	d := g.TrueDistance(origin, target)
	if g.opts.NoiseSD > 0 {
		d += g.opts.Rand.NormFloat64() * g.opts.NoiseSD
	}

	return d, true
}

// NeighborsOf returns the ids within direct range of origin, in id order.
func (g *Grid) NeighborsOf(origin NodeID) []NodeID {
	neighbors := make([]NodeID, 0)
	for id := NodeID(0); int(id) < len(g.positions); id++ {
		if g.inReach(origin, id) {
			neighbors = append(neighbors, id)
		}
	}

	return neighbors
}

// HopLayersFrom runs BFS over the reachability graph and returns depth
// classes: layer 0 is {origin}, layer k holds nodes first reached after
// k hops. Unreachable nodes appear in no layer.
// Complexity: O(V²) with the dense adjacency oracle.
func (g *Grid) HopLayersFrom(origin NodeID) [][]NodeID {
	visited := make(map[NodeID]bool, len(g.positions))
	visited[origin] = true
	layers := [][]NodeID{{origin}}
	frontier := []NodeID{origin}

	for len(frontier) > 0 {
		next := make([]NodeID, 0)
		for _, id := range frontier {
			for _, nb := range g.NeighborsOf(id) {
				if !visited[nb] {
					visited[nb] = true
					next = append(next, nb)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		layers = append(layers, next)
		frontier = next
	}

	return layers
}

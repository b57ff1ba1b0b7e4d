package mesh_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OilyCannelloni/simplex-mesh/grid"
	"github.com/OilyCannelloni/simplex-mesh/mesh"
	"github.com/OilyCannelloni/simplex-mesh/solution"
)

// linePositions spaces n nodes 4 units apart on the x axis.
func linePositions(n int) []grid.Point2D {
	out := make([]grid.Point2D, n)
	for i := range out {
		out[i] = grid.Point2D{X: float64(i) * 4}
	}

	return out
}

// TestNode_InitPartition: after construction the reachable universe is
// fully accounted for: completed ∪ unresolved = all targets, disjoint.
func TestNode_InitPartition(t *testing.T) {
	world := testWorld(t, 5, linePositions(6))
	net := mesh.NewNetwork()
	node, err := mesh.NewNode(0, net, world)
	require.NoError(t, err)

	require.Empty(t, node.CompletedIDs())
	unresolved := node.UnresolvedIDs()
	require.Len(t, unresolved, 5, "five reachable targets on the line")

	seen := map[grid.NodeID]bool{}
	for _, id := range unresolved {
		require.NotEqual(t, grid.NodeID(0), id, "self is never a target")
		require.False(t, seen[id])
		seen[id] = true
	}
}

// TestNode_MeasureNeighbors: the ranging pipeline seeds exact edges for
// every direct neighbor and the partition shifts accordingly.
func TestNode_MeasureNeighbors(t *testing.T) {
	world := testWorld(t, 5, linePositions(6))
	net := mesh.NewNetwork()
	nodes := make([]*mesh.Node, 6)
	for i := range nodes {
		var err error
		nodes[i], err = mesh.NewNode(grid.NodeID(i), net, world)
		require.NoError(t, err)
	}
	for _, n := range nodes {
		n.MeasureNeighbors()
	}

	// Node 2 has neighbors 1 and 3 at distance 4.
	completed := nodes[2].CompletedIDs()
	require.Equal(t, []grid.NodeID{1, 3}, completed)
	for _, nb := range completed {
		sol, ok := nodes[2].KnownDistance(nb)
		require.True(t, ok)
		require.True(t, sol.Exact)
		require.InDelta(t, 4.0, sol.Value, 1e-9)
	}
	require.Len(t, nodes[2].UnresolvedIDs(), 3)

	_, ok := nodes[2].KnownDistance(4)
	require.False(t, ok, "non-neighbor must stay unresolved")
}

// TestNode_AddSolutionsResolvesAndChecksAnchor: a pushed batch resolves
// the edge, moves the target to completed, and picks up the peer's
// anchor position.
func TestNode_AddSolutionsResolvesAndChecksAnchor(t *testing.T) {
	positions := []grid.Point2D{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 3}}
	world := testWorld(t, 30, positions)
	net := mesh.NewNetwork()

	opts := []mesh.Option{
		mesh.WithMaxReach(30),
		mesh.WithSetTuning(3, 0.1, 256),
		mesh.WithAnchorsRequired(1),
	}
	var nodes [3]*mesh.Node
	for i := range nodes {
		var err error
		nodes[i], err = mesh.NewNode(grid.NodeID(i), net, world, opts...)
		require.NoError(t, err)
	}
	nodes[1].SetAnchor(world)

	// Six candidates through distinct gates clustering at 20.0.
	batch := make([]solution.Solution, 0, 6)
	for i := 0; i < 6; i++ {
		batch = append(batch, solution.NewGated(20.0+float64(i)*1e-9, 0, 100+i, 200+i))
	}
	require.Empty(t, nodes[0].CompletedIDs())
	nodes[0].AddSolutions(1, batch)

	sol, ok := nodes[0].KnownDistance(1)
	require.True(t, ok)
	require.InDelta(t, 20.0, sol.Value, 1e-6)
	require.Equal(t, []grid.NodeID{1}, nodes[0].CompletedIDs())

	require.True(t, nodes[0].AnchorsReached(), "anchor 1 resolved and required count is 1")
	anchors := nodes[0].Anchors()
	require.Len(t, anchors, 1)
	require.Equal(t, grid.Point2D{X: 20, Y: 0}, anchors[1])
}

// TestNode_StepNoOpWithoutGates: on a pure line no gate pool of size two
// ever forms; Step must no-op silently forever.
func TestNode_StepNoOpWithoutGates(t *testing.T) {
	world := testWorld(t, 5, linePositions(6))
	net := mesh.NewNetwork()
	nodes := make([]*mesh.Node, 6)
	for i := range nodes {
		var err error
		nodes[i], err = mesh.NewNode(grid.NodeID(i), net, world)
		require.NoError(t, err)
	}
	for _, n := range nodes {
		n.MeasureNeighbors()
	}

	for pass := 0; pass < 50; pass++ {
		for _, n := range nodes {
			n.Step()
		}
	}

	// Only the neighbor edges are known; nothing derived, nothing broken.
	for i, n := range nodes {
		for _, id := range n.CompletedIDs() {
			require.InDelta(t, world.TrueDistance(grid.NodeID(i), id),
				mustValue(t, n, id), 1e-9)
		}
		require.LessOrEqual(t, len(n.CompletedIDs()), 2)
	}
}

// TestNode_AnchorPosition: only anchors answer the anchor oracle.
func TestNode_AnchorPosition(t *testing.T) {
	world := testWorld(t, 5, linePositions(2))
	net := mesh.NewNetwork()
	n0, err := mesh.NewNode(0, net, world)
	require.NoError(t, err)

	_, ok := n0.AnchorPosition()
	require.False(t, ok)
	require.False(t, n0.IsAnchor())

	n0.SetAnchor(world)
	pos, ok := n0.AnchorPosition()
	require.True(t, ok)
	require.Equal(t, grid.Point2D{X: 0}, pos)
	require.True(t, n0.IsAnchor())

	// SetPosition must not displace an anchor's ground truth.
	n0.SetPosition(grid.Point2D{X: 9, Y: 9})
	pos, _ = n0.Position()
	require.Equal(t, grid.Point2D{X: 0}, pos)
}

func mustValue(t *testing.T, n *mesh.Node, target grid.NodeID) float64 {
	t.Helper()
	sol, ok := n.KnownDistance(target)
	require.True(t, ok)
	if math.IsNaN(sol.Value) {
		t.Fatalf("NaN distance to %d", target)
	}

	return sol.Value
}

package simulation_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OilyCannelloni/simplex-mesh/config"
	"github.com/OilyCannelloni/simplex-mesh/grid"
	"github.com/OilyCannelloni/simplex-mesh/simulation"
)

// hubPositions is a dense 7-node layout: nodes 0 and 6 sit beyond mutual
// reach but share five well-spread intermediates, so the 0–6 edge must be
// derived through gates. With reach 6 the intermediates form a complete
// subgraph reaching both ends.
var hubPositions = []grid.Point2D{
	{X: 0, Y: 0},
	{X: 5.44, Y: -2.32},
	{X: 3.89, Y: -1.52},
	{X: 4.16, Y: 0.44},
	{X: 2.25, Y: -1.7},
	{X: 3.21, Y: 2.5},
	{X: 8, Y: 0},
}

// hubConfig tunes the run for noiseless derivation over the hub layout.
func hubConfig(strategy string) config.Config {
	cfg := config.Default()
	cfg.Node.MaxReach = 6
	cfg.Grid.NNodes = 7
	cfg.Grid.NAnchors = 3
	cfg.Grid.NRequiredAnchors = 3
	cfg.Grid.Size = 10
	cfg.Measurement.SD = 0
	cfg.SolutionSet.DerivFilterSize = 3
	cfg.SolutionSet.DerivFilterAvgThreshold = 0.02
	cfg.Simulation.Iterations = 800
	cfg.Simulation.Node = strategy

	return cfg
}

func hubWorld(t *testing.T) *grid.Grid {
	t.Helper()
	world, err := grid.NewGridFromPositions(hubPositions,
		grid.WithMaxReach(6), grid.WithNoiseSD(0))
	require.NoError(t, err)

	return world
}

// TestRun_HubCompletion drives the full engine under each strategy and
// checks completion, accuracy, symmetry, and anchor reach.
func TestRun_HubCompletion(t *testing.T) {
	strategies := []string{
		config.StrategyRandomTargetHopLevel,
		config.StrategyRandomTarget,
		config.StrategyRandomGate,
	}
	for _, strategy := range strategies {
		t.Run(strategy, func(t *testing.T) {
			cfg := hubConfig(strategy)
			sim, err := simulation.New(cfg,
				simulation.WithWorld(hubWorld(t)),
				simulation.WithSeed(42),
			)
			require.NoError(t, err)
			require.NoError(t, sim.Run(context.Background()))

			world := sim.World()
			for a := grid.NodeID(0); int(a) < world.Len(); a++ {
				for b := grid.NodeID(0); int(b) < world.Len(); b++ {
					if a == b {
						continue
					}
					dab, ok := sim.Distance(a, b)
					require.Truef(t, ok, "distance %d->%d unresolved", a, b)
					require.InDeltaf(t, world.TrueDistance(a, b), dab, 1e-6,
						"distance %d->%d off truth", a, b)

					// Symmetry: the reverse edge resolves to the same value.
					dba, ok := sim.Distance(b, a)
					require.Truef(t, ok, "reverse %d->%d unresolved", b, a)
					require.InDelta(t, dab, dba, 1e-6)
				}
			}

			require.Equal(t, 7, sim.AnchoredCount(), "every node anchors or reaches anchors")

			meanAbs, pairs := sim.ResolvedPairError()
			require.Equal(t, 42, pairs)
			require.Less(t, meanAbs, 1e-6)
		})
	}
}

// TestRun_PositionRecovery: after completion the positioning collaborator
// recovers the derived node's true position.
func TestRun_PositionRecovery(t *testing.T) {
	cfg := hubConfig(config.StrategyRandomTargetHopLevel)
	sim, err := simulation.New(cfg,
		simulation.WithWorld(hubWorld(t)),
		simulation.WithSeed(7),
	)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	fixed := sim.ComputePositions()
	require.Equal(t, 4, fixed, "all four non-anchor nodes fix")

	for _, node := range sim.Nodes() {
		pos, ok := node.Position()
		require.Truef(t, ok, "node %d has no position", node.ID())
		truth := sim.World().TruePosition(node.ID())
		require.InDeltaf(t, 0.0, pos.Distance(truth), 1e-5,
			"node %d fix %v vs truth %v", node.ID(), pos, truth)
	}
}

// TestRun_ChainPartialProgress: a near-line chain gives its far pairs only
// a few gates, all nearly collinear with the pair, and their candidates
// never cluster, so those stay unresolved; everything that does
// resolve is exact and symmetric, and the run halts cleanly at the
// budget. Partial progress is valid output.
func TestRun_ChainPartialProgress(t *testing.T) {
	positions := []grid.Point2D{
		{X: 0, Y: 0}, {X: 2, Y: 0.4}, {X: 4, Y: -0.3},
		{X: 6, Y: 0.5}, {X: 8, Y: -0.4}, {X: 10, Y: 0.3},
	}
	world, err := grid.NewGridFromPositions(positions,
		grid.WithMaxReach(6.6), grid.WithNoiseSD(0))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Node.MaxReach = 6.6
	cfg.Grid.NNodes = 6
	cfg.Grid.NAnchors = 3
	cfg.Grid.NRequiredAnchors = 3
	cfg.Measurement.SD = 0
	cfg.SolutionSet.DerivFilterSize = 1
	cfg.SolutionSet.DerivFilterAvgThreshold = 0.01
	cfg.Simulation.Iterations = 500

	sim, err := simulation.New(cfg,
		simulation.WithWorld(world),
		simulation.WithSeed(1),
	)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	resolvedCount := 0
	for a := grid.NodeID(0); a < 6; a++ {
		for b := grid.NodeID(0); b < 6; b++ {
			if a == b {
				continue
			}
			dab, ok := sim.Distance(a, b)
			_, okRev := sim.Distance(b, a)
			require.Equal(t, ok, okRev, "resolution must be symmetric")
			if !ok {
				continue
			}
			resolvedCount++
			require.InDeltaf(t, world.TrueDistance(a, b), dab, 1e-6,
				"resolved %d->%d must match truth", a, b)
		}
	}

	// All twelve neighbor edges resolve in both directions; the far pairs
	// do not all resolve.
	require.GreaterOrEqual(t, resolvedCount, 24)
	require.Less(t, resolvedCount, 30)
}

// TestRun_DisconnectedComponentHaltsCleanly: a component without anchors
// resolves its internal pairs, never reaches anchors, and the scheduler
// halts at the budget without error.
func TestRun_DisconnectedComponentHaltsCleanly(t *testing.T) {
	positions := []grid.Point2D{
		// Anchored cluster.
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 3}, {X: 2, Y: 2},
		// Isolated triangle, no anchors.
		{X: 100, Y: 100}, {X: 103, Y: 100}, {X: 100, Y: 103},
	}
	world, err := grid.NewGridFromPositions(positions,
		grid.WithMaxReach(5), grid.WithNoiseSD(0))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Node.MaxReach = 5
	cfg.Grid.NNodes = 7
	cfg.Grid.NAnchors = 3
	cfg.Grid.NRequiredAnchors = 3
	cfg.Measurement.SD = 0
	cfg.Simulation.Iterations = 200

	sim, err := simulation.New(cfg,
		simulation.WithWorld(world),
		simulation.WithSeed(5),
	)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	// Internal pairs of the isolated triangle are exact neighbors.
	for _, pair := range [][2]grid.NodeID{{4, 5}, {4, 6}, {5, 6}} {
		d, ok := sim.Distance(pair[0], pair[1])
		require.True(t, ok)
		require.InDelta(t, world.TrueDistance(pair[0], pair[1]), d, 1e-9)
	}

	// No cross-component distance ever resolves, no anchors reached.
	for _, id := range []grid.NodeID{4, 5, 6} {
		node, ok := sim.Network().Node(id)
		require.True(t, ok)
		require.False(t, node.AnchorsReached())
		if _, ok := sim.Distance(id, 0); ok {
			t.Errorf("cross-component distance %d->0 must not resolve", id)
		}
	}
}

// TestRun_ContextCancellation: a canceled context stops the scheduler.
func TestRun_ContextCancellation(t *testing.T) {
	cfg := hubConfig(config.StrategyRandomTargetHopLevel)
	sim, err := simulation.New(cfg,
		simulation.WithWorld(hubWorld(t)),
		simulation.WithSeed(3),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sim.Run(ctx), context.Canceled)
}

// TestRun_NoisyMeasurements: with Gaussian noise the neighbor estimates
// stay within a few σ of the truth thanks to the ranging filter.
func TestRun_NoisyMeasurements(t *testing.T) {
	world, err := grid.NewGridFromPositions(hubPositions,
		grid.WithMaxReach(6), grid.WithNoiseSD(0.1), grid.WithSeed(11))
	require.NoError(t, err)

	cfg := hubConfig(config.StrategyRandomTargetHopLevel)
	cfg.Measurement.SD = 0.1
	cfg.Simulation.Iterations = 0 // neighbors only

	sim, err := simulation.New(cfg,
		simulation.WithWorld(world),
		simulation.WithSeed(11),
	)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	for _, node := range sim.Nodes() {
		for _, target := range node.CompletedIDs() {
			sol, ok := node.KnownDistance(target)
			require.True(t, ok)
			truth := world.TrueDistance(node.ID(), target)
			require.Lessf(t, math.Abs(sol.Value-truth), 5*0.1,
				"neighbor estimate %d->%d off by more than 5σ", node.ID(), target)
		}
	}
}

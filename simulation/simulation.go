package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/OilyCannelloni/simplex-mesh/config"
	"github.com/OilyCannelloni/simplex-mesh/grid"
	"github.com/OilyCannelloni/simplex-mesh/mesh"
)

// ErrUnknownStrategy indicates an unrecognized strategy selector in the
// configuration.
var ErrUnknownStrategy = errors.New("simulation: unknown strategy selector")

// logProgressEvery is the pass interval between progress log lines.
const logProgressEvery = 100

// Simulation owns the full state of one run. Construct with New, drive
// with Run, inspect through the reporting helpers.
type Simulation struct {
	cfg   config.Config
	world *grid.Grid
	net   *mesh.Network
	nodes []*mesh.Node
	log   *zap.SugaredLogger
	rng   *rand.Rand
}

// Options holds construction-time overrides.
type Options struct {
	// Rand drives placement, noise, and every node's sampling.
	Rand *rand.Rand

	// Log receives progress and node events.
	Log *zap.SugaredLogger

	// World overrides the generated grid; used by tests that need a
	// fixed topology.
	World *grid.Grid
}

// Option configures a Simulation via functional arguments.
type Option func(*Options)

// WithSeed locks the run to a deterministic RNG.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Rand = rand.New(rand.NewSource(seed)) }
}

// WithRand provides an explicit RNG.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		if r != nil {
			o.Rand = r
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *Options) {
		if log != nil {
			o.Log = log
		}
	}
}

// WithWorld injects a pre-built grid instead of generating one.
func WithWorld(g *grid.Grid) Option {
	return func(o *Options) { o.World = g }
}

// New validates cfg, builds (or adopts) the grid, and constructs the
// network with the first n_anchors ids flagged as anchors. Every node
// then measures its neighbors through the ranging pipeline.
func New(cfg config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := Options{
		Rand: rand.New(rand.NewSource(1)),
		Log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	strategy, err := strategyFor(cfg.Simulation.Node)
	if err != nil {
		return nil, err
	}

	world := o.World
	if world == nil {
		walls := make([]grid.Wall, 0, len(cfg.Grid.Walls))
		for _, w := range cfg.Grid.Walls {
			walls = append(walls, grid.Wall{X: w[0], Y: w[1], W: w[2], H: w[3]})
		}
		world, err = grid.NewGrid(cfg.Grid.NNodes, cfg.Grid.Size,
			grid.WithMaxReach(cfg.Node.MaxReach),
			grid.WithMinSeparation(cfg.Grid.MinNodeRealDistance),
			grid.WithNoiseSD(cfg.Measurement.SD),
			grid.WithWalls(walls),
			grid.WithRand(o.Rand),
		)
		if err != nil {
			return nil, err
		}
	}

	s := &Simulation{
		cfg:   cfg,
		world: world,
		net:   mesh.NewNetwork(),
		nodes: make([]*mesh.Node, 0, world.Len()),
		log:   o.Log,
		rng:   o.Rand,
	}

	for id := grid.NodeID(0); int(id) < world.Len(); id++ {
		node, err := mesh.NewNode(id, s.net, world,
			mesh.WithMaxReach(cfg.Node.MaxReach),
			mesh.WithMaxReachConstant(cfg.SolutionSet.MaxReachConstant),
			mesh.WithAnchorsRequired(cfg.Grid.NRequiredAnchors),
			mesh.WithHopAdvanceThreshold(cfg.Node.HopLevelAdvanceThreshold),
			mesh.WithSetTuning(
				cfg.SolutionSet.DerivFilterSize,
				cfg.SolutionSet.DerivFilterAvgThreshold,
				cfg.SolutionSet.MaxSetLength,
			),
			mesh.WithStrategy(strategy),
			mesh.WithRand(rand.New(rand.NewSource(s.rng.Int63()))),
			mesh.WithLogger(s.log),
		)
		if err != nil {
			return nil, err
		}
		if int(id) < cfg.Grid.NAnchors {
			node.SetAnchor(world)
		}
		s.nodes = append(s.nodes, node)
	}

	for _, node := range s.nodes {
		node.MeasureNeighbors()
	}

	return s, nil
}

// strategyFor maps the configuration selector to a Strategy value.
func strategyFor(selector string) (mesh.Strategy, error) {
	switch selector {
	case config.StrategyRandomTarget:
		return mesh.RandomTarget{}, nil
	case config.StrategyRandomGate:
		return mesh.RandomGate{}, nil
	case config.StrategyRandomTargetHopLevel:
		return mesh.RandomTargetHopLevel{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, selector)
	}
}

// Run drives the round-robin scheduler for the configured pass budget.
// Within a pass, earlier nodes may resolve edges visible to later nodes;
// that ordering is part of the algorithm. Returns early only on context
// cancellation; hitting the budget with partial progress is a clean halt.
func (s *Simulation) Run(ctx context.Context) error {
	for pass := 0; pass < s.cfg.Simulation.Iterations; pass++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for _, node := range s.nodes {
			node.Step()
		}
		if pass%logProgressEvery == 0 {
			s.log.Debugw("scheduler pass", "pass", pass, "anchored", s.AnchoredCount())
		}
	}

	return nil
}

// World returns the grid the run was built on.
func (s *Simulation) World() *grid.Grid { return s.world }

// Network returns the node arena.
func (s *Simulation) Network() *mesh.Network { return s.net }

// Nodes returns the nodes in id order.
func (s *Simulation) Nodes() []*mesh.Node { return s.nodes }

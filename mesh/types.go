// Package mesh defines the oracle interfaces, node options, and sentinel
// errors of the distance-completion engine.
package mesh

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/OilyCannelloni/simplex-mesh/grid"
)

// Sentinel errors for node and network construction.
var (
	// ErrDuplicateID indicates the id is already registered with the Network.
	ErrDuplicateID = errors.New("mesh: node id already in use")

	// ErrNilOracle indicates a nil world oracle was passed to NewNode.
	ErrNilOracle = errors.New("mesh: world oracle is nil")

	// ErrNilNetwork indicates a nil network was passed to NewNode.
	ErrNilNetwork = errors.New("mesh: network is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("mesh: invalid option supplied")
)

// Oracle is the slice of the physical world a node can interrogate:
// ranging to whatever is in direct reach, and the reachability structure
// around itself. *grid.Grid satisfies it.
type Oracle interface {
	// MeasuredDistance returns one noisy range sample, or false when the
	// target is out of direct range.
	MeasuredDistance(origin, target grid.NodeID) (float64, bool)

	// NeighborsOf returns the ids within direct range of origin.
	NeighborsOf(origin grid.NodeID) []grid.NodeID

	// HopLayersFrom returns BFS depth classes of the reachability graph;
	// layer 0 is {origin}. Unreachable nodes appear in no layer.
	HopLayersFrom(origin grid.NodeID) [][]grid.NodeID
}

// PositionOracle reveals ground-truth positions; only anchor nodes
// consult it, once, at construction. *grid.Grid satisfies it.
type PositionOracle interface {
	TruePosition(id grid.NodeID) grid.Point2D
}

// TargetInfo describes another node from the perspective of an origin
// node: its BFS hop distance and whether the edge to it is resolved.
type TargetInfo struct {
	// ID of the target node.
	ID grid.NodeID

	// Hops is the BFS depth from the origin; immutable after init.
	Hops int

	// Completed flips false→true when the edge resolves, never back.
	Completed bool
}

// NodeOptions holds a node's tunable parameters.
type NodeOptions struct {
	// MaxReach mirrors the radio reach; with MaxReachConstant it derives
	// the solution cutoff below which solver roots are spurious.
	MaxReach float64

	// MaxReachConstant is the cutoff fraction of MaxReach.
	MaxReachConstant float64

	// AnchorsRequired is how many anchor distances unlock positioning.
	AnchorsRequired int

	// HopAdvanceThreshold is the resolved fraction of the current hop
	// layer at which the hop-level strategy admits the next layer.
	HopAdvanceThreshold float64

	// RangeSamples is how many ranging samples feed each neighbor's
	// filter before the estimate is read.
	RangeSamples int

	// DerivFilterSize, DerivAvgThreshold and MaxSetLength configure every
	// SolutionSet the node creates, beyond the cutoff derived above.
	DerivFilterSize   int
	DerivAvgThreshold float64
	MaxSetLength      int

	// Strategy drives Step. Defaults to RandomTargetHopLevel.
	Strategy Strategy

	// Rand is the node's RNG for target and gate sampling.
	Rand *rand.Rand

	// Log receives per-edge resolution events at debug level.
	Log *zap.SugaredLogger

	// internal error recorded during option parsing
	err error
}

// Option configures a Node via functional arguments.
type Option func(*NodeOptions)

// DefaultNodeOptions mirrors the latest field configuration.
func DefaultNodeOptions() NodeOptions {
	return NodeOptions{
		MaxReach:            5.0,
		MaxReachConstant:    0.6,
		AnchorsRequired:     3,
		HopAdvanceThreshold: 0.5,
		RangeSamples:        10,
		DerivFilterSize:     5,
		DerivAvgThreshold:   0.01,
		MaxSetLength:        256,
		Strategy:            RandomTargetHopLevel{},
		Rand:                rand.New(rand.NewSource(1)),
		Log:                 zap.NewNop().Sugar(),
	}
}

// WithMaxReach sets the radio reach used to derive the solution cutoff.
func WithMaxReach(r float64) Option {
	return func(o *NodeOptions) {
		if r <= 0 {
			o.err = fmt.Errorf("%w: MaxReach must be positive (%v)", ErrOptionViolation, r)
			return
		}
		o.MaxReach = r
	}
}

// WithMaxReachConstant sets the cutoff fraction.
func WithMaxReachConstant(c float64) Option {
	return func(o *NodeOptions) {
		if c < 0 || c > 1 {
			o.err = fmt.Errorf("%w: MaxReachConstant outside [0,1] (%v)", ErrOptionViolation, c)
			return
		}
		o.MaxReachConstant = c
	}
}

// WithAnchorsRequired sets how many anchors unlock positioning.
func WithAnchorsRequired(n int) Option {
	return func(o *NodeOptions) {
		if n < 1 {
			o.err = fmt.Errorf("%w: AnchorsRequired must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.AnchorsRequired = n
	}
}

// WithHopAdvanceThreshold sets the layer-completion fraction that admits
// the next hop layer.
func WithHopAdvanceThreshold(t float64) Option {
	return func(o *NodeOptions) {
		if t <= 0 || t > 1 {
			o.err = fmt.Errorf("%w: HopAdvanceThreshold outside (0,1] (%v)", ErrOptionViolation, t)
			return
		}
		o.HopAdvanceThreshold = t
	}
}

// WithRangeSamples sets how many samples feed each neighbor filter.
func WithRangeSamples(n int) Option {
	return func(o *NodeOptions) {
		if n < 1 {
			o.err = fmt.Errorf("%w: RangeSamples must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.RangeSamples = n
	}
}

// WithSetTuning forwards SolutionSet tunables to every set the node creates.
func WithSetTuning(derivFilterSize int, derivAvgThreshold float64, maxSetLength int) Option {
	return func(o *NodeOptions) {
		if derivFilterSize > 0 {
			o.DerivFilterSize = derivFilterSize
		}
		if derivAvgThreshold > 0 {
			o.DerivAvgThreshold = derivAvgThreshold
		}
		if maxSetLength > 0 {
			o.MaxSetLength = maxSetLength
		}
	}
}

// WithStrategy selects the step strategy.
func WithStrategy(s Strategy) Option {
	return func(o *NodeOptions) {
		if s == nil {
			o.err = fmt.Errorf("%w: nil Strategy", ErrOptionViolation)
			return
		}
		o.Strategy = s
	}
}

// WithRand provides an explicit RNG for target and gate sampling.
func WithRand(r *rand.Rand) Option {
	return func(o *NodeOptions) {
		if r == nil {
			o.err = fmt.Errorf("%w: nil Rand", ErrOptionViolation)
			return
		}
		o.Rand = r
	}
}

// WithLogger attaches a logger for resolution and anchor events.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *NodeOptions) {
		if log != nil {
			o.Log = log
		}
	}
}

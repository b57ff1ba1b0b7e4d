// Package config holds the flat keyed configuration of a simplex-mesh
// run. Defaults mirror the latest field generation; YAML files override
// them key by key.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy selector values for Simulation.Node.
const (
	StrategyRandomTarget         = "RandomTargetStrategy"
	StrategyRandomGate           = "RandomGateStrategy"
	StrategyRandomTargetHopLevel = "RandomTargetHopLevelStrategy"
)

// Sentinel errors for configuration loading and validation.
var (
	// ErrRead indicates the config file could not be read.
	ErrRead = errors.New("config: cannot read file")

	// ErrParse indicates malformed YAML.
	ErrParse = errors.New("config: cannot parse file")

	// ErrValidate indicates a value outside its legal range.
	ErrValidate = errors.New("config: invalid value")
)

// Config is the full configuration snapshot of a run.
type Config struct {
	Node        NodeConfig        `yaml:"node"`
	Grid        GridConfig        `yaml:"grid"`
	Measurement MeasurementConfig `yaml:"measurement"`
	SolutionSet SolutionSetConfig `yaml:"solution_set"`
	Simulation  SimulationConfig  `yaml:"simulation"`
}

// NodeConfig covers radio and hop-policy parameters.
type NodeConfig struct {
	// MaxReach is the radio range used by the adjacency oracle.
	MaxReach float64 `yaml:"max_reach"`

	// HopLevelAdvanceThreshold is the resolved fraction of the current
	// hop layer at which the next layer is admitted.
	HopLevelAdvanceThreshold float64 `yaml:"hop_level_advance_threshold"`
}

// GridConfig covers topology parameters.
type GridConfig struct {
	NNodes              int     `yaml:"n_nodes"`
	NAnchors            int     `yaml:"n_anchors"`
	NRequiredAnchors    int     `yaml:"n_required_anchors"`
	MinNodeRealDistance float64 `yaml:"min_node_real_distance"`
	Size                float64 `yaml:"size"`

	// Walls lists rectangular obstacles as [x, y, w, h] rows.
	Walls [][4]float64 `yaml:"walls"`
}

// MeasurementConfig covers synthetic noise, simulation only.
type MeasurementConfig struct {
	SD float64 `yaml:"sd"`
}

// SolutionSetConfig covers the per-edge accumulator tunables.
type SolutionSetConfig struct {
	MaxSetLength            int     `yaml:"max_set_length"`
	DerivFilterSize         int     `yaml:"deriv_filter_size"`
	DerivFilterAvgThreshold float64 `yaml:"deriv_filter_avg_threshold"`
	MaxReachConstant        float64 `yaml:"max_reach_constant"`
}

// SimulationConfig covers the scheduler budget and strategy selector.
type SimulationConfig struct {
	Iterations int `yaml:"iterations"`

	// Node selects the step strategy; one of the Strategy* constants.
	Node string `yaml:"node"`
}

// Default returns the configuration of the latest source generation.
func Default() Config {
	return Config{
		Node: NodeConfig{
			MaxReach:                 5.0,
			HopLevelAdvanceThreshold: 0.5,
		},
		Grid: GridConfig{
			NNodes:              20,
			NAnchors:            4,
			NRequiredAnchors:    3,
			MinNodeRealDistance: 1.0,
			Size:                10,
		},
		Measurement: MeasurementConfig{SD: 0.2},
		SolutionSet: SolutionSetConfig{
			MaxSetLength:            256,
			DerivFilterSize:         5,
			DerivFilterAvgThreshold: 0.01,
			MaxReachConstant:        0.6,
		},
		Simulation: SimulationConfig{
			Iterations: 1000,
			Node:       StrategyRandomTargetHopLevel,
		},
	}
}

// Load reads a YAML file over the defaults.
// Returns ErrRead, ErrParse, or ErrValidate.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks value ranges. Zero-configuration (Default) always passes.
func (c Config) Validate() error {
	switch {
	case c.Node.MaxReach <= 0:
		return fmt.Errorf("%w: node.max_reach must be positive", ErrValidate)
	case c.Node.HopLevelAdvanceThreshold <= 0 || c.Node.HopLevelAdvanceThreshold > 1:
		return fmt.Errorf("%w: node.hop_level_advance_threshold outside (0,1]", ErrValidate)
	case c.Grid.NNodes <= 0:
		return fmt.Errorf("%w: grid.n_nodes must be positive", ErrValidate)
	case c.Grid.NAnchors < 0 || c.Grid.NAnchors > c.Grid.NNodes:
		return fmt.Errorf("%w: grid.n_anchors outside [0, n_nodes]", ErrValidate)
	case c.Grid.NRequiredAnchors < 1:
		return fmt.Errorf("%w: grid.n_required_anchors must be positive", ErrValidate)
	case c.Grid.Size <= 0:
		return fmt.Errorf("%w: grid.size must be positive", ErrValidate)
	case c.Measurement.SD < 0:
		return fmt.Errorf("%w: measurement.sd cannot be negative", ErrValidate)
	case c.SolutionSet.MaxSetLength < 1:
		return fmt.Errorf("%w: solution_set.max_set_length must be positive", ErrValidate)
	case c.SolutionSet.DerivFilterSize < 1:
		return fmt.Errorf("%w: solution_set.deriv_filter_size must be positive", ErrValidate)
	case c.SolutionSet.MaxReachConstant < 0 || c.SolutionSet.MaxReachConstant > 1:
		return fmt.Errorf("%w: solution_set.max_reach_constant outside [0,1]", ErrValidate)
	case c.Simulation.Iterations < 0:
		return fmt.Errorf("%w: simulation.iterations cannot be negative", ErrValidate)
	}
	switch c.Simulation.Node {
	case StrategyRandomTarget, StrategyRandomGate, StrategyRandomTargetHopLevel:
	default:
		return fmt.Errorf("%w: unknown simulation.node %q", ErrValidate, c.Simulation.Node)
	}

	return nil
}

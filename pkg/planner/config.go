package planner

import (
	"errors"
	"fmt"

	"github.com/tochemey/goakt/v3/log"
)

// ErrUnknownStrategy is returned for an operator name no preset knows.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Path representations.
const (
	RepresentationPolar  = "polar"
	RepresentationBezier = "bezier"
)

// Operator names accepted in Config.
const (
	InitNarrowCone = "narrow_cone"
	InitGlobe      = "globe"
	InitKinetic    = "kinetic"

	SelectRoulette   = "roulette"
	SelectTruncation = "truncation"

	MutateResample            = "resample"
	MutateLengthJitter        = "length_jitter"
	MutateGreedyCircle        = "greedy_circle"
	MutateStraightFinish      = "straight_finish"
	MutateStretchAcceleration = "stretch_acceleration"
	MutateSmooth              = "smooth"
	MutateShuffle             = "shuffle"
)

// Weights are the objective weights of the weighted-sum ranking.
type Weights struct {
	Collision   float64 `json:"collision"`
	EndDistance float64 `json:"endDistance"`
	Jerk        float64 `json:"jerk"`
}

// Config describes a planner. The zero values of optional fields fall back to
// the defaults of DefaultConfig when building.
type Config struct {
	Representation      string   `json:"representation"`
	PopulationSize      int      `json:"populationSize"`
	Iterations          int      `json:"iterations"`
	PathLength          int      `json:"pathLength"`
	Elite               int      `json:"elite"`
	Parallelism         int      `json:"parallelism"`
	Initialization      string   `json:"initialization"`
	Cone                float64  `json:"cone"`
	Selection           string   `json:"selection"`
	TruncationKeep      int      `json:"truncationKeep"`
	CrossoverRate       float64  `json:"crossoverRate"`
	Mutations           []string `json:"mutations"`
	MutationProbability float64  `json:"mutationProbability"`
	RotationRange       float64  `json:"rotationRange"`
	ControlPoints       int      `json:"controlPoints"`
	Weights             Weights  `json:"weights"`
}

// DefaultConfig is population 10, 50 generations, 10-step paths, kinetic
// initialization, truncation keeping 5, mean crossover and resampling
// mutation with a 15 degree range.
func DefaultConfig() Config {
	return Config{
		Representation:      RepresentationPolar,
		PopulationSize:      10,
		Iterations:          50,
		PathLength:          10,
		Elite:               0,
		Parallelism:         1,
		Initialization:      InitKinetic,
		Cone:                120,
		Selection:           SelectTruncation,
		TruncationKeep:      DefaultTruncationKeep,
		CrossoverRate:       1,
		Mutations:           []string{MutateResample},
		MutationProbability: DefaultMutationProbability,
		RotationRange:       DefaultRotationRange,
		ControlPoints:       MinControlPoints,
		Weights: Weights{
			Collision:   DefaultCollisionWeight,
			EndDistance: DefaultEndDistanceWeight,
			Jerk:        DefaultJerkWeight,
		},
	}
}

// Validate checks the ranges Config fields must respect.
func (c Config) Validate() error {
	switch {
	case c.PopulationSize < 1:
		return fmt.Errorf("%w: populationSize must be >= 1, got %d", ErrInvalidConfig, c.PopulationSize)
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalidConfig, c.Iterations)
	case c.PathLength < 1:
		return fmt.Errorf("%w: pathLength must be >= 1, got %d", ErrInvalidConfig, c.PathLength)
	case c.Elite < 0 || c.Elite > c.PopulationSize:
		return fmt.Errorf("%w: elite must be in [0, %d], got %d", ErrInvalidConfig, c.PopulationSize, c.Elite)
	case c.CrossoverRate < 0 || c.CrossoverRate > 1:
		return fmt.Errorf("%w: crossoverRate must be in [0, 1], got %v", ErrInvalidConfig, c.CrossoverRate)
	case c.MutationProbability < 0 || c.MutationProbability > 1:
		return fmt.Errorf("%w: mutationProbability must be in [0, 1], got %v", ErrInvalidConfig, c.MutationProbability)
	case c.Weights.Collision < 0 || c.Weights.EndDistance < 0 || c.Weights.Jerk < 0:
		return fmt.Errorf("%w: weights must be non-negative", ErrInvalidConfig)
	}
	switch c.Representation {
	case RepresentationPolar, RepresentationBezier:
	default:
		return fmt.Errorf("%w: representation %q", ErrUnknownStrategy, c.Representation)
	}
	return nil
}

// Build creates the planner described by c, as a Steering.
func Build(c Config, sink Sink, logger log.Logger) (Steering, error) {
	if c.Representation == RepresentationBezier {
		p, err := NewBezierPlanner(c, sink, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	p, err := NewPolarPlanner(c, sink, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (c Config) objectives() ([]Objective, WeightedSum, error) {
	ws, err := NewWeightedSum(c.Weights.Collision, c.Weights.EndDistance, c.Weights.Jerk)
	if err != nil {
		return nil, WeightedSum{}, err
	}
	return []Objective{Collision{}, EndDistance{}, Jerk{}}, ws, nil
}

func selectorFor[G Genome[G]](c Config) (Selector[G], error) {
	switch c.Selection {
	case SelectRoulette:
		return Roulette[G]{}, nil
	case SelectTruncation, "":
		return Truncation[G]{Keep: c.TruncationKeep}, nil
	}
	return nil, fmt.Errorf("%w: selection %q", ErrUnknownStrategy, c.Selection)
}

// NewPolarPlanner builds a polar-delta planner from c.
func NewPolarPlanner(c Config, sink Sink, logger log.Logger) (*Planner[PolarPath], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var init Initializer[PolarPath]
	switch c.Initialization {
	case InitNarrowCone:
		init = NarrowCone{Cone: c.Cone}
	case InitGlobe:
		init = Globe{Turn: 2 * c.RotationRange}
	case InitKinetic, "":
		init = KineticFriendly{InitialCone: c.Cone / 2, Turn: c.RotationRange}
	default:
		return nil, fmt.Errorf("%w: initialization %q", ErrUnknownStrategy, c.Initialization)
	}

	mutators := make([]Mutator[PolarPath], 0, len(c.Mutations))
	for _, name := range c.Mutations {
		switch name {
		case MutateResample:
			mutators = append(mutators, RandomResample{Probability: c.MutationProbability, RotationRange: c.RotationRange})
		case MutateLengthJitter:
			mutators = append(mutators, LengthJitter{Probability: DefaultLengthJitter})
		case MutateGreedyCircle:
			mutators = append(mutators, GreedyCircle{Probability: c.MutationProbability})
		default:
			return nil, fmt.Errorf("%w: mutation %q for polar paths", ErrUnknownStrategy, name)
		}
	}

	selector, err := selectorFor[PolarPath](c)
	if err != nil {
		return nil, err
	}
	objectives, ranking, err := c.objectives()
	if err != nil {
		return nil, err
	}
	return New(Options[PolarPath]{
		PopulationSize: c.PopulationSize,
		Iterations:     c.Iterations,
		PathLength:     c.PathLength,
		Elite:          c.Elite,
		Parallelism:    c.Parallelism,
		Allocator:      NewPolarPath,
		Initializer:    init,
		Objectives:     objectives,
		Combiner:       ranking,
		Selector:       selector,
		Crossover:      MeanCrossover[PolarPath]{Rate: c.CrossoverRate},
		Mutators:       mutators,
		Sink:           sink,
		Logger:         logger,
	})
}

// NewBezierPlanner builds a Bezier planner from c.
func NewBezierPlanner(c Config, sink Sink, logger log.Logger) (*Planner[BezierPath], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cone := c.Cone / 2

	mutators := make([]Mutator[BezierPath], 0, len(c.Mutations))
	for _, name := range c.Mutations {
		p := c.MutationProbability
		switch name {
		case MutateStraightFinish:
			mutators = append(mutators, StraightFinish{Probability: p})
		case MutateStretchAcceleration:
			mutators = append(mutators, StretchAcceleration{Probability: p})
		case MutateSmooth:
			mutators = append(mutators, Smooth{Probability: p})
		case MutateShuffle, MutateResample:
			mutators = append(mutators, Shuffle{Probability: p, Share: 0.5, Cone: cone})
		default:
			return nil, fmt.Errorf("%w: mutation %q for bezier paths", ErrUnknownStrategy, name)
		}
	}

	selector, err := selectorFor[BezierPath](c)
	if err != nil {
		return nil, err
	}
	objectives, ranking, err := c.objectives()
	if err != nil {
		return nil, err
	}
	return New(Options[BezierPath]{
		PopulationSize: c.PopulationSize,
		Iterations:     c.Iterations,
		PathLength:     c.PathLength,
		Elite:          c.Elite,
		Parallelism:    c.Parallelism,
		Allocator:      BezierAllocator(c.ControlPoints),
		Initializer:    BezierCone{Cone: cone},
		Objectives:     objectives,
		Combiner:       ranking,
		Selector:       selector,
		Crossover:      MeanCrossover[BezierPath]{Rate: c.CrossoverRate},
		Mutators:       mutators,
		Sink:           sink,
		Logger:         logger,
	})
}

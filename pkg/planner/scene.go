package planner

import (
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
)

// DefaultTickInterval replaces a missing or non-positive tick interval.
const DefaultTickInterval = 0.1

var negInf = math.Inf(-1)

// Scene is the immutable snapshot a run plans against.
type Scene struct {
	AgentID     int
	Tick        uint64
	Position    geometry.Vector2D
	Destination geometry.Vector2D
	// Forward is the current heading. It does not need to be normalized.
	Forward geometry.Vector2D
	// Speed is the speed limit, in units per second.
	Speed float64
	// PreviousSpeed is the magnitude of the velocity applied on the last tick, in units per second.
	PreviousSpeed   float64
	Radius          float64
	MaxAcceleration float64
	TickInterval    float64
	// Index is the read-only neighbour snapshot for this tick. Nil means no neighbours.
	Index spatial.Index
	// Seed seeds the run's random stream. Zero derives one from the tick and the agent id.
	Seed uint64
}

// normalized returns a copy safe for the operators: unit forward (+X when
// undefined), a positive tick interval, non-negative limits and a non-nil index.
func (s Scene) normalized() Scene {
	s.Forward = s.Forward.Heading(geometry.UnitX)
	if !(s.TickInterval > 0) || math.IsInf(s.TickInterval, 0) {
		s.TickInterval = DefaultTickInterval
	}
	s.Speed = nonNegative(s.Speed)
	s.PreviousSpeed = math.Min(nonNegative(s.PreviousSpeed), s.Speed)
	s.Radius = nonNegative(s.Radius)
	s.MaxAcceleration = nonNegative(s.MaxAcceleration)
	if s.Index == nil {
		s.Index = spatial.Empty{}
	}
	return s
}

// MaxStep is the longest displacement allowed in one tick.
func (s *Scene) MaxStep() float64 {
	return s.Speed * s.TickInterval
}

// Reach is the distance covered by a path of n max-length steps.
func (s *Scene) Reach(n int) float64 {
	return float64(n) * s.MaxStep()
}

// ToDestination is the vector from the position to the destination.
func (s *Scene) ToDestination() geometry.Vector2D {
	return s.Destination.Sub(s.Position)
}

// accelerationStep is the largest speed change allowed between two steps.
// Zero means unconstrained.
func (s *Scene) accelerationStep() float64 {
	return s.MaxAcceleration * s.TickInterval
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// Package behavior holds non-evolutionary steering rules. They serve as a
// baseline the genetic planners are compared against.
package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
)

// Settings controls the probes of a Reactive rule.
type Settings struct {
	LookAhead float64 // probe length, in ticks of travel at full speed
	TurnStep  float64 // degrees between two probed headings
	MaxTurn   float64 // widest probe on each side, in degrees
}

// DefaultSettings probes half a second ahead, every 15 degrees up to 90.
func DefaultSettings() Settings {
	return Settings{LookAhead: 5, TurnStep: 15, MaxTurn: 90}
}

// Reactive seeks the destination and, when the way is blocked, turns to the
// closest free heading, left first. With every heading blocked it creeps
// forward at half a step if the next step alone is free, and waits otherwise.
type Reactive struct {
	Settings Settings
}

// NewReactive returns a rule with DefaultSettings.
func NewReactive() Reactive {
	return Reactive{Settings: DefaultSettings()}
}

// Plan implements planner.Steering.
func (r Reactive) Plan(s planner.Scene) planner.Result {
	toDest := s.Destination.Sub(s.Position)
	dist := toDest.Len()
	if dist < geometry.Epsilon {
		return planner.Result{Target: s.Position, Fitness: 1}
	}
	index := s.Index
	if index == nil {
		index = spatial.Empty{}
	}

	step := math.Min(stepLength(s), dist)
	probe := math.Min(s.Speed*s.TickInterval*r.Settings.LookAhead, dist)
	free := func(heading geometry.Vector2D, length float64) bool {
		end := s.Position.Add(heading.Mul(length))
		return index.Query(s.Position, end, s.Radius, s.AgentID) == 0
	}

	desired := toDest.Heading(s.Forward.Heading(geometry.UnitX))
	turns := 0
	if r.Settings.TurnStep > 0 {
		turns = int(r.Settings.MaxTurn / r.Settings.TurnStep)
	}
	for k := 0; k <= turns; k++ {
		for _, side := range [2]float64{1, -1} {
			if k == 0 && side < 0 {
				continue
			}
			heading := desired.RotateDegrees(side * float64(k) * r.Settings.TurnStep)
			if free(heading, probe) {
				return result(s, heading.Mul(step), 1/float64(1+k))
			}
		}
	}
	if free(desired, step) {
		return result(s, desired.Mul(step/2), 0)
	}
	return result(s, geometry.Vector2D{}, 0)
}

// stepLength is the full-speed step bounded by the acceleration limit.
func stepLength(s planner.Scene) float64 {
	dt := s.TickInterval
	step := s.Speed * dt
	if s.MaxAcceleration <= 0 {
		return step
	}
	lo := math.Max(0, s.PreviousSpeed-s.MaxAcceleration*dt) * dt
	hi := (s.PreviousSpeed + s.MaxAcceleration*dt) * dt
	return math.Max(lo, math.Min(hi, step))
}

func result(s planner.Scene, v geometry.Vector2D, fitness float64) planner.Result {
	return planner.Result{Velocity: v, Target: v.MoveToOrigin(s.Position), Fitness: fitness}
}

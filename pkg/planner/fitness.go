package planner

import (
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// Objective scores one traced path in [0, 1]; higher is better.
// trace holds the absolute points of the path, starting at the scene position.
// Objectives are read-only on both arguments and may run concurrently.
type Objective interface {
	Name() string
	Score(trace []geometry.Vector2D, s *Scene) float64
}

// Collision penalizes every step whose swept disc touches a neighbour.
// Early hits weigh more than late ones: the first step counts fully, the
// last one 1/n.
type Collision struct{}

func (Collision) Name() string { return "collision" }

func (Collision) Score(trace []geometry.Vector2D, s *Scene) float64 {
	n := len(trace) - 1
	if n <= 0 {
		return 1
	}
	penalty := 0.0
	for j := 1; j <= n; j++ {
		hits := s.Index.Query(trace[j-1], trace[j], s.Radius, s.AgentID)
		if hits == 0 {
			continue
		}
		penalty += float64(hits) * float64(n-j+1) / float64(n)
	}
	return 1 / (1 + penalty)
}

// EndDistance rewards paths ending close to the destination, scaled down by
// how far the implied speeds break the speed and acceleration limits.
type EndDistance struct{}

func (EndDistance) Name() string { return "end_distance" }

func (EndDistance) Score(trace []geometry.Vector2D, s *Scene) float64 {
	n := len(trace) - 1
	initial := s.Position.DistanceTo(s.Destination)
	span := initial + s.Reach(n)
	if span < geometry.Epsilon {
		return 1
	}
	remaining := trace[len(trace)-1].DistanceTo(s.Destination)
	progress := math.Max(0, 1-remaining/span)
	return progress * Feasibility(trace, s)
}

// Feasibility is 1 for paths whose implied per-step speeds stay under the
// speed limit and change by at most MaxAcceleration*TickInterval between steps,
// starting from PreviousSpeed. Each violation, measured in units of the speed
// limit, decays it exponentially.
func Feasibility(trace []geometry.Vector2D, s *Scene) float64 {
	norm := math.Max(s.Speed, geometry.Epsilon)
	allowed := s.accelerationStep()
	excess := 0.0
	prev := s.PreviousSpeed
	for j := 1; j < len(trace); j++ {
		v := trace[j].DistanceTo(trace[j-1]) / s.TickInterval
		if over := v - s.Speed; over > geometry.Epsilon {
			excess += over / norm
		}
		if allowed > 0 {
			if over := math.Abs(v-prev) - allowed; over > geometry.Epsilon {
				excess += over / norm
			}
		}
		prev = v
	}
	return math.Exp(-excess)
}

// Jerk rewards smooth motion: the mean change between consecutive step
// vectors, relative to the longest step, is mapped to 1/(1+cost). The step
// before the first one is the previous velocity along the forward direction.
type Jerk struct{}

func (Jerk) Name() string { return "jerk" }

func (Jerk) Score(trace []geometry.Vector2D, s *Scene) float64 {
	n := len(trace) - 1
	maxStep := s.MaxStep()
	if n <= 0 || maxStep < geometry.Epsilon {
		return 1
	}
	prev := s.Forward.Mul(s.PreviousSpeed * s.TickInterval)
	total := 0.0
	for j := 1; j <= n; j++ {
		step := trace[j].Sub(trace[j-1])
		total += step.DistanceTo(prev)
		prev = step
	}
	return 1 / (1 + total/(float64(n)*maxStep))
}

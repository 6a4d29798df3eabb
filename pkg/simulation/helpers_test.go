package simulation

import (
	"math"
	"sync/atomic"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func vecNear(a, b geometry.Vector2D) bool {
	return floatEquals(a.X, b.X) && floatEquals(a.Y, b.Y)
}

// directSteering walks straight at the scene destination at full speed,
// landing on it when it is within one step.
type directSteering struct {
	calls atomic.Int64
}

func (d *directSteering) Plan(s planner.Scene) planner.Result {
	d.calls.Add(1)
	step := s.Destination.Sub(s.Position).ClampLen(s.Speed * s.TickInterval)
	return planner.Result{Velocity: step, Target: s.Position.Add(step)}
}

func testParams() AgentParams {
	return AgentParams{
		Speed:           5,
		Radius:          0.5,
		MaxAcceleration: 10,
		ArriveDistance:  0.1,
		CornerDistance:  1,
	}
}

package behavior

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func scene(index spatial.Index) planner.Scene {
	return planner.Scene{
		AgentID:         1,
		Position:        geometry.Vector2D{},
		Forward:         geometry.Vector2D{X: 0, Y: 1},
		Destination:     geometry.Vector2D{X: 0, Y: 40},
		Speed:           5,
		PreviousSpeed:   5,
		Radius:          0.5,
		MaxAcceleration: 10,
		TickInterval:    0.1,
		Index:           index,
	}
}

func TestReactive_Plan(t *testing.T) {
	r := NewReactive()
	tests := []struct {
		name    string
		scene   func() planner.Scene
		want    geometry.Vector2D
		fitness float64
	}{
		{
			name:    "Free road goes straight at full speed",
			scene:   func() planner.Scene { return scene(nil) },
			want:    geometry.Vector2D{X: 0, Y: 0.5},
			fitness: 1,
		},
		{
			name: "Blocked ahead turns left first",
			scene: func() planner.Scene {
				return scene(spatial.Linear{{ID: 2, Center: geometry.Vector2D{X: 0, Y: 1.5}, Radius: 0.5}})
			},
			// 15, 30 degrees still pass within 1 unit of the disc; 45 clears it
			want:    geometry.Vector2D{X: -0.5 * math.Sqrt2 / 2, Y: 0.5 * math.Sqrt2 / 2},
			fitness: 1.0 / 4,
		},
		{
			name: "Surrounded waits",
			scene: func() planner.Scene {
				return scene(spatial.Linear{{ID: 2, Center: geometry.Vector2D{}, Radius: 0.5}})
			},
			want:    geometry.Vector2D{},
			fitness: 0,
		},
		{
			name: "Own disc is ignored",
			scene: func() planner.Scene {
				return scene(spatial.Linear{{ID: 1, Center: geometry.Vector2D{}, Radius: 0.5}})
			},
			want:    geometry.Vector2D{X: 0, Y: 0.5},
			fitness: 1,
		},
		{
			name: "Last step stops on the destination",
			scene: func() planner.Scene {
				s := scene(nil)
				s.Destination = geometry.Vector2D{X: 0.2, Y: 0}
				return s
			},
			want:    geometry.Vector2D{X: 0.2, Y: 0},
			fitness: 1,
		},
		{
			name: "Starting from rest is acceleration bound",
			scene: func() planner.Scene {
				s := scene(nil)
				s.PreviousSpeed = 0
				return s
			},
			want:    geometry.Vector2D{X: 0, Y: 0.1},
			fitness: 1,
		},
		{
			name: "Arrived stays put",
			scene: func() planner.Scene {
				s := scene(nil)
				s.Destination = s.Position
				return s
			},
			want:    geometry.Vector2D{},
			fitness: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.scene()
			got := r.Plan(s)
			if !floatEquals(got.Velocity.X, tt.want.X) || !floatEquals(got.Velocity.Y, tt.want.Y) {
				t.Errorf("Velocity = %v; want %v", got.Velocity, tt.want)
			}
			if target := s.Position.Add(tt.want); !floatEquals(got.Target.X, target.X) || !floatEquals(got.Target.Y, target.Y) {
				t.Errorf("Target = %v; want %v", got.Target, target)
			}
			if !floatEquals(got.Fitness, tt.fitness) {
				t.Errorf("Fitness = %v; want %v", got.Fitness, tt.fitness)
			}
		})
	}
}

func TestReactive_CreepsWhenOnlyTheNextStepIsFree(t *testing.T) {
	r := Reactive{Settings: Settings{LookAhead: 5, TurnStep: 0}}
	// blocks the 2.5 unit probe but not the first 0.5 unit step
	s := scene(spatial.Linear{{ID: 2, Center: geometry.Vector2D{X: 0, Y: 2.2}, Radius: 0.5}})
	got := r.Plan(s)
	if !floatEquals(got.Velocity.Y, 0.25) || !floatEquals(got.Velocity.X, 0) {
		t.Errorf("Velocity = %v; want (0, 0.25)", got.Velocity)
	}
}

func TestReactive_ImplementsSteering(t *testing.T) {
	var _ planner.Steering = NewReactive()
}

package viewer

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
)

func TestFitCamera(t *testing.T) {
	spawns := []simulation.Spawn{
		{Start: geometry.Vector2D{X: 0, Y: 0}, Destination: geometry.Vector2D{X: 0, Y: 40}},
		{Start: geometry.Vector2D{X: 10, Y: 0}, Destination: geometry.Vector2D{X: 10, Y: 40}},
	}
	cam := fitCamera(spawns, 10, 800, 600)

	tests := []struct {
		name         string
		world        geometry.Vector2D
		wantX, wantY float32
	}{
		{"Center maps to screen center", geometry.Vector2D{X: 5, Y: 20}, 400, 300},
		{"Up in the world is up on screen", geometry.Vector2D{X: 5, Y: 30}, 400, 200},
		{"Right stays right", geometry.Vector2D{X: 10, Y: 20}, 450, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := cam.toScreen(tt.world)
			if math.Abs(float64(x-tt.wantX)) > 1e-3 || math.Abs(float64(y-tt.wantY)) > 1e-3 {
				t.Errorf("toScreen(%v) = (%v, %v); want (%v, %v)", tt.world, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestFitCamera_Empty(t *testing.T) {
	cam := fitCamera(nil, 12, 100, 100)
	if x, y := cam.toScreen(geometry.Vector2D{}); x != 50 || y != 50 {
		t.Errorf("origin maps to (%v, %v); want (50, 50)", x, y)
	}
}

func TestCamera_ScreenAngle(t *testing.T) {
	cam := camera{scale: 1}
	if got := cam.screenAngle(geometry.Vector2D{X: 0, Y: 1}); math.Abs(got+math.Pi/2) > 1e-9 {
		t.Errorf("screenAngle(up) = %v; want -pi/2", got)
	}
}

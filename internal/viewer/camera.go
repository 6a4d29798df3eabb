package viewer

import (
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
)

// camera maps world units (y up) to screen pixels (y down).
type camera struct {
	center        geometry.Vector2D
	scale         float64
	width, height float64
}

// fitCamera centers the camera on every start and destination of the layout.
func fitCamera(spawns []simulation.Spawn, ppu float64, width, height int) camera {
	c := camera{scale: ppu, width: float64(width), height: float64(height)}
	if len(spawns) == 0 {
		return c
	}
	lo := geometry.Vector2D{X: math.Inf(1), Y: math.Inf(1)}
	hi := geometry.Vector2D{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, s := range spawns {
		for _, p := range []geometry.Vector2D{s.Start, s.Destination} {
			lo = geometry.Vector2D{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
			hi = geometry.Vector2D{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
		}
	}
	c.center = lo.Lerp(hi, 0.5)
	return c
}

func (c camera) toScreen(p geometry.Vector2D) (float32, float32) {
	x := (p.X-c.center.X)*c.scale + c.width/2
	y := c.height/2 - (p.Y-c.center.Y)*c.scale
	return float32(x), float32(y)
}

// screenAngle is the sprite rotation for a world heading.
func (c camera) screenAngle(heading geometry.Vector2D) float64 {
	// screen y points down, so the world angle is mirrored
	return -math.Atan2(heading.Y, heading.X)
}

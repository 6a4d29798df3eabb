package planner

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// Initializer writes the first generation. Every step of every individual must
// be written and every fitness reset to zero.
type Initializer[G Genome[G]] interface {
	Initialize(pop Population[G], s *Scene, rng *rand.Rand)
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// randomLength draws a step length in [0, MaxStep].
func randomLength(rng *rand.Rand, s *Scene) float64 {
	return rng.Float64() * s.MaxStep()
}

// NarrowCone draws every turn uniformly in [-Cone, Cone] degrees and every
// length in [0, speed*tick]. Cone 120 explores widely, 15 keeps turns realistic.
type NarrowCone struct {
	Cone float64
}

func (n NarrowCone) Initialize(pop Population[PolarPath], s *Scene, rng *rand.Rand) {
	for i := range pop {
		path := pop[i].Path
		for j := range path {
			path[j] = PolarStep{Angle: uniform(rng, -n.Cone, n.Cone), Length: randomLength(rng, s)}
		}
		pop[i].Fitness = 0
	}
}

// Globe spreads the first steps evenly around the full circle, one heading
// every 360/len(pop) degrees at full length, then perturbs every later step
// by at most Turn degrees.
type Globe struct {
	Turn float64
}

func (g Globe) Initialize(pop Population[PolarPath], s *Scene, rng *rand.Rand) {
	spread := 360 / float64(len(pop))
	for i := range pop {
		path := pop[i].Path
		for j := range path {
			if j == 0 {
				path[j] = PolarStep{Angle: float64(i) * spread, Length: s.MaxStep()}
				continue
			}
			path[j] = PolarStep{Angle: uniform(rng, -g.Turn, g.Turn), Length: randomLength(rng, s)}
		}
		pop[i].Fitness = 0
	}
}

// KineticFriendly fans the first steps across [-InitialCone, InitialCone) and
// restricts later turns to [-Turn, Turn], avoiding physically implausible paths.
type KineticFriendly struct {
	InitialCone float64
	Turn        float64
}

func (k KineticFriendly) Initialize(pop Population[PolarPath], s *Scene, rng *rand.Rand) {
	spread := 2 * k.InitialCone / float64(len(pop))
	for i := range pop {
		path := pop[i].Path
		for j := range path {
			angle := uniform(rng, -k.Turn, k.Turn)
			if j == 0 {
				angle = -k.InitialCone + float64(i)*spread
			}
			path[j] = PolarStep{Angle: angle, Length: randomLength(rng, s)}
		}
		pop[i].Fitness = 0
	}
}

// BezierCone builds curves that end inside a cone of half-angle Cone degrees
// around the direction of the destination, no farther than the path can reach.
// The second control point sits on the forward axis so curves leave tangent to
// the current heading. Accelerations are drawn within the acceleration limit.
type BezierCone struct {
	Cone float64
}

func (c BezierCone) Initialize(pop Population[BezierPath], s *Scene, rng *rand.Rand) {
	for i := range pop {
		c.randomizeControls(pop[i].Path, s, rng)
		limit := accelerationLimit(s)
		for j := range pop[i].Path.Accelerations {
			pop[i].Path.Accelerations[j] = uniform(rng, -limit, limit)
		}
		pop[i].Fitness = 0
	}
}

// randomizeControls redraws the whole control polygon.
func (c BezierCone) randomizeControls(b BezierPath, s *Scene, rng *rand.Rand) {
	reach := s.Reach(b.Len())
	target := s.Destination.ToLocal(s.Position, s.Forward)
	dist := target.Len()
	if dist > reach {
		dist = reach
	}
	axis := target.Heading(geometry.UnitX)
	end := axis.RotateDegrees(uniform(rng, -c.Cone, c.Cone)).Mul(dist * uniform(rng, 0.5, 1))

	last := len(b.Controls) - 1
	b.Controls[0] = geometry.Vector2D{}
	for k := 1; k <= last; k++ {
		t := float64(k) / float64(last)
		switch k {
		case 1:
			b.Controls[k] = geometry.Vector2D{X: t * end.Len()}
		case last:
			b.Controls[k] = end
		default:
			lateral := geometry.Vector2D{X: -end.Y, Y: end.X}.Heading(geometry.Vector2D{}).Mul(uniform(rng, -0.25, 0.25) * dist)
			b.Controls[k] = end.Mul(t).Add(lateral)
		}
	}
}

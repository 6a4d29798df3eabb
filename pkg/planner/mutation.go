package planner

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// Default mutation parameters.
const (
	DefaultMutationProbability = 0.5
	DefaultRotationRange       = 15.0
	DefaultLengthJitter        = 0.2
)

// Mutator perturbs individuals in place. Each individual is gated independently.
// Whatever a mutator writes, it writes every step: steps it does not need are zeroed.
type Mutator[G Genome[G]] interface {
	Mutate(pop Population[G], s *Scene, rng *rand.Rand)
}

// RandomResample redraws every step of an individual, with probability
// Probability: turn in [-RotationRange, RotationRange], length in [0, speed*tick].
type RandomResample struct {
	Probability   float64
	RotationRange float64
}

func (m RandomResample) Mutate(pop Population[PolarPath], s *Scene, rng *rand.Rand) {
	for i := range pop {
		if rng.Float64() >= m.Probability {
			continue
		}
		path := pop[i].Path
		for j := range path {
			path[j] = PolarStep{
				Angle:  uniform(rng, -m.RotationRange, m.RotationRange),
				Length: randomLength(rng, s),
			}
		}
	}
}

// LengthJitter redraws each step length independently with probability
// Probability, keeping the turns.
type LengthJitter struct {
	Probability float64
}

func (m LengthJitter) Mutate(pop Population[PolarPath], s *Scene, rng *rand.Rand) {
	for i := range pop {
		path := pop[i].Path
		for j := range path {
			if rng.Float64() < m.Probability {
				path[j].Length = randomLength(rng, s)
			}
		}
	}
}

// GreedyCircle steers straight at the destination when one max-length step
// reaches it. Otherwise it follows the circle through the position, the point
// one max-length step ahead and the destination, with max-length chords,
// until the destination is within one step or the path is exhausted.
// Collinear or unusable circles leave the individual untouched.
type GreedyCircle struct {
	Probability float64
}

func (m GreedyCircle) Mutate(pop Population[PolarPath], s *Scene, rng *rand.Rand) {
	for i := range pop {
		if rng.Float64() >= m.Probability {
			continue
		}
		greedyCircle(pop[i].Path, s)
	}
}

// greedyCircle rewrites path and reports whether it did.
func greedyCircle(path PolarPath, s *Scene) bool {
	if len(path) == 0 {
		return false
	}
	chord := s.MaxStep()
	toDest := s.ToDestination()
	if toDest.Len() <= chord {
		path[0] = PolarStep{Angle: s.Forward.SignedAngleDegrees(toDest), Length: toDest.Len()}
		path.zeroFrom(1)
		return true
	}

	ahead := s.Position.Add(s.Forward.Mul(chord))
	radius := geometry.CircleRadius(s.Position, ahead, s.Destination)
	if radius < 0 {
		return false
	}
	turn, ok := geometry.ChordTurnDegrees(radius, chord)
	if !ok {
		return false
	}
	// the circle bends toward the side of the destination
	if s.Forward.Cross(toDest) < 0 {
		turn = -turn
	}

	pos, heading := s.Position, s.Forward
	for j := range path {
		remaining := s.Destination.Sub(pos)
		if j > 0 && remaining.Len() <= chord {
			path[j] = PolarStep{Angle: heading.SignedAngleDegrees(remaining), Length: remaining.Len()}
			path.zeroFrom(j + 1)
			return true
		}
		angle := 0.0
		if j > 0 {
			angle = turn
		}
		heading = heading.RotateDegrees(angle)
		pos = pos.Add(heading.Mul(chord))
		path[j] = PolarStep{Angle: angle, Length: chord}
	}
	return true
}

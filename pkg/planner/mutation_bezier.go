package planner

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// stretchIncrements is the number of candidate speeds tried per step.
const stretchIncrements = 5

// StraightFinish replaces the curve by the segment to the destination when
// the destination can be reached within the path, accelerating as hard as
// allowed. Accelerations after arrival are zeroed.
type StraightFinish struct {
	Probability float64
}

func (m StraightFinish) Mutate(pop Population[BezierPath], s *Scene, rng *rand.Rand) {
	for i := range pop {
		if rng.Float64() >= m.Probability {
			continue
		}
		straightFinish(pop[i].Path, s)
	}
}

func straightFinish(b BezierPath, s *Scene) bool {
	target := s.Destination.ToLocal(s.Position, s.Forward)
	dist := target.Len()
	limit := accelerationLimit(s)

	// distance covered at full acceleration
	speed, covered, arrival := s.PreviousSpeed, 0.0, -1
	for j := range b.Accelerations {
		speed = min(s.Speed, speed+limit*s.TickInterval)
		covered += speed * s.TickInterval
		if covered >= dist-geometry.Epsilon {
			arrival = j
			break
		}
	}
	if arrival < 0 {
		return false
	}

	last := len(b.Controls) - 1
	for k := range b.Controls {
		b.Controls[k] = target.Mul(float64(k) / float64(last))
	}
	for j := range b.Accelerations {
		if j <= arrival {
			b.Accelerations[j] = limit
		} else {
			b.Accelerations[j] = 0
		}
	}
	return true
}

// StretchAcceleration walks the curve step by step. At each step it tries
// increasing speeds within the acceleration limit and keeps the highest one
// whose swept segment hits no more neighbours than the previously accepted
// speed. Steps after the end of the curve are zeroed.
type StretchAcceleration struct {
	Probability float64
}

func (m StretchAcceleration) Mutate(pop Population[BezierPath], s *Scene, rng *rand.Rand) {
	for i := range pop {
		if rng.Float64() >= m.Probability {
			continue
		}
		stretchAcceleration(pop[i].Path, s)
	}
}

func stretchAcceleration(b BezierPath, s *Scene) {
	w := newCurveWalker(b, s)
	delta := accelerationLimit(s) * s.TickInterval
	for j := range b.Accelerations {
		if w.finished() {
			clear(b.Accelerations[j:])
			return
		}
		from := w.point()
		low := max(0, w.speed-delta)
		high := min(s.Speed, w.speed+delta)

		accepted := low
		acceptedHits := s.Index.Query(from, w.pointAhead(low), s.Radius, s.AgentID)
		for k := 1; k < stretchIncrements; k++ {
			candidate := low + (high-low)*float64(k)/float64(stretchIncrements-1)
			hits := s.Index.Query(from, w.pointAhead(candidate), s.Radius, s.AgentID)
			if hits > acceptedHits {
				break
			}
			accepted, acceptedHits = candidate, hits
		}
		b.Accelerations[j] = (accepted - w.speed) / s.TickInterval
		w.advance(accepted)
	}
}

// Smooth averages accelerations pairwise: (0,1), (2,3), ... both receive
// their mean. An odd last acceleration is kept.
type Smooth struct {
	Probability float64
}

func (m Smooth) Mutate(pop Population[BezierPath], _ *Scene, rng *rand.Rand) {
	for i := range pop {
		if rng.Float64() >= m.Probability {
			continue
		}
		acc := pop[i].Path.Accelerations
		for j := 0; j+1 < len(acc); j += 2 {
			mean := (acc[j] + acc[j+1]) / 2
			acc[j], acc[j+1] = mean, mean
		}
	}
}

// Shuffle redraws, for a selected individual, each acceleration and each
// control point after the origin with probability Share. Accelerations stay
// within the acceleration limit; control points stay in a cone of half-angle
// Cone degrees around the destination direction, within the path's reach.
type Shuffle struct {
	Probability float64
	Share       float64
	Cone        float64
}

func (m Shuffle) Mutate(pop Population[BezierPath], s *Scene, rng *rand.Rand) {
	limit := accelerationLimit(s)
	for i := range pop {
		if rng.Float64() >= m.Probability {
			continue
		}
		b := pop[i].Path
		for j := range b.Accelerations {
			if rng.Float64() < m.Share {
				b.Accelerations[j] = uniform(rng, -limit, limit)
			}
		}
		reach := s.Reach(b.Len())
		axis := s.Destination.ToLocal(s.Position, s.Forward).Heading(geometry.UnitX)
		for k := 1; k < len(b.Controls); k++ {
			if rng.Float64() < m.Share {
				dir := axis.RotateDegrees(uniform(rng, -m.Cone, m.Cone))
				b.Controls[k] = dir.Mul(rng.Float64() * reach)
			}
		}
	}
}

package planner

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// MinControlPoints is the smallest control polygon a BezierPath accepts.
const MinControlPoints = 4

// bezierSamples is the resolution of the arc-length table used to walk a curve.
const bezierSamples = 32

// BezierPath is a curve shared by all steps plus one acceleration per step.
// Controls are expressed in the agent frame: origin at the scene position,
// +X along the forward direction, +Y to its left. Controls[0] is the origin.
// Each step changes speed by Accelerations[i]*TickInterval (clamped to
// [0, Speed]) and then advances that far along the curve; the walk stops at
// the end of the curve.
type BezierPath struct {
	Controls      []geometry.Vector2D `json:"controls"`
	Accelerations []float64           `json:"accelerations"`
}

// BezierAllocator returns an Allocator for curves with the given number of
// control points (at least MinControlPoints).
func BezierAllocator(controls int) Allocator[BezierPath] {
	if controls < MinControlPoints {
		controls = MinControlPoints
	}
	return func(pathLength int) BezierPath {
		b := BezierPath{
			Controls:      make([]geometry.Vector2D, controls),
			Accelerations: make([]float64, pathLength),
		}
		b.Poison()
		return b
	}
}

func (b BezierPath) Len() int { return len(b.Accelerations) }

func (b BezierPath) CopyFrom(src BezierPath) {
	if len(src.Accelerations) != len(b.Accelerations) || len(src.Controls) != len(b.Controls) {
		panic(fmt.Sprintf("planner: copying a %d/%d bezier path into a %d/%d bezier path",
			len(src.Controls), len(src.Accelerations), len(b.Controls), len(b.Accelerations)))
	}
	copy(b.Controls, src.Controls)
	copy(b.Accelerations, src.Accelerations)
}

func (b BezierPath) Blend(other BezierPath, w float64) {
	for i := range b.Controls {
		b.Controls[i] = other.Controls[i].Lerp(b.Controls[i], w)
	}
	for i := range b.Accelerations {
		b.Accelerations[i] = w*b.Accelerations[i] + (1-w)*other.Accelerations[i]
	}
}

func (b BezierPath) Zero() {
	clear(b.Controls)
	clear(b.Accelerations)
}

func (b BezierPath) Poison() {
	nan := math.NaN()
	for i := range b.Controls {
		b.Controls[i] = geometry.Vector2D{X: nan, Y: nan}
	}
	for i := range b.Accelerations {
		b.Accelerations[i] = nan
	}
}

func (b BezierPath) Finite() bool {
	for _, c := range b.Controls {
		if !c.IsFinite() {
			return false
		}
	}
	for _, a := range b.Accelerations {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return false
		}
	}
	return true
}

func (b BezierPath) Trace(s *Scene, dst []geometry.Vector2D) []geometry.Vector2D {
	w := newCurveWalker(b, s)
	dst = append(dst[:0], s.Position)
	for _, a := range b.Accelerations {
		w.step(a)
		dst = append(dst, w.point())
	}
	return dst
}

func (b BezierPath) FirstStep(s *Scene) geometry.Vector2D {
	if len(b.Accelerations) == 0 {
		return geometry.Vector2D{}
	}
	w := newCurveWalker(b, s)
	w.step(b.Accelerations[0])
	return w.point().Sub(s.Position)
}

// accelerationLimit is the acceleration bound used by the bezier operators.
// Without a configured limit the agent may reach full speed in a single tick.
func accelerationLimit(s *Scene) float64 {
	if s.MaxAcceleration > 0 {
		return s.MaxAcceleration
	}
	return s.Speed / s.TickInterval
}

// curveWalker advances along a sampled curve in world coordinates.
type curveWalker struct {
	scene    *Scene
	samples  []geometry.Vector2D
	lengths  []float64
	speed    float64
	distance float64
}

func newCurveWalker(b BezierPath, s *Scene) *curveWalker {
	world := make([]geometry.Vector2D, len(b.Controls))
	for i, c := range b.Controls {
		world[i] = c.FromLocal(s.Position, s.Forward)
	}
	w := &curveWalker{
		scene:   s,
		samples: make([]geometry.Vector2D, bezierSamples),
		lengths: make([]float64, bezierSamples),
		speed:   s.PreviousSpeed,
	}
	geometry.SampleBezier(world, w.samples, w.lengths)
	return w
}

// next returns the speed after applying acceleration a for one tick.
func (w *curveWalker) next(a float64) float64 {
	return math.Max(0, math.Min(w.scene.Speed, w.speed+a*w.scene.TickInterval))
}

func (w *curveWalker) step(a float64) {
	w.advance(w.next(a))
}

// advance moves along the curve for one tick at the given speed.
func (w *curveWalker) advance(speed float64) {
	w.speed = speed
	w.distance = math.Min(w.distance+speed*w.scene.TickInterval, w.length())
}

func (w *curveWalker) point() geometry.Vector2D {
	return geometry.PointAtArcLength(w.samples, w.lengths, w.distance)
}

// pointAhead is the point reached by moving at speed for one tick, without moving.
func (w *curveWalker) pointAhead(speed float64) geometry.Vector2D {
	return geometry.PointAtArcLength(w.samples, w.lengths, w.distance+speed*w.scene.TickInterval)
}

func (w *curveWalker) length() float64 {
	return w.lengths[len(w.lengths)-1]
}

func (w *curveWalker) finished() bool {
	return w.distance >= w.length()-geometry.Epsilon
}

package planner

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// PolarStep turns the heading by Angle degrees (counter-clockwise positive)
// and then moves Length units along the new heading.
type PolarStep struct {
	Angle  float64 `json:"angle"`
	Length float64 `json:"length"`
}

func (s PolarStep) String() string {
	return fmt.Sprintf("(%.1f°, %.3f)", s.Angle, s.Length)
}

// PolarPath is the polar-delta representation: headings accumulate step after step.
type PolarPath []PolarStep

// NewPolarPath is the Allocator for PolarPath.
func NewPolarPath(pathLength int) PolarPath {
	p := make(PolarPath, pathLength)
	p.Poison()
	return p
}

func (p PolarPath) Len() int { return len(p) }

func (p PolarPath) CopyFrom(src PolarPath) {
	if len(src) != len(p) {
		panic(fmt.Sprintf("planner: copying a %d-step path into a %d-step path", len(src), len(p)))
	}
	copy(p, src)
}

func (p PolarPath) Blend(other PolarPath, w float64) {
	for i := range p {
		p[i].Angle = w*p[i].Angle + (1-w)*other[i].Angle
		p[i].Length = w*p[i].Length + (1-w)*other[i].Length
	}
}

func (p PolarPath) Zero() {
	p.zeroFrom(0)
}

// zeroFrom clears every step from index i onwards.
func (p PolarPath) zeroFrom(i int) {
	for ; i < len(p); i++ {
		p[i] = PolarStep{}
	}
}

func (p PolarPath) Poison() {
	nan := math.NaN()
	for i := range p {
		p[i] = PolarStep{Angle: nan, Length: nan}
	}
}

func (p PolarPath) Finite() bool {
	for _, s := range p {
		if math.IsNaN(s.Angle) || math.IsInf(s.Angle, 0) || math.IsNaN(s.Length) || math.IsInf(s.Length, 0) {
			return false
		}
	}
	return true
}

func (p PolarPath) Trace(s *Scene, dst []geometry.Vector2D) []geometry.Vector2D {
	pos := s.Position
	heading := s.Forward
	dst = append(dst[:0], pos)
	for _, step := range p {
		heading = heading.RotateDegrees(step.Angle)
		pos = pos.Add(heading.Mul(step.Length))
		dst = append(dst, pos)
	}
	return dst
}

func (p PolarPath) FirstStep(s *Scene) geometry.Vector2D {
	if len(p) == 0 {
		return geometry.Vector2D{}
	}
	return s.Forward.RotateDegrees(p[0].Angle).Mul(p[0].Length)
}

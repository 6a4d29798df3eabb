package geometry

import "math"

// CircleRadius returns the radius of the circle passing through a, b and c.
// When the three points are collinear (or two coincide) no such circle exists
// and -1 is returned.
func CircleRadius(a, b, c Vector2D) float64 {
	ab := a.DistanceTo(b)
	bc := b.DistanceTo(c)
	ca := c.DistanceTo(a)
	area2 := math.Abs(b.Sub(a).Cross(c.Sub(a)))
	if area2 < Epsilon || ab < Epsilon || bc < Epsilon || ca < Epsilon {
		return -1
	}
	// R = abc / (4 * area), area2 is twice the triangle area.
	return ab * bc * ca / (2 * area2)
}

// ChordTurnDegrees is the heading change between two consecutive chords of
// length chord laid end to end on a circle of the given radius.
// ok is false when the chord does not fit in the circle.
func ChordTurnDegrees(radius, chord float64) (deg float64, ok bool) {
	if radius <= 0 || chord <= 0 || chord > 2*radius {
		return 0, false
	}
	return RadToDeg(2 * math.Asin(chord/(2*radius))), true
}

// SegmentPointDistance returns the shortest distance between point p and the
// segment [a, b]. A degenerate segment is treated as the point a.
func SegmentPointDistance(a, b, p Vector2D) float64 {
	ab := b.Sub(a)
	l2 := ab.LenSqr()
	if l2 < Epsilon*Epsilon {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.DistanceTo(a.Add(ab.Mul(t)))
}

// SegmentBounds returns the axis aligned box of segment [a, b] grown by margin.
func SegmentBounds(a, b Vector2D, margin float64) (min, max Vector2D) {
	min = Vector2D{X: math.Min(a.X, b.X) - margin, Y: math.Min(a.Y, b.Y) - margin}
	max = Vector2D{X: math.Max(a.X, b.X) + margin, Y: math.Max(a.Y, b.Y) + margin}
	return min, max
}

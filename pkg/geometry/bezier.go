package geometry

// BezierPoint evaluates the Bezier curve defined by controls at t in [0, 1]
// using de Casteljau's algorithm. scratch must hold at least len(controls)
// vectors; it is overwritten. Fewer than two controls yield the first control
// (or the zero vector).
func BezierPoint(controls []Vector2D, t float64, scratch []Vector2D) Vector2D {
	n := len(controls)
	switch n {
	case 0:
		return Vector2D{}
	case 1:
		return controls[0]
	}
	work := scratch[:n]
	copy(work, controls)
	for level := n - 1; level > 0; level-- {
		for i := 0; i < level; i++ {
			work[i] = work[i].Lerp(work[i+1], t)
		}
	}
	return work[0]
}

// SampleBezier fills dst with len(dst) evenly spaced (in t) points of the curve,
// from the first control to the last, and returns the cumulative arc length at
// each sample in lengths (same size as dst).
func SampleBezier(controls []Vector2D, dst []Vector2D, lengths []float64) {
	if len(dst) == 0 {
		return
	}
	scratch := make([]Vector2D, len(controls))
	last := len(dst) - 1
	for i := range dst {
		t := 0.0
		if last > 0 {
			t = float64(i) / float64(last)
		}
		dst[i] = BezierPoint(controls, t, scratch)
		if i == 0 {
			lengths[i] = 0
			continue
		}
		lengths[i] = lengths[i-1] + dst[i].DistanceTo(dst[i-1])
	}
}

// PointAtArcLength walks a sampled polyline (as produced by SampleBezier) and
// returns the point at distance s from its start, clamped to the polyline end.
func PointAtArcLength(samples []Vector2D, lengths []float64, s float64) Vector2D {
	if len(samples) == 0 {
		return Vector2D{}
	}
	if s <= 0 {
		return samples[0]
	}
	for i := 1; i < len(samples); i++ {
		if lengths[i] >= s {
			seg := lengths[i] - lengths[i-1]
			if seg < Epsilon {
				return samples[i]
			}
			return samples[i-1].Lerp(samples[i], (s-lengths[i-1])/seg)
		}
	}
	return samples[len(samples)-1]
}

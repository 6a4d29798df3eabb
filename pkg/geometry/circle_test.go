package geometry

import (
	"math"
	"testing"
)

func TestCircleRadius(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vector2D
		want    float64
	}{
		{"Unit circle", Vector2D{1, 0}, Vector2D{0, 1}, Vector2D{-1, 0}, 1},
		{"Radius five", Vector2D{5, 0}, Vector2D{0, 5}, Vector2D{0, -5}, 5},
		{"Collinear", Vector2D{0, 0}, Vector2D{0, 1}, Vector2D{0, 5}, -1},
		{"Coincident", Vector2D{1, 1}, Vector2D{1, 1}, Vector2D{0, 5}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CircleRadius(tt.a, tt.b, tt.c); !floatEquals(got, tt.want) {
				t.Errorf("CircleRadius = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestChordTurnDegrees(t *testing.T) {
	// a chord equal to the radius subtends 60 degrees
	got, ok := ChordTurnDegrees(2, 2)
	if !ok || !floatEquals(got, 60) {
		t.Errorf("ChordTurnDegrees(2, 2) = %v, %v; want 60, true", got, ok)
	}
	if _, ok := ChordTurnDegrees(1, 3); ok {
		t.Error("chord longer than the diameter must be rejected")
	}
	if _, ok := ChordTurnDegrees(-1, 1); ok {
		t.Error("negative radius must be rejected")
	}
}

func TestSegmentPointDistance(t *testing.T) {
	tests := []struct {
		name    string
		a, b, p Vector2D
		want    float64
	}{
		{"Perpendicular foot inside", Vector2D{0, 0}, Vector2D{0, 10}, Vector2D{3, 5}, 3},
		{"Beyond end", Vector2D{0, 0}, Vector2D{0, 10}, Vector2D{0, 13}, 3},
		{"Before start", Vector2D{0, 0}, Vector2D{0, 10}, Vector2D{0, -2}, 2},
		{"Degenerate segment", Vector2D{1, 1}, Vector2D{1, 1}, Vector2D{4, 5}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentPointDistance(tt.a, tt.b, tt.p); !floatEquals(got, tt.want) {
				t.Errorf("SegmentPointDistance = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestBezier(t *testing.T) {
	controls := []Vector2D{{0, 0}, {0, 1}, {0, 2}, {0, 3}}
	scratch := make([]Vector2D, len(controls))

	if got := BezierPoint(controls, 0.5, scratch); !vecNear(got, Vector2D{0, 1.5}) {
		t.Errorf("BezierPoint(0.5) = %v; want (0, 1.5)", got)
	}

	samples := make([]Vector2D, 16)
	lengths := make([]float64, 16)
	SampleBezier(controls, samples, lengths)
	if !floatEquals(lengths[len(lengths)-1], 3) {
		t.Errorf("arc length = %v; want 3", lengths[len(lengths)-1])
	}
	if got := PointAtArcLength(samples, lengths, 1); !vecNear(got, Vector2D{0, 1}) {
		t.Errorf("PointAtArcLength(1) = %v; want (0, 1)", got)
	}
	if got := PointAtArcLength(samples, lengths, 99); !vecNear(got, Vector2D{0, 3}) {
		t.Errorf("PointAtArcLength past the end = %v; want (0, 3)", got)
	}
	if got := PointAtArcLength(samples, lengths, math.Inf(-1)); !vecNear(got, Vector2D{0, 0}) {
		t.Errorf("PointAtArcLength(-Inf) = %v; want (0, 0)", got)
	}
}

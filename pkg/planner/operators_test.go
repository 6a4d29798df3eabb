package planner

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

func TestMeanCrossover(t *testing.T) {
	pop := polarPopulation(
		[]PolarStep{{Angle: 10, Length: 1}, {Angle: 30, Length: 3}, {Angle: -20, Length: 2}, {Angle: 0, Length: 4}, {Angle: 90, Length: 5}},
		[]float64{1, 2, 3, 4, 5},
	)
	MeanCrossover[PolarPath]{Rate: 1}.Crossover(pop, testRand(1))

	if len(pop) != 5 {
		t.Fatalf("size = %d; want 5", len(pop))
	}
	tests := []struct {
		slot    int
		want    PolarStep
		fitness float64
	}{
		{0, PolarStep{Angle: 20, Length: 2}, 0},
		{1, PolarStep{Angle: 30, Length: 3}, 2},
		{2, PolarStep{Angle: -10, Length: 3}, 0},
		{3, PolarStep{Angle: 0, Length: 4}, 4},
		// odd leftover passes through unchanged
		{4, PolarStep{Angle: 90, Length: 5}, 5},
	}
	for _, tt := range tests {
		got := pop[tt.slot]
		if !floatEquals(got.Path[0].Angle, tt.want.Angle) || !floatEquals(got.Path[0].Length, tt.want.Length) {
			t.Errorf("slot %d = %v; want %v", tt.slot, got.Path[0], tt.want)
		}
		if got.Fitness != tt.fitness {
			t.Errorf("slot %d fitness = %v; want %v", tt.slot, got.Fitness, tt.fitness)
		}
	}
}

func TestMeanCrossover_ZeroRate(t *testing.T) {
	pop := polarPopulation([]PolarStep{{Angle: 10, Length: 1}, {Angle: 30, Length: 3}}, []float64{1, 2})
	MeanCrossover[PolarPath]{Rate: 0}.Crossover(pop, testRand(1))
	if pop[0].Path[0] != (PolarStep{Angle: 10, Length: 1}) || pop[0].Fitness != 1 {
		t.Errorf("rate 0 still recombined: %v", pop[0])
	}
}

func TestInitializers(t *testing.T) {
	s := straightScene().normalized()
	tests := []struct {
		name  string
		init  Initializer[PolarPath]
		check func(t *testing.T, i, j int, step PolarStep)
	}{
		{"NarrowCone", NarrowCone{Cone: 120}, func(t *testing.T, _, _ int, step PolarStep) {
			if math.Abs(step.Angle) > 120 {
				t.Errorf("angle %v outside the cone", step.Angle)
			}
		}},
		{"Globe", Globe{Turn: 30}, func(t *testing.T, i, j int, step PolarStep) {
			if j == 0 {
				if !floatEquals(step.Angle, float64(i)*36) || !floatEquals(step.Length, s.MaxStep()) {
					t.Errorf("individual %d first step = %v; want (%v°, %v)", i, step, float64(i)*36, s.MaxStep())
				}
				return
			}
			if math.Abs(step.Angle) > 30 {
				t.Errorf("later angle %v above 30", step.Angle)
			}
		}},
		{"KineticFriendly", KineticFriendly{InitialCone: 60, Turn: 15}, func(t *testing.T, i, j int, step PolarStep) {
			if j == 0 {
				if !floatEquals(step.Angle, -60+float64(i)*12) {
					t.Errorf("individual %d first angle = %v; want %v", i, step.Angle, -60+float64(i)*12)
				}
				return
			}
			if math.Abs(step.Angle) > 15 {
				t.Errorf("later angle %v above 15", step.Angle)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pop := NewPopulation(10, 10, NewPolarPath)
			for i := range pop {
				pop[i].Fitness = 99
			}
			tt.init.Initialize(pop, &s, testRand(5))
			for i := range pop {
				if pop[i].Fitness != 0 {
					t.Errorf("individual %d fitness = %v; want 0", i, pop[i].Fitness)
				}
				if !pop[i].Path.Finite() {
					t.Fatalf("individual %d left uninitialized steps: %v", i, pop[i].Path)
				}
				for j, step := range pop[i].Path {
					if step.Length < 0 || step.Length > s.MaxStep()+tolerance {
						t.Errorf("length %v outside [0, %v]", step.Length, s.MaxStep())
					}
					tt.check(t, i, j, step)
				}
			}
		})
	}
}

func TestGreedyCircle_DirectReach(t *testing.T) {
	s := Scene{
		Position:     geometry.Vector2D{X: 0, Y: 0},
		Destination:  geometry.Vector2D{X: 0, Y: 3},
		Forward:      geometry.Vector2D{X: 0, Y: 1},
		Speed:        50,
		TickInterval: 0.1,
	}.normalized()
	pop := NewPopulation(3, 10, NewPolarPath)
	NarrowCone{Cone: 120}.Initialize(pop, &s, testRand(9))

	GreedyCircle{Probability: 1}.Mutate(pop, &s, testRand(9))

	for i := range pop {
		path := pop[i].Path
		if !floatEquals(path[0].Angle, 0) || !floatEquals(path[0].Length, 3) {
			t.Errorf("individual %d first step = %v; want (0°, 3)", i, path[0])
		}
		for j := 1; j < len(path); j++ {
			if path[j] != (PolarStep{}) {
				t.Errorf("individual %d step %d = %v; want zeroed", i, j, path[j])
			}
		}
	}
}

func TestGreedyCircle_CollinearSkips(t *testing.T) {
	s := straightScene().normalized()
	pop := polarPopulation([]PolarStep{{Angle: 12, Length: 0.1}}, []float64{0})

	GreedyCircle{Probability: 1}.Mutate(pop, &s, testRand(1))

	if pop[0].Path[0] != (PolarStep{Angle: 12, Length: 0.1}) {
		t.Errorf("collinear destination must leave the path untouched, got %v", pop[0].Path)
	}
}

func TestGreedyCircle_ArcReachesDestination(t *testing.T) {
	s := Scene{
		Position:     geometry.Vector2D{X: 0, Y: 0},
		Destination:  geometry.Vector2D{X: 3, Y: 3},
		Forward:      geometry.Vector2D{X: 0, Y: 1},
		Speed:        10,
		TickInterval: 0.1,
	}.normalized()
	path := NewPolarPath(20)
	if !greedyCircle(path, &s) {
		t.Fatal("greedy circle refused a valid arc")
	}
	trace := path.Trace(&s, nil)
	if end := trace[len(trace)-1]; !vecNear(end, s.Destination) {
		t.Errorf("arc ends at %v; want %v", end, s.Destination)
	}
	// every point lies on the circle through start, one step ahead and destination
	center := geometry.Vector2D{X: 2.5, Y: 0.5}
	radius := math.Sqrt(6.5)
	for i, p := range trace {
		if d := p.DistanceTo(center); math.Abs(d-radius) > 1e-6 {
			t.Errorf("point %d at %v is %v from the arc center; want %v", i, p, d, radius)
		}
	}
	// the destination lies to the right, so the path turns clockwise
	if path[1].Angle >= 0 {
		t.Errorf("second step turns %v°; want a clockwise (negative) turn", path[1].Angle)
	}
	for j, step := range path {
		if step.Length > s.MaxStep()+tolerance {
			t.Errorf("step %d length %v exceeds %v", j, step.Length, s.MaxStep())
		}
	}
}

func TestRandomResample(t *testing.T) {
	s := straightScene().normalized()
	pop := NewPopulation(50, 10, NewPolarPath)
	for i := range pop {
		pop[i].Path.Zero()
	}
	RandomResample{Probability: 1, RotationRange: 15}.Mutate(pop, &s, testRand(3))
	for i := range pop {
		for j, step := range pop[i].Path {
			if math.Abs(step.Angle) > 15 || step.Length < 0 || step.Length > s.MaxStep() {
				t.Errorf("individual %d step %d = %v out of bounds", i, j, step)
			}
		}
	}

	untouched := NewPopulation(5, 3, NewPolarPath)
	for i := range untouched {
		untouched[i].Path.Zero()
	}
	RandomResample{Probability: 0, RotationRange: 15}.Mutate(untouched, &s, testRand(3))
	for i := range untouched {
		for _, step := range untouched[i].Path {
			if step != (PolarStep{}) {
				t.Fatalf("probability 0 mutated individual %d", i)
			}
		}
	}
}

func TestLengthJitter_KeepsAngles(t *testing.T) {
	s := straightScene().normalized()
	pop := NewPopulation(4, 10, NewPolarPath)
	for i := range pop {
		for j := range pop[i].Path {
			pop[i].Path[j] = PolarStep{Angle: float64(j), Length: 0}
		}
	}
	LengthJitter{Probability: 1}.Mutate(pop, &s, testRand(8))
	for i := range pop {
		for j, step := range pop[i].Path {
			if step.Angle != float64(j) {
				t.Errorf("angle changed to %v", step.Angle)
			}
			if step.Length < 0 || step.Length > s.MaxStep() {
				t.Errorf("length %v out of bounds", step.Length)
			}
		}
	}
}

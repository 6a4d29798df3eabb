package planner

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
)

const tolerance = 1e-6

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func vecNear(a, b geometry.Vector2D) bool {
	return floatEquals(a.X, b.X) && floatEquals(a.Y, b.Y)
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdecafbad))
}

// straightScene is an agent at the origin heading up to (0, 40), alone.
func straightScene() Scene {
	return Scene{
		AgentID:         1,
		Position:        geometry.Vector2D{X: 0, Y: 0},
		Destination:     geometry.Vector2D{X: 0, Y: 40},
		Forward:         geometry.Vector2D{X: 0, Y: 1},
		Speed:           5,
		Radius:          0.5,
		MaxAcceleration: 1,
		TickInterval:    0.1,
		Index:           spatial.Empty{},
	}
}

// polarPopulation builds a population of one-step paths from steps and fitness values.
func polarPopulation(steps []PolarStep, fitness []float64) Population[PolarPath] {
	pop := NewPopulation(len(steps), 1, NewPolarPath)
	for i := range pop {
		pop[i].Path[0] = steps[i]
		pop[i].Fitness = fitness[i]
	}
	return pop
}

type initializerFunc[G Genome[G]] func(Population[G], *Scene, *rand.Rand)

func (f initializerFunc[G]) Initialize(pop Population[G], s *Scene, rng *rand.Rand) { f(pop, s, rng) }

// fixedFitness ignores the objectives and assigns preset fitness values.
type fixedFitness []float64

func (f fixedFitness) Combine(_ [][]float64, fitness []float64) { copy(fitness, f) }

// recordingSink keeps every run log it receives.
type recordingSink struct {
	logs []RunLog
}

func (r *recordingSink) Append(log RunLog) error {
	r.logs = append(r.logs, log)
	return nil
}

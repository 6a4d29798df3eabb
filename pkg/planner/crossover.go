package planner

import "math/rand/v2"

// Crossover recombines a population in place. It must not change its size.
type Crossover[G Genome[G]] interface {
	Crossover(pop Population[G], rng *rand.Rand)
}

// MeanCrossover pairs adjacent individuals (0,1), (2,3), ... With probability
// Rate the first of each pair is replaced by the elementwise mean of both
// parents and its fitness reset; the second parent passes through. With an
// odd population the last individual is left unpaired.
type MeanCrossover[G Genome[G]] struct {
	Rate float64
}

func (m MeanCrossover[G]) Crossover(pop Population[G], rng *rand.Rand) {
	for i := 0; i+1 < len(pop); i += 2 {
		if m.Rate < 1 && rng.Float64() >= m.Rate {
			continue
		}
		pop[i].Path.Blend(pop[i+1].Path, 0.5)
		pop[i].Fitness = 0
	}
}

// NoCrossover leaves the population untouched.
type NoCrossover[G Genome[G]] struct{}

func (NoCrossover[G]) Crossover(Population[G], *rand.Rand) {}

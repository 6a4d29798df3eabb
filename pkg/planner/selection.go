package planner

import (
	"math/rand/v2"
	"sort"
)

// DefaultTruncationKeep is the number of individuals truncation selection keeps.
const DefaultTruncationKeep = 5

// Selector builds the next generation. It either returns pop unchanged or
// fills scratch (same length as pop) and returns it; it never returns a
// slice of another length. Selectors are shared by concurrent runs and keep
// no state between calls.
type Selector[G Genome[G]] interface {
	Select(pop, scratch Population[G], rng *rand.Rand) Population[G]
}

// Roulette is fitness-proportional selection. Non-positive fitness values get
// no wheel width; a population without positive fitness is left unchanged.
type Roulette[G Genome[G]] struct{}

func (Roulette[G]) Select(pop, scratch Population[G], rng *rand.Rand) Population[G] {
	total := 0.0
	for i := range pop {
		if pop[i].Fitness > 0 {
			total += pop[i].Fitness
		}
	}
	if !(total > 0) {
		return pop
	}

	wheel := make([]float64, 0, len(pop))
	cumulative := 0.0
	for i := range pop {
		if pop[i].Fitness > 0 {
			cumulative += pop[i].Fitness / total
		}
		wheel = append(wheel, cumulative)
	}

	for i := range scratch {
		draw := rng.Float64()
		index := 0
		for _, slice := range wheel {
			if draw < slice {
				break
			}
			index++
		}
		// rounding can leave the last cumulative value just under 1
		index = min(max(index, 0), len(pop)-1)
		scratch[i].CopyFrom(&pop[index])
	}
	return scratch
}

// Truncation sorts by descending fitness (stable), keeps the first Keep
// individuals and refills slot i with kept individual i mod Keep.
type Truncation[G Genome[G]] struct {
	Keep int
}

func (t Truncation[G]) Select(pop, scratch Population[G], _ *rand.Rand) Population[G] {
	keep := min(max(t.Keep, 1), len(pop))

	order := make([]int, len(pop))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pop[order[a]].Fitness > pop[order[b]].Fitness
	})

	for i := range scratch {
		scratch[i].CopyFrom(&pop[order[i%keep]])
	}
	return scratch
}

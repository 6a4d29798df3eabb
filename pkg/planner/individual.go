// Package planner implements the per-tick evolutionary local-motion planner:
// a small population of fixed-length candidate paths is evolved for a fixed
// number of generations against a scene snapshot, and the first step of the
// fittest path becomes the agent's next velocity.
package planner

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// Genome is a fixed-length path representation. Implementations keep their
// storage for the lifetime of a population: no method may resize it.
type Genome[G any] interface {
	// Len is the number of path steps.
	Len() int
	// CopyFrom overwrites the receiver with src. Lengths must match.
	CopyFrom(src G)
	// Blend sets the receiver to w*receiver + (1-w)*other, elementwise.
	Blend(other G, w float64)
	// Zero clears every step.
	Zero()
	// Poison marks every step as uninitialized.
	Poison()
	// Finite reports whether no step holds NaN or Inf, i.e. nothing was left poisoned.
	Finite() bool
	// Trace appends the absolute path points to dst[:0], starting with the scene position,
	// and returns the extended slice (Len()+1 points).
	Trace(s *Scene, dst []geometry.Vector2D) []geometry.Vector2D
	// FirstStep is the world-frame displacement of the first step.
	FirstStep(s *Scene) geometry.Vector2D
}

// Allocator creates a poisoned genome with the given number of steps.
type Allocator[G any] func(pathLength int) G

// Individual is one candidate path and its fitness. Higher fitness is better.
type Individual[G Genome[G]] struct {
	Path    G
	Fitness float64
}

// CopyFrom overwrites ind with the path and fitness of src.
func (ind *Individual[G]) CopyFrom(src *Individual[G]) {
	ind.Path.CopyFrom(src.Path)
	ind.Fitness = src.Fitness
}

// Population is the fixed-size, ordered collection evolved together.
type Population[G Genome[G]] []Individual[G]

// NewPopulation allocates size individuals with poisoned paths of pathLength steps.
func NewPopulation[G Genome[G]](size, pathLength int, alloc Allocator[G]) Population[G] {
	pop := make(Population[G], size)
	for i := range pop {
		pop[i].Path = alloc(pathLength)
	}
	return pop
}

// Fitnesses copies every fitness value into dst and returns it.
func (p Population[G]) Fitnesses(dst []float64) []float64 {
	dst = dst[:0]
	for i := range p {
		dst = append(dst, p[i].Fitness)
	}
	return dst
}

// Best returns the index of the individual with the highest fitness.
// The scan starts from negative infinity with a strict comparison, so the
// first of several equal individuals wins. It returns -1 when no fitness is
// greater than negative infinity (empty population, all NaN or all -Inf).
func (p Population[G]) Best() int {
	best := -1
	bestFitness := negInf
	for i := range p {
		if p[i].Fitness > bestFitness {
			best = i
			bestFitness = p[i].Fitness
		}
	}
	return best
}

// mustFinite panics when any path still carries poisoned or non-finite steps.
func (p Population[G]) mustFinite(stage string) {
	for i := range p {
		if !p[i].Path.Finite() {
			panic(fmt.Sprintf("planner: individual %d holds uninitialized or non-finite steps after %s", i, stage))
		}
	}
}

func mustSameSize(stage string, before, after int) {
	if before != after {
		panic(fmt.Sprintf("planner: %s changed population size from %d to %d", stage, before, after))
	}
}

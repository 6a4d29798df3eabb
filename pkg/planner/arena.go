package planner

import (
	"sync"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// arena owns every buffer of one run: the two population buffers used by
// selection, one trace per individual, one score array per objective, the
// combined fitness and the diagnostic records. Arenas are recycled through
// a pool; a released arena is poisoned so stale paths cannot leak into the
// next run.
type arena[G Genome[G]] struct {
	current    Population[G]
	scratch    Population[G]
	traces     [][]geometry.Vector2D
	components [][]float64
	fitness    []float64
	records    []GenerationRecord
	released   bool
}

type arenaPool[G Genome[G]] struct {
	pool       sync.Pool
	size       int
	pathLength int
	objectives int
}

func newArenaPool[G Genome[G]](size, pathLength, objectives int, alloc Allocator[G]) *arenaPool[G] {
	p := &arenaPool[G]{size: size, pathLength: pathLength, objectives: objectives}
	p.pool.New = func() any {
		a := &arena[G]{
			current:    NewPopulation(size, pathLength, alloc),
			scratch:    NewPopulation(size, pathLength, alloc),
			traces:     make([][]geometry.Vector2D, size),
			components: make([][]float64, objectives),
			fitness:    make([]float64, size),
		}
		for i := range a.traces {
			a.traces[i] = make([]geometry.Vector2D, 0, pathLength+1)
		}
		for k := range a.components {
			a.components[k] = make([]float64, size)
		}
		return a
	}
	return p
}

func (p *arenaPool[G]) acquire() *arena[G] {
	a := p.pool.Get().(*arena[G])
	a.released = false
	return a
}

// release poisons the arena and returns it to the pool. Releasing twice panics.
func (p *arenaPool[G]) release(a *arena[G]) {
	if a.released {
		panic("planner: arena released twice")
	}
	for _, pop := range []Population[G]{a.current, a.scratch} {
		for i := range pop {
			pop[i].Path.Poison()
			pop[i].Fitness = 0
		}
	}
	for i := range a.traces {
		a.traces[i] = a.traces[i][:0]
	}
	a.records = nil
	a.released = true
	p.pool.Put(a)
}

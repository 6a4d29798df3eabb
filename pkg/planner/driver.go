package planner

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/sourcegraph/conc/pool"
	"github.com/tochemey/goakt/v3/log"
)

// ErrInvalidConfig is returned for planner parameters that cannot produce a run.
var ErrInvalidConfig = errors.New("invalid planner configuration")

// State is the position of a run in its lifecycle.
type State int

const (
	Uninitialized State = iota
	Initialized
	Evaluating
	Selecting
	Recombining
	Mutating
	FinalEvaluation
	WinnerExtracted
	Disposed
)

var stateNames = [...]string{
	"Uninitialized", "Initialized", "Evaluating", "Selecting", "Recombining",
	"Mutating", "FinalEvaluation", "WinnerExtracted", "Disposed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// transitions lists the legal predecessors of each state.
var transitions = map[State][]State{
	Initialized:     {Uninitialized},
	Evaluating:      {Initialized, Mutating},
	Selecting:       {Evaluating},
	Recombining:     {Selecting},
	Mutating:        {Recombining},
	FinalEvaluation: {Initialized, Mutating},
	WinnerExtracted: {FinalEvaluation},
	// a run is disposed on every exit path, including a panic mid-run
	Disposed: {Uninitialized, Initialized, Evaluating, Selecting, Recombining, Mutating, FinalEvaluation, WinnerExtracted},
}

// Result is what a run hands back to the agent.
type Result struct {
	// Velocity is the world-frame displacement to apply over the next tick.
	Velocity geometry.Vector2D
	// Target is Velocity translated to the absolute point it leads to.
	Target  geometry.Vector2D
	Fitness float64
}

// Steering is implemented by every planner regardless of path representation.
type Steering interface {
	Plan(scene Scene) Result
}

// Options configures a Planner. Operators are shared by concurrent runs and
// must not keep per-call state.
type Options[G Genome[G]] struct {
	PopulationSize int
	Iterations     int
	PathLength     int
	// Elite protects the first Elite slots after selection from crossover and mutation.
	Elite int
	// Parallelism bounds the goroutines evaluating individuals; <= 1 evaluates inline.
	Parallelism int

	Allocator   Allocator[G]
	Initializer Initializer[G]
	Objectives  []Objective
	Combiner    Combiner
	Selector    Selector[G]
	Crossover   Crossover[G]
	Mutators    []Mutator[G]

	// Sink, when set, receives the per-generation diagnostics of every run.
	Sink   Sink
	Logger log.Logger
}

// Planner runs the generational loop. A Planner is safe for concurrent use:
// every call to Plan gets its own arena and random stream.
type Planner[G Genome[G]] struct {
	opts   Options[G]
	arenas *arenaPool[G]
	logger log.Logger
}

// New validates opts and creates a Planner.
func New[G Genome[G]](opts Options[G]) (*Planner[G], error) {
	switch {
	case opts.PopulationSize < 1:
		return nil, fmt.Errorf("%w: population size %d", ErrInvalidConfig, opts.PopulationSize)
	case opts.Iterations < 0:
		return nil, fmt.Errorf("%w: iterations %d", ErrInvalidConfig, opts.Iterations)
	case opts.PathLength < 1:
		return nil, fmt.Errorf("%w: path length %d", ErrInvalidConfig, opts.PathLength)
	case opts.Elite < 0 || opts.Elite > opts.PopulationSize:
		return nil, fmt.Errorf("%w: elite %d for population %d", ErrInvalidConfig, opts.Elite, opts.PopulationSize)
	case opts.Allocator == nil || opts.Initializer == nil || opts.Combiner == nil || opts.Selector == nil || opts.Crossover == nil:
		return nil, fmt.Errorf("%w: allocator, initializer, combiner, selector and crossover are required", ErrInvalidConfig)
	case len(opts.Objectives) == 0:
		return nil, fmt.Errorf("%w: at least one objective is required", ErrInvalidConfig)
	}
	if ws, ok := opts.Combiner.(WeightedSum); ok && len(ws.Weights) != len(opts.Objectives) {
		return nil, fmt.Errorf("%w: %d weights for %d objectives", ErrInvalidConfig, len(ws.Weights), len(opts.Objectives))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Planner[G]{
		opts:   opts,
		arenas: newArenaPool(opts.PopulationSize, opts.PathLength, len(opts.Objectives), opts.Allocator),
		logger: logger,
	}, nil
}

// Plan executes a complete run against scene.
func (p *Planner[G]) Plan(scene Scene) Result {
	return p.NewRun(scene).Execute()
}

// Run is one execution of the generational loop. It is not reusable.
type Run[G Genome[G]] struct {
	planner *Planner[G]
	scene   Scene
	rng     *rand.Rand
	state   State
	arena   *arena[G]
	started time.Time
}

// NewRun captures the scene. Nothing is allocated until Execute.
func (p *Planner[G]) NewRun(scene Scene) *Run[G] {
	s := scene.normalized()
	seed := s.Seed
	if seed == 0 {
		seed = SeedFor(s.TickInterval, s.AgentID) ^ s.Tick
	}
	return &Run[G]{
		planner: p,
		scene:   s,
		rng:     newRand(seed),
		state:   Uninitialized,
	}
}

// WithRand replaces the random stream, for reproducible runs.
func (r *Run[G]) WithRand(rng *rand.Rand) *Run[G] {
	r.rng = rng
	return r
}

// State reports where the run is in its lifecycle.
func (r *Run[G]) State() State {
	return r.state
}

func (r *Run[G]) advance(next State) {
	for _, from := range transitions[next] {
		if r.state == from {
			r.state = next
			return
		}
	}
	panic(fmt.Sprintf("planner: illegal transition %s -> %s", r.state, next))
}

// Execute runs every stage and returns the winner. The arena is released on
// every exit path.
func (r *Run[G]) Execute() Result {
	if r.state != Uninitialized {
		panic(fmt.Sprintf("planner: run executed twice (state %s)", r.state))
	}
	opts := &r.planner.opts
	r.started = time.Now()
	r.arena = r.planner.arenas.acquire()
	defer r.dispose()

	r.initialize()
	for g := 0; g < opts.Iterations; g++ {
		r.advance(Evaluating)
		r.evaluate(g, false)
		r.advance(Selecting)
		r.selectNext()
		r.advance(Recombining)
		r.recombine()
		r.advance(Mutating)
		r.mutate()
	}
	r.advance(FinalEvaluation)
	r.evaluate(opts.Iterations, true)

	r.advance(WinnerExtracted)
	res := r.winner()
	r.publish(res)
	return res
}

func (r *Run[G]) initialize() {
	a := r.arena
	r.planner.opts.Initializer.Initialize(a.current, &r.scene, r.rng)
	a.current.mustFinite("initialization")
	r.advance(Initialized)
}

// evaluate traces every individual, scores it on every objective and
// combines the scores into its fitness.
func (r *Run[G]) evaluate(generation int, final bool) {
	a := r.arena
	opts := &r.planner.opts
	pop := a.current
	r.forEach(len(pop), func(i int) {
		a.traces[i] = pop[i].Path.Trace(&r.scene, a.traces[i])
		for k, obj := range opts.Objectives {
			a.components[k][i] = obj.Score(a.traces[i], &r.scene)
		}
	})
	opts.Combiner.Combine(a.components, a.fitness)
	for i := range pop {
		pop[i].Fitness = a.fitness[i]
	}
	if opts.Sink != nil {
		best := pop.Best()
		var bestTrace []geometry.Vector2D
		if best >= 0 {
			bestTrace = a.traces[best]
		}
		a.records = append(a.records, newRecord(generation, final, a.fitness, best, bestTrace))
	}
}

func (r *Run[G]) forEach(n int, fn func(i int)) {
	workers := r.planner.opts.Parallelism
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	p := pool.New().WithMaxGoroutines(min(workers, n))
	for i := 0; i < n; i++ {
		p.Go(func() { fn(i) })
	}
	p.Wait()
}

func (r *Run[G]) selectNext() {
	a := r.arena
	before := len(a.current)
	next := r.planner.opts.Selector.Select(a.current, a.scratch, r.rng)
	mustSameSize("selection", before, len(next))
	if len(next) > 0 && &next[0] == &a.scratch[0] {
		a.current, a.scratch = a.scratch, a.current
	}
}

// unprotected is the part of the population crossover and mutation may touch.
func (r *Run[G]) unprotected() Population[G] {
	return r.arena.current[r.planner.opts.Elite:]
}

func (r *Run[G]) recombine() {
	before := len(r.arena.current)
	r.planner.opts.Crossover.Crossover(r.unprotected(), r.rng)
	mustSameSize("crossover", before, len(r.arena.current))
}

func (r *Run[G]) mutate() {
	target := r.unprotected()
	for _, m := range r.planner.opts.Mutators {
		m.Mutate(target, &r.scene, r.rng)
	}
	r.arena.current.mustFinite("mutation")
}

// winner converts the first step of the fittest individual. When no fitness
// beats negative infinity the first individual is used.
func (r *Run[G]) winner() Result {
	pop := r.arena.current
	best := pop.Best()
	if best < 0 {
		best = 0
	}
	v := pop[best].Path.FirstStep(&r.scene)
	return Result{
		Velocity: v,
		Target:   v.MoveToOrigin(r.scene.Position),
		Fitness:  pop[best].Fitness,
	}
}

func (r *Run[G]) publish(res Result) {
	opts := &r.planner.opts
	r.planner.logger.Debugf("planner: agent %d tick %d: %d generations, velocity %s, fitness %.4f",
		r.scene.AgentID, r.scene.Tick, opts.Iterations, res.Velocity, res.Fitness)
	if opts.Sink == nil {
		return
	}
	runLog := RunLog{
		RunID:    uuid.New(),
		AgentID:  r.scene.AgentID,
		Tick:     r.scene.Tick,
		Started:  r.started,
		Duration: time.Since(r.started),
		Velocity: res.Velocity,
		Records:  r.arena.records,
	}
	if err := opts.Sink.Append(runLog); err != nil {
		r.planner.logger.Warnf("planner: agent %d: dropping run log: %v", r.scene.AgentID, err)
	}
}

func (r *Run[G]) dispose() {
	if r.arena != nil {
		r.planner.arenas.release(r.arena)
		r.arena = nil
	}
	r.advance(Disposed)
}

package planner

// Job is a planner run submitted in the background. The submitting agent
// keeps going and joins with Complete when it needs the result; there is no
// cancellation.
type Job struct {
	done     chan struct{}
	result   Result
	panicked any
}

// Schedule starts planning scene on its own goroutine.
func Schedule(s Steering, scene Scene) *Job {
	j := &Job{done: make(chan struct{})}
	go func() {
		defer close(j.done)
		defer func() {
			// re-raised by Complete on the joining goroutine
			if p := recover(); p != nil {
				j.panicked = p
			}
		}()
		j.result = s.Plan(scene)
	}()
	return j
}

// Inline plans scene on the calling goroutine and returns an already completed Job.
func Inline(s Steering, scene Scene) *Job {
	j := &Job{done: make(chan struct{}), result: s.Plan(scene)}
	close(j.done)
	return j
}

// Done reports whether the result is available without blocking.
func (j *Job) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Complete blocks until the run finished and returns its result. A run that
// panicked panics again here.
func (j *Job) Complete() Result {
	<-j.done
	if j.panicked != nil {
		panic(j.panicked)
	}
	return j.result
}

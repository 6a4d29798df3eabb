package planner

import (
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"gonum.org/v1/gonum/stat"
)

// GenerationRecord summarizes one fitness pass.
type GenerationRecord struct {
	// Generation is the loop index; the final evaluation has Generation == iterations.
	Generation int                 `json:"generation"`
	Final      bool                `json:"final"`
	Best       float64             `json:"best"`
	Mean       float64             `json:"mean"`
	StdDev     float64             `json:"stddev"`
	BestPath   []geometry.Vector2D `json:"best_path"`
}

// RunLog is the diagnostic stream of one run: iterations+1 records.
type RunLog struct {
	RunID    uuid.UUID          `json:"run_id"`
	AgentID  int                `json:"agent_id"`
	Tick     uint64             `json:"tick"`
	Started  time.Time          `json:"started"`
	Duration time.Duration      `json:"duration"`
	Velocity geometry.Vector2D  `json:"velocity"`
	Records  []GenerationRecord `json:"records"`
}

// Sink receives run logs. It is called once per run, from the goroutine that
// executed it, and must be safe for concurrent use.
type Sink interface {
	Append(log RunLog) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(RunLog) error

func (f SinkFunc) Append(log RunLog) error { return f(log) }

// newRecord computes the statistics of a fitness pass.
func newRecord(generation int, final bool, fitness []float64, best int, bestTrace []geometry.Vector2D) GenerationRecord {
	rec := GenerationRecord{Generation: generation, Final: final, Best: negInf}
	if best >= 0 {
		rec.Best = fitness[best]
		rec.BestPath = append([]geometry.Vector2D(nil), bestTrace...)
	}
	switch len(fitness) {
	case 0:
	case 1:
		rec.Mean = fitness[0]
	default:
		rec.Mean, rec.StdDev = stat.MeanStdDev(fitness, nil)
	}
	return rec
}

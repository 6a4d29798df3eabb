package planner

import "fmt"

// Combiner merges per-objective score arrays (components[k][i] is objective
// k for individual i) into one fitness per individual.
type Combiner interface {
	Combine(components [][]float64, fitness []float64)
}

// Default objective weights.
const (
	DefaultCollisionWeight   = 0.6
	DefaultEndDistanceWeight = 0.35
	DefaultJerkWeight        = 0.05
)

// WeightedSum is fitness[i] = sum_k Weights[k] * components[k][i].
// Weights are non-negative and need not sum to one.
type WeightedSum struct {
	Weights []float64
}

// NewWeightedSum validates the weights.
func NewWeightedSum(weights ...float64) (WeightedSum, error) {
	for k, w := range weights {
		if w < 0 {
			return WeightedSum{}, fmt.Errorf("%w: weight %d is negative (%v)", ErrInvalidConfig, k, w)
		}
	}
	return WeightedSum{Weights: weights}, nil
}

func (w WeightedSum) Combine(components [][]float64, fitness []float64) {
	if len(components) != len(w.Weights) {
		panic(fmt.Sprintf("planner: %d objectives for %d weights", len(components), len(w.Weights)))
	}
	for i := range fitness {
		sum := 0.0
		for k, weight := range w.Weights {
			sum += weight * components[k][i]
		}
		fitness[i] = sum
	}
}

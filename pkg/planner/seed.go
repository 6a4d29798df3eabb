package planner

import (
	"math"
	"math/rand/v2"
)

// SeedFor derives a run seed from the wall-clock delta of the tick (seconds)
// and the agent id, so that agents planning in the same tick draw
// uncorrelated streams.
func SeedFor(tickDelta float64, agentID int) uint64 {
	base := uint64(float64(math.MaxUint32) * math.Abs(tickDelta))
	return mix64(base ^ mix64(uint64(agentID)+1))
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, mix64(seed)))
}

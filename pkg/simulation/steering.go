package simulation

import (
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/tochemey/goakt/v3/log"
)

// BuildSteering creates the rule every agent of the crowd plans with. sink
// only receives genetic runs.
func (c *Config) BuildSteering(sink planner.Sink, logger log.Logger) (planner.Steering, error) {
	if c.Steering == SteeringReactive {
		return behavior.NewReactive(), nil
	}
	return planner.Build(c.Planner, sink, logger)
}

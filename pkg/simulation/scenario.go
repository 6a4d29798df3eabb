package simulation

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

// Scenario names.
const (
	ScenarioStraightLine = "straight_line"
	ScenarioCrossing     = "crossing"
	ScenarioCircle       = "circle"
)

// Spawn is where an agent starts and where it heads.
type Spawn struct {
	Name        string
	Start       geometry.Vector2D
	Destination geometry.Vector2D
}

type layout func(agents int, size, spacing float64) []Spawn

var scenarios = map[string]layout{
	ScenarioStraightLine: straightLine,
	ScenarioCrossing:     crossing,
	ScenarioCircle:       circle,
}

// Scenarios lists the known scenario names.
func Scenarios() []string {
	return []string{ScenarioStraightLine, ScenarioCrossing, ScenarioCircle}
}

// Layout returns the spawns of the configured scenario. Agents are kept at
// least four radii apart.
func (c *Config) Layout() ([]Spawn, error) {
	build, ok := scenarios[c.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scenario %q", ErrInvalidConfig, c.Scenario)
	}
	spacing := math.Max(4*c.AgentRadius, 1)
	return build(c.Agents, c.WorldSize, spacing), nil
}

// straightLine walks every agent size units up the Y axis, side by side.
// A single agent goes from (0,0) to (0,size).
func straightLine(agents int, size, spacing float64) []Spawn {
	spawns := make([]Spawn, agents)
	for i := range spawns {
		x := float64(i) * spacing
		spawns[i] = Spawn{
			Name:        fmt.Sprintf("Agent-%03d", i),
			Start:       geometry.Vector2D{X: x, Y: 0},
			Destination: geometry.Vector2D{X: x, Y: size},
		}
	}
	return spawns
}

// crossing lines two facing columns up at x = ±size/2; each agent heads to
// the mirror of its start.
func crossing(agents int, size, spacing float64) []Spawn {
	spawns := make([]Spawn, agents)
	half := size / 2
	rows := (agents + 1) / 2
	for i := range spawns {
		row := i / 2
		y := (float64(row) - float64(rows-1)/2) * spacing
		x := -half
		if i%2 == 1 {
			x = half
		}
		spawns[i] = Spawn{
			Name:        fmt.Sprintf("Agent-%03d", i),
			Start:       geometry.Vector2D{X: x, Y: y},
			Destination: geometry.Vector2D{X: -x, Y: y},
		}
	}
	return spawns
}

// circle places agents evenly on a ring of diameter size; each agent heads to
// the antipode. The ring grows when agents would overlap.
func circle(agents int, size, spacing float64) []Spawn {
	radius := size / 2
	if agents > 1 {
		// neighbours are one chord of angle 2*pi/agents apart
		if minRadius := spacing / (2 * math.Sin(math.Pi/float64(agents))); radius < minRadius {
			radius = minRadius
		}
	}
	spawns := make([]Spawn, agents)
	for i := range spawns {
		theta := 2 * math.Pi * float64(i) / float64(agents)
		start := geometry.NewVectorPolar(radius, theta)
		spawns[i] = Spawn{
			Name:        fmt.Sprintf("Agent-%03d", i),
			Start:       start,
			Destination: start.Mul(-1),
		}
	}
	return spawns
}

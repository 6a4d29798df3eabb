package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfig is returned when a crowd configuration fails validation.
var ErrInvalidConfig = errors.New("invalid simulation configuration")

// Spatial index kinds.
const (
	IndexRTree  = "rtree"
	IndexGrid   = "grid"
	IndexLinear = "linear"
)

// Steering rules.
const (
	SteeringGenetic  = "genetic"
	SteeringReactive = "reactive"
)

//go:embed config.schema.json
var configSchema string

const schemaURL = "config.schema.json"

type Config struct {
	// Scenario
	Scenario  string  `json:"scenario"`
	Agents    int     `json:"agents"`
	WorldSize float64 `json:"worldSize"` // extent of the scenario layout, in world units

	// Agent body and kinematics
	AgentSpeed      float64 `json:"agentSpeed"`
	AgentRadius     float64 `json:"agentRadius"`
	MaxAcceleration float64 `json:"maxAcceleration"`
	TickInterval    float64 `json:"tickInterval"`
	ArriveDistance  float64 `json:"arriveDistance"` // stop when this close to the destination
	CornerDistance  float64 `json:"cornerDistance"` // switch to the next corner when this close

	// Steering picks the genetic planner described by Planner or the reactive baseline.
	Steering string `json:"steering"`

	// Neighbour snapshot
	Index        string  `json:"index"`
	GridCellSize float64 `json:"gridCellSize"`

	// Async plans every agent on its own goroutine between the two update phases.
	Async bool `json:"async"`
	// StepTimeoutMs bounds how long a tick waits for one agent.
	StepTimeoutMs int `json:"stepTimeoutMs"`
	// MaxTicks stops headless runs; 0 runs until every agent arrived.
	MaxTicks int `json:"maxTicks"`

	// Viewer
	PixelsPerUnit float64 `json:"pixelsPerUnit"`
	WindowWidth   int     `json:"windowWidth"`
	WindowHeight  int     `json:"windowHeight"`

	Planner planner.Config `json:"planner"`
}

// DefaultConfig is the single agent walking from (0,0) to (0,40) at 5 units/s.
func DefaultConfig() *Config {
	return &Config{
		Scenario:        ScenarioStraightLine,
		Agents:          1,
		WorldSize:       40,
		AgentSpeed:      5,
		AgentRadius:     0.5,
		MaxAcceleration: 10,
		TickInterval:    planner.DefaultTickInterval,
		ArriveDistance:  0.1,
		CornerDistance:  1,
		Steering:        SteeringGenetic,
		Index:           IndexRTree,
		GridCellSize:    4,
		Async:           true,
		StepTimeoutMs:   2000,
		MaxTicks:        2000,
		PixelsPerUnit:   12,
		WindowWidth:     1000,
		WindowHeight:    800,
		Planner:         planner.DefaultConfig(),
	}
}

// Validate checks the rules the schema cannot express.
func (c *Config) Validate() error {
	switch {
	case c.Agents < 1:
		return fmt.Errorf("%w: agents must be >= 1, got %d", ErrInvalidConfig, c.Agents)
	case !(c.TickInterval > 0):
		return fmt.Errorf("%w: tickInterval must be > 0, got %v", ErrInvalidConfig, c.TickInterval)
	case c.AgentSpeed < 0 || c.AgentRadius < 0 || c.MaxAcceleration < 0:
		return fmt.Errorf("%w: agent speed, radius and acceleration must be >= 0", ErrInvalidConfig)
	case c.ArriveDistance >= c.CornerDistance:
		return fmt.Errorf("%w: arriveDistance (%v) must be below cornerDistance (%v)", ErrInvalidConfig, c.ArriveDistance, c.CornerDistance)
	case c.Index == IndexGrid && !(c.GridCellSize > 0):
		return fmt.Errorf("%w: gridCellSize must be > 0 for the grid index", ErrInvalidConfig)
	}
	switch c.Steering {
	case SteeringGenetic, SteeringReactive:
	default:
		return fmt.Errorf("%w: unknown steering %q", ErrInvalidConfig, c.Steering)
	}
	if _, ok := scenarios[c.Scenario]; !ok {
		return fmt.Errorf("%w: unknown scenario %q", ErrInvalidConfig, c.Scenario)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}

// LoadConfig reads a JSON configuration, validates it against the embedded
// schema and overlays it on DefaultConfig. Fields missing from the file keep
// their default value.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig is LoadConfig on an in-memory document.
func ParseConfig(b []byte) (*Config, error) {
	sch, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault is LoadConfig, or DefaultConfig when configFile is empty.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	if configFile == "" {
		cfg := DefaultConfig()
		return cfg, cfg.Validate()
	}
	return LoadConfig(configFile)
}

package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crowd.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig is invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Overlays defaults", func(t *testing.T) {
		path := writeConfig(t, `{
			"scenario": "circle",
			"agents": 12,
			"index": "grid",
			"planner": {"representation": "bezier", "mutations": ["straight_finish", "smooth"], "iterations": 20}
		}`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Scenario != ScenarioCircle || cfg.Agents != 12 || cfg.Index != IndexGrid {
			t.Errorf("loaded %s/%d/%s", cfg.Scenario, cfg.Agents, cfg.Index)
		}
		if cfg.AgentSpeed != 5 || cfg.TickInterval != planner.DefaultTickInterval {
			t.Errorf("defaults lost: speed %v, tick %v", cfg.AgentSpeed, cfg.TickInterval)
		}
		if cfg.Planner.Iterations != 20 || cfg.Planner.PopulationSize != 10 {
			t.Errorf("planner = %+v; want iterations 20 over default population", cfg.Planner)
		}
	})

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"Unknown field", `{"agentz": 3}`, "additionalProperties"},
		{"Bad enum", `{"index": "quadtree"}`, "index"},
		{"Negative speed", `{"agentSpeed": -1}`, "agentSpeed"},
		{"Unknown mutation", `{"planner": {"mutations": ["teleport"]}}`, "mutations"},
		{"Arrive beyond corner", `{"arriveDistance": 2, "cornerDistance": 1}`, "arriveDistance"},
		{"Not json", `{"agents": `, "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadConfig accepted an invalid file")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v; want os.ErrNotExist", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"No agents", func(c *Config) { c.Agents = 0 }},
		{"Zero tick", func(c *Config) { c.TickInterval = 0 }},
		{"Grid without cells", func(c *Config) { c.Index = IndexGrid; c.GridCellSize = 0 }},
		{"Unknown scenario", func(c *Config) { c.Scenario = "maze" }},
		{"Bad planner", func(c *Config) { c.Planner.PopulationSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) && !errors.Is(err, planner.ErrInvalidConfig) {
				t.Errorf("Validate = %v; want an invalid configuration error", err)
			}
		})
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault("")
	if err != nil {
		t.Fatalf("LoadConfigOrDefault(\"\"): %v", err)
	}
	if cfg.Scenario != DefaultConfig().Scenario {
		t.Errorf("scenario = %q; want the default", cfg.Scenario)
	}
	if _, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v; want ErrNotExist", err)
	}
}

func TestSampleConfigs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "configs", "*.json"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(paths) == 0 {
		t.Skip("no sample configs")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if _, err := planner.Build(cfg.Planner, nil, nil); err != nil {
				t.Errorf("planner.Build: %v", err)
			}
		})
	}
}

func TestConfig_BuildSteering(t *testing.T) {
	cfg := DefaultConfig()
	s, err := cfg.BuildSteering(nil, nil)
	if err != nil {
		t.Fatalf("BuildSteering: %v", err)
	}
	if _, ok := s.(*planner.Planner[planner.PolarPath]); !ok {
		t.Errorf("genetic steering is %T; want a polar planner", s)
	}

	cfg.Steering = SteeringReactive
	s, err = cfg.BuildSteering(nil, nil)
	if err != nil {
		t.Fatalf("BuildSteering: %v", err)
	}
	if _, ok := s.(behavior.Reactive); !ok {
		t.Errorf("reactive steering is %T; want behavior.Reactive", s)
	}

	cfg.Steering = "telepathy"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate(unknown steering) = %v; want ErrInvalidConfig", err)
	}
}

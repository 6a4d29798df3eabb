package report

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-ga-steering/internal/storage"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(b) < 8 || string(b[1:4]) != "PNG" {
		t.Errorf("%s is not a PNG (%d bytes)", path, len(b))
	}
}

func TestFitnessHistory(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		avgs    []storage.GenerationAverage
		wantErr error
	}{
		{"Empty", nil, ErrNoData},
		{"Two generations", []storage.GenerationAverage{
			{Generation: 0, Best: 0.4, Mean: 0.2, Runs: 3},
			{Generation: 1, Best: 0.7, Mean: 0.5, Runs: 3},
		}, nil},
		{"Infinite best is skipped", []storage.GenerationAverage{
			{Generation: 0, Best: math.Inf(-1), Mean: 0, Runs: 1},
			{Generation: 1, Best: 0.3, Mean: 0.1, Runs: 1},
		}, nil},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, string(rune('a'+i))+".png")
			err := FitnessHistory(tt.avgs, out)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FitnessHistory error = %v; want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				assertPNG(t, out)
			}
		})
	}
}

func TestBestPaths(t *testing.T) {
	out := filepath.Join(t.TempDir(), "paths.png")
	if err := BestPaths(planner.RunLog{}, nil, out); !errors.Is(err, ErrNoData) {
		t.Errorf("BestPaths(empty) error = %v; want ErrNoData", err)
	}

	run := planner.RunLog{AgentID: 2, Tick: 5, Records: []planner.GenerationRecord{
		{Generation: 0, Best: 0.1, BestPath: []geometry.Vector2D{{X: 0, Y: 0.5}, {X: 0.2, Y: 1}}},
		{Generation: 1, Best: 0.3, BestPath: []geometry.Vector2D{{X: 0, Y: 0.5}, {X: 0, Y: 1}}},
		{Generation: 2, Final: true, Best: 0.3, BestPath: []geometry.Vector2D{{X: 0, Y: 0.5}, {X: 0, Y: 1}}},
	}}
	dest := geometry.Vector2D{X: 0, Y: 3}
	if err := BestPaths(run, &dest, out); err != nil {
		t.Fatalf("BestPaths: %v", err)
	}
	assertPNG(t, out)
}

func TestTrajectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tracks.png")
	if err := Trajectories(nil, nil, out); !errors.Is(err, ErrNoData) {
		t.Errorf("Trajectories(nil) error = %v; want ErrNoData", err)
	}
	tracks := map[string][]geometry.Vector2D{
		"Agent-000": {{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
		"Agent-001": {{X: 4, Y: 0}},
	}
	dests := map[string]geometry.Vector2D{"Agent-000": {X: 0, Y: 2}, "Agent-001": {X: 4, Y: 2}}
	if err := Trajectories(tracks, dests, out); err != nil {
		t.Fatalf("Trajectories: %v", err)
	}
	assertPNG(t, out)
}

package simulation

import (
	"context"
	"testing"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
)

func newTestCrowd(t *testing.T, cfg *Config, steering planner.Steering, opts ...Option) *Crowd {
	t.Helper()
	ctx := context.Background()
	crowd, err := NewCrowd(ctx, cfg, steering, opts...)
	if err != nil {
		t.Fatalf("NewCrowd: %v", err)
	}
	t.Cleanup(func() { _ = crowd.Stop(ctx) })
	return crowd
}

func TestCrowd_StraightLineArrives(t *testing.T) {
	for _, index := range []string{IndexRTree, IndexGrid, IndexLinear} {
		t.Run(index, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Index = index
			crowd := newTestCrowd(t, cfg, &directSteering{})

			var ticks []uint64
			snap, err := crowd.Run(context.Background(), 200, func(s *Snapshot) { ticks = append(ticks, s.Tick) })
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !snap.Done() {
				t.Fatalf("agents still walking after %d ticks: %+v", snap.Tick, snap.Agents)
			}
			if snap.Tick != 80 || len(ticks) != 80 {
				t.Errorf("arrived on tick %d after %d observed ticks; want 80", snap.Tick, len(ticks))
			}
			if got := snap.Agents[0].Position; !vecNear(got, geometry.Vector2D{Y: 40}) {
				t.Errorf("final position %v; want (0, 40)", got)
			}
		})
	}
}

func TestCrowd_CrossingAllArrive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioCrossing
	cfg.Agents = 6
	crowd := newTestCrowd(t, cfg, &directSteering{})

	snap, err := crowd.Run(context.Background(), 500, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.Arrived != 6 {
		t.Errorf("%d/6 agents arrived", snap.Arrived)
	}
	for _, a := range snap.Agents {
		if a.Position.DistanceTo(a.Destination) > cfg.ArriveDistance {
			t.Errorf("%s stopped at %v, destination %v", a.Name, a.Position, a.Destination)
		}
	}
}

func TestCrowd_SnapshotsAndCurrent(t *testing.T) {
	cfg := DefaultConfig()
	crowd := newTestCrowd(t, cfg, &directSteering{})
	ctx := context.Background()

	if err := crowd.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	snap := <-crowd.Snapshots()
	if snap.Tick != 1 || len(snap.Agents) != 1 {
		t.Fatalf("snapshot tick %d with %d agents; want 1 and 1", snap.Tick, len(snap.Agents))
	}
	current, err := crowd.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.Tick != 1 || !vecNear(current.Agents[0].Position, geometry.Vector2D{Y: 0.5}) {
		t.Errorf("current = tick %d at %v; want tick 1 at (0, 0.5)", current.Tick, current.Agents[0].Position)
	}
	if current.Agents[0].Name != "Agent-000" || current.Agents[0].ID != 1 {
		t.Errorf("agent identity = %q/%d", current.Agents[0].Name, current.Agents[0].ID)
	}
}

func TestCrowd_GeneticPlannerMakesProgress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planner.Iterations = 10
	steering, err := planner.Build(cfg.Planner, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	crowd := newTestCrowd(t, cfg, steering)

	snap, err := crowd.Run(context.Background(), 20, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	a := snap.Agents[0]
	if !a.Position.IsFinite() {
		t.Fatalf("agent position %v", a.Position)
	}
	if d := a.Position.DistanceTo(a.Destination); d >= 40 {
		t.Errorf("agent is %v from its destination after 20 ticks; want closer than 40", d)
	}
	if a.Position.Len() > 20*cfg.AgentSpeed*cfg.TickInterval+1e-9 {
		t.Errorf("agent travelled %v in 20 ticks, faster than the speed limit", a.Position.Len())
	}
}

func TestNewCrowd_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agents = 0
	if _, err := NewCrowd(context.Background(), cfg, &directSteering{}); err == nil {
		t.Fatal("NewCrowd accepted zero agents")
	}
}

func TestSnapshotMessage(t *testing.T) {
	snap := &Snapshot{
		Tick:    9,
		Arrived: 1,
		Agents: []AgentState{{
			ID:          3,
			Name:        "Agent-002",
			Position:    geometry.Vector2D{X: 1, Y: 2},
			Forward:     geometry.Vector2D{X: 0, Y: 1},
			Velocity:    geometry.Vector2D{X: 0.1, Y: 0.2},
			Corner:      geometry.Vector2D{X: 5, Y: 5},
			Destination: geometry.Vector2D{X: 5, Y: 5},
			Radius:      0.5,
			Arrived:     true,
		}},
	}
	got, err := decodeSnapshot(snapshotMessage(snap))
	if err != nil {
		t.Fatalf("decodeSnapshot: %v", err)
	}
	if got.Tick != 9 || got.Arrived != 1 || len(got.Agents) != 1 || got.Agents[0] != snap.Agents[0] {
		t.Errorf("decoded %+v; want %+v", got, snap)
	}
	if _, err := decodeSnapshot(tickMessage()); err == nil {
		t.Error("decoding a tick as a snapshot must fail")
	}
}

func TestCrowd_ReactiveSteeringArrives(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steering = SteeringReactive
	steering, err := cfg.BuildSteering(nil, nil)
	if err != nil {
		t.Fatalf("BuildSteering: %v", err)
	}
	crowd := newTestCrowd(t, cfg, steering)

	snap, err := crowd.Run(context.Background(), 200, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !snap.Done() {
		t.Errorf("reactive agent still walking after %d ticks at %v", snap.Tick, snap.Agents[0].Position)
	}
}

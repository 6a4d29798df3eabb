package termview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := s.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

var lineSpawns = []simulation.Spawn{
	{Start: geometry.Vector2D{X: 0, Y: 0}, Destination: geometry.Vector2D{X: 0, Y: 10}},
	{Start: geometry.Vector2D{X: 10, Y: 0}, Destination: geometry.Vector2D{X: 10, Y: 10}},
}

func TestRenderer_Cell(t *testing.T) {
	s := newScreen(t, 11, 12)
	r := NewRenderer(s, lineSpawns, 0)

	tests := []struct {
		name     string
		p        geometry.Vector2D
		col, row int
		ok       bool
	}{
		{"Bottom left", geometry.Vector2D{X: 0, Y: 0}, 0, 10, true},
		{"Top right", geometry.Vector2D{X: 10, Y: 10}, 10, 0, true},
		{"Middle", geometry.Vector2D{X: 5, Y: 5}, 5, 5, true},
		{"Off screen", geometry.Vector2D{X: 20, Y: 5}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := r.cell(tt.p)
			if ok != tt.ok || col != tt.col || row != tt.row {
				t.Errorf("cell(%v) = (%d, %d, %v); want (%d, %d, %v)", tt.p, col, row, ok, tt.col, tt.row, tt.ok)
			}
		})
	}
}

func TestArrow(t *testing.T) {
	tests := []struct {
		heading geometry.Vector2D
		want    rune
	}{
		{geometry.Vector2D{X: 1, Y: 0}, '→'},
		{geometry.Vector2D{X: 0, Y: 1}, '↑'},
		{geometry.Vector2D{X: -1, Y: 0}, '←'},
		{geometry.Vector2D{X: 0, Y: -1}, '↓'},
		{geometry.Vector2D{X: 1, Y: -1}, '↘'},
	}
	for _, tt := range tests {
		if got := arrow(tt.heading); got != tt.want {
			t.Errorf("arrow(%v) = %q; want %q", tt.heading, got, tt.want)
		}
	}
}

func TestRenderer_Draw(t *testing.T) {
	s := newScreen(t, 11, 12)
	r := NewRenderer(s, lineSpawns, 0)
	snap := &simulation.Snapshot{
		Tick: 3,
		Agents: []simulation.AgentState{
			{Position: geometry.Vector2D{X: 0, Y: 5}, Forward: geometry.Vector2D{X: 0, Y: 1}, Destination: geometry.Vector2D{X: 0, Y: 10}},
			{Position: geometry.Vector2D{X: 10, Y: 10}, Forward: geometry.Vector2D{X: 0, Y: 1}, Destination: geometry.Vector2D{X: 10, Y: 10}, Arrived: true},
		},
		Arrived: 1,
	}
	r.Draw(snap, false)

	if got := runeAt(s, 0, 5); got != '↑' {
		t.Errorf("moving agent drawn as %q; want '↑'", got)
	}
	if got := runeAt(s, 0, 0); got != 'x' {
		t.Errorf("destination drawn as %q; want 'x'", got)
	}
	if got := runeAt(s, 10, 0); got != '●' {
		t.Errorf("arrived agent drawn as %q; want '●'", got)
	}
	if got := runeAt(s, 1, 11); got != 't' {
		t.Errorf("status line starts with %q; want 't'", got)
	}
}

type countingStepper struct {
	n    int
	done int
	err  error
}

func (c *countingStepper) Step(context.Context) (*simulation.Snapshot, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.n++
	snap := &simulation.Snapshot{Tick: uint64(c.n), Agents: []simulation.AgentState{{}}}
	if c.n >= c.done {
		snap.Arrived = 1
	}
	return snap, nil
}

func TestRun(t *testing.T) {
	t.Run("Quit key", func(t *testing.T) {
		s := newScreen(t, 20, 10)
		stepper := &countingStepper{done: 1 << 30}
		s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := Run(ctx, s, NewRenderer(s, lineSpawns, 1), stepper, time.Hour); err != nil {
			t.Errorf("Run returned %v; want nil on quit", err)
		}
	})
	t.Run("Step error stops the loop", func(t *testing.T) {
		s := newScreen(t, 20, 10)
		boom := errors.New("boom")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := Run(ctx, s, NewRenderer(s, lineSpawns, 1), &countingStepper{err: boom}, time.Millisecond)
		if !errors.Is(err, boom) {
			t.Errorf("Run returned %v; want %v", err, boom)
		}
	})
	t.Run("Stops stepping once done", func(t *testing.T) {
		s := newScreen(t, 20, 10)
		stepper := &countingStepper{done: 3}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		last, err := Run(ctx, s, NewRenderer(s, lineSpawns, 1), stepper, time.Millisecond)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Run returned %v; want deadline exceeded", err)
		}
		if stepper.n != 3 || !last.Done() {
			t.Errorf("stepped %d times, last done=%v; want 3, true", stepper.n, last.Done())
		}
	})
}

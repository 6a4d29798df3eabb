package termview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
)

// Stepper advances a crowd by one tick.
type Stepper interface {
	Step(ctx context.Context) (*simulation.Snapshot, error)
}

// Run steps the crowd every interval and draws each snapshot until the user
// quits (q, Esc or Ctrl-C) or ctx is done. Space toggles pause and 's'
// steps once while paused. It returns the last snapshot drawn.
func Run(ctx context.Context, screen tcell.Screen, r *Renderer, crowd Stepper, interval time.Duration) (*simulation.Snapshot, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	last := &simulation.Snapshot{}
	paused, stepOnce := false, false
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
					ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return last, nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
					paused = !paused
				case ev.Key() == tcell.KeyRune && ev.Rune() == 's':
					stepOnce = true
				}
			case *tcell.EventResize:
				screen.Sync()
			}
			r.Draw(last, paused)

		case <-ticker.C:
			if (paused && !stepOnce) || last.Done() {
				continue
			}
			stepOnce = false
			snap, err := crowd.Step(ctx)
			if err != nil {
				return last, err
			}
			last = snap
			r.Draw(last, paused)
		}
	}
}

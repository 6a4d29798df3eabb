// Package termview renders a crowd in a terminal with tcell.
package termview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
)

var (
	styleMoving      = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleArrived     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDestination = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// arrows indexed by heading octant, counter-clockwise from +X
var arrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// Renderer maps world coordinates onto a character grid. The last row is
// the status line.
type Renderer struct {
	screen tcell.Screen
	// Bounds of the world area shown, y up
	min, max geometry.Vector2D
}

// NewRenderer shows the box around every start and destination of spawns,
// grown by margin world units.
func NewRenderer(screen tcell.Screen, spawns []simulation.Spawn, margin float64) *Renderer {
	r := &Renderer{screen: screen}
	if len(spawns) == 0 {
		r.min = geometry.Vector2D{X: -margin, Y: -margin}
		r.max = geometry.Vector2D{X: margin, Y: margin}
		return r
	}
	r.min = geometry.Vector2D{X: math.Inf(1), Y: math.Inf(1)}
	r.max = geometry.Vector2D{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, s := range spawns {
		for _, p := range []geometry.Vector2D{s.Start, s.Destination} {
			r.min = geometry.Vector2D{X: math.Min(r.min.X, p.X), Y: math.Min(r.min.Y, p.Y)}
			r.max = geometry.Vector2D{X: math.Max(r.max.X, p.X), Y: math.Max(r.max.Y, p.Y)}
		}
	}
	r.min = r.min.Sub(geometry.Vector2D{X: margin, Y: margin})
	r.max = r.max.Add(geometry.Vector2D{X: margin, Y: margin})
	return r
}

// cell returns the column and row of p, and false when p is off screen.
func (r *Renderer) cell(p geometry.Vector2D) (int, int, bool) {
	w, h := r.screen.Size()
	h-- // status line
	if w < 1 || h < 1 {
		return 0, 0, false
	}
	spanX := math.Max(r.max.X-r.min.X, geometry.Epsilon)
	spanY := math.Max(r.max.Y-r.min.Y, geometry.Epsilon)
	col := int(math.Round((p.X - r.min.X) / spanX * float64(w-1)))
	row := int(math.Round((r.max.Y - p.Y) / spanY * float64(h-1)))
	if col < 0 || col >= w || row < 0 || row >= h {
		return 0, 0, false
	}
	return col, row, true
}

// arrow picks the glyph closest to heading.
func arrow(heading geometry.Vector2D) rune {
	angle := math.Atan2(heading.Y, heading.X)
	octant := int(math.Round(angle/(math.Pi/4))) & 7
	return arrows[octant]
}

// Draw clears the screen, draws snap and shows it.
func (r *Renderer) Draw(snap *simulation.Snapshot, paused bool) {
	r.screen.Clear()
	for _, a := range snap.Agents {
		if x, y, ok := r.cell(a.Destination); ok {
			r.screen.SetContent(x, y, 'x', nil, styleDestination)
		}
	}
	// agents after destinations, so an arrived agent hides its mark
	for _, a := range snap.Agents {
		x, y, ok := r.cell(a.Position)
		if !ok {
			continue
		}
		if a.Arrived {
			r.screen.SetContent(x, y, '●', nil, styleArrived)
			continue
		}
		r.screen.SetContent(x, y, arrow(a.Forward), nil, styleMoving)
	}
	r.drawStatus(snap, paused)
	r.screen.Show()
}

func (r *Renderer) drawStatus(snap *simulation.Snapshot, paused bool) {
	w, h := r.screen.Size()
	if h < 1 {
		return
	}
	status := fmt.Sprintf(" tick %d  arrived %d/%d ", snap.Tick, snap.Arrived, len(snap.Agents))
	switch {
	case snap.Done():
		status += " done, q to quit"
	case paused:
		status += " paused, space to resume"
	default:
		status += " space pause, q quit"
	}
	for x := 0; x < w; x++ {
		ch := ' '
		if x < len([]rune(status)) {
			ch = []rune(status)[x]
		}
		r.screen.SetContent(x, h-1, ch, nil, styleStatus)
	}
}

package ui

import "github.com/hajimehoshi/ebiten/v2"

// Widget is anything the panel can lay out.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// Height is the vertical space taken, label included.
	Height() float64
	// MoveTo places the widget's top-left corner.
	MoveTo(x, y float64)
}

// rect is a screen-space hit box.
type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(mx, my int) bool {
	x, y := float64(mx), float64(my)
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// clicked tracks a left-button press edge, so a held button fires once.
type clicked struct {
	down bool
}

// edge reports true on the first frame the button is pressed over r.
func (c *clicked) edge(r rect) bool {
	mx, my := ebiten.CursorPosition()
	if r.contains(mx, my) && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if c.down {
			return false
		}
		c.down = true
		return true
	}
	c.down = false
	return false
}

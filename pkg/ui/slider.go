package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a value in [Min, Max]. With Step > 0 the value snaps to
// multiples of Step above Min (use Step 1 for counts).
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64
	rect
	changed bool
}

// NewSlider creates a slider of width w whose bar starts at (x, y).
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		rect:  rect{X: x, Y: y, W: w, H: 10},
	}
	s.Set(value)
	s.changed = false
	return s
}

// Set clamps and snaps v, then stores it.
func (s *Slider) Set(v float64) {
	v = math.Max(s.Min, math.Min(s.Max, v))
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	if v != s.Value {
		s.Value = v
		s.changed = true
	}
}

// Int is Value rounded to the nearest integer.
func (s *Slider) Int() int { return int(math.Round(s.Value)) }

// Changed reports whether the value moved since the last call.
func (s *Slider) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && s.contains(mx, my) {
		s.Set(s.Min + (float64(mx)-s.X)/s.W*(s.Max-s.Min))
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, s.label(), int(s.X), int(s.Y-15))
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

func (s *Slider) label() string {
	if s.Step >= 1 {
		return fmt.Sprintf("%s: %d", s.Label, s.Int())
	}
	return fmt.Sprintf("%s: %.2f", s.Label, s.Value)
}

func (s *Slider) Height() float64 { return s.H + 25 }

func (s *Slider) MoveTo(x, y float64) { s.X, s.Y = x, y+15 }

package viewer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Pre-rendered sprites for batched drawing. Both face up.
var (
	walkerSprite  *ebiten.Image
	arrivedSprite *ebiten.Image
)

func init() {
	// . = transparent, H = hull, C = cockpit, E = exhaust
	design := []string{
		"....C....",
		"...CCC...",
		"..HHCHH..",
		".HHHHHHH.",
		"HHH.H.HHH",
		"HH..H..HH",
		"...EEE...",
	}
	walkerSprite = generateSprite(design, map[rune]color.RGBA{
		'H': {R: 0, G: 140, B: 255, A: 255},
		'C': {R: 220, G: 255, B: 255, A: 255},
		'E': {R: 255, G: 160, B: 40, A: 220},
	})
	arrivedSprite = generateSprite(design, map[rune]color.RGBA{
		'H': {R: 90, G: 200, B: 90, A: 255},
		'C': {R: 220, G: 255, B: 220, A: 255},
	})
}

// generateSprite converts an ASCII grid into an ebiten image.
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	w := 0
	for _, row := range design {
		w = max(w, len(row))
	}
	img := ebiten.NewImage(w, len(design))
	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}

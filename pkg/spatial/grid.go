package spatial

import (
	"math"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

type gridKey struct {
	x, y int
}

// Grid is a uniform spatial hash. Rebuild it between ticks; queries are read-only.
type Grid struct {
	cellSize  float64
	maxRadius float64
	// Map gridKey -> discs whose center falls in that cell
	cells map[gridKey][]Disc
}

// NewGrid creates an empty grid. Cells smaller than 1 unit are clamped to 1.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: math.Max(cellSize, 1.0),
		cells:    make(map[gridKey][]Disc),
	}
}

// GridBuilder returns a Builder that creates a fresh grid per call.
func GridBuilder(cellSize float64) Builder {
	return func(discs []Disc) Index {
		g := NewGrid(cellSize)
		g.Rebuild(discs)
		return g
	}
}

// Rebuild replaces the content of the grid with discs.
func (g *Grid) Rebuild(discs []Disc) {
	// Reset slices to length 0 but keep their capacity, so that steady-state
	// rebuilds do not allocate.
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	g.maxRadius = 0
	for _, d := range discs {
		key := g.keyOf(d.Center)
		g.cells[key] = append(g.cells[key], d)
		if d.Radius > g.maxRadius {
			g.maxRadius = d.Radius
		}
	}
}

func (g *Grid) keyOf(p geometry.Vector2D) gridKey {
	return gridKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// Query implements Index. Only the cells overlapping the swept segment box,
// grown by the largest disc radius, are scanned.
func (g *Grid) Query(start, end geometry.Vector2D, radius float64, excludeID int) int {
	min, max := geometry.SegmentBounds(start, end, radius+g.maxRadius)
	lo, hi := g.keyOf(min), g.keyOf(max)

	count := 0
	for gx := lo.x; gx <= hi.x; gx++ {
		for gy := lo.y; gy <= hi.y; gy++ {
			discs, ok := g.cells[gridKey{x: gx, y: gy}]
			if !ok {
				continue
			}
			for _, d := range discs {
				// 1. ID first, cheaper than the distance
				if d.ID == excludeID {
					continue
				}
				// 2. Swept distance
				if d.hits(start, end, radius) {
					count++
				}
			}
		}
	}
	return count
}

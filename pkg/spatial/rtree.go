package spatial

import (
	"github.com/dhconnelly/rtreego"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	// boundsTolerance keeps zero-sized discs and segments representable as rectangles.
	boundsTolerance = 1e-6
)

type rtreeEntry struct {
	disc   Disc
	bounds rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect {
	return e.bounds
}

// RTree is an immutable R-tree over agent discs, rebuilt every tick.
type RTree struct {
	tree      *rtreego.Rtree
	maxRadius float64
	size      int
}

// NewRTree bulk loads discs into a new tree.
func NewRTree(discs []Disc) *RTree {
	spatials := make([]rtreego.Spatial, 0, len(discs))
	maxRadius := 0.0
	for _, d := range discs {
		spatials = append(spatials, &rtreeEntry{
			disc:   d,
			bounds: discRect(d),
		})
		if d.Radius > maxRadius {
			maxRadius = d.Radius
		}
	}
	return &RTree{
		tree:      rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, spatials...),
		maxRadius: maxRadius,
		size:      len(discs),
	}
}

// BuildRTree is a Builder for RTree.
func BuildRTree(discs []Disc) Index {
	return NewRTree(discs)
}

// Size is the number of discs in the tree.
func (r *RTree) Size() int {
	return r.size
}

// Query implements Index. The segment's box, grown by the query radius, selects
// candidates whose disc boxes intersect it; a fine distance check follows.
func (r *RTree) Query(start, end geometry.Vector2D, radius float64, excludeID int) int {
	if r.size == 0 {
		return 0
	}
	min, max := geometry.SegmentBounds(start, end, radius+boundsTolerance)
	bb, err := rtreego.NewRectFromPoints(rtreego.Point{min.X, min.Y}, rtreego.Point{max.X, max.Y})
	if err != nil {
		return 0
	}
	count := 0
	exclude := func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		e := obj.(*rtreeEntry)
		return e.disc.ID == excludeID || !e.disc.hits(start, end, radius), false
	}
	for range r.tree.SearchIntersect(bb, exclude) {
		count++
	}
	return count
}

func discRect(d Disc) rtreego.Rect {
	r := d.Radius + boundsTolerance
	rect, err := rtreego.NewRect(rtreego.Point{d.Center.X - r, d.Center.Y - r}, []float64{2 * r, 2 * r})
	if err != nil {
		// only reachable with NaN input
		return rtreego.Point{d.Center.X, d.Center.Y}.ToRect(boundsTolerance)
	}
	return rect
}

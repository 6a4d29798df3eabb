// Package spatial holds the read-only neighbour structures the planner queries
// for collisions. An index is built once per tick from the agents' discs and
// must not change while planner runs for that tick are in flight.
package spatial

import "github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"

// Index answers swept-disc queries: how many discs, other than the one with
// excludeID, come closer than radius + their own radius to the segment [start, end].
type Index interface {
	Query(start, end geometry.Vector2D, radius float64, excludeID int) int
}

// Disc is one agent body as seen by an index.
type Disc struct {
	ID     int
	Center geometry.Vector2D
	Radius float64
}

// hits reports whether the segment swept by a disc of the given radius touches d.
func (d Disc) hits(start, end geometry.Vector2D, radius float64) bool {
	return geometry.SegmentPointDistance(start, end, d.Center) < radius+d.Radius
}

// Empty is an index with no discs.
type Empty struct{}

// Query always returns 0.
func (Empty) Query(_, _ geometry.Vector2D, _ float64, _ int) int { return 0 }

// Linear scans every disc. It is the reference the faster indexes are tested against.
type Linear []Disc

// Query implements Index.
func (l Linear) Query(start, end geometry.Vector2D, radius float64, excludeID int) int {
	count := 0
	for _, d := range l {
		if d.ID == excludeID {
			continue
		}
		if d.hits(start, end, radius) {
			count++
		}
	}
	return count
}

// Builder creates an Index from a set of discs.
type Builder func(discs []Disc) Index

package viewport

import (
	"sync"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// PointIndex is the point-feature counterpart of StreetIndex, used for stop
// signs and traffic signals. Same one-way materialization state machine,
// keyed by coordinate pair instead of street key, and only consulted when
// the user explicitly toggles the layer on.
type PointIndex struct {
	arena []domain.Point

	mu     sync.Mutex
	loaded map[domain.Point]struct{}
}

// NewPointIndex creates an index over the given points.
func NewPointIndex(points []domain.Point) *PointIndex {
	return &PointIndex{
		arena:  points,
		loaded: make(map[domain.Point]struct{}),
	}
}

// LoadVisible returns the points inside the box that have not been returned
// before, marking them loaded. Points are matched against the unpadded box.
func (x *PointIndex) LoadVisible(box domain.BoundingBox) []domain.Point {
	x.mu.Lock()
	defer x.mu.Unlock()

	var added []domain.Point
	for _, p := range x.arena {
		if _, done := x.loaded[p]; done {
			continue
		}
		if !box.Contains(p) {
			continue
		}
		x.loaded[p] = struct{}{}
		added = append(added, p)
	}
	return added
}

// Len returns the number of points materialized so far.
func (x *PointIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.loaded)
}

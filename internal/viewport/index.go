// Package viewport materializes the static street dataset incrementally as
// the visible map region moves. The full dataset stays in memory as an
// immutable arena of records; a grow-only set tracks which canonical keys
// have been materialized into the live street index. Materialization is
// one-way: panning away never evicts.
package viewport

import (
	"sync"

	"github.com/couchcryptid/street-plow-etl/internal/dataset"
	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// StreetIndex owns the arena of dataset records and the live Street
// aggregates materialized from it. Safe for concurrent use; the HTTP
// handlers call it from many goroutines while the refresh loop restamps
// plow data. Reads hand out copies, never the live aggregates.
type StreetIndex struct {
	arena   []dataset.StreetRecord
	padding float64

	mu           sync.Mutex
	materialized map[string]struct{}
	streets      map[string]*domain.Street
}

// NewStreetIndex creates an index over the given arena. padding is the
// fractional viewport expansion applied before intersection tests.
func NewStreetIndex(records []dataset.StreetRecord, padding float64) *StreetIndex {
	return &StreetIndex{
		arena:        records,
		padding:      padding,
		materialized: make(map[string]struct{}),
		streets:      make(map[string]*domain.Street),
	}
}

// LoadVisible materializes every not-yet-materialized street with at least
// one segment intersecting the padded viewport, and returns the newly
// created streets as copies, so ApplyPlowLookup can mutate the live
// aggregates without racing callers. Only the intersecting segments of each
// street are attached. Calling again with the same viewport is a no-op: the
// materialized-key set is checked before any per-record work.
func (x *StreetIndex) LoadVisible(view domain.BoundingBox) []domain.Street {
	box := view.Pad(x.padding)

	x.mu.Lock()
	defer x.mu.Unlock()

	var added []domain.Street
	for i := range x.arena {
		rec := &x.arena[i]
		if _, done := x.materialized[rec.Key]; done {
			continue
		}

		var visible []domain.Segment
		for _, seg := range rec.Segments {
			if segmentIntersects(seg, box) {
				visible = append(visible, seg)
			}
		}
		if len(visible) == 0 {
			continue
		}

		street := &domain.Street{
			Name:     rec.Name,
			Key:      rec.Key,
			Tier:     rec.Tier,
			Segments: visible,
		}
		x.streets[rec.Key] = street
		x.materialized[rec.Key] = struct{}{}
		// The copy shares the Segments backing array, which is never
		// mutated after materialization.
		added = append(added, *street)
	}
	return added
}

// Get returns a copy of the materialized street for a canonical key, if any.
func (x *StreetIndex) Get(key string) (domain.Street, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	s, ok := x.streets[key]
	if !ok {
		return domain.Street{}, false
	}
	return *s, true
}

// Len returns the number of materialized streets.
func (x *StreetIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.streets)
}

// ArenaLen returns the total number of dataset records held in memory.
func (x *StreetIndex) ArenaLen() int { return len(x.arena) }

// ApplyPlowLookup re-scans every materialized street against the lookup:
// matched streets get the timestamp and derived hours-since-plow attached,
// unmatched streets get any previously attached timestamp cleared so stale
// data never lingers. Returns the number of matched streets.
func (x *StreetIndex) ApplyPlowLookup(lookup domain.PlowLookup) int {
	x.mu.Lock()
	defer x.mu.Unlock()

	matched := 0
	for _, street := range x.streets {
		ts, ok := lookup[street.Key]
		if !ok {
			street.PlowTimestamp = ""
			street.HoursSincePlow = 0
			continue
		}
		hours, parsed := domain.HoursSincePlow(ts)
		if !parsed {
			street.PlowTimestamp = ""
			street.HoursSincePlow = 0
			continue
		}
		street.PlowTimestamp = ts
		street.HoursSincePlow = hours
		matched++
	}
	return matched
}

// segmentIntersects reports whether any point of the segment falls inside
// the box. A segment crossing the box with no vertex inside is missed; the
// padding applied in LoadVisible covers that case for visible streets.
func segmentIntersects(seg domain.Segment, box domain.BoundingBox) bool {
	for _, p := range seg {
		if box.Contains(p) {
			return true
		}
	}
	return false
}

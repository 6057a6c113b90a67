package domain

import "time"

// PriorityTier ranks a street's desirability for street skiing.
type PriorityTier string

const (
	// TierPrime marks narrow, quiet streets, the best skiing.
	TierPrime PriorityTier = "prime"
	// TierGood marks ordinary residential streets, the default tier.
	TierGood PriorityTier = "good"
	// TierAvoid marks bus routes and major arteries.
	TierAvoid PriorityTier = "avoid"
)

// Valid reports whether t is one of the three defined tiers.
func (t PriorityTier) Valid() bool {
	return t == TierPrime || t == TierGood || t == TierAvoid
}

// Segment is one contiguous polyline of a street. Source data cuts streets
// at intersections and borough boundaries, so a street usually has many.
type Segment []Point

// Street is the live aggregate for one canonical street key. It is created
// when the street first enters the viewport and mutated only by plow-status
// refreshes; the name, key, and tier are fixed for its lifetime.
type Street struct {
	// Name is the first-seen raw spelling, kept for display.
	Name string `json:"name"`
	// Key is the canonical join key produced by Normalizer.
	Key  string       `json:"key"`
	Tier PriorityTier `json:"tier"`
	// Segments holds only the polylines that have intersected a viewport.
	Segments []Segment `json:"segments"`

	// PlowTimestamp is the raw feed timestamp of the most recent plow pass,
	// empty when no data is available. HoursSincePlow is derived from it and
	// only meaningful when PlowTimestamp is non-empty.
	PlowTimestamp  string  `json:"plowTimestamp,omitempty"`
	HoursSincePlow float64 `json:"hoursSincePlow,omitempty"`
}

// HasPlowData reports whether a plow timestamp is currently attached.
func (s *Street) HasPlowData() bool { return s.PlowTimestamp != "" }

// plowTimeLayouts covers the timestamp shapes the NYC feeds emit: RFC 3339
// and Socrata's zone-less floating timestamp.
var plowTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParsePlowTime parses a feed timestamp. Zone-less values are taken as UTC.
func ParsePlowTime(ts string) (time.Time, bool) {
	for _, layout := range plowTimeLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// HoursSincePlow returns the elapsed hours since the given feed timestamp.
// The second return is false for empty or unparsable timestamps.
func HoursSincePlow(ts string) (float64, bool) {
	if ts == "" {
		return 0, false
	}
	t, ok := ParsePlowTime(ts)
	if !ok {
		return 0, false
	}
	return clock.Now().UTC().Sub(t).Hours(), true
}

package domain

import "time"

// PlowRecord is one row from the plow tracking feed: an opaque physical
// segment ID and the timestamp of a recorded plow pass. The feed is
// append-only, so the same physical ID appears once per pass.
type PlowRecord struct {
	PhysicalID string
	Timestamp  string
}

// CenterlineRecord is one row from the street centerline feed, the only
// bridge between a physical segment ID and a street name.
type CenterlineRecord struct {
	PhysicalID string
	RawName    string
}

// PlowLookup maps a canonical street key to the most recent plow timestamp
// among all physical segments that normalize to that key. Rebuilt in full
// on every refresh; never patched incrementally.
type PlowLookup map[string]string

// PlowSnapshot is the result of one joiner refresh. It atomically replaces
// the previous snapshot on success; a failed refresh leaves the previous
// snapshot in place.
type PlowSnapshot struct {
	Lookup    PlowLookup `json:"lookup"`
	FetchedAt time.Time  `json:"fetchedAt"`
	// NoStormData is set when the tracking feed returned zero records: a
	// valid "no active storm" state, distinct from a fetch failure.
	NoStormData bool `json:"noStormData"`
}

// NameNormalizer is the subset of Normalizer the join needs, so a memoized
// wrapper can be substituted.
type NameNormalizer interface {
	Normalize(raw string) string
}

// LatestByPhysicalID collapses the tracking feed to the most recent
// timestamp per physical ID. Records missing either field are skipped.
// Timestamps share one ISO-8601 format, so "most recent" is the
// lexicographic maximum.
func LatestByPhysicalID(records []PlowRecord) map[string]string {
	latest := make(map[string]string, len(records))
	for _, r := range records {
		if r.PhysicalID == "" || r.Timestamp == "" {
			continue
		}
		if current, ok := latest[r.PhysicalID]; !ok || r.Timestamp > current {
			latest[r.PhysicalID] = r.Timestamp
		}
	}
	return latest
}

// BuildPlowLookup joins the two feeds into a PlowLookup. Each centerline
// record resolves its physical ID to a timestamp (skipping segments with no
// recorded pass), normalizes its raw name, and the lookup keeps the latest
// timestamp per canonical key: a street's displayed status is the most
// recent plow of any of its physical segments.
func BuildPlowLookup(plows []PlowRecord, centerlines []CenterlineRecord, n NameNormalizer) PlowLookup {
	latest := LatestByPhysicalID(plows)

	lookup := make(PlowLookup)
	for _, c := range centerlines {
		if c.PhysicalID == "" || c.RawName == "" {
			continue
		}
		ts, ok := latest[c.PhysicalID]
		if !ok {
			continue
		}
		key := n.Normalize(c.RawName)
		if current, ok := lookup[key]; !ok || ts > current {
			lookup[key] = ts
		}
	}
	return lookup
}

// Package domain models New York City street data for the plow-status map.
//
// # Data Sources
//
// Street geometry originates from OpenStreetMap via the Overpass API: every
// named way tagged "highway" inside the city bounding box. The offline
// builder (cmd/builddata) groups way geometry under a canonical street key
// and writes a static JSON artifact the runtime service loads at startup.
//
// Plow activity comes from two NYC Open Data feeds:
//
//	PlowNYC equipment tracking: rows of (physical_id, timestamp), one row
//	per recorded plow pass over a physical street segment. Append-only; a
//	segment plowed many times appears many times.
//
//	NYC Street Centerline (CSCL): GeoJSON features whose properties carry
//	(physicalid, full_stree). The only bridge between a physical segment ID
//	and a street name.
//
// # Canonical Keys
//
// The two feeds and OSM disagree on spelling: "W 4 ST", "West 4th Street"
// and "West Fourth Street" all mean the same street. [Normalizer] maps any
// raw spelling to a single canonical key (uppercase, directions expanded,
// ordinals as digits, street types spelled out, punctuation removed,
// aliases resolved). All cross-dataset matching joins on that key, so
// normalization must be deterministic and idempotent.
//
// Streets that repeat across boroughs (numbered streets in Brooklyn, Queens
// and Manhattan) collapse to one key and share plow status. Known
// limitation, accepted for now; see DESIGN.md.
//
// # Priority Tiers
//
// Each street is classified once, from its raw display name, into one of
// three tiers ordered by skiing desirability:
//
//	prime: alleys, mews, and an enumerated list of narrow, quiet streets
//	good:  ordinary residential streets (the default)
//	avoid: bus routes and major arteries, plowed first and heavily trafficked
//
// Avoid patterns are checked before prime patterns: a name matching both
// resolves to avoid.
//
// # Plow Timestamps
//
// Feed timestamps are ISO-8601 strings in a uniform format, so "most
// recent" reduces to a lexicographic maximum and parsing is deferred until
// hours-since-plow is actually needed. A street with no entry in the plow
// lookup simply has no data, the expected state for most streets most of
// the time.
package domain

package dataset

import (
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// Way is a raw named way from the geometry source: a free-text name and an
// ordered polyline.
type Way struct {
	Name   string
	Points []domain.Point
}

// TrafficNode is a raw traffic-control point from the geometry source.
type TrafficNode struct {
	Kind  string // "stop" or "traffic_signals"
	Point domain.Point
}

// Builder pre-aggregates raw ways into the static street artifact.
type Builder struct {
	normalizer *domain.Normalizer
	classifier *domain.Classifier
	clock      clockwork.Clock
}

// NewBuilder creates a Builder. A nil clock means real time.
func NewBuilder(n *domain.Normalizer, c *domain.Classifier, clock clockwork.Clock) *Builder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Builder{normalizer: n, classifier: c, clock: clock}
}

// Build groups way geometry under one canonical key per street. The first
// way seen for a key fixes the street's display name and tier; later ways
// only contribute segments. Ways without a name or without geometry are
// skipped. Coordinates are rounded to 5 decimals. Street order follows
// first appearance in the input, so rebuilds from the same source diff
// cleanly.
func (b *Builder) Build(ways []Way) Artifact {
	index := make(map[string]int)
	var streets []StreetRecord

	for _, way := range ways {
		if way.Name == "" || len(way.Points) == 0 {
			continue
		}

		key := b.normalizer.Normalize(way.Name)
		seg := make(domain.Segment, len(way.Points))
		for i, p := range way.Points {
			seg[i] = domain.RoundPoint(p)
		}

		i, ok := index[key]
		if !ok {
			i = len(streets)
			index[key] = i
			streets = append(streets, StreetRecord{
				Name: way.Name,
				Key:  key,
				Tier: b.classifier.Classify(way.Name),
			})
		}
		streets[i].Segments = append(streets[i].Segments, seg)
	}

	return Artifact{
		Generated: b.clock.Now().UTC(),
		Stats:     computeStats(streets),
		Streets:   streets,
	}
}

// BuildTraffic splits traffic-control nodes into the two point sets the map
// toggles independently. Unknown kinds are skipped.
func (b *Builder) BuildTraffic(nodes []TrafficNode) TrafficArtifact {
	a := TrafficArtifact{Generated: b.clock.Now().UTC()}
	for _, n := range nodes {
		p := domain.RoundPoint(n.Point)
		switch n.Kind {
		case "stop":
			a.StopSigns = append(a.StopSigns, p)
		case "traffic_signals":
			a.TrafficLights = append(a.TrafficLights, p)
		}
	}
	return a
}

func computeStats(streets []StreetRecord) Stats {
	s := Stats{Streets: len(streets)}
	for i := range streets {
		s.Segments += len(streets[i].Segments)
		switch streets[i].Tier {
		case domain.TierPrime:
			s.Prime++
		case domain.TierGood:
			s.Good++
		case domain.TierAvoid:
			s.Avoid++
		}
	}
	return s
}

// Recompute returns fresh stats for an artifact's streets, used by the
// validator to detect drift between the stats block and the street array.
func Recompute(streets []StreetRecord) Stats {
	return computeStats(streets)
}

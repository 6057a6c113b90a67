// Command validate performs integrity checks on the built dataset
// artifacts: canonical key correctness, tier validity, stats consistency,
// and coordinate precision. Run it after builddata before shipping new
// artifacts.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -streets data/nyc-streets.json \
//	  -traffic data/nyc-traffic.json
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/street-plow-etl/internal/dataset"
	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	streetsPath := flag.String("streets", "", "path to the street artifact")
	trafficPath := flag.String("traffic", "", "path to the traffic-control artifact (optional)")
	flag.Parse()

	if *streetsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*streetsPath, *trafficPath); code != 0 {
		os.Exit(code)
	}
}

func run(streetsPath, trafficPath string) int {
	fmt.Println("=== Street Dataset Integrity Validation ===")
	fmt.Println()

	artifact, err := dataset.Load(streetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load street artifact: %v\n", err)
		return 1
	}

	rules := domain.NYCRules()
	normalizer := domain.NewNormalizer(rules.Aliases)
	classifier := domain.NewClassifier(rules)

	phases := []*phase{
		validateKeys(artifact.Streets, normalizer),
		validateTiers(artifact.Streets, classifier),
		validateStats(artifact),
		validateGeometry(artifact.Streets),
	}

	if trafficPath != "" {
		traffic, err := dataset.LoadTraffic(trafficPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load traffic artifact: %v\n", err)
			return 1
		}
		phases = append(phases, validateTraffic(traffic))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d streets, %d segments\n", artifact.Stats.Streets, artifact.Stats.Segments)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Canonical Keys ──
// Every key must be unique, derived from the street name, and stable under
// re-normalization.

func validateKeys(streets []dataset.StreetRecord, n *domain.Normalizer) *phase {
	p := &phase{name: "Phase 1: Canonical Keys"}

	seen := map[string]int{}
	for i := range streets {
		s := &streets[i]
		if s.Name == "" {
			p.errorf("street %d: empty name", i)
		}
		if s.Key == "" {
			p.errorf("street %d (%q): empty key", i, s.Name)
			continue
		}
		if prev, dup := seen[s.Key]; dup {
			p.errorf("street %d (%q): duplicate key %q, first used by street %d", i, s.Name, s.Key, prev)
		} else {
			seen[s.Key] = i
		}

		if got := n.Normalize(s.Name); got != s.Key {
			p.errorf("street %d (%q): key %q does not match normalized name %q", i, s.Name, s.Key, got)
		}
		if got := n.Normalize(s.Key); got != s.Key {
			p.errorf("street %d (%q): key %q is not a normalization fixed point (re-normalizes to %q)", i, s.Name, s.Key, got)
		}
	}
	return p
}

// ── Phase 2: Priority Tiers ──

func validateTiers(streets []dataset.StreetRecord, c *domain.Classifier) *phase {
	p := &phase{name: "Phase 2: Priority Tiers"}

	for i := range streets {
		s := &streets[i]
		if !s.Tier.Valid() {
			p.errorf("street %d (%q): invalid tier %q", i, s.Name, s.Tier)
			continue
		}
		if got := c.Classify(s.Name); got != s.Tier {
			p.errorf("street %d (%q): tier %q does not match classification %q", i, s.Name, s.Tier, got)
		}
	}
	return p
}

// ── Phase 3: Stats Consistency ──

func validateStats(a dataset.Artifact) *phase {
	p := &phase{name: "Phase 3: Stats Consistency"}

	if a.Generated.IsZero() {
		p.errorf("generated timestamp is zero")
	}
	want := dataset.Recompute(a.Streets)
	if a.Stats != want {
		p.errorf("stats block %+v does not match recomputed %+v", a.Stats, want)
	}
	return p
}

// ── Phase 4: Geometry ──
// Segments must be non-empty and coordinates rounded to 5 decimals inside
// plausible NYC bounds.

func validateGeometry(streets []dataset.StreetRecord) *phase {
	p := &phase{name: "Phase 4: Geometry"}

	for i := range streets {
		s := &streets[i]
		if len(s.Segments) == 0 {
			p.errorf("street %d (%q): no segments", i, s.Name)
			continue
		}
		for j, seg := range s.Segments {
			if len(seg) == 0 {
				p.errorf("street %d (%q): segment %d is empty", i, s.Name, j)
				continue
			}
			for _, pt := range seg {
				checkPoint(p, s.Name, pt)
			}
		}
	}
	return p
}

// ── Phase 5: Traffic Points ──

func validateTraffic(a dataset.TrafficArtifact) *phase {
	p := &phase{name: "Phase 5: Traffic Points"}

	if a.Generated.IsZero() {
		p.errorf("generated timestamp is zero")
	}
	for _, pt := range a.StopSigns {
		checkPoint(p, "stop sign", pt)
	}
	for _, pt := range a.TrafficLights {
		checkPoint(p, "traffic light", pt)
	}
	return p
}

func checkPoint(p *phase, what string, pt domain.Point) {
	if pt.Lat() < 40 || pt.Lat() > 41.2 || pt.Lon() < -74.6 || pt.Lon() > -73.3 {
		p.errorf("%s: coordinate (%g, %g) outside plausible city bounds", what, pt.Lat(), pt.Lon())
	}
	if !rounded5(pt.Lat()) || !rounded5(pt.Lon()) {
		p.errorf("%s: coordinate (%g, %g) not rounded to 5 decimals", what, pt.Lat(), pt.Lon())
	}
}

func rounded5(v float64) bool {
	scaled := v * 100000
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// Command builddata fetches raw street and traffic-control geometry from an
// Overpass API endpoint and writes the static dataset artifacts the server
// loads at startup. It uses the actual domain normalizer and classifier so
// the artifact keys match runtime join behavior.
//
// Usage:
//
//	go run ./cmd/builddata \
//	  -bbox 40.49,-74.26,40.92,-73.70 \
//	  -streets-out data/nyc-streets.json \
//	  -traffic-out data/nyc-traffic.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/street-plow-etl/internal/adapter/overpass"
	"github.com/couchcryptid/street-plow-etl/internal/dataset"
	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	bbox := flag.String("bbox", "40.49,-74.26,40.92,-73.70", "build area as south,west,north,east")
	streetsOut := flag.String("streets-out", "", "output path for the street artifact")
	trafficOut := flag.String("traffic-out", "", "output path for the traffic-control artifact")
	overpassURL := flag.String("overpass-url", "https://overpass-api.de/api/interpreter", "Overpass API endpoint")
	timeout := flag.Duration("timeout", 10*time.Minute, "per-request timeout")
	flag.Parse()

	if *streetsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -streets-out")
	}

	box, err := domain.ParseBoundingBox(*bbox)
	if err != nil {
		return fmt.Errorf("invalid -bbox: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := overpass.NewClient(*overpassURL, *timeout, logger)

	rules := domain.NYCRules()
	builder := dataset.NewBuilder(domain.NewNormalizer(rules.Aliases), domain.NewClassifier(rules), nil)

	ctx := context.Background()

	log.Printf("fetching ways for %s", *bbox)
	ways, err := client.FetchWays(ctx, box)
	if err != nil {
		return fmt.Errorf("fetching ways: %w", err)
	}
	log.Printf("fetched %d ways", len(ways))

	artifact := builder.Build(ways)
	if err := artifact.Write(*streetsOut); err != nil {
		return fmt.Errorf("writing street artifact: %w", err)
	}
	log.Printf("wrote street artifact: %s", *streetsOut)

	if *trafficOut != "" {
		nodes, err := client.FetchTrafficNodes(ctx, box)
		if err != nil {
			return fmt.Errorf("fetching traffic nodes: %w", err)
		}
		traffic := builder.BuildTraffic(nodes)
		if err := traffic.Write(*trafficOut); err != nil {
			return fmt.Errorf("writing traffic artifact: %w", err)
		}
		log.Printf("wrote traffic artifact: %s (%d stops, %d signals)",
			*trafficOut, len(traffic.StopSigns), len(traffic.TrafficLights))
	}

	printStats(artifact)
	return nil
}

func printStats(a dataset.Artifact) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Streets: %d\n", a.Stats.Streets)
	fmt.Printf("Segments: %d\n", a.Stats.Segments)
	fmt.Printf("By tier: prime=%d, good=%d, avoid=%d\n", a.Stats.Prime, a.Stats.Good, a.Stats.Avoid)

	// Largest streets by segment count, useful for spot checks.
	type streetCount struct {
		name  string
		count int
	}
	top := make([]streetCount, 0, len(a.Streets))
	for i := range a.Streets {
		top = append(top, streetCount{a.Streets[i].Name, len(a.Streets[i].Segments)})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].count > top[j].count })
	if len(top) > 10 {
		top = top[:10]
	}
	fmt.Println("Largest streets:")
	for _, s := range top {
		fmt.Printf("  %s: %d segments\n", s.name, s.count)
	}
}

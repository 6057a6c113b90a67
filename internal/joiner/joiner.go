// Package joiner fetches the live plow feeds, bridges physical segment IDs
// to canonical street keys, and maintains the current plow snapshot.
package joiner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
	"github.com/couchcryptid/street-plow-etl/internal/observability"
)

// Feed provides the two upstream datasets a refresh needs.
type Feed interface {
	FetchPlowRecords(ctx context.Context) ([]domain.PlowRecord, error)
	FetchCenterlines(ctx context.Context, box domain.BoundingBox) ([]domain.CenterlineRecord, error)
}

// Joiner runs refresh cycles and holds the latest successful snapshot.
// A failed refresh never disturbs the held snapshot.
type Joiner struct {
	feed       Feed
	normalizer domain.NameNormalizer
	city       domain.BoundingBox
	logger     *slog.Logger
	metrics    *observability.Metrics

	mu      sync.Mutex
	current *domain.PlowSnapshot
}

// New creates a Joiner. The city box bounds the centerline fetch.
func New(feed Feed, n domain.NameNormalizer, city domain.BoundingBox, logger *slog.Logger, metrics *observability.Metrics) *Joiner {
	return &Joiner{
		feed:       feed,
		normalizer: n,
		city:       city,
		logger:     logger,
		metrics:    metrics,
	}
}

// Current returns the latest snapshot, or nil if no refresh has succeeded yet.
func (j *Joiner) Current() *domain.PlowSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.current
}

// Refresh fetches both feeds and rebuilds the snapshot. An empty tracking
// feed is not an error: it produces a no-storm snapshot with an empty
// lookup, which downstream must treat differently from "refresh failed".
// On any fetch error the previous snapshot stays in place.
func (j *Joiner) Refresh(ctx context.Context) (*domain.PlowSnapshot, error) {
	start := time.Now()

	plows, err := j.timedFetchPlows(ctx)
	if err != nil {
		j.metrics.RefreshTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch plow records: %w", err)
	}

	if len(plows) == 0 {
		snap := &domain.PlowSnapshot{
			Lookup:      domain.PlowLookup{},
			FetchedAt:   time.Now().UTC(),
			NoStormData: true,
		}
		j.setCurrent(snap)
		j.metrics.RefreshTotal.WithLabelValues("no_storm").Inc()
		j.metrics.LookupEntries.Set(0)
		j.logger.Info("plow feed empty, no active storm data")
		return snap, nil
	}

	centerlines, err := j.timedFetchCenterlines(ctx)
	if err != nil {
		j.metrics.RefreshTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch centerlines: %w", err)
	}

	lookup := domain.BuildPlowLookup(plows, centerlines, j.normalizer)
	snap := &domain.PlowSnapshot{
		Lookup:    lookup,
		FetchedAt: time.Now().UTC(),
	}
	j.setCurrent(snap)

	j.metrics.RefreshTotal.WithLabelValues("success").Inc()
	j.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	j.metrics.LookupEntries.Set(float64(len(lookup)))
	j.logger.Info("plow snapshot rebuilt",
		"plow_records", len(plows),
		"centerlines", len(centerlines),
		"lookup_entries", len(lookup),
		"duration", time.Since(start),
	)
	return snap, nil
}

func (j *Joiner) timedFetchPlows(ctx context.Context) ([]domain.PlowRecord, error) {
	start := time.Now()
	plows, err := j.feed.FetchPlowRecords(ctx)
	if err == nil {
		j.metrics.FeedDuration.WithLabelValues("plow").Observe(time.Since(start).Seconds())
	}
	return plows, err
}

func (j *Joiner) timedFetchCenterlines(ctx context.Context) ([]domain.CenterlineRecord, error) {
	start := time.Now()
	centerlines, err := j.feed.FetchCenterlines(ctx, j.city)
	if err == nil {
		j.metrics.FeedDuration.WithLabelValues("centerline").Observe(time.Since(start).Seconds())
	}
	return centerlines, err
}

func (j *Joiner) setCurrent(snap *domain.PlowSnapshot) {
	j.mu.Lock()
	j.current = snap
	j.mu.Unlock()
}

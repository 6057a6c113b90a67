package joiner

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
	"github.com/couchcryptid/street-plow-etl/internal/observability"
	"github.com/couchcryptid/street-plow-etl/internal/viewport"
)

// SnapshotPublisher emits each rebuilt snapshot to an external sink.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap *domain.PlowSnapshot) error
}

// Runner drives periodic refreshes and applies each snapshot to the street
// index. A nil publisher disables publishing.
type Runner struct {
	joiner    *Joiner
	streets   *viewport.StreetIndex
	publisher SnapshotPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	interval  time.Duration
	ready     atomic.Bool
}

// NewRunner creates a Runner refreshing at the given interval.
func NewRunner(j *Joiner, streets *viewport.StreetIndex, pub SnapshotPublisher, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Runner {
	return &Runner{
		joiner:    j,
		streets:   streets,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		interval:  interval,
	}
}

// CheckReadiness returns nil once at least one refresh cycle has completed,
// or an error describing why the service is not yet ready.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no plow refresh has completed yet")
	}
	return nil
}

// Run executes the refresh loop until the context is cancelled. The first
// refresh happens immediately; failures retry with exponential backoff
// instead of waiting out the full interval.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("refresh runner started", "interval", r.interval)
	r.metrics.RunnerActive.Set(1)
	defer r.metrics.RunnerActive.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresh runner stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !r.runOnce(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// runOnce performs one refresh-apply-publish cycle and sleeps until the next.
// Returns false if the runner should stop.
func (r *Runner) runOnce(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	snap, err := r.joiner.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.logger.Error("plow refresh failed", "error", err)
		return r.backoffOrStop(ctx, backoff, maxBackoff)
	}
	*backoff = 200 * time.Millisecond

	r.Apply(ctx, snap)
	r.ready.Store(true)

	return sleepWithContext(ctx, r.interval)
}

// Apply pushes a snapshot into the street index and publishes it. Also used
// by the HTTP trigger so manual refreshes follow the same path.
func (r *Runner) Apply(ctx context.Context, snap *domain.PlowSnapshot) {
	matched := r.streets.ApplyPlowLookup(snap.Lookup)
	r.metrics.MatchedStreets.Set(float64(matched))
	r.logger.Info("plow lookup applied",
		"matched_streets", matched,
		"materialized_streets", r.streets.Len(),
		"no_storm", snap.NoStormData,
	)

	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishSnapshot(ctx, snap); err != nil {
		r.logger.Warn("snapshot publish failed", "error", err)
		return
	}
	r.metrics.SnapshotsWritten.Inc()
}

// backoffOrStop sleeps with the current backoff and advances it. Returns
// false if the runner should stop.
func (r *Runner) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package joiner

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/street-plow-etl/internal/dataset"
	"github.com/couchcryptid/street-plow-etl/internal/domain"
	"github.com/couchcryptid/street-plow-etl/internal/observability"
	"github.com/couchcryptid/street-plow-etl/internal/style"
	"github.com/couchcryptid/street-plow-etl/internal/viewport"
)

// recordingPublisher captures published snapshots.
type recordingPublisher struct {
	snaps []*domain.PlowSnapshot
	err   error
}

func (p *recordingPublisher) PublishSnapshot(_ context.Context, snap *domain.PlowSnapshot) error {
	if p.err != nil {
		return p.err
	}
	p.snaps = append(p.snaps, snap)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func perryIndex() *viewport.StreetIndex {
	x := viewport.NewStreetIndex([]dataset.StreetRecord{
		{
			Name: "Perry Street", Key: "PERRY STREET", Tier: domain.TierGood,
			Segments: []domain.Segment{{{40.735, -74.006}, {40.736, -74.005}}},
		},
	}, 0)
	x.LoadVisible(domain.BoundingBox{South: 40.73, West: -74.01, North: 40.74, East: -73.99})
	return x
}

func TestRunnerApply(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	t.Run("applies and publishes", func(t *testing.T) {
		streets := perryIndex()
		pub := &recordingPublisher{}
		r := NewRunner(nil, streets, pub, discardLogger(), observability.NewMetricsForTesting(), time.Minute)

		snap := &domain.PlowSnapshot{
			Lookup: domain.PlowLookup{"PERRY STREET": "2024-01-07T10:00:00Z"},
		}
		r.Apply(context.Background(), snap)

		perry, ok := streets.Get("PERRY STREET")
		require.True(t, ok)
		assert.InDelta(t, 2.0, perry.HoursSincePlow, 1e-9)
		require.Len(t, pub.snaps, 1)
		assert.Same(t, snap, pub.snaps[0])
	})

	t.Run("nil publisher is fine", func(t *testing.T) {
		r := NewRunner(nil, perryIndex(), nil, discardLogger(), observability.NewMetricsForTesting(), time.Minute)
		r.Apply(context.Background(), &domain.PlowSnapshot{Lookup: domain.PlowLookup{}})
	})
}

func TestRunnerReadiness(t *testing.T) {
	feed := &stubFeed{
		plows:       []domain.PlowRecord{{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00Z"}},
		centerlines: []domain.CenterlineRecord{{PhysicalID: "100", RawName: "PERRY ST"}},
	}
	r := NewRunner(newTestJoiner(feed), perryIndex(), nil, discardLogger(), observability.NewMetricsForTesting(), time.Hour)

	assert.Error(t, r.CheckReadiness(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return r.CheckReadiness(context.Background()) == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

// The full path: feeds refresh into a snapshot, the snapshot applies to the
// materialized street, and the rendered style flips to the fresh-snow state.
func TestRunnerEndToEnd(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	feed := &stubFeed{
		plows: []domain.PlowRecord{
			{PhysicalID: "100", Timestamp: "2024-01-07T08:00:00Z"},
			{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00Z"},
		},
		centerlines: []domain.CenterlineRecord{
			{PhysicalID: "100", RawName: "PERRY ST"},
		},
	}
	j := newTestJoiner(feed)
	streets := perryIndex()
	pub := &recordingPublisher{}
	r := NewRunner(j, streets, pub, discardLogger(), observability.NewMetricsForTesting(), time.Minute)

	snap, err := j.Refresh(context.Background())
	require.NoError(t, err)
	r.Apply(context.Background(), snap)

	perry, ok := streets.Get("PERRY STREET")
	require.True(t, ok)
	assert.Equal(t, "2024-01-07T10:00:00Z", perry.PlowTimestamp)
	assert.InDelta(t, 2.0, perry.HoursSincePlow, 1e-9)

	assert.True(t, style.Skiable(&perry))
	assert.Equal(t, "#22C55E", style.ForStreet(&perry).Color)
	assert.Equal(t, "Plowed 2h ago", style.FormatPlowAge(perry.HoursSincePlow))

	require.Len(t, pub.snaps, 1)
}

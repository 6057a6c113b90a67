package joiner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
	"github.com/couchcryptid/street-plow-etl/internal/observability"
)

var testCity = domain.BoundingBox{South: 40.49, West: -74.26, North: 40.92, East: -73.70}

// stubFeed returns canned feed data or errors.
type stubFeed struct {
	plows           []domain.PlowRecord
	centerlines     []domain.CenterlineRecord
	plowErr         error
	centerlineErr   error
	centerlineBoxes []domain.BoundingBox
}

func (f *stubFeed) FetchPlowRecords(_ context.Context) ([]domain.PlowRecord, error) {
	return f.plows, f.plowErr
}

func (f *stubFeed) FetchCenterlines(_ context.Context, box domain.BoundingBox) ([]domain.CenterlineRecord, error) {
	f.centerlineBoxes = append(f.centerlineBoxes, box)
	return f.centerlines, f.centerlineErr
}

func newTestJoiner(feed Feed) *Joiner {
	rules := domain.NYCRules()
	n := domain.NewNormalizer(rules.Aliases)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(feed, n, testCity, logger, observability.NewMetricsForTesting())
}

func TestRefresh(t *testing.T) {
	t.Run("builds snapshot from both feeds", func(t *testing.T) {
		feed := &stubFeed{
			plows: []domain.PlowRecord{
				{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00Z"},
			},
			centerlines: []domain.CenterlineRecord{
				{PhysicalID: "100", RawName: "PERRY ST"},
			},
		}
		j := newTestJoiner(feed)

		snap, err := j.Refresh(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "2024-01-07T10:00:00Z", snap.Lookup["PERRY STREET"])
		assert.False(t, snap.NoStormData)
		assert.False(t, snap.FetchedAt.IsZero())
		assert.Same(t, snap, j.Current())
		require.Len(t, feed.centerlineBoxes, 1)
		assert.Equal(t, testCity, feed.centerlineBoxes[0])
	})

	t.Run("empty tracking feed means no storm", func(t *testing.T) {
		j := newTestJoiner(&stubFeed{})

		snap, err := j.Refresh(context.Background())

		require.NoError(t, err)
		assert.True(t, snap.NoStormData)
		assert.Empty(t, snap.Lookup)
		assert.Same(t, snap, j.Current())
	})

	t.Run("no storm skips the centerline fetch", func(t *testing.T) {
		feed := &stubFeed{}
		j := newTestJoiner(feed)

		_, err := j.Refresh(context.Background())

		require.NoError(t, err)
		assert.Empty(t, feed.centerlineBoxes)
	})

	t.Run("plow fetch error keeps previous snapshot", func(t *testing.T) {
		feed := &stubFeed{
			plows:       []domain.PlowRecord{{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00Z"}},
			centerlines: []domain.CenterlineRecord{{PhysicalID: "100", RawName: "PERRY ST"}},
		}
		j := newTestJoiner(feed)

		first, err := j.Refresh(context.Background())
		require.NoError(t, err)

		feed.plowErr = errors.New("socrata down")
		_, err = j.Refresh(context.Background())

		assert.Error(t, err)
		assert.Same(t, first, j.Current())
	})

	t.Run("centerline fetch error keeps previous snapshot", func(t *testing.T) {
		feed := &stubFeed{
			plows:       []domain.PlowRecord{{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00Z"}},
			centerlines: []domain.CenterlineRecord{{PhysicalID: "100", RawName: "PERRY ST"}},
		}
		j := newTestJoiner(feed)

		first, err := j.Refresh(context.Background())
		require.NoError(t, err)

		feed.centerlineErr = errors.New("timeout")
		_, err = j.Refresh(context.Background())

		assert.Error(t, err)
		assert.Same(t, first, j.Current())
	})

	t.Run("no refresh yet means nil current", func(t *testing.T) {
		j := newTestJoiner(&stubFeed{})
		assert.Nil(t, j.Current())
	})
}

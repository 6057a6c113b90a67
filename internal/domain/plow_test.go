package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestByPhysicalID(t *testing.T) {
	t.Run("keeps max timestamp per ID", func(t *testing.T) {
		latest := LatestByPhysicalID([]PlowRecord{
			{PhysicalID: "100", Timestamp: "2024-01-07T08:00:00Z"},
			{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00Z"},
			{PhysicalID: "100", Timestamp: "2024-01-07T09:00:00Z"},
			{PhysicalID: "200", Timestamp: "2024-01-07T07:30:00Z"},
		})

		assert.Equal(t, map[string]string{
			"100": "2024-01-07T10:00:00Z",
			"200": "2024-01-07T07:30:00Z",
		}, latest)
	})

	t.Run("skips records missing fields", func(t *testing.T) {
		latest := LatestByPhysicalID([]PlowRecord{
			{PhysicalID: "", Timestamp: "2024-01-07T08:00:00Z"},
			{PhysicalID: "100", Timestamp: ""},
			{PhysicalID: "100", Timestamp: "2024-01-07T08:00:00Z"},
		})

		assert.Equal(t, map[string]string{"100": "2024-01-07T08:00:00Z"}, latest)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, LatestByPhysicalID(nil))
	})
}

func TestBuildPlowLookup(t *testing.T) {
	n := newTestNormalizer()

	t.Run("joins feeds through physical IDs", func(t *testing.T) {
		plows := []PlowRecord{
			{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00Z"},
			{PhysicalID: "200", Timestamp: "2024-01-07T11:00:00Z"},
		}
		centerlines := []CenterlineRecord{
			{PhysicalID: "100", RawName: "PERRY ST"},
			{PhysicalID: "200", RawName: "W 11 ST"},
		}

		lookup := BuildPlowLookup(plows, centerlines, n)

		require.Len(t, lookup, 2)
		assert.Equal(t, "2024-01-07T10:00:00Z", lookup["PERRY STREET"])
		assert.Equal(t, "2024-01-07T11:00:00Z", lookup["WEST 11 STREET"])
	})

	t.Run("street keeps latest timestamp across its segments", func(t *testing.T) {
		// Two physical segments of one street, plowed at different times.
		plows := []PlowRecord{
			{PhysicalID: "100", Timestamp: "2024-01-07T08:00:00Z"},
			{PhysicalID: "101", Timestamp: "2024-01-07T10:30:00Z"},
		}
		centerlines := []CenterlineRecord{
			{PhysicalID: "100", RawName: "PERRY ST"},
			{PhysicalID: "101", RawName: "Perry Street"},
		}

		lookup := BuildPlowLookup(plows, centerlines, n)

		require.Len(t, lookup, 1)
		assert.Equal(t, "2024-01-07T10:30:00Z", lookup["PERRY STREET"])
	})

	t.Run("centerlines without plow passes are dropped", func(t *testing.T) {
		plows := []PlowRecord{
			{PhysicalID: "100", Timestamp: "2024-01-07T08:00:00Z"},
		}
		centerlines := []CenterlineRecord{
			{PhysicalID: "100", RawName: "PERRY ST"},
			{PhysicalID: "999", RawName: "CHARLES ST"},
			{PhysicalID: "", RawName: "BANK ST"},
			{PhysicalID: "300", RawName: ""},
		}

		lookup := BuildPlowLookup(plows, centerlines, n)

		require.Len(t, lookup, 1)
		assert.Contains(t, lookup, "PERRY STREET")
	})

	t.Run("name variants merge through normalization", func(t *testing.T) {
		plows := []PlowRecord{
			{PhysicalID: "100", Timestamp: "2024-01-07T08:00:00Z"},
			{PhysicalID: "101", Timestamp: "2024-01-07T09:00:00Z"},
		}
		centerlines := []CenterlineRecord{
			{PhysicalID: "100", RawName: "AVENUE OF THE AMERICAS"},
			{PhysicalID: "101", RawName: "6th Avenue"},
		}

		lookup := BuildPlowLookup(plows, centerlines, n)

		require.Len(t, lookup, 1)
		assert.Equal(t, "2024-01-07T09:00:00Z", lookup["6 AVENUE"])
	})
}

func TestParsePlowTime(t *testing.T) {
	t.Run("RFC 3339", func(t *testing.T) {
		got, ok := ParsePlowTime("2024-01-07T10:00:00Z")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC), got)
	})

	t.Run("socrata floating timestamp", func(t *testing.T) {
		got, ok := ParsePlowTime("2024-01-07T10:00:00.000")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC), got)

		got, ok = ParsePlowTime("2024-01-07T10:00:00")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC), got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := ParsePlowTime("last tuesday")
		assert.False(t, ok)
	})
}

func TestHoursSincePlow(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	t.Run("two hours ago", func(t *testing.T) {
		hours, ok := HoursSincePlow("2024-01-07T10:00:00Z")
		require.True(t, ok)
		assert.InDelta(t, 2.0, hours, 1e-9)
	})

	t.Run("fractional hours", func(t *testing.T) {
		hours, ok := HoursSincePlow("2024-01-07T11:30:00Z")
		require.True(t, ok)
		assert.InDelta(t, 0.5, hours, 1e-9)
	})

	t.Run("empty timestamp", func(t *testing.T) {
		_, ok := HoursSincePlow("")
		assert.False(t, ok)
	})

	t.Run("unparsable timestamp", func(t *testing.T) {
		_, ok := HoursSincePlow("not a time")
		assert.False(t, ok)
	})
}

package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

func street(tier domain.PriorityTier, hours float64) *domain.Street {
	s := &domain.Street{Name: "Perry Street", Key: "PERRY STREET", Tier: tier}
	if hours >= 0 {
		s.PlowTimestamp = "2024-01-07T10:00:00Z"
		s.HoursSincePlow = hours
	}
	return s
}

func TestForStreet(t *testing.T) {
	t.Run("base styles without plow data", func(t *testing.T) {
		assert.Equal(t, LineStyle{Color: "#22C55E", Weight: 7, Opacity: 0.85}, ForStreet(street(domain.TierPrime, -1)))
		assert.Equal(t, LineStyle{Color: "#3B82F6", Weight: 5, Opacity: 0.85}, ForStreet(street(domain.TierGood, -1)))
		assert.Equal(t, LineStyle{Color: "#2a2a2a", Weight: 4, Opacity: 0.5}, ForStreet(street(domain.TierAvoid, -1)))
	})

	t.Run("plowed two or more hours ago highlights green", func(t *testing.T) {
		got := ForStreet(street(domain.TierGood, 2.0))
		assert.Equal(t, LineStyle{Color: "#22C55E", Weight: 8, Opacity: 1}, got)

		got = ForStreet(street(domain.TierPrime, 36.0))
		assert.Equal(t, LineStyle{Color: "#22C55E", Weight: 10, Opacity: 1}, got)
	})

	t.Run("plowed one to two hours ago highlights blue", func(t *testing.T) {
		got := ForStreet(street(domain.TierGood, 1.5))
		assert.Equal(t, LineStyle{Color: "#3B82F6", Weight: 7, Opacity: 0.95}, got)
	})

	t.Run("plowed within the hour dims", func(t *testing.T) {
		got := ForStreet(street(domain.TierGood, 0.25))
		assert.Equal(t, LineStyle{Color: "#666666", Weight: 5, Opacity: 0.6}, got)
	})

	t.Run("avoid streets never restyle", func(t *testing.T) {
		base := ForStreet(street(domain.TierAvoid, -1))
		assert.Equal(t, base, ForStreet(street(domain.TierAvoid, 0.5)))
		assert.Equal(t, base, ForStreet(street(domain.TierAvoid, 3.0)))
	})

	t.Run("threshold boundaries", func(t *testing.T) {
		assert.Equal(t, "#22C55E", ForStreet(street(domain.TierGood, 2.0)).Color)
		assert.Equal(t, "#3B82F6", ForStreet(street(domain.TierGood, 1.999)).Color)
		assert.Equal(t, "#3B82F6", ForStreet(street(domain.TierGood, 1.0)).Color)
		assert.Equal(t, "#666666", ForStreet(street(domain.TierGood, 0.999)).Color)
	})
}

func TestSkiable(t *testing.T) {
	assert.True(t, Skiable(street(domain.TierGood, 2.0)))
	assert.True(t, Skiable(street(domain.TierPrime, 5.0)))
	assert.False(t, Skiable(street(domain.TierGood, 1.5)), "snow not settled yet")
	assert.False(t, Skiable(street(domain.TierAvoid, 5.0)), "avoid streets are never skiable")
	assert.False(t, Skiable(street(domain.TierGood, -1)), "no plow data")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Beginner", Label(domain.TierPrime))
	assert.Equal(t, "Intermediate", Label(domain.TierGood))
	assert.Equal(t, "Expert Only", Label(domain.TierAvoid))
}

func TestFormatPlowAge(t *testing.T) {
	assert.Equal(t, "Plowed 45m ago", FormatPlowAge(0.75))
	assert.Equal(t, "Plowed 0m ago", FormatPlowAge(0))
	assert.Equal(t, "Plowed 1h ago", FormatPlowAge(1.0))
	assert.Equal(t, "Plowed 5h ago", FormatPlowAge(5.9))
	assert.Equal(t, "Plowed 1d ago", FormatPlowAge(30))
	assert.Equal(t, "Plowed 3d ago", FormatPlowAge(80))
}

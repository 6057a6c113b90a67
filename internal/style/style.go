// Package style maps a street's tier and plow recency to the line style the
// map renders. Styling is a pure function of the street; the render layer
// re-invokes it after every plow refresh.
package style

import (
	"fmt"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// LineStyle is a rendered polyline style.
type LineStyle struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

const (
	colorPrime   = "#22C55E"
	colorGood    = "#3B82F6"
	colorAvoid   = "#2a2a2a"
	colorRecent  = "#666666"
	weightPrime  = 7
	weightGood   = 5
	weightAvoid  = 4
	freshHours   = 2.0
	settleHours  = 1.0
	baseOpacity  = 0.85
	avoidOpacity = 0.5
)

// ForStreet computes the style for a street. Base style comes from the tier;
// plow data restyles prime and good streets only. Avoid streets keep their
// dim base style no matter how recently they were plowed.
func ForStreet(s *domain.Street) LineStyle {
	base := baseStyle(s.Tier)
	if s.Tier == domain.TierAvoid || !s.HasPlowData() {
		return base
	}

	switch {
	case s.HoursSincePlow >= freshHours:
		// Long enough since the plow for snow to settle back in.
		return LineStyle{Color: colorPrime, Weight: base.Weight + 3, Opacity: 1}
	case s.HoursSincePlow >= settleHours:
		return LineStyle{Color: colorGood, Weight: base.Weight + 2, Opacity: 0.95}
	default:
		// Plowed within the hour: bare pavement, skip it.
		return LineStyle{Color: colorRecent, Weight: base.Weight, Opacity: 0.6}
	}
}

func baseStyle(tier domain.PriorityTier) LineStyle {
	switch tier {
	case domain.TierPrime:
		return LineStyle{Color: colorPrime, Weight: weightPrime, Opacity: baseOpacity}
	case domain.TierAvoid:
		return LineStyle{Color: colorAvoid, Weight: weightAvoid, Opacity: avoidOpacity}
	default:
		return LineStyle{Color: colorGood, Weight: weightGood, Opacity: baseOpacity}
	}
}

// Skiable reports whether a street currently has ski-worthy snow cover: not
// an avoid street, and last plowed at least two hours ago.
func Skiable(s *domain.Street) bool {
	return s.Tier != domain.TierAvoid && s.HasPlowData() && s.HoursSincePlow >= freshHours
}

// Label returns the rider-facing difficulty label for a tier.
func Label(tier domain.PriorityTier) string {
	switch tier {
	case domain.TierPrime:
		return "Beginner"
	case domain.TierAvoid:
		return "Expert Only"
	default:
		return "Intermediate"
	}
}

// FormatPlowAge renders an hours-since-plow value for display.
func FormatPlowAge(hours float64) string {
	switch {
	case hours < 1:
		return fmt.Sprintf("Plowed %dm ago", int(hours*60))
	case hours < 24:
		return fmt.Sprintf("Plowed %dh ago", int(hours))
	default:
		return fmt.Sprintf("Plowed %dd ago", int(hours/24))
	}
}

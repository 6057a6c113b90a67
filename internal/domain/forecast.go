package domain

import (
	"math"
	"time"
)

// snowCodes are the WMO weather codes that mean snow is falling.
var snowCodes = map[int]bool{71: true, 73: true, 75: true, 77: true, 85: true, 86: true}

// IsSnowCode reports whether a WMO weather code indicates snowfall.
func IsSnowCode(code int) bool { return snowCodes[code] }

// HourlyForecast is one hour of the snow forecast.
type HourlyForecast struct {
	Time          time.Time `json:"time"`
	TempF         float64   `json:"temp"`
	SnowfallIn    float64   `json:"snowfall"`
	PrecipIn      float64   `json:"precipitation"`
	ProbabilityPc float64   `json:"probability"`
	WeatherCode   int       `json:"weatherCode"`
}

// CurrentConditions is the instantaneous observation attached to a forecast.
type CurrentConditions struct {
	TempF       float64 `json:"temp"`
	SnowDepthIn float64 `json:"snowDepth"`
	IsSnowing   bool    `json:"isSnowing"`
}

// SnowTotals accumulates forecast snowfall over the next 6, 12, and 24 hours.
type SnowTotals struct {
	Next6h  float64 `json:"next6h"`
	Next12h float64 `json:"next12h"`
	Next24h float64 `json:"next24h"`
}

// SnowForecast is the assembled forecast served to the map.
type SnowForecast struct {
	Current   CurrentConditions `json:"current"`
	Hourly    []HourlyForecast  `json:"hourly"`
	Totals    SnowTotals        `json:"totals"`
	FetchedAt time.Time         `json:"fetchedAt"`
}

// MetersToInches converts a snow depth reported in meters.
func MetersToInches(m float64) float64 { return m * 39.37 }

// BuildSnowForecast trims an hourly series to the next 24 hours starting at
// the current hour and computes accumulation totals. Hours are matched by
// calendar hour and day in the series' own zone, so a series that starts in
// the past is aligned to now regardless of the server's local zone; if no
// hour matches, the series is used from the beginning.
func BuildSnowForecast(current CurrentConditions, hourly []HourlyForecast) SnowForecast {
	now := clock.Now()

	local := now
	if len(hourly) > 0 {
		local = now.In(hourly[0].Time.Location())
	}
	start := 0
	for i, h := range hourly {
		if h.Time.Hour() == local.Hour() && h.Time.Day() == local.Day() {
			start = i
			break
		}
	}

	return SnowForecast{
		Current: current,
		Hourly:  sliceHours(hourly, start, 24),
		Totals: SnowTotals{
			Next6h:  roundHundredth(sumSnowfall(hourly, start, 6)),
			Next12h: roundHundredth(sumSnowfall(hourly, start, 12)),
			Next24h: roundHundredth(sumSnowfall(hourly, start, 24)),
		},
		FetchedAt: now,
	}
}

func sliceHours(hourly []HourlyForecast, start, n int) []HourlyForecast {
	end := start + n
	if end > len(hourly) {
		end = len(hourly)
	}
	if start >= end {
		return nil
	}
	return hourly[start:end]
}

func sumSnowfall(hourly []HourlyForecast, start, n int) float64 {
	var sum float64
	for _, h := range sliceHours(hourly, start, n) {
		sum += h.SnowfallIn
	}
	return sum
}

func roundHundredth(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package openmeteo fetches the snow forecast for the city center from the
// Open-Meteo API. The API returns hourly values as parallel arrays; this
// adapter zips them into per-hour records.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// Client fetches forecasts for a fixed coordinate.
type Client struct {
	baseURL    string
	lat, lon   float64
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client for the given coordinate.
func NewClient(baseURL string, lat, lon float64, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchForecast returns the assembled snow forecast: current conditions plus
// the next 24 hours with accumulation totals.
func (c *Client) FetchForecast(ctx context.Context) (domain.SnowForecast, error) {
	params := url.Values{
		"latitude":            {fmt.Sprintf("%g", c.lat)},
		"longitude":           {fmt.Sprintf("%g", c.lon)},
		"current":             {"temperature_2m,snowfall,snow_depth,weather_code"},
		"hourly":              {"temperature_2m,snowfall,precipitation_probability,precipitation,weather_code"},
		"temperature_unit":    {"fahrenheit"},
		"precipitation_unit":  {"inch"},
		"timezone":            {"America/New_York"},
		"forecast_days":       {"2"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.SnowForecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SnowForecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.SnowForecast{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var doc response
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return domain.SnowForecast{}, fmt.Errorf("decode response: %w", err)
	}

	// Hourly times come back as zone-less wall-clock strings in the requested
	// timezone; utc_offset_seconds pins them to an absolute instant.
	loc := time.FixedZone("forecast", doc.UTCOffsetSeconds)
	hourly, err := zipHourly(doc.Hourly, loc)
	if err != nil {
		return domain.SnowForecast{}, err
	}

	current := domain.CurrentConditions{
		TempF: doc.Current.Temperature,
		// Snow depth comes back in meters regardless of precipitation unit.
		SnowDepthIn: domain.MetersToInches(doc.Current.SnowDepth),
		IsSnowing:   doc.Current.Snowfall > 0 || domain.IsSnowCode(doc.Current.WeatherCode),
	}

	forecast := domain.BuildSnowForecast(current, hourly)
	c.logger.Debug("forecast fetched", "hours", len(forecast.Hourly), "next_24h_in", forecast.Totals.Next24h)
	return forecast, nil
}

// zipHourly converts the parallel arrays into per-hour records, stopping at
// the shortest array so a truncated response cannot index out of range.
func zipHourly(h hourlyBlock, loc *time.Location) ([]domain.HourlyForecast, error) {
	n := len(h.Time)
	for _, l := range []int{len(h.Temperature), len(h.Snowfall), len(h.Probability), len(h.Precipitation), len(h.WeatherCode)} {
		if l < n {
			n = l
		}
	}

	out := make([]domain.HourlyForecast, 0, n)
	for i := 0; i < n; i++ {
		t, err := time.ParseInLocation("2006-01-02T15:04", h.Time[i], loc)
		if err != nil {
			return nil, fmt.Errorf("parse hourly time %q: %w", h.Time[i], err)
		}
		out = append(out, domain.HourlyForecast{
			Time:          t,
			TempF:         h.Temperature[i],
			SnowfallIn:    h.Snowfall[i],
			PrecipIn:      h.Precipitation[i],
			ProbabilityPc: h.Probability[i],
			WeatherCode:   h.WeatherCode[i],
		})
	}
	return out, nil
}

// Open-Meteo API response types.

type response struct {
	UTCOffsetSeconds int          `json:"utc_offset_seconds"`
	Current          currentBlock `json:"current"`
	Hourly           hourlyBlock  `json:"hourly"`
}

type currentBlock struct {
	Temperature float64 `json:"temperature_2m"`
	Snowfall    float64 `json:"snowfall"`
	SnowDepth   float64 `json:"snow_depth"`
	WeatherCode int     `json:"weather_code"`
}

type hourlyBlock struct {
	Time          []string  `json:"time"`
	Temperature   []float64 `json:"temperature_2m"`
	Snowfall      []float64 `json:"snowfall"`
	Probability   []float64 `json:"precipitation_probability"`
	Precipitation []float64 `json:"precipitation"`
	WeatherCode   []int     `json:"weather_code"`
}

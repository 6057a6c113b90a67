// Package config loads service settings from the environment. A .env file
// in the working directory is applied first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Static dataset artifacts produced by the builder.
	StreetDataPath  string
	TrafficDataPath string

	// Live feed endpoints.
	PlowFeedURL       string
	CenterlineFeedURL string
	FeedTimeout       time.Duration
	PlowLimit         int
	CenterlineLimit   int

	// Viewport and refresh behavior.
	CityBounds      domain.BoundingBox
	ViewportPadding float64
	RefreshInterval time.Duration

	NormalizerCacheSize int

	// Kafka snapshot publishing configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Snow forecast configuration.
	ForecastEnabled bool
	ForecastURL     string
	ForecastLat     float64
	ForecastLon     float64
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	// Ignore a missing .env; env vars alone are fine in production.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	feedTimeout, err := parseDuration("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}

	city, err := domain.ParseBoundingBox(envOrDefault("CITY_BOUNDS", "40.49,-74.26,40.92,-73.70"))
	if err != nil {
		return nil, fmt.Errorf("invalid CITY_BOUNDS: %w", err)
	}

	padding, err := parseFloat("VIEWPORT_PADDING", 0.3)
	if err != nil {
		return nil, err
	}
	forecastLat, err := parseFloat("FORECAST_LAT", 40.7421)
	if err != nil {
		return nil, err
	}
	forecastLon, err := parseFloat("FORECAST_LON", -73.9914)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	forecastEnabled := true
	if v := os.Getenv("FORECAST_ENABLED"); v != "" {
		forecastEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StreetDataPath:  envOrDefault("STREET_DATA_PATH", "data/nyc-streets.json"),
		TrafficDataPath: envOrDefault("TRAFFIC_DATA_PATH", "data/nyc-traffic.json"),

		PlowFeedURL:       envOrDefault("PLOW_FEED_URL", "https://data.cityofnewyork.us/resource/rmhc-afj9.json"),
		CenterlineFeedURL: envOrDefault("CENTERLINE_FEED_URL", "https://data.cityofnewyork.us/resource/inkn-q76z.json"),
		FeedTimeout:       feedTimeout,
		PlowLimit:         parseInt("PLOW_LIMIT", 100000),
		CenterlineLimit:   parseInt("CENTERLINE_LIMIT", 200000),

		CityBounds:      city,
		ViewportPadding: padding,
		RefreshInterval: refreshInterval,

		NormalizerCacheSize: parseInt("NORMALIZER_CACHE_SIZE", 10000),

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "plow-snapshots"),
		KafkaEnabled: kafkaEnabled,

		ForecastEnabled: forecastEnabled,
		ForecastURL:     envOrDefault("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		ForecastLat:     forecastLat,
		ForecastLon:     forecastLon,
	}

	if cfg.PlowFeedURL == "" {
		return nil, errors.New("PLOW_FEED_URL is required")
	}
	if cfg.CenterlineFeedURL == "" {
		return nil, errors.New("CENTERLINE_FEED_URL is required")
	}
	if cfg.StreetDataPath == "" {
		return nil, errors.New("STREET_DATA_PATH is required")
	}
	if cfg.ViewportPadding < 0 {
		return nil, errors.New("VIEWPORT_PADDING must not be negative")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

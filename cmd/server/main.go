package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/street-plow-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/street-plow-etl/internal/adapter/kafka"
	"github.com/couchcryptid/street-plow-etl/internal/adapter/openmeteo"
	"github.com/couchcryptid/street-plow-etl/internal/adapter/socrata"
	"github.com/couchcryptid/street-plow-etl/internal/config"
	"github.com/couchcryptid/street-plow-etl/internal/dataset"
	"github.com/couchcryptid/street-plow-etl/internal/domain"
	"github.com/couchcryptid/street-plow-etl/internal/joiner"
	"github.com/couchcryptid/street-plow-etl/internal/observability"
	"github.com/couchcryptid/street-plow-etl/internal/viewport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	artifact, err := dataset.Load(cfg.StreetDataPath)
	if err != nil {
		logger.Error("failed to load street dataset", "error", err, "path", cfg.StreetDataPath)
		os.Exit(1)
	}
	logger.Info("street dataset loaded",
		"streets", artifact.Stats.Streets,
		"segments", artifact.Stats.Segments,
		"generated", artifact.Generated,
	)
	streets := viewport.NewStreetIndex(artifact.Streets, cfg.ViewportPadding)

	// The traffic dataset is optional; without it the traffic layers are empty.
	var stops, signals *viewport.PointIndex
	if traffic, err := dataset.LoadTraffic(cfg.TrafficDataPath); err != nil {
		logger.Warn("traffic dataset unavailable", "error", err, "path", cfg.TrafficDataPath)
		stops = viewport.NewPointIndex(nil)
		signals = viewport.NewPointIndex(nil)
	} else {
		stops = viewport.NewPointIndex(traffic.StopSigns)
		signals = viewport.NewPointIndex(traffic.TrafficLights)
	}

	rules := domain.NYCRules()
	normalizer := domain.NewCachedNormalizer(domain.NewNormalizer(rules.Aliases), cfg.NormalizerCacheSize)

	feed := socrata.NewClient(cfg.PlowFeedURL, cfg.CenterlineFeedURL, cfg.FeedTimeout, cfg.PlowLimit, cfg.CenterlineLimit, logger)
	j := joiner.New(feed, normalizer, cfg.CityBounds, logger, metrics)

	// Snapshot publishing is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher joiner.SnapshotPublisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaPub
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	var forecast httpadapter.ForecastFetcher
	if cfg.ForecastEnabled {
		forecast = openmeteo.NewClient(cfg.ForecastURL, cfg.ForecastLat, cfg.ForecastLon, cfg.FeedTimeout, logger)
		logger.Info("snow forecast enabled", "lat", cfg.ForecastLat, "lon", cfg.ForecastLon)
	} else {
		logger.Info("snow forecast disabled")
	}

	runner := joiner.NewRunner(j, streets, publisher, logger, metrics, cfg.RefreshInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, streets, stops, signals, j, runner, forecast, runner, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh runner.
	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("refresh runner error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

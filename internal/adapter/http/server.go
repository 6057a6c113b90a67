// Package http exposes the map-facing API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
	"github.com/couchcryptid/street-plow-etl/internal/observability"
	"github.com/couchcryptid/street-plow-etl/internal/style"
	"github.com/couchcryptid/street-plow-etl/internal/viewport"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// PlowRefresher triggers refresh cycles and exposes the current snapshot.
type PlowRefresher interface {
	Refresh(ctx context.Context) (*domain.PlowSnapshot, error)
	Current() *domain.PlowSnapshot
}

// SnapshotApplier pushes a snapshot into the live street index.
type SnapshotApplier interface {
	Apply(ctx context.Context, snap *domain.PlowSnapshot)
}

// ForecastFetcher returns the current snow forecast.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context) (domain.SnowForecast, error)
}

// Server exposes the street map API over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics

	streets  *viewport.StreetIndex
	stops    *viewport.PointIndex
	signals  *viewport.PointIndex
	plow     PlowRefresher
	applier  SnapshotApplier
	forecast ForecastFetcher // nil when forecasts are disabled
}

// NewServer creates the API server. forecast may be nil.
func NewServer(
	addr string,
	streets *viewport.StreetIndex,
	stops, signals *viewport.PointIndex,
	plow PlowRefresher,
	applier SnapshotApplier,
	forecast ForecastFetcher,
	ready ReadinessChecker,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:   logger,
		metrics:  metrics,
		streets:  streets,
		stops:    stops,
		signals:  signals,
		plow:     plow,
		applier:  applier,
		forecast: forecast,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/streets", s.handleStreets)
	mux.HandleFunc("GET /v1/traffic", s.handleTraffic)
	mux.HandleFunc("POST /v1/plow/refresh", s.handlePlowRefresh)
	mux.HandleFunc("GET /v1/plow/status", s.handlePlowStatus)
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// streetFeature is one street in a streets response, styled and ready to draw.
type streetFeature struct {
	Name     string              `json:"name"`
	Key      string              `json:"key"`
	Tier     domain.PriorityTier `json:"tier"`
	Label    string              `json:"label"`
	Segments []domain.Segment    `json:"segments"`
	Style    style.LineStyle     `json:"style"`
	Skiable  bool                `json:"skiable"`
	PlowedAt string              `json:"plowedAt,omitempty"`
	PlowAge  string              `json:"plowAge,omitempty"`
}

type streetsResponse struct {
	Streets []streetFeature `json:"streets"`
	Total   int             `json:"total"`
}

// handleStreets materializes streets for the requested viewport and returns
// only the ones this call added. The client accumulates across calls, the
// same way panning accumulates layers on the map.
func (s *Server) handleStreets(w http.ResponseWriter, r *http.Request) {
	box, err := domain.ParseBoundingBox(r.URL.Query().Get("bbox"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.ViewportRequests.Inc()
	added := s.streets.LoadVisible(box)
	s.metrics.StreetsMaterialized.Set(float64(s.streets.Len()))

	resp := streetsResponse{Streets: make([]streetFeature, 0, len(added)), Total: s.streets.Len()}
	for i := range added {
		resp.Streets = append(resp.Streets, toFeature(&added[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toFeature(street *domain.Street) streetFeature {
	f := streetFeature{
		Name:     street.Name,
		Key:      street.Key,
		Tier:     street.Tier,
		Label:    style.Label(street.Tier),
		Segments: street.Segments,
		Style:    style.ForStreet(street),
		Skiable:  style.Skiable(street),
	}
	if street.HasPlowData() {
		f.PlowedAt = street.PlowTimestamp
		f.PlowAge = style.FormatPlowAge(street.HoursSincePlow)
	}
	return f
}

type trafficResponse struct {
	Kind   string         `json:"kind"`
	Points []domain.Point `json:"points"`
	Total  int            `json:"total"`
}

// handleTraffic returns newly visible traffic-control points of one kind.
func (s *Server) handleTraffic(w http.ResponseWriter, r *http.Request) {
	box, err := domain.ParseBoundingBox(r.URL.Query().Get("bbox"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var index *viewport.PointIndex
	kind := r.URL.Query().Get("kind")
	switch kind {
	case "stop":
		index = s.stops
	case "signal":
		index = s.signals
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `kind must be "stop" or "signal"`})
		return
	}

	points := index.LoadVisible(box)
	s.metrics.PointsMaterialized.Set(float64(s.stops.Len() + s.signals.Len()))
	if points == nil {
		points = []domain.Point{}
	}
	writeJSON(w, http.StatusOK, trafficResponse{Kind: kind, Points: points, Total: index.Len()})
}

type plowStatusResponse struct {
	LookupEntries int       `json:"lookupEntries"`
	FetchedAt     time.Time `json:"fetchedAt"`
	NoStormData   bool      `json:"noStormData"`
}

// handlePlowRefresh runs a refresh cycle on demand and applies the result.
func (s *Server) handlePlowRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.plow.Refresh(r.Context())
	if err != nil {
		s.logger.Error("manual plow refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	s.applier.Apply(r.Context(), snap)
	writeJSON(w, http.StatusOK, statusFor(snap))
}

// handlePlowStatus reports the current snapshot without refreshing.
func (s *Server) handlePlowStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.plow.Current()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no plow snapshot yet"})
		return
	}
	writeJSON(w, http.StatusOK, statusFor(snap))
}

func statusFor(snap *domain.PlowSnapshot) plowStatusResponse {
	return plowStatusResponse{
		LookupEntries: len(snap.Lookup),
		FetchedAt:     snap.FetchedAt,
		NoStormData:   snap.NoStormData,
	}
}

// handleForecast proxies the snow forecast. 404 when the feature is disabled.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if s.forecast == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "forecast disabled"})
		return
	}
	forecast, err := s.forecast.FetchForecast(r.Context())
	if err != nil {
		s.logger.Error("forecast fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

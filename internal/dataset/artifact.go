// Package dataset builds and loads the static street artifacts the runtime
// service and the browser map consume. The builder runs offline, once per
// data refresh cycle; the artifacts are plain JSON shipped as static files.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// StreetRecord is one street in the artifact. Field names are single
// letters to keep the multi-megabyte file small.
type StreetRecord struct {
	// Name is the first-seen raw spelling, for display.
	Name string `json:"n"`
	// Key is the canonical street key, the cross-dataset join key.
	Key string `json:"k"`
	// Tier is assigned once per street, not per segment.
	Tier domain.PriorityTier `json:"p"`
	// Segments are the street's polylines, coordinates rounded to 5 decimals.
	Segments []domain.Segment `json:"s"`
}

// Stats summarizes an artifact for quick sanity checks.
type Stats struct {
	Streets  int `json:"streets"`
	Segments int `json:"segments"`
	Prime    int `json:"prime"`
	Good     int `json:"good"`
	Avoid    int `json:"avoid"`
}

// Artifact is the complete street dataset document.
type Artifact struct {
	Generated time.Time      `json:"generated"`
	Stats     Stats          `json:"stats"`
	Streets   []StreetRecord `json:"streets"`
}

// TrafficArtifact holds the traffic-control point dataset: stop signs and
// traffic signals, loaded by the map only on explicit request.
type TrafficArtifact struct {
	Generated     time.Time      `json:"generated"`
	StopSigns     []domain.Point `json:"stopSigns"`
	TrafficLights []domain.Point `json:"trafficLights"`
}

// Load reads a street artifact from disk.
func Load(path string) (Artifact, error) {
	var a Artifact
	if err := readJSON(path, &a); err != nil {
		return Artifact{}, fmt.Errorf("load street dataset: %w", err)
	}
	return a, nil
}

// LoadTraffic reads a traffic-control artifact from disk.
func LoadTraffic(path string) (TrafficArtifact, error) {
	var a TrafficArtifact
	if err := readJSON(path, &a); err != nil {
		return TrafficArtifact{}, fmt.Errorf("load traffic dataset: %w", err)
	}
	return a, nil
}

// Write serializes the artifact to path, creating parent directories.
func (a Artifact) Write(path string) error {
	return writeJSON(path, a)
}

// Write serializes the traffic artifact to path, creating parent directories.
func (a TrafficArtifact) Write(path string) error {
	return writeJSON(path, a)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

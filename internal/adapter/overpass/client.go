// Package overpass fetches raw street and traffic-control geometry from an
// Overpass API endpoint. Used only by the offline dataset builder.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/street-plow-etl/internal/dataset"
	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// Client queries an Overpass API endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Overpass client. Builder queries over a whole city
// run for minutes, so pass a generous timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchWays returns every named highway way in the box with its geometry.
func (c *Client) FetchWays(ctx context.Context, box domain.BoundingBox) ([]dataset.Way, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:600];way["highway"]["name"](%g,%g,%g,%g);out geom;`,
		box.South, box.West, box.North, box.East,
	)

	var doc response
	if err := c.run(ctx, query, &doc); err != nil {
		return nil, fmt.Errorf("fetch ways: %w", err)
	}

	ways := make([]dataset.Way, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		if el.Type != "way" {
			continue
		}
		way := dataset.Way{Name: el.Tags["name"]}
		for _, g := range el.Geometry {
			way.Points = append(way.Points, domain.Point{g.Lat, g.Lon})
		}
		ways = append(ways, way)
	}
	c.logger.Info("overpass ways fetched", "elements", len(doc.Elements), "ways", len(ways))
	return ways, nil
}

// FetchTrafficNodes returns every stop sign and traffic signal node in the box.
func (c *Client) FetchTrafficNodes(ctx context.Context, box domain.BoundingBox) ([]dataset.TrafficNode, error) {
	bbox := fmt.Sprintf("%g,%g,%g,%g", box.South, box.West, box.North, box.East)
	query := fmt.Sprintf(
		`[out:json][timeout:600];(node["highway"="stop"](%s);node["highway"="traffic_signals"](%s););out;`,
		bbox, bbox,
	)

	var doc response
	if err := c.run(ctx, query, &doc); err != nil {
		return nil, fmt.Errorf("fetch traffic nodes: %w", err)
	}

	nodes := make([]dataset.TrafficNode, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		if el.Type != "node" {
			continue
		}
		nodes = append(nodes, dataset.TrafficNode{
			Kind:  el.Tags["highway"],
			Point: domain.Point{el.Lat, el.Lon},
		})
	}
	c.logger.Info("overpass traffic nodes fetched", "nodes", len(nodes))
	return nodes, nil
}

// run posts an Overpass QL query as a form body, the encoding the public
// endpoints expect.
func (c *Client) run(ctx context.Context, query string, v any) error {
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("overpass API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Overpass API response types.

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type     string            `json:"type"`
	Tags     map[string]string `json:"tags"`
	Geometry []coordinate      `json:"geometry"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
}

type coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

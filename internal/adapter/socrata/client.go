// Package socrata fetches the live plow feeds from the NYC open data portal:
// the PlowNYC tracking dataset and the street centerline dataset.
package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// Client implements joiner.Feed against two Socrata dataset endpoints.
type Client struct {
	plowURL       string
	centerlineURL string
	httpClient    *http.Client
	logger        *slog.Logger

	plowLimit       int
	centerlineLimit int
}

// NewClient creates a Socrata feed client. The URLs point at dataset .json
// endpoints; limits cap row counts per request.
func NewClient(plowURL, centerlineURL string, timeout time.Duration, plowLimit, centerlineLimit int, logger *slog.Logger) *Client {
	return &Client{
		plowURL:       plowURL,
		centerlineURL: centerlineURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:          logger,
		plowLimit:       plowLimit,
		centerlineLimit: centerlineLimit,
	}
}

// FetchPlowRecords reads the tracking dataset, newest rows first. Rows
// missing a physical ID or timestamp are dropped; during quiet weather the
// dataset is often empty, which is a valid result.
func (c *Client) FetchPlowRecords(ctx context.Context) ([]domain.PlowRecord, error) {
	params := url.Values{
		"$limit": {strconv.Itoa(c.plowLimit)},
		"$order": {"timestamp DESC"},
	}

	var rows []plowRow
	if err := c.getJSON(ctx, c.plowURL+"?"+params.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("plow feed: %w", err)
	}

	records := make([]domain.PlowRecord, 0, len(rows))
	for _, row := range rows {
		if row.PhysicalID == "" || row.Timestamp == "" {
			continue
		}
		records = append(records, domain.PlowRecord{
			PhysicalID: row.PhysicalID,
			Timestamp:  row.Timestamp,
		})
	}
	c.logger.Debug("plow feed fetched", "rows", len(rows), "records", len(records))
	return records, nil
}

// FetchCenterlines reads the centerline dataset restricted to the given box.
// The within_box argument order is upper-left then lower-right corner.
func (c *Client) FetchCenterlines(ctx context.Context, box domain.BoundingBox) ([]domain.CenterlineRecord, error) {
	where := fmt.Sprintf("within_box(the_geom,%g,%g,%g,%g)", box.North, box.West, box.South, box.East)
	params := url.Values{
		"$limit": {strconv.Itoa(c.centerlineLimit)},
		"$where": {where},
	}

	var doc centerlineResponse
	if err := c.getJSON(ctx, c.centerlineURL+"?"+params.Encode(), &doc); err != nil {
		return nil, fmt.Errorf("centerline feed: %w", err)
	}

	records := make([]domain.CenterlineRecord, 0, len(doc.Features))
	for _, f := range doc.Features {
		if f.Properties.PhysicalID == "" || f.Properties.FullStreet == "" {
			continue
		}
		records = append(records, domain.CenterlineRecord{
			PhysicalID: f.Properties.PhysicalID,
			RawName:    f.Properties.FullStreet,
		})
	}
	c.logger.Debug("centerline feed fetched", "features", len(doc.Features), "records", len(records))
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("socrata API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Socrata response types. The tracking dataset is a flat row array; the
// centerline dataset is GeoJSON.

type plowRow struct {
	PhysicalID string `json:"physicalid"`
	Timestamp  string `json:"timestamp"`
}

type centerlineResponse struct {
	Features []centerlineFeature `json:"features"`
}

type centerlineFeature struct {
	Properties centerlineProperties `json:"properties"`
}

type centerlineProperties struct {
	PhysicalID string `json:"physicalid"`
	FullStreet string `json:"full_stree"`
}

package socrata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

const contentTypeJSON = "application/json"

func testClient(plowURL, centerlineURL string) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(plowURL, centerlineURL, 5*time.Second, 1000, 2000, logger)
}

func TestClient_FetchPlowRecords_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1000", r.URL.Query().Get("$limit"))
		assert.Equal(t, "timestamp DESC", r.URL.Query().Get("$order"))

		w.Header().Set("Content-Type", contentTypeJSON)
		_, err := w.Write([]byte(`[
			{"physicalid":"100","timestamp":"2024-01-07T10:00:00.000"},
			{"physicalid":"200","timestamp":"2024-01-07T09:30:00.000"},
			{"physicalid":"","timestamp":"2024-01-07T09:00:00.000"},
			{"physicalid":"300"}
		]`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	records, err := c.FetchPlowRecords(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2, "rows missing a field are dropped")
	assert.Equal(t, domain.PlowRecord{PhysicalID: "100", Timestamp: "2024-01-07T10:00:00.000"}, records[0])
	assert.Equal(t, domain.PlowRecord{PhysicalID: "200", Timestamp: "2024-01-07T09:30:00.000"}, records[1])
}

func TestClient_FetchPlowRecords_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_, err := w.Write([]byte(`[]`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	records, err := c.FetchPlowRecords(context.Background())

	require.NoError(t, err, "an empty dataset is a valid result, not an error")
	assert.Empty(t, records)
}

func TestClient_FetchPlowRecords_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "over quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchPlowRecords(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_FetchCenterlines_Success(t *testing.T) {
	box := domain.BoundingBox{South: 40.49, West: -74.26, North: 40.92, East: -73.70}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2000", r.URL.Query().Get("$limit"))
		assert.Equal(t, "within_box(the_geom,40.92,-74.26,40.49,-73.7)", r.URL.Query().Get("$where"))

		w.Header().Set("Content-Type", contentTypeJSON)
		_, err := w.Write([]byte(`{"features":[
			{"properties":{"physicalid":"100","full_stree":"PERRY ST"}},
			{"properties":{"physicalid":"","full_stree":"CHARLES ST"}},
			{"properties":{"physicalid":"300","full_stree":""}}
		]}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	records, err := c.FetchCenterlines(context.Background(), box)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, domain.CenterlineRecord{PhysicalID: "100", RawName: "PERRY ST"}, records[0])
}

func TestClient_FetchCenterlines_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_, err := w.Write([]byte(`{not json`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchCenterlines(context.Background(), domain.BoundingBox{South: 40, West: -75, North: 41, East: -73})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

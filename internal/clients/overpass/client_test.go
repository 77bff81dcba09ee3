package overpass

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"street-segment-api/internal/models"

	"github.com/paulmach/osm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wayResponse = `{
	"version": 0.6,
	"generator": "Overpass API",
	"elements": [
		{"type": "way", "id": 4242, "nodes": [1, 2, 3], "tags": {"highway": "primary", "name:uk": "Сумська вулиця"}},
		{"type": "node", "id": 1, "lat": 50.0, "lon": 36.23},
		{"type": "node", "id": 2, "lat": 50.001, "lon": 36.231},
		{"type": "node", "id": 3, "lat": 50.002, "lon": 36.232}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		URL:       srv.URL,
		UserAgent: "street-segment-api-test/1.0",
		Timeout:   2 * time.Second,
	}, nil, zerolog.Nop())
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "[out:json][timeout:25]; way(4242); (._;>;); out geom;", Query("way", 4242))
}

func TestClient_WayGeometry(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "street-segment-api-test/1.0", r.Header.Get("User-Agent"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, Query("way", 4242), string(body))
		w.Write([]byte(wayResponse))
	})

	g, err := client.WayGeometry(context.Background(), "Way", 4242)
	require.NoError(t, err)

	assert.Equal(t, "Сумська вулиця", g.Name)
	assert.Equal(t, "way", g.OSMType)
	assert.Equal(t, int64(4242), g.OSMID)
	assert.Equal(t, [][]float64{{36.23, 50.0}, {36.231, 50.001}, {36.232, 50.002}}, g.Coordinates)
	assert.Empty(t, g.Segments)
}

func TestClient_WayGeometry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		osmType string
		osmID   int64
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name:    "unsupported type",
			osmType: "node",
			osmID:   1,
			wantErr: models.ErrInvalidQuery,
		},
		{
			name:    "invalid id",
			osmType: "way",
			osmID:   0,
			wantErr: models.ErrInvalidQuery,
		},
		{
			name:    "empty answer",
			osmType: "way",
			osmID:   1,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"elements": []}`))
			},
			wantErr: models.ErrGeometryUnavailable,
		},
		{
			name:    "rate limited",
			osmType: "way",
			osmID:   1,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantErr: models.ErrExternalService,
		},
		{
			name:    "invalid body",
			osmType: "way",
			osmID:   1,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<osm>"))
			},
			wantErr: models.ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := tt.handler
			if handler == nil {
				handler = func(w http.ResponseWriter, r *http.Request) {
					t.Error("unexpected upstream request")
				}
			}
			client := newTestClient(t, handler)

			_, err := client.WayGeometry(context.Background(), tt.osmType, tt.osmID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_WayGeometry_SharesConcurrentFetches(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(wayResponse))
	})

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*models.StreetGeometry, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := client.WayGeometry(context.Background(), "way", 4242)
			assert.NoError(t, err)
			results[i] = g
		}(i)
	}

	// Give every caller time to join the in-flight request.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, g := range results {
		require.NotNil(t, g)
		assert.Equal(t, "Сумська вулиця", g.Name)
	}
}

func TestGeometry(t *testing.T) {
	o := &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 1, Lat: 50.0, Lon: 36.0},
			{ID: 2, Lat: 50.1, Lon: 36.1},
			{ID: 3, Lat: 50.2, Lon: 36.2},
		},
		Ways: osm.Ways{
			{ID: 10, Nodes: osm.WayNodes{{ID: 1}}},
			{ID: 11, Nodes: osm.WayNodes{{ID: 1}, {ID: 2}}, Tags: osm.Tags{{Key: "name:ru", Value: "Сумская улица"}}},
			{ID: 12, Nodes: osm.WayNodes{{ID: 2}, {ID: 3}, {ID: 99, Lat: 50.3, Lon: 36.3}}},
		},
	}

	g := Geometry(o)
	require.NotNil(t, g)
	assert.Equal(t, "Сумская улица", g.Name)
	assert.Equal(t, [][]float64{{36.0, 50.0}, {36.1, 50.1}}, g.Coordinates)
	assert.Equal(t, [][][]float64{
		{{36.0, 50.0}, {36.1, 50.1}},
		{{36.1, 50.1}, {36.2, 50.2}, {36.3, 50.3}},
	}, g.Segments)
}

func TestGeometry_Unnamed(t *testing.T) {
	o := &osm.OSM{
		Ways: osm.Ways{
			{ID: 1, Nodes: osm.WayNodes{{ID: 1, Lat: 1, Lon: 2}, {ID: 2, Lat: 3, Lon: 4}}},
		},
	}

	g := Geometry(o)
	require.NotNil(t, g)
	assert.Equal(t, "Неизвестная улица", g.Name)
	assert.Nil(t, Geometry(&osm.OSM{}))
	assert.Nil(t, Geometry(nil))
}

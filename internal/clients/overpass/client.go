// Package overpass fetches OSM way geometry from an Overpass API instance.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"street-segment-api/internal/cache"
	"street-segment-api/internal/metrics"
	"street-segment-api/internal/models"

	"github.com/paulmach/osm"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	provider = "overpass"

	DefaultURL = "https://overpass-api.de/api/interpreter"

	unnamedStreet = "Неизвестная улица"
)

// nameTags are checked in order for a way's display name.
var nameTags = []string{"name", "name:uk", "name:ru"}

// Config holds the client settings.
type Config struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
}

// Client fetches geometry by OSM id. It is safe for concurrent use;
// concurrent requests for the same object share one upstream call.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	cache      *cache.RedisCache
	group      singleflight.Group
	logger     zerolog.Logger
}

// NewClient creates a client. cache may be nil.
func NewClient(cfg Config, c *cache.RedisCache, logger zerolog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      c,
		logger:     logger.With().Str("component", provider).Logger(),
	}
}

// Query builds the Overpass QL request for an object and its child nodes.
func Query(osmType string, osmID int64) string {
	return fmt.Sprintf("[out:json][timeout:25]; %s(%d); (._;>;); out geom;", osmType, osmID)
}

// WayGeometry returns the geometry of a way, or of every way of a relation.
// Coordinates hold the first way as [lon, lat] pairs; Segments lists every
// way when there is more than one.
func (c *Client) WayGeometry(ctx context.Context, osmType string, osmID int64) (*models.StreetGeometry, error) {
	osmType = strings.ToLower(strings.TrimSpace(osmType))
	if osmType != "way" && osmType != "relation" {
		return nil, fmt.Errorf("overpass: unsupported osm type %q: %w", osmType, models.ErrInvalidQuery)
	}
	if osmID <= 0 {
		return nil, fmt.Errorf("overpass: invalid osm id %d: %w", osmID, models.ErrInvalidQuery)
	}

	key := osmType + ":" + strconv.FormatInt(osmID, 10)

	var cached models.StreetGeometry
	if found, err := c.cache.Get(ctx, key, &cached); err != nil {
		c.logger.Warn().Err(err).Str("object", key).Msg("geometry cache lookup failed")
	} else if found {
		return &cached, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, osmType, osmID)
	})
	if err != nil {
		return nil, err
	}
	g := v.(*models.StreetGeometry)

	if !shared {
		if err := c.cache.Set(ctx, key, g); err != nil {
			c.logger.Warn().Err(err).Str("object", key).Msg("geometry cache store failed")
		}
	}
	return g, nil
}

func (c *Client) fetch(ctx context.Context, osmType string, osmID int64) (*models.StreetGeometry, error) {
	o, err := c.do(ctx, Query(osmType, osmID))
	if err != nil {
		return nil, err
	}

	g := Geometry(o)
	if g == nil {
		return nil, fmt.Errorf("overpass: %s %d has no way geometry: %w", osmType, osmID, models.ErrGeometryUnavailable)
	}
	g.OSMType = osmType
	g.OSMID = osmID

	c.logger.Info().
		Str("osm_type", osmType).
		Int64("osm_id", osmID).
		Str("name", g.Name).
		Int("points", len(g.Coordinates)).
		Int("ways", max(len(g.Segments), 1)).
		Msg("street geometry fetched")

	return g, nil
}

// Geometry converts an Overpass answer into a street geometry. Way nodes are
// resolved through the node elements of the answer, falling back to the
// coordinates carried on the way itself. It returns nil when no way has at
// least two located nodes.
func Geometry(o *osm.OSM) *models.StreetGeometry {
	if o == nil {
		return nil
	}

	nodes := make(map[osm.NodeID]*osm.Node, len(o.Nodes))
	for _, n := range o.Nodes {
		nodes[n.ID] = n
	}

	var g *models.StreetGeometry
	var lines [][][]float64
	for _, w := range o.Ways {
		coords := make([][]float64, 0, len(w.Nodes))
		for _, wn := range w.Nodes {
			if n, ok := nodes[wn.ID]; ok {
				coords = append(coords, []float64{n.Lon, n.Lat})
			} else if wn.Lat != 0 || wn.Lon != 0 {
				coords = append(coords, []float64{wn.Lon, wn.Lat})
			}
		}
		if len(coords) < 2 {
			continue
		}
		if g == nil {
			g = &models.StreetGeometry{Name: wayName(w), Coordinates: coords}
		}
		lines = append(lines, coords)
	}
	if g != nil && len(lines) > 1 {
		g.Segments = lines
	}
	return g
}

func wayName(w *osm.Way) string {
	for _, k := range nameTags {
		if v := w.Tags.Find(k); v != "" {
			return v
		}
	}
	return unnamedStreet
}

func (c *Client) do(ctx context.Context, query string) (*osm.OSM, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("overpass: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RemoteDurationMs.WithLabelValues(provider).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(provider, "error").Inc()
		c.logger.Error().Err(err).Msg("overpass request failed")
		return nil, fmt.Errorf("overpass: request failed: %w: %v", models.ErrExternalService, err)
	}
	defer resp.Body.Close()

	metrics.RemoteRequestsTotal.WithLabelValues(provider, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("overpass API error")
		return nil, fmt.Errorf("overpass: HTTP %d: %w", resp.StatusCode, models.ErrExternalService)
	}

	o := &osm.OSM{}
	if err := json.NewDecoder(resp.Body).Decode(o); err != nil {
		return nil, fmt.Errorf("overpass: failed to decode response: %w: %v", models.ErrExternalService, err)
	}
	return o, nil
}

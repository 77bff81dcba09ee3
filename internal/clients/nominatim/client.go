// Package nominatim is a client for the Nominatim search and reverse
// geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"street-segment-api/internal/cache"
	"street-segment-api/internal/metrics"
	"street-segment-api/internal/models"

	"github.com/mmcloughlin/geohash"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	provider = "nominatim"

	// reverseZoom asks for building level detail so house numbers are returned.
	reverseZoom = 18
	// segmentsLimit is the per-variant limit used when collecting every way of a street.
	segmentsLimit = 100
	// reverseGeohashChars is about 19 m x 38 m, finer than one house.
	reverseGeohashChars = 8
)

// Config holds the client settings.
type Config struct {
	BaseURL        string
	UserAgent      string
	CountryCodes   string
	AcceptLanguage string
	Timeout        time.Duration
	// RatePerSecond caps outgoing requests; Nominatim's usage policy allows one.
	RatePerSecond float64
}

// Client talks to a Nominatim instance. It is safe for concurrent use.
type Client struct {
	baseURL        string
	userAgent      string
	countryCodes   string
	acceptLanguage string
	httpClient     *http.Client
	limiter        *rate.Limiter
	cache          *cache.RedisCache
	logger         zerolog.Logger
}

// NewClient creates a client. cache may be nil.
func NewClient(cfg Config, c *cache.RedisCache, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = "uk,ru,en"
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		countryCodes:   cfg.CountryCodes,
		acceptLanguage: cfg.AcceptLanguage,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(limit, 1),
		cache:          c,
		logger:         logger.With().Str("component", provider).Logger(),
	}
}

// searchItem mirrors one element of a /search response. Nominatim encodes
// coordinates and bounding boxes as strings.
type searchItem struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Importance  *float64 `json:"importance"`
	BoundingBox []string `json:"boundingbox"`
	PlaceID     int64    `json:"place_id"`
	OSMType     string   `json:"osm_type"`
	OSMID       int64    `json:"osm_id"`
}

func (it searchItem) toResult() (models.StreetSearchResult, error) {
	if it.DisplayName == "" {
		return models.StreetSearchResult{}, fmt.Errorf("missing display_name")
	}
	lat, err := strconv.ParseFloat(it.Lat, 64)
	if err != nil {
		return models.StreetSearchResult{}, fmt.Errorf("invalid lat %q: %w", it.Lat, err)
	}
	lon, err := strconv.ParseFloat(it.Lon, 64)
	if err != nil {
		return models.StreetSearchResult{}, fmt.Errorf("invalid lon %q: %w", it.Lon, err)
	}
	if len(it.BoundingBox) != 4 {
		return models.StreetSearchResult{}, fmt.Errorf("boundingbox has %d values", len(it.BoundingBox))
	}

	res := models.StreetSearchResult{
		DisplayName: it.DisplayName,
		Lat:         lat,
		Lon:         lon,
		PlaceID:     it.PlaceID,
		OSMType:     it.OSMType,
		OSMID:       it.OSMID,
	}
	if it.Importance != nil {
		res.Importance = *it.Importance
	}
	for i, s := range it.BoundingBox {
		if res.BoundingBox[i], err = strconv.ParseFloat(s, 64); err != nil {
			return models.StreetSearchResult{}, fmt.Errorf("invalid boundingbox value %q: %w", s, err)
		}
	}
	return res, nil
}

// Search looks streets up by free text qualified with city and country.
// Results are deduplicated by street and sorted by relevance to the query.
func (c *Client) Search(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error) {
	params := c.searchParams(joinNonEmpty(q.Query, q.City, q.Country), q.Limit)

	results, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}

	unique := DedupByStreet(results)
	SortByRelevance(unique, q.Query)

	c.logger.Info().
		Str("query", q.Query).
		Int("found", len(results)).
		Int("unique", len(unique)).
		Msg("street search completed")

	return unique, nil
}

// SearchSegments collects every way matching a street name. It queries
// progressively less qualified variants of the name, tolerating individual
// failures, and keeps one result per OSM object that names the street.
func (c *Client) SearchSegments(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error) {
	variants := []string{
		joinNonEmpty(q.Query, q.City, q.Country),
		joinNonEmpty(q.Query, q.City),
		q.Query,
	}

	var all []models.StreetSearchResult
	var lastErr error
	failed := 0
	for _, v := range variants {
		params := c.searchParams(v, segmentsLimit)
		params.Set("dedupe", "0")

		results, err := c.search(ctx, params)
		if err != nil {
			c.logger.Warn().Err(err).Str("search_query", v).Msg("segment search variant failed")
			lastErr = err
			failed++
			continue
		}
		all = append(all, results...)
	}
	if failed == len(variants) {
		return nil, lastErr
	}

	seen := make(map[string]bool)
	var matched []models.StreetSearchResult
	for _, r := range all {
		if r.OSMType == "" || r.OSMID == 0 {
			continue
		}
		key := r.OSMType + ":" + strconv.FormatInt(r.OSMID, 10)
		if seen[key] {
			continue
		}
		seen[key] = true
		if matchesStreet(r, q.Query) {
			matched = append(matched, r)
		}
	}
	SortByRelevance(matched, q.Query)

	c.logger.Info().
		Str("query", q.Query).
		Int("found", len(all)).
		Int("matched", len(matched)).
		Msg("street segments search completed")

	return matched, nil
}

func (c *Client) searchParams(query string, limit int) url.Values {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("accept-language", c.acceptLanguage)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}
	return params
}

func (c *Client) search(ctx context.Context, params url.Values) ([]models.StreetSearchResult, error) {
	var items []json.RawMessage
	if err := c.getJSON(ctx, "/search", params, &items); err != nil {
		return nil, err
	}

	results := make([]models.StreetSearchResult, 0, len(items))
	for _, raw := range items {
		var it searchItem
		if err := json.Unmarshal(raw, &it); err != nil {
			c.logger.Warn().Err(err).RawJSON("item", raw).Msg("failed to parse search result")
			continue
		}
		res, err := it.toResult()
		if err != nil {
			c.logger.Warn().Err(err).RawJSON("item", raw).Msg("failed to parse search result")
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

type reverseResponse struct {
	Error       string `json:"error"`
	DisplayName string `json:"display_name"`
	Address     struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		Suburb      string `json:"suburb"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Postcode    string `json:"postcode"`
	} `json:"address"`
}

// Reverse returns the address closest to a coordinate. Answers are cached
// per geohash cell when a cache is configured.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*models.ReverseGeocodeResult, error) {
	cacheKey := "reverse:" + geohash.EncodeWithPrecision(lat, lon, reverseGeohashChars)

	var cached models.ReverseGeocodeResult
	if found, err := c.cache.Get(ctx, cacheKey, &cached); err != nil {
		c.logger.Warn().Err(err).Msg("reverse cache lookup failed")
	} else if found {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("accept-language", c.acceptLanguage)
	params.Set("zoom", strconv.Itoa(reverseZoom))

	var resp reverseResponse
	if err := c.getJSON(ctx, "/reverse", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("nominatim: reverse %f,%f: %s: %w", lat, lon, resp.Error, models.ErrStreetNotFound)
	}

	result := &models.ReverseGeocodeResult{
		DisplayName: resp.DisplayName,
		HouseNumber: resp.Address.HouseNumber,
		Road:        resp.Address.Road,
		Suburb:      resp.Address.Suburb,
		City:        firstNonEmpty(resp.Address.City, resp.Address.Town, resp.Address.Village),
		Postcode:    resp.Address.Postcode,
	}

	if err := c.cache.Set(ctx, cacheKey, result); err != nil {
		c.logger.Warn().Err(err).Msg("reverse cache store failed")
	}

	c.logger.Info().
		Str("road", result.Road).
		Str("house_number", result.HouseNumber).
		Msg("reverse geocoding completed")

	return result, nil
}

// getJSON performs a rate limited GET and decodes the body into dst.
// Transport failures and non-200 answers wrap models.ErrExternalService.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("nominatim: rate limiter: %w: %v", models.ErrExternalService, err)
	}

	u := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("nominatim: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RemoteDurationMs.WithLabelValues(provider).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(provider, "error").Inc()
		c.logger.Error().Err(err).Str("path", path).Msg("nominatim request failed")
		return fmt.Errorf("nominatim: %s: %w: %v", path, models.ErrExternalService, err)
	}
	defer resp.Body.Close()

	metrics.RemoteRequestsTotal.WithLabelValues(provider, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("path", path).Msg("nominatim API error")
		return fmt.Errorf("nominatim: %s: HTTP %d: %w", path, resp.StatusCode, models.ErrExternalService)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("nominatim: %s: failed to decode response: %w: %v", path, models.ErrExternalService, err)
	}
	return nil
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

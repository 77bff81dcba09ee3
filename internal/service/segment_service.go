package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"street-segment-api/internal/metrics"
	"street-segment-api/internal/models"
	"street-segment-api/internal/segment"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/twpayne/go-polyline"
)

const (
	SourceLocal    = "local_data"
	SourceOSM      = "osm"
	SourceFallback = "remote_fallback"

	// fallbackSearchLimit bounds the remote candidates inspected when a street
	// is missing from the local dataset.
	fallbackSearchLimit = 5
)

// StreetIndex resolves street names against the local dataset.
type StreetIndex interface {
	ResolveByKey(key string) (*models.StreetRecord, error)
	ResolveByName(name string, threshold int) (*models.StreetRecord, error)
	SearchByPrefix(prefix string, limit int) []models.StreetSuggestion
	Stats() models.CacheStats
	Invalidate()
}

// StreetSearcher finds streets with a remote geocoder.
type StreetSearcher interface {
	Search(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error)
}

// GeometryFetcher loads OSM object geometry from a remote provider.
type GeometryFetcher interface {
	WayGeometry(ctx context.Context, osmType string, osmID int64) (*models.StreetGeometry, error)
}

// RemoteStreets bundles the remote collaborators used for OSM based segments
// and for streets missing from the local dataset.
type RemoteStreets struct {
	Searcher StreetSearcher
	Geometry GeometryFetcher
	City     string
	Country  string
}

// SegmentService resolves street segments between two points.
type SegmentService struct {
	index          StreetIndex
	resolver       *segment.Resolver
	remote         *RemoteStreets
	fuzzyThreshold int
	logger         zerolog.Logger
}

// NewSegmentService creates a segment service. remote may be nil, in which
// case only the local dataset is used. A non-positive fuzzyThreshold selects 70.
func NewSegmentService(index StreetIndex, resolver *segment.Resolver, remote *RemoteStreets, fuzzyThreshold int, logger zerolog.Logger) *SegmentService {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = 70
	}
	if resolver == nil {
		resolver = segment.NewResolver(0)
	}
	return &SegmentService{
		index:          index,
		resolver:       resolver,
		remote:         remote,
		fuzzyThreshold: fuzzyThreshold,
		logger:         logger.With().Str("component", "segment_service").Logger(),
	}
}

// ResolveSegment returns the part of a local street between q.Start and
// q.End. When the street is unknown locally and remote providers are
// configured, the street is looked up remotely instead.
func (s *SegmentService) ResolveSegment(ctx context.Context, q models.SegmentQuery) (*models.SegmentResponse, error) {
	start := time.Now()

	resp, source, err := s.resolveLocal(ctx, q)
	s.observe(source, start, resp, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *SegmentService) resolveLocal(ctx context.Context, q models.SegmentQuery) (*models.SegmentResponse, string, error) {
	if err := validatePoints(q.Start, q.End); err != nil {
		return nil, SourceLocal, err
	}
	name := strings.TrimSpace(q.StreetName)
	if name == "" && q.StreetKey == "" {
		return nil, SourceLocal, fmt.Errorf("service: street name or key is required: %w", models.ErrInvalidQuery)
	}

	rec, err := s.findStreet(name, q.StreetKey, q.FuzzyThreshold)
	if errors.Is(err, models.ErrStreetNotFound) && s.remoteEnabled() && name != "" {
		s.logger.Info().Str("street_name", name).Msg("street not in local dataset, trying remote providers")
		resp, ferr := s.resolveRemoteByName(ctx, name, q.Start, q.End)
		return resp, SourceFallback, ferr
	}
	if err != nil {
		return nil, SourceLocal, fmt.Errorf("service: failed to resolve street: %w", err)
	}

	seg, err := s.resolver.Resolve(rec.Fragments, q.Start.Point(), q.End.Point())
	if err != nil {
		return nil, SourceLocal, fmt.Errorf("service: failed to resolve segment on %q: %w", rec.Key, err)
	}

	props := geojson.Properties{
		"osm_type": "local",
		"osm_id":   "local",
	}
	return s.buildResponse(seg, rec.DisplayName, SourceLocal, props), SourceLocal, nil
}

// findStreet tries the key first and falls back to the name.
func (s *SegmentService) findStreet(name, key string, threshold int) (*models.StreetRecord, error) {
	if key != "" {
		rec, err := s.index.ResolveByKey(key)
		if err == nil || name == "" {
			return rec, err
		}
	}
	if threshold <= 0 {
		threshold = s.fuzzyThreshold
	}
	return s.index.ResolveByName(name, threshold)
}

// ResolveSegmentByOSM returns the part of an OSM way or relation between
// q.Start and q.End, using geometry fetched from the remote provider.
func (s *SegmentService) ResolveSegmentByOSM(ctx context.Context, q models.OSMSegmentQuery) (*models.SegmentResponse, error) {
	start := time.Now()

	resp, err := s.resolveOSM(ctx, q)
	s.observe(SourceOSM, start, resp, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *SegmentService) resolveOSM(ctx context.Context, q models.OSMSegmentQuery) (*models.SegmentResponse, error) {
	if err := validatePoints(q.Start, q.End); err != nil {
		return nil, err
	}
	if !s.remoteEnabled() {
		return nil, fmt.Errorf("service: remote geometry provider is not configured: %w", models.ErrExternalService)
	}

	g, err := s.remote.Geometry.WayGeometry(ctx, q.OSMType, q.OSMID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch street geometry: %w", err)
	}

	seg, err := s.resolver.Resolve(geometryFragments(g), q.Start.Point(), q.End.Point())
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve segment on %s %d: %w", q.OSMType, q.OSMID, err)
	}

	name := q.StreetName
	if name == "" {
		name = g.Name
	}
	props := geojson.Properties{
		"osm_type": g.OSMType,
		"osm_id":   g.OSMID,
	}
	return s.buildResponse(seg, name, SourceOSM, props), nil
}

// resolveRemoteByName resolves a segment on the first OSM way the remote
// geocoder finds for name.
func (s *SegmentService) resolveRemoteByName(ctx context.Context, name string, from, to models.Coordinate) (*models.SegmentResponse, error) {
	results, err := s.remote.Searcher.Search(ctx, models.StreetSearchQuery{
		Query:   name,
		City:    s.remote.City,
		Country: s.remote.Country,
		Limit:   fallbackSearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("service: remote street search failed: %w", err)
	}

	var hit *models.StreetSearchResult
	for i := range results {
		if results[i].OSMType == "way" && results[i].OSMID > 0 {
			hit = &results[i]
			break
		}
	}
	if hit == nil {
		return nil, fmt.Errorf("service: no remote way named %q: %w", name, models.ErrStreetNotFound)
	}

	g, err := s.remote.Geometry.WayGeometry(ctx, hit.OSMType, hit.OSMID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch street geometry: %w", err)
	}

	seg, err := s.resolver.Resolve(geometryFragments(g), from.Point(), to.Point())
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve segment on way %d: %w", hit.OSMID, err)
	}

	props := geojson.Properties{
		"osm_type": g.OSMType,
		"osm_id":   g.OSMID,
	}
	return s.buildResponse(seg, g.Name, SourceFallback, props), nil
}

// SearchByPrefix suggests local streets for autocomplete.
func (s *SegmentService) SearchByPrefix(prefix string, limit int) []models.StreetSuggestion {
	return s.index.SearchByPrefix(prefix, limit)
}

// FastGeometry returns the stored geometry of a local street. Coordinates
// holds the first fragment; Segments lists every fragment when there are several.
func (s *SegmentService) FastGeometry(name, key string, threshold int) (*models.StreetGeometry, error) {
	rec, err := s.findStreet(strings.TrimSpace(name), key, threshold)
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve street: %w", err)
	}

	g := &models.StreetGeometry{
		Name:        rec.DisplayName,
		OSMType:     "local",
		Coordinates: lineCoords(rec.Fragments[0]),
	}
	if len(rec.Fragments) > 1 {
		g.Segments = make([][][]float64, 0, len(rec.Fragments))
		for _, f := range rec.Fragments {
			g.Segments = append(g.Segments, lineCoords(f))
		}
	}

	s.logger.Info().
		Str("street_name", name).
		Str("matched_key", rec.Key).
		Int("fragments", len(rec.Fragments)).
		Int("points", rec.PointCount()).
		Msg("fast street geometry found")

	return g, nil
}

// CacheStats reports the state of the local dataset.
func (s *SegmentService) CacheStats() models.CacheStats {
	return s.index.Stats()
}

// InvalidateCache drops the loaded dataset so the next request reloads it.
func (s *SegmentService) InvalidateCache() models.CacheStats {
	s.index.Invalidate()
	return s.index.Stats()
}

func (s *SegmentService) remoteEnabled() bool {
	return s.remote != nil && s.remote.Searcher != nil && s.remote.Geometry != nil
}

func (s *SegmentService) buildResponse(seg *models.ResolvedSegment, name, source string, props geojson.Properties) *models.SegmentResponse {
	f := geojson.NewFeature(seg.Coordinates)
	for k, v := range props {
		f.Properties[k] = v
	}
	f.Properties["name"] = name
	f.Properties["segment_length_meters"] = seg.DistanceMeters
	f.Properties["source"] = source
	f.Properties["strategy"] = seg.Strategy

	resp := &models.SegmentResponse{
		SegmentGeoJSON:  f,
		StartPoint:      seg.StartPoint,
		EndPoint:        seg.EndPoint,
		DistanceMeters:  seg.DistanceMeters,
		StreetName:      name,
		FragmentsUsed:   seg.FragmentsUsed,
		EncodedPolyline: encodePolyline(seg.Coordinates),
		Degraded:        seg.Degraded,
		Warning:         seg.Warning,
	}

	ev := s.logger.Info()
	if seg.Degraded {
		ev = s.logger.Warn().Str("warning", seg.Warning)
	}
	ev.Str("street_name", name).
		Str("source", source).
		Str("strategy", seg.Strategy).
		Float64("distance_meters", seg.DistanceMeters).
		Int("segment_points", len(seg.Coordinates)).
		Int("fragments_used", seg.FragmentsUsed).
		Msg("street segment calculated")

	return resp
}

func (s *SegmentService) observe(source string, start time.Time, resp *models.SegmentResponse, err error) {
	metrics.SegmentDurationMs.Observe(durationMs(time.Since(start)))
	switch {
	case err != nil:
		metrics.SegmentRequestsTotal.WithLabelValues(source, outcome(err)).Inc()
		s.logger.Warn().Err(err).Str("source", source).Msg("segment resolution failed")
	case resp.Degraded:
		metrics.SegmentRequestsTotal.WithLabelValues(source, "degraded").Inc()
		metrics.DegradedSegmentsTotal.Inc()
	default:
		metrics.SegmentRequestsTotal.WithLabelValues(source, "ok").Inc()
	}
	if resp != nil {
		if strategy, ok := resp.SegmentGeoJSON.Properties["strategy"].(string); ok {
			metrics.SegmentStrategyTotal.WithLabelValues(strategy).Inc()
		}
	}
}

// outcome is the metrics label for a failed resolution.
func outcome(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidCoordinate), errors.Is(err, models.ErrInvalidQuery):
		return "invalid"
	case errors.Is(err, models.ErrStreetNotFound):
		return "not_found"
	case errors.Is(err, models.ErrTooFarFromStreet):
		return "too_far"
	case errors.Is(err, models.ErrGeometryUnavailable):
		return "no_geometry"
	case errors.Is(err, models.ErrExternalService):
		return "external"
	default:
		return "error"
	}
}

func validatePoints(start, end models.Coordinate) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("service: start point: %w", err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("service: end point: %w", err)
	}
	return nil
}

// geometryFragments turns remote geometry into resolver fragments.
func geometryFragments(g *models.StreetGeometry) []orb.LineString {
	lines := g.Segments
	if len(lines) == 0 {
		lines = [][][]float64{g.Coordinates}
	}

	fragments := make([]orb.LineString, 0, len(lines))
	for _, coords := range lines {
		ls := make(orb.LineString, 0, len(coords))
		for _, c := range coords {
			if len(c) >= 2 {
				ls = append(ls, orb.Point{c[0], c[1]})
			}
		}
		fragments = append(fragments, ls)
	}
	return fragments
}

func lineCoords(ls orb.LineString) [][]float64 {
	out := make([][]float64, len(ls))
	for i, p := range ls {
		out[i] = []float64{p[0], p[1]}
	}
	return out
}

// encodePolyline encodes a [lon, lat] line in the Google polyline format,
// which orders pairs as [lat, lon].
func encodePolyline(ls orb.LineString) string {
	coords := make([][]float64, len(ls))
	for i, p := range ls {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	return string(polyline.EncodeCoords(coords))
}

// durationMs keeps sub-millisecond precision.
func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"street-segment-api/internal/models"
)

const (
	defaultSearchLimit = 10
	minQueryLength     = 2
	maxQueryLength     = 200
)

// StreetSearchService contains the business logic for remote street lookups
type StreetSearchService struct {
	provider StreetSearchProvider
	geometry GeometryFetcher
	city     string
	country  string
}

// StreetSearchProvider interface for dependency injection
type StreetSearchProvider interface {
	Search(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error)
	SearchSegments(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error)
}

// NewStreetSearchService creates a new street search service. city and
// country qualify queries that do not name their own.
func NewStreetSearchService(provider StreetSearchProvider, geometry GeometryFetcher, city, country string) *StreetSearchService {
	return &StreetSearchService{provider: provider, geometry: geometry, city: city, country: country}
}

// Search finds streets by free text, most relevant first
func (s *StreetSearchService) Search(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	results, err := s.provider.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search streets: %w", err)
	}

	return results, nil
}

// SearchSegments finds every OSM way that belongs to the named street
func (s *StreetSearchService) SearchSegments(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	results, err := s.provider.SearchSegments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search street segments: %w", err)
	}

	return results, nil
}

// Geometry returns the full geometry of an OSM way or relation
func (s *StreetSearchService) Geometry(ctx context.Context, osmType string, osmID int64) (*models.StreetGeometry, error) {
	if s.geometry == nil {
		return nil, fmt.Errorf("service: remote geometry provider is not configured: %w", models.ErrExternalService)
	}

	g, err := s.geometry.WayGeometry(ctx, osmType, osmID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch street geometry: %w", err)
	}

	return g, nil
}

func (s *StreetSearchService) normalize(q models.StreetSearchQuery) (models.StreetSearchQuery, error) {
	q.Query = strings.TrimSpace(q.Query)
	if n := utf8.RuneCountInString(q.Query); n < minQueryLength || n > maxQueryLength {
		return q, fmt.Errorf("service: query must be %d..%d characters: %w", minQueryLength, maxQueryLength, models.ErrInvalidQuery)
	}
	if q.City == "" {
		q.City = s.city
	}
	if q.Country == "" {
		q.Country = s.country
	}
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	return q, nil
}

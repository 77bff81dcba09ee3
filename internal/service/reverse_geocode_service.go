package service

import (
	"context"
	"fmt"

	"street-segment-api/internal/models"
)

// ReverseGeoCodeService contains the business logic for reverse geocoding operations
type ReverseGeoCodeService struct {
	geocoder ReverseGeocoder
}

// ReverseGeocoder interface for dependency injection
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*models.ReverseGeocodeResult, error)
}

// NewReverseGeoCodeService creates a new reverse geo code service
func NewReverseGeoCodeService(geocoder ReverseGeocoder) *ReverseGeoCodeService {
	return &ReverseGeoCodeService{geocoder: geocoder}
}

// ReverseGeocode finds the address closest to the given coordinates
func (s *ReverseGeoCodeService) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.ReverseGeocodeResult, error) {
	if err := (models.Coordinate{Lat: lat, Lon: lon}).Validate(); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	address, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reverse geocode: %w", err)
	}

	return address, nil
}

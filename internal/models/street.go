package models

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Coordinate is a WGS84 position as used on the API boundary.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports ErrInvalidCoordinate when the coordinate is outside the WGS84 ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// Point converts the coordinate to an orb point, which is ordered [lon, lat].
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// CoordinateFromPoint converts an orb point back into a Coordinate.
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

// StreetRecord is one street of the local dataset. Fragments are stored as
// [lon, lat] line strings and are neither ordered nor necessarily contiguous.
// A record is shared by every request once loaded and must not be mutated.
type StreetRecord struct {
	Key         string           `json:"key"`
	DisplayName string           `json:"name"`
	Fragments   []orb.LineString `json:"fragments"`
}

// PointCount returns the total number of vertices across all fragments.
func (r *StreetRecord) PointCount() int {
	n := 0
	for _, f := range r.Fragments {
		n += len(f)
	}
	return n
}

// StreetSuggestion is an autocomplete hit from the local index.
type StreetSuggestion struct {
	Name string `json:"street_name"`
	Key  string `json:"street_key"`
}

// StreetGeometry is the geometry of a street returned to map clients.
// Coordinates is used for a single line, Segments for multi-fragment streets.
type StreetGeometry struct {
	Name        string        `json:"name"`
	OSMType     string        `json:"osm_type"`
	OSMID       int64         `json:"osm_id"`
	Coordinates [][]float64   `json:"coordinates"`
	Segments    [][][]float64 `json:"segments,omitempty"`
}

// CacheStats describes the state of the local street index.
type CacheStats struct {
	Status       string `json:"status"`
	TotalStreets int    `json:"total_streets"`
	Loaded       bool   `json:"cache_loaded"`
}

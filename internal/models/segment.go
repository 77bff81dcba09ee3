package models

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SnapResult is a query point projected onto one fragment of a street.
type SnapResult struct {
	Point              Coordinate `json:"point"`
	FragmentIndex      int        `json:"fragment_index"`
	NearestVertexIndex int        `json:"nearest_vertex_index"`
	DistanceMeters     float64    `json:"distance_meters"`
	// ArcLength is the planar distance from the fragment's first vertex to Point.
	ArcLength float64 `json:"-"`
}

// ResolvedSegment is the stitched polyline between two snapped points.
type ResolvedSegment struct {
	Coordinates    orb.LineString
	StartPoint     Coordinate
	EndPoint       Coordinate
	DistanceMeters float64
	FragmentsUsed  int
	Strategy       string
	Degraded       bool
	Warning        string
}

// SegmentQuery asks for the part of a local street between two points.
// Either StreetKey or StreetName must be set; StreetKey is tried first.
// A zero FuzzyThreshold selects the service default.
type SegmentQuery struct {
	StreetName     string     `json:"street_name"`
	StreetKey      string     `json:"street_key,omitempty"`
	FuzzyThreshold int        `json:"fuzzy_threshold,omitempty"`
	Start          Coordinate `json:"start"`
	End            Coordinate `json:"end"`
}

// OSMSegmentQuery asks for the part of an OSM way between two points.
type OSMSegmentQuery struct {
	OSMType    string     `json:"street_osm_type"`
	OSMID      int64      `json:"street_osm_id"`
	StreetName string     `json:"street_name"`
	Start      Coordinate `json:"start"`
	End        Coordinate `json:"end"`
}

// SegmentResponse is the API representation of a resolved segment.
type SegmentResponse struct {
	SegmentGeoJSON  *geojson.Feature `json:"segment_geojson"`
	StartPoint      Coordinate       `json:"start_point"`
	EndPoint        Coordinate       `json:"end_point"`
	DistanceMeters  float64          `json:"distance_meters"`
	StreetName      string           `json:"street_name"`
	FragmentsUsed   int              `json:"fragments_used"`
	EncodedPolyline string           `json:"encoded_polyline"`
	Degraded        bool             `json:"degraded"`
	Warning         string           `json:"warning,omitempty"`
}

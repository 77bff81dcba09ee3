// Package geo holds the geometric primitives used to snap points onto street
// polylines and to cut polylines between snapped points.
//
// All polylines are orb.LineString values in [lon, lat] order. Projection and
// arc lengths are computed in planar (lon, lat) space, which is accurate
// enough at city scale; distances reported in meters always use haversine.
package geo

import (
	"fmt"
	"math"

	"street-segment-api/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// EarthRadiusMeters is the mean Earth radius used by HaversineDistance.
const EarthRadiusMeters = 6371000.0

// DefaultMaxSnapDistanceMeters is the largest accepted distance between a
// query point and the street it is snapped to.
const DefaultMaxSnapDistanceMeters = 120.0

// SnapToleranceMeters absorbs haversine rounding at the snap limit.
const SnapToleranceMeters = 1e-6

// WithinSnapDistance reports whether d is inside the inclusive snap limit.
func WithinSnapDistance(d, maxMeters float64) bool {
	return d <= maxMeters+SnapToleranceMeters
}

// HaversineDistance returns the great-circle distance between a and b in meters.
func HaversineDistance(a, b orb.Point) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dlat := (b.Lat() - a.Lat()) * math.Pi / 180
	dlon := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// HaversineLength sums the haversine distances between consecutive vertices.
func HaversineLength(line orb.LineString) float64 {
	total := 0.0
	for i := 0; i < len(line)-1; i++ {
		total += HaversineDistance(line[i], line[i+1])
	}
	return total
}

// PlanarLength is the arc length of line in degree units, the same units
// Projection.ArcLength is expressed in.
func PlanarLength(line orb.LineString) float64 {
	cum := cumulativeLengths(line)
	if len(cum) == 0 {
		return 0
	}
	return cum[len(cum)-1]
}

// Projection is the result of projecting a point onto a polyline.
type Projection struct {
	// Point is the foot of the perpendicular on the closest segment.
	Point orb.Point
	// ArcLength is the planar distance along the line from its first vertex to Point.
	ArcLength float64
	// SegmentIndex is the index of the segment's first vertex.
	SegmentIndex int
	// NearestVertexIndex is the vertex closest (haversine) to Point.
	NearestVertexIndex int
	// DistanceMeters is the haversine distance from the query point to Point.
	DistanceMeters float64
}

// ProjectOntoPolyline finds the closest point on line to p.
func ProjectOntoPolyline(p orb.Point, line orb.LineString) (Projection, error) {
	if len(line) == 0 {
		return Projection{}, fmt.Errorf("geo: %w: polyline has no points", models.ErrGeometryUnavailable)
	}
	if len(line) == 1 {
		return Projection{
			Point:          line[0],
			DistanceMeters: HaversineDistance(p, line[0]),
		}, nil
	}

	cum := cumulativeLengths(line)

	best := Projection{}
	bestDist := math.Inf(1)
	for i := 0; i < len(line)-1; i++ {
		foot, t := closestOnSegment(p, line[i], line[i+1])
		d := planar.Distance(p, foot)
		if d < bestDist {
			bestDist = d
			segLen := cum[i+1] - cum[i]
			arc := cum[i] + t*segLen
			if t >= 1 {
				arc = cum[i+1]
			}
			best = Projection{Point: foot, ArcLength: arc, SegmentIndex: i}
		}
	}

	best.DistanceMeters = HaversineDistance(p, best.Point)
	best.NearestVertexIndex = nearestVertex(best.Point, line)

	return best, nil
}

// Snap projects p onto line and rejects the result when it lies farther than
// maxMeters from p. The boundary is inclusive.
func Snap(p orb.Point, line orb.LineString, maxMeters float64) (Projection, error) {
	proj, err := ProjectOntoPolyline(p, line)
	if err != nil {
		return Projection{}, err
	}
	if !WithinSnapDistance(proj.DistanceMeters, maxMeters) {
		return proj, fmt.Errorf("geo: %w: %.2fm exceeds %.2fm", models.ErrTooFarFromStreet, proj.DistanceMeters, maxMeters)
	}
	return proj, nil
}

// closestOnSegment returns the foot of the perpendicular from p onto [a, b]
// clamped to the segment, together with its parameter t in [0, 1].
func closestOnSegment(p, a, b orb.Point) (orb.Point, float64) {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return a, 0
	}

	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / len2
	switch {
	case t <= 0:
		return a, 0
	case t >= 1:
		return b, 1
	}
	return orb.Point{a[0] + t*dx, a[1] + t*dy}, t
}

func nearestVertex(p orb.Point, line orb.LineString) int {
	idx := 0
	minDist := math.Inf(1)
	for i, v := range line {
		if d := HaversineDistance(p, v); d < minDist {
			minDist = d
			idx = i
		}
	}
	return idx
}

// cumulativeLengths returns cum where cum[i] is the planar distance from
// line[0] to line[i].
func cumulativeLengths(line orb.LineString) []float64 {
	if len(line) == 0 {
		return nil
	}
	cum := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cum[i] = cum[i-1] + planar.Distance(line[i-1], line[i])
	}
	return cum
}

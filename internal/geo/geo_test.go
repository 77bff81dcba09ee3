package geo

import (
	"math"
	"testing"

	"street-segment-api/internal/models"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metersToLatDegrees converts a north-south distance into degrees of latitude.
func metersToLatDegrees(m float64) float64 {
	return m / EarthRadiusMeters * 180 / math.Pi
}

// sumska is a short east-west stretch in Kharkiv.
var sumska = orb.LineString{
	{36.2300, 50.0000},
	{36.2320, 50.0000},
	{36.2340, 50.0000},
	{36.2360, 50.0000},
}

func TestHaversineDistance(t *testing.T) {
	// Kharkiv to Kyiv, roughly 410 km.
	kharkiv := orb.Point{36.2304, 49.9935}
	kyiv := orb.Point{30.5234, 50.4501}

	d := HaversineDistance(kharkiv, kyiv)
	assert.InDelta(t, 410000, d, 5000)
	assert.Equal(t, d, HaversineDistance(kyiv, kharkiv))
	assert.Equal(t, 0.0, HaversineDistance(kharkiv, kharkiv))

	// One degree of latitude along a meridian.
	oneDegree := HaversineDistance(orb.Point{0, 0}, orb.Point{0, 1})
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, oneDegree, 1e-6)
}

func TestProjectOntoPolyline_PointOnVertex(t *testing.T) {
	for i, v := range sumska {
		proj, err := ProjectOntoPolyline(v, sumska)
		require.NoError(t, err)

		assert.Equal(t, v, proj.Point, "vertex %d", i)
		assert.Equal(t, 0.0, proj.DistanceMeters, "vertex %d", i)
		assert.Equal(t, i, proj.NearestVertexIndex, "vertex %d", i)
	}
}

func TestProjectOntoPolyline_PerpendicularDistance(t *testing.T) {
	const offset = 75.0
	dlat := metersToLatDegrees(offset)

	// Feet at the start, middle and end of each segment must all report the same distance.
	for _, lon := range []float64{36.2300, 36.2305, 36.2319, 36.2333, 36.2359} {
		p := orb.Point{lon, 50.0 + dlat}

		proj, err := ProjectOntoPolyline(p, sumska)
		require.NoError(t, err)

		assert.InDelta(t, offset, proj.DistanceMeters, 1e-6, "lon %f", lon)
		assert.InDelta(t, lon, proj.Point.Lon(), 1e-12)
		assert.InDelta(t, 50.0, proj.Point.Lat(), 1e-12)
	}
}

func TestProjectOntoPolyline_ArcLengthAndNearestVertex(t *testing.T) {
	p := orb.Point{36.2331, 50.0001}

	proj, err := ProjectOntoPolyline(p, sumska)
	require.NoError(t, err)

	assert.Equal(t, 1, proj.SegmentIndex)
	assert.Equal(t, 2, proj.NearestVertexIndex)
	assert.InDelta(t, 0.0031, proj.ArcLength, 1e-12)
}

func TestProjectOntoPolyline_Degenerate(t *testing.T) {
	_, err := ProjectOntoPolyline(orb.Point{0, 0}, nil)
	assert.ErrorIs(t, err, models.ErrGeometryUnavailable)

	proj, err := ProjectOntoPolyline(orb.Point{0, 0}, orb.LineString{{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, orb.Point{0, 1}, proj.Point)
}

func TestSnap_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name    string
		offset  float64
		wantErr bool
	}{
		{name: "just inside", offset: 119.99},
		{name: "exactly at the limit", offset: 120.0},
		{name: "just outside", offset: 120.01, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Haversine rounding lands on either side of the offset depending on longitude.
			for lon := 36.2301; lon < 36.2349; lon += 0.0001 {
				p := orb.Point{lon, 50.0 + metersToLatDegrees(tt.offset)}

				_, err := Snap(p, sumska, DefaultMaxSnapDistanceMeters)
				if tt.wantErr {
					assert.ErrorIs(t, err, models.ErrTooFarFromStreet, "lon %f", lon)
				} else {
					assert.NoError(t, err, "lon %f", lon)
				}
			}
		})
	}
}

func TestWithinSnapDistance(t *testing.T) {
	assert.True(t, WithinSnapDistance(120, 120))
	assert.True(t, WithinSnapDistance(120.000000000143, 120))
	assert.False(t, WithinSnapDistance(120.01, 120))
}

func TestHaversineLength(t *testing.T) {
	line := orb.LineString{{0, 0}, {0, 1}, {0, 3}}
	assert.InDelta(t, 3*EarthRadiusMeters*math.Pi/180, HaversineLength(line), 1e-6)
	assert.Equal(t, 0.0, HaversineLength(orb.LineString{{0, 0}}))
}

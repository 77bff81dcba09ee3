package segment

import (
	"math"
	"testing"

	"street-segment-api/internal/geo"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

// latDegrees converts meters along a meridian into degrees of latitude.
func latDegrees(meters float64) float64 {
	return meters / geo.EarthRadiusMeters * 180 / math.Pi
}

// pairWithGap returns two fragments whose closest endpoints are gap meters apart.
func pairWithGap(gap float64) []orb.LineString {
	return []orb.LineString{
		{{36.23, 50.0}, {36.24, 50.0}},
		{{36.24, 50.0 + latDegrees(gap)}, {36.24, 50.01 + latDegrees(gap)}},
	}
}

func TestBuildGraph_ConnectionThreshold(t *testing.T) {
	tests := []struct {
		name      string
		gap       float64
		threshold float64
		connected bool
	}{
		{name: "99m at default threshold", gap: 99, threshold: DefaultConnectionMeters, connected: true},
		{name: "101m at default threshold", gap: 101, threshold: DefaultConnectionMeters, connected: false},
		{name: "101m at relaxed threshold", gap: 101, threshold: RelaxedConnectionMeters, connected: true},
		{name: "touching", gap: 0, threshold: DefaultConnectionMeters, connected: true},
		{name: "500m at relaxed threshold", gap: 500, threshold: RelaxedConnectionMeters, connected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragments := pairWithGap(tt.gap)
			assert.InDelta(t, tt.gap, EndpointGap(fragments[0], fragments[1]), 1e-6)

			g := BuildGraph(fragments, tt.threshold)
			if tt.connected {
				assert.Equal(t, []int{1}, g[0])
				assert.Equal(t, []int{0}, g[1])
			} else {
				assert.Empty(t, g[0])
				assert.Empty(t, g[1])
			}
		})
	}
}

func TestBuildGraph_SkipsUnusableFragmentsAndSelfLoops(t *testing.T) {
	fragments := []orb.LineString{
		{{0, 0}, {0, 1}},
		{{0, 1}},
		{{0, 1}, {0, 2}},
	}

	g := BuildGraph(fragments, DefaultConnectionMeters)
	assert.Len(t, g, 2)
	assert.NotContains(t, g, 1)
	assert.Equal(t, []int{2}, g[0])
	assert.Equal(t, []int{0}, g[2])
}

func TestShortestPath(t *testing.T) {
	// 0 - 1 - 2 - 3, with a shortcut 1 - 3; 4 is isolated.
	g := Graph{
		0: {1},
		1: {0, 2, 3},
		2: {1, 3},
		3: {1, 2},
		4: nil,
	}

	tests := []struct {
		name     string
		from, to int
		expected []int
	}{
		{name: "fewest hops", from: 0, to: 3, expected: []int{0, 1, 3}},
		{name: "neighbours", from: 2, to: 3, expected: []int{2, 3}},
		{name: "same node", from: 2, to: 2, expected: []int{2}},
		{name: "isolated", from: 0, to: 4, expected: nil},
		{name: "unknown node", from: 0, to: 9, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShortestPath(g, tt.from, tt.to))
		})
	}
}

package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstringBetween(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 0}, {2, 0}, {3, 0}}

	tests := []struct {
		name     string
		start    float64
		end      float64
		expected orb.LineString
	}{
		{
			name:     "inside one segment",
			start:    0.25,
			end:      0.75,
			expected: orb.LineString{{0.25, 0}, {0.75, 0}},
		},
		{
			name:     "keeps intermediate vertices",
			start:    0.5,
			end:      2.5,
			expected: orb.LineString{{0.5, 0}, {1, 0}, {2, 0}, {2.5, 0}},
		},
		{
			name:     "swapped offsets",
			start:    2.5,
			end:      0.5,
			expected: orb.LineString{{0.5, 0}, {1, 0}, {2, 0}, {2.5, 0}},
		},
		{
			name:     "cut on a vertex does not duplicate it",
			start:    1,
			end:      2,
			expected: orb.LineString{{1, 0}, {2, 0}},
		},
		{
			name:     "offsets clamped to the line",
			start:    -4,
			end:      10,
			expected: line,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubstringBetween(line, tt.start, tt.end)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.InDelta(t, tt.expected[i][0], got[i][0], 1e-12)
				assert.InDelta(t, tt.expected[i][1], got[i][1], 1e-12)
			}
		})
	}
}

func TestCut_UsesExactSnapPoints(t *testing.T) {
	line := orb.LineString{{36.23, 50.00}, {36.24, 50.00}, {36.24, 50.01}}

	a, err := ProjectOntoPolyline(orb.Point{36.2333, 50.0004}, line)
	require.NoError(t, err)
	b, err := ProjectOntoPolyline(orb.Point{36.2403, 50.0071}, line)
	require.NoError(t, err)

	got := Cut(line, a, b)
	require.Len(t, got, 3)
	assert.Equal(t, a.Point, got[0])
	assert.Equal(t, orb.Point{36.24, 50.00}, got[1])
	assert.Equal(t, b.Point, got[2])

	// Order of the projections does not matter.
	assert.Equal(t, got, Cut(line, b, a))
}

func TestCutToStartAndEnd(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 0}, {2, 0}}
	p, err := ProjectOntoPolyline(orb.Point{1.5, 0.0001}, line)
	require.NoError(t, err)

	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}, p.Point}, CutToStart(line, p))
	assert.Equal(t, orb.LineString{p.Point, {2, 0}}, CutToEnd(line, p))
}

func TestReversed_DoesNotMutate(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 0}, {2, 0}}
	r := Reversed(line)

	assert.Equal(t, orb.LineString{{2, 0}, {1, 0}, {0, 0}}, r)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}, {2, 0}}, line)
}

func TestMerge(t *testing.T) {
	a := orb.LineString{{0, 0}, {0, 1}}
	b := orb.LineString{{0, 2}, {0, 1}}
	c := orb.LineString{{0, 2}, {0, 3}}
	detached := orb.LineString{{5, 5}, {5, 6}}

	merged := Merge([]orb.LineString{a, detached, c, b})
	require.Len(t, merged, 2)
	assert.Equal(t, orb.LineString{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, merged[0])
	assert.Equal(t, detached, merged[1])

	// Inputs are left untouched.
	assert.Equal(t, orb.LineString{{0, 2}, {0, 1}}, b)

	assert.Empty(t, Merge([]orb.LineString{{{1, 1}}}))
}

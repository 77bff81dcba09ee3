package geo

import (
	"github.com/paulmach/orb"
)

// SubstringBetween returns the part of line between two arc-length offsets.
// Offsets are swapped when startArc > endArc and clamped to the line. The
// first and last coordinates are the interpolated cut points; every original
// vertex strictly between them is kept.
func SubstringBetween(line orb.LineString, startArc, endArc float64) orb.LineString {
	if len(line) < 2 {
		return line.Clone()
	}
	if startArc > endArc {
		startArc, endArc = endArc, startArc
	}

	cum := cumulativeLengths(line)
	total := cum[len(cum)-1]
	startArc = clamp(startArc, 0, total)
	endArc = clamp(endArc, 0, total)

	return cut(line, cum, startArc, endArc, interpolate(line, cum, startArc), interpolate(line, cum, endArc))
}

// Cut returns the part of line between two projections, running from the
// projection with the smaller arc length to the other one. The end
// coordinates are exactly the projected points.
func Cut(line orb.LineString, a, b Projection) orb.LineString {
	if len(line) < 2 {
		return orb.LineString{a.Point, b.Point}
	}
	if a.ArcLength > b.ArcLength {
		a, b = b, a
	}
	return cut(line, cumulativeLengths(line), a.ArcLength, b.ArcLength, a.Point, b.Point)
}

// CutToStart returns the part of line from its first vertex to p.
func CutToStart(line orb.LineString, p Projection) orb.LineString {
	return Cut(line, Projection{Point: line[0]}, p)
}

// CutToEnd returns the part of line from p to its last vertex.
func CutToEnd(line orb.LineString, p Projection) orb.LineString {
	return Cut(line, p, Projection{Point: line[len(line)-1], ArcLength: PlanarLength(line)})
}

// Reversed returns a reversed copy of line; orb's Reverse works in place.
func Reversed(line orb.LineString) orb.LineString {
	out := line.Clone()
	out.Reverse()
	return out
}

func cut(line orb.LineString, cum []float64, startArc, endArc float64, startPt, endPt orb.Point) orb.LineString {
	out := orb.LineString{startPt}
	for i := range line {
		if cum[i] > startArc && cum[i] < endArc {
			out = append(out, line[i])
		}
	}
	return append(out, endPt)
}

func interpolate(line orb.LineString, cum []float64, arc float64) orb.Point {
	for i := 0; i < len(line)-1; i++ {
		if arc > cum[i+1] {
			continue
		}
		segLen := cum[i+1] - cum[i]
		if segLen == 0 {
			return line[i]
		}
		if arc == cum[i+1] {
			return line[i+1]
		}
		t := (arc - cum[i]) / segLen
		a, b := line[i], line[i+1]
		return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
	}
	return line[len(line)-1]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package segment

import (
	"street-segment-api/internal/geo"

	"github.com/paulmach/orb"
)

// DuplicateBoundaryMeters is how close the first point of an appended piece
// must be to the accumulated end to be treated as the same point.
const DuplicateBoundaryMeters = 5.0

// Stitch joins the fragments named by path into one line running from start
// to end. start lies on the first fragment of path and end on the last; the
// first and last fragments are cut at those points, interior ones are used
// whole. Each piece is oriented so that it continues from the end of what has
// been accumulated so far.
func Stitch(fragments []orb.LineString, path []int, start, end geo.Projection) orb.LineString {
	if len(path) == 0 {
		return nil
	}
	if len(path) == 1 {
		return cutOriented(fragments[path[0]], start, end)
	}

	first := fragments[path[0]]
	next := fragments[path[1]]
	var acc orb.LineString
	if nearestEndIsTail(first, next) {
		acc = geo.CutToEnd(first, start)
	} else {
		acc = geo.Reversed(geo.CutToStart(first, start))
	}

	for _, idx := range path[1 : len(path)-1] {
		acc = appendPiece(acc, orientFrom(acc[len(acc)-1], fragments[idx]))
	}

	last := fragments[path[len(path)-1]]
	tail := acc[len(acc)-1]
	var piece orb.LineString
	if geo.HaversineDistance(tail, last[0]) <= geo.HaversineDistance(tail, last[len(last)-1]) {
		piece = geo.CutToStart(last, end)
	} else {
		piece = geo.Reversed(geo.CutToEnd(last, end))
	}
	return appendPiece(acc, piece)
}

// appendPiece appends piece to acc, dropping piece's first point when it is
// within DuplicateBoundaryMeters of acc's last point.
func appendPiece(acc, piece orb.LineString) orb.LineString {
	if len(piece) == 0 {
		return acc
	}
	if len(acc) > 0 && geo.HaversineDistance(acc[len(acc)-1], piece[0]) <= DuplicateBoundaryMeters {
		piece = piece[1:]
	}
	return append(acc, piece...)
}

// orientFrom returns line, reversed when its tail is closer to p than its head.
func orientFrom(p orb.Point, line orb.LineString) orb.LineString {
	if geo.HaversineDistance(p, line[len(line)-1]) < geo.HaversineDistance(p, line[0]) {
		return geo.Reversed(line)
	}
	return line.Clone()
}

// nearestEndIsTail reports whether the tail of line is the endpoint closest
// to other.
func nearestEndIsTail(line, other orb.LineString) bool {
	head, tail := line[0], line[len(line)-1]
	oHead, oTail := other[0], other[len(other)-1]
	headGap := min(geo.HaversineDistance(head, oHead), geo.HaversineDistance(head, oTail))
	tailGap := min(geo.HaversineDistance(tail, oHead), geo.HaversineDistance(tail, oTail))
	return tailGap <= headGap
}

// cutOriented cuts line between two projections and orients the result from
// start to end.
func cutOriented(line orb.LineString, start, end geo.Projection) orb.LineString {
	out := geo.Cut(line, start, end)
	if start.ArcLength > end.ArcLength {
		out.Reverse()
	}
	return out
}

// compact removes consecutive repeated points, keeping at least two.
func compact(line orb.LineString) orb.LineString {
	if len(line) < 2 {
		return line
	}
	out := orb.LineString{line[0]}
	for _, p := range line[1:] {
		if !p.Equal(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		out = append(out, out[0])
	}
	return out
}

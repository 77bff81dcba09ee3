package segment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"street-segment-api/internal/geo"
	"street-segment-api/internal/models"

	"github.com/paulmach/orb"
)

// ErrNotApplicable is returned by a strategy that cannot handle a request,
// letting the chain move on to the next one.
var ErrNotApplicable = errors.New("segment: strategy not applicable")

// onLineMeters is how far a snapped point may be from a merged line and
// still count as lying on it.
const onLineMeters = 0.5

// Request is the input shared by every strategy: the street's fragments and
// the two query points already snapped onto them.
type Request struct {
	Fragments []orb.LineString
	Start     models.SnapResult
	End       models.SnapResult
}

// SameFragment reports whether both points snapped to the same fragment.
func (r Request) SameFragment() bool {
	return r.Start.FragmentIndex == r.End.FragmentIndex
}

// Result is a strategy's polyline, oriented from the start point to the end point.
type Result struct {
	Coordinates   orb.LineString
	FragmentsUsed int
	Degraded      bool
	Warning       string
}

// Strategy computes a segment for a request or reports ErrNotApplicable.
type Strategy interface {
	Name() string
	ComputeSegment(req Request) (Result, error)
}

// Chain tries its strategies in order and returns the first success along
// with the name of the strategy that produced it.
type Chain []Strategy

func (c Chain) ComputeSegment(req Request) (Result, string, error) {
	var tried []string
	for _, s := range c {
		res, err := s.ComputeSegment(req)
		if err == nil {
			return res, s.Name(), nil
		}
		tried = append(tried, s.Name())
	}
	return Result{}, "", fmt.Errorf("segment: no strategy succeeded (tried %s): %w",
		strings.Join(tried, ", "), models.ErrAmbiguousOrDegradedPath)
}

// DefaultSameFragmentChain cuts a single fragment, preferring exact cut points.
func DefaultSameFragmentChain() Chain {
	return Chain{MergedSubstring{}, FragmentSubstring{}, VertexSlice{}}
}

// DefaultCrossFragmentChain searches the connectivity graph at the default
// then the relaxed threshold before falling back to a simple two-fragment join.
func DefaultCrossFragmentChain() Chain {
	return Chain{
		GraphPath{MaxConnectionMeters: DefaultConnectionMeters},
		GraphPath{MaxConnectionMeters: RelaxedConnectionMeters},
		SimpleJoin{MaxJoinMeters: SimpleJoinMeters},
	}
}

func projection(s models.SnapResult) geo.Projection {
	return geo.Projection{
		Point:              s.Point.Point(),
		ArcLength:          s.ArcLength,
		NearestVertexIndex: s.NearestVertexIndex,
		DistanceMeters:     s.DistanceMeters,
	}
}

// MergedSubstring merges fragments sharing exact endpoints and cuts the
// merged line that carries both snapped points.
type MergedSubstring struct{}

func (MergedSubstring) Name() string { return "merged_substring" }

func (MergedSubstring) ComputeSegment(req Request) (Result, error) {
	if !req.SameFragment() {
		return Result{}, ErrNotApplicable
	}

	start, end := req.Start.Point.Point(), req.End.Point.Point()
	for _, line := range geo.Merge(req.Fragments) {
		a, err := geo.ProjectOntoPolyline(start, line)
		if err != nil || a.DistanceMeters > onLineMeters {
			continue
		}
		b, err := geo.ProjectOntoPolyline(end, line)
		if err != nil || b.DistanceMeters > onLineMeters {
			continue
		}
		// Reuse the exact snapped points as cut ends.
		a.Point, b.Point = start, end
		return Result{Coordinates: cutOriented(line, a, b), FragmentsUsed: 1}, nil
	}
	return Result{}, ErrNotApplicable
}

// FragmentSubstring cuts the snapped fragment at the two arc lengths.
type FragmentSubstring struct{}

func (FragmentSubstring) Name() string { return "fragment_substring" }

func (FragmentSubstring) ComputeSegment(req Request) (Result, error) {
	if !req.SameFragment() {
		return Result{}, ErrNotApplicable
	}
	line := req.Fragments[req.Start.FragmentIndex]
	if len(line) < 2 {
		return Result{}, ErrNotApplicable
	}
	return Result{
		Coordinates:   cutOriented(line, projection(req.Start), projection(req.End)),
		FragmentsUsed: 1,
	}, nil
}

// VertexSlice takes the original vertices between the two nearest vertex
// indices, with the snapped points as ends. It can include a vertex just
// past a snap point and is only used when the other strategies fail.
type VertexSlice struct{}

func (VertexSlice) Name() string { return "vertex_slice" }

func (VertexSlice) ComputeSegment(req Request) (Result, error) {
	if !req.SameFragment() {
		return Result{}, ErrNotApplicable
	}
	line := req.Fragments[req.Start.FragmentIndex]
	if len(line) == 0 {
		return Result{}, ErrNotApplicable
	}

	i, j := req.Start.NearestVertexIndex, req.End.NearestVertexIndex
	lo, hi := min(i, j), max(i, j)
	if lo < 0 || hi >= len(line) {
		return Result{}, ErrNotApplicable
	}

	vertices := line[lo : hi+1].Clone()
	if i > j {
		vertices.Reverse()
	}
	out := append(orb.LineString{req.Start.Point.Point()}, vertices...)
	out = append(out, req.End.Point.Point())
	return Result{Coordinates: out, FragmentsUsed: 1}, nil
}

// GraphPath connects the two fragments through the connectivity graph built
// at MaxConnectionMeters and stitches the fragments on the shortest path.
type GraphPath struct {
	MaxConnectionMeters float64
}

func (g GraphPath) Name() string {
	return fmt.Sprintf("graph_path_%dm", int(math.Round(g.MaxConnectionMeters)))
}

func (g GraphPath) ComputeSegment(req Request) (Result, error) {
	if req.SameFragment() {
		return Result{}, ErrNotApplicable
	}
	graph := BuildGraph(req.Fragments, g.MaxConnectionMeters)
	path := ShortestPath(graph, req.Start.FragmentIndex, req.End.FragmentIndex)
	if path == nil {
		return Result{}, fmt.Errorf("%w: fragments %d and %d not connected within %.0fm",
			ErrNotApplicable, req.Start.FragmentIndex, req.End.FragmentIndex, g.MaxConnectionMeters)
	}
	return Result{
		Coordinates:   Stitch(req.Fragments, path, projection(req.Start), projection(req.End)),
		FragmentsUsed: len(path),
	}, nil
}

// SimpleJoin joins the start fragment's portion directly to the end
// fragment's portion when their facing endpoints are at most MaxJoinMeters
// apart. Otherwise it returns only the start fragment's portion, marked as
// degraded. It never fails for a cross-fragment request.
type SimpleJoin struct {
	MaxJoinMeters float64
}

func (SimpleJoin) Name() string { return "simple_join" }

func (s SimpleJoin) ComputeSegment(req Request) (Result, error) {
	if req.SameFragment() {
		return Result{}, ErrNotApplicable
	}
	first := req.Fragments[req.Start.FragmentIndex]
	last := req.Fragments[req.End.FragmentIndex]
	if len(first) < 2 || len(last) < 2 {
		return Result{}, ErrNotApplicable
	}

	var head orb.LineString
	if nearestEndIsTail(first, last) {
		head = geo.CutToEnd(first, projection(req.Start))
	} else {
		head = geo.Reversed(geo.CutToStart(first, projection(req.Start)))
	}

	joint := head[len(head)-1]
	var tail orb.LineString
	if geo.HaversineDistance(joint, last[0]) <= geo.HaversineDistance(joint, last[len(last)-1]) {
		tail = geo.CutToStart(last, projection(req.End))
	} else {
		tail = geo.Reversed(geo.CutToEnd(last, projection(req.End)))
	}

	gap := geo.HaversineDistance(joint, tail[0])
	if gap <= s.MaxJoinMeters {
		return Result{Coordinates: appendPiece(head, tail), FragmentsUsed: 2}, nil
	}

	return Result{
		Coordinates:   head,
		FragmentsUsed: 1,
		Degraded:      true,
		Warning: fmt.Sprintf("%s: fragments are %.0fm apart, segment ends at the start fragment",
			models.ErrAmbiguousOrDegradedPath, gap),
	}, nil
}

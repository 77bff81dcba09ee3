package segment

import (
	"fmt"
	"math"

	"street-segment-api/internal/geo"
	"street-segment-api/internal/models"

	"github.com/paulmach/orb"
)

// Resolver snaps two points onto a street's fragments and resolves the
// polyline between them. A Resolver holds no per-call state and is safe for
// concurrent use.
type Resolver struct {
	maxSnapMeters float64
	sameFragment  Chain
	crossFragment Chain
}

// NewResolver returns a resolver with the default strategy chains. A
// non-positive maxSnapMeters selects geo.DefaultMaxSnapDistanceMeters.
func NewResolver(maxSnapMeters float64) *Resolver {
	if maxSnapMeters <= 0 {
		maxSnapMeters = geo.DefaultMaxSnapDistanceMeters
	}
	return &Resolver{
		maxSnapMeters: maxSnapMeters,
		sameFragment:  DefaultSameFragmentChain(),
		crossFragment: DefaultCrossFragmentChain(),
	}
}

// WithChains replaces the strategy chains.
func (r *Resolver) WithChains(sameFragment, crossFragment Chain) *Resolver {
	cp := *r
	cp.sameFragment = sameFragment
	cp.crossFragment = crossFragment
	return &cp
}

// MaxSnapMeters is the largest accepted distance between a point and the street.
func (r *Resolver) MaxSnapMeters() float64 { return r.maxSnapMeters }

// SnapToFragments projects p onto the closest fragment. On equal distances
// the lower fragment index wins.
func (r *Resolver) SnapToFragments(fragments []orb.LineString, p orb.Point) (models.SnapResult, error) {
	best := models.SnapResult{FragmentIndex: -1, DistanceMeters: math.Inf(1)}
	for i, f := range fragments {
		if len(f) < 2 {
			continue
		}
		proj, err := geo.ProjectOntoPolyline(p, f)
		if err != nil {
			continue
		}
		if proj.DistanceMeters < best.DistanceMeters {
			best = models.SnapResult{
				Point:              models.CoordinateFromPoint(proj.Point),
				FragmentIndex:      i,
				NearestVertexIndex: proj.NearestVertexIndex,
				DistanceMeters:     proj.DistanceMeters,
				ArcLength:          proj.ArcLength,
			}
		}
	}

	if best.FragmentIndex < 0 {
		return models.SnapResult{}, fmt.Errorf("%w: street has no usable fragments", models.ErrGeometryUnavailable)
	}
	if !geo.WithinSnapDistance(best.DistanceMeters, r.maxSnapMeters) {
		return best, fmt.Errorf("%w: nearest point is %.1fm away, limit %.1fm",
			models.ErrTooFarFromStreet, best.DistanceMeters, r.maxSnapMeters)
	}
	return best, nil
}

// Resolve returns the part of the street between start and end. Fragments
// are only read. A result for which no connected path was found has
// Degraded set and a Warning explaining what was cut.
func (r *Resolver) Resolve(fragments []orb.LineString, start, end orb.Point) (*models.ResolvedSegment, error) {
	startSnap, err := r.SnapToFragments(fragments, start)
	if err != nil {
		return nil, fmt.Errorf("segment: snap start point: %w", err)
	}
	endSnap, err := r.SnapToFragments(fragments, end)
	if err != nil {
		return nil, fmt.Errorf("segment: snap end point: %w", err)
	}

	req := Request{Fragments: fragments, Start: startSnap, End: endSnap}
	chain := r.crossFragment
	if req.SameFragment() {
		chain = r.sameFragment
	}

	res, strategy, err := chain.ComputeSegment(req)
	if err != nil {
		return nil, err
	}

	coords := compact(res.Coordinates)
	return &models.ResolvedSegment{
		Coordinates:    coords,
		StartPoint:     startSnap.Point,
		EndPoint:       endSnap.Point,
		DistanceMeters: geo.HaversineLength(coords),
		FragmentsUsed:  res.FragmentsUsed,
		Strategy:       strategy,
		Degraded:       res.Degraded,
		Warning:        res.Warning,
	}, nil
}

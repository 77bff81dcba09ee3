// Package segment turns two snapped points on a street into one ordered
// polyline, stitching the street's fragments together when the points lie on
// different ones.
package segment

import (
	"math"

	"street-segment-api/internal/geo"

	"github.com/paulmach/orb"
)

// Connection thresholds tried in order before falling back to a simple join.
const (
	DefaultConnectionMeters = 100.0
	RelaxedConnectionMeters = 200.0
	SimpleJoinMeters        = 300.0
)

// Graph is an undirected adjacency list over fragment indices. Every usable
// fragment has an entry, isolated ones with no neighbours. Neighbour lists
// are in ascending index order.
type Graph map[int][]int

// BuildGraph connects every pair of fragments whose closest endpoints are at
// most maxConnectionMeters apart. Fragments with fewer than two points are
// left out.
func BuildGraph(fragments []orb.LineString, maxConnectionMeters float64) Graph {
	g := make(Graph, len(fragments))
	for i, f := range fragments {
		if len(f) >= 2 {
			g[i] = nil
		}
	}

	for i := range fragments {
		if _, ok := g[i]; !ok {
			continue
		}
		for j := i + 1; j < len(fragments); j++ {
			if _, ok := g[j]; !ok {
				continue
			}
			if EndpointGap(fragments[i], fragments[j]) <= maxConnectionMeters {
				g[i] = append(g[i], j)
				g[j] = append(g[j], i)
			}
		}
	}
	return g
}

// EndpointGap is the smallest haversine distance in meters between an
// endpoint of a and an endpoint of b.
func EndpointGap(a, b orb.LineString) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}
	aHead, aTail := a[0], a[len(a)-1]
	bHead, bTail := b[0], b[len(b)-1]
	return min(
		geo.HaversineDistance(aHead, bHead),
		geo.HaversineDistance(aHead, bTail),
		geo.HaversineDistance(aTail, bHead),
		geo.HaversineDistance(aTail, bTail),
	)
}

// ShortestPath returns the fragment indices from one fragment to another with
// the fewest hops, both ends included, or nil when they are not connected.
func ShortestPath(g Graph, from, to int) []int {
	if _, ok := g[from]; !ok {
		return nil
	}
	if _, ok := g[to]; !ok {
		return nil
	}
	if from == to {
		return []int{from}
	}

	prev := map[int]int{from: from}
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range g[cur] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if next == to {
				return walkBack(prev, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func walkBack(prev map[int]int, from, to int) []int {
	path := []int{to}
	for n := to; n != from; {
		n = prev[n]
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

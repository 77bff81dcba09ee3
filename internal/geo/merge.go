package geo

import (
	"github.com/paulmach/orb"
)

// Merge joins lines whose endpoints coincide exactly into longer lines.
// Lines are consumed in order; each merged line is grown at its tail and then
// at its head until no remaining line touches it. Input lines are not modified.
func Merge(lines []orb.LineString) []orb.LineString {
	remaining := make([]orb.LineString, 0, len(lines))
	for _, l := range lines {
		if len(l) >= 2 {
			remaining = append(remaining, l)
		}
	}

	var merged []orb.LineString
	for len(remaining) > 0 {
		current := remaining[0].Clone()
		remaining = remaining[1:]

		for grown := true; grown; {
			grown = false
			for i, l := range remaining {
				if joined, ok := join(current, l); ok {
					current = joined
					remaining = append(remaining[:i:i], remaining[i+1:]...)
					grown = true
					break
				}
			}
		}
		merged = append(merged, current)
	}
	return merged
}

// join appends l to current at whichever end they share, or reports false.
func join(current, l orb.LineString) (orb.LineString, bool) {
	head, tail := current[0], current[len(current)-1]
	switch {
	case tail.Equal(l[0]):
		return append(current, l[1:]...), true
	case tail.Equal(l[len(l)-1]):
		return append(current, Reversed(l)[1:]...), true
	case head.Equal(l[len(l)-1]):
		return append(l.Clone(), current[1:]...), true
	case head.Equal(l[0]):
		return append(Reversed(l), current[1:]...), true
	}
	return nil, false
}

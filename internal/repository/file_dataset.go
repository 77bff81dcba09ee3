package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"street-segment-api/internal/models"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
)

// rawFragment is one entry of the streets file. Coordinates are decoded
// lazily so that one malformed fragment does not reject the whole street.
type rawFragment struct {
	Name        string          `json:"name"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseStats counts what ParseStreets dropped.
type ParseStats struct {
	Streets          int
	Fragments        int
	SkippedStreets   int
	SkippedFragments int
	DroppedPoints    int
	SwappedPoints    int
}

// ParseStreets reads a streets file: a JSON object mapping street key to a
// list of {"name", "coordinates": [[lon, lat], ...]} fragments. Points out of
// the WGS84 range are dropped and fragments left with fewer than two points
// are skipped. When cityBounds is set, a pair that only falls inside the
// bounds when read as [lat, lon] is swapped. Streets are returned sorted by key.
func ParseStreets(r io.Reader, cityBounds *orb.Bound) ([]models.StreetRecord, ParseStats, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, ParseStats{}, fmt.Errorf("repository: failed to decode streets file: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var stats ParseStats
	records := make([]models.StreetRecord, 0, len(keys))
	for _, key := range keys {
		var fragments []rawFragment
		if err := json.Unmarshal(raw[key], &fragments); err != nil {
			stats.SkippedStreets++
			continue
		}

		rec := models.StreetRecord{Key: key}
		for _, frag := range fragments {
			line, dropped, swapped := parseLine(frag.Coordinates, cityBounds)
			stats.DroppedPoints += dropped
			stats.SwappedPoints += swapped
			if len(line) < 2 {
				stats.SkippedFragments++
				continue
			}
			if rec.DisplayName == "" {
				rec.DisplayName = frag.Name
			}
			rec.Fragments = append(rec.Fragments, line)
		}
		if len(rec.Fragments) == 0 {
			stats.SkippedStreets++
			continue
		}
		if rec.DisplayName == "" {
			rec.DisplayName = key
		}
		stats.Streets++
		stats.Fragments += len(rec.Fragments)
		records = append(records, rec)
	}

	return records, stats, nil
}

func parseLine(data json.RawMessage, cityBounds *orb.Bound) (orb.LineString, int, int) {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, 0, 0
	}

	dropped, swapped := 0, 0
	line := make(orb.LineString, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			dropped++
			continue
		}
		p := orb.Point{pair[0], pair[1]}
		if cityBounds != nil && !cityBounds.Contains(p) {
			if flipped := (orb.Point{pair[1], pair[0]}); cityBounds.Contains(flipped) {
				p = flipped
				swapped++
			}
		}
		if err := models.CoordinateFromPoint(p).Validate(); err != nil {
			dropped++
			continue
		}
		line = append(line, p)
	}
	return line, dropped, swapped
}

// FileDataset loads streets from a JSON file on disk.
type FileDataset struct {
	path       string
	cityBounds *orb.Bound
	logger     zerolog.Logger
}

// NewFileDataset creates a dataset reading path. cityBounds may be nil.
func NewFileDataset(path string, cityBounds *orb.Bound, logger zerolog.Logger) *FileDataset {
	return &FileDataset{
		path:       path,
		cityBounds: cityBounds,
		logger:     logger.With().Str("component", "file_dataset").Logger(),
	}
}

// LoadStreets reads and parses the whole file.
func (d *FileDataset) LoadStreets(ctx context.Context) ([]models.StreetRecord, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open streets file: %w", err)
	}
	defer f.Close()

	records, stats, err := ParseStreets(f, d.cityBounds)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repository: streets load cancelled: %w", err)
	}

	d.logger.Info().
		Str("path", d.path).
		Int("streets", stats.Streets).
		Int("fragments", stats.Fragments).
		Int("skipped_streets", stats.SkippedStreets).
		Int("skipped_fragments", stats.SkippedFragments).
		Int("dropped_points", stats.DroppedPoints).
		Int("swapped_points", stats.SwappedPoints).
		Msg("streets file parsed")

	return records, nil
}

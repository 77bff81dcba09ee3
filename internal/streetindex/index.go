// Package streetindex holds the in-memory street name to geometry mapping
// loaded lazily from a dataset provider.
package streetindex

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"street-segment-api/internal/fuzzy"
	"street-segment-api/internal/metrics"
	"street-segment-api/internal/models"

	"github.com/rs/zerolog"
)

// DefaultFuzzyThreshold is the minimum fuzzy score accepted by ResolveByName.
const DefaultFuzzyThreshold = 70

const defaultLoadTimeout = 30 * time.Second

// DatasetProvider supplies every street of the dataset.
type DatasetProvider interface {
	LoadStreets(ctx context.Context) ([]models.StreetRecord, error)
}

// Index resolves street names and keys to their geometry. It loads the
// dataset on first use, at most once, and is safe for concurrent use.
type Index struct {
	provider    DatasetProvider
	logger      zerolog.Logger
	loadTimeout time.Duration

	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

// snapshot is an immutable view of a loaded dataset.
type snapshot struct {
	byKey map[string]*models.StreetRecord
	// keys is sorted so fuzzy scans and prefix searches are deterministic.
	keys []string
}

// NewIndex creates an index backed by provider. Nothing is loaded until the first lookup.
func NewIndex(provider DatasetProvider, logger zerolog.Logger) *Index {
	return &Index{
		provider:    provider,
		logger:      logger.With().Str("component", "streetindex").Logger(),
		loadTimeout: defaultLoadTimeout,
	}
}

// ResolveByKey looks a street up by its key.
func (idx *Index) ResolveByKey(key string) (*models.StreetRecord, error) {
	s := idx.load()

	if rec, ok := s.byKey[key]; ok {
		metrics.StreetLookupsTotal.WithLabelValues("key").Inc()
		return rec, nil
	}
	if rec, ok := s.byKey[fuzzy.Normalize(key)]; ok {
		metrics.StreetLookupsTotal.WithLabelValues("key").Inc()
		return rec, nil
	}

	metrics.StreetLookupsTotal.WithLabelValues("miss").Inc()
	return nil, fmt.Errorf("streetindex: key %q: %w", key, models.ErrStreetNotFound)
}

// ResolveByName finds a street by exact normalized name, falling back to the
// best fuzzy match scoring at least threshold. Among equal best scores the
// lexicographically smallest key wins.
func (idx *Index) ResolveByName(name string, threshold int) (*models.StreetRecord, error) {
	s := idx.load()
	normalized := fuzzy.Normalize(name)
	if normalized == "" {
		return nil, fmt.Errorf("streetindex: empty street name: %w", models.ErrStreetNotFound)
	}

	if rec, ok := s.byKey[normalized]; ok {
		metrics.StreetLookupsTotal.WithLabelValues("exact").Inc()
		return rec, nil
	}

	bestKey := ""
	bestScore := -1
	for _, key := range s.keys {
		if score := fuzzy.Ratio(normalized, key); score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestKey == "" || bestScore < threshold {
		idx.logger.Info().
			Str("street_name", name).
			Int("threshold", threshold).
			Int("best_score", max(bestScore, 0)).
			Str("best_key", bestKey).
			Msg("no street match found")
		metrics.StreetLookupsTotal.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("streetindex: name %q: %w", name, models.ErrStreetNotFound)
	}

	idx.logger.Debug().
		Str("street_name", name).
		Str("matched_key", bestKey).
		Int("score", bestScore).
		Msg("fuzzy street match")
	metrics.StreetLookupsTotal.WithLabelValues("fuzzy").Inc()
	return s.byKey[bestKey], nil
}

// SearchByPrefix returns streets whose key contains prefix (case-insensitive),
// one per display name, shortest names first and then by name. A non-positive limit returns all matches.
func (idx *Index) SearchByPrefix(prefix string, limit int) []models.StreetSuggestion {
	s := idx.load()
	needle := strings.ToLower(strings.TrimSpace(prefix))

	seen := make(map[string]bool)
	matches := []models.StreetSuggestion{}
	for _, key := range s.keys {
		if !strings.Contains(key, needle) {
			continue
		}
		name := s.byKey[key].DisplayName
		if seen[name] {
			continue
		}
		seen[name] = true
		matches = append(matches, models.StreetSuggestion{Name: name, Key: key})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(matches[i].Name), utf8.RuneCountInString(matches[j].Name)
		if li != lj {
			return li < lj
		}
		return matches[i].Name < matches[j].Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Count is the number of distinct streets loaded.
func (idx *Index) Count() int {
	return len(idx.load().keys)
}

// Loaded reports whether the index holds at least one street.
func (idx *Index) Loaded() bool {
	return idx.Count() > 0
}

// Stats reports the index size for health and diagnostics.
func (idx *Index) Stats() models.CacheStats {
	n := idx.Count()
	return models.CacheStats{Status: "OK", TotalStreets: n, Loaded: n > 0}
}

// Invalidate drops the loaded dataset; the next lookup reloads it.
func (idx *Index) Invalidate() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snap.Store(nil)
	idx.logger.Info().Msg("street index invalidated")
}

// load returns the current snapshot, building it on first use. Concurrent
// first callers wait for a single build.
func (idx *Index) load() *snapshot {
	if s := idx.snap.Load(); s != nil {
		return s
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if s := idx.snap.Load(); s != nil {
		return s
	}

	s := idx.build()
	idx.snap.Store(s)
	metrics.IndexStreets.Set(float64(len(s.keys)))
	return s
}

func (idx *Index) build() *snapshot {
	s := &snapshot{byKey: make(map[string]*models.StreetRecord)}

	// The first caller's context must not decide the fate of a shared load.
	ctx, cancel := context.WithTimeout(context.Background(), idx.loadTimeout)
	defer cancel()

	start := time.Now()
	records, err := idx.provider.LoadStreets(ctx)
	if err != nil {
		idx.logger.Error().Err(err).Msg("failed to load streets data")
		return s
	}

	skipped := 0
	for i := range records {
		rec := records[i]
		key := fuzzy.Normalize(rec.Key)
		if key == "" || len(rec.Fragments) == 0 {
			skipped++
			continue
		}
		if _, dup := s.byKey[key]; dup {
			skipped++
			continue
		}
		rec.Key = key
		if rec.DisplayName == "" {
			rec.DisplayName = key
		}
		s.byKey[key] = &rec
		s.keys = append(s.keys, key)
	}
	sort.Strings(s.keys)

	idx.logger.Info().
		Int("streets_count", len(s.keys)).
		Int("skipped", skipped).
		Dur("took", time.Since(start)).
		Msg("streets data loaded")

	return s
}

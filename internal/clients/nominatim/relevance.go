package nominatim

import (
	"sort"
	"strings"
	"unicode/utf8"

	"street-segment-api/internal/fuzzy"
	"street-segment-api/internal/models"
)

var streetKeywords = []string{"вул", "вулиця", "проспект", "бульвар", "площа"}

// streetTypeWords are stripped from a query to find the distinctive part of a street name.
var streetTypeWords = []string{"проспект", "вулиця", "вул.", "бульвар", "площа"}

// Relevance scores a candidate against the query on roughly a 0-100 scale:
// 60% fuzzy similarity, 30% provider importance and small bonuses for a
// matching prefix and for street words in the name.
func Relevance(r models.StreetSearchResult, query string) float64 {
	name := strings.ToLower(r.DisplayName)
	q := strings.ToLower(query)

	startsWith := 0.0
	if strings.HasPrefix(name, q) {
		startsWith = 20
	}
	keyword := 0.0
	for _, k := range streetKeywords {
		if strings.Contains(name, k) {
			keyword = 10
			break
		}
	}

	return float64(fuzzy.BestScore(q, name))*0.6 +
		r.Importance*100*0.3 +
		startsWith*0.05 +
		keyword*0.05
}

// SortByRelevance orders results by descending relevance, keeping the
// provider order among equal scores.
func SortByRelevance(results []models.StreetSearchResult, query string) {
	scores := make([]float64, len(results))
	for i := range results {
		scores[i] = Relevance(results[i], query)
	}
	sort.Stable(byScore{results: results, scores: scores})
}

type byScore struct {
	results []models.StreetSearchResult
	scores  []float64
}

func (b byScore) Len() int           { return len(b.results) }
func (b byScore) Less(i, j int) bool { return b.scores[i] > b.scores[j] }
func (b byScore) Swap(i, j int) {
	b.results[i], b.results[j] = b.results[j], b.results[i]
	b.scores[i], b.scores[j] = b.scores[j], b.scores[i]
}

// streetHead is the lower-cased part of a display name before the first comma.
func streetHead(displayName string) string {
	head, _, _ := strings.Cut(displayName, ",")
	return strings.ToLower(strings.TrimSpace(head))
}

// DedupByStreet keeps one result per street head, the one with the higher
// importance, at the position where that street first appeared.
func DedupByStreet(results []models.StreetSearchResult) []models.StreetSearchResult {
	pos := make(map[string]int)
	unique := make([]models.StreetSearchResult, 0, len(results))
	for _, r := range results {
		head := streetHead(r.DisplayName)
		if i, ok := pos[head]; ok {
			if r.Importance > unique[i].Importance {
				unique[i] = r
			}
			continue
		}
		pos[head] = len(unique)
		unique = append(unique, r)
	}
	return unique
}

// matchesStreet reports whether a candidate's street head contains the
// query or one of its distinctive words longer than two letters.
func matchesStreet(r models.StreetSearchResult, query string) bool {
	head := streetHead(r.DisplayName)
	q := strings.ToLower(query)
	if strings.Contains(head, q) {
		return true
	}

	stripped := q
	for _, w := range streetTypeWords {
		stripped = strings.ReplaceAll(stripped, w, "")
	}
	for _, part := range strings.Fields(stripped) {
		if utf8.RuneCountInString(part) > 2 && strings.Contains(head, part) {
			return true
		}
	}
	return false
}

package domain

import (
	"math"
	"sort"
	"strings"
)

const (
	// Text match weights
	ScorePrefixMatch    = 1.0
	ScoreSubstringMatch = 0.5

	// DefaultResultLimit caps every query response.
	DefaultResultLimit = 6
)

// RankedResult is a row with the scores that placed it.
type RankedResult struct {
	Item       ListItem `json:"item"`
	TextScore  float64  `json:"text_score"`
	UsageScore float64  `json:"usage_score"`
	Score      float64  `json:"score"` // Combined score
}

// TextScore rates a row that already passed the substring filter: a display
// value starting with the query beats a match anywhere else.
func TextScore(displayValue, query string) float64 {
	if strings.HasPrefix(strings.ToLower(displayValue), strings.ToLower(query)) {
		return ScorePrefixMatch
	}
	return ScoreSubstringMatch
}

// UsageScore turns a use count into a ranking boost. Logarithmic so that
// frequent use helps without drowning text relevance.
func UsageScore(count int) float64 {
	if count < 0 {
		count = 0
	}
	return math.Log2(float64(count) + 1)
}

// SortRanked orders by combined score, descending. Ties keep their
// enumeration order.
func SortRanked(results []RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// Truncate caps results at limit (DefaultResultLimit when limit <= 0).
func Truncate[T any](results []T, limit int) []T {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if len(results) > limit {
		return results[:limit]
	}
	return results
}

// Package search ranks medicines against a name or generic query.
// All functions are pure and safe to call concurrently over a published snapshot.
package search

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/giygas/medicines-api/medicinesparser/entities"
)

const (
	// DefaultLimit is used when the caller passes a limit <= 0
	DefaultLimit = 10
	// MinQueryLength is the shortest trimmed query that is searched
	MinQueryLength = 2
)

// Relevance scores
const (
	ScoreGeneric    = 1
	ScoreNameSubstr = 2
	ScoreNamePrefix = 3
)

// Mode selects how the result set is capped
type Mode int

const (
	// TopK collects every match, sorts by score, then truncates to the limit
	TopK Mode = iota
	// FirstMatches stops scanning at the limit and sorts only what was collected.
	// Kept for parity with the generated JavaScript of older releases.
	FirstMatches
)

func (m Mode) String() string {
	switch m {
	case FirstMatches:
		return "first"
	default:
		return "topk"
	}
}

// ParseMode converts a configuration value into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "topk", "top-k":
		return TopK, nil
	case "first", "firstmatches", "first-matches", "legacy":
		return FirstMatches, nil
	}
	return TopK, fmt.Errorf("unknown search mode: %s", s)
}

// Result is a matching medicine with its relevance score
type Result struct {
	entities.Medicine
	Score int `json:"score"`
}

// Searcher runs queries with a fixed capping mode
type Searcher struct {
	Mode Mode
}

// Search runs a TopK search
func Search(medicines []entities.Medicine, query string, limit int) []Result {
	return Searcher{Mode: TopK}.Search(medicines, query, limit)
}

// Search returns the matches for query, most relevant first. Equal scores keep
// their input order. Queries shorter than MinQueryLength return an empty slice.
func (s Searcher) Search(medicines []entities.Medicine, query string, limit int) []Result {
	term := NormalizeQuery(query)
	if utf8.RuneCountInString(term) < MinQueryLength {
		return []Result{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]Result, 0, limit)
	for i := range medicines {
		if s.Mode == FirstMatches && len(results) >= limit {
			break
		}

		score := Score(&medicines[i], term)
		if score == 0 {
			continue
		}
		results = append(results, Result{Medicine: medicines[i], Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return b.Score - a.Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// NormalizeQuery lowercases and trims a query
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Score returns the relevance of a medicine for an already normalized term, 0 when it does not match
func Score(m *entities.Medicine, term string) int {
	name := strings.ToLower(m.Name)
	if strings.HasPrefix(name, term) {
		return ScoreNamePrefix
	}
	if strings.Contains(name, term) {
		return ScoreNameSubstr
	}
	if strings.Contains(strings.ToLower(m.Generic), term) {
		return ScoreGeneric
	}
	return 0
}

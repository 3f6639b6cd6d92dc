// Package categorizer suggests a canonical category for a free-text name so
// users do not have to type exact catalog entries. Matching is a similarity
// search: case-insensitive exact match first, then Levenshtein distance
// against every catalog name.
package categorizer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxSuggestionDistance is the strict upper bound on edit distance for a
// suggestion. Distances 0-2 suggest; anything farther stays uncategorized
// rather than guessed wrongly.
const MaxSuggestionDistance = 3

// Matcher suggests catalog categories for raw user input. The catalog is
// sorted once at construction so equally-distant candidates resolve the same
// way on every run, regardless of upstream ordering.
type Matcher struct {
	names []string
}

// NewMatcher builds a matcher over the given catalog names.
func NewMatcher(names []string) *Matcher {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})
	return &Matcher{names: sorted}
}

// Suggest returns the closest catalog name for the input, or false when the
// input is blank or nothing is within MaxSuggestionDistance. Exact
// case-insensitive matches return immediately.
func (m *Matcher) Suggest(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	lowered := strings.ToLower(input)
	for _, name := range m.names {
		if strings.ToLower(name) == lowered {
			return name, true
		}
	}

	best := ""
	bestDistance := MaxSuggestionDistance
	for _, name := range m.names {
		d := fuzzy.LevenshteinDistance(lowered, strings.ToLower(name))
		if d < bestDistance {
			bestDistance = d
			best = name
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// Suggest is the one-shot form for callers without a reusable matcher.
func Suggest(input string, names []string) (string, bool) {
	return NewMatcher(names).Suggest(input)
}

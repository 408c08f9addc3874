package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance reported as a suggestion
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of suggestions returned
	DefaultMaxSuggestions = 3
)

// FuzzyMatchOptions configures fuzzy matching
type FuzzyMatchOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

func (o *FuzzyMatchOptions) withDefaults() FuzzyMatchOptions {
	var out FuzzyMatchOptions
	if o != nil {
		out = *o
	}
	if out.MaxDistance == 0 {
		out.MaxDistance = DefaultMaxDistance
	}
	if out.MaxSuggestions == 0 {
		out.MaxSuggestions = DefaultMaxSuggestions
	}
	return out
}

// FindSimilar returns the candidates closest to target, nearest first.
// Ties keep the order of candidates.
//
// Example:
//
//	FindSimilar("Playr", []string{"Player", "Stats", "Light"}, nil)
//	// Returns: ["Player"]
func FindSimilar(target string, candidates []string, opts *FuzzyMatchOptions) []string {
	o := opts.withDefaults()

	type match struct {
		value    string
		distance int
	}
	var matches []match

	needle := target
	if !o.CaseSensitive {
		needle = strings.ToLower(target)
	}
	for _, candidate := range candidates {
		hay := candidate
		if !o.CaseSensitive {
			hay = strings.ToLower(candidate)
		}
		if d := LevenshteinDistance(needle, hay); d <= o.MaxDistance {
			matches = append(matches, match{value: candidate, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	n := min(len(matches), o.MaxSuggestions)
	result := make([]string, n)
	for i := range result {
		result[i] = matches[i].value
	}
	return result
}

// LevenshteinDistance counts the single-rune insertions, deletions and
// substitutions needed to turn a into b.
//
// Example:
//
//	LevenshteinDistance("kitten", "sitting") // Returns: 3
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// FindBestMatch returns the closest candidate, or "" when none is close
// enough
func FindBestMatch(target string, candidates []string, opts *FuzzyMatchOptions) string {
	if matches := FindSimilar(target, candidates, opts); len(matches) > 0 {
		return matches[0]
	}
	return ""
}

package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Playr", "Player", 1},
		{"Metalic", "Metallic", 1},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Emissive", "Light", "Material", "Metallic", "Player", "Stats"}

	tests := []struct {
		name     string
		target   string
		opts     *FuzzyMatchOptions
		expected []string
	}{
		{"exact match", "Light", nil, []string{"Light"}},
		{"one rune off", "Playr", nil, []string{"Player"}},
		{"case insensitive", "stats", nil, []string{"Stats"}},
		{"case sensitive", "stats", &FuzzyMatchOptions{CaseSensitive: true, MaxDistance: 1}, []string{"Stats"}},
		{"nothing close", "Framebuffer", nil, []string{}},
		{"limited", "Metal", &FuzzyMatchOptions{MaxSuggestions: 1, MaxDistance: 4}, []string{"Metallic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindSimilar(tt.target, candidates, tt.opts))
		})
	}
}

func TestFindSimilar_TiesKeepOrder(t *testing.T) {
	got := FindSimilar("ab", []string{"ax", "xb", "ab"}, nil)
	assert.Equal(t, []string{"ab", "ax", "xb"}, got)
}

func TestFindBestMatch(t *testing.T) {
	assert.Equal(t, "Material", FindBestMatch("Materal", []string{"Material", "Metallic"}, nil))
	assert.Equal(t, "", FindBestMatch("zzzzzzzz", []string{"Material"}, nil))
}

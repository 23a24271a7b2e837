// Package matcher compares songs by title and artist.
package matcher

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tessro/lilt/internal/core"
)

// Score represents the quality of a match between two songs
type Score int

const (
	NoMatch    Score = 0
	FuzzyMatch Score = 1
	ExactMatch Score = 2
	SameAudio  Score = 3
)

const maxLevenshteinDistance = 3

// Match compares two songs and returns a score indicating match quality
func Match(a, b core.Song) Score {
	// Best match: identical audio
	if a.AudioURL != "" && a.Same(b) {
		return SameAudio
	}

	if a.Artist == "" || b.Artist == "" || a.Title == "" || b.Title == "" {
		return NoMatch
	}

	if strings.EqualFold(a.Artist, b.Artist) && strings.EqualFold(a.Title, b.Title) {
		return ExactMatch
	}

	// Fuzzy match on artist + title
	aKey := Normalize(a.Artist) + "|" + Normalize(a.Title)
	bKey := Normalize(b.Artist) + "|" + Normalize(b.Title)
	if levenshtein.ComputeDistance(aKey, bKey) <= maxLevenshteinDistance {
		return FuzzyMatch
	}

	return NoMatch
}

// Normalize lowercases s and strips decorations that differ between feeds:
// parenthesised suffixes, featured artists, a leading "the" and extra spaces.
func Normalize(s string) string {
	s = strings.ToLower(s)

	// Remove anything in parentheses
	for {
		start := strings.Index(s, "(")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], ")")
		if end == -1 {
			break
		}
		s = s[:start] + s[start+end+1:]
	}

	for _, sep := range []string{" feat.", " feat ", " ft.", " ft ", " featuring ", " x "} {
		if idx := strings.Index(s, sep); idx != -1 {
			s = s[:idx]
		}
	}

	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimPrefix(s, "the ")
}

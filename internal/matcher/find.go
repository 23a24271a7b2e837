package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tessro/lilt/internal/core"
)

// Find searches for the best matching song in a slice.
// Returns the index of the best match, or -1 if no match is found
func Find(songs []core.Song, target core.Song) int {
	bestIndex := -1
	bestScore := NoMatch

	for i := range songs {
		score := Match(songs[i], target)
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	return bestIndex
}

// Rank returns the songs matching a free-text query, best first. A song
// matches when the query is a substring of its title or artist, or is within
// a small edit distance of either. An empty query returns songs unchanged.
func Rank(songs []core.Song, query string) []core.Song {
	q := Normalize(query)
	if q == "" {
		return songs
	}

	type ranked struct {
		song  core.Song
		dist  int
		index int
	}

	var hits []ranked
	for i, s := range songs {
		if d, ok := queryDistance(s, q); ok {
			hits = append(hits, ranked{song: s, dist: d, index: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].dist < hits[j].dist
	})

	out := make([]core.Song, len(hits))
	for i, h := range hits {
		out[i] = h.song
	}
	return out
}

// queryDistance scores s against an already-normalized query. Substring hits
// score 0.
func queryDistance(s core.Song, q string) (int, bool) {
	title := Normalize(s.Title)
	artist := Normalize(s.Artist)

	if strings.Contains(title, q) || strings.Contains(artist, q) ||
		strings.Contains(title+" "+artist, q) || strings.Contains(artist+" "+title, q) {
		return 0, true
	}

	best := maxLevenshteinDistance + 1
	for _, candidate := range []string{title, artist, title + " " + artist} {
		if d := levenshtein.ComputeDistance(candidate, q); d < best {
			best = d
		}
	}
	if best <= maxLevenshteinDistance {
		return best, true
	}
	return 0, false
}

package pkg

import (
	"cmp"
	"slices"

	"github.com/sahilm/fuzzy"
)

// Suggest returns up to limit candidates similar to name, best first.
// Fuzzy subsequence matches are preferred; without any, candidates within
// a small edit distance of name are returned, closest first. A limit of
// zero or less returns every match.
func Suggest(name string, candidates []string, limit int) []string {
	var out []string

	for _, m := range fuzzy.Find(name, candidates) {
		out = append(out, m.Str)
	}

	if len(out) == 0 {
		out = closest(name, candidates)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// closest returns the candidates whose edit distance to name is at most a
// third of its length (and at least 2), ordered by distance, then by
// their position in candidates.
func closest(name string, candidates []string) []string {
	type match struct {
		str  string
		dist int
	}

	limit := max(2, len([]rune(name))/3)

	var matches []match

	for _, c := range candidates {
		if d := editDistance(name, c); d <= limit {
			matches = append(matches, match{c, d})
		}
	}

	slices.SortStableFunc(matches, func(a, b match) int { return cmp.Compare(a.dist, b.dist) })

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.str
	}

	return out
}

// editDistance returns the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	s, t := []rune(a), []rune(b)

	prev := make([]int, len(t)+1)
	curr := make([]int, len(t)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s); i++ {
		curr[0] = i

		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}

			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(t)]
}

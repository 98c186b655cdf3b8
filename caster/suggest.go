package caster

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the canonical choice closest to token, or "" when t is not
// a choices spec or nothing is close enough. Subsequence matches (as ranked
// by fuzzy.RankFindFold) win over edit distance.
func (t TypeSpec) Suggest(token string) string {
	if t.kind != KindChoices || strings.TrimSpace(token) == "" {
		return ""
	}

	targets := make([]string, 0, len(t.choices))
	canonical := make([]string, 0, len(t.choices))
	for _, alias := range t.choices {
		for _, s := range alias {
			targets = append(targets, s)
			canonical = append(canonical, alias.Canonical())
		}
	}

	ranks := fuzzy.RankFindFold(token, targets)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return canonical[ranks[0].OriginalIndex]
	}

	lower := strings.ToLower(token)
	best, bestDist := "", maxSuggestDistance(token)+1
	for i, s := range targets {
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(s)); d < bestDist {
			best, bestDist = canonical[i], d
		}
	}
	return best
}

func maxSuggestDistance(token string) int {
	if n := len(token) / 3; n > 2 {
		return n
	}
	return 2
}

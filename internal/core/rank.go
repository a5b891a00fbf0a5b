package core

import (
	"regexp"
	"sort"
	"strings"

	"pypkg/internal/shared"
	"pypkg/internal/types"
)

var queryTokenSplit = regexp.MustCompile(`[^a-z0-9]+`)

// RankResults orders search hits deterministically: an exact
// normalized-name match first, then by descending count of query
// tokens appearing as whole words in the description, then
// alphabetically by name. The underlying search surface exposes no
// popularity signal, so none is used.
func RankResults(query string, hits []types.PackageSearchResult) []types.PackageSearchResult {
	tokens := queryTokens(query)
	normalizedQuery := shared.NormalizePipName(query)

	type scored struct {
		hit    types.PackageSearchResult
		exact  bool
		tokens int
	}
	ranked := make([]scored, 0, len(hits))
	for _, hit := range hits {
		ranked = append(ranked, scored{
			hit:    hit,
			exact:  shared.NormalizePipName(hit.Name) == normalizedQuery,
			tokens: countTokenHits(tokens, hit.Description),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].exact != ranked[j].exact {
			return ranked[i].exact
		}
		if ranked[i].tokens != ranked[j].tokens {
			return ranked[i].tokens > ranked[j].tokens
		}
		return strings.ToLower(ranked[i].hit.Name) < strings.ToLower(ranked[j].hit.Name)
	})

	out := make([]types.PackageSearchResult, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, entry.hit)
	}
	return out
}

func queryTokens(query string) []string {
	var tokens []string
	for _, token := range queryTokenSplit.Split(strings.ToLower(query), -1) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func countTokenHits(tokens []string, description string) int {
	if len(tokens) == 0 || description == "" {
		return 0
	}
	words := map[string]bool{}
	for _, word := range queryTokenSplit.Split(strings.ToLower(description), -1) {
		if word != "" {
			words[word] = true
		}
	}
	count := 0
	for _, token := range tokens {
		if words[token] {
			count++
		}
	}
	return count
}

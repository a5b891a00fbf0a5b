package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/types"
)

const defaultSearchLimit = 10

// SearchPackages queries the index search surface, enriches each hit
// with metadata, and orders the results deterministically. Hits whose
// metadata cannot be fetched are dropped rather than failing the whole
// search. When pythonVersion is given, packages that declare an
// incompatible requires_python are filtered out; packages without a
// parseable declaration are kept.
func (s Service) SearchPackages(ctx context.Context, query string, limit int, pythonVersion string) ([]types.PackageSearchResult, error) {
	if query == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	names, err := s.Search.Search(ctx, query, limit*2)
	if err != nil {
		return nil, err
	}
	// The search surface is advisory; a zero-hit answer for something
	// that looks like a package name still deserves a direct lookup.
	if len(names) == 0 {
		names = []string{query}
	}

	var results []types.PackageSearchResult
	for _, name := range names {
		info, err := s.Remote.Lookup(ctx, name)
		if err != nil {
			log.Debug().Str("package", name).Err(err).Msg("dropping search hit without metadata")
			continue
		}
		if pythonVersion != "" && !supportsPython(info.RequiresPython, pythonVersion) {
			continue
		}
		results = append(results, types.PackageSearchResult{
			Name:        info.Name,
			Description: info.Summary,
			Version:     info.Version,
			Author:      info.Author,
		})
	}

	results = core.RankResults(query, results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func supportsPython(requiresPython, pythonVersion string) bool {
	if requiresPython == "" {
		return true
	}
	set, err := core.ParseSpecifier(requiresPython)
	if err != nil {
		return true
	}
	ok, err := set.Satisfies(pythonVersion, false)
	if err != nil {
		return true
	}
	return ok
}

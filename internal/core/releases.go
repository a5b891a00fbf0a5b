package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"pypkg/internal/shared"
	"pypkg/internal/types"
)

// BestRelease selects the highest non-yanked release satisfying the
// set. Versions that fail to parse are skipped rather than failing the
// whole selection, since indexes carry historical junk versions.
func BestRelease(releases []types.Release, set ConstraintSet) (string, bool) {
	best := ""
	var bestParsed pep440.Version
	for _, release := range releases {
		if release.Yanked {
			continue
		}
		ok, err := set.Satisfies(release.Version, false)
		if err != nil || !ok {
			continue
		}
		parsed, err := ParseVersion(release.Version)
		if err != nil {
			continue
		}
		if best == "" || parsed.GreaterThan(bestParsed) {
			best = release.Version
			bestParsed = parsed
		}
	}
	return best, best != ""
}

// LatestRelease selects the newest release: yanked releases are
// excluded unconditionally, prereleases only when allowPrerelease is
// false. When prerelease filtering removes every candidate the caller
// gets an explicit failure instead of a silently relaxed filter.
func LatestRelease(name string, releases []types.Release, allowPrerelease bool) (types.VersionInfo, error) {
	if len(releases) == 0 {
		return types.VersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no published releases for %s", name))
	}

	best := ""
	var bestParsed pep440.Version
	sawCandidate := false
	for _, release := range releases {
		if release.Yanked {
			continue
		}
		parsed, err := ParseVersion(release.Version)
		if err != nil {
			continue
		}
		sawCandidate = true
		if !allowPrerelease && shared.IsPreRelease(release.Version) {
			continue
		}
		if best == "" || parsed.GreaterThan(bestParsed) {
			best = release.Version
			bestParsed = parsed
		}
	}
	if best == "" {
		if sawCandidate {
			return types.VersionInfo{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("no stable version for %s: only prereleases are published", name))
		}
		return types.VersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no installable releases for %s", name))
	}
	return types.VersionInfo{
		Name:         name,
		Version:      best,
		IsPrerelease: shared.IsPreRelease(best),
		Source:       types.SourceRemote,
	}, nil
}

package core

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"pypkg/internal/shared"
	"pypkg/internal/types"
)

// CheckConstraints intersects a candidate package's specifier with
// every existing declaration of the same normalized name. An empty
// intersection is a conflict citing the offending declaration. Only
// direct, name-identical declarations are checked; the candidate's own
// dependency tree is never resolved.
func CheckConstraints(candidate string, versionSpec string, existing []types.Dependency) (types.CompatibilityReport, error) {
	candidateSet, err := ParseSpecifier(versionSpec)
	if err != nil {
		return types.CompatibilityReport{}, err
	}

	report := types.CompatibilityReport{
		Package:     candidate,
		VersionSpec: versionSpec,
		Conflicts:   []types.Conflict{},
	}

	normalized := shared.NormalizePipName(candidate)
	for _, dep := range existing {
		if dep.NormalizedName != normalized {
			continue
		}
		existingSet, err := ParseSpecifier(dep.VersionSpec)
		if err != nil {
			// Declarations that no longer parse cannot be judged; say so
			// instead of guessing.
			log.Warn().
				Str("package", dep.Name).
				Str("spec", dep.VersionSpec).
				Str("file", dep.SourceFile).
				Msg("skipping unparseable declaration during compatibility check")
			report.Unknown = true
			report.Notes = append(report.Notes,
				fmt.Sprintf("could not parse declared specifier %q from %s", dep.VersionSpec, dep.SourceFile))
			continue
		}
		if candidateSet.Intersect(existingSet).IsEmpty() {
			report.Conflicts = append(report.Conflicts, types.Conflict{
				Existing: dep,
				Reason: fmt.Sprintf("no version satisfies both %q and the declared %q from %s",
					versionSpec, dep.VersionSpec, dep.SourceFile),
			})
		}
	}
	report.Compatible = len(report.Conflicts) == 0
	return report, nil
}

package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/types"
)

// CheckPackageCompatibility analyzes the project and reports whether
// the candidate's specifier can coexist with every name-identical
// declared dependency. Only direct declarations are compared; the
// candidate's own dependency tree is not resolved. A failure to fetch
// the candidate's metadata marks the report unknown instead of failing
// the computable part.
func (s Service) CheckPackageCompatibility(ctx context.Context, newPackage, versionSpec, projectPath string) (types.CompatibilityReport, error) {
	if newPackage == "" {
		return types.CompatibilityReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is required")
	}

	project, err := s.AnalyzeProject(ctx, projectPath)
	if err != nil {
		return types.CompatibilityReport{}, err
	}

	report, err := core.CheckConstraints(newPackage, versionSpec, project.Dependencies)
	if err != nil {
		return types.CompatibilityReport{}, err
	}

	if _, err := s.Resolver.PackageInfo(ctx, newPackage, versionSpec); err != nil {
		log.Warn().Str("package", newPackage).Err(err).Msg("candidate metadata unavailable")
		report.Unknown = true
		report.Notes = append(report.Notes, "metadata for "+newPackage+" could not be retrieved: "+err.Error())
	}
	return report, nil
}

package app

import (
	"context"

	"pypkg/internal/core"
	"pypkg/internal/types"
)

// MetadataResult pairs package metadata with the pip command that
// would install the queried name and specifier.
type MetadataResult struct {
	Package     types.PackageInfo `json:"package" yaml:"package"`
	InstallHint string            `json:"install_hint" yaml:"install_hint"`
}

func (s Service) GetPackageMetadata(ctx context.Context, name, versionSpec string) (MetadataResult, error) {
	info, err := s.Resolver.PackageInfo(ctx, name, versionSpec)
	if err != nil {
		return MetadataResult{}, err
	}
	return MetadataResult{
		Package:     *info,
		InstallHint: core.InstallHint(name, versionSpec),
	}, nil
}

func (s Service) GetLatestVersion(ctx context.Context, name string, allowPrerelease bool) (types.VersionInfo, error) {
	return s.Resolver.LatestVersion(ctx, name, allowPrerelease)
}

package ports

import (
	"context"

	"pypkg/internal/types"
)

// ReleaseSource lists a package's published releases and fetches the
// metadata of one specific release from the remote index.
type ReleaseSource interface {
	Releases(ctx context.Context, name string) ([]types.Release, error)
	ReleaseInfo(ctx context.Context, name string, version string) (*types.PackageInfo, error)
}

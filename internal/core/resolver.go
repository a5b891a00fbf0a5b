package core

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"pypkg/internal/ports"
	"pypkg/internal/shared"
	"pypkg/internal/types"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = time.Hour
)

// Resolver answers package metadata queries with a local-first,
// remote-fallback policy. Successful remote project lookups are cached
// in process memory for the resolver's lifetime, keyed by normalized
// name; nothing is ever written back to disk.
type Resolver struct {
	Local  ports.MetadataStore
	Remote ports.MetadataStore
	Index  ports.ReleaseSource

	cache *lru.LRU[string, *types.PackageInfo]
}

func NewResolver(local ports.MetadataStore, remote ports.MetadataStore, index ports.ReleaseSource, cacheSize int, cacheTTL time.Duration) *Resolver {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Resolver{
		Local:  local,
		Remote: remote,
		Index:  index,
		cache:  lru.NewLRU[string, *types.PackageInfo](cacheSize, nil, cacheTTL),
	}
}

// PackageInfo returns metadata for a package, preferring the local
// installation. A local hit is returned when no specifier was given or
// the installed version satisfies it; otherwise the remote index
// answers, selecting the newest non-yanked release that satisfies the
// specifier when one was given.
func (r *Resolver) PackageInfo(ctx context.Context, name string, versionSpec string) (*types.PackageInfo, error) {
	if r.Remote == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a remote metadata store")
	}
	normalized := shared.NormalizePipName(name)
	if normalized == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}

	set, err := ParseSpecifier(versionSpec)
	if err != nil {
		return nil, err
	}

	if info := r.lookupLocal(ctx, normalized, versionSpec, set); info != nil {
		return info, nil
	}
	if info := r.lookupCache(normalized, versionSpec, set); info != nil {
		return info, nil
	}

	if versionSpec != "" && r.Index != nil {
		if info, err := r.lookupPinnedRemote(ctx, normalized, set); info != nil || err != nil {
			return info, err
		}
	}

	info, err := r.Remote.Lookup(ctx, normalized)
	if err != nil {
		return nil, err
	}
	info.Source = types.SourceRemote
	if versionSpec == "" {
		cached := *info
		r.cache.Add(normalized, &cached)
	}
	return info, nil
}

func (r *Resolver) lookupLocal(ctx context.Context, normalized string, versionSpec string, set ConstraintSet) *types.PackageInfo {
	if r.Local == nil {
		return nil
	}
	info, err := r.Local.Lookup(ctx, normalized)
	if err != nil {
		if errbuilder.CodeOf(err) != errbuilder.CodeNotFound {
			log.Warn().Err(err).Str("package", normalized).Msg("local metadata lookup failed, falling back to remote")
		}
		return nil
	}
	if versionSpec != "" {
		ok, err := set.Satisfies(info.Version, true)
		if err != nil || !ok {
			return nil
		}
	}
	info.Source = types.SourceLocal
	return info
}

func (r *Resolver) lookupCache(normalized string, versionSpec string, set ConstraintSet) *types.PackageInfo {
	cached, ok := r.cache.Get(normalized)
	if !ok {
		return nil
	}
	if versionSpec != "" {
		ok, err := set.Satisfies(cached.Version, true)
		if err != nil || !ok {
			return nil
		}
	}
	copied := *cached
	return &copied
}

// lookupPinnedRemote fetches metadata for the best release matching the
// specifier. A (nil, nil) return means no release matched and the
// caller should fall back to the plain project lookup.
func (r *Resolver) lookupPinnedRemote(ctx context.Context, normalized string, set ConstraintSet) (*types.PackageInfo, error) {
	releases, err := r.Index.Releases(ctx, normalized)
	if err != nil {
		return nil, err
	}
	best, found := BestRelease(releases, set)
	if !found {
		log.Debug().Str("package", normalized).Str("spec", set.Raw()).Msg("no release satisfies specifier, returning latest metadata")
		return nil, nil
	}
	info, err := r.Index.ReleaseInfo(ctx, normalized, best)
	if err != nil {
		return nil, err
	}
	info.Source = types.SourceRemote
	return info, nil
}

// LatestVersion returns the newest non-yanked release. Prereleases are
// excluded unless explicitly opted in; a package publishing only
// prereleases fails with a precondition error rather than silently
// relaxing the filter.
func (r *Resolver) LatestVersion(ctx context.Context, name string, allowPrerelease bool) (types.VersionInfo, error) {
	if r.Index == nil {
		return types.VersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a release source")
	}
	normalized := shared.NormalizePipName(name)
	if normalized == "" {
		return types.VersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}
	releases, err := r.Index.Releases(ctx, normalized)
	if err != nil {
		return types.VersionInfo{}, err
	}
	latest, err := LatestRelease(normalized, releases, allowPrerelease)
	if err != nil {
		return types.VersionInfo{}, err
	}
	log.Debug().Str("package", normalized).Str("version", latest.Version).Bool("prerelease", latest.IsPrerelease).Msg("selected latest release")
	return latest, nil
}

// InstallHint renders the pip command line that would install the
// candidate.
func InstallHint(name string, versionSpec string) string {
	return fmt.Sprintf("pip install %s%s", name, versionSpec)
}

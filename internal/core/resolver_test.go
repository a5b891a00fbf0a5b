package core

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pypkg/internal/types"
)

type fakeStore struct {
	packages map[string]*types.PackageInfo
	err      error
	calls    int
}

func (f *fakeStore) Lookup(_ context.Context, name string) (*types.PackageInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	info, ok := f.packages[name]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found: " + name)
	}
	copied := *info
	return &copied, nil
}

type fakeIndex struct {
	releases     map[string][]types.Release
	releaseInfo  map[string]*types.PackageInfo
	releaseCalls int
	infoCalls    int
}

func (f *fakeIndex) Releases(_ context.Context, name string) ([]types.Release, error) {
	f.releaseCalls++
	releases, ok := f.releases[name]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found: " + name)
	}
	return releases, nil
}

func (f *fakeIndex) ReleaseInfo(_ context.Context, name, version string) (*types.PackageInfo, error) {
	f.infoCalls++
	info, ok := f.releaseInfo[name+"@"+version]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("release not found: " + name + "@" + version)
	}
	copied := *info
	return &copied, nil
}

func TestResolverPrefersLocal(t *testing.T) {
	local := &fakeStore{packages: map[string]*types.PackageInfo{
		"requests": {Name: "requests", Version: "2.28.0"},
	}}
	remote := &fakeStore{}
	r := NewResolver(local, remote, nil, 0, 0)

	info, err := r.PackageInfo(context.Background(), "Requests", "")
	require.NoError(t, err)
	assert.Equal(t, types.SourceLocal, info.Source)
	assert.Equal(t, "2.28.0", info.Version)
	assert.Zero(t, remote.calls)
}

func TestResolverLocalHitMustSatisfySpec(t *testing.T) {
	local := &fakeStore{packages: map[string]*types.PackageInfo{
		"requests": {Name: "requests", Version: "2.28.0"},
	}}
	remote := &fakeStore{packages: map[string]*types.PackageInfo{
		"requests": {Name: "requests", Version: "2.31.0"},
	}}
	r := NewResolver(local, remote, nil, 0, 0)

	t.Run("installed version satisfies", func(t *testing.T) {
		info, err := r.PackageInfo(context.Background(), "requests", ">=2.0,<3.0")
		require.NoError(t, err)
		assert.Equal(t, types.SourceLocal, info.Source)
	})
	t.Run("installed version misses", func(t *testing.T) {
		info, err := r.PackageInfo(context.Background(), "requests", ">=2.30")
		require.NoError(t, err)
		assert.Equal(t, types.SourceRemote, info.Source)
		assert.Equal(t, "2.31.0", info.Version)
	})
}

func TestResolverRemoteFallbackNotFound(t *testing.T) {
	r := NewResolver(&fakeStore{}, &fakeStore{}, nil, 0, 0)

	_, err := r.PackageInfo(context.Background(), "definitely-not-a-real-package-xyz", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestResolverCachesUnconstrainedRemoteLookups(t *testing.T) {
	remote := &fakeStore{packages: map[string]*types.PackageInfo{
		"httpx": {Name: "httpx", Version: "0.27.0"},
	}}
	r := NewResolver(&fakeStore{}, remote, nil, 0, 0)

	for i := 0; i < 3; i++ {
		info, err := r.PackageInfo(context.Background(), "httpx", "")
		require.NoError(t, err)
		assert.Equal(t, "0.27.0", info.Version)
	}
	assert.Equal(t, 1, remote.calls)
}

func TestResolverCacheHitMustSatisfySpec(t *testing.T) {
	remote := &fakeStore{packages: map[string]*types.PackageInfo{
		"httpx": {Name: "httpx", Version: "0.27.0"},
	}}
	index := &fakeIndex{
		releases: map[string][]types.Release{
			"httpx": {{Version: "0.20.0"}, {Version: "0.27.0"}},
		},
		releaseInfo: map[string]*types.PackageInfo{
			"httpx@0.20.0": {Name: "httpx", Version: "0.20.0"},
		},
	}
	r := NewResolver(nil, remote, index, 0, 0)

	info, err := r.PackageInfo(context.Background(), "httpx", "")
	require.NoError(t, err)
	require.Equal(t, "0.27.0", info.Version)

	// The cached 0.27.0 does not satisfy the narrower spec, so the
	// index picks the matching release.
	info, err = r.PackageInfo(context.Background(), "httpx", "<0.21")
	require.NoError(t, err)
	assert.Equal(t, "0.20.0", info.Version)
	assert.Equal(t, 1, index.infoCalls)
}

func TestResolverPinnedRemoteSelectsBestRelease(t *testing.T) {
	remote := &fakeStore{packages: map[string]*types.PackageInfo{
		"widget": {Name: "widget", Version: "3.0.0"},
	}}
	index := &fakeIndex{
		releases: map[string][]types.Release{
			"widget": {
				{Version: "1.0.0"},
				{Version: "2.5.0"},
				{Version: "2.6.0", Yanked: true},
				{Version: "3.0.0"},
			},
		},
		releaseInfo: map[string]*types.PackageInfo{
			"widget@2.5.0": {Name: "widget", Version: "2.5.0"},
		},
	}
	r := NewResolver(nil, remote, index, 0, 0)

	info, err := r.PackageInfo(context.Background(), "widget", ">=2.0,<3.0")
	require.NoError(t, err)
	assert.Equal(t, "2.5.0", info.Version)
	assert.Equal(t, types.SourceRemote, info.Source)
	assert.Zero(t, remote.calls)
}

func TestResolverPinnedRemoteFallsBackWhenNothingMatches(t *testing.T) {
	remote := &fakeStore{packages: map[string]*types.PackageInfo{
		"widget": {Name: "widget", Version: "3.0.0"},
	}}
	index := &fakeIndex{releases: map[string][]types.Release{
		"widget": {{Version: "3.0.0"}},
	}}
	r := NewResolver(nil, remote, index, 0, 0)

	info, err := r.PackageInfo(context.Background(), "widget", ">=4.0")
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", info.Version)
	assert.Equal(t, 1, remote.calls)
}

func TestResolverRejectsBadInput(t *testing.T) {
	r := NewResolver(nil, &fakeStore{}, nil, 0, 0)

	t.Run("empty name", func(t *testing.T) {
		_, err := r.PackageInfo(context.Background(), "", "")
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	})
	t.Run("bad spec", func(t *testing.T) {
		_, err := r.PackageInfo(context.Background(), "requests", "not a spec")
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	})
	t.Run("no remote store", func(t *testing.T) {
		broken := NewResolver(nil, nil, nil, 0, 0)
		_, err := broken.PackageInfo(context.Background(), "requests", "")
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	})
}

func TestResolverLatestVersion(t *testing.T) {
	index := &fakeIndex{releases: map[string][]types.Release{
		"widget": {
			{Version: "1.0.0"},
			{Version: "1.2.0"},
			{Version: "2.0.0rc1"},
		},
	}}
	r := NewResolver(nil, &fakeStore{}, index, 0, 0)

	latest, err := r.LatestVersion(context.Background(), "widget", false)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", latest.Version)

	latest, err = r.LatestVersion(context.Background(), "widget", true)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0rc1", latest.Version)

	_, err = r.LatestVersion(context.Background(), "vanished", false)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestInstallHint(t *testing.T) {
	assert.Equal(t, "pip install requests>=2.0,<3.0", InstallHint("requests", ">=2.0,<3.0"))
	assert.Equal(t, "pip install requests", InstallHint("requests", ""))
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pypkg/internal/adapters"
	"pypkg/internal/app"
	"pypkg/internal/core"
	"pypkg/internal/ports"
	"pypkg/internal/types"
)

type stubStore struct {
	packages map[string]*types.PackageInfo
}

func (s *stubStore) Lookup(_ context.Context, name string) (*types.PackageInfo, error) {
	info, ok := s.packages[name]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found: " + name)
	}
	copied := *info
	return &copied, nil
}

type stubIndex struct {
	releases map[string][]types.Release
}

func (s *stubIndex) Releases(_ context.Context, name string) ([]types.Release, error) {
	releases, ok := s.releases[name]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found: " + name)
	}
	return releases, nil
}

func (s *stubIndex) ReleaseInfo(_ context.Context, name, version string) (*types.PackageInfo, error) {
	return &types.PackageInfo{Name: name, Version: version}, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	remote := &stubStore{packages: map[string]*types.PackageInfo{
		"requests": {Name: "requests", Version: "2.31.0", Summary: "HTTP for humans"},
	}}
	index := &stubIndex{releases: map[string][]types.Release{
		"requests": {{Version: "2.30.0"}, {Version: "2.31.0"}, {Version: "3.0.0rc1"}},
	}}
	service := app.Service{
		Resolver: core.NewResolver(nil, remote, index, 0, 0),
		Remote:   remote,
		Files: []ports.DependencyFilePort{
			adapters.NewRequirementsFileAdapter(),
		},
	}
	return New(service, ":0")
}

func doRequest(t *testing.T, srv *Server, method string, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetadataEndpoint(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/v1/packages/requests", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result app.MetadataResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "2.31.0", result.Package.Version)
	assert.Equal(t, "pip install requests", result.InstallHint)
}

func TestMetadataEndpointNotFound(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/v1/packages/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var payload struct {
		Error struct {
			Code      string `json:"code"`
			Component string `json:"component"`
			Message   string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "not_found", payload.Error.Code)
	assert.Equal(t, "resolver", payload.Error.Component)
	assert.NotEmpty(t, payload.Error.Message)
}

func TestLatestEndpoint(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/packages/requests/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var version types.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &version))
	assert.Equal(t, "2.31.0", version.Version)

	rec = doRequest(t, srv, http.MethodGet, "/v1/packages/requests/latest?prerelease=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &version))
	assert.Equal(t, "3.0.0rc1", version.Version)
}

func TestAnalyzeEndpoint(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests>=2.0\n"), 0644))

	rec := doRequest(t, testServer(t), http.MethodGet, "/v1/project/dependencies?path="+dir, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var project types.ProjectInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.Equal(t, []string{"requirements.txt"}, project.DependencyFiles)
	require.Len(t, project.Dependencies, 1)
}

func TestCompatibilityEndpoint(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests>=2.0,<3.0\n"), 0644))

	body := `{"package":"requests","version_spec":"==3.1.0","project_path":"` + dir + `"}`
	rec := doRequest(t, testServer(t), http.MethodPost, "/v1/compatibility", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var report types.CompatibilityReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Compatible)
	require.Len(t, report.Conflicts, 1)
}

func TestCompatibilityEndpointBadBody(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/v1/compatibility", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

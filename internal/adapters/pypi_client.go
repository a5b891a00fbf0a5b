package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/ports"
	"pypkg/internal/shared"
	"pypkg/internal/types"
)

// PyPIClient talks to the package index JSON API
// (GET {base}/{name}/json and GET {base}/{name}/{version}/json). A
// transient network or server failure is retried once after a fixed
// delay; a definitive 404 is never retried.
type PyPIClient struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
}

func NewPyPIClient(baseURL string, timeout, retryDelay time.Duration) *PyPIClient {
	if baseURL == "" {
		baseURL = "https://pypi.org/pypi"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	return &PyPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
	}
}

type pypiResponse struct {
	Info     pypiInfo                  `json:"info"`
	Releases map[string][]pypiFileInfo `json:"releases"`
	URLs     []pypiFileInfo            `json:"urls"`
}

type pypiInfo struct {
	Name                   string         `json:"name"`
	Version                string         `json:"version"`
	Summary                string         `json:"summary"`
	Description            string         `json:"description"`
	DescriptionContentType string         `json:"description_content_type"`
	Author                 string         `json:"author"`
	License                string         `json:"license"`
	Classifiers            []string       `json:"classifiers"`
	Keywords               string         `json:"keywords"`
	HomePage               string         `json:"home_page"`
	ProjectURLs            map[string]any `json:"project_urls"`
	RequiresDist           []string       `json:"requires_dist"`
	RequiresPython         string         `json:"requires_python"`
}

type pypiFileInfo struct {
	Yanked     bool   `json:"yanked"`
	UploadTime string `json:"upload_time_iso_8601"`
}

// Lookup fetches the latest published metadata for a package.
func (c *PyPIClient) Lookup(ctx context.Context, name string) (*types.PackageInfo, error) {
	endpoint := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(shared.NormalizePipName(name)))
	data, err := c.getJSON(ctx, endpoint, name)
	if err != nil {
		return nil, err
	}
	return c.packageInfo(data), nil
}

// ReleaseInfo fetches the metadata published for one specific version.
func (c *PyPIClient) ReleaseInfo(ctx context.Context, name, version string) (*types.PackageInfo, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/json", c.baseURL, url.PathEscape(shared.NormalizePipName(name)), url.PathEscape(version))
	data, err := c.getJSON(ctx, endpoint, name)
	if err != nil {
		return nil, err
	}
	return c.packageInfo(data), nil
}

// Releases lists every published version of a package. A version is
// yanked when it has no remaining un-yanked file.
func (c *PyPIClient) Releases(ctx context.Context, name string) ([]types.Release, error) {
	endpoint := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(shared.NormalizePipName(name)))
	data, err := c.getJSON(ctx, endpoint, name)
	if err != nil {
		return nil, err
	}

	releases := make([]types.Release, 0, len(data.Releases))
	for version, files := range data.Releases {
		yanked := true
		for _, f := range files {
			if !f.Yanked {
				yanked = false
				break
			}
		}
		releases = append(releases, types.Release{Version: version, Yanked: yanked})
	}
	sort.Slice(releases, func(i, j int) bool {
		vi, erri := pep440.Parse(releases[i].Version)
		vj, errj := pep440.Parse(releases[j].Version)
		if erri != nil || errj != nil {
			return releases[i].Version < releases[j].Version
		}
		return vi.LessThan(vj)
	})
	return releases, nil
}

func (c *PyPIClient) getJSON(ctx context.Context, endpoint, name string) (*pypiResponse, error) {
	var data pypiResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to build index request").
				WithCause(err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg("package index unreachable").
				WithCause(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("package not found on index: " + name))
		case resp.StatusCode >= 500:
			return errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg("package index failed for " + name).
				WithCause(shared.HTTPStatusError(resp.StatusCode, endpoint))
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("unexpected index response for " + name).
				WithCause(shared.HTTPStatusError(resp.StatusCode, endpoint)))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg("failed reading index response").
				WithCause(err)
		}
		if err := json.Unmarshal(body, &data); err != nil {
			return backoff.Permanent(errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("malformed index response for " + name).
				WithCause(err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), 1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *PyPIClient) packageInfo(data *pypiResponse) *types.PackageInfo {
	info := &types.PackageInfo{
		Name:                   data.Info.Name,
		Version:                data.Info.Version,
		Summary:                data.Info.Summary,
		Description:            data.Info.Description,
		DescriptionContentType: data.Info.DescriptionContentType,
		Author:                 data.Info.Author,
		License:                licenseName(data.Info.License, data.Info.Classifiers),
		Homepage:               data.Info.HomePage,
		Repository:             repositoryURL(data.Info.ProjectURLs, data.Info.HomePage),
		Keywords:               splitKeywords(data.Info.Keywords),
		RequiresPython:         data.Info.RequiresPython,
		LastUpdated:            latestUpload(data.URLs),
		Source:                 types.SourceRemote,
	}
	for _, raw := range data.Info.RequiresDist {
		dep, err := core.ParseRequirement(raw, "", false)
		if err != nil {
			log.Warn().Str("package", info.Name).Str("entry", raw).Err(err).Msg("skipping unparseable requires_dist entry")
			continue
		}
		info.Dependencies = append(info.Dependencies, dep)
	}
	return info
}

// licenseName prefers a short license field, then falls back to the
// trove classifier ("License :: OSI Approved :: MIT License").
func licenseName(license string, classifiers []string) string {
	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}
	return ""
}

func repositoryURL(projectURLs map[string]any, homepage string) string {
	for _, label := range []string{"Source", "Repository", "Code", "Homepage"} {
		for key, value := range projectURLs {
			if !strings.EqualFold(key, label) {
				continue
			}
			if s, ok := value.(string); ok && s != "" {
				return s
			}
		}
	}
	return homepage
}

func splitKeywords(raw string) []string {
	var keywords []string
	for _, kw := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func latestUpload(files []pypiFileInfo) *time.Time {
	var latest *time.Time
	for _, f := range files {
		ts, err := time.Parse(time.RFC3339, f.UploadTime)
		if err != nil {
			continue
		}
		if latest == nil || ts.After(*latest) {
			t := ts
			latest = &t
		}
	}
	return latest
}

var _ ports.MetadataStore = (*PyPIClient)(nil)
var _ ports.ReleaseSource = (*PyPIClient)(nil)

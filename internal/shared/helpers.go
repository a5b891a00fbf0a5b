// Package shared provides common utility functions used across multiple
// packages in the pypkg codebase.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	separatorRuns = regexp.MustCompile(`[-_.]+`)

	// PEP 440 development segment, e.g. 1.0.dev3 or 1.0.post1.dev2.
	devSegment = regexp.MustCompile(`[._-]?dev\d*$`)

	// PEP 440 pre-release segment after the release digits, including
	// the spelled-out alpha/beta/preview forms and optional trailing
	// post/dev segments: 1.0a1, 2.0.0rc1, 1.0-beta.2, 1.0a1.post2.
	preSegment = regexp.MustCompile(`\d[._-]?(a|b|c|rc|alpha|beta|pre|preview)[._-]?\d*(\.post\d+)?([._-]?dev\d*)?$`)
)

// NormalizePipName lowercases a Python package name and collapses runs
// of underscores, dots and hyphens into a single hyphen, following
// PEP 503 normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	return separatorRuns.ReplaceAllString(lower, "-")
}

// IsPreRelease reports whether a version string carries a prerelease or
// development tag. Post releases and local version labels on a final
// release do not count.
func IsPreRelease(version string) bool {
	v := strings.ToLower(strings.TrimSpace(version))
	// Strip the local version label so "1.0+dev-build" is not mistaken
	// for a dev release.
	if i := strings.Index(v, "+"); i >= 0 {
		v = v[:i]
	}
	return devSegment.MatchString(v) || preSegment.MatchString(v)
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

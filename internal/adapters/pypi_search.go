package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"pypkg/internal/ports"
)

// PyPISearch scrapes the index search page. The JSON API has no search
// endpoint, so matching project names are pulled from the result
// snippets of the HTML page.
type PyPISearch struct {
	searchURL  string
	httpClient *http.Client
}

func NewPyPISearch(searchURL string, timeout time.Duration) *PyPISearch {
	if searchURL == "" {
		searchURL = "https://pypi.org/search/"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PyPISearch{
		searchURL:  searchURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var projectHref = regexp.MustCompile(`/project/([^/]+)/?`)

func (s *PyPISearch) Search(ctx context.Context, query string, limit int) ([]string, error) {
	endpoint := s.searchURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to build search request").
			WithCause(err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("package index search unreachable").
			WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg(fmt.Sprintf("package index search returned %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse search results").
			WithCause(err)
	}

	var names []string
	seen := make(map[string]bool)
	doc.Find("a.package-snippet").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		match := projectHref.FindStringSubmatch(href)
		if match == nil || seen[match[1]] {
			return true
		}
		seen[match[1]] = true
		names = append(names, match[1])
		return limit <= 0 || len(names) < limit
	})
	return names, nil
}

var _ ports.SearchProvider = (*PyPISearch)(nil)

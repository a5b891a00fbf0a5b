package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSearchHTML = `<html><body>
<a class="package-snippet" href="/project/requests/">
  <span class="package-snippet__name">requests</span>
</a>
<a class="package-snippet" href="/project/requests-toolbelt/">
  <span class="package-snippet__name">requests-toolbelt</span>
</a>
<a class="package-snippet" href="/project/requests/">duplicate</a>
<a class="package-snippet">no href</a>
<a href="/unrelated/">unrelated link</a>
</body></html>`

func newTestSearch(t *testing.T, handler http.HandlerFunc) *PyPISearch {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewPyPISearch(server.URL, 5*time.Second)
}

func TestPyPISearch(t *testing.T) {
	var query string
	search := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(sampleSearchHTML))
	})

	names, err := search.Search(context.Background(), "requests", 10)
	require.NoError(t, err)
	assert.Equal(t, "requests", query)
	assert.Equal(t, []string{"requests", "requests-toolbelt"}, names)
}

func TestPyPISearchHonorsLimit(t *testing.T) {
	search := newTestSearch(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleSearchHTML))
	})

	names, err := search.Search(context.Background(), "requests", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"requests"}, names)
}

func TestPyPISearchToleratesShapeDrift(t *testing.T) {
	// The search page is not a stable contract; markup without the
	// expected snippets yields no hits, not an error.
	search := newTestSearch(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>totally different page</p></body></html>"))
	})

	names, err := search.Search(context.Background(), "requests", 10)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPyPISearchServerFailure(t *testing.T) {
	search := newTestSearch(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := search.Search(context.Background(), "requests", 10)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeUnavailable, errbuilder.CodeOf(err))
}

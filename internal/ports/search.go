package ports

import "context"

// SearchProvider returns candidate package names for a free-text
// query. The underlying surface is advisory and its markup is not
// contractually stable; implementations tolerate shape drift by
// returning fewer names, never by failing the whole call.
type SearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

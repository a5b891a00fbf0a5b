package ports

import (
	"context"

	"pypkg/internal/types"
)

// MetadataStore answers package metadata queries for one trust domain.
// Implementations exist for the local installation and for the remote
// index; the resolver selects between them by policy. Lookup takes a
// PEP 503 normalized name and returns a NotFound-coded error for an
// authoritative miss.
type MetadataStore interface {
	Lookup(ctx context.Context, name string) (*types.PackageInfo, error)
}

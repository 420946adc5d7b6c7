// Package pricelist retrieves versioned AWS price-list offer documents:
// the version index and, per version, the raw product records the folding
// core consumes.
package pricelist

import (
	"context"

	"github.com/yairfalse/kalusto/pkg/types"
)

// VersionSource is the retrieval boundary the collection pipeline folds
// over. Implementations must return versions oldest first; the folder's
// last-write-wins contract depends on it.
type VersionSource interface {
	// ListVersions returns available offer versions, oldest first.
	ListVersions(ctx context.Context) ([]string, error)

	// FetchProducts returns the raw product records published under one
	// offer version.
	FetchProducts(ctx context.Context, version string) ([]types.RawProduct, error)
}

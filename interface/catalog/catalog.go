package catalog

import (
	"context"

	"github.com/airbusgeo/emit-ingester/catalog/entities"
)

// GranulesProvider searches the granules of a collection
type GranulesProvider interface {
	// SearchGranules returns the granules intersecting query.BBox between query.StartTime and query.EndTime, in catalog order
	SearchGranules(ctx context.Context, query entities.GranuleQuery) (entities.Granules, error)
}

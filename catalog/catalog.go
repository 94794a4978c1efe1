package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/interface/catalog"
	"github.com/airbusgeo/emit-ingester/service/log"
)

var (
	DefaultStartTime = time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	DefaultEndTime   = time.Date(2024, 10, 31, 23, 59, 59, 0, time.UTC)
)

// Catalog is the main class of this package
type Catalog struct {
	Provider  catalog.GranulesProvider
	StartTime time.Time
	EndTime   time.Time
}

// GranulesInventory makes an inventory of all the granules of the product covering the region between StartTime and EndTime
func (c *Catalog) GranulesInventory(ctx context.Context, region *entities.Region, product common.Product) (entities.Granules, error) {
	if c.Provider == nil {
		return nil, fmt.Errorf("GranulesInventory: no catalog is configured")
	}
	query := entities.GranuleQuery{
		ShortName: product.ShortName,
		BBox:      region.BBox,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
	}
	if query.StartTime.IsZero() {
		query.StartTime = DefaultStartTime
	}
	if query.EndTime.IsZero() {
		query.EndTime = DefaultEndTime
	}
	if query.EndTime.Before(query.StartTime) {
		return nil, fmt.Errorf("GranulesInventory: end date %s is before start date %s", query.EndTime, query.StartTime)
	}
	granules, err := c.Provider.SearchGranules(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("GranulesInventory.%w", err)
	}
	log.Logger(ctx).Sugar().Debugf("%d granules of %s found in %s", len(granules), product.ShortName, region.BBox.WKT())
	return granules, nil
}

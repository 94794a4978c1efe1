package workflow

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/airbusgeo/emit-ingester/catalog"
	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/downloader"
	"github.com/airbusgeo/emit-ingester/service"
	"github.com/airbusgeo/emit-ingester/service/log"
	"go.uber.org/zap"
)

// CompletionMessage is logged when all the downloads are done
const CompletionMessage = "All downloads completed."

// Workflow searches the pairs of granules of each region and downloads them
type Workflow struct {
	catalog    *catalog.Catalog
	downloader *downloader.Downloader
	pool       *downloader.Pool

	L2ADir string
	L2BDir string
	RuleA  entities.LinkRule
	RuleB  entities.LinkRule

	report *Report
}

func NewWorkflow(c *catalog.Catalog, d *downloader.Downloader, pool *downloader.Pool, l2aDir, l2bDir string) *Workflow {
	return &Workflow{
		catalog:    c,
		downloader: d,
		pool:       pool,
		L2ADir:     l2aDir,
		L2BDir:     l2bDir,
		RuleA:      entities.L2ARFLRule,
		RuleB:      entities.L2BCH4PLMRule,
		report:     NewReport(),
	}
}

// Report returns the live report of the workflow
func (wf *Workflow) Report() *Report {
	return wf.report
}

// Run processes all the regions found in regionsPath one after the other, then waits for all the downloads.
// Only fatal errors are returned: region and download failures are logged and skipped.
func (wf *Workflow) Run(ctx context.Context, regionsPath string) error {
	files, err := catalog.DiscoverRegions(regionsPath)
	if err != nil {
		return service.MakeFatal(fmt.Errorf("Run.%w", err))
	}
	for _, dir := range []string{wf.L2ADir, wf.L2BDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return service.MakeFatal(fmt.Errorf("Run.MkdirAll: %w", err))
		}
	}
	log.Logger(ctx).Sugar().Infof("%d region files found in %s", len(files), regionsPath)

	for _, file := range files {
		if err := wf.ProcessRegion(ctx, file); err != nil {
			// Even on fatal error, the submitted downloads are completed
			wf.pool.Wait()
			return err
		}
	}

	if err := wf.pool.Wait(); err != nil {
		return fmt.Errorf("Run.Wait: %w", err)
	}
	log.Logger(ctx).Info(wf.report.Summary())
	log.Logger(ctx).Info(CompletionMessage)
	return nil
}

// ProcessRegion loads the region, searches both products, matches a pair and submits the downloads.
// A region that cannot be processed is skipped: only fatal errors are returned.
func (wf *Workflow) ProcessRegion(ctx context.Context, path string) error {
	region := &entities.Region{ID: catalog.RegionID(path), Path: path, State: common.RegionDISCOVERED}
	ctx = log.With(ctx, "region", region.ID)
	log.Logger(ctx).Sugar().Infof("processing %s", path)
	wf.report.SetRegion(region.ID, region.State)

	loaded, err := catalog.LoadRegion(path)
	if err != nil {
		log.Logger(ctx).Warn("unable to read region", zap.Error(err))
		wf.setState(ctx, region, common.RegionSKIPPED)
		return nil
	}
	region = loaded

	granulesA, err := wf.catalog.GranulesInventory(ctx, region, common.ProductL2ARFL)
	if err == nil {
		var granulesB entities.Granules
		if granulesB, err = wf.catalog.GranulesInventory(ctx, region, common.ProductL2BCH4PLM); err == nil {
			return wf.matchAndSubmit(ctx, region, granulesA, granulesB)
		}
	}
	if service.Fatal(err) {
		return fmt.Errorf("ProcessRegion[%s].%w", region.ID, err)
	}
	log.Logger(ctx).Warn("search failed", zap.Error(err))
	wf.setState(ctx, region, common.RegionSKIPPED)
	return nil
}

func (wf *Workflow) matchAndSubmit(ctx context.Context, region *entities.Region, granulesA, granulesB entities.Granules) error {
	wf.setState(ctx, region, common.RegionSEARCHED)
	if len(granulesA) == 0 || len(granulesB) == 0 {
		log.Logger(ctx).Sugar().Infof("no data found (%s: %d granules, %s: %d granules)",
			common.ProductL2ARFL.ShortName, len(granulesA), common.ProductL2BCH4PLM.ShortName, len(granulesB))
		wf.setState(ctx, region, common.RegionUNMATCHED)
		wf.setState(ctx, region, common.RegionSKIPPED)
		return nil
	}

	pair, ok := catalog.MatchPair(region.ID, granulesA, granulesB, wf.RuleA, wf.RuleB)
	if !ok {
		log.Logger(ctx).Sugar().Infof("no pair of granules sharing the same timestamp among %d/%d granules", len(granulesA), len(granulesB))
		wf.setState(ctx, region, common.RegionUNMATCHED)
		wf.setState(ctx, region, common.RegionSKIPPED)
		return nil
	}
	wf.setState(ctx, region, common.RegionMATCHED)
	log.Logger(ctx).Sugar().Infof("pair acquired on %s: %s / %s", pair.AcquisitionTime.Format(time.RFC3339), pair.URLA, pair.URLB)

	wf.submit(ctx, entities.DownloadTask{RegionID: region.ID, Product: common.ProductL2ARFL, URLs: []string{pair.URLA}, Dir: wf.L2ADir})
	wf.submit(ctx, entities.DownloadTask{RegionID: region.ID, Product: common.ProductL2BCH4PLM, URLs: []string{pair.URLB}, Dir: wf.L2BDir})
	wf.setState(ctx, region, common.RegionDOWNLOAD_SUBMITTED)
	return nil
}

func (wf *Workflow) submit(ctx context.Context, task entities.DownloadTask) {
	wf.report.AddSubmitted(len(task.URLs))
	wf.pool.Submit(ctx, func(ctx context.Context) {
		wf.report.AddResults(wf.downloader.ProcessTask(ctx, task))
	})
}

func (wf *Workflow) setState(ctx context.Context, region *entities.Region, state common.RegionState) {
	if region.State.Final() {
		log.Logger(ctx).Sugar().Warnf("region already %s, ignoring transition to %s", region.State, state)
		return
	}
	log.Logger(ctx).Sugar().Debugf("%s -> %s", region.State, state)
	region.State = state
	wf.report.SetRegion(region.ID, state)
}

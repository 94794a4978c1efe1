package downloader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/interface/provider"
	"github.com/airbusgeo/emit-ingester/service"
	"github.com/airbusgeo/emit-ingester/service/log"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout is the maximum duration of the download of one file
const DefaultTimeout = 1200 * time.Second

// Result is the outcome of the download of one url
type Result struct {
	RegionID  string                `json:"region_id"`
	URL       string                `json:"url"`
	LocalFile string                `json:"local_file"`
	Status    common.DownloadStatus `json:"status"`
	Exported  bool                  `json:"exported"`
	Err       error                 `json:"-"`
}

// Downloader downloads the urls of the tasks with the first successful provider
type Downloader struct {
	Providers []provider.FileProvider
	Timeout   time.Duration     // Per file. DefaultTimeout if zero
	Exporter  *service.Exporter // Optional
}

// ProcessTask downloads every url of the task in task.Dir, one after the other.
// A failure only affects its own url.
func (d *Downloader) ProcessTask(ctx context.Context, task entities.DownloadTask) []Result {
	ctx = log.With(ctx, "region", task.RegionID)
	results := make([]Result, 0, len(task.URLs))
	for _, url := range task.URLs {
		res := d.downloadFile(ctx, task, url)
		switch res.Status {
		case common.StatusSKIPPED:
			log.Logger(ctx).Sugar().Infof("file %s already exists, skipping download", res.LocalFile)
		case common.StatusDONE:
			log.Logger(ctx).Sugar().Infof("downloaded %s to %s", url, res.LocalFile)
		default:
			log.Logger(ctx).Warn("download "+res.Status.String(), zap.String("url", url), zap.Error(res.Err))
		}
		if d.Exporter != nil && res.Status.Success() {
			res.Exported = d.export(ctx, task, res.LocalFile)
		}
		results = append(results, res)
	}
	return results
}

func (d *Downloader) downloadFile(ctx context.Context, task entities.DownloadTask, url string) Result {
	res := Result{RegionID: task.RegionID, URL: url, Status: common.StatusFAILED}
	name, err := common.DestinationName(task.RegionID, url)
	if err != nil {
		res.Err = fmt.Errorf("downloadFile.%w", err)
		return res
	}
	localFile := filepath.Join(task.Dir, name)
	res.LocalFile = localFile

	exists, err := service.FileExists(localFile)
	if err != nil {
		res.Err = fmt.Errorf("downloadFile.%w", err)
		return res
	}
	if exists {
		res.Status = common.StatusSKIPPED
		return res
	}
	if len(d.Providers) == 0 {
		res.Err = fmt.Errorf("downloadFile: no provider is configured")
		return res
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The file is written next to its destination, then renamed
	tmpFile := filepath.Join(task.Dir, "."+filepath.Base(localFile)+"."+uuid.New().String()+".part")
	log.Logger(ctx).Sugar().Infof("downloading %s to %s", url, localFile)
	for _, p := range d.Providers {
		e := p.Download(dctx, url, tmpFile)
		if err = service.MergeErrors(false, err, e); err == nil {
			break
		}
		removePartial(ctx, tmpFile)
		if dctx.Err() != nil {
			break
		}
		log.Logger(ctx).Sugar().Debugf("%s: %v", p.Name(), e)
	}
	if err == nil {
		if err = os.Rename(tmpFile, localFile); err != nil {
			removePartial(ctx, tmpFile)
		}
	}

	switch {
	case err == nil:
		res.Status = common.StatusDONE
	case errors.Is(dctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		res.Status = common.StatusTIMEOUT
		res.Err = fmt.Errorf("downloadFile[%s]: %w after %s: %v", url, service.ErrTimeout, timeout, err)
	default:
		res.Err = fmt.Errorf("downloadFile[%s].%w", url, err)
	}
	return res
}

func removePartial(ctx context.Context, file string) {
	if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Logger(ctx).Sugar().Warnf("unable to remove partial file %s: %v", file, err)
	}
}

func (d *Downloader) export(ctx context.Context, task entities.DownloadTask, localFile string) bool {
	key := d.Exporter.Key(task.Product.Dir, filepath.Base(localFile))
	uploaded, err := d.Exporter.Export(ctx, localFile, key)
	if err != nil {
		log.Logger(ctx).Warn("export failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if uploaded {
		log.Logger(ctx).Sugar().Debugf("exported %s to %s", localFile, key)
	}
	return uploaded
}

package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/common"
)

func TestPoolBoundedConcurrency(t *testing.T) {
	p := NewPool(3)
	if p.Size() != 3 {
		t.Errorf("unexpected size %d", p.Size())
	}
	var running, maxRunning, done int32
	for i := 0; i < 20; i++ {
		p.Submit(context.Background(), func(ctx context.Context) {
			n := atomic.AddInt32(&running, 1)
			for {
				m := atomic.LoadInt32(&maxRunning)
				if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&done, 1)
		})
	}
	if err := p.Wait(); err != nil {
		t.Fatal(err)
	}
	if done != 20 {
		t.Errorf("expected 20 tasks, got %d", done)
	}
	if maxRunning > 3 {
		t.Errorf("expected at most 3 concurrent tasks, got %d", maxRunning)
	}
}

func TestPoolDefaultSize(t *testing.T) {
	if NewPool(0).Size() != DefaultWorkers {
		t.Errorf("expected %d workers", DefaultWorkers)
	}
}

func TestPoolDownloads(t *testing.T) {
	s := newDataServer()
	defer s.Close()
	dir := t.TempDir()
	d := newDownloader(s, time.Minute)
	p := NewPool(4)

	n := 12
	for i := n - 1; i >= 0; i-- {
		task := entities.DownloadTask{
			RegionID: fmt.Sprintf("region%02d", i),
			Product:  common.ProductL2ARFL,
			URLs:     []string{s.URL + fileA},
			Dir:      dir,
		}
		p.Submit(context.Background(), func(ctx context.Context) {
			d.ProcessTask(ctx, task)
		})
	}
	if err := p.Wait(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if _, err := os.Stat(filepath.Join(dir, fmt.Sprintf("region%02d_EMIT_L2A_RFL_001_20231015T171530_2328811_004.nc", i))); err != nil {
			t.Errorf("missing file: %v", err)
		}
	}
	if names := listDir(t, dir); len(names) != n {
		t.Errorf("expected %d files, got %d", n, len(names))
	}
}

package downloader

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the default size of a Pool
const DefaultWorkers = 8

// Pool runs the submitted tasks with at most Size tasks at a time.
// Submit never blocks the caller. Wait is the barrier of the batch.
type Pool struct {
	size  int
	group errgroup.Group
	sem   *semaphore.Weighted
}

// NewPool creates a pool of size workers (DefaultWorkers if size <= 0)
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultWorkers
	}
	return &Pool{size: size, sem: semaphore.NewWeighted(int64(size))}
}

// Size returns the maximum number of concurrent tasks
func (p *Pool) Size() int {
	return p.size
}

// Submit schedules the task. It starts as soon as a worker is free.
// The task is dropped if ctx is done before a worker is available.
func (p *Pool) Submit(ctx context.Context, task func(ctx context.Context)) {
	p.group.Go(func() error {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer p.sem.Release(1)
		task(ctx)
		return nil
	})
}

// Wait blocks until all the submitted tasks are done
func (p *Pool) Wait() error {
	return p.group.Wait()
}

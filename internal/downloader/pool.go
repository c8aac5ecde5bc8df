package downloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"listingscraper/pkg/logger"
	"listingscraper/pkg/models"
	"listingscraper/pkg/retry"
	"listingscraper/pkg/storage"
)

// ErrCancelled marks tasks stopped by the cancellation token or context
var ErrCancelled = errors.New("download cancelled")

// PhotoFetcher retrieves one candidate URL in a single attempt
type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, url string) ([]byte, error)
}

// Options tune a WorkerPool
type Options struct {
	Workers         int
	MinContentBytes int64
	PolitenessDelay time.Duration
}

// WorkerPool downloads photos with a fixed number of workers. Each task walks
// its candidates in order until one yields a large enough 200 response.
type WorkerPool struct {
	numWorkers int
	minBytes   int64
	politeness retry.BackoffStrategy
	fetcher    PhotoFetcher
	logger     logger.Logger
}

// NewWorkerPool creates a pool; a non-positive worker count means one worker
func NewWorkerPool(opts Options, fetcher PhotoFetcher, log logger.Logger) *WorkerPool {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &WorkerPool{
		numWorkers: opts.Workers,
		minBytes:   opts.MinContentBytes,
		politeness: &retry.ConstantBackoff{Delay: opts.PolitenessDelay},
		fetcher:    fetcher,
		logger:     log,
	}
}

type job struct {
	index int
	task  models.DownloadTask
}

type result struct {
	index   int
	outcome models.DownloadOutcome
}

// Run processes tasks and blocks until every dispatched task has finished.
// Setting token stops new tasks and new candidates while in-flight requests
// complete; cancelling ctx aborts in-flight requests too. progress may be nil
// and is called from a single goroutine with a monotonic completed count.
// Outcomes are returned in task order.
func (wp *WorkerPool) Run(ctx context.Context, tasks []models.DownloadTask, token *models.CancellationToken, progress models.ProgressReporter) (models.RunSummary, []models.DownloadOutcome) {
	start := time.Now()
	if token == nil {
		token = models.NewCancellationToken()
	}

	outcomes := make([]models.DownloadOutcome, len(tasks))
	for i, t := range tasks {
		outcomes[i] = models.DownloadOutcome{Descriptor: t.Descriptor, Err: ErrCancelled}
	}

	workers := wp.numWorkers
	if workers > len(tasks) {
		workers = len(tasks)
	}
	logger.LogComponentStart(wp.logger, "worker_pool", map[string]interface{}{
		"workers": workers,
		"tasks":   len(tasks),
	})

	jobQueue := make(chan job)
	resultQueue := make(chan result, workers+1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobQueue)
		for i, t := range tasks {
			if token.Cancelled() {
				return nil
			}
			select {
			case jobQueue <- job{index: i, task: t}:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		workerID := w
		g.Go(func() error {
			for j := range jobQueue {
				outcome := wp.processTask(gctx, j.task, token, workerID)
				resultQueue <- result{index: j.index, outcome: outcome}
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(resultQueue)
	}()

	summary := models.RunSummary{Total: len(tasks)}
	completed := 0
	for r := range resultQueue {
		outcomes[r.index] = r.outcome
		summary.NetworkAttempts += r.outcome.Attempts

		cancelled := errors.Is(r.outcome.Err, ErrCancelled)
		logger.LogDownload(wp.logger, r.outcome.Descriptor.FileStem(), r.outcome.ChosenVariant, r.outcome.Skipped, r.outcome.Err)
		if cancelled {
			continue
		}

		completed++
		if progress != nil {
			progress.OnProgress(completed, len(tasks))
		}
	}

	for _, o := range outcomes {
		switch {
		case o.Succeeded:
			summary.Succeeded++
		case !errors.Is(o.Err, ErrCancelled):
			summary.Failed++
		}
	}
	summary.Cancelled = token.Cancelled() || ctx.Err() != nil
	summary.Duration = time.Since(start)

	logger.LogComponentStop(wp.logger, "worker_pool", fmt.Sprintf("%d of %d succeeded", summary.Succeeded, summary.Total))
	return summary, outcomes
}

// processTask tries the candidates of one task in order
func (wp *WorkerPool) processTask(ctx context.Context, task models.DownloadTask, token *models.CancellationToken, workerID int) models.DownloadOutcome {
	outcome := models.DownloadOutcome{Descriptor: task.Descriptor}

	if token.Cancelled() || ctx.Err() != nil {
		outcome.Err = ErrCancelled
		return outcome
	}

	store, err := storage.NewManager(task.Dir)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	// any variant already on disk counts as done, without touching the network
	for _, c := range task.Candidates {
		if store.Exists(storage.PhotoFileName(task.Descriptor, c.Ext)) {
			outcome.Succeeded = true
			outcome.Skipped = true
			outcome.ChosenVariant = c.Ext
			return outcome
		}
	}

	var lastErr error
	for i, c := range task.Candidates {
		if i > 0 {
			if err := retry.Wait(ctx, wp.politeness.NextDelay(i)); err != nil {
				outcome.Err = fmt.Errorf("%w: %v", ErrCancelled, err)
				return outcome
			}
		}
		if token.Cancelled() || ctx.Err() != nil {
			outcome.Err = ErrCancelled
			return outcome
		}

		outcome.Attempts++
		data, err := wp.fetcher.FetchPhoto(ctx, c.URL)
		if err != nil {
			lastErr = err
			wp.logger.DebugWithFields("Candidate failed", map[string]interface{}{
				"worker_id": workerID,
				"url":       c.URL,
				"error":     err.Error(),
			})
			continue
		}
		if int64(len(data)) < wp.minBytes {
			lastErr = fmt.Errorf("response from %s too small: %d bytes", c.URL, len(data))
			wp.logger.DebugWithFields("Candidate too small", map[string]interface{}{
				"worker_id": workerID,
				"url":       c.URL,
				"bytes":     len(data),
			})
			continue
		}

		n, err := store.Save(storage.PhotoFileName(task.Descriptor, c.Ext), data)
		if err != nil {
			outcome.Err = err
			return outcome
		}

		outcome.Succeeded = true
		outcome.BytesWritten = n
		outcome.ChosenVariant = c.Ext
		return outcome
	}

	if ctx.Err() != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		return outcome
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate URLs")
	}
	outcome.Err = fmt.Errorf("all %d candidates failed: %w", len(task.Candidates), lastErr)
	return outcome
}

package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/observability"
	"github.com/vikiman365/scraper/internal/types"
)

// Fetcher retrieves page content for a crawl task.
type Fetcher interface {
	Fetch(ctx context.Context, task *types.CrawlTask) (*types.Page, error)
	Close() error
}

// Router routes a fetched page to the matching page handler.
type Router interface {
	Route(task *types.CrawlTask, page *types.Page) error
}

// Runner drives the crawl: a bounded worker pool drains the frontier,
// fetches each task, and hands pages to the router. Retryable fetch
// failures are re-queued up to the retry limit; terminal failures
// become ErrorRecords and never abort the crawl.
type Runner struct {
	frontier *Frontier
	fetcher  Fetcher
	router   Router
	errs     *collect.Collection[*types.ErrorRecord]
	metrics  *observability.Metrics
	logger   *slog.Logger

	concurrency    int
	requestTimeout time.Duration
	maxRetries     int
	delay          time.Duration

	idleWorkers atomic.Int32
	wg          sync.WaitGroup
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Concurrency    int
	RequestTimeout time.Duration
	MaxRetries     int
	Delay          time.Duration
}

// NewRunner creates a Runner over the given frontier.
func NewRunner(frontier *Frontier, fetcher Fetcher, router Router, errs *collect.Collection[*types.ErrorRecord], metrics *observability.Metrics, logger *slog.Logger, opts RunnerOptions) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Runner{
		frontier:       frontier,
		fetcher:        fetcher,
		router:         router,
		errs:           errs,
		metrics:        metrics,
		logger:         logger.With("component", "runner"),
		concurrency:    opts.Concurrency,
		requestTimeout: opts.RequestTimeout,
		maxRetries:     opts.MaxRetries,
		delay:          opts.Delay,
	}
}

// Run blocks until the frontier drains or ctx is cancelled. In-flight
// handler invocations always run to completion; they are short,
// CPU-bound text operations.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("starting worker pool", "workers", r.concurrency)

	monitorDone := make(chan struct{})
	go r.idleMonitor(ctx, monitorDone)

	for i := 0; i < r.concurrency; i++ {
		r.wg.Add(1)
		go r.worker(ctx, i)
	}

	r.wg.Wait()
	close(monitorDone)
	r.logger.Info("crawl drained",
		"seen_urls", r.frontier.SeenCount(),
		"errors", r.errs.Count(),
	)
}

// idleMonitor closes the frontier once all workers have been idle over
// an empty queue for a sustained period, which unblocks the pool.
func (r *Runner) idleMonitor(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	idleStreak := 0

	for {
		select {
		case <-ctx.Done():
			r.frontier.Close()
			return
		case <-done:
			return
		case <-ticker.C:
			idle := int(r.idleWorkers.Load())
			if idle >= r.concurrency && r.frontier.IsDrained() {
				idleStreak++
				// Three consecutive idle checks (~600ms) confirm completion.
				if idleStreak >= 3 {
					r.logger.Info("all workers idle, frontier empty")
					r.frontier.Close()
					return
				}
			} else {
				idleStreak = 0
			}
		}
	}
}

// worker is a single crawl worker goroutine.
func (r *Runner) worker(ctx context.Context, id int) {
	defer r.wg.Done()
	logger := r.logger.With("worker_id", id)

	for {
		r.idleWorkers.Add(1)

		var task *types.CrawlTask
		for {
			task = r.frontier.Dequeue()
			if task != nil {
				break
			}
			if r.frontier.IsClosed() {
				r.idleWorkers.Add(-1)
				return
			}
			select {
			case <-ctx.Done():
				r.idleWorkers.Add(-1)
				return
			case <-time.After(50 * time.Millisecond):
			}
		}

		r.idleWorkers.Add(-1)

		if r.delay > 0 {
			time.Sleep(r.delay)
		}

		r.processTask(ctx, logger, task)
	}
}

// processTask fetches one task and routes the page.
func (r *Runner) processTask(ctx context.Context, logger *slog.Logger, task *types.CrawlTask) {
	logger = logger.With("url", task.URLString(), "label", task.Label.String(), "depth", task.Depth)

	fetchCtx, cancel := context.WithTimeout(ctx, r.requestTimeout)
	defer cancel()

	start := time.Now()
	page, err := r.fetcher.Fetch(fetchCtx, task)
	r.metrics.ObserveFetch(time.Since(start))

	if err != nil {
		r.handleFetchError(logger, task, err)
		return
	}

	if err := r.router.Route(task, page); err != nil {
		// Handler errors are absorbed: sparse records, not a failed crawl.
		logger.Warn("handler error", "error", err)
	}
}

// handleFetchError re-queues retryable failures and records terminal
// ones to the error collection.
func (r *Runner) handleFetchError(logger *slog.Logger, task *types.CrawlTask, err error) {
	var fetchErr *types.FetchError
	if errors.As(err, &fetchErr) && fetchErr.IsRetryable() && task.RetryCount < r.maxRetries {
		task.RetryCount++
		logger.Warn("retrying task",
			"retry", task.RetryCount,
			"max_retries", r.maxRetries,
			"error", err,
		)
		if fetchErr.RetryAfter > 0 {
			time.Sleep(fetchErr.RetryAfter)
		}
		r.frontier.Requeue(task)
		return
	}

	r.metrics.IncFetchError()
	r.errs.Push(types.NewErrorRecord(task.URLString(), err))
	logger.Error("fetch failed permanently", "error", err, "retries", task.RetryCount)
}

// Package worker runs the market fetch workers that drain the fetch queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.FetchJob

// Fetcher retrieves the quotes for one linked event.
type Fetcher interface {
	Fetch(ctx context.Context, job Job) ([]model.MarketQuote, error)
}

// Collector receives every fetch outcome, failed ones included.
type Collector interface {
	Collect(ctx context.Context, res model.FetchResult)
}

// CollectorFunc adapts a function to Collector.
type CollectorFunc func(ctx context.Context, res model.FetchResult)

// Collect calls f.
func (f CollectorFunc) Collect(ctx context.Context, res model.FetchResult) { f(ctx, res) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until the queue drains or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for fetch jobs.
type InMemoryWorker struct {
	queue     Queue
	fetcher   Fetcher
	collector Collector
	name      string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, fetcher Fetcher, collector Collector, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		fetcher:   fetcher,
		collector: collector,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job Job) {
	start := time.Now()
	quotes, err := w.fetcher.Fetch(ctx, job)
	latency := float64(time.Since(start).Milliseconds())

	if err != nil {
		metrics.RecordOddsFetch("worker", "error", latency)
		metrics.RecordWorkerFailure()
		metrics.RecordErrorByComponent("worker", "fetch_error")
		w.logger.Warn(ctx, "odds fetch failed",
			logger.String("game_id", job.GameID),
			logger.String("event_id", job.EventID),
			logger.Error(err),
		)
	} else {
		metrics.RecordOddsFetch("worker", "ok", latency)
		w.logger.Debug(ctx, "odds fetched",
			logger.String("event_id", job.EventID),
			logger.Int("quotes", len(quotes)),
		)
	}

	w.collector.Collect(ctx, model.FetchResult{Job: job, Quotes: quotes, Err: err})
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	wg      sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a new worker pool. A count below one sizes the pool from
// the number of CPUs.
func NewPool(workerCount int, queue Queue, fetcher Fetcher, collector Collector) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			fetcher,
			collector,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkersActive(len(p.workers))
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained or ctx is cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
	metrics.UpdateWorkersActive(0)
}

// Shutdown closes the queue and stops every worker.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	metrics.UpdateWorkersActive(0)
	return firstErr
}

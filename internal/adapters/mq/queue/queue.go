// Package queue buffers market fetch jobs between the pipeline and the
// fetch workers.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 64
)

// Job is the payload type flowing through the queue.
type Job = model.FetchJob

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It fails with ErrQueueFull when at capacity and
	// with ErrQueueClosed after Close.
	Enqueue(ctx context.Context, j Job) error

	// Dequeue returns a channel that receives jobs as they become available.
	// The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Close stops intake. Queued jobs are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueError("closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueError("context_cancelled")
		return fmt.Errorf("enqueue %s: %w", j.EventID, err)
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.jobs))
		return nil
	default:
		metrics.RecordQueueError("queue_full")
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return ErrQueueFull
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.jobs))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.jobs)
}

// Close stops intake and lets consumers drain what is left.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/mq/queue"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/mq/worker"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	logging "github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(logging.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type mockQueue struct {
	jobs chan model.FetchJob
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan model.FetchJob, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan model.FetchJob { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

type mockFetcher struct {
	mu     sync.Mutex
	quotes map[string][]model.MarketQuote
	errs   map[string]error
	calls  int
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		quotes: make(map[string][]model.MarketQuote),
		errs:   make(map[string]error),
	}
}

func (mf *mockFetcher) Fetch(ctx context.Context, job model.FetchJob) ([]model.MarketQuote, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	mf.calls++
	if err, ok := mf.errs[job.EventID]; ok {
		return nil, err
	}
	return mf.quotes[job.EventID], nil
}

type mockCollector struct {
	mu      sync.Mutex
	results map[string]model.FetchResult
}

func newMockCollector() *mockCollector {
	return &mockCollector{results: make(map[string]model.FetchResult)}
}

func (mc *mockCollector) Collect(ctx context.Context, res model.FetchResult) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.results[res.Job.EventID] = res
}

func (mc *mockCollector) get(id string) (model.FetchResult, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	r, ok := mc.results[id]
	return r, ok
}

func (mc *mockCollector) len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.results)
}

func TestInMemoryWorker(t *testing.T) {
	Convey("Given a worker with a fetcher and a collector", t, func() {
		q := newMockQueue()
		fetcher := newMockFetcher()
		collector := newMockCollector()
		w := worker.NewInMemoryWorker(q, fetcher, collector,
			worker.WithName("test-worker"),
			worker.WithLogger(logging.Nop()),
		)

		fetcher.quotes["evt1"] = []model.MarketQuote{
			{Bookmaker: "FanDuel", Market: "player_1st_td", Player: "Travis Kelce", Price: 700},
		}
		fetcher.errs["evt2"] = errors.New("upstream 500")

		Convey("When jobs are processed and the queue closes", func() {
			q.jobs <- model.FetchJob{GameID: "g1", EventID: "evt1"}
			q.jobs <- model.FetchJob{GameID: "g2", EventID: "evt2"}
			_ = q.Close()

			w.Run(context.Background())

			Convey("Then each outcome reaches the collector", func() {
				So(collector.len(), ShouldEqual, 2)

				ok1, _ := collector.get("evt1")
				So(ok1.Err, ShouldBeNil)
				So(ok1.Job.GameID, ShouldEqual, "g1")
				So(len(ok1.Quotes), ShouldEqual, 1)

				failed, _ := collector.get("evt2")
				So(failed.Err, ShouldNotBeNil)
				So(failed.Quotes, ShouldBeEmpty)
			})

			Convey("Then the worker reports done", func() {
				select {
				case <-w.Done():
				default:
					t.Error("worker did not close done")
				}
			})
		})

		Convey("When shut down while idle", func() {
			go w.Run(context.Background())
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			So(w.Shutdown(ctx), ShouldBeNil)
			So(w.Shutdown(ctx), ShouldBeNil)
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			w.Run(ctx)
			So(fetcher.calls, ShouldEqual, 0)
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(50))
		fetcher := newMockFetcher()
		collector := newMockCollector()
		pool := worker.NewPool(4, q, fetcher, collector)
		So(pool.Size(), ShouldEqual, 4)

		ctx := context.Background()
		for i := 0; i < 20; i++ {
			So(q.Enqueue(ctx, model.FetchJob{GameID: fmt.Sprintf("g%d", i), EventID: fmt.Sprintf("e%d", i)}), ShouldBeNil)
		}

		Convey("When started and the queue is closed", func() {
			pool.Start(ctx)
			So(q.Close(), ShouldBeNil)
			pool.Wait()

			Convey("Then every job is fetched exactly once", func() {
				So(collector.len(), ShouldEqual, 20)
				So(fetcher.calls, ShouldEqual, 20)
			})
		})

		Convey("When shut down", func() {
			pool.Start(ctx)
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			So(pool.Shutdown(shutdownCtx), ShouldBeNil)
			err := q.Enqueue(ctx, model.FetchJob{GameID: "late", EventID: "late"})
			So(errors.Is(err, queue.ErrQueueClosed), ShouldBeTrue)
		})
	})

	Convey("Given a non-positive worker count", t, func() {
		pool := worker.NewPool(0, newMockQueue(), newMockFetcher(), newMockCollector())
		So(pool.Size(), ShouldBeGreaterThan, 0)
	})
}

func TestCollectorFunc(t *testing.T) {
	Convey("Given a function collector", t, func() {
		var got model.FetchResult
		c := worker.CollectorFunc(func(ctx context.Context, res model.FetchResult) { got = res })
		c.Collect(context.Background(), model.FetchResult{Job: model.FetchJob{EventID: "x"}})
		So(got.Job.EventID, ShouldEqual, "x")
	})
}

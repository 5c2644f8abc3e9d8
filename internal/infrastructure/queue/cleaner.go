// Package queue runs background work off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	deleteTimeout  = 30 * time.Second
)

// Deleter removes a stored object by locator.
type Deleter interface {
	Delete(ctx context.Context, locator string) error
}

// Metrics are the collectors a Cleaner reports to. Nil fields are skipped.
type Metrics struct {
	Results *prometheus.CounterVec // labels: result
	Depth   *prometheus.GaugeVec   // labels: worker_id
}

// Cleaner deletes replaced objects on a fixed set of workers, sharded by
// locator so repeated deletes of one object run in order.
type Cleaner struct {
	workers []chan string
	store   Deleter
	metrics Metrics
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewCleaner creates a Cleaner with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleaner(numWorkers int, store Deleter, m Metrics, log zerolog.Logger) *Cleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	c := &Cleaner{
		workers: make([]chan string, numWorkers),
		store:   store,
		metrics: m,
		log:     log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan string, channelBuffer)
	}
	return c
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Wait blocks until they have.
func (c *Cleaner) Start(ctx context.Context) {
	for i, ch := range c.workers {
		c.wg.Add(1)
		go c.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (c *Cleaner) Wait() {
	c.wg.Wait()
}

// Enqueue schedules locator for deletion. It never blocks: when the worker's
// buffer is full the locator is dropped and logged.
func (c *Cleaner) Enqueue(locator string) {
	if locator == "" {
		return
	}
	idx := c.shardIndex(locator)
	select {
	case c.workers[idx] <- locator:
		c.setDepth(idx, len(c.workers[idx]))
	default:
		c.count("dropped")
		c.log.Warn().Str("locator", locator).Int("worker_id", idx).Msg("cleanup queue full, object left orphaned")
	}
}

// shardIndex maps a locator deterministically to a worker index.
func (c *Cleaner) shardIndex(locator string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(locator))
	return int(h.Sum32() % uint32(len(c.workers)))
}

func (c *Cleaner) runWorker(ctx context.Context, id int, ch chan string) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			c.drain(id, ch)
			return
		case locator := <-ch:
			c.setDepth(id, len(ch))
			c.delete(context.Background(), id, locator)
		}
	}
}

// drain deletes whatever is still buffered once shutdown has begun.
func (c *Cleaner) drain(id int, ch chan string) {
	for {
		select {
		case locator := <-ch:
			c.delete(context.Background(), id, locator)
		default:
			c.setDepth(id, 0)
			return
		}
	}
}

func (c *Cleaner) delete(ctx context.Context, id int, locator string) {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if err := c.store.Delete(ctx, locator); err != nil {
		c.count("failed")
		c.log.Error().Err(err).
			Str("locator", locator).
			Int("worker_id", id).
			Msg("object cleanup failed")
		return
	}
	c.count("deleted")
}

func (c *Cleaner) count(result string) {
	if c.metrics.Results != nil {
		c.metrics.Results.WithLabelValues(result).Inc()
	}
}

func (c *Cleaner) setDepth(id, n int) {
	if c.metrics.Depth != nil {
		c.metrics.Depth.WithLabelValues(strconv.Itoa(id)).Set(float64(n))
	}
}

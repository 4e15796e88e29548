// Package queue runs the activity log off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/ports"
	"github.com/sactel/admin-console/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// Dispatcher routes activity entries to a fixed set of workers using
// consistent hashing on the entity id, so entries about one room or invoice
// are recorded in the order they were enqueued.
type Dispatcher struct {
	workers []chan ports.ActivityInput
	service ports.ActivityService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ActivityInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ActivityInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and exit
// after Close; ctx only bounds the individual Process calls.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(len(d.workers))
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an entry to the worker responsible for its entity. It never
// blocks: when the worker's buffer is full, or after Close, the entry is
// dropped and counted.
func (d *Dispatcher) Enqueue(in ports.ActivityInput) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.ActivityErrorsTotal.WithLabelValues("dropped").Inc()
		return
	}

	idx := d.shardIndex(in.EntityID)
	select {
	case d.workers[idx] <- in:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityErrorsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("kind", string(in.Kind)).Str("entity", in.EntityID).Int("worker_id", idx).
			Msg("activity queue full, entry dropped")
	}
}

// Close stops accepting entries and waits for the workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ActivityInput) {
	defer d.wg.Done()
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))
	for in := range ch {
		depth.Set(float64(len(ch)))
		start := time.Now()
		if err := d.service.Process(ctx, in); err != nil {
			metrics.ActivityErrorsTotal.WithLabelValues("failed").Inc()
			d.log.Error().Err(err).
				Str("kind", string(in.Kind)).
				Str("entity", in.EntityID).
				Int("worker_id", id).
				Msg("activity processing failed")
			continue
		}
		metrics.ActivityProcessingDuration.Observe(time.Since(start).Seconds())
		metrics.ActivityProcessedTotal.WithLabelValues(string(in.Kind)).Inc()
	}
}

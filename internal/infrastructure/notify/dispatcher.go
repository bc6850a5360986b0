// Package notify contains the asynchronous notification pipeline: a sharded
// worker-pool dispatcher and the mail transport implementations.
package notify

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ilungi/gestora-api/internal/api/metrics"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes notifications to a fixed set of workers using consistent
// hashing on the recipient address, so mail for the same inbox is delivered in
// the order it was produced.
type Dispatcher struct {
	workers []chan ports.Notification
	service ports.EmailService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EmailService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notification to the worker responsible for its recipient.
// It never blocks: when the worker buffer is full the notification is dropped
// and counted, because delivery is best-effort and the triggering mutation has
// already committed.
func (d *Dispatcher) Enqueue(n ports.Notification) {
	idx := d.shardIndex(n.Recipient)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationsEnqueuedTotal.WithLabelValues(n.Kind).Inc()
		metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsDroppedTotal.Inc()
		d.log.Warn().
			Str("recipient", n.Recipient).
			Str("kind", n.Kind).
			Int("worker_id", idx).
			Msg("notification dropped, worker buffer full")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotifyQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.service.Process(ctx, n); err != nil {
				metrics.EmailsTotal.WithLabelValues(n.Kind, "failed").Inc()
				d.log.Error().Err(err).
					Str("recipient", n.Recipient).
					Str("kind", n.Kind).
					Int("worker_id", id).
					Msg("notification processing failed")
				continue
			}
			metrics.EmailsTotal.WithLabelValues(n.Kind, "sent").Inc()
		}
	}
}

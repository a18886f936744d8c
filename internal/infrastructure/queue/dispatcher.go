package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
	"github.com/streamshare/subscription-manager/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	recordTimeout  = 5 * time.Second
)

// Dispatcher writes audit events off the request path. Events are sharded by
// client (or account) so the history of one client is stored in order.
// Publish never blocks: when a worker's buffer is full the event is dropped.
type Dispatcher struct {
	workers []chan domain.AssignmentEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AssignmentEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AssignmentEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. When ctx is cancelled each worker stores what
// is already buffered and exits; Wait blocks until they are done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish implements ports.AuditPublisher.
func (d *Dispatcher) Publish(event domain.AssignmentEvent) {
	idx := d.shardIndex(shardKey(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("type", string(event.Type)).
			Str("assignment_id", event.AssignmentID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

func shardKey(event domain.AssignmentEvent) string {
	if event.ClientID != "" {
		return event.ClientID
	}
	return event.AccountID
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AssignmentEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(id, label, ch)
			return
		case event := <-ch:
			d.record(id, label, event, len(ch))
		}
	}
}

func (d *Dispatcher) drain(id int, label string, ch <-chan domain.AssignmentEvent) {
	for {
		select {
		case event := <-ch:
			d.record(id, label, event, len(ch))
		default:
			return
		}
	}
}

// record stores one event with its own deadline so shutdown does not cut
// writes that are already under way.
func (d *Dispatcher) record(id int, label string, event domain.AssignmentEvent, depth int) {
	metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(depth))

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := d.service.Record(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("assignment_id", event.AssignmentID).
			Int("worker_id", id).
			Msg("audit event not stored")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
}

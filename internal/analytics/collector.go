// Package analytics streams search and document events through Kafka and
// aggregates them into queryable usage statistics. The collector is
// fire-and-forget: a full buffer drops events rather than ever blocking a
// request, and a nil *Collector is a valid no-op so the server runs
// unchanged when Kafka is not configured.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/resilience"
)

// outbound pairs an event with the producer it goes out on. Search events
// and document mutation events ride separate topics.
type outbound struct {
	producer *kafka.Producer
	event    kafka.Event
}

// Collector buffers events and publishes them to Kafka from a background
// goroutine.
type Collector struct {
	searches  *kafka.Producer
	documents *kafka.Producer
	events    chan outbound
	logger    *slog.Logger
	wg        sync.WaitGroup
	closed    chan struct{}
}

// NewCollector creates a Collector publishing to the given producers and
// starts its publish loop.
func NewCollector(searches, documents *kafka.Producer, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	c := &Collector{
		searches:  searches,
		documents: documents,
		events:    make(chan outbound, bufferSize),
		logger:    slog.Default().With("component", "analytics-collector"),
		closed:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.publishLoop()
	return c
}

// TrackSearch enqueues a search event. Safe to call on a nil Collector.
func (c *Collector) TrackSearch(ev SearchEvent) {
	if c == nil {
		return
	}
	ev.Type = EventTypeSearch
	c.enqueue(outbound{producer: c.searches, event: kafka.Event{Key: ev.Query, Value: ev}})
}

// TrackDocument enqueues a document mutation event. Safe to call on a nil
// Collector.
func (c *Collector) TrackDocument(ev DocumentEvent) {
	if c == nil {
		return
	}
	c.enqueue(outbound{producer: c.documents, event: kafka.Event{Key: ev.DocID, Value: ev}})
}

func (c *Collector) enqueue(out outbound) {
	select {
	case <-c.closed:
	case c.events <- out:
	default:
		c.logger.Warn("analytics buffer full, dropping event", "key", out.event.Key)
	}
}

func (c *Collector) publishLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.closed:
			// Drain whatever made it into the buffer before Close.
			for {
				select {
				case out := <-c.events:
					c.publish(out)
				default:
					return
				}
			}
		case out := <-c.events:
			c.publish(out)
		}
	}
}

// publishTimeout bounds a single Kafka write so a dead broker cannot wedge
// the drain loop during shutdown.
const publishTimeout = 5 * time.Second

func (c *Collector) publish(out outbound) {
	err := resilience.WithTimeout(context.Background(), publishTimeout, "analytics-publish",
		func(ctx context.Context) error {
			return out.producer.Publish(ctx, out.event)
		})
	if err != nil {
		c.logger.Warn("failed to publish analytics event",
			"key", out.event.Key,
			"error", err,
		)
	}
}

// Close stops accepting events, drains the buffer, and waits for the publish
// loop to exit. Safe to call on a nil Collector.
func (c *Collector) Close() {
	if c == nil {
		return
	}
	close(c.closed)
	c.wg.Wait()
}

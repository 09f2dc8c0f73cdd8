// Package services hosts the background loops that connect the ledger to
// outside systems.
package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"pocket/internal/amqp"
	"pocket/internal/ledger"
)

// EventPublisher is the transport the dispatcher hands messages to.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// Ensure interface conformance
var _ ledger.Publisher = (*EventDispatcher)(nil)

const (
	defaultEventBuffer = 256
	publishTimeout     = 5 * time.Second
)

// EventDispatcher queues ledger events and publishes them from a single
// background loop, so mutations never wait on the broker. When the queue is
// full the event is dropped and logged.
type EventDispatcher struct {
	publisher EventPublisher
	queue     chan ledger.Event
	logger    *slog.Logger

	published atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

func NewEventDispatcher(publisher EventPublisher, buffer int, logger *slog.Logger) *EventDispatcher {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventDispatcher{
		publisher: publisher,
		queue:     make(chan ledger.Event, buffer),
		logger:    logger,
	}
}

// Publish implements ledger.Publisher
func (d *EventDispatcher) Publish(e ledger.Event) {
	select {
	case d.queue <- e:
	default:
		d.dropped.Add(1)
		d.logger.Warn("Event queue full, dropping event",
			"type", e.Type,
			"dropped_total", d.dropped.Load())
	}
}

// Run publishes queued events until ctx is done, then drains what is left
// with a fresh deadline per event.
func (d *EventDispatcher) Run(ctx context.Context) error {
	d.logger.InfoContext(ctx, "Event dispatcher started", "buffer", cap(d.queue))
	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			d.logger.InfoContext(ctx, "Event dispatcher stopped",
				"published", d.published.Load(),
				"failed", d.failed.Load(),
				"dropped", d.dropped.Load())
			return nil
		case e := <-d.queue:
			d.send(ctx, e)
		}
	}
}

func (d *EventDispatcher) drain(ctx context.Context) {
	for {
		select {
		case e := <-d.queue:
			d.send(ctx, e)
		default:
			return
		}
	}
}

func (d *EventDispatcher) send(ctx context.Context, e ledger.Event) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.publisher.PublishLedgerEvent(ctx, ToMessage(e)); err != nil {
		d.failed.Add(1)
		d.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"type", e.Type,
			"error", err)
		return
	}
	d.published.Add(1)
}

// Stats returns counters for published, failed and dropped events.
func (d *EventDispatcher) Stats() (published, failed, dropped int64) {
	return d.published.Load(), d.failed.Load(), d.dropped.Load()
}

// ToMessage converts a ledger event into its wire form.
func ToMessage(e ledger.Event) *amqp.LedgerEventMessage {
	return &amqp.LedgerEventMessage{
		Type:      string(e.Type),
		AccountID: e.AccountID,
		ExpenseID: e.ExpenseID,
		HistoryID: e.HistoryID,
		Amount:    e.Amount,
		Currency:  string(e.Currency),
		Timestamp: e.At,
	}
}

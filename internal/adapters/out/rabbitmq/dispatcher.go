// Package rabbitmq publishes parcel lifecycle events to a fanout exchange.
// Publishing is fire-and-forget: the state change is already committed when an
// event is emitted, so a broker failure is logged and the event is buffered
// for redelivery instead of surfacing into the calling workflow.
package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"parceltrack/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the fanout exchange all parcel events go through.
	ExchangeName = "parcel_events"

	publishTimeout = 5 * time.Second

	// maxPendingEvents bounds the redelivery buffer; beyond it the oldest
	// events are dropped.
	maxPendingEvents = 1024
)

const (
	routingKeyParcelCreated = "parcel.created"
	routingKeyStatusChanged = "parcel.status_changed"
)

// basicPublisher is the slice of *amqp.Channel the dispatcher needs.
type basicPublisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
}

type pendingEvent struct {
	routingKey string
	body       []byte
}

// EventDispatcher implements ports.Notifier on top of RabbitMQ.
type EventDispatcher struct {
	publisher basicPublisher
	logger    *slog.Logger

	mu      sync.Mutex
	pending []pendingEvent
}

// NewEventDispatcher opens a channel on the connection and declares the
// durable fanout exchange.
func NewEventDispatcher(conn *amqp.Connection, logger *slog.Logger) (*EventDispatcher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(
		ExchangeName,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return newEventDispatcher(ch, logger), nil
}

func newEventDispatcher(publisher basicPublisher, logger *slog.Logger) *EventDispatcher {
	return &EventDispatcher{
		publisher: publisher,
		logger:    logger,
	}
}

// NotifyParcelCreated announces a newly created parcel.
func (d *EventDispatcher) NotifyParcelCreated(_ context.Context, event ports.ParcelCreatedEvent) {
	d.dispatchAsync(routingKeyParcelCreated, event)
}

// NotifyStatusChanged announces a committed status transition.
func (d *EventDispatcher) NotifyStatusChanged(_ context.Context, event ports.StatusChangedEvent) {
	d.dispatchAsync(routingKeyStatusChanged, event)
}

// dispatchAsync publishes off the request path. The incoming request context
// is deliberately not reused: the HTTP request may complete before the
// publish does.
func (d *EventDispatcher) dispatchAsync(routingKey string, event any) {
	body, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("marshal parcel event", "routingKey", routingKey, "error", err)
		return
	}

	go d.dispatch(routingKey, body)
}

func (d *EventDispatcher) dispatch(routingKey string, body []byte) {
	if err := d.publish(routingKey, body); err != nil {
		d.logger.Warn("publish parcel event failed, buffering for redelivery",
			"routingKey", routingKey, "error", err)
		d.enqueue(pendingEvent{routingKey: routingKey, body: body})
	}
}

func (d *EventDispatcher) publish(routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return d.publisher.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (d *EventDispatcher) enqueue(event pendingEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) >= maxPendingEvents {
		d.logger.Warn("pending event buffer full, dropping oldest event")
		d.pending = d.pending[1:]
	}
	d.pending = append(d.pending, event)
}

// RetryPending republishes buffered events. Events that fail again stay in
// the buffer. Returns the number of events delivered and the number still
// pending.
func (d *EventDispatcher) RetryPending(_ context.Context) (delivered, remaining int) {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	var failed []pendingEvent
	for _, event := range batch {
		if err := d.publish(event.routingKey, event.body); err != nil {
			failed = append(failed, event)
			continue
		}
		delivered++
	}

	if len(failed) > 0 {
		d.mu.Lock()
		d.pending = append(failed, d.pending...)
		remaining = len(d.pending)
		d.mu.Unlock()
	}

	return delivered, remaining
}

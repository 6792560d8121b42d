// Package fanout broadcasts events to the realtime subscribers connected at
// the moment of publishing. Nothing is buffered for later subscribers and
// nothing is persisted: a client that is offline misses the event.
package fanout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecotrack-backend/internal/metrics"
	"ecotrack-backend/internal/models"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Subscriber is one live realtime connection.
type Subscriber struct {
	ID     string
	events chan models.Event
	closed bool
}

// Events yields published events. It is closed on Unsubscribe.
func (s *Subscriber) Events() <-chan models.Event {
	return s.events
}

// Hub owns the live subscriber set.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*Subscriber
	buffer  int
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewHub(buffer int, log *zap.Logger, m *metrics.Metrics) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:    make(map[string]*Subscriber),
		buffer:  buffer,
		log:     log,
		metrics: m,
	}
}

// Subscribe registers a new connection with a fresh id.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID:     uuid.NewString(),
		events: make(chan models.Event, h.buffer),
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	h.metrics.SubscriberAdded()
	h.log.Debug("subscriber connected", zap.String("subscriber_id", sub.ID))
	return sub
}

// Unsubscribe removes sub and closes its event channel. Calling it more
// than once is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	if sub.closed {
		h.mu.Unlock()
		return
	}
	sub.closed = true
	delete(h.subs, sub.ID)
	close(sub.events)
	h.mu.Unlock()

	h.metrics.SubscriberRemoved()
	h.log.Debug("subscriber disconnected", zap.String("subscriber_id", sub.ID))
}

// Publish offers event to every current subscriber without blocking and
// returns how many accepted it. A subscriber whose queue is full is
// skipped; the others are unaffected.
func (h *Hub) Publish(_ context.Context, event models.Event) int {
	// Sends happen under the read lock so Unsubscribe cannot close a
	// channel mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subs {
		select {
		case sub.events <- event:
			delivered++
		default:
			h.metrics.Dropped()
			h.log.Warn("subscriber queue full, event dropped",
				zap.String("subscriber_id", sub.ID),
				zap.String("event", event.Name))
		}
	}

	h.metrics.Delivered(delivered)
	return delivered
}

// Broadcast is Publish without the delivery count.
func (h *Hub) Broadcast(ctx context.Context, event models.Event) {
	h.Publish(ctx, event)
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		h.Unsubscribe(sub)
	}
}

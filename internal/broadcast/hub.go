// Package broadcast fans accepted mutations out to every connected client.
// There is no replay log: a client that connects late gets a fresh full
// snapshot instead of missed events.
package broadcast

import (
	"context"
	"sync"

	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

// Publisher is the surface mutation services depend on.
type Publisher interface {
	Publish(event Event)
}

// Subscription is one observer's bounded event feed. The channel closes
// when the subscriber is detached, either by Cancel or by falling too far
// behind the publisher.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	cancel func()
	once   sync.Once
}

// Cancel detaches the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Hub is the in-process change broadcaster.
type Hub struct {
	mu        sync.Mutex
	subs      map[*Subscription]struct{}
	queueSize int
	logg      *logger.Logger
}

func NewHub(queueSize int, logg *logger.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Hub{
		subs:      make(map[*Subscription]struct{}),
		queueSize: queueSize,
		logg:      logg,
	}
}

// Subscribe attaches a new observer. Events published before Subscribe are
// never delivered to it.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.queueSize)
	sub := &Subscription{C: ch, ch: ch}
	sub.cancel = func() { h.detach(sub) }

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) detach(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, present := h.subs[sub]; present {
		delete(h.subs, sub)
		close(sub.ch)
	}
}

// Publish delivers the event to every attached subscription, best-effort.
// A subscriber whose queue is full is detached rather than blocking the
// publisher or the other subscribers; it will resync on reconnect.
// Sends and closes both happen under the hub lock, so a detach can never
// race a delivery; the channels are buffered and the send never blocks.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dropped []*Subscription
	for sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			dropped = append(dropped, sub)
		}
	}
	for _, sub := range dropped {
		if h.logg != nil {
			h.logg.Warn(context.Background(), "dropping slow push subscriber")
		}
		delete(h.subs, sub)
		close(sub.ch)
	}
}

// SubscriberCount reports how many observers are currently attached.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

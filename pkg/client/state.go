package client

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// Status is the connection lifecycle of a storefront client.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusSynced       Status = "synced"
	StatusReconnecting Status = "reconnecting"
)

// NoticeTTL is how long a transient notice stays visible before it
// auto-dismisses.
const NoticeTTL = 5 * time.Second

// Notice is a transient admin alert held client-side until dismissed or
// expired.
type Notice struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// State is the client's replica of server state plus its local-only cart.
// Broadcast events mutate the replica; the cart belongs to this client
// alone and survives resyncs untouched.
type State struct {
	mu sync.RWMutex

	status   Status
	orders   map[string]model.Order
	orderIDs []string
	products []model.Product
	notices  []Notice

	cart           []model.CartItem
	cartID         string
	donationAmount int

	now func() time.Time
}

// NewState returns an empty disconnected replica.
func NewState() *State {
	return &State{
		status: StatusDisconnected,
		orders: map[string]model.Order{},
		now:    time.Now,
	}
}

// Status reports the connection lifecycle phase.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *State) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Orders returns the replica's orders in arrival order.
func (s *State) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		out = append(out, s.orders[id].Clone())
	}
	return out
}

// Products returns the replica's catalog.
func (s *State) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	return out
}

// Notices returns the unexpired notices, newest first.
func (s *State) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneNoticesLocked()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// Dismiss drops a notice before its expiry.
func (s *State) Dismiss(noticeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notices {
		if n.ID == noticeID {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			return
		}
	}
}

func (s *State) pruneNoticesLocked() {
	cutoff := s.now().Add(-NoticeTTL)
	kept := s.notices[:0]
	for _, n := range s.notices {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	s.notices = kept
}

// eventEnvelope mirrors the push channel wire format.
type eventEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type bootstrapPayload struct {
	Orders   []model.Order   `json:"orders"`
	Products []model.Product `json:"products"`
}

type noticePayload struct {
	Message string `json:"message"`
}

// Event type tags, as sent by the server.
const (
	eventBootstrap        = "BOOTSTRAP"
	eventOrderCreated     = "ORDER_CREATED"
	eventOrderUpdated     = "ORDER_UPDATED"
	eventProductsReplaced = "PRODUCTS_REPLACED"
	eventNotice           = "NOTICE"
)

// Apply folds one raw broadcast frame into the replica. Unknown event
// types are ignored so older clients survive server additions. Applying
// the same frame twice is harmless: creates deduplicate by order id and
// the other events are wholesale replaces.
func (s *State) Apply(raw []byte) error {
	var envelope eventEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err
	}

	switch envelope.Type {
	case eventBootstrap:
		var payload bootstrapPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return err
		}
		s.applyBootstrap(payload)
	case eventOrderCreated, eventOrderUpdated:
		var order model.Order
		if err := json.Unmarshal(envelope.Payload, &order); err != nil {
			return err
		}
		s.upsertOrder(order)
	case eventProductsReplaced:
		var products []model.Product
		if err := json.Unmarshal(envelope.Payload, &products); err != nil {
			return err
		}
		s.replaceProducts(products)
	case eventNotice:
		var payload noticePayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return err
		}
		s.addNotice(payload.Message)
	}
	return nil
}

// applyBootstrap replaces the whole replica. The cart and notices are
// local state and survive.
func (s *State) applyBootstrap(payload bootstrapPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[string]model.Order, len(payload.Orders))
	s.orderIDs = s.orderIDs[:0]
	for _, order := range payload.Orders {
		if _, seen := s.orders[order.ID]; !seen {
			s.orderIDs = append(s.orderIDs, order.ID)
		}
		s.orders[order.ID] = order
	}
	s.products = append([]model.Product(nil), payload.Products...)
	s.status = StatusSynced
}

func (s *State) upsertOrder(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.orders[order.ID]; !seen {
		s.orderIDs = append(s.orderIDs, order.ID)
	}
	s.orders[order.ID] = order
}

func (s *State) replaceProducts(products []model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]model.Product(nil), products...)
}

func (s *State) addNotice(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneNoticesLocked()
	s.notices = append([]Notice{{
		ID:      uuid.NewString(),
		Message: message,
		At:      s.now(),
	}}, s.notices...)
}

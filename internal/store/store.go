// Package store holds the authoritative in-memory order and product state.
// There is no persistence: state is scoped to one fundraiser season's
// process lifetime, with the journal keeping the durable audit trail.
package store

import (
	"errors"
	"sync"

	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

var (
	// ErrDuplicateID is returned when inserting an order whose id exists.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrNotFound is returned when a patch target is absent.
	ErrNotFound = errors.New("not found")
)

// Store is the single writer for order/product state. All mutations
// serialize on one mutex, so no two patches can interleave; last write
// wins at field granularity.
type Store struct {
	mu sync.Mutex

	orders     map[string]model.Order
	orderIDs   []string
	products   map[string]model.Product
	productIDs []string
}

func New() *Store {
	return &Store{
		orders:   make(map[string]model.Order),
		products: make(map[string]model.Product),
	}
}

// Orders returns a deep-copied snapshot in insertion order.
func (s *Store) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		out = append(out, s.orders[id].Clone())
	}
	return out
}

// Products returns a deep-copied snapshot in insertion order.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productsLocked()
}

func (s *Store) productsLocked() []model.Product {
	out := make([]model.Product, 0, len(s.productIDs))
	for _, id := range s.productIDs {
		out = append(out, s.products[id].Clone())
	}
	return out
}

// InsertOrder appends a new order. A duplicate id leaves the store
// untouched and returns ErrDuplicateID.
func (s *Store) InsertOrder(order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return ErrDuplicateID
	}
	s.orders[order.ID] = order.Clone()
	s.orderIDs = append(s.orderIDs, order.ID)
	return nil
}

// PatchOrder shallow-merges the patch into the stored order and returns the
// merged record. When the patch touches price-bearing fields the total is
// recomputed inside the same critical section, so the stored total can
// never disagree with the stored items.
func (s *Store) PatchOrder(id string, patch model.OrderPatch) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[id]
	if !ok {
		return model.Order{}, ErrNotFound
	}
	merged := patch.Apply(existing)
	if patch.TouchesPrice() {
		merged.TotalPrice = merged.LineTotal() + merged.DonationAmount
	}
	s.orders[id] = merged
	return merged.Clone(), nil
}

// PatchProduct shallow-merges the patch into the stored product.
func (s *Store) PatchProduct(id string, patch model.ProductPatch) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[id]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	merged := patch.Apply(existing)
	s.products[id] = merged
	return merged.Clone(), nil
}

// GetProduct returns a single product by id.
func (s *Store) GetProduct(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	return p.Clone(), true
}

// GetOrder returns a single order by id.
func (s *Store) GetOrder(id string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return o.Clone(), true
}

// SeedProducts installs the product list only when the mapping is empty.
// A non-empty store makes this a no-op returning the existing list, so the
// first-boot seeding race resolves to whoever got there first.
func (s *Store) SeedProducts(list []model.Product) (products []model.Product, seeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.productIDs) > 0 {
		return s.productsLocked(), false
	}
	for _, p := range list {
		if _, exists := s.products[p.ID]; exists {
			continue
		}
		s.products[p.ID] = p.Clone()
		s.productIDs = append(s.productIDs, p.ID)
	}
	return s.productsLocked(), true
}

package client

import (
	"fmt"
	"math/rand"

	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// CartLine is a cart entry plus its collapse key.
type CartLine struct {
	model.CartItem
	Key string `json:"key"`
}

// CartID returns the cart's payment-memo reference, minted on the first
// add and kept until the cart is cleared.
func (s *State) CartID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartID
}

// Cart returns the current cart lines.
func (s *State) Cart() []CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CartLine, 0, len(s.cart))
	for _, item := range s.cart {
		out = append(out, CartLine{CartItem: item, Key: item.GroupKey()})
	}
	return out
}

// DonationAmount returns the pending donation in whole dollars.
func (s *State) DonationAmount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.donationAmount
}

// SetDonationAmount stores the pending donation; negative amounts clamp
// to zero.
func (s *State) SetDonationAmount(amount int) {
	if amount < 0 {
		amount = 0
	}
	s.mu.Lock()
	s.donationAmount = amount
	s.mu.Unlock()
}

// AddToCart adds quantity of a product/size with the chosen optional
// ingredients. Lines with the same product, size, and optional set
// collapse into one entry.
func (s *State) AddToCart(productID string, size model.OrderSize, quantity int, optionalIngredients []string) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if !size.IsValid() {
		return fmt.Errorf("unknown size %q, valid sizes are %v", size, model.Sizes())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var product *model.Product
	for i := range s.products {
		if s.products[i].ID == productID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		return fmt.Errorf("unknown product %q", productID)
	}
	if !product.Available {
		return fmt.Errorf("product %q is unavailable", productID)
	}
	allowed := product.OptionalIngredients()
	for _, ing := range optionalIngredients {
		chosen := false
		for _, opt := range allowed {
			if opt == ing {
				chosen = true
				break
			}
		}
		if !chosen {
			return fmt.Errorf("%q is not an optional ingredient of %q", ing, product.Name)
		}
	}

	item := model.CartItem{
		ProductID:                   productID,
		ProductName:                 product.Name,
		Size:                        size,
		Quantity:                    quantity,
		SelectedOptionalIngredients: append([]string(nil), optionalIngredients...),
	}
	key := item.GroupKey()
	for i := range s.cart {
		if s.cart[i].GroupKey() == key {
			s.cart[i].Quantity += quantity
			return nil
		}
	}

	s.cart = append(s.cart, item)
	if s.cartID == "" {
		s.cartID = newCartID()
	}
	return nil
}

// UpdateCartQuantity sets a line's quantity; zero or less removes it.
func (s *State) UpdateCartQuantity(key string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].GroupKey() != key {
			continue
		}
		if quantity <= 0 {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
		} else {
			s.cart[i].Quantity = quantity
		}
		return
	}
}

// RemoveFromCart drops a line entirely.
func (s *State) RemoveFromCart(key string) {
	s.UpdateCartQuantity(key, 0)
}

// ClearCart empties the cart, donation, and payment reference.
func (s *State) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.cartID = ""
	s.donationAmount = 0
	s.mu.Unlock()
}

// CartTotal returns the cart's pre-checkout price including the pending
// donation, with the recurring multiplier applied when recurring is set.
func (s *State) CartTotal(recurring bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.cart {
		total += item.Size.UnitPrice() * item.Quantity
	}
	if recurring {
		total *= model.RecurringWeeks
	}
	return total + s.donationAmount
}

func newCartID() string {
	return fmt.Sprintf("LW-%06d", rand.Intn(1000000))
}

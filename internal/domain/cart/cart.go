// Package cart implements the per-session shopping cart: an insertion-ordered
// set of line items, at most one per product, with totals derived on read.
package cart

import (
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopease/internal/domain/product"
)

// ErrInvalidQuantity is returned by AddToCart for quantities below 1.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// LineItem is one product held in the cart with its quantity.
type LineItem struct {
	Product  product.Product
	Quantity int
}

// LineTotal returns price × quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Snapshot is a consistent view of the cart taken under a single lock.
type Snapshot struct {
	Items      []LineItem
	TotalItems int
	TotalPrice decimal.Decimal
}

// Store owns the cart line items of one session. Totals are never cached;
// every query recomputes them from the current items. Store is safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	items []LineItem
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// AddToCart appends p with quantity, or increases the quantity of the
// existing line item for p.ID. Stock limits are the caller's concern.
func (s *Store) AddToCart(p product.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity += quantity
		return nil
	}
	s.items = append(s.items, LineItem{Product: p, Quantity: quantity})
	return nil
}

// UpdateQuantity sets the quantity of the line item for productID. Unknown
// ids are ignored. A quantity of zero or less removes the line item.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		return
	}
	s.items[i].Quantity = quantity
}

// RemoveFromCart deletes the line item for productID if present.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

// ClearCart removes every line item.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

// Quantity returns the quantity held for productID, or 0.
func (s *Store) Quantity(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Len returns the number of line items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// IsEmpty reports whether the cart holds no line items.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// TotalItems returns the sum of line item quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return totalItems(s.items)
}

// TotalPrice returns the sum of price × quantity across line items.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return totalPrice(s.items)
}

// Snapshot returns items and totals computed together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Items:      slices.Clone(s.items),
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
	}
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(productID string) int {
	return slices.IndexFunc(s.items, func(li LineItem) bool {
		return li.Product.ID == productID
	})
}

func totalItems(items []LineItem) int {
	n := 0
	for _, li := range items {
		n += li.Quantity
	}
	return n
}

func totalPrice(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

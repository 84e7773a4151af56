package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/domain"
)

var _ domain.CartStore = (*Store)(nil)

// Get returns the user's line items in insertion order.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) ([]domain.LineItem, error) {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.LineItem, len(c.items))
	copy(items, c.items)
	return items, nil
}

// Add merges delta into the line item for productID, inserting it if
// absent. The resulting quantity is floored at 1.
func (s *Store) Add(ctx context.Context, userID, productID uuid.UUID, delta int32) error {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = max(c.items[i].Quantity+delta, 1)
			return nil
		}
	}

	c.items = append(c.items, domain.LineItem{ProductID: productID, Quantity: max(delta, 1)})
	return nil
}

// SetQuantity replaces the stored quantity exactly.
func (s *Store) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

// Remove deletes the line item. Removing an absent item is a no-op.
func (s *Store) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Clear removes all line items from the user's cart.
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return nil
}

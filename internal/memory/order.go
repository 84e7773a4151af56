package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/domain"
)

var _ domain.CheckoutStore = (*Store)(nil)

// Submit executes the checkout commit phase under the user's cart lock.
// Holding the lock for the whole phase means a mutation arriving
// mid-checkout waits, and a second checkout observes the cleared cart and
// fails its empty-cart guard inside build.
func (s *Store) Submit(ctx context.Context, userID uuid.UUID, build func(items []domain.LineItem) (*domain.Order, error)) (*domain.Order, error) {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.LineItem, len(c.items))
	copy(items, c.items)

	order, err := build(items)
	if err != nil {
		return nil, err
	}
	order.CreatedAt = time.Now()

	s.mu.Lock()
	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			s.mu.Unlock()
			return nil, domain.Conflict("order.submit", "order number already in use")
		}
	}
	s.orders = append(s.orders, *order)
	s.mu.Unlock()

	c.items = nil
	return order, nil
}

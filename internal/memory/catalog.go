package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/domain"
)

var _ domain.CatalogService = (*Store)(nil)

// Resolve returns the current product for the given ID.
func (s *Store) Resolve(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// List returns all catalog products in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]domain.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		products = append(products, s.products[id])
	}
	return products, nil
}

// Create inserts a new product.
func (s *Store) Create(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if params.Name == "" {
		return nil, domain.Invalid("catalog.create", "product name is required")
	}
	if params.PriceCents < 0 {
		return nil, domain.Invalid("catalog.create", "price must not be negative")
	}

	p := domain.Product{
		ID:         uuid.New(),
		Name:       params.Name,
		PriceCents: params.PriceCents,
		Category:   params.Category,
		ImageURL:   params.ImageURL,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p
	s.productOrder = append(s.productOrder, p.ID)
	return &p, nil
}

// Count reports the number of catalog products.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.products)), nil
}

// DeleteProduct removes a product from the catalog. Cart rows referencing
// it are left in place on purpose: the view layer omits them and checkout
// rejects them. Used by tests exercising that tolerance policy.
func (s *Store) DeleteProduct(ctx context.Context, productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, productID)
	for i, id := range s.productOrder {
		if id == productID {
			s.productOrder = append(s.productOrder[:i], s.productOrder[i+1:]...)
			break
		}
	}
}

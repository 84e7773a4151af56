// Package service implements the business logic on top of the storage
// interfaces in the domain package.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/telemetry"
)

type cartService struct {
	store   domain.CartStore
	catalog domain.CatalogService
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// NewCartService creates a CartService over the given store and catalog.
// metrics may be nil, in which case no business metrics are recorded.
func NewCartService(store domain.CartStore, catalog domain.CatalogService, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cartService{
		store:   store,
		catalog: catalog,
		logger:  logger,
		metrics: metrics,
	}
}

// AddItem adds a single unit of the product to the user's cart. The
// product must exist at add time; quantities for a product already in
// the cart accumulate.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	if _, err := s.catalog.Resolve(ctx, productID); err != nil {
		return err
	}

	if err := s.store.Add(ctx, userID, productID, 1); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.CartItemsAdded.Inc()
	}
	return nil
}

// SetQuantity replaces the quantity of a line item. Quantities below
// one are rejected before any write; removal goes through RemoveItem.
func (s *cartService) SetQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int32) error {
	if quantity < 1 {
		return domain.Errorf(domain.EINVALID, "cartService.SetQuantity",
			"Quantity must be at least 1, got %d", quantity)
	}

	if err := s.store.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.CartUpdated.Inc()
	}
	return nil
}

// RemoveItem deletes a line item from the cart. Removing a product
// that is not in the cart is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	if err := s.store.Remove(ctx, userID, productID); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.CartRemoved.Inc()
	}
	return nil
}

// ViewCart returns the cart with each line item resolved against the
// catalog. Line items whose product no longer exists are omitted from
// the view; the stored cart is left untouched so the discrepancy still
// surfaces at checkout.
func (s *cartService) ViewCart(ctx context.Context, userID uuid.UUID) (*domain.CartView, error) {
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &domain.CartView{Items: make([]domain.CartViewItem, 0, len(items))}
	for _, item := range items {
		product, err := s.catalog.Resolve(ctx, item.ProductID)
		if err != nil {
			if domain.ErrorCode(err) == domain.ENOTFOUND {
				s.logger.Warn("omitting unresolvable cart item from view",
					"user_id", userID,
					"product_id", item.ProductID,
				)
				continue
			}
			return nil, err
		}

		subtotal := int64(product.PriceCents) * int64(item.Quantity)
		view.Items = append(view.Items, domain.CartViewItem{
			Product:      *product,
			Quantity:     item.Quantity,
			LineSubtotal: subtotal,
		})
		view.Subtotal += subtotal
	}

	return view, nil
}

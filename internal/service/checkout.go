package service

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/events"
	"github.com/luminastore/lumina/internal/telemetry"
)

const (
	orderNumberPrefix      = "ELEVA"
	orderNumberSuffixLen   = 6
	orderNumberMaxAttempts = 3
)

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type checkoutService struct {
	store     domain.CheckoutStore
	catalog   domain.CatalogService
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics
}

// NewCheckoutService creates a CheckoutService. publisher may be
// events.NoopPublisher when no broker is configured; metrics may be nil.
func NewCheckoutService(store domain.CheckoutStore, catalog domain.CatalogService, publisher events.Publisher, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.CheckoutService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Checkout converts the user's cart into an order. The order is built
// inside the store's submit callback so pricing, the empty-cart guard,
// and product resolution all happen against the cart snapshot the
// store locked. Any unresolvable product aborts the whole checkout and
// the cart is left intact.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order
	var err error
	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		order, err = s.store.Submit(ctx, userID, func(items []domain.LineItem) (*domain.Order, error) {
			return s.buildOrder(ctx, userID, items)
		})
		if err == nil {
			break
		}
		// An order number collision rolls the transaction back; retry
		// with a fresh number. Every other failure is final.
		if domain.ErrorCode(err) != domain.ECONFLICT {
			break
		}
		s.logger.Warn("order number collision, retrying checkout",
			"user_id", userID,
			"attempt", attempt+1,
		)
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.CheckoutFailed.WithLabelValues(domain.ErrorCode(err)).Inc()
		}
		return nil, err
	}

	s.logger.Info("checkout completed",
		"user_id", userID,
		"order_number", order.OrderNumber,
		"total_cents", order.TotalCents,
		"item_count", len(order.Items),
	)

	if s.metrics != nil {
		s.metrics.CheckoutCompleted.Inc()
		s.metrics.OrdersCreated.Inc()
		s.metrics.OrderValue.Observe(float64(order.TotalCents))
		s.metrics.OrderItemCount.Observe(float64(len(order.Items)))
	}

	// The order is committed at this point. A publish failure is an
	// observability gap, not a checkout failure.
	event := events.OrderCreated{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      userID.String(),
		TotalCents:  order.TotalCents,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("failed to publish order created event",
			"order_number", order.OrderNumber,
			"error", err,
		)
	}

	return order, nil
}

// buildOrder prices the locked cart snapshot into an order. It runs
// inside the store's submit callback, so returning an error aborts the
// checkout without touching the cart.
func (s *checkoutService) buildOrder(ctx context.Context, userID uuid.UUID, items []domain.LineItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: GenerateOrderNumber(),
		Items:       make([]domain.OrderItem, 0, len(items)),
	}

	for _, item := range items {
		product, err := s.catalog.Resolve(ctx, item.ProductID)
		if err != nil {
			if domain.ErrorCode(err) == domain.ENOTFOUND {
				return nil, domain.Errorf(domain.ENOTFOUND, "checkoutService.buildOrder",
					"product %s in your cart is no longer available", item.ProductID)
			}
			return nil, err
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductName: product.Name,
			PriceCents:  product.PriceCents,
			Quantity:    item.Quantity,
			ImageURL:    product.ImageURL,
		})
		order.TotalCents += int64(product.PriceCents) * int64(item.Quantity)
	}

	return order, nil
}

// GenerateOrderNumber returns a human-readable order number of the form
// ELEVA-20250131-X7K2M9. The suffix alphabet excludes ambiguous
// characters; uniqueness is enforced by the store.
func GenerateOrderNumber() string {
	suffix := make([]byte, orderNumberSuffixLen)
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; nothing sensible to do but panic.
			panic(err)
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return orderNumberPrefix + "-" + time.Now().UTC().Format("20060102") + "-" + string(suffix)
}

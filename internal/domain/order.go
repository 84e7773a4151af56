package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var ErrCartEmpty = &Error{Code: EEMPTYCART, Message: "Cart is empty"}

// OrderItem is a denormalized snapshot of a purchased line item, captured
// at checkout time. It never references the live catalog, so later catalog
// edits or deletions cannot retroactively alter the order.
type OrderItem struct {
	ProductName string
	PriceCents  int32
	Quantity    int32
	ImageURL    string
}

// Order is the immutable record created once per successful checkout.
type Order struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	OrderNumber string
	Items       []OrderItem
	TotalCents  int64
	CreatedAt   time.Time
}

// CheckoutStore executes the commit phase of checkout as one atomic unit.
type CheckoutStore interface {
	// Submit runs build with the user's current line items inside a single
	// per-user critical section. If build succeeds, the returned order is
	// persisted and the cart is cleared before the critical section ends;
	// external observers see either the old cart and no order, or the new
	// order and an empty cart. If build returns an error, the cart is left
	// unchanged and no order is created.
	//
	// Concurrent mutations for the same user block until Submit finishes;
	// a second Submit issued before the first completes observes the
	// cleared cart and fails its empty-cart guard rather than producing a
	// second order.
	Submit(ctx context.Context, userID uuid.UUID, build func(items []LineItem) (*Order, error)) (*Order, error)
}

// CheckoutService converts a cart into an order.
type CheckoutService interface {
	// Checkout snapshots the user's non-empty cart, resolves every line
	// item's live price, computes the total, persists an immutable order,
	// clears the cart, and returns the generated order number.
	//
	// Fails with ErrCartEmpty on an empty cart and with a not-found error
	// when any line item no longer resolves; in both cases the cart is
	// unchanged and no order exists.
	Checkout(ctx context.Context, userID uuid.UUID) (*Order, error)
}

package domain

import (
	"context"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Item not found in cart"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be at least 1"}
)

// LineItem is a (product, quantity) pair stored in a cart.
// Quantity is always >= 1; the stores enforce this invariant.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int32
}

// CartStore owns the per-user line item collections. Every operation is
// scoped to a single user; no operation may observe another user's cart.
// Implementations must serialize read-modify-write sequences per user so
// that concurrent mutations never produce duplicate rows or quantities
// below 1.
type CartStore interface {
	// Get returns the user's line items in insertion order. A user with no
	// cart gets an empty slice, not an error.
	Get(ctx context.Context, userID uuid.UUID) ([]LineItem, error)

	// Add merges delta into the user's line item for productID, inserting
	// the row (and lazily the cart itself) if absent. The resulting
	// quantity is clamped to a floor of 1.
	Add(ctx context.Context, userID, productID uuid.UUID, delta int32) error

	// SetQuantity replaces the stored quantity exactly. Fails with
	// ErrCartItemNotFound when the product is not in the cart.
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int32) error

	// Remove deletes the line item. Removing an absent item is a no-op.
	Remove(ctx context.Context, userID, productID uuid.UUID) error

	// Clear removes all line items from the user's cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CartViewItem joins a stored line item with its resolved product.
type CartViewItem struct {
	Product      Product
	Quantity     int32
	LineSubtotal int64
}

// CartView is the display-ready projection of a cart: resolved products,
// per-line subtotals, and a grand subtotal. Line items whose product no
// longer resolves are omitted.
type CartView struct {
	Items    []CartViewItem
	Subtotal int64
}

// CartService enforces business rules on top of the CartStore.
type CartService interface {
	// AddItem adds one unit of the product to the user's cart, merging
	// into an existing line item if present. Fails with a not-found error
	// when the product does not resolve in the catalog.
	AddItem(ctx context.Context, userID, productID uuid.UUID) error

	// SetQuantity replaces a line item's quantity. Quantities below 1 are
	// rejected with ErrInvalidQuantity before any write.
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int32) error

	// RemoveItem removes the product from the cart. Idempotent.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error

	// ViewCart assembles the display-ready cart for the user.
	ViewCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}

// Product is a read-only catalog snapshot. The cart layer never caches it
// across requests; the catalog is authoritative for name and price.
type Product struct {
	ID         uuid.UUID
	Name       string
	PriceCents int32
	Category   string
	ImageURL   string
	CreatedAt  time.Time
}

// PriceDisplay formats the price with two fraction digits, e.g. "129.00".
func (p Product) PriceDisplay() string {
	return FormatCents(int64(p.PriceCents))
}

// FormatCents renders an amount of cents as a two-fraction-digit decimal.
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// CreateProductParams contains the fields for inserting a catalog product.
type CreateProductParams struct {
	Name       string
	PriceCents int32
	Category   string
	ImageURL   string
}

// CatalogService is the product catalog collaborator. Resolve is the
// Product Reference Resolver the cart layer depends on; it is assumed
// eventually consistent and read-only from the cart's perspective.
type CatalogService interface {
	// Resolve returns the current product for the given ID, or
	// ErrProductNotFound.
	Resolve(ctx context.Context, productID uuid.UUID) (*Product, error)

	// List returns all catalog products.
	List(ctx context.Context) ([]Product, error)

	// Create inserts a new product. Used by seeding and admin tooling.
	Create(ctx context.Context, params CreateProductParams) (*Product, error)

	// Count reports the number of catalog products.
	Count(ctx context.Context) (int64, error)
}

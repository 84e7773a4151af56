// Package bootstrap handles first-run initialization.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/luminastore/lumina/internal/domain"
)

var seedProducts = []domain.CreateProductParams{
	{Name: "Eleva Pendant Light", PriceCents: 12900, Category: "lighting", ImageURL: "/images/eleva-pendant.jpg"},
	{Name: "Aeon Lounge Chair", PriceCents: 89000, Category: "furniture", ImageURL: "/images/aeon-chair.jpg"},
	{Name: "Ceramic Void Vase", PriceCents: 4500, Category: "decor", ImageURL: "/images/void-vase.jpg"},
	{Name: "Nordic Wool Throw", PriceCents: 8400, Category: "textiles", ImageURL: "/images/nordic-throw.jpg"},
	{Name: "Geometric Table Lamp", PriceCents: 11500, Category: "lighting", ImageURL: "/images/geo-lamp.jpg"},
	{Name: "Minimalist Desk Organizer", PriceCents: 7500, Category: "office", ImageURL: "/images/desk-organizer.jpg"},
}

// SeedProducts inserts the starter catalog when the catalog is empty.
// Idempotent: a non-empty catalog is left untouched.
func SeedProducts(ctx context.Context, catalog domain.CatalogService, logger *slog.Logger) error {
	count, err := catalog.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("catalog already seeded", "count", count)
		return nil
	}

	for _, params := range seedProducts {
		if _, err := catalog.Create(ctx, params); err != nil {
			return err
		}
	}

	logger.Info("seeded product catalog", "count", len(seedProducts))
	return nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luminastore/lumina/internal/domain"
)

// CatalogService implements domain.CatalogService using PostgreSQL.
// It is the authoritative source for product names and prices; the cart
// layer only ever reads from it.
type CatalogService struct {
	pool *pgxpool.Pool
}

var _ domain.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new PostgreSQL-backed catalog service.
func NewCatalogService(pool *pgxpool.Pool) *CatalogService {
	return &CatalogService{pool: pool}
}

// Resolve returns the current product for the given ID.
func (s *CatalogService) Resolve(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	var (
		name       string
		priceCents int32
		category   string
		imageURL   string
		createdAt  pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx,
		`SELECT name, price_cents, category, image_url, created_at
		 FROM products WHERE id = $1`,
		pgUUID(productID),
	).Scan(&name, &priceCents, &category, &imageURL, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.resolve", "failed to resolve product")
	}

	return &domain.Product{
		ID:         productID,
		Name:       name,
		PriceCents: priceCents,
		Category:   category,
		ImageURL:   imageURL,
		CreatedAt:  createdAt.Time,
	}, nil
}

// List returns all catalog products in insertion order.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, price_cents, category, image_url, created_at
		 FROM products ORDER BY created_at, name`)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			id        pgtype.UUID
			p         domain.Product
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &p.Name, &p.PriceCents, &p.Category, &p.ImageURL, &createdAt); err != nil {
			return nil, domain.Internal(err, "catalog.list", "failed to scan product")
		}
		p.ID = fromPG(id)
		p.CreatedAt = createdAt.Time
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to read products")
	}

	return products, nil
}

// Create inserts a new product.
func (s *CatalogService) Create(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if params.Name == "" {
		return nil, domain.Invalid("catalog.create", "product name is required")
	}
	if params.PriceCents < 0 {
		return nil, domain.Invalid("catalog.create", "price must not be negative")
	}

	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx,
		`INSERT INTO products (name, price_cents, category, image_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		params.Name, params.PriceCents, params.Category, params.ImageURL,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, domain.Internal(err, "catalog.create", "failed to create product")
	}

	return &domain.Product{
		ID:         fromPG(id),
		Name:       params.Name,
		PriceCents: params.PriceCents,
		Category:   params.Category,
		ImageURL:   params.ImageURL,
		CreatedAt:  createdAt.Time,
	}, nil
}

// Count reports the number of catalog products.
func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, domain.Internal(err, "catalog.count", "failed to count products")
	}
	return count, nil
}

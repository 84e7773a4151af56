package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luminastore/lumina/internal/domain"
)

// OrderStore implements domain.CheckoutStore using PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

var _ domain.CheckoutStore = (*OrderStore)(nil)

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Submit executes the checkout commit phase in one transaction.
//
// The FOR UPDATE lock on the cart row serializes the whole phase against
// cart mutations and other checkouts for the same user: a second checkout
// blocks until the first commits, then observes the cleared cart and fails
// its empty-cart guard inside build. The order write and cart clear either
// both commit or neither does.
func (s *OrderStore) Submit(ctx context.Context, userID uuid.UUID, build func(items []domain.LineItem) (*domain.Order, error)) (*domain.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.submit", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	cartID, err := lockCart(ctx, tx, userID)
	if err != nil {
		return nil, domain.Internal(err, "order.submit", "failed to lock cart")
	}

	var items []domain.LineItem
	if cartID != nil {
		items, err = readCartItems(ctx, tx, *cartID)
		if err != nil {
			return nil, domain.Internal(err, "order.submit", "failed to load cart items")
		}
	}

	order, err := build(items)
	if err != nil {
		return nil, err
	}

	var createdAt pgtype.Timestamptz
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, order_number, total_cents)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		pgUUID(order.ID), pgUUID(order.UserID), order.OrderNumber, order.TotalCents,
	).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("order.submit", "order number already in use")
		}
		return nil, domain.Internal(err, "order.submit", "failed to persist order")
	}
	order.CreatedAt = createdAt.Time

	for _, item := range order.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_name, price_cents, quantity, image_url)
			 VALUES ($1, $2, $3, $4, $5)`,
			pgUUID(order.ID), item.ProductName, item.PriceCents, item.Quantity, item.ImageURL)
		if err != nil {
			return nil, domain.Internal(err, "order.submit", "failed to persist order item")
		}
	}

	if cartID != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, *cartID); err != nil {
			return nil, domain.Internal(err, "order.submit", "failed to clear cart")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "order.submit", "failed to commit order")
	}

	return order, nil
}

// readCartItems loads line items inside the submit transaction.
func readCartItems(ctx context.Context, tx pgx.Tx, cartID pgtype.UUID) ([]domain.LineItem, error) {
	rows, err := tx.Query(ctx,
		`SELECT product_id, quantity FROM cart_items
		 WHERE cart_id = $1
		 ORDER BY created_at, id`,
		cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var (
			productID pgtype.UUID
			quantity  int32
		)
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, err
		}
		items = append(items, domain.LineItem{ProductID: fromPG(productID), Quantity: quantity})
	}
	return items, rows.Err()
}

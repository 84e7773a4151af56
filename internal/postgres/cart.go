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

// CartStore implements domain.CartStore using PostgreSQL.
//
// Per-user serialization: every mutation runs in a transaction that first
// takes a row lock on the user's cart (the insert-or-update on carts, or an
// explicit FOR UPDATE). Checkout holds the same lock for its whole commit
// phase, so mutations and checkout for one user never interleave. Reads
// take no lock.
type CartStore struct {
	pool *pgxpool.Pool
}

var _ domain.CartStore = (*CartStore)(nil)

// NewCartStore creates a new PostgreSQL-backed cart store.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// Get returns the user's line items in insertion order.
// A user with no cart gets an empty slice, not an error.
func (s *CartStore) Get(ctx context.Context, userID uuid.UUID) ([]domain.LineItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ci.product_id, ci.quantity
		 FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 WHERE c.user_id = $1
		 ORDER BY ci.created_at, ci.id`,
		pgUUID(userID))
	if err != nil {
		return nil, domain.Internal(err, "cart.get", "failed to load cart items")
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		var (
			productID pgtype.UUID
			quantity  int32
		)
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, domain.Internal(err, "cart.get", "failed to scan cart item")
		}
		items = append(items, domain.LineItem{ProductID: fromPG(productID), Quantity: quantity})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.get", "failed to read cart items")
	}

	return items, nil
}

// Add merges delta into the line item for productID, creating the cart and
// the row as needed. The merge is a single conditional upsert, so two
// concurrent adds both land: the final quantity is the sum, floored at 1.
func (s *CartStore) Add(ctx context.Context, userID, productID uuid.UUID, delta int32) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cartID, err := ensureCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO cart_items (cart_id, product_id, quantity)
			 VALUES ($1, $2, GREATEST($3, 1))
			 ON CONFLICT (cart_id, product_id) DO UPDATE
			 SET quantity = GREATEST(cart_items.quantity + EXCLUDED.quantity, 1),
			     updated_at = now()`,
			cartID, pgUUID(productID), delta)
		return err
	})
	if err != nil {
		return domain.Internal(err, "cart.add", "failed to add cart item")
	}
	return nil
}

// SetQuantity replaces the stored quantity exactly.
func (s *CartStore) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cartID, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cartID == nil {
			return domain.ErrCartItemNotFound
		}

		tag, err := tx.Exec(ctx,
			`UPDATE cart_items SET quantity = $3, updated_at = now()
			 WHERE cart_id = $1 AND product_id = $2`,
			*cartID, pgUUID(productID), quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrCartItemNotFound
		}
		return nil
	})
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return err
		}
		return domain.Internal(err, "cart.set_quantity", "failed to update cart item")
	}
	return nil
}

// Remove deletes the line item. Removing an absent item is a no-op.
func (s *CartStore) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cartID, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cartID == nil {
			return nil
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
			*cartID, pgUUID(productID))
		return err
	})
	if err != nil {
		return domain.Internal(err, "cart.remove", "failed to remove cart item")
	}
	return nil
}

// Clear removes all line items from the user's cart.
func (s *CartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cartID, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cartID == nil {
			return nil
		}

		_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, *cartID)
		return err
	})
	if err != nil {
		return domain.Internal(err, "cart.clear", "failed to clear cart")
	}
	return nil
}

// ensureCart returns the user's cart ID, creating the cart lazily. The
// insert-or-update takes a row lock held until the transaction ends.
func ensureCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (pgtype.UUID, error) {
	var cartID pgtype.UUID
	err := tx.QueryRow(ctx,
		`INSERT INTO carts (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		 RETURNING id`,
		pgUUID(userID)).Scan(&cartID)
	return cartID, err
}

// lockCart takes a FOR UPDATE lock on the user's cart row and returns its
// ID, or nil when the user has no cart yet.
func lockCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*pgtype.UUID, error) {
	var cartID pgtype.UUID
	err := tx.QueryRow(ctx,
		`SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`,
		pgUUID(userID)).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cartID, nil
}

package postgres

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

type cartRepository struct {
	storage *Storage
}

func (r *cartRepository) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	const query = `SELECT ci.product_id, p.name, COALESCE(p.images->>0, ''), ci.quantity, ci.unit_price, ci.added_at
                   FROM cart_items ci JOIN products p ON p.id = ci.product_id
                   WHERE ci.user_id=$1 ORDER BY ci.added_at, ci.product_id`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	cart := &model.Cart{UserID: userID}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.ProductImage, &it.Quantity, &it.UnitPrice, &it.AddedAt); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem inserts a line or increments an existing one. The unit price of an
// existing line is kept.
func (r *cartRepository) AddItem(ctx context.Context, userID int64, item model.CartItem) error {
	const query = `INSERT INTO cart_items (user_id, product_id, quantity, unit_price)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	if _, err := r.storage.pool.Exec(ctx, query, userID, item.ProductID, item.Quantity, item.UnitPrice); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	const query = `UPDATE cart_items SET quantity=$1 WHERE user_id=$2 AND product_id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, quantity, userID, productID)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID int64) error {
	const query = `DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	return clearCart(ctx, r.storage.pool, userID)
}

func clearCart(ctx context.Context, q querier, userID int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

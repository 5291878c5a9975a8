package repository

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// CartRepository manages per-user cart lines.
type CartRepository interface {
	Get(ctx context.Context, userID int64) (*model.Cart, error)
	AddItem(ctx context.Context, userID int64, item model.CartItem) error
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
}

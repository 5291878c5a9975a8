package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

// CartUseCase manages the per-user basket.
type CartUseCase struct {
	carts   repository.CartRepository
	catalog repository.CatalogRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, catalog repository.CatalogRepository) *CartUseCase {
	return &CartUseCase{carts: carts, catalog: catalog}
}

func (u *CartUseCase) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	return u.carts.Get(ctx, userID)
}

// AddItem adds quantity of a product, capturing its current price for new lines.
func (u *CartUseCase) AddItem(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	product, err := u.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	item := model.CartItem{ProductID: product.ID, Quantity: quantity, UnitPrice: product.Price}
	if err := u.carts.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	return u.carts.Get(ctx, userID)
}

// SetQuantity replaces the quantity of an existing line.
func (u *CartUseCase) SetQuantity(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	if err := u.carts.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return u.carts.Get(ctx, userID)
}

func (u *CartUseCase) RemoveItem(ctx context.Context, userID, productID int64) (*model.Cart, error) {
	if err := u.carts.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return u.carts.Get(ctx, userID)
}

func (u *CartUseCase) Clear(ctx context.Context, userID int64) error {
	return u.carts.Clear(ctx, userID)
}

// Count returns the total quantity for the cart badge.
func (u *CartUseCase) Count(ctx context.Context, userID int64) (int, error) {
	cart, err := u.carts.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

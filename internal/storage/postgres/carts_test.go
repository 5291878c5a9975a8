package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

func TestCartRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &cartRepository{storage: storage}
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("FROM cart_items ci JOIN products p").WithArgs(int64(7)).WillReturnRows(
		pgxmockv3.NewRows([]string{"product_id", "name", "image", "quantity", "unit_price", "added_at"}).
			AddRow(int64(1), "Panel", "a.jpg", 2, decimal.NewFromInt(125), now).
			AddRow(int64(2), "Cable", "", 1, decimal.RequireFromString("9.99"), now))
	cart, err := repo.Get(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ItemCount() != 3 || cart.Subtotal().StringFixed(2) != "259.99" {
		t.Fatalf("unexpected cart %+v", cart)
	}

	mock.ExpectQuery("FROM cart_items ci JOIN products p").WithArgs(int64(8)).WillReturnRows(
		pgxmockv3.NewRows([]string{"product_id", "name", "image", "quantity", "unit_price", "added_at"}))
	cart, err = repo.Get(ctx, 8)
	if err != nil || len(cart.Items) != 0 || cart.UserID != 8 {
		t.Fatalf("expected empty cart, got %+v err=%v", cart, err)
	}

	mock.ExpectExec("INSERT INTO cart_items").WithArgs(int64(7), int64(1), 2, decimal.NewFromInt(125)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.AddItem(ctx, 7, model.CartItem{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(125)}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	mock.ExpectExec("UPDATE cart_items SET quantity").WithArgs(5, int64(7), int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.SetQuantity(ctx, 7, 1, 5); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	mock.ExpectExec("UPDATE cart_items SET quantity").WithArgs(5, int64(7), int64(9)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.SetQuantity(ctx, 7, 9, 5); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("DELETE FROM cart_items WHERE user_id=\\$1 AND product_id").WithArgs(int64(7), int64(9)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	if err := repo.RemoveItem(ctx, 7, 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("DELETE FROM cart_items WHERE user_id=").WithArgs(int64(7)).WillReturnError(errors.New("down"))
	if err := repo.Clear(ctx, 7); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

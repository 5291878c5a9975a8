package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	testhelpers "github.com/polkiloo/solarstore/internal/test"
)

func TestCartUseCase(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewCartUseCase(store.Carts, store.Catalog)
	ctx := context.Background()
	panel := store.Catalog.Add(model.Product{Name: "Panel", Price: decimal.NewFromInt(120)})
	battery := store.Catalog.Add(model.Product{Name: "Battery", Price: decimal.NewFromInt(80)})

	if _, err := uc.AddItem(ctx, 1, panel.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := uc.AddItem(ctx, 1, panel.ID, 2)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("expected merged line, got %+v", cart.Items)
	}
	if _, err := uc.AddItem(ctx, 1, battery.ID, 1); err != nil {
		t.Fatalf("add battery: %v", err)
	}
	if n, _ := uc.Count(ctx, 1); n != 4 {
		t.Fatalf("expected count 4, got %d", n)
	}

	cart, err = uc.SetQuantity(ctx, 1, panel.ID, 1)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if !cart.Subtotal().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected subtotal %s", cart.Subtotal())
	}

	cart, err = uc.RemoveItem(ctx, 1, battery.ID)
	if err != nil || len(cart.Items) != 1 {
		t.Fatalf("remove: %+v %v", cart, err)
	}
	if err := uc.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := uc.Count(ctx, 1); n != 0 {
		t.Fatalf("expected empty cart, got %d", n)
	}
}

func TestCartUseCaseRejections(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewCartUseCase(store.Carts, store.Catalog)
	ctx := context.Background()
	panel := store.Catalog.Add(model.Product{Name: "Panel", Price: decimal.NewFromInt(120)})

	cases := []struct {
		name string
		call func() error
		want error
	}{
		{"zero quantity", func() error { _, err := uc.AddItem(ctx, 1, panel.ID, 0); return err }, domainErrors.ErrInvalidQuantity},
		{"unknown product", func() error { _, err := uc.AddItem(ctx, 1, 404, 1); return err }, domainErrors.ErrNotFound},
		{"negative set", func() error { _, err := uc.SetQuantity(ctx, 1, panel.ID, -2); return err }, domainErrors.ErrInvalidQuantity},
		{"set missing line", func() error { _, err := uc.SetQuantity(ctx, 1, panel.ID, 2); return err }, domainErrors.ErrNotFound},
		{"remove missing line", func() error { _, err := uc.RemoveItem(ctx, 1, panel.ID); return err }, domainErrors.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

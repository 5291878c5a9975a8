package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/config"
	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
	testhelpers "github.com/polkiloo/solarstore/internal/test"
)

type orderFixture struct {
	store    *testhelpers.MemoryStore
	orders   *OrderUseCase
	cart     *CartUseCase
	customer *model.User
	panel    *model.Product
}

func newOrderFixture(t *testing.T, taxRate string) *orderFixture {
	t.Helper()
	store := testhelpers.NewMemoryStore()
	cfg := &config.Config{
		StorefrontURL:   "http://shop.test/",
		TaxRate:         decimal.RequireFromString(taxRate),
		EMIInterestRate: decimal.RequireFromString("0.12"),
	}
	f := &orderFixture{
		store: store,
		orders: NewOrderUseCase(OrderDependencies{
			Orders:  store.Orders,
			Carts:   store.Carts,
			Users:   store.Users,
			Coupons: store.Coupons,
			Signer:  pkgAuth.NewConfirmationSigner("confirm-secret", pkgAuth.Options{TTL: time.Hour}),
			Config:  cfg,
		}),
		cart:     NewCartUseCase(store.Carts, store.Catalog),
		customer: store.Users.Add(model.User{Name: "Asha", Email: "asha@example.com", Role: model.RoleCustomer, EmailVerified: true}),
		panel:    store.Catalog.Add(model.Product{Name: "Mono Panel", Slug: "mono-panel", Price: decimal.RequireFromString("125"), Stock: 10}),
	}
	return f
}

func (f *orderFixture) place(t *testing.T, method string) *model.Order {
	t.Helper()
	ctx := context.Background()
	if _, err := f.cart.AddItem(ctx, f.customer.ID, f.panel.ID, 2); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	order, err := f.orders.Place(ctx, f.customer.ID, PlaceOrderInput{ShippingAddress: sampleAddress(), PaymentMethod: method})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return order
}

// price assigns a shipping fee and returns the emailed confirmation token.
func (f *orderFixture) price(t *testing.T, orderID, fee string) string {
	t.Helper()
	if _, err := f.orders.AssignShipping(context.Background(), orderID, decimal.RequireFromString(fee), ""); err != nil {
		t.Fatalf("assign shipping: %v", err)
	}
	msg, ok := f.store.Outbox.Last(model.TemplateShippingReview)
	if !ok {
		t.Fatal("expected shipping review email")
	}
	link, err := url.Parse(msg.Payload["confirmUrl"])
	if err != nil {
		t.Fatalf("parse confirm url: %v", err)
	}
	return link.Query().Get("token")
}

func sampleAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:     "Asha Rao",
		AddressLine1: "12 Sun Street",
		City:         "Pune",
		State:        "MH",
		PostalCode:   "411001",
		Phone:        "9000000000",
	}
}

func TestOrderUseCasePlace(t *testing.T) {
	f := newOrderFixture(t, "0.1")
	order := f.place(t, "cod")

	if order.Status != model.OrderStatusPending || order.Phase() != model.PhaseAwaitingShippingCharge {
		t.Fatalf("unexpected state %s/%s", order.Status, order.Phase())
	}
	if !order.Subtotal.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("unexpected subtotal %s", order.Subtotal)
	}
	if !order.Tax.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("unexpected tax %s", order.Tax)
	}
	if order.ShippingFee.Valid || order.TotalAmount.Valid {
		t.Fatal("expected shipping and total to be unset")
	}
	if !strings.HasPrefix(order.Number, "SOL-"+time.Now().UTC().Format("20060102")+"-") || len(order.Number) != 21 {
		t.Fatalf("unexpected order number %q", order.Number)
	}
	if len(order.StatusHistory) != 1 || order.StatusHistory[0].Status != model.OrderStatusPending {
		t.Fatalf("unexpected history %+v", order.StatusHistory)
	}
	if order.ShippingAddress.Country == "" {
		t.Fatal("expected default country")
	}

	cart, _ := f.store.Carts.Get(context.Background(), f.customer.ID)
	if len(cart.Items) != 0 {
		t.Fatal("expected cart to be cleared")
	}
	if len(f.store.Notifications.ForUser(f.customer.ID)) != 1 {
		t.Fatal("expected placement notification")
	}
	msg, ok := f.store.Outbox.Last(model.TemplateOrderStatus)
	if !ok || msg.Recipient != "asha@example.com" {
		t.Fatalf("expected status email, got %+v", msg)
	}
}

func TestOrderUseCasePlaceSnapshotsPrices(t *testing.T) {
	f := newOrderFixture(t, "0")
	ctx := context.Background()
	if _, err := f.cart.AddItem(ctx, f.customer.ID, f.panel.ID, 1); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	f.store.Catalog.Products[f.panel.ID].Price = decimal.RequireFromString("999")

	order, err := f.orders.Place(ctx, f.customer.ID, PlaceOrderInput{ShippingAddress: sampleAddress(), PaymentMethod: "cod"})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !order.Items[0].UnitPrice.Equal(decimal.RequireFromString("125")) {
		t.Fatalf("expected cart price to be kept, got %s", order.Items[0].UnitPrice)
	}
}

func TestOrderUseCasePlaceValidation(t *testing.T) {
	f := newOrderFixture(t, "0")
	ctx := context.Background()

	if _, err := f.orders.Place(ctx, f.customer.ID, PlaceOrderInput{ShippingAddress: sampleAddress(), PaymentMethod: "cod"}); !errors.Is(err, domainErrors.ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}

	addr := sampleAddress()
	addr.City = "  "
	_, err := f.orders.Place(ctx, f.customer.ID, PlaceOrderInput{ShippingAddress: addr, PaymentMethod: "cheque"})
	var vErr *domainErrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if strings.Join(vErr.Fields, ",") != "city,paymentMethod" {
		t.Fatalf("unexpected fields %v", vErr.Fields)
	}

	_, err = f.orders.Place(ctx, f.customer.ID, PlaceOrderInput{ShippingAddress: sampleAddress(), PaymentMethod: "emi", EMITenureMonths: 7})
	if !errors.As(err, &vErr) || vErr.Fields[0] != "emiTenureMonths" {
		t.Fatalf("expected tenure to be rejected, got %v", err)
	}
}

func TestOrderUseCasePlaceWithCoupon(t *testing.T) {
	f := newOrderFixture(t, "0")
	ctx := context.Background()
	coupons := NewCouponUseCase(f.store.Coupons)
	if _, err := coupons.Create(ctx, CouponInput{Code: "flat20", AmountOff: decimal.NewNullDecimal(decimal.NewFromInt(20)), Active: true}); err != nil {
		t.Fatalf("create coupon: %v", err)
	}
	if _, err := f.cart.AddItem(ctx, f.customer.ID, f.panel.ID, 1); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if _, err := f.orders.Place(ctx, f.customer.ID, PlaceOrderInput{ShippingAddress: sampleAddress(), PaymentMethod: "cod", CouponCode: "nope"}); !errors.Is(err, domainErrors.ErrCouponInvalid) {
		t.Fatalf("expected invalid coupon, got %v", err)
	}

	order, err := f.orders.Place(ctx, f.customer.ID, PlaceOrderInput{ShippingAddress: sampleAddress(), PaymentMethod: "cod", CouponCode: " Flat20 "})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if order.CouponCode != "FLAT20" || !order.Discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected discount %s %s", order.CouponCode, order.Discount)
	}
}

func TestOrderUseCaseListAndGet(t *testing.T) {
	f := newOrderFixture(t, "0")
	ctx := context.Background()
	first := f.place(t, "cod")
	second := f.place(t, "bank_transfer")
	if _, err := f.orders.Cancel(ctx, f.customer.ID, second.ID, "changed my mind"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	orders, total, err := f.orders.List(ctx, f.customer.ID, OrderQuery{Status: "pending"})
	if err != nil || total != 1 || orders[0].ID != first.ID {
		t.Fatalf("unexpected listing %+v total=%d err=%v", orders, total, err)
	}
	if _, _, err := f.orders.List(ctx, f.customer.ID, OrderQuery{Status: "lost"}); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}

	other := f.store.Users.Add(model.User{Email: "other@example.com", Role: model.RoleCustomer, EmailVerified: true})
	if _, err := f.orders.Get(ctx, other.ID, first.ID); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.orders.Get(ctx, f.customer.ID, "not-a-uuid"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}

func TestOrderUseCaseCancel(t *testing.T) {
	f := newOrderFixture(t, "0")
	ctx := context.Background()
	order := f.place(t, "cod")

	cancelled, err := f.orders.Cancel(ctx, f.customer.ID, order.ID, "  wrong size ")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.OrderStatusCancelled || cancelled.CancelReason != "wrong size" {
		t.Fatalf("unexpected cancelled order %+v", cancelled)
	}

	_, err = f.orders.Cancel(ctx, f.customer.ID, order.ID, "")
	var stateErr *domainErrors.InvalidStateError
	if !errors.As(err, &stateErr) || stateErr.Status != string(model.OrderStatusCancelled) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestOrderUseCaseCancelAfterShipping(t *testing.T) {
	f := newOrderFixture(t, "0")
	ctx := context.Background()
	order := f.place(t, "cod")
	token := f.price(t, order.ID, "30")
	if _, err := f.orders.ConfirmByToken(ctx, order.ID, token); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.orders.AdminAdvance(ctx, order.ID, "shipped", ""); err != nil {
		t.Fatalf("ship: %v", err)
	}

	var stateErr *domainErrors.InvalidStateError
	if _, err := f.orders.Cancel(ctx, f.customer.ID, order.ID, ""); !errors.As(err, &stateErr) {
		t.Fatalf("expected shipped orders to be locked for customers, got %v", err)
	}
}

package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/adapter/mailer"
	"github.com/polkiloo/solarstore/internal/config"
	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
	testhelpers "github.com/polkiloo/solarstore/internal/test"
	"github.com/polkiloo/solarstore/internal/usecase"
)

func newFacade() (*StoreFacade, *testhelpers.MemoryStore) {
	cfg := &config.Config{
		StorefrontURL:   "http://shop.test",
		TaxRate:         decimal.Zero,
		EMIInterestRate: decimal.RequireFromString("0.12"),
	}
	store := testhelpers.NewMemoryStore()
	tokens := pkgAuth.NewJWTStrategy("facade-secret", pkgAuth.Options{TTL: time.Hour})
	signer := pkgAuth.NewConfirmationSigner("confirm-secret", pkgAuth.Options{TTL: time.Hour})
	emi := usecase.NewEMIUseCase(store.EMI, store.Orders)

	facade := NewStoreFacade(UseCases{
		Auth:    usecase.NewAuthUseCase(store.Users, store.Outbox, testhelpers.HasherStub{}, tokens, time.Minute),
		Catalog: usecase.NewCatalogUseCase(store.Catalog),
		Cart:    usecase.NewCartUseCase(store.Carts, store.Catalog),
		Orders: usecase.NewOrderUseCase(usecase.OrderDependencies{
			Orders:  store.Orders,
			Carts:   store.Carts,
			Users:   store.Users,
			Coupons: store.Coupons,
			Signer:  signer,
			Config:  cfg,
		}),
		Reviews:       usecase.NewReviewUseCase(store.Reviews, store.Catalog),
		Notifications: usecase.NewNotificationUseCase(store.Notifications, store.Outbox, mailer.NewLogMailer(slog.New(slog.NewJSONHandler(io.Discard, nil)))),
		EMI:           emi,
		Coupons:       usecase.NewCouponUseCase(store.Coupons),
		Dashboard:     usecase.NewDashboardUseCase(store.Orders, store.Notifications, emi),
	})
	return facade, store
}

func reviewToken(t *testing.T, store *testhelpers.MemoryStore) string {
	t.Helper()
	msg, ok := store.Outbox.Last(model.TemplateShippingReview)
	if !ok {
		t.Fatal("expected shipping review email")
	}
	link, err := url.Parse(msg.Payload["confirmUrl"])
	if err != nil {
		t.Fatalf("parse confirm url: %v", err)
	}
	return link.Query().Get("token")
}

func testAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:     "Asha Rao",
		AddressLine1: "12 Sun Street",
		City:         "Pune",
		State:        "MH",
		PostalCode:   "411001",
		Phone:        "9000000000",
	}
}

func TestStoreFacadeCheckoutAndReview(t *testing.T) {
	facade, store := newFacade()
	ctx := context.Background()

	usr := store.Users.Add(model.User{Name: "Asha", Email: "asha@example.com", Role: model.RoleCustomer, EmailVerified: true})
	panel := store.Catalog.Add(model.Product{Name: "Panel", Slug: "panel", Price: decimal.RequireFromString("125"), Stock: 5})

	cart, err := facade.AddCartItem(ctx, usr.ID, panel.ID, 2)
	if err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one cart line, got %d", len(cart.Items))
	}

	order, err := facade.PlaceOrder(ctx, usr.ID, usecase.PlaceOrderInput{ShippingAddress: testAddress(), PaymentMethod: "cod"})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.TotalAmount.Valid {
		t.Fatalf("expected no total before shipping is assigned")
	}
	if n, _ := facade.CartCount(ctx, usr.ID); n != 0 {
		t.Fatalf("expected empty cart after checkout, got %d", n)
	}

	if _, err := facade.AssignShipping(ctx, order.ID, decimal.RequireFromString("30"), "zone B"); err != nil {
		t.Fatalf("assign shipping: %v", err)
	}
	token := reviewToken(t, store)

	preview, err := facade.PreviewReview(ctx, order.ID, token)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Phase() != model.PhaseAwaitingConfirmation {
		t.Fatalf("unexpected phase %q", preview.Phase())
	}

	confirmed, err := facade.ConfirmReview(ctx, order.ID, token)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != model.OrderStatusProcessing {
		t.Fatalf("expected processing, got %q", confirmed.Status)
	}
	if !confirmed.TotalAmount.Decimal.Equal(decimal.RequireFromString("280")) {
		t.Fatalf("unexpected total %s", confirmed.TotalAmount.Decimal)
	}

	if _, err := facade.CancelReview(ctx, order.ID, token, ""); !errors.Is(err, domainErrors.ErrInvalidToken) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}

	orders, total, err := facade.Orders(ctx, usr.ID, usecase.OrderQuery{})
	if err != nil || total != 1 || len(orders) != 1 {
		t.Fatalf("unexpected order listing %d/%d err=%v", len(orders), total, err)
	}
	if _, err := facade.Order(ctx, usr.ID+1, order.ID); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for another user, got %v", err)
	}

	unread, err := facade.UnreadNotifications(ctx, usr.ID)
	if err != nil || unread != 3 {
		t.Fatalf("expected three unread notifications, got %d err=%v", unread, err)
	}
}

func TestStoreFacadeAdminOrders(t *testing.T) {
	facade, store := newFacade()
	ctx := context.Background()

	usr := store.Users.Add(model.User{Name: "Ravi", Email: "ravi@example.com", Role: model.RoleCustomer, EmailVerified: true})
	inverter := store.Catalog.Add(model.Product{Name: "Inverter", Slug: "inverter", Price: decimal.RequireFromString("400"), Stock: 5})
	if _, err := facade.AddCartItem(ctx, usr.ID, inverter.ID, 1); err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	order, err := facade.PlaceOrder(ctx, usr.ID, usecase.PlaceOrderInput{ShippingAddress: testAddress(), PaymentMethod: "bank_transfer"})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	awaiting, total, err := facade.AdminOrders(ctx, usecase.AdminOrderQuery{Phase: string(model.PhaseAwaitingShippingCharge)})
	if err != nil || total != 1 || len(awaiting) != 1 {
		t.Fatalf("unexpected admin listing %d/%d err=%v", len(awaiting), total, err)
	}

	cancelled, err := facade.AdvanceOrder(ctx, order.ID, "cancelled", "out of stock")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if cancelled.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %q", cancelled.Status)
	}

	var buf bytes.Buffer
	if err := facade.ExportOrders(ctx, &buf, usecase.AdminOrderQuery{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}
}

func TestStoreFacadeAuth(t *testing.T) {
	facade, store := newFacade()
	ctx := context.Background()

	if err := facade.EnsureAdmin(ctx, "admin@example.com", "admin-pass"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	admin, token, err := facade.Authenticate(ctx, "ADMIN@example.com", "admin-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	identity, err := facade.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if identity.UserID != admin.ID || identity.Role != model.RoleAdmin {
		t.Fatalf("unexpected identity %+v", identity)
	}
	current, err := facade.CurrentUser(ctx, admin.ID)
	if err != nil || current.Email != "admin@example.com" {
		t.Fatalf("unexpected current user %+v err=%v", current, err)
	}
	if len(store.Outbox.Messages) != 0 {
		t.Fatalf("bootstrap must not send verification emails")
	}
}

func TestStoreFacadeOutbox(t *testing.T) {
	facade, store := newFacade()
	ctx := context.Background()

	for _, recipient := range []string{"a@example.com", "b@example.com"} {
		if err := store.Outbox.Enqueue(ctx, model.EmailMessage{Recipient: recipient, Template: model.TemplateOrderStatus}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	pending, err := facade.PendingEmails(ctx, 10)
	if err != nil || len(pending) != 2 {
		t.Fatalf("expected two pending emails, got %d err=%v", len(pending), err)
	}
	if err := facade.SendEmail(ctx, pending[0]); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := facade.MarkEmailSent(ctx, pending[0].ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := facade.MarkEmailFailed(ctx, pending[1].ID, "smtp down"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	if store.Outbox.Messages[0].Status != model.EmailSent {
		t.Fatalf("expected first email sent, got %q", store.Outbox.Messages[0].Status)
	}
	if store.Outbox.Messages[1].LastError != "smtp down" || store.Outbox.Messages[1].Attempts != 1 {
		t.Fatalf("unexpected failed email %+v", store.Outbox.Messages[1])
	}
}

func TestStoreFacadeCoupons(t *testing.T) {
	facade, _ := newFacade()
	ctx := context.Background()

	if _, err := facade.CreateCoupon(ctx, usecase.CouponInput{
		Code:       "sun10",
		PercentOff: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		Active:     true,
	}); err != nil {
		t.Fatalf("create coupon: %v", err)
	}
	coupon, discount, err := facade.PreviewCoupon(ctx, "SUN10", decimal.NewFromInt(250))
	if err != nil {
		t.Fatalf("preview coupon: %v", err)
	}
	if coupon.Code != "SUN10" || !discount.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("unexpected coupon %s discount %s", coupon.Code, discount)
	}
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/solarstore/internal/config"
	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
)

// PlaceOrderInput is the checkout form.
type PlaceOrderInput struct {
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
	CouponCode      string
	EMITenureMonths int
}

// OrderQuery narrows a customer's order listing.
type OrderQuery struct {
	Status string
	Search string
	Oldest bool
	Page   model.Page
}

// OrderDependencies groups collaborators of OrderUseCase.
type OrderDependencies struct {
	fx.In

	Orders  repository.OrderRepository
	Carts   repository.CartRepository
	Users   repository.UserRepository
	Coupons repository.CouponRepository
	Signer  *pkgAuth.ConfirmationSigner
	Config  *config.Config
}

// OrderUseCase drives the order lifecycle and the shipping-review workflow.
type OrderUseCase struct {
	orders     repository.OrderRepository
	carts      repository.CartRepository
	users      repository.UserRepository
	coupons    repository.CouponRepository
	signer     *pkgAuth.ConfirmationSigner
	taxRate    decimal.Decimal
	emiRate    decimal.Decimal
	storefront string
	now        func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(deps OrderDependencies) *OrderUseCase {
	return &OrderUseCase{
		orders:     deps.Orders,
		carts:      deps.Carts,
		users:      deps.Users,
		coupons:    deps.Coupons,
		signer:     deps.Signer,
		taxRate:    deps.Config.TaxRate,
		emiRate:    deps.Config.EMIInterestRate,
		storefront: strings.TrimRight(deps.Config.StorefrontURL, "/"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Place turns the caller's cart into a pending order awaiting a shipping charge.
// The cart is cleared in the same transaction.
func (u *OrderUseCase) Place(ctx context.Context, userID int64, in PlaceOrderInput) (*model.Order, error) {
	addr := in.ShippingAddress.Normalize()
	invalid := addr.Missing()

	method, ok := model.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		invalid = append(invalid, "paymentMethod")
	}
	var tenure int
	if method == model.PaymentEMI {
		tenure = in.EMITenureMonths
		if tenure == 0 {
			tenure = model.DefaultEMITenure
		}
		if !model.ValidEMITenure(tenure) {
			invalid = append(invalid, "emiTenureMonths")
		}
	}
	if err := domainErrors.NewValidationError(invalid...); err != nil {
		return nil, err
	}

	cart, err := u.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	now := u.now()
	items := cart.Snapshot()
	subtotal := model.SumLines(items)

	code := model.NormalizeCouponCode(in.CouponCode)
	discount := decimal.Zero
	if code != "" {
		discount, err = u.couponDiscount(ctx, code, subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	order := &model.Order{
		ID:              id.String(),
		Number:          orderNumber(now, id),
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		Subtotal:        subtotal,
		CouponCode:      code,
		Discount:        discount,
		Tax:             model.RoundMoney(subtotal.Sub(discount).Mul(u.taxRate)),
		PaymentMethod:   method,
		EMITenureMonths: tenure,
	}
	order.Open(now)

	effects := u.statusEffects(order, usr, "Order placed",
		"Your order "+order.Number+" has been placed. We will review the shipping charge and email you to confirm.")
	effects.ClearCart = true

	if err := u.orders.Create(ctx, order, effects); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns the caller's own orders, newest first unless Oldest is set.
func (u *OrderUseCase) List(ctx context.Context, userID int64, q OrderQuery) ([]model.Order, int, error) {
	filter := repository.OrderFilter{
		UserID: userID,
		Search: strings.TrimSpace(q.Search),
		Oldest: q.Oldest,
		Page:   model.NewPage(q.Page.Number, q.Page.Size),
	}
	if q.Status != "" {
		status, ok := model.ParseOrderStatus(q.Status)
		if !ok {
			return nil, 0, domainErrors.NewValidationError("status")
		}
		filter.Status = status
	}
	return u.orders.List(ctx, filter)
}

// Get returns an order owned by the caller.
func (u *OrderUseCase) Get(ctx context.Context, userID int64, id string) (*model.Order, error) {
	order, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// Cancel is the session-authenticated cancellation by the owner. Allowed while
// the order is pending or processing.
func (u *OrderUseCase) Cancel(ctx context.Context, userID int64, id, reason string) (*model.Order, error) {
	order, err := u.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusProcessing {
		return nil, &domainErrors.InvalidStateError{Op: "cancel", Status: string(order.Status), Phase: string(order.Phase())}
	}
	if err := order.Cancel(reason, u.now()); err != nil {
		return nil, err
	}
	return u.save(ctx, order, "Order cancelled", "Your order "+order.Number+" has been cancelled.")
}

func (u *OrderUseCase) couponDiscount(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	coupon, err := u.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return decimal.Zero, domainErrors.ErrCouponInvalid
		}
		return decimal.Zero, err
	}
	return coupon.Discount(subtotal, now)
}

func (u *OrderUseCase) load(ctx context.Context, id string) (*model.Order, error) {
	return loadOrder(ctx, u.orders, id)
}

// loadOrder fetches an order; malformed ids are reported as not found
// without reaching storage.
func loadOrder(ctx context.Context, orders repository.OrderRepository, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domainErrors.ErrNotFound
	}
	return orders.GetByID(ctx, id)
}

// save persists a transition together with the owner's notification and
// status email.
func (u *OrderUseCase) save(ctx context.Context, order *model.Order, title, message string) (*model.Order, error) {
	usr, err := u.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Update(ctx, order, u.statusEffects(order, usr, title, message)); err != nil {
		return nil, err
	}
	return order, nil
}

func (u *OrderUseCase) statusEffects(order *model.Order, usr *model.User, title, message string) repository.OrderSideEffects {
	return repository.OrderSideEffects{
		Notifications: []model.Notification{{
			UserID:  order.UserID,
			Kind:    model.NotificationOrder,
			Title:   title,
			Message: message,
			Link:    "/orders/" + order.ID,
		}},
		Emails: []model.EmailMessage{{
			Recipient: usr.Email,
			Template:  model.TemplateOrderStatus,
			Payload: map[string]string{
				"name":        usr.Name,
				"orderNumber": order.Number,
				"status":      string(order.Status),
				"message":     message,
				"orderUrl":    u.storefront + "/orders/" + order.ID,
			},
		}},
	}
}

// orderNumber renders SOL-YYYYMMDD-XXXXXXXX from the placement date and id.
func orderNumber(now time.Time, id uuid.UUID) string {
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "SOL-" + now.Format("20060102") + "-" + hex[:8]
}

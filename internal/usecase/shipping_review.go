package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

// AssignShipping prices an order awaiting its shipping charge and emails the
// customer a single-use confirmation link.
func (u *OrderUseCase) AssignShipping(ctx context.Context, id string, fee decimal.Decimal, comment string) (*model.Order, error) {
	order, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := u.now()
	if err := order.AssignShippingFee(fee, comment, now); err != nil {
		return nil, err
	}

	token, digest, expiresAt, err := u.signer.Issue(order.ID)
	if err != nil {
		return nil, err
	}
	order.AttachConfirmation(digest, expiresAt)

	usr, err := u.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	total := order.TotalAmount.Decimal.StringFixed(2)
	message := "Shipping for order " + order.Number + " is " + order.ShippingFee.Decimal.StringFixed(2) +
		". Your total is " + total + ". Please confirm or cancel using the link in your email."
	effects := u.statusEffects(order, usr, "Shipping charge added", message)
	effects.Emails = []model.EmailMessage{{
		Recipient: usr.Email,
		Template:  model.TemplateShippingReview,
		Payload: map[string]string{
			"name":        usr.Name,
			"orderNumber": order.Number,
			"subtotal":    order.Subtotal.StringFixed(2),
			"discount":    order.Discount.StringFixed(2),
			"tax":         order.Tax.StringFixed(2),
			"shippingFee": order.ShippingFee.Decimal.StringFixed(2),
			"total":       total,
			"confirmUrl":  u.reviewLink(order.ID, token, "confirm"),
			"cancelUrl":   u.reviewLink(order.ID, token, "cancel"),
			"expiresAt":   expiresAt.UTC().Format("2006-01-02 15:04 MST"),
		},
	}}

	if err := u.orders.Update(ctx, order, effects); err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmByToken accepts a priced order on behalf of the token holder and
// consumes the token. EMI orders get their installment plan here.
func (u *OrderUseCase) ConfirmByToken(ctx context.Context, id, token string) (*model.Order, error) {
	order, err := u.orderForToken(ctx, id, token)
	if err != nil {
		return nil, err
	}
	now := u.now()
	if err := order.Confirm(now); err != nil {
		return nil, err
	}

	usr, err := u.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	effects := u.statusEffects(order, usr, "Order confirmed", "Thank you. Order "+order.Number+" is confirmed and now processing.")

	if order.PaymentMethod == model.PaymentEMI {
		plan := model.NewEMIPlan(order.TotalAmount.Decimal, order.EMITenureMonths, u.emiRate, now)
		plan.OrderID = order.ID
		plan.OrderNumber = order.Number
		plan.UserID = order.UserID
		effects.EMIPlan = &plan
		effects.Notifications = append(effects.Notifications, model.Notification{
			UserID:  order.UserID,
			Kind:    model.NotificationEMI,
			Title:   "EMI plan created",
			Message: plan.InstallmentAmount.StringFixed(2) + " per month for the order " + order.Number,
			Link:    "/orders/" + order.ID + "/emi",
		})
	}

	if err := u.orders.Update(ctx, order, effects); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelByToken cancels a priced order on behalf of the token holder and
// consumes the token.
func (u *OrderUseCase) CancelByToken(ctx context.Context, id, token, reason string) (*model.Order, error) {
	order, err := u.orderForToken(ctx, id, token)
	if err != nil {
		return nil, err
	}
	if order.Phase() != model.PhaseAwaitingConfirmation {
		return nil, &domainErrors.InvalidStateError{Op: "cancel", Status: string(order.Status), Phase: string(order.Phase())}
	}
	if err := order.Cancel(reason, u.now()); err != nil {
		return nil, err
	}
	return u.save(ctx, order, "Order cancelled", "Order "+order.Number+" was cancelled at your request.")
}

// PreviewByToken returns the order a still-valid token refers to without
// consuming it.
func (u *OrderUseCase) PreviewByToken(ctx context.Context, id, token string) (*model.Order, error) {
	return u.orderForToken(ctx, id, token)
}

// orderForToken loads the order only when token is signed for it, unexpired
// and matches the outstanding digest. Every failure is ErrInvalidToken.
func (u *OrderUseCase) orderForToken(ctx context.Context, id, token string) (*model.Order, error) {
	if token == "" {
		return nil, domainErrors.ErrInvalidToken
	}
	digest, err := u.signer.Verify(id, token)
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}

	order, err := u.load(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidToken
		}
		return nil, err
	}

	if order.ConfirmationDigest == "" ||
		subtle.ConstantTimeCompare([]byte(order.ConfirmationDigest), []byte(digest)) != 1 {
		return nil, domainErrors.ErrInvalidToken
	}
	if order.ConfirmationExpiresAt != nil && u.now().After(*order.ConfirmationExpiresAt) {
		return nil, domainErrors.ErrInvalidToken
	}
	return order, nil
}

func (u *OrderUseCase) reviewLink(orderID, token, action string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("action", action)
	return u.storefront + "/order-review/" + orderID + "?" + q.Encode()
}

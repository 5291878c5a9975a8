package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// CouponInput is the admin coupon form. Exactly one of PercentOff and
// AmountOff is set.
type CouponInput struct {
	Code        string
	PercentOff  decimal.NullDecimal
	AmountOff   decimal.NullDecimal
	MinSubtotal decimal.Decimal
	ExpiresAt   *time.Time
	Active      bool
}

// CouponUseCase manages discount codes.
type CouponUseCase struct {
	coupons repository.CouponRepository
	now     func() time.Time
}

// NewCouponUseCase constructs CouponUseCase.
func NewCouponUseCase(coupons repository.CouponRepository) *CouponUseCase {
	return &CouponUseCase{coupons: coupons, now: time.Now}
}

func (u *CouponUseCase) Create(ctx context.Context, in CouponInput) (*model.Coupon, error) {
	coupon := &model.Coupon{
		Code:        model.NormalizeCouponCode(in.Code),
		MinSubtotal: in.MinSubtotal,
		ExpiresAt:   in.ExpiresAt,
		Active:      in.Active,
	}

	var invalid []string
	if !validCouponCode(coupon.Code) {
		invalid = append(invalid, "code")
	}
	switch {
	case in.PercentOff.Valid && !in.AmountOff.Valid:
		coupon.Kind, coupon.Value = model.CouponPercent, in.PercentOff.Decimal
		if !coupon.Value.IsPositive() || coupon.Value.GreaterThan(hundred) {
			invalid = append(invalid, "percentOff")
		}
	case in.AmountOff.Valid && !in.PercentOff.Valid:
		coupon.Kind, coupon.Value = model.CouponFixed, model.RoundMoney(in.AmountOff.Decimal)
		if !coupon.Value.IsPositive() {
			invalid = append(invalid, "amountOff")
		}
	default:
		invalid = append(invalid, "percentOff", "amountOff")
	}
	if in.MinSubtotal.IsNegative() {
		invalid = append(invalid, "minSubtotal")
	}
	if err := domainErrors.NewValidationError(invalid...); err != nil {
		return nil, err
	}
	return u.coupons.Create(ctx, coupon)
}

// Preview reports the discount a code would give on subtotal.
func (u *CouponUseCase) Preview(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	coupon, err := u.coupons.GetByCode(ctx, model.NormalizeCouponCode(code))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, decimal.Zero, domainErrors.ErrCouponInvalid
		}
		return nil, decimal.Zero, err
	}
	discount, err := coupon.Discount(subtotal, u.now())
	if err != nil {
		return nil, decimal.Zero, err
	}
	return coupon, discount, nil
}

func validCouponCode(code string) bool {
	if len(code) < 3 || len(code) > 32 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

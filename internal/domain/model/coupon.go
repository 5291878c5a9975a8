package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
)

// CouponKind selects how Value is applied.
type CouponKind string

const (
	CouponPercent CouponKind = "percent"
	CouponFixed   CouponKind = "fixed"
)

// Coupon is a discount code applied at checkout.
type Coupon struct {
	ID          int64
	Code        string
	Kind        CouponKind
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	ExpiresAt   *time.Time
	Active      bool
	CreatedAt   time.Time
}

// NormalizeCouponCode makes codes case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount returns the amount taken off subtotal, capped at subtotal.
func (c *Coupon) Discount(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !c.Active {
		return decimal.Zero, domainErrors.ErrCouponInvalid
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return decimal.Zero, domainErrors.ErrCouponInvalid
	}
	if subtotal.LessThan(c.MinSubtotal) {
		return decimal.Zero, domainErrors.ErrCouponInvalid
	}

	var off decimal.Decimal
	switch c.Kind {
	case CouponPercent:
		off = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	case CouponFixed:
		off = c.Value
	default:
		return decimal.Zero, domainErrors.ErrCouponInvalid
	}
	if off.GreaterThan(subtotal) {
		off = subtotal
	}
	return RoundMoney(off), nil
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

type CouponRequest struct {
	Code        string           `json:"code"`
	PercentOff  *decimal.Decimal `json:"percentOff"`
	AmountOff   *decimal.Decimal `json:"amountOff"`
	MinSubtotal *decimal.Decimal `json:"minSubtotal"`
	ExpiresAt   *time.Time       `json:"expiresAt"`
	Active      *bool            `json:"active"`
}

type CouponResponse struct {
	Code        string     `json:"code"`
	Kind        string     `json:"kind"`
	Value       string     `json:"value"`
	MinSubtotal string     `json:"minSubtotal"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Active      bool       `json:"active"`
}

type CouponPreviewResponse struct {
	Coupon   CouponResponse `json:"coupon"`
	Discount string         `json:"discount"`
}

func NewCouponResponse(c *model.Coupon) CouponResponse {
	return CouponResponse{
		Code:        c.Code,
		Kind:        string(c.Kind),
		Value:       c.Value.String(),
		MinSubtotal: Money(c.MinSubtotal),
		ExpiresAt:   c.ExpiresAt,
		Active:      c.Active,
	}
}

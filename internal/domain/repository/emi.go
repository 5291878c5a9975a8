package repository

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// EMIRepository reads installment plans.
type EMIRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.EMIPlan, error)
	GetByID(ctx context.Context, id int64) (*model.EMIPlan, error)
	GetByOrder(ctx context.Context, orderID string) (*model.EMIPlan, error)
}

// CouponRepository manages discount codes.
type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

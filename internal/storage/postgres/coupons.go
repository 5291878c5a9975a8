package postgres

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

type couponRepository struct {
	storage *Storage
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	const query = `INSERT INTO coupons (code, kind, value, min_subtotal, expires_at, active)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	created := *coupon
	err := r.storage.pool.QueryRow(ctx, query, coupon.Code, coupon.Kind, coupon.Value, coupon.MinSubtotal, coupon.ExpiresAt, coupon.Active).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const query = `SELECT id, code, kind, value, min_subtotal, expires_at, active, created_at FROM coupons WHERE code=$1`
	var c model.Coupon
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinSubtotal, &c.ExpiresAt, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

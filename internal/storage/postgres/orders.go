package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, number, user_id, items, shipping_address, subtotal, coupon_code, discount, tax,
       shipping_fee, total_amount, status, payment_method, emi_tenure_months, cancel_reason, status_history,
       confirmation_digest, confirmation_expires_at, version, created_at, updated_at`

type orderDocs struct {
	items   []byte
	address []byte
	history []byte
}

func encodeOrderDocs(o *model.Order) (orderDocs, error) {
	var (
		docs orderDocs
		err  error
	)
	if docs.items, err = json.Marshal(o.Items); err != nil {
		return docs, fmt.Errorf("encode items: %w", err)
	}
	if docs.address, err = json.Marshal(o.ShippingAddress); err != nil {
		return docs, fmt.Errorf("encode address: %w", err)
	}
	history := o.StatusHistory
	if history == nil {
		history = []model.StatusUpdate{}
	}
	if docs.history, err = json.Marshal(history); err != nil {
		return docs, fmt.Errorf("encode history: %w", err)
	}
	return docs, nil
}

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var (
		o    model.Order
		docs orderDocs
	)
	if err := row.Scan(&o.ID, &o.Number, &o.UserID, &docs.items, &docs.address, &o.Subtotal, &o.CouponCode, &o.Discount, &o.Tax,
		&o.ShippingFee, &o.TotalAmount, &o.Status, &o.PaymentMethod, &o.EMITenureMonths, &o.CancelReason, &docs.history,
		&o.ConfirmationDigest, &o.ConfirmationExpiresAt, &o.Version, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docs.items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(docs.address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if len(docs.history) > 0 {
		if err := json.Unmarshal(docs.history, &o.StatusHistory); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, effects repository.OrderSideEffects) error {
	docs, err := encodeOrderDocs(order)
	if err != nil {
		return err
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insert = `INSERT INTO orders (id, number, user_id, items, shipping_address, subtotal, coupon_code, discount, tax,
                        shipping_fee, total_amount, status, payment_method, emi_tenure_months, status_history, version, created_at, updated_at)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $16)`
		_, err := tx.Exec(ctx, insert, order.ID, order.Number, order.UserID, docs.items, docs.address, order.Subtotal,
			order.CouponCode, order.Discount, order.Tax, order.ShippingFee, order.TotalAmount, order.Status,
			order.PaymentMethod, order.EMITenureMonths, docs.history, order.CreatedAt)
		if err != nil {
			return mapError(err)
		}
		order.Version = 1
		return applySideEffects(ctx, tx, order.UserID, effects)
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func orderWhere(filter repository.OrderFilter) *whereBuilder {
	var where whereBuilder
	if filter.UserID > 0 {
		where.add("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}
	switch filter.Phase {
	case model.PhaseAwaitingShippingCharge:
		where.addRaw("status = 'pending' AND shipping_fee IS NULL")
	case model.PhaseAwaitingConfirmation:
		where.addRaw("status = 'pending' AND shipping_fee IS NOT NULL")
	}
	if filter.Search != "" {
		where.add("(number ILIKE ? OR shipping_address->>'fullName' ILIKE ?)", "%"+filter.Search+"%")
	}
	return &where
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int, error) {
	where := orderWhere(filter)

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	order := " ORDER BY created_at DESC, number DESC"
	if filter.Oldest {
		order = " ORDER BY created_at ASC, number ASC"
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + where.sql() + order + where.paginate(filter.Page)
	rows, err := r.storage.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order, effects repository.OrderSideEffects) error {
	docs, err := encodeOrderDocs(order)
	if err != nil {
		return err
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE orders SET shipping_fee=$1, total_amount=$2, status=$3, cancel_reason=$4, status_history=$5,
                        confirmation_digest=$6, confirmation_expires_at=$7, version=version+1, updated_at=$8
                        WHERE id=$9 AND version=$10`
		tag, err := tx.Exec(ctx, update, order.ShippingFee, order.TotalAmount, order.Status, order.CancelReason, docs.history,
			order.ConfirmationDigest, order.ConfirmationExpiresAt, order.UpdatedAt, order.ID, order.Version)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConflict
		}
		if effects.EMIPlan != nil {
			if err := insertEMIPlan(ctx, tx, effects.EMIPlan); err != nil {
				return err
			}
		}
		if err := applySideEffects(ctx, tx, order.UserID, effects); err != nil {
			return err
		}
		order.Version++
		return nil
	})
}

func (r *orderRepository) CountByStatus(ctx context.Context, userID int64) (map[model.OrderStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM orders WHERE user_id=$1 GROUP BY status`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int)
	for rows.Next() {
		var (
			status model.OrderStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// applySideEffects writes notifications, outbox emails and cart clearing
// within the order transaction.
func applySideEffects(ctx context.Context, tx querier, userID int64, effects repository.OrderSideEffects) error {
	for i := range effects.Notifications {
		if err := insertNotification(ctx, tx, &effects.Notifications[i]); err != nil {
			return err
		}
	}
	for _, msg := range effects.Emails {
		if err := enqueueEmail(ctx, tx, msg); err != nil {
			return err
		}
	}
	if effects.ClearCart {
		if err := clearCart(ctx, tx, userID); err != nil {
			return err
		}
	}
	return nil
}

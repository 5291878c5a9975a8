package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

type emiRepository struct {
	storage *Storage
}

const emiColumns = `id, order_id, order_number, user_id, principal, tenure_months, annual_rate, installment_amount,
       total_payable, start_date, end_date, installments, created_at`

func insertEMIPlan(ctx context.Context, q querier, plan *model.EMIPlan) error {
	installments, err := json.Marshal(plan.Installments)
	if err != nil {
		return fmt.Errorf("encode installments: %w", err)
	}
	const query = `INSERT INTO emi_plans (order_id, order_number, user_id, principal, tenure_months, annual_rate,
                   installment_amount, total_payable, start_date, end_date, installments)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, created_at`
	err = q.QueryRow(ctx, query, plan.OrderID, plan.OrderNumber, plan.UserID, plan.Principal, plan.TenureMonths, plan.AnnualRate,
		plan.InstallmentAmount, plan.TotalPayable, plan.StartDate, plan.EndDate, installments).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert emi plan: %w", mapError(err))
	}
	return nil
}

func scanEMIPlan(row interface{ Scan(...any) error }) (*model.EMIPlan, error) {
	var (
		p            model.EMIPlan
		installments []byte
	)
	if err := row.Scan(&p.ID, &p.OrderID, &p.OrderNumber, &p.UserID, &p.Principal, &p.TenureMonths, &p.AnnualRate,
		&p.InstallmentAmount, &p.TotalPayable, &p.StartDate, &p.EndDate, &installments, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(installments, &p.Installments); err != nil {
		return nil, fmt.Errorf("decode installments: %w", err)
	}
	return &p, nil
}

func (r *emiRepository) ListByUser(ctx context.Context, userID int64) ([]model.EMIPlan, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+emiColumns+` FROM emi_plans WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list emi plans: %w", err)
	}
	defer rows.Close()

	var result []model.EMIPlan
	for rows.Next() {
		p, err := scanEMIPlan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *emiRepository) GetByID(ctx context.Context, id int64) (*model.EMIPlan, error) {
	p, err := scanEMIPlan(r.storage.pool.QueryRow(ctx, `SELECT `+emiColumns+` FROM emi_plans WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *emiRepository) GetByOrder(ctx context.Context, orderID string) (*model.EMIPlan, error) {
	p, err := scanEMIPlan(r.storage.pool.QueryRow(ctx, `SELECT `+emiColumns+` FROM emi_plans WHERE order_id=$1`, orderID))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

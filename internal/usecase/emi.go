package usecase

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

// EMIUseCase exposes installment schedules to their owners.
type EMIUseCase struct {
	plans  repository.EMIRepository
	orders repository.OrderRepository
	now    func() time.Time
}

// NewEMIUseCase constructs EMIUseCase.
func NewEMIUseCase(plans repository.EMIRepository, orders repository.OrderRepository) *EMIUseCase {
	return &EMIUseCase{plans: plans, orders: orders, now: time.Now}
}

// List returns every plan of the caller.
func (u *EMIUseCase) List(ctx context.Context, userID int64) ([]model.EMIPlan, error) {
	plans, err := u.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	for i := range plans {
		markOverdue(&plans[i], now)
	}
	return plans, nil
}

// Get returns a plan owned by the caller.
func (u *EMIUseCase) Get(ctx context.Context, userID, id int64) (*model.EMIPlan, error) {
	plan, err := u.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	markOverdue(plan, u.now())
	return plan, nil
}

// ForOrder returns the plan attached to one of the caller's orders.
func (u *EMIUseCase) ForOrder(ctx context.Context, userID int64, orderID string) (*model.EMIPlan, error) {
	order, err := loadOrder(ctx, u.orders, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	plan, err := u.plans.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	markOverdue(plan, u.now())
	return plan, nil
}

func markOverdue(plan *model.EMIPlan, now time.Time) {
	for i := range plan.Installments {
		plan.Installments[i].Status = plan.Installments[i].EffectiveStatus(now)
	}
}

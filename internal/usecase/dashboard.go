package usecase

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

const dashboardRecent = 5

// Dashboard is the customer's account overview.
type Dashboard struct {
	OrderCounts          map[model.OrderStatus]int
	AwaitingConfirmation []model.Order
	UnreadNotifications  int
	ActivePlans          []model.EMIPlan
	RecentOrders         []model.Order
}

// DashboardUseCase aggregates the account overview.
type DashboardUseCase struct {
	orders        repository.OrderRepository
	notifications repository.NotificationRepository
	emi           *EMIUseCase
}

// NewDashboardUseCase constructs DashboardUseCase.
func NewDashboardUseCase(orders repository.OrderRepository, notifications repository.NotificationRepository, emi *EMIUseCase) *DashboardUseCase {
	return &DashboardUseCase{orders: orders, notifications: notifications, emi: emi}
}

func (u *DashboardUseCase) Summary(ctx context.Context, userID int64) (*Dashboard, error) {
	counts, err := u.orders.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	awaiting, _, err := u.orders.List(ctx, repository.OrderFilter{
		UserID: userID,
		Phase:  model.PhaseAwaitingConfirmation,
		Page:   model.NewPage(1, model.MaxPageSize),
	})
	if err != nil {
		return nil, err
	}
	recent, _, err := u.orders.List(ctx, repository.OrderFilter{UserID: userID, Page: model.NewPage(1, dashboardRecent)})
	if err != nil {
		return nil, err
	}
	unread, err := u.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans, err := u.emi.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := make([]model.EMIPlan, 0, len(plans))
	for _, p := range plans {
		if p.Active() {
			active = append(active, p)
		}
	}

	for _, st := range []model.OrderStatus{
		model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCancelled,
	} {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}

	return &Dashboard{
		OrderCounts:          counts,
		AwaitingConfirmation: awaiting,
		UnreadNotifications:  unread,
		ActivePlans:          active,
		RecentOrders:         recent,
	}, nil
}

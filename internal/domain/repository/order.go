package repository

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// OrderFilter narrows order listings. UserID zero means every user.
type OrderFilter struct {
	UserID int64
	Status model.OrderStatus
	Phase  model.ReviewPhase
	Search string
	Oldest bool
	Page   model.Page
}

// OrderSideEffects are written in the same transaction as an order change.
type OrderSideEffects struct {
	Notifications []model.Notification
	Emails        []model.EmailMessage
	EMIPlan       *model.EMIPlan
	ClearCart     bool
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create inserts the order and applies effects atomically.
	Create(ctx context.Context, order *model.Order, effects OrderSideEffects) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int, error)
	// Update writes the order if its version still matches, bumping it.
	// A stale version yields errors.ErrConflict.
	Update(ctx context.Context, order *model.Order, effects OrderSideEffects) error
	CountByStatus(ctx context.Context, userID int64) (map[model.OrderStatus]int, error)
}

package usecase

import (
	"context"
	"io"
	"strings"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
	"github.com/polkiloo/solarstore/internal/report"
)

// maxExportRows bounds a single spreadsheet export.
const maxExportRows = 10000

// AdminOrderQuery narrows the back-office order listing.
type AdminOrderQuery struct {
	Status string
	Phase  string
	Search string
	Page   model.Page
}

func (q AdminOrderQuery) filter() (repository.OrderFilter, error) {
	filter := repository.OrderFilter{
		Search: strings.TrimSpace(q.Search),
		Page:   model.NewPage(q.Page.Number, q.Page.Size),
	}
	var invalid []string
	if q.Status != "" {
		status, ok := model.ParseOrderStatus(q.Status)
		if !ok {
			invalid = append(invalid, "status")
		}
		filter.Status = status
	}
	switch phase := model.ReviewPhase(strings.TrimSpace(q.Phase)); phase {
	case model.PhaseNone, model.PhaseAwaitingShippingCharge, model.PhaseAwaitingConfirmation:
		filter.Phase = phase
	default:
		invalid = append(invalid, "phase")
	}
	return filter, domainErrors.NewValidationError(invalid...)
}

// AdminList returns orders of every customer.
func (u *OrderUseCase) AdminList(ctx context.Context, q AdminOrderQuery) ([]model.Order, int, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, 0, err
	}
	return u.orders.List(ctx, filter)
}

// AdminGet returns any order regardless of owner.
func (u *OrderUseCase) AdminGet(ctx context.Context, id string) (*model.Order, error) {
	return u.load(ctx, id)
}

// AdminAdvance applies a forward status move or a cancellation.
func (u *OrderUseCase) AdminAdvance(ctx context.Context, id, status, comment string) (*model.Order, error) {
	to, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, domainErrors.NewValidationError("status")
	}
	order, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Advance(to, strings.TrimSpace(comment), u.now()); err != nil {
		return nil, err
	}

	title, message := "Order "+string(to), "Your order "+order.Number+" is now "+string(to)+"."
	if to == model.OrderStatusCancelled {
		title, message = "Order cancelled", "Your order "+order.Number+" has been cancelled by the store."
		if order.CancelReason != "" {
			message += " Reason: " + order.CancelReason
		}
	}
	return u.save(ctx, order, title, message)
}

// Export writes every order matching q as an xlsx workbook.
func (u *OrderUseCase) Export(ctx context.Context, w io.Writer, q AdminOrderQuery) error {
	filter, err := q.filter()
	if err != nil {
		return err
	}

	var all []model.Order
	filter.Page = model.Page{Number: 1, Size: model.MaxPageSize}
	for len(all) < maxExportRows {
		orders, total, err := u.orders.List(ctx, filter)
		if err != nil {
			return err
		}
		all = append(all, orders...)
		if len(orders) == 0 || len(all) >= total {
			break
		}
		filter.Page.Number++
	}
	return report.WriteOrders(w, all)
}

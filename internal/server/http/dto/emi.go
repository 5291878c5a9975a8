package dto

import (
	"time"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

type InstallmentResponse struct {
	Number  int        `json:"number"`
	DueDate time.Time  `json:"dueDate"`
	Amount  string     `json:"amount"`
	Status  string     `json:"status"`
	PaidAt  *time.Time `json:"paidAt,omitempty"`
}

type EMIPlanResponse struct {
	ID                int64                 `json:"id"`
	OrderID           string                `json:"orderId"`
	OrderNumber       string                `json:"orderNumber"`
	TotalAmount       string                `json:"totalAmount"`
	TenureMonths      int                   `json:"tenureMonths"`
	InterestRate      string                `json:"interestRate"`
	InstallmentAmount string                `json:"installmentAmount"`
	TotalPayable      string                `json:"totalPayable"`
	StartDate         time.Time             `json:"startDate"`
	EndDate           time.Time             `json:"endDate"`
	Active            bool                  `json:"active"`
	Installments      []InstallmentResponse `json:"installments"`
}

func NewEMIPlanResponse(p *model.EMIPlan) EMIPlanResponse {
	installments := make([]InstallmentResponse, 0, len(p.Installments))
	for _, inst := range p.Installments {
		installments = append(installments, InstallmentResponse{
			Number:  inst.Number,
			DueDate: inst.DueDate,
			Amount:  Money(inst.Amount),
			Status:  string(inst.Status),
			PaidAt:  inst.PaidAt,
		})
	}
	return EMIPlanResponse{
		ID:                p.ID,
		OrderID:           p.OrderID,
		OrderNumber:       p.OrderNumber,
		TotalAmount:       Money(p.Principal),
		TenureMonths:      p.TenureMonths,
		InterestRate:      p.AnnualRate.String(),
		InstallmentAmount: Money(p.InstallmentAmount),
		TotalPayable:      Money(p.TotalPayable),
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		Active:            p.Active(),
		Installments:      installments,
	}
}

func NewEMIPlanList(plans []model.EMIPlan) []EMIPlanResponse {
	out := make([]EMIPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, NewEMIPlanResponse(&plans[i]))
	}
	return out
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is driven by payment events outside the storefront.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// DefaultEMITenure is used when checkout does not pick a tenure.
const DefaultEMITenure = 6

var emiTenures = map[int]bool{3: true, 6: true, 9: true, 12: true, 18: true, 24: true}

// ValidEMITenure reports whether months is an offered tenure.
func ValidEMITenure(months int) bool {
	return emiTenures[months]
}

// Installment is one scheduled EMI payment.
type Installment struct {
	Number  int               `json:"number"`
	DueDate time.Time         `json:"dueDate"`
	Amount  decimal.Decimal   `json:"amount"`
	Status  InstallmentStatus `json:"status"`
	PaidAt  *time.Time        `json:"paidAt,omitempty"`
}

// EffectiveStatus reports pending instalments past their due date as overdue.
func (i Installment) EffectiveStatus(now time.Time) InstallmentStatus {
	if i.Status == InstallmentPending && now.After(i.DueDate) {
		return InstallmentOverdue
	}
	return i.Status
}

// EMIPlan is the installment schedule of an order.
type EMIPlan struct {
	ID                int64
	OrderID           string
	OrderNumber       string
	UserID            int64
	Principal         decimal.Decimal
	TenureMonths      int
	AnnualRate        decimal.Decimal
	InstallmentAmount decimal.Decimal
	TotalPayable      decimal.Decimal
	StartDate         time.Time
	EndDate           time.Time
	Installments      []Installment
	CreatedAt         time.Time
}

// Active reports whether any installment remains unpaid.
func (p *EMIPlan) Active() bool {
	for _, inst := range p.Installments {
		if inst.Status != InstallmentPaid {
			return true
		}
	}
	return false
}

// NewEMIPlan builds a reducing-balance schedule with monthly due dates
// starting one month after start.
func NewEMIPlan(principal decimal.Decimal, months int, annualRate decimal.Decimal, start time.Time) EMIPlan {
	if months < 1 {
		months = DefaultEMITenure
	}
	n := decimal.NewFromInt(int64(months))
	monthly := annualRate.Div(decimal.NewFromInt(12))

	var amount decimal.Decimal
	if monthly.IsZero() {
		amount = RoundMoney(principal.Div(n))
	} else {
		factor := decimal.NewFromInt(1).Add(monthly).Pow(n)
		amount = RoundMoney(principal.Mul(monthly).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))))
	}

	plan := EMIPlan{
		Principal:         RoundMoney(principal),
		TenureMonths:      months,
		AnnualRate:        annualRate,
		InstallmentAmount: amount,
		StartDate:         start,
		EndDate:           start.AddDate(0, months, 0),
		Installments:      make([]Installment, 0, months),
	}

	total := decimal.Zero
	for i := 1; i <= months; i++ {
		inst := Installment{
			Number:  i,
			DueDate: start.AddDate(0, i, 0),
			Amount:  amount,
			Status:  InstallmentPending,
		}
		if i == months && monthly.IsZero() {
			inst.Amount = plan.Principal.Sub(total)
		}
		total = total.Add(inst.Amount)
		plan.Installments = append(plan.Installments, inst)
	}
	plan.TotalPayable = total
	return plan
}

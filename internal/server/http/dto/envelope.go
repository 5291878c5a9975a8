package dto

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// Envelope wraps every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the uniform failure body. CurrentStatus and CurrentPhase
// let clients resync after a rejected order transition.
type ErrorResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	Fields        []string `json:"fields,omitempty"`
	CurrentStatus string   `json:"currentStatus,omitempty"`
	CurrentPhase  string   `json:"currentPhase,omitempty"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes page counters.
func NewPagination(page model.Page, total int) Pagination {
	return Pagination{
		Page:       page.Number,
		PageSize:   page.Limit(),
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}

// Money renders amounts with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NullMoney renders nil for an absent amount.
func NullMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := Money(d.Decimal)
	return &s
}

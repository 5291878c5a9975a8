package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// Client refresh intervals for order views.
const (
	OrderDetailPollSeconds = 30
	OrderListPollSeconds   = 60
)

// TotalToBeDetermined is shown while the shipping fee is unset.
const TotalToBeDetermined = "To be determined"

type AddressDTO struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country,omitempty"`
	Phone        string `json:"phone"`
}

func (a AddressDTO) Model() model.ShippingAddress {
	return model.ShippingAddress(a)
}

type PlaceOrderRequest struct {
	ShippingAddress AddressDTO `json:"shippingAddress"`
	PaymentMethod   string     `json:"paymentMethod"`
	CouponCode      string     `json:"couponCode"`
	EMITenureMonths int        `json:"emiTenureMonths"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type ShippingChargeRequest struct {
	ShippingFee *decimal.Decimal `json:"shippingFee"`
	Comment     string           `json:"comment"`
}

// TokenActionRequest carries the emailed confirmation token.
type TokenActionRequest struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

type StatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type LineItemResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"lineTotal"`
}

type StatusUpdateResponse struct {
	Status    string    `json:"status"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderResponse renders amounts as fixed two-decimal strings. ShippingFee and
// TotalAmount are null until the shipping charge is set.
type OrderResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"orderNumber"`
	Items           []LineItemResponse     `json:"items"`
	ItemCount       int                    `json:"itemCount"`
	ShippingAddress AddressDTO             `json:"shippingAddress"`
	Subtotal        string                 `json:"subtotal"`
	CouponCode      string                 `json:"couponCode,omitempty"`
	Discount        string                 `json:"discount"`
	Tax             string                 `json:"tax"`
	ShippingFee     *string                `json:"shippingFee"`
	TotalAmount     *string                `json:"totalAmount"`
	TotalDisplay    string                 `json:"totalDisplay"`
	OrderStatus     string                 `json:"orderStatus"`
	ReviewPhase     string                 `json:"reviewPhase,omitempty"`
	PaymentMethod   string                 `json:"paymentMethod"`
	EMITenureMonths int                    `json:"emiTenureMonths,omitempty"`
	CancelReason    string                 `json:"cancelReason,omitempty"`
	StatusHistory   []StatusUpdateResponse `json:"statusHistory"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type OrderDetailResponse struct {
	Order               OrderResponse `json:"order"`
	PollIntervalSeconds int           `json:"pollIntervalSeconds"`
}

type OrderListResponse struct {
	Orders              []OrderResponse `json:"orders"`
	Pagination          Pagination      `json:"pagination"`
	PollIntervalSeconds int             `json:"pollIntervalSeconds,omitempty"`
}

func NewOrderResponse(o *model.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(o.Items))
	var count int
	for _, it := range o.Items {
		count += it.Quantity
		items = append(items, LineItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Quantity,
			Price:     Money(it.UnitPrice),
			LineTotal: Money(it.LineTotal()),
		})
	}

	history := make([]StatusUpdateResponse, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, StatusUpdateResponse{Status: string(h.Status), Comment: h.Comment, Timestamp: h.Timestamp})
	}

	resp := OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.Number,
		Items:           items,
		ItemCount:       count,
		ShippingAddress: AddressDTO(o.ShippingAddress),
		Subtotal:        Money(o.Subtotal),
		CouponCode:      o.CouponCode,
		Discount:        Money(o.Discount),
		Tax:             Money(o.Tax),
		ShippingFee:     NullMoney(o.ShippingFee),
		TotalDisplay:    TotalToBeDetermined,
		OrderStatus:     string(o.Status),
		ReviewPhase:     string(o.Phase()),
		PaymentMethod:   string(o.PaymentMethod),
		EMITenureMonths: o.EMITenureMonths,
		CancelReason:    o.CancelReason,
		StatusHistory:   history,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if total, ok := o.Total(); ok {
		s := Money(total)
		resp.TotalAmount = &s
		resp.TotalDisplay = s
	}
	return resp
}

func NewOrderList(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

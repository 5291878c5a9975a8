package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus returns false for unknown values.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// ReviewPhase is the sub-phase of a pending order.
type ReviewPhase string

const (
	PhaseNone                   ReviewPhase = ""
	PhaseAwaitingShippingCharge ReviewPhase = "awaiting_shipping_charge"
	PhaseAwaitingConfirmation   ReviewPhase = "awaiting_customer_confirmation"
)

// PaymentMethod selected at checkout.
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentEMI          PaymentMethod = "emi"
)

// ParsePaymentMethod defaults to cash on delivery when s is blank.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch pm := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); pm {
	case "":
		return PaymentCOD, true
	case PaymentCOD, PaymentBankTransfer, PaymentEMI:
		return pm, true
	}
	return "", false
}

const DefaultCountry = "India"

// ShippingAddress is where the order is delivered.
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

// Normalize trims every field and fills in the default country.
func (a ShippingAddress) Normalize() ShippingAddress {
	out := ShippingAddress{
		FullName:     strings.TrimSpace(a.FullName),
		AddressLine1: strings.TrimSpace(a.AddressLine1),
		AddressLine2: strings.TrimSpace(a.AddressLine2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		PostalCode:   strings.TrimSpace(a.PostalCode),
		Country:      strings.TrimSpace(a.Country),
		Phone:        strings.TrimSpace(a.Phone),
	}
	if out.Country == "" {
		out.Country = DefaultCountry
	}
	return out
}

// Missing lists required fields that are blank.
func (a ShippingAddress) Missing() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("fullName", a.FullName)
	check("addressLine1", a.AddressLine1)
	check("city", a.City)
	check("state", a.State)
	check("postalCode", a.PostalCode)
	check("phone", a.Phone)
	return missing
}

// LineItem is a cart line frozen at order creation.
type LineItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StatusUpdate is one entry of the order history.
type StatusUpdate struct {
	Status    OrderStatus `json:"status"`
	Comment   string      `json:"comment,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Order is the central document of the shipping-review workflow.
type Order struct {
	ID              string
	Number          string
	UserID          int64
	Items           []LineItem
	ShippingAddress ShippingAddress
	Subtotal        decimal.Decimal
	CouponCode      string
	Discount        decimal.Decimal
	Tax             decimal.Decimal
	ShippingFee     decimal.NullDecimal
	TotalAmount     decimal.NullDecimal
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	EMITenureMonths int
	CancelReason    string
	StatusHistory   []StatusUpdate

	// ConfirmationDigest is the SHA-256 of the outstanding confirmation
	// token. Empty once consumed or never issued.
	ConfirmationDigest    string
	ConfirmationExpiresAt *time.Time

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoundMoney rounds to currency minor units.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SumLines returns Σ price × quantity.
func SumLines(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return RoundMoney(total)
}

// Phase derives the review sub-phase from status and shipping fee.
func (o *Order) Phase() ReviewPhase {
	if o.Status != OrderStatusPending {
		return PhaseNone
	}
	if !o.ShippingFee.Valid {
		return PhaseAwaitingShippingCharge
	}
	return PhaseAwaitingConfirmation
}

// IsTerminal reports whether no further transitions are possible.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// Total returns the payable amount; ok is false while shipping is unpriced.
func (o *Order) Total() (decimal.Decimal, bool) {
	if !o.ShippingFee.Valid {
		return decimal.Zero, false
	}
	return RoundMoney(o.Subtotal.Sub(o.Discount).Add(o.ShippingFee.Decimal).Add(o.Tax)), true
}

func (o *Order) stateError(op string) error {
	return &domainErrors.InvalidStateError{Op: op, Status: string(o.Status), Phase: string(o.Phase())}
}

func (o *Order) record(status OrderStatus, comment string, now time.Time) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusUpdate{Status: status, Comment: comment, Timestamp: now})
	o.UpdatedAt = now
}

// Open stamps a freshly built order with its initial status record.
func (o *Order) Open(now time.Time) {
	o.ShippingFee = decimal.NullDecimal{}
	o.TotalAmount = decimal.NullDecimal{}
	o.CreatedAt = now
	o.record(OrderStatusPending, "Order placed, awaiting shipping charge review", now)
}

// AssignShippingFee prices the order. Allowed only while awaiting the charge.
func (o *Order) AssignShippingFee(fee decimal.Decimal, comment string, now time.Time) error {
	if fee.IsNegative() {
		return domainErrors.ErrInvalidAmount
	}
	if o.Phase() != PhaseAwaitingShippingCharge {
		return o.stateError("assign shipping charge")
	}
	o.ShippingFee = decimal.NewNullDecimal(RoundMoney(fee))
	total, _ := o.Total()
	o.TotalAmount = decimal.NewNullDecimal(total)
	if comment == "" {
		comment = "Shipping charge set to " + o.ShippingFee.Decimal.StringFixed(2) + ", awaiting customer confirmation"
	}
	o.record(OrderStatusPending, comment, now)
	return nil
}

// AttachConfirmation stores the digest of a freshly issued token.
func (o *Order) AttachConfirmation(digest string, expiresAt time.Time) {
	o.ConfirmationDigest = digest
	o.ConfirmationExpiresAt = &expiresAt
}

func (o *Order) consumeConfirmation() {
	o.ConfirmationDigest = ""
	o.ConfirmationExpiresAt = nil
}

// Confirm accepts the priced order on the customer's behalf.
func (o *Order) Confirm(now time.Time) error {
	if o.Phase() != PhaseAwaitingConfirmation {
		return o.stateError("confirm")
	}
	o.consumeConfirmation()
	o.record(OrderStatusProcessing, "Customer confirmed the order", now)
	return nil
}

// Cancel moves any non-terminal order to cancelled.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.IsTerminal() {
		return o.stateError("cancel")
	}
	o.consumeConfirmation()
	o.CancelReason = strings.TrimSpace(reason)
	comment := "Order cancelled"
	if o.CancelReason != "" {
		comment += ": " + o.CancelReason
	}
	o.record(OrderStatusCancelled, comment, now)
	return nil
}

var forwardTransitions = map[OrderStatus]OrderStatus{
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// CanTransition reports whether from → to is an allowed move.
func CanTransition(from, to OrderStatus) bool {
	if to == OrderStatusCancelled {
		return from != OrderStatusDelivered && from != OrderStatusCancelled
	}
	if from == OrderStatusPending && to == OrderStatusProcessing {
		return true
	}
	next, ok := forwardTransitions[from]
	return ok && next == to
}

// Advance applies an administrative status change. Pending orders only
// leave review through Confirm or Cancel.
func (o *Order) Advance(to OrderStatus, comment string, now time.Time) error {
	if to == OrderStatusCancelled {
		return o.Cancel(comment, now)
	}
	if o.Status == OrderStatusPending || !CanTransition(o.Status, to) {
		return o.stateError("move to " + string(to))
	}
	if comment == "" {
		comment = "Order " + string(to)
	}
	o.record(to, comment, now)
	return nil
}

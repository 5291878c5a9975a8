package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a user's cart. UnitPrice is captured when
// the product is first added.
type CartItem struct {
	ProductID    int64
	ProductName  string
	ProductImage string
	Quantity     int
	UnitPrice    decimal.Decimal
	AddedAt      time.Time
}

// LineTotal returns unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the per-user mutable basket.
type Cart struct {
	UserID int64
	Items  []CartItem
}

// Subtotal returns Σ price × quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return RoundMoney(total)
}

// ItemCount returns the total quantity across lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Snapshot freezes cart lines into order line items.
func (c *Cart) Snapshot() []LineItem {
	items := make([]LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, LineItem{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Image:     it.ProductImage,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return items
}

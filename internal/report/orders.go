// Package report renders administrative exports.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

const (
	// ContentTypeXLSX is the media type of generated workbooks.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
	tbd        = "To be determined"
)

var orderHeaders = []string{
	"Order", "ID", "Placed", "Customer", "Phone", "City", "State", "Items", "Subtotal",
	"Discount", "Tax", "Shipping", "Total", "Status", "Phase", "Payment", "Coupon",
}

// WriteOrders writes orders as a single-sheet workbook.
func WriteOrders(w io.Writer, orders []model.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range orderHeaders {
		header.AddCell().SetValue(h)
	}

	for i := range orders {
		o := &orders[i]
		row := sheet.AddRow()
		row.AddCell().SetValue(o.Number)
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.CreatedAt.UTC().Format(timeLayout))
		row.AddCell().SetValue(o.ShippingAddress.FullName)
		row.AddCell().SetValue(o.ShippingAddress.Phone)
		row.AddCell().SetValue(o.ShippingAddress.City)
		row.AddCell().SetValue(o.ShippingAddress.State)
		row.AddCell().SetValue(itemSummary(o.Items))
		row.AddCell().SetValue(o.Subtotal.StringFixed(2))
		row.AddCell().SetValue(o.Discount.StringFixed(2))
		row.AddCell().SetValue(o.Tax.StringFixed(2))
		if o.ShippingFee.Valid {
			row.AddCell().SetValue(o.ShippingFee.Decimal.StringFixed(2))
		} else {
			row.AddCell().SetValue(tbd)
		}
		if total, ok := o.Total(); ok {
			row.AddCell().SetValue(total.StringFixed(2))
		} else {
			row.AddCell().SetValue(tbd)
		}
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(string(o.Phase()))
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(o.CouponCode)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func itemSummary(items []model.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
	}
	return strings.Join(parts, "; ")
}

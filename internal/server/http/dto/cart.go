package dto

import "github.com/polkiloo/solarstore/internal/domain/model"

type CartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Subtotal  string             `json:"subtotal"`
	ItemCount int                `json:"itemCount"`
}

func NewCartResponse(cart *model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Image:     it.ProductImage,
			Quantity:  it.Quantity,
			UnitPrice: Money(it.UnitPrice),
			LineTotal: Money(it.LineTotal()),
		})
	}
	return CartResponse{Items: items, Subtotal: Money(cart.Subtotal()), ItemCount: cart.ItemCount()}
}

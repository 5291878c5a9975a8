package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/server/http/dto"
)

// CartHandler manages the caller's cart.
type CartHandler struct {
	facade CartFacade
}

func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentUserID(c))
	h.reply(c, cart, err)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cart, err := h.facade.AddCartItem(c.Request.Context(), CurrentUserID(c), req.ProductID, req.Quantity)
	h.reply(c, cart, err)
}

// SetQuantity handles PUT /api/cart/items/:productId.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, ok := paramInt64(c, "productId")
	if !ok {
		return
	}
	var req dto.QuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.facade.SetCartQuantity(c.Request.Context(), CurrentUserID(c), productID, req.Quantity)
	h.reply(c, cart, err)
}

// RemoveItem handles DELETE /api/cart/items/:productId.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := paramInt64(c, "productId")
	if !ok {
		return
	}
	cart, err := h.facade.RemoveCartItem(c.Request.Context(), CurrentUserID(c), productID)
	h.reply(c, cart, err)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.facade.ClearCart(c.Request.Context(), CurrentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewCartResponse(&model.Cart{UserID: CurrentUserID(c)}))
}

// Count handles GET /api/cart/count.
func (h *CartHandler) Count(c *gin.Context) {
	count, err := h.facade.CartCount(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"count": count})
}

func (h *CartHandler) reply(c *gin.Context, cart *model.Cart, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewCartResponse(cart))
}

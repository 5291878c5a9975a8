package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/server/http/dto"
)

// ShippingReviewHandler serves the admin shipping charge and the emailed
// confirm/cancel links. The review endpoints authenticate by token only.
type ShippingReviewHandler struct {
	facade ShippingReviewFacade
}

func NewShippingReviewHandler(facade ShippingReviewFacade) *ShippingReviewHandler {
	return &ShippingReviewHandler{facade: facade}
}

// AssignShipping handles PUT /api/shipping/charges/:orderId.
func (h *ShippingReviewHandler) AssignShipping(c *gin.Context) {
	var req dto.ShippingChargeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ShippingFee == nil {
		writeError(c, domainErrors.NewValidationError("shippingFee"))
		return
	}

	order, err := h.facade.AssignShipping(c.Request.Context(), c.Param("orderId"), *req.ShippingFee, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    orderDetail(order),
		Message: "shipping charge saved, confirmation email queued",
	})
}

// Preview handles GET /api/order-review/:orderId?token=.
func (h *ShippingReviewHandler) Preview(c *gin.Context) {
	order, err := h.facade.PreviewReview(c.Request.Context(), c.Param("orderId"), c.Query("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, orderDetail(order))
}

// Confirm handles POST /api/order-review/:orderId/confirm.
func (h *ShippingReviewHandler) Confirm(c *gin.Context) {
	var req dto.TokenActionRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.ConfirmReview(c.Request.Context(), c.Param("orderId"), req.Token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: orderDetail(order), Message: "order confirmed"})
}

// CancelRequest handles POST /api/order-review/:orderId/cancel-request.
func (h *ShippingReviewHandler) CancelRequest(c *gin.Context) {
	var req dto.TokenActionRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.CancelReview(c.Request.Context(), c.Param("orderId"), req.Token, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: orderDetail(order), Message: "order cancelled"})
}

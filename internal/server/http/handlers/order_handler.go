package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/server/http/dto"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// OrderHandler processes customer order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler creates OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentUserID(c), usecase.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress.Model(),
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
		EMITenureMonths: req.EMITenureMonths,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{
		Success: true,
		Data:    orderDetail(order),
		Message: "order placed, the shipping charge will be shared by email",
	})
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	q := usecase.OrderQuery{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Oldest: c.Query("sort") == "oldest",
		Page:   parsePage(c),
	}
	orders, total, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.OrderListResponse{
		Orders:              dto.NewOrderList(orders),
		Pagination:          dto.NewPagination(q.Page, total),
		PollIntervalSeconds: dto.OrderListPollSeconds,
	})
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, orderDetail(order))
}

// Cancel handles PUT /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req dto.CancelOrderRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, orderDetail(order))
}

// EMIPlan handles GET /api/orders/:id/emi.
func (h *OrderHandler) EMIPlan(c *gin.Context) {
	plan, err := h.facade.OrderEMIPlan(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewEMIPlanResponse(plan))
}

func orderDetail(order *model.Order) dto.OrderDetailResponse {
	return dto.OrderDetailResponse{
		Order:               dto.NewOrderResponse(order),
		PollIntervalSeconds: dto.OrderDetailPollSeconds,
	}
}

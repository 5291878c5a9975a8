package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/solarstore/internal/report"
	"github.com/polkiloo/solarstore/internal/server/http/dto"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// AdminOrderHandler exposes order management to administrators.
type AdminOrderHandler struct {
	facade AdminOrderFacade
}

func NewAdminOrderHandler(facade AdminOrderFacade) *AdminOrderHandler {
	return &AdminOrderHandler{facade: facade}
}

func adminQuery(c *gin.Context) usecase.AdminOrderQuery {
	return usecase.AdminOrderQuery{
		Status: c.Query("status"),
		Phase:  c.Query("phase"),
		Search: c.Query("search"),
		Page:   parsePage(c),
	}
}

// List handles GET /api/admin/orders.
func (h *AdminOrderHandler) List(c *gin.Context) {
	q := adminQuery(c)
	orders, total, err := h.facade.AdminOrders(c.Request.Context(), q)
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

// Get handles GET /api/admin/orders/:id.
func (h *AdminOrderHandler) Get(c *gin.Context) {
	order, err := h.facade.AdminOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, orderDetail(order))
}

// UpdateStatus handles PUT /api/admin/orders/:id/status.
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.AdvanceOrder(c.Request.Context(), c.Param("id"), req.Status, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, orderDetail(order))
}

// Export handles GET /api/admin/orders/export. The workbook is rendered in
// memory so a failure still produces a JSON error.
func (h *AdminOrderHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.facade.ExportOrders(c.Request.Context(), &buf, adminQuery(c)); err != nil {
		writeError(c, err)
		return
	}
	filename := "orders-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, report.ContentTypeXLSX, buf.Bytes())
}

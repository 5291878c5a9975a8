package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/server/http/dto"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// AccountHandler serves EMI plans, coupons and the customer dashboard.
type AccountHandler struct {
	emi       EMIFacade
	coupons   CouponFacade
	dashboard DashboardFacade
}

func NewAccountHandler(emi EMIFacade, coupons CouponFacade, dashboard DashboardFacade) *AccountHandler {
	return &AccountHandler{emi: emi, coupons: coupons, dashboard: dashboard}
}

// EMIPlans handles GET /api/emi-plans.
func (h *AccountHandler) EMIPlans(c *gin.Context) {
	plans, err := h.emi.EMIPlans(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewEMIPlanList(plans))
}

// EMIPlan handles GET /api/emi-plans/:id.
func (h *AccountHandler) EMIPlan(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	plan, err := h.emi.EMIPlan(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewEMIPlanResponse(plan))
}

// CreateCoupon handles POST /api/admin/coupons.
func (h *AccountHandler) CreateCoupon(c *gin.Context) {
	var req dto.CouponRequest
	if !bindJSON(c, &req) {
		return
	}
	in := usecase.CouponInput{Code: req.Code, ExpiresAt: req.ExpiresAt, Active: true}
	if req.PercentOff != nil {
		in.PercentOff = decimal.NewNullDecimal(*req.PercentOff)
	}
	if req.AmountOff != nil {
		in.AmountOff = decimal.NewNullDecimal(*req.AmountOff)
	}
	if req.MinSubtotal != nil {
		in.MinSubtotal = *req.MinSubtotal
	}
	if req.Active != nil {
		in.Active = *req.Active
	}

	coupon, err := h.coupons.CreateCoupon(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.NewCouponResponse(coupon))
}

// PreviewCoupon handles GET /api/coupons/:code?subtotal=.
func (h *AccountHandler) PreviewCoupon(c *gin.Context) {
	subtotal := decimal.Zero
	if raw := strings.TrimSpace(c.Query("subtotal")); raw != "" {
		var err error
		if subtotal, err = decimal.NewFromString(raw); err != nil {
			badRequest(c, "invalid subtotal")
			return
		}
	}
	coupon, discount, err := h.coupons.PreviewCoupon(c.Request.Context(), c.Param("code"), subtotal)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CouponPreviewResponse{
		Coupon:   dto.NewCouponResponse(coupon),
		Discount: dto.Money(discount),
	})
}

// Dashboard handles GET /api/dashboard.
func (h *AccountHandler) Dashboard(c *gin.Context) {
	summary, err := h.dashboard.Dashboard(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	counts := make(map[string]int, len(summary.OrderCounts))
	for status, n := range summary.OrderCounts {
		counts[string(status)] = n
	}
	respond(c, http.StatusOK, dto.DashboardResponse{
		OrderCounts:          counts,
		AwaitingConfirmation: dto.NewOrderList(summary.AwaitingConfirmation),
		UnreadNotifications:  summary.UnreadNotifications,
		ActiveEMIPlans:       dto.NewEMIPlanList(summary.ActivePlans),
		RecentOrders:         dto.NewOrderList(summary.RecentOrders),
	})
}

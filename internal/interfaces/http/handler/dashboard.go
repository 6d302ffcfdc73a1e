package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/application/report"
)

// DashboardHandler handles dashboard and stock alert endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *report.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

type dashboardQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// Get builds the dashboard for a period, defaulting to the last 30 days
// GET /api/v1/reports/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	var q dashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if q.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", q.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if q.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", q.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		// include the whole end day
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// StockAlerts lists expired, expiring and low-stock batches for a shop
// GET /api/v1/reports/stock-alerts
func (h *DashboardHandler) StockAlerts(c *gin.Context) {
	shopID := uuid.Nil
	if claims := getClaims(c); claims != nil && claims.ShopID != "" {
		if id, err := claims.ShopUUID(); err == nil {
			shopID = id
		}
	}
	if raw := c.Query("shop_id"); raw != "" && shopID == uuid.Nil {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid shop_id")
			return
		}
		shopID = id
	}

	alerts, err := h.dashboardService.GetStockAlerts(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

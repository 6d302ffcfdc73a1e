package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/application/sales"
)

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService *sales.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *sales.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create records a new sale
// POST /api/v1/sells
func (h *SaleHandler) Create(c *gin.Context) {
	var req sales.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// List lists sales with filters
// GET /api/v1/sells
func (h *SaleHandler) List(c *gin.Context) {
	var filter sales.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	items, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListDeliverable lists sales that still have something to deliver,
// scoped to the caller's shop when the token carries one
// GET /api/v1/sells/deliverable
func (h *SaleHandler) ListDeliverable(c *gin.Context) {
	var filter sales.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	shopID := uuid.Nil
	if claims := getClaims(c); claims != nil && claims.ShopID != "" {
		if id, err := claims.ShopUUID(); err == nil {
			shopID = id
		}
	}

	items, err := h.saleService.ListDeliverable(c.Request.Context(), shopID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Get returns one sale with its items
// GET /api/v1/sells/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Approve approves a sale so it becomes deliverable
// POST /api/v1/sells/:id/approve
func (h *SaleHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Cancel cancels a sale
// POST /api/v1/sells/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req sales.CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	sale, err := h.saleService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/partner"
)

// PartnerHandler handles branch, shop and customer endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partner.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partner.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// ListBranches lists all branches
// GET /api/v1/branches
func (h *PartnerHandler) ListBranches(c *gin.Context) {
	branches, err := h.partnerService.ListBranches(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// GetBranch returns a single branch
// GET /api/v1/branches/:branchId
func (h *PartnerHandler) GetBranch(c *gin.Context) {
	id, ok := parseIDParam(c, "branchId")
	if !ok {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	branch, err := h.partnerService.GetBranch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// ListShops lists active shops
// GET /api/v1/shops
func (h *PartnerHandler) ListShops(c *gin.Context) {
	shops, err := h.partnerService.ListShops(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shops)
}

// GetShop returns a single shop
// GET /api/v1/shops/:shopId
func (h *PartnerHandler) GetShop(c *gin.Context) {
	id, ok := parseIDParam(c, "shopId")
	if !ok {
		h.BadRequest(c, "Invalid shop ID")
		return
	}

	shop, err := h.partnerService.GetShop(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// ListCustomers lists customers, optionally filtered by a search query
// GET /api/v1/customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	var filter partner.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	customers, err := h.partnerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// CreateCustomer creates a customer record
// POST /api/v1/customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req partner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	customer, err := h.partnerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

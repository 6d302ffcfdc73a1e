package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/delivery"
)

// DeliveryHandler handles the partial-delivery allocation workflow.
// The allocation session for a sale lives server-side; the endpoints
// below mutate it step by step until submission.
type DeliveryHandler struct {
	BaseHandler
	deliveryService *delivery.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *delivery.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// OpenSession opens (or resumes) the allocation session for a sale
// POST /api/v1/sells/:id/delivery-session
func (h *DeliveryHandler) OpenSession(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	session, err := h.deliveryService.OpenSession(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// GetSession returns the current allocation session state
// GET /api/v1/sells/:id/delivery-session
func (h *DeliveryHandler) GetSession(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	session, err := h.deliveryService.GetSession(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// GetBatches lists batches available for a product at a shop
// GET /api/v1/shops/:shopId/products/:productId/batches
func (h *DeliveryHandler) GetBatches(c *gin.Context) {
	shopID, ok := parseIDParam(c, "shopId")
	if !ok {
		h.BadRequest(c, "Invalid shop ID")
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	batches, err := h.deliveryService.GetBatches(c.Request.Context(), shopID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// SelectBatch sets the quantity taken from a batch for a sale item.
// Selecting an already-allocated batch replaces its quantity.
// PUT /api/v1/sells/:id/delivery-session/allocations
func (h *DeliveryHandler) SelectBatch(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req delivery.SelectBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	item, err := h.deliveryService.SelectBatch(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// AssignAllRemaining covers an item's remaining need from one batch,
// clamped to what the batch holds
// POST /api/v1/sells/:id/delivery-session/assign-all
func (h *DeliveryHandler) AssignAllRemaining(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req delivery.AssignAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.deliveryService.AssignAllRemaining(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveAllocation removes a single item-batch allocation
// DELETE /api/v1/sells/:id/delivery-session/allocations
func (h *DeliveryHandler) RemoveAllocation(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req delivery.RemoveAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.deliveryService.RemoveAllocation(c.Request.Context(), saleID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ClearItem drops all allocations of one sale item
// DELETE /api/v1/sells/:id/delivery-session/items/:itemId
func (h *DeliveryHandler) ClearItem(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.deliveryService.ClearItem(c.Request.Context(), saleID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DiscardSession drops the whole allocation session without submitting
// DELETE /api/v1/sells/:id/delivery-session
func (h *DeliveryHandler) DiscardSession(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	h.deliveryService.DiscardSession(c.Request.Context(), saleID)
	h.NoContent(c)
}

// Submit assembles the session into delivery data and applies it to the
// sale. On failure the session is preserved so allocations can be fixed.
// PATCH /api/v1/sells/:id/partial-delivery
func (h *DeliveryHandler) Submit(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	result, err := h.deliveryService.Submit(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

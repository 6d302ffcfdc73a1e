package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/delivery"
)

// SelectBatchRequest represents a request to assign a batch quantity to a
// sale item
type SelectBatchRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	BatchID  uuid.UUID `json:"batch_id" binding:"required"`
	Quantity int64     `json:"quantity" binding:"required"`
}

// AssignAllRequest represents a request to cover an item's remaining need
// from a single batch
type AssignAllRequest struct {
	ItemID  uuid.UUID `json:"item_id" binding:"required"`
	BatchID uuid.UUID `json:"batch_id" binding:"required"`
}

// RemoveAllocationRequest represents a request to remove one allocation
type RemoveAllocationRequest struct {
	ItemID  uuid.UUID `json:"item_id" binding:"required"`
	BatchID uuid.UUID `json:"batch_id" binding:"required"`
}

// BatchResponse represents an available batch in API responses
type BatchResponse struct {
	BatchID           uuid.UUID  `json:"batch_id"`
	BatchNumber       string     `json:"batch_number"`
	AvailableQuantity int64      `json:"available_quantity"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	Expired           bool       `json:"expired"`
}

// AllocationResponse represents one allocation in API responses
type AllocationResponse struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Quantity int64     `json:"quantity"`
}

// ItemAllocationResponse represents an item's allocation state
type ItemAllocationResponse struct {
	ItemID           uuid.UUID            `json:"item_id"`
	RequiredQuantity int64                `json:"required_quantity"`
	SelectedQuantity int64                `json:"selected_quantity"`
	RemainingNeeded  int64                `json:"remaining_needed"`
	State            string               `json:"state"`
	Allocations      []AllocationResponse `json:"allocations"`
}

// SessionResponse represents the full allocation session state
type SessionResponse struct {
	SaleID uuid.UUID                `json:"sale_id"`
	Items  []ItemAllocationResponse `json:"items"`
}

// SubmitResponse represents the result of a successful delivery submission
type SubmitResponse struct {
	SaleID     uuid.UUID `json:"sale_id"`
	SaleStatus string    `json:"sale_status"`
	ItemCount  int       `json:"item_count"`
}

// AssignAllResponse reports how much an assign-all operation allocated
type AssignAllResponse struct {
	Allocated int64 `json:"allocated"`
	Partial   bool  `json:"partial"`
}

// ToBatchResponses converts batch views to responses
func ToBatchResponses(batches []delivery.BatchView) []BatchResponse {
	now := time.Now()
	responses := make([]BatchResponse, len(batches))
	for i, batch := range batches {
		responses[i] = BatchResponse{
			BatchID:           batch.BatchID,
			BatchNumber:       batch.BatchNumber,
			AvailableQuantity: batch.AvailableQuantity,
			ExpiryDate:        batch.ExpiryDate,
			Expired:           batch.IsExpired(now),
		}
	}
	return responses
}

// ToItemAllocationResponse converts one item's session state to a response
func ToItemAllocationResponse(session *delivery.AllocationSession, itemID uuid.UUID) ItemAllocationResponse {
	allocs := session.Allocations(itemID)
	responses := make([]AllocationResponse, len(allocs))
	for i, a := range allocs {
		responses[i] = AllocationResponse{BatchID: a.BatchID, Quantity: a.Quantity}
	}

	return ItemAllocationResponse{
		ItemID:           itemID,
		RequiredQuantity: session.RequiredQuantity(itemID),
		SelectedQuantity: session.TotalSelected(itemID),
		RemainingNeeded:  session.RemainingNeeded(itemID),
		State:            string(session.State(itemID)),
		Allocations:      responses,
	}
}

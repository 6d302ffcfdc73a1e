package delivery

import "github.com/google/uuid"

// DeliveryBatch is one batch line of the submission payload
type DeliveryBatch struct {
	BatchID  uuid.UUID `json:"batchId"`
	Quantity int64     `json:"quantity"`
}

// DeliveryItem groups a line item's batch lines
type DeliveryItem struct {
	ItemID  uuid.UUID       `json:"itemId"`
	Batches []DeliveryBatch `json:"batches"`
}

// DeliveryData is the partial-delivery submission payload
type DeliveryData struct {
	Items []DeliveryItem `json:"items"`
}

// Assemble builds the submission payload from the session's current
// allocations. Items without allocations are omitted; items appear in
// first-allocation order and batches in selection order. Returns
// ErrNothingToSubmit when no allocations exist.
func (s *AllocationSession) Assemble() (DeliveryData, error) {
	var data DeliveryData
	for _, itemID := range s.AllocatedItemIDs() {
		item := DeliveryItem{ItemID: itemID}
		for _, a := range s.selections[itemID] {
			item.Batches = append(item.Batches, DeliveryBatch{
				BatchID:  a.BatchID,
				Quantity: a.Quantity,
			})
		}
		data.Items = append(data.Items, item)
	}
	if len(data.Items) == 0 {
		return DeliveryData{}, ErrNothingToSubmit
	}
	return data, nil
}

// CompleteSubmission clears the allocations and delivered marks of exactly
// the items named in the accepted payload, leaving any other item's state
// intact. Calling it again with the same payload is a no-op, so a
// duplicated success signal cannot corrupt the session.
func (s *AllocationSession) CompleteSubmission(data DeliveryData) {
	for _, item := range data.Items {
		s.ClearItem(item.ItemID)
		s.UnmarkDelivered(item.ItemID)
	}
}

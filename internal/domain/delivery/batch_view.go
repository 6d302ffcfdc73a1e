package delivery

import (
	"time"

	"github.com/google/uuid"
)

// BatchView is a read-only snapshot of one stock batch available for
// allocation. It carries the quantity observed at fetch time; the
// allocation session tracks its own tentative assignments separately and
// never mutates this value.
type BatchView struct {
	BatchID           uuid.UUID
	BatchNumber       string
	AvailableQuantity int64
	ExpiryDate        *time.Time
}

// IsExpired returns true if the batch had passed its expiry date at the
// given reference time. Expiry is informational only; it does not affect
// allocation legality.
func (b BatchView) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}

// BatchInventoryView is a point-in-time snapshot of the batches available
// for one (shop, product) pair. A new fetch supersedes the previous
// snapshot wholesale.
type BatchInventoryView struct {
	ShopID    uuid.UUID
	ProductID uuid.UUID
	FetchedAt time.Time
	Batches   []BatchView
}

// NewBatchInventoryView creates a snapshot for the given shop and product
func NewBatchInventoryView(shopID, productID uuid.UUID, batches []BatchView) *BatchInventoryView {
	return &BatchInventoryView{
		ShopID:    shopID,
		ProductID: productID,
		FetchedAt: time.Now(),
		Batches:   batches,
	}
}

// Find returns the batch with the given ID
func (v *BatchInventoryView) Find(batchID uuid.UUID) (*BatchView, bool) {
	for i := range v.Batches {
		if v.Batches[i].BatchID == batchID {
			return &v.Batches[i], true
		}
	}
	return nil, false
}

// Matches reports whether this snapshot was fetched for the given pair
func (v *BatchInventoryView) Matches(shopID, productID uuid.UUID) bool {
	return v.ShopID == shopID && v.ProductID == productID
}

// TotalAvailable returns the sum of available quantities across batches
func (v *BatchInventoryView) TotalAvailable() int64 {
	var total int64
	for _, b := range v.Batches {
		total += b.AvailableQuantity
	}
	return total
}

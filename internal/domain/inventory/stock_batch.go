package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/delivery"
	"github.com/storefront/backend/internal/domain/shared"
)

// StockBatch represents a batch of product stock held at a shop, with its
// own batch number, expiry date and remaining quantity
type StockBatch struct {
	shared.BaseEntity
	ShopID      uuid.UUID
	ProductID   uuid.UUID
	BatchNumber string          // Batch/lot number
	ExpiryDate  *time.Time      // Expiry date (optional)
	Quantity    decimal.Decimal // Remaining quantity in this batch
	UnitCost    decimal.Decimal // Cost per unit for this batch
	Consumed    bool            // Whether this batch is fully consumed
}

// NewStockBatch creates a new stock batch
func NewStockBatch(shopID, productID uuid.UUID, batchNumber string, expiryDate *time.Time, quantity, unitCost decimal.Decimal) (*StockBatch, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity cannot be negative")
	}

	return &StockBatch{
		BaseEntity:  shared.NewBaseEntity(),
		ShopID:      shopID,
		ProductID:   productID,
		BatchNumber: batchNumber,
		ExpiryDate:  expiryDate,
		Quantity:    quantity,
		UnitCost:    unitCost,
		Consumed:    quantity.IsZero(),
	}, nil
}

// IsExpired returns true if the batch has expired
func (b *StockBatch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// WillExpireWithin returns true if the batch will expire within the given duration
func (b *StockBatch) WillExpireWithin(duration time.Duration) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now().Add(duration))
}

// DaysUntilExpiry returns the number of days until expiry, -1 if no expiry date
func (b *StockBatch) DaysUntilExpiry() int {
	if b.ExpiryDate == nil {
		return -1
	}
	return int(time.Until(*b.ExpiryDate).Hours() / 24)
}

// Deduct reduces the batch quantity for a delivery
// The requested quantity must not exceed the remaining quantity
func (b *StockBatch) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduct quantity must be positive")
	}
	if quantity.GreaterThan(b.Quantity) {
		return shared.ErrInsufficientStock
	}

	b.Quantity = b.Quantity.Sub(quantity)
	if b.Quantity.IsZero() {
		b.Consumed = true
	}
	b.UpdatedAt = time.Now()

	return nil
}

// Add increases the batch quantity (for returns or adjustments)
func (b *StockBatch) Add(quantity decimal.Decimal) {
	b.Quantity = b.Quantity.Add(quantity)
	if b.Consumed && b.Quantity.GreaterThan(decimal.Zero) {
		b.Consumed = false
	}
	b.UpdatedAt = time.Now()
}

// GetTotalValue returns the total value of this batch
func (b *StockBatch) GetTotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}

// HasStock returns true if the batch has available quantity
func (b *StockBatch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero) && !b.Consumed
}

// IsAvailable returns true if the batch can be used (not consumed and not expired)
func (b *StockBatch) IsAvailable() bool {
	return b.HasStock() && !b.IsExpired()
}

// ToView converts the batch to the read-only snapshot a delivery
// allocation session works against
func (b *StockBatch) ToView() delivery.BatchView {
	return delivery.BatchView{
		BatchID:           b.ID,
		BatchNumber:       b.BatchNumber,
		AvailableQuantity: b.Quantity.IntPart(),
		ExpiryDate:        b.ExpiryDate,
	}
}

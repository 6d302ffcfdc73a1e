package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// StockBatchRepository defines the interface for stock batch persistence
type StockBatchRepository interface {
	// FindByID finds a batch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)

	// FindAvailable finds the batches of a product at a shop that still
	// have stock, ordered by expiry date then batch number (soonest first)
	FindAvailable(ctx context.Context, shopID, productID uuid.UUID) ([]StockBatch, error)

	// FindByShop finds batches for a shop with filtering
	FindByShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]StockBatch, error)

	// FindExpired finds batches with stock whose expiry date has passed
	FindExpired(ctx context.Context, shopID uuid.UUID) ([]StockBatch, error)

	// FindExpiringWithin finds batches with stock expiring before the cutoff
	FindExpiringWithin(ctx context.Context, shopID uuid.UUID, cutoff time.Time) ([]StockBatch, error)

	// FindLowStock finds batches with stock at or below the threshold
	FindLowStock(ctx context.Context, shopID uuid.UUID, threshold decimal.Decimal) ([]StockBatch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *StockBatch) error

	// SaveAll persists a set of batches atomically
	SaveAll(ctx context.Context, batches []*StockBatch) error

	// Delete deletes a batch (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// TotalQuantity sums the remaining quantity of a product at a shop
	TotalQuantity(ctx context.Context, shopID, productID uuid.UUID) (decimal.Decimal, error)
}

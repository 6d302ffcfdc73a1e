package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindBySaleNumber finds a sale by its sale number
	FindBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// FindAll finds sales with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// FindByShop finds sales for a shop
	FindByShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// FindByStatus finds sales by status
	FindByStatus(ctx context.Context, status SaleStatus, filter shared.Filter) ([]Sale, error)

	// FindDeliverable finds sales that can accept a delivery
	// (APPROVED or PARTIALLY_DELIVERED)
	FindDeliverable(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// Save creates or updates a sale
	Save(ctx context.Context, sale *Sale) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sale *Sale) error

	// Delete deletes a sale (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sales with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts sales by status
	CountByStatus(ctx context.Context, status SaleStatus) (int64, error)

	// ExistsBySaleNumber checks if a sale number is already taken
	ExistsBySaleNumber(ctx context.Context, saleNumber string) (bool, error)

	// GenerateSaleNumber generates a unique sale number
	GenerateSaleNumber(ctx context.Context) (string, error)
}

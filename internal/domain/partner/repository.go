package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ShopRepository defines the interface for shop persistence
type ShopRepository interface {
	// FindByID finds a shop by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// FindByCode finds a shop by its code
	FindByCode(ctx context.Context, code string) (*Shop, error)

	// FindAll finds shops with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Shop, error)

	// FindActive finds active shops
	FindActive(ctx context.Context) ([]Shop, error)

	// FindDefault finds the default shop
	FindDefault(ctx context.Context) (*Shop, error)

	// Save creates or updates a shop
	Save(ctx context.Context, shop *Shop) error

	// Delete deletes a shop (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks if a shop code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByID finds a branch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindAll finds branches with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, error)

	// Save creates or updates a branch
	Save(ctx context.Context, branch *Branch) error

	// Delete deletes a branch (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll finds customers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Search finds customers whose name or phone matches the query
	Search(ctx context.Context, query string, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete deletes a customer (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error
}

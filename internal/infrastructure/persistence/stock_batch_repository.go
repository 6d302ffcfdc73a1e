package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormStockBatchRepository implements inventory.StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByID finds a batch by ID, reading through the context-bound
// transaction when one is running
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var model models.StockBatchModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAvailable finds batches of a product at a shop that still have stock,
// soonest expiry first so near-expiry batches are offered before fresh ones.
// Batches without an expiry date sort last.
func (r *GormStockBatchRepository) FindAvailable(ctx context.Context, shopID, productID uuid.UUID) ([]inventory.StockBatch, error) {
	var batchModels []models.StockBatchModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ? AND consumed = ? AND quantity > 0", shopID, productID, false).
		Order("expiry_date IS NULL, expiry_date ASC, batch_number ASC").
		Find(&batchModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatches(batchModels), nil
}

// FindByShop finds batches for a shop with filtering
func (r *GormStockBatchRepository) FindByShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]inventory.StockBatch, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockBatchModel{}).
		Where("shop_id = ?", shopID)

	if filter.Search != "" {
		query = query.Where("batch_number LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "consumed":
			query = query.Where("consumed = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	var batchModels []models.StockBatchModel
	if err := query.Find(&batchModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatches(batchModels), nil
}

// FindExpired finds batches with stock whose expiry date has passed
func (r *GormStockBatchRepository) FindExpired(ctx context.Context, shopID uuid.UUID) ([]inventory.StockBatch, error) {
	query := r.db.WithContext(ctx).
		Where("consumed = ? AND quantity > 0 AND expiry_date IS NOT NULL AND expiry_date < ?", false, time.Now()).
		Order("expiry_date ASC")
	if shopID != uuid.Nil {
		query = query.Where("shop_id = ?", shopID)
	}

	var batchModels []models.StockBatchModel
	if err := query.Find(&batchModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatches(batchModels), nil
}

// FindExpiringWithin finds batches with stock expiring before the cutoff
func (r *GormStockBatchRepository) FindExpiringWithin(ctx context.Context, shopID uuid.UUID, cutoff time.Time) ([]inventory.StockBatch, error) {
	query := r.db.WithContext(ctx).
		Where("consumed = ? AND quantity > 0 AND expiry_date IS NOT NULL AND expiry_date < ?", false, cutoff).
		Order("expiry_date ASC")
	if shopID != uuid.Nil {
		query = query.Where("shop_id = ?", shopID)
	}

	var batchModels []models.StockBatchModel
	if err := query.Find(&batchModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatches(batchModels), nil
}

// FindLowStock finds batches with stock at or below the threshold
func (r *GormStockBatchRepository) FindLowStock(ctx context.Context, shopID uuid.UUID, threshold decimal.Decimal) ([]inventory.StockBatch, error) {
	query := r.db.WithContext(ctx).
		Where("consumed = ? AND quantity > 0 AND quantity <= ?", false, threshold).
		Order("quantity ASC")
	if shopID != uuid.Nil {
		query = query.Where("shop_id = ?", shopID)
	}

	var batchModels []models.StockBatchModel
	if err := query.Find(&batchModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatches(batchModels), nil
}

// Save creates or updates a batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	model := models.StockBatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll persists a set of batches in a single transaction, joining a
// transaction already bound to the context, if any
func (r *GormStockBatchRepository) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	if len(batches) == 0 {
		return nil
	}

	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, batch := range batches {
			model := models.StockBatchModelFromDomain(batch)
			if err := tx.Save(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a batch
func (r *GormStockBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StockBatchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// TotalQuantity sums the remaining quantity of a product at a shop
func (r *GormStockBatchRepository) TotalQuantity(ctx context.Context, shopID, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.StockBatchModel{}).
		Where("shop_id = ? AND product_id = ? AND consumed = ?", shopID, productID, false).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func toDomainBatches(batchModels []models.StockBatchModel) []inventory.StockBatch {
	result := make([]inventory.StockBatch, len(batchModels))
	for i := range batchModels {
		result[i] = *batchModels[i].ToDomain()
	}
	return result
}

var _ inventory.StockBatchRepository = (*GormStockBatchRepository)(nil)

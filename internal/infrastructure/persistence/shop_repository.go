package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormShopRepository implements partner.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByID finds a shop by ID
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Shop, error) {
	var shop partner.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// FindByCode finds a shop by its code
func (r *GormShopRepository) FindByCode(ctx context.Context, code string) (*partner.Shop, error) {
	var shop partner.Shop
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// FindAll finds shops with filtering
func (r *GormShopRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Shop, error) {
	var shops []partner.Shop
	query := r.db.WithContext(ctx).Model(&partner.Shop{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ? OR city LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// FindActive finds active shops
func (r *GormShopRepository) FindActive(ctx context.Context) ([]partner.Shop, error) {
	var shops []partner.Shop
	if err := r.db.WithContext(ctx).
		Where("status = ?", partner.ShopStatusActive).
		Order("name ASC").
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// FindDefault finds the default shop
func (r *GormShopRepository) FindDefault(ctx context.Context) (*partner.Shop, error) {
	var shop partner.Shop
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// Save creates or updates a shop
func (r *GormShopRepository) Save(ctx context.Context, shop *partner.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

// Delete deletes a shop
func (r *GormShopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Shop{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if a shop code is already taken
func (r *GormShopRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Shop{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ partner.ShopRepository = (*GormShopRepository)(nil)

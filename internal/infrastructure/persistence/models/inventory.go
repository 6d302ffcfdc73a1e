package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/inventory"
)

// StockBatchModel is the persistence model for the StockBatch entity.
type StockBatchModel struct {
	BaseModel
	ShopID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_shop_product_number,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_shop_product_number,priority:2"`
	BatchNumber string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_batch_shop_product_number,priority:3"`
	ExpiryDate  *time.Time      `gorm:"index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Consumed    bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (StockBatchModel) TableName() string {
	return "stock_batches"
}

// ToDomain converts the persistence model to a domain StockBatch.
func (m *StockBatchModel) ToDomain() *inventory.StockBatch {
	return &inventory.StockBatch{
		BaseEntity:  m.BaseModel.ToDomain(),
		ShopID:      m.ShopID,
		ProductID:   m.ProductID,
		BatchNumber: m.BatchNumber,
		ExpiryDate:  m.ExpiryDate,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		Consumed:    m.Consumed,
	}
}

// FromDomain populates the persistence model from a domain StockBatch.
func (m *StockBatchModel) FromDomain(b *inventory.StockBatch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.ShopID = b.ShopID
	m.ProductID = b.ProductID
	m.BatchNumber = b.BatchNumber
	m.ExpiryDate = b.ExpiryDate
	m.Quantity = b.Quantity
	m.UnitCost = b.UnitCost
	m.Consumed = b.Consumed
}

// StockBatchModelFromDomain creates a persistence model from a domain StockBatch.
func StockBatchModelFromDomain(b *inventory.StockBatch) *StockBatchModel {
	m := &StockBatchModel{}
	m.FromDomain(b)
	return m
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/sales"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	AggregateModel
	SaleNumber   string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	ShopID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	CustomerID   *uuid.UUID       `gorm:"type:uuid;index"`
	CustomerName string           `gorm:"type:varchar(200)"`
	Items        []SaleItemModel  `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Discount     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	VAT          decimal.Decimal  `gorm:"column:vat;type:decimal(18,4);not null;default:0"`
	GrandTotal   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status       sales.SaleStatus `gorm:"type:varchar(20);not null;default:'NOT_APPROVED';index"`
	Remark       string           `gorm:"type:text"`
	ApprovedAt   *time.Time       `gorm:"index"`
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale aggregate.
func (m *SaleModel) ToDomain() *sales.Sale {
	sale := &sales.Sale{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SaleNumber:        m.SaleNumber,
		ShopID:            m.ShopID,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		VAT:               m.VAT,
		GrandTotal:        m.GrandTotal,
		Status:            m.Status,
		Remark:            m.Remark,
		ApprovedAt:        m.ApprovedAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Items:             make([]sales.SaleItem, len(m.Items)),
	}
	for i, item := range m.Items {
		sale.Items[i] = item.ToDomain()
	}
	return sale
}

// FromDomain populates the persistence model from a domain Sale aggregate.
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.ShopID = s.ShopID
	m.CustomerID = s.CustomerID
	m.CustomerName = s.CustomerName
	m.Subtotal = s.Subtotal
	m.Discount = s.Discount
	m.VAT = s.VAT
	m.GrandTotal = s.GrandTotal
	m.Status = s.Status
	m.Remark = s.Remark
	m.ApprovedAt = s.ApprovedAt
	m.DeliveredAt = s.DeliveredAt
	m.CancelledAt = s.CancelledAt
	m.CancelReason = s.CancelReason
	m.Items = make([]SaleItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i].FromDomain(&s.Items[i])
	}
}

// SaleModelFromDomain creates a persistence model from a domain Sale.
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is the persistence model for the SaleItem entity.
type SaleItemModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key"`
	SaleID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName       string           `gorm:"type:varchar(200);not null"`
	ProductCode       string           `gorm:"type:varchar(50);not null"`
	Quantity          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	DeliveredQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Amount            decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Unit              string           `gorm:"type:varchar(20);not null"`
	Status            sales.ItemStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt         time.Time        `gorm:"not null"`
	UpdatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() sales.SaleItem {
	return sales.SaleItem{
		ID:                m.ID,
		SaleID:            m.SaleID,
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		ProductCode:       m.ProductCode,
		Quantity:          m.Quantity,
		DeliveredQuantity: m.DeliveredQuantity,
		UnitPrice:         m.UnitPrice,
		Amount:            m.Amount,
		Unit:              m.Unit,
		Status:            m.Status,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleItem.
func (m *SaleItemModel) FromDomain(i *sales.SaleItem) {
	m.ID = i.ID
	m.SaleID = i.SaleID
	m.ProductID = i.ProductID
	m.ProductName = i.ProductName
	m.ProductCode = i.ProductCode
	m.Quantity = i.Quantity
	m.DeliveredQuantity = i.DeliveredQuantity
	m.UnitPrice = i.UnitPrice
	m.Amount = i.Amount
	m.Unit = i.Unit
	m.Status = i.Status
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

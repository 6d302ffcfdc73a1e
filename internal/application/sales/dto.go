package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/sales"
)

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	ShopID       uuid.UUID             `json:"shop_id" binding:"required"`
	CustomerID   *uuid.UUID            `json:"customer_id"`
	CustomerName string                `json:"customer_name" binding:"max=200"`
	Items        []CreateSaleItemInput `json:"items" binding:"required,min=1"`
	Discount     decimal.Decimal       `json:"discount"`
	Remark       string                `json:"remark"`
}

// CreateSaleItemInput represents an item in the create sale request
type CreateSaleItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CancelSaleRequest represents a request to cancel a sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Search    string            `form:"search"`
	ShopID    *uuid.UUID        `form:"shop_id"`
	Status    *sales.SaleStatus `form:"status"`
	Statuses  []string          `form:"statuses"`
	StartDate *time.Time        `form:"start_date"`
	EndDate   *time.Time        `form:"end_date"`
	Page      int               `form:"page" binding:"omitempty,min=1"`
	PageSize  int               `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string            `form:"order_by"`
	OrderDir  string            `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleItemResponse represents a sale item in API responses
type SaleItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductCode       string          `json:"product_code"`
	Quantity          decimal.Decimal `json:"quantity"`
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
	Unit              string          `json:"unit"`
	Status            string          `json:"status"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID           uuid.UUID          `json:"id"`
	SaleNumber   string             `json:"sale_number"`
	ShopID       uuid.UUID          `json:"shop_id"`
	CustomerID   *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name"`
	Items        []SaleItemResponse `json:"items"`
	ItemCount    int                `json:"item_count"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Discount     decimal.Decimal    `json:"discount"`
	VAT          decimal.Decimal    `json:"vat"`
	GrandTotal   decimal.Decimal    `json:"grand_total"`
	Status       string             `json:"status"`
	Remark       string             `json:"remark,omitempty"`
	ApprovedAt   *time.Time         `json:"approved_at,omitempty"`
	DeliveredAt  *time.Time         `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason string             `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Version      int                `json:"version"`
}

// SaleListItemResponse represents a sale in list responses (less detail)
type SaleListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	SaleNumber   string          `json:"sale_number"`
	ShopID       uuid.UUID       `json:"shop_id"`
	CustomerName string          `json:"customer_name"`
	ItemCount    int             `json:"item_count"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToSaleItemResponse converts a domain sale item to a response
func ToSaleItemResponse(item *sales.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		ProductCode:       item.ProductCode,
		Quantity:          item.Quantity,
		DeliveredQuantity: item.DeliveredQuantity,
		RemainingQuantity: item.RemainingQuantity(),
		UnitPrice:         item.UnitPrice,
		Amount:            item.Amount,
		Unit:              item.Unit,
		Status:            string(item.Status),
	}
}

// ToSaleResponse converts a domain sale to a response
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i := range sale.Items {
		items[i] = ToSaleItemResponse(&sale.Items[i])
	}

	return SaleResponse{
		ID:           sale.ID,
		SaleNumber:   sale.SaleNumber,
		ShopID:       sale.ShopID,
		CustomerID:   sale.CustomerID,
		CustomerName: sale.CustomerName,
		Items:        items,
		ItemCount:    len(items),
		Subtotal:     sale.Subtotal,
		Discount:     sale.Discount,
		VAT:          sale.VAT,
		GrandTotal:   sale.GrandTotal,
		Status:       string(sale.Status),
		Remark:       sale.Remark,
		ApprovedAt:   sale.ApprovedAt,
		DeliveredAt:  sale.DeliveredAt,
		CancelledAt:  sale.CancelledAt,
		CancelReason: sale.CancelReason,
		CreatedAt:    sale.CreatedAt,
		UpdatedAt:    sale.UpdatedAt,
		Version:      sale.Version,
	}
}

// ToSaleListItemResponses converts domain sales to list responses
func ToSaleListItemResponses(saleList []sales.Sale) []SaleListItemResponse {
	responses := make([]SaleListItemResponse, len(saleList))
	for i := range saleList {
		sale := &saleList[i]
		responses[i] = SaleListItemResponse{
			ID:           sale.ID,
			SaleNumber:   sale.SaleNumber,
			ShopID:       sale.ShopID,
			CustomerName: sale.CustomerName,
			ItemCount:    len(sale.Items),
			GrandTotal:   sale.GrandTotal,
			Status:       string(sale.Status),
			CreatedAt:    sale.CreatedAt,
		}
	}
	return responses
}

package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary is a read model with aggregated sales statistics for a period
// This is a CQRS read model optimized for querying
type SalesSummary struct {
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	TotalSales       int64           `json:"total_sales"`
	TotalSalesAmount decimal.Decimal `json:"total_sales_amount"`
	NotApproved      int64           `json:"not_approved"`
	Approved         int64           `json:"approved"`
	PartiallyDelivered int64         `json:"partially_delivered"`
	Delivered        int64           `json:"delivered"`
	Cancelled        int64           `json:"cancelled"`
}

// ShopPendingDeliveries represents the open delivery workload of one shop
type ShopPendingDeliveries struct {
	ShopID             uuid.UUID       `json:"shop_id"`
	ShopName           string          `json:"shop_name"`
	PendingSales       int64           `json:"pending_sales"`
	PendingItems       int64           `json:"pending_items"`
	UndeliveredQuantity decimal.Decimal `json:"undelivered_quantity"`
}

// DailySalesTrend represents daily sales trend data
type DailySalesTrend struct {
	Date        time.Time       `json:"date"`
	SaleCount   int64           `json:"sale_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DashboardRepository provides the aggregate queries behind the dashboard
type DashboardRepository interface {
	// SalesSummary aggregates sales counts and amounts for a period
	SalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error)

	// PendingDeliveries breaks down open delivery work per shop
	PendingDeliveries(ctx context.Context) ([]ShopPendingDeliveries, error)

	// DailySalesTrend returns per-day sale counts and amounts for a period
	DailySalesTrend(ctx context.Context, start, end time.Time) ([]DailySalesTrend, error)
}

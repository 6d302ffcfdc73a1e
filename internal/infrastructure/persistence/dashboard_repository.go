package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/domain/sales"
)

// GormDashboardRepository implements report.DashboardRepository with
// SQL aggregations over the sales tables.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// SalesSummary aggregates sales counts and amounts for a period
func (r *GormDashboardRepository) SalesSummary(ctx context.Context, start, end time.Time) (*report.SalesSummary, error) {
	type statusRow struct {
		Status sales.SaleStatus
		Count  int64
		Amount decimal.Decimal
	}

	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Table("sales").
		Select("status, COUNT(*) AS count, COALESCE(SUM(grand_total), 0) AS amount").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &report.SalesSummary{
		PeriodStart:      start,
		PeriodEnd:        end,
		TotalSalesAmount: decimal.Zero,
	}

	for _, row := range rows {
		summary.TotalSales += row.Count
		switch row.Status {
		case sales.SaleStatusNotApproved:
			summary.NotApproved = row.Count
		case sales.SaleStatusApproved:
			summary.Approved = row.Count
		case sales.SaleStatusPartiallyDelivered:
			summary.PartiallyDelivered = row.Count
		case sales.SaleStatusDelivered:
			summary.Delivered = row.Count
		case sales.SaleStatusCancelled:
			summary.Cancelled = row.Count
		}
		// Cancelled sales do not count towards revenue
		if row.Status != sales.SaleStatusCancelled {
			summary.TotalSalesAmount = summary.TotalSalesAmount.Add(row.Amount)
		}
	}

	return summary, nil
}

// PendingDeliveries breaks down open delivery work per shop
func (r *GormDashboardRepository) PendingDeliveries(ctx context.Context) ([]report.ShopPendingDeliveries, error) {
	type pendingRow struct {
		ShopID              uuid.UUID
		ShopName            string
		PendingSales        int64
		PendingItems        int64
		UndeliveredQuantity decimal.Decimal
	}

	var rows []pendingRow
	if err := r.db.WithContext(ctx).
		Table("sales").
		Select(`sales.shop_id AS shop_id,
			shops.name AS shop_name,
			COUNT(DISTINCT sales.id) AS pending_sales,
			COUNT(sale_items.id) AS pending_items,
			COALESCE(SUM(sale_items.quantity - sale_items.delivered_quantity), 0) AS undelivered_quantity`).
		Joins("JOIN shops ON shops.id = sales.shop_id").
		Joins("JOIN sale_items ON sale_items.sale_id = sales.id AND sale_items.status = ?", sales.ItemStatusPending).
		Where("sales.status IN ?", []sales.SaleStatus{sales.SaleStatusApproved, sales.SaleStatusPartiallyDelivered}).
		Group("sales.shop_id, shops.name").
		Order("pending_sales DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]report.ShopPendingDeliveries, len(rows))
	for i, row := range rows {
		result[i] = report.ShopPendingDeliveries{
			ShopID:              row.ShopID,
			ShopName:            row.ShopName,
			PendingSales:        row.PendingSales,
			PendingItems:        row.PendingItems,
			UndeliveredQuantity: row.UndeliveredQuantity,
		}
	}
	return result, nil
}

// DailySalesTrend returns per-day sale counts and amounts for a period
func (r *GormDashboardRepository) DailySalesTrend(ctx context.Context, start, end time.Time) ([]report.DailySalesTrend, error) {
	type trendRow struct {
		Date        time.Time
		SaleCount   int64
		TotalAmount decimal.Decimal
	}

	var rows []trendRow
	if err := r.db.WithContext(ctx).
		Table("sales").
		Select("DATE(created_at) AS date, COUNT(*) AS sale_count, COALESCE(SUM(grand_total), 0) AS total_amount").
		Where("created_at >= ? AND created_at <= ? AND status <> ?", start, end, sales.SaleStatusCancelled).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]report.DailySalesTrend, len(rows))
	for i, row := range rows {
		result[i] = report.DailySalesTrend{
			Date:        row.Date,
			SaleCount:   row.SaleCount,
			TotalAmount: row.TotalAmount,
		}
	}
	return result, nil
}

var _ report.DashboardRepository = (*GormDashboardRepository)(nil)

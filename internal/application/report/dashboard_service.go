package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/report"
)

// DashboardService assembles the back-office dashboard: sales statistics,
// the per-shop pending delivery workload and stock alerts
type DashboardService struct {
	dashboardRepo report.DashboardRepository
	batchRepo     inventory.StockBatchRepository
	thresholds    inventory.AlertThresholds
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(dashboardRepo report.DashboardRepository, batchRepo inventory.StockBatchRepository, thresholds inventory.AlertThresholds) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		batchRepo:     batchRepo,
		thresholds:    thresholds,
	}
}

// StockAlertsResponse groups a shop's stock alerts by kind
type StockAlertsResponse struct {
	Expired      []StockAlertItem `json:"expired"`
	ExpiringSoon []StockAlertItem `json:"expiring_soon"`
	LowStock     []StockAlertItem `json:"low_stock"`
}

// StockAlertItem represents one alerting batch
type StockAlertItem struct {
	BatchID     uuid.UUID  `json:"batch_id"`
	ProductID   uuid.UUID  `json:"product_id"`
	BatchNumber string     `json:"batch_number"`
	Quantity    string     `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// DashboardResponse is the full dashboard payload
type DashboardResponse struct {
	Summary           *report.SalesSummary           `json:"summary"`
	PendingDeliveries []report.ShopPendingDeliveries `json:"pending_deliveries"`
	Trend             []report.DailySalesTrend       `json:"trend"`
}

// GetDashboard builds the dashboard for a period
func (s *DashboardService) GetDashboard(ctx context.Context, start, end time.Time) (*DashboardResponse, error) {
	summary, err := s.dashboardRepo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	pending, err := s.dashboardRepo.PendingDeliveries(ctx)
	if err != nil {
		return nil, err
	}

	trend, err := s.dashboardRepo.DailySalesTrend(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Summary:           summary,
		PendingDeliveries: pending,
		Trend:             trend,
	}, nil
}

// GetStockAlerts evaluates every batch of a shop against the alert
// thresholds and groups the results by kind
func (s *DashboardService) GetStockAlerts(ctx context.Context, shopID uuid.UUID) (*StockAlertsResponse, error) {
	expired, err := s.batchRepo.FindExpired(ctx, shopID)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(s.thresholds.ExpiryWindow)
	expiring, err := s.batchRepo.FindExpiringWithin(ctx, shopID, cutoff)
	if err != nil {
		return nil, err
	}

	low, err := s.batchRepo.FindLowStock(ctx, shopID, s.thresholds.LowStock)
	if err != nil {
		return nil, err
	}

	response := &StockAlertsResponse{
		Expired:      toAlertItems(expired),
		ExpiringSoon: toAlertItems(withoutExpired(expiring)),
		LowStock:     toAlertItems(low),
	}
	return response, nil
}

// withoutExpired drops already-expired batches from an expiring-soon list
// so a batch never appears in both groups
func withoutExpired(batches []inventory.StockBatch) []inventory.StockBatch {
	out := batches[:0]
	for _, batch := range batches {
		if !batch.IsExpired() {
			out = append(out, batch)
		}
	}
	return out
}

func toAlertItems(batches []inventory.StockBatch) []StockAlertItem {
	items := make([]StockAlertItem, len(batches))
	for i, batch := range batches {
		items[i] = StockAlertItem{
			BatchID:     batch.ID,
			ProductID:   batch.ProductID,
			BatchNumber: batch.BatchNumber,
			Quantity:    batch.Quantity.String(),
			ExpiryDate:  batch.ExpiryDate,
		}
	}
	return items
}

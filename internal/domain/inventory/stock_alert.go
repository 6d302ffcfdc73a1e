package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertKind classifies a stock alert
type AlertKind string

const (
	AlertKindExpired      AlertKind = "EXPIRED"
	AlertKindExpiringSoon AlertKind = "EXPIRING_SOON"
	AlertKindLowStock     AlertKind = "LOW_STOCK"
)

// AlertThresholds controls when batches raise alerts
type AlertThresholds struct {
	ExpiryWindow time.Duration   // How far ahead to warn about expiry
	LowStock     decimal.Decimal // Quantity at or below which stock is low
}

// DefaultAlertThresholds returns the thresholds used when none are configured
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		ExpiryWindow: 30 * 24 * time.Hour,
		LowStock:     decimal.NewFromInt(10),
	}
}

// StockAlert is one alert raised against a batch
type StockAlert struct {
	Kind        AlertKind
	BatchID     uuid.UUID
	ShopID      uuid.UUID
	ProductID   uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	ExpiryDate  *time.Time
}

// EvaluateAlerts inspects the batch against the thresholds and returns
// every alert it raises. An expired batch does not also report as
// expiring soon.
func EvaluateAlerts(batch *StockBatch, thresholds AlertThresholds) []StockAlert {
	if !batch.HasStock() {
		return nil
	}

	base := StockAlert{
		BatchID:     batch.ID,
		ShopID:      batch.ShopID,
		ProductID:   batch.ProductID,
		BatchNumber: batch.BatchNumber,
		Quantity:    batch.Quantity,
		ExpiryDate:  batch.ExpiryDate,
	}

	var alerts []StockAlert
	switch {
	case batch.IsExpired():
		alert := base
		alert.Kind = AlertKindExpired
		alerts = append(alerts, alert)
	case batch.WillExpireWithin(thresholds.ExpiryWindow):
		alert := base
		alert.Kind = AlertKindExpiringSoon
		alerts = append(alerts, alert)
	}

	if batch.Quantity.LessThanOrEqual(thresholds.LowStock) {
		alert := base
		alert.Kind = AlertKindLowStock
		alerts = append(alerts, alert)
	}

	return alerts
}

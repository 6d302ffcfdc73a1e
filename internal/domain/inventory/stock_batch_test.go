package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/shared"
)

func newTestBatch(t *testing.T, quantity int64, expiry *time.Time) *StockBatch {
	t.Helper()
	batch, err := NewStockBatch(uuid.New(), uuid.New(), "LOT-001", expiry, decimal.NewFromInt(quantity), decimal.NewFromInt(40))
	require.NoError(t, err)
	return batch
}

func TestNewStockBatch(t *testing.T) {
	t.Run("creates a batch", func(t *testing.T) {
		batch := newTestBatch(t, 20, nil)

		assert.Equal(t, "LOT-001", batch.BatchNumber)
		assert.True(t, batch.HasStock())
		assert.False(t, batch.Consumed)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewStockBatch(uuid.New(), uuid.New(), "LOT-001", nil, decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("zero quantity batch starts consumed", func(t *testing.T) {
		batch := newTestBatch(t, 0, nil)
		assert.True(t, batch.Consumed)
		assert.False(t, batch.HasStock())
	})
}

func TestStockBatch_Deduct(t *testing.T) {
	t.Run("deducts within the remaining quantity", func(t *testing.T) {
		batch := newTestBatch(t, 20, nil)

		require.NoError(t, batch.Deduct(decimal.NewFromInt(8)))
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(12)))
		assert.False(t, batch.Consumed)
	})

	t.Run("deducting the full quantity consumes the batch", func(t *testing.T) {
		batch := newTestBatch(t, 20, nil)

		require.NoError(t, batch.Deduct(decimal.NewFromInt(20)))
		assert.True(t, batch.Consumed)
		assert.False(t, batch.IsAvailable())
	})

	t.Run("rejects over-deduction", func(t *testing.T) {
		batch := newTestBatch(t, 20, nil)

		err := batch.Deduct(decimal.NewFromInt(21))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(20)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		batch := newTestBatch(t, 20, nil)
		assert.Error(t, batch.Deduct(decimal.Zero))
	})

	t.Run("adding stock revives a consumed batch", func(t *testing.T) {
		batch := newTestBatch(t, 5, nil)
		require.NoError(t, batch.Deduct(decimal.NewFromInt(5)))

		batch.Add(decimal.NewFromInt(3))
		assert.False(t, batch.Consumed)
		assert.True(t, batch.HasStock())
	})
}

func TestStockBatch_Expiry(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	soon := time.Now().Add(5 * 24 * time.Hour)
	far := time.Now().Add(90 * 24 * time.Hour)

	t.Run("expired batch is not available", func(t *testing.T) {
		batch := newTestBatch(t, 10, &past)
		assert.True(t, batch.IsExpired())
		assert.True(t, batch.HasStock())
		assert.False(t, batch.IsAvailable())
	})

	t.Run("expiry window check", func(t *testing.T) {
		batch := newTestBatch(t, 10, &soon)
		assert.True(t, batch.WillExpireWithin(30*24*time.Hour))

		batch = newTestBatch(t, 10, &far)
		assert.False(t, batch.WillExpireWithin(30*24*time.Hour))
	})

	t.Run("no expiry date never expires", func(t *testing.T) {
		batch := newTestBatch(t, 10, nil)
		assert.False(t, batch.IsExpired())
		assert.False(t, batch.WillExpireWithin(365*24*time.Hour))
		assert.Equal(t, -1, batch.DaysUntilExpiry())
	})
}

func TestEvaluateAlerts(t *testing.T) {
	thresholds := DefaultAlertThresholds()
	past := time.Now().Add(-24 * time.Hour)
	soon := time.Now().Add(5 * 24 * time.Hour)
	far := time.Now().Add(90 * 24 * time.Hour)

	t.Run("expired batch raises expired alert only", func(t *testing.T) {
		batch := newTestBatch(t, 50, &past)

		alerts := EvaluateAlerts(batch, thresholds)
		require.Len(t, alerts, 1)
		assert.Equal(t, AlertKindExpired, alerts[0].Kind)
	})

	t.Run("expiring batch with low stock raises both alerts", func(t *testing.T) {
		batch := newTestBatch(t, 4, &soon)

		alerts := EvaluateAlerts(batch, thresholds)
		require.Len(t, alerts, 2)
		assert.Equal(t, AlertKindExpiringSoon, alerts[0].Kind)
		assert.Equal(t, AlertKindLowStock, alerts[1].Kind)
	})

	t.Run("healthy batch raises nothing", func(t *testing.T) {
		batch := newTestBatch(t, 50, &far)
		assert.Empty(t, EvaluateAlerts(batch, thresholds))
	})

	t.Run("consumed batch raises nothing", func(t *testing.T) {
		batch := newTestBatch(t, 0, &past)
		assert.Empty(t, EvaluateAlerts(batch, thresholds))
	})
}

func TestStockBatch_ToView(t *testing.T) {
	expiry := time.Now().Add(48 * time.Hour)
	batch := newTestBatch(t, 17, &expiry)

	view := batch.ToView()
	assert.Equal(t, batch.ID, view.BatchID)
	assert.Equal(t, "LOT-001", view.BatchNumber)
	assert.Equal(t, int64(17), view.AvailableQuantity)
	assert.Equal(t, &expiry, view.ExpiryDate)
}

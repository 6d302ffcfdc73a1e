package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domaindelivery "github.com/storefront/backend/internal/domain/delivery"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	args := m.Called(ctx, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindDeliverable(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) CountByStatus(ctx context.Context, status sales.SaleStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) ExistsBySaleNumber(ctx context.Context, saleNumber string) (bool, error) {
	args := m.Called(ctx, saleNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) GenerateSaleNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockStockBatchRepository is a mock implementation of inventory.StockBatchRepository
type MockStockBatchRepository struct {
	mock.Mock
}

func (m *MockStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) FindAvailable(ctx context.Context, shopID, productID uuid.UUID) ([]inventory.StockBatch, error) {
	args := m.Called(ctx, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) FindByShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]inventory.StockBatch, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) FindExpired(ctx context.Context, shopID uuid.UUID) ([]inventory.StockBatch, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) FindExpiringWithin(ctx context.Context, shopID uuid.UUID, cutoff time.Time) ([]inventory.StockBatch, error) {
	args := m.Called(ctx, shopID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) FindLowStock(ctx context.Context, shopID uuid.UUID, threshold decimal.Decimal) ([]inventory.StockBatch, error) {
	args := m.Called(ctx, shopID, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockStockBatchRepository) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	args := m.Called(ctx, batches)
	return args.Error(0)
}

func (m *MockStockBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockBatchRepository) TotalQuantity(ctx context.Context, shopID, productID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, shopID, productID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// stubTxManager runs the unit of work without a database transaction
type stubTxManager struct{}

func (stubTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newApprovedSale(t *testing.T, quantities ...int64) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale("SO-2025-0001", uuid.New(), "Abebe Kebede")
	require.NoError(t, err)

	price := valueobject.NewDefaultMoney(decimal.NewFromInt(100))
	for _, q := range quantities {
		_, err := sale.AddItem(uuid.New(), "Amoxicillin 500mg", "AMX-500", "box", decimal.NewFromInt(q), price)
		require.NoError(t, err)
	}
	require.NoError(t, sale.Approve())
	sale.ClearDomainEvents()
	return sale
}

func newBatch(t *testing.T, sale *sales.Sale, quantity int64) *inventory.StockBatch {
	t.Helper()
	batch, err := inventory.NewStockBatch(sale.ShopID, sale.Items[0].ProductID, "LOT-001", nil, decimal.NewFromInt(quantity), decimal.NewFromInt(40))
	require.NoError(t, err)
	return batch
}

func TestDeliveryService_OpenSession(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a session for a deliverable sale", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale := newApprovedSale(t, 10, 5)
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		response, err := service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)

		assert.Equal(t, sale.ID, response.SaleID)
		require.Len(t, response.Items, 2)
		assert.Equal(t, int64(10), response.Items[0].RequiredQuantity)
		assert.Equal(t, "UNALLOCATED", response.Items[0].State)
	})

	t.Run("resuming keeps existing allocations", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale := newApprovedSale(t, 10)
		batch := newBatch(t, sale, 20)
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)

		_, err := service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)

		_, err = service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: batch.ID, Quantity: 4,
		})
		require.NoError(t, err)

		response, err := service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), response.Items[0].SelectedQuantity)
	})

	t.Run("rejects a sale that cannot be delivered", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale, err := sales.NewSale("SO-2025-0002", uuid.New(), "Abebe Kebede")
		require.NoError(t, err)
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		_, err = service.OpenSession(ctx, sale.ID)
		assert.Error(t, err)
	})
}

func TestDeliveryService_SelectBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("validates against current batch stock", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale := newApprovedSale(t, 10)
		batch := newBatch(t, sale, 6)
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)

		_, err := service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)

		_, err = service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: batch.ID, Quantity: 7,
		})
		assert.ErrorIs(t, err, domaindelivery.ErrInsufficientBatchStock)

		response, err := service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: batch.ID, Quantity: 6,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6), response.SelectedQuantity)
		assert.Equal(t, int64(4), response.RemainingNeeded)
	})

	t.Run("rejects a batch holding a different product", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale := newApprovedSale(t, 10)
		other, err := inventory.NewStockBatch(sale.ShopID, uuid.New(), "LOT-002", nil, decimal.NewFromInt(20), decimal.NewFromInt(40))
		require.NoError(t, err)
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		batchRepo.On("FindByID", ctx, other.ID).Return(other, nil)

		_, err = service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)

		_, err = service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: other.ID, Quantity: 2,
		})
		assert.ErrorIs(t, err, domaindelivery.ErrBatchMismatch)
		assert.Equal(t, int64(0), service.sessions.Get(sale.ID).TotalSelected(sale.Items[0].ID))
	})

	t.Run("rejects a batch from another shop", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale := newApprovedSale(t, 10)
		other, err := inventory.NewStockBatch(uuid.New(), sale.Items[0].ProductID, "LOT-003", nil, decimal.NewFromInt(20), decimal.NewFromInt(40))
		require.NoError(t, err)
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		batchRepo.On("FindByID", ctx, other.ID).Return(other, nil)

		_, err = service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)

		_, err = service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: other.ID, Quantity: 2,
		})
		assert.ErrorIs(t, err, domaindelivery.ErrBatchMismatch)
	})

	t.Run("requires an open session", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		_, err := service.SelectBatch(ctx, uuid.New(), SelectBatchRequest{
			ItemID: uuid.New(), BatchID: uuid.New(), Quantity: 1,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDeliveryService_Submit(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*DeliveryService, *MockSaleRepository, *MockStockBatchRepository, *sales.Sale, *inventory.StockBatch) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale := newApprovedSale(t, 10)
		batch := newBatch(t, sale, 20)
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)

		_, err := service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)
		return service, saleRepo, batchRepo, sale, batch
	}

	t.Run("full delivery completes the sale and deducts stock", func(t *testing.T) {
		service, saleRepo, batchRepo, sale, batch := setup(t)

		_, err := service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: batch.ID, Quantity: 10,
		})
		require.NoError(t, err)

		saleRepo.On("SaveWithLock", ctx, sale).Return(nil)
		batchRepo.On("SaveAll", ctx, mock.Anything).Return(nil)

		response, err := service.Submit(ctx, sale.ID)
		require.NoError(t, err)

		assert.Equal(t, string(sales.SaleStatusDelivered), response.SaleStatus)
		assert.Equal(t, 1, response.ItemCount)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(10)))
		// Fully cleared session is discarded
		assert.Equal(t, 0, service.sessions.Len())
	})

	t.Run("partial delivery leaves the sale partially delivered", func(t *testing.T) {
		service, saleRepo, batchRepo, sale, batch := setup(t)

		_, err := service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: batch.ID, Quantity: 4,
		})
		require.NoError(t, err)

		saleRepo.On("SaveWithLock", ctx, sale).Return(nil)
		batchRepo.On("SaveAll", ctx, mock.Anything).Return(nil)

		response, err := service.Submit(ctx, sale.ID)
		require.NoError(t, err)

		assert.Equal(t, string(sales.SaleStatusPartiallyDelivered), response.SaleStatus)
		assert.True(t, sale.GetItem(sale.Items[0].ID).RemainingQuantity().Equal(decimal.NewFromInt(6)))
	})

	t.Run("empty session cannot be submitted", func(t *testing.T) {
		service, _, _, sale, _ := setup(t)

		_, err := service.Submit(ctx, sale.ID)
		assert.ErrorIs(t, err, domaindelivery.ErrNothingToSubmit)
	})

	t.Run("persistence failure preserves the session", func(t *testing.T) {
		service, saleRepo, _, sale, batch := setup(t)

		_, err := service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: batch.ID, Quantity: 4,
		})
		require.NoError(t, err)

		saleRepo.On("SaveWithLock", ctx, sale).Return(shared.NewDomainError("CONFLICT", "Version conflict"))

		_, err = service.Submit(ctx, sale.ID)
		assert.Error(t, err)

		// Allocations survive for correction and retry
		session := service.sessions.Get(sale.ID)
		require.NotNil(t, session)
		assert.Equal(t, int64(4), session.TotalSelected(sale.Items[0].ID))
	})

	t.Run("retry after a failed commit records the delivery once", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		batchRepo := new(MockStockBatchRepository)
		service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

		sale := newApprovedSale(t, 10)
		batch := newBatch(t, sale, 20)

		// The copies stand in for the database state the rollback restores
		restoredSale := *sale
		restoredSale.Items = append([]sales.SaleItem(nil), sale.Items...)
		restoredBatch := *batch

		// Open, select and the first submit read the live aggregates; the
		// retry reads the rolled-back state
		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil).Times(3)
		saleRepo.On("FindByID", ctx, sale.ID).Return(&restoredSale, nil).Once()
		batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil).Times(2)
		batchRepo.On("FindByID", ctx, batch.ID).Return(&restoredBatch, nil).Once()

		_, err := service.OpenSession(ctx, sale.ID)
		require.NoError(t, err)
		_, err = service.SelectBatch(ctx, sale.ID, SelectBatchRequest{
			ItemID: sale.Items[0].ID, BatchID: batch.ID, Quantity: 4,
		})
		require.NoError(t, err)

		saleRepo.On("SaveWithLock", ctx, mock.Anything).Return(nil)
		batchRepo.On("SaveAll", ctx, mock.Anything).Return(shared.NewDomainError("CONFLICT", "Version conflict")).Once()
		batchRepo.On("SaveAll", ctx, mock.Anything).Return(nil).Once()

		_, err = service.Submit(ctx, sale.ID)
		require.Error(t, err)

		response, err := service.Submit(ctx, sale.ID)
		require.NoError(t, err)

		assert.Equal(t, string(sales.SaleStatusPartiallyDelivered), response.SaleStatus)
		assert.True(t, restoredSale.TotalDeliveredQuantity().Equal(decimal.NewFromInt(4)))
		assert.True(t, restoredBatch.Quantity.Equal(decimal.NewFromInt(16)))
	})
}

func TestDeliveryService_GetBatches(t *testing.T) {
	ctx := context.Background()
	saleRepo := new(MockSaleRepository)
	batchRepo := new(MockStockBatchRepository)
	service := NewDeliveryService(saleRepo, batchRepo, stubTxManager{})

	shopID := uuid.New()
	productID := uuid.New()
	expiry := time.Now().Add(48 * time.Hour)
	batch, err := inventory.NewStockBatch(shopID, productID, "LOT-007", &expiry, decimal.NewFromInt(15), decimal.NewFromInt(40))
	require.NoError(t, err)

	batchRepo.On("FindAvailable", ctx, shopID, productID).Return([]inventory.StockBatch{*batch}, nil)

	responses, err := service.GetBatches(ctx, shopID, productID)
	require.NoError(t, err)

	require.Len(t, responses, 1)
	assert.Equal(t, "LOT-007", responses[0].BatchNumber)
	assert.Equal(t, int64(15), responses[0].AvailableQuantity)
	assert.False(t, responses[0].Expired)
}

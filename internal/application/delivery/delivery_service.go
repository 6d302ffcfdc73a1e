package delivery

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/delivery"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/shared"
)

// DeliveryService drives the partial-delivery workflow: it owns the
// per-sale allocation sessions, serves batch availability, and turns an
// assembled session into delivered quantities on the sale and deducted
// stock on the batches.
type DeliveryService struct {
	saleRepo       sales.SaleRepository
	batchRepo      inventory.StockBatchRepository
	txManager      shared.TransactionManager
	sessions       *SessionStore
	eventPublisher shared.EventPublisher
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(saleRepo sales.SaleRepository, batchRepo inventory.StockBatchRepository, txManager shared.TransactionManager) *DeliveryService {
	return &DeliveryService{
		saleRepo:  saleRepo,
		batchRepo: batchRepo,
		txManager: txManager,
		sessions:  NewSessionStore(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DeliveryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// OpenSession opens (or resumes) the allocation session for a sale and
// returns its current state
func (s *DeliveryService) OpenSession(ctx context.Context, saleID uuid.UUID) (*SessionResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !sale.IsDeliverable() {
		return nil, shared.NewDomainError("INVALID_STATE", "Sale is not eligible for delivery")
	}

	session := s.sessions.GetOrCreate(saleID, sale.AllocationLineItems)
	return s.toSessionResponse(sale, session), nil
}

// GetSession returns the current session state for a sale
func (s *DeliveryService) GetSession(ctx context.Context, saleID uuid.UUID) (*SessionResponse, error) {
	session := s.sessions.Get(saleID)
	if session == nil {
		return nil, shared.ErrNotFound
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.toSessionResponse(sale, session), nil
}

// GetBatches returns the batches of a product available at a shop,
// soonest expiry first
func (s *DeliveryService) GetBatches(ctx context.Context, shopID, productID uuid.UUID) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindAvailable(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}

	views := make([]delivery.BatchView, len(batches))
	for i := range batches {
		views[i] = batches[i].ToView()
	}
	return ToBatchResponses(views), nil
}

// SelectBatch assigns a batch quantity to a sale item within the sale's
// session. The batch's availability is re-read so the validation runs
// against current stock, not a stale snapshot.
func (s *DeliveryService) SelectBatch(ctx context.Context, saleID uuid.UUID, req SelectBatchRequest) (*ItemAllocationResponse, error) {
	session := s.sessions.Get(saleID)
	if session == nil {
		return nil, shared.ErrNotFound
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.FindByID(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	if err := validateBatchForItem(sale, req.ItemID, batch); err != nil {
		return nil, err
	}

	if err := session.SelectBatch(req.ItemID, req.BatchID, req.Quantity, batch.Quantity.IntPart()); err != nil {
		return nil, err
	}

	response := ToItemAllocationResponse(session, req.ItemID)
	return &response, nil
}

// AssignAllRemaining covers as much of the item's remaining need as the
// batch allows
func (s *DeliveryService) AssignAllRemaining(ctx context.Context, saleID uuid.UUID, req AssignAllRequest) (*AssignAllResponse, error) {
	session := s.sessions.Get(saleID)
	if session == nil {
		return nil, shared.ErrNotFound
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.FindByID(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	if err := validateBatchForItem(sale, req.ItemID, batch); err != nil {
		return nil, err
	}

	allocated, partial, err := session.AssignAllRemaining(req.ItemID, req.BatchID, batch.Quantity.IntPart())
	if err != nil {
		return nil, err
	}

	return &AssignAllResponse{Allocated: allocated, Partial: partial}, nil
}

// RemoveAllocation removes one (item, batch) allocation from the session
func (s *DeliveryService) RemoveAllocation(ctx context.Context, saleID uuid.UUID, req RemoveAllocationRequest) error {
	session := s.sessions.Get(saleID)
	if session == nil {
		return shared.ErrNotFound
	}

	session.RemoveAllocation(req.ItemID, req.BatchID)
	return nil
}

// ClearItem removes every allocation for one item
func (s *DeliveryService) ClearItem(ctx context.Context, saleID, itemID uuid.UUID) error {
	session := s.sessions.Get(saleID)
	if session == nil {
		return shared.ErrNotFound
	}

	session.ClearItem(itemID)
	return nil
}

// DiscardSession drops the sale's session and all of its allocations
func (s *DeliveryService) DiscardSession(ctx context.Context, saleID uuid.UUID) {
	s.sessions.Discard(saleID)
}

// Submit assembles the session into a delivery, applies it to the sale,
// deducts the allocated batch stock and clears the submitted allocations.
// Any failure leaves the session untouched so the user can correct and
// retry.
func (s *DeliveryService) Submit(ctx context.Context, saleID uuid.UUID) (*SubmitResponse, error) {
	session := s.sessions.Get(saleID)
	if session == nil {
		return nil, shared.ErrNotFound
	}

	data, err := session.Assemble()
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	lines := make([]sales.DeliveryLine, len(data.Items))
	for i, item := range data.Items {
		var total int64
		for _, batch := range item.Batches {
			total += batch.Quantity
		}
		lines[i] = sales.DeliveryLine{
			ItemID:   item.ItemID,
			Quantity: decimal.NewFromInt(total),
		}
	}

	if err := sale.ApplyDelivery(lines); err != nil {
		return nil, err
	}

	// The sale update and the batch deductions commit or roll back
	// together; a half-applied delivery must never survive a retry.
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		batches, err := s.deductBatches(txCtx, sale, data)
		if err != nil {
			return err
		}
		if err := s.saleRepo.SaveWithLock(txCtx, sale); err != nil {
			return err
		}
		return s.batchRepo.SaveAll(txCtx, batches)
	})
	if err != nil {
		return nil, err
	}

	// The delivery is accepted; clearing is now safe and idempotent
	session.CompleteSubmission(data)
	if !session.HasSelections() {
		s.sessions.Discard(saleID)
	}

	s.publishEvents(ctx, sale)

	return &SubmitResponse{
		SaleID:     sale.ID,
		SaleStatus: string(sale.Status),
		ItemCount:  len(data.Items),
	}, nil
}

// deductBatches loads every allocated batch, re-checks that it still
// matches the sale item it covers and deducts the allocated quantity,
// returning the modified batches for persistence
func (s *DeliveryService) deductBatches(ctx context.Context, sale *sales.Sale, data delivery.DeliveryData) ([]*inventory.StockBatch, error) {
	var batches []*inventory.StockBatch
	for _, item := range data.Items {
		for _, line := range item.Batches {
			batch, err := s.batchRepo.FindByID(ctx, line.BatchID)
			if err != nil {
				return nil, err
			}
			if err := validateBatchForItem(sale, item.ItemID, batch); err != nil {
				return nil, err
			}
			if err := batch.Deduct(decimal.NewFromInt(line.Quantity)); err != nil {
				return nil, err
			}
			batches = append(batches, batch)
		}
	}
	return batches, nil
}

// validateBatchForItem rejects a batch that belongs to another shop or
// holds a different product than the sale item it is allocated to
func validateBatchForItem(sale *sales.Sale, itemID uuid.UUID, batch *inventory.StockBatch) error {
	item := sale.GetItem(itemID)
	if item == nil {
		return delivery.ErrUnknownLineItem
	}
	if batch.ShopID != sale.ShopID || batch.ProductID != item.ProductID {
		return delivery.ErrBatchMismatch
	}
	return nil
}

// toSessionResponse renders the session against the sale's undelivered
// items, preserving the sale's item order
func (s *DeliveryService) toSessionResponse(sale *sales.Sale, session *delivery.AllocationSession) *SessionResponse {
	response := &SessionResponse{SaleID: sale.ID}
	for _, item := range sale.PendingItems() {
		response.Items = append(response.Items, ToItemAllocationResponse(session, item.ID))
	}
	return response
}

// publishEvents publishes the sale's pending domain events, best effort
func (s *DeliveryService) publishEvents(ctx context.Context, sale *sales.Sale) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range sale.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	sale.ClearDomainEvents()
}

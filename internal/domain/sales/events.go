package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated            = "SaleCreated"
	EventTypeSaleApproved           = "SaleApproved"
	EventTypeSalePartiallyDelivered = "SalePartiallyDelivered"
	EventTypeSaleDelivered          = "SaleDelivered"
	EventTypeSaleCancelled          = "SaleCancelled"
)

// SaleCreatedEvent is raised when a new sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID `json:"sale_id"`
	SaleNumber   string    `json:"sale_number"`
	ShopID       uuid.UUID `json:"shop_id"`
	CustomerName string    `json:"customer_name"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		ShopID:          sale.ShopID,
		CustomerName:    sale.CustomerName,
	}
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return EventTypeSaleCreated
}

// SaleApprovedEvent is raised when a sale is approved for delivery
type SaleApprovedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	SaleNumber string          `json:"sale_number"`
	ShopID     uuid.UUID       `json:"shop_id"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	ItemCount  int             `json:"item_count"`
}

// NewSaleApprovedEvent creates a new SaleApprovedEvent
func NewSaleApprovedEvent(sale *Sale) *SaleApprovedEvent {
	return &SaleApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleApproved, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		ShopID:          sale.ShopID,
		GrandTotal:      sale.GrandTotal,
		ItemCount:       len(sale.Items),
	}
}

// EventType returns the event type name
func (e *SaleApprovedEvent) EventType() string {
	return EventTypeSaleApproved
}

// DeliveredLineInfo represents a delivered line for events
type DeliveredLineInfo struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SalePartiallyDeliveredEvent is raised when a delivery covers only part
// of the sale; it carries the delivered lines so the inventory context can
// deduct stock
type SalePartiallyDeliveredEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID           `json:"sale_id"`
	SaleNumber string              `json:"sale_number"`
	ShopID     uuid.UUID           `json:"shop_id"`
	Lines      []DeliveredLineInfo `json:"lines"`
}

// NewSalePartiallyDeliveredEvent creates a new SalePartiallyDeliveredEvent
func NewSalePartiallyDeliveredEvent(sale *Sale, lines []DeliveryLine) *SalePartiallyDeliveredEvent {
	info := make([]DeliveredLineInfo, len(lines))
	for i, line := range lines {
		info[i] = DeliveredLineInfo{ItemID: line.ItemID, Quantity: line.Quantity}
	}

	return &SalePartiallyDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalePartiallyDelivered, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		ShopID:          sale.ShopID,
		Lines:           info,
	}
}

// EventType returns the event type name
func (e *SalePartiallyDeliveredEvent) EventType() string {
	return EventTypeSalePartiallyDelivered
}

// SaleDeliveredEvent is raised when every item of the sale has been delivered
type SaleDeliveredEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	ShopID     uuid.UUID `json:"shop_id"`
}

// NewSaleDeliveredEvent creates a new SaleDeliveredEvent
func NewSaleDeliveredEvent(sale *Sale) *SaleDeliveredEvent {
	return &SaleDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleDelivered, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		ShopID:          sale.ShopID,
	}
}

// EventType returns the event type name
func (e *SaleDeliveredEvent) EventType() string {
	return EventTypeSaleDelivered
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	ShopID     uuid.UUID `json:"shop_id"`
	Reason     string    `json:"reason"`
	WasPartial bool      `json:"was_partial"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		ShopID:          sale.ShopID,
		Reason:          sale.CancelReason,
		WasPartial:      sale.TotalDeliveredQuantity().IsPositive(),
	}
}

// EventType returns the event type name
func (e *SaleCancelledEvent) EventType() string {
	return EventTypeSaleCancelled
}

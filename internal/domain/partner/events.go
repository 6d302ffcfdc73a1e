package partner

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeShop = "Shop"

// Event type constants
const EventTypeShopCreated = "ShopCreated"

// ShopCreatedEvent is raised when a new shop is created
type ShopCreatedEvent struct {
	shared.BaseDomainEvent
	ShopID uuid.UUID `json:"shop_id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
}

// NewShopCreatedEvent creates a new ShopCreatedEvent
func NewShopCreatedEvent(shop *Shop) *ShopCreatedEvent {
	return &ShopCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopCreated, AggregateTypeShop, shop.ID),
		ShopID:          shop.ID,
		Code:            shop.Code,
		Name:            shop.Name,
	}
}

// EventType returns the event type name
func (e *ShopCreatedEvent) EventType() string {
	return EventTypeShopCreated
}

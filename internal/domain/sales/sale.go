package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/delivery"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusNotApproved        SaleStatus = "NOT_APPROVED"
	SaleStatusApproved           SaleStatus = "APPROVED"
	SaleStatusPartiallyDelivered SaleStatus = "PARTIALLY_DELIVERED"
	SaleStatusDelivered          SaleStatus = "DELIVERED"
	SaleStatusCancelled          SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusNotApproved, SaleStatusApproved, SaleStatusPartiallyDelivered, SaleStatusDelivered, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusNotApproved:
		return target == SaleStatusApproved || target == SaleStatusCancelled
	case SaleStatusApproved:
		return target == SaleStatusPartiallyDelivered || target == SaleStatusDelivered || target == SaleStatusCancelled
	case SaleStatusPartiallyDelivered:
		return target == SaleStatusDelivered || target == SaleStatusCancelled
	case SaleStatusDelivered, SaleStatusCancelled:
		return false // Terminal states
	}
	return false
}

// ItemStatus represents the delivery status of a single sale item
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "PENDING"
	ItemStatusDelivered ItemStatus = "DELIVERED"
)

// SaleItem represents a line item in a sale
type SaleItem struct {
	ID                uuid.UUID
	SaleID            uuid.UUID
	ProductID         uuid.UUID
	ProductName       string
	ProductCode       string
	Quantity          decimal.Decimal // Ordered quantity
	DeliveredQuantity decimal.Decimal // Quantity delivered so far
	UnitPrice         decimal.Decimal
	Amount            decimal.Decimal // Quantity * UnitPrice
	Unit              string
	Status            ItemStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewSaleItem creates a new sale item
func NewSaleItem(saleID, productID uuid.UUID, productName, productCode, unit string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &SaleItem{
		ID:                uuid.New(),
		SaleID:            saleID,
		ProductID:         productID,
		ProductName:       productName,
		ProductCode:       productCode,
		Quantity:          quantity,
		DeliveredQuantity: decimal.Zero,
		UnitPrice:         unitPrice.Amount(),
		Amount:            quantity.Mul(unitPrice.Amount()),
		Unit:              unit,
		Status:            ItemStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// RemainingQuantity returns the quantity still owed for this item, never negative
func (i *SaleItem) RemainingQuantity() decimal.Decimal {
	remaining := i.Quantity.Sub(i.DeliveredQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsDelivered returns true if the item has been fully delivered
func (i *SaleItem) IsDelivered() bool {
	return i.Status == ItemStatusDelivered
}

// recordDelivery adds delivered quantity and flips the item status when the
// ordered quantity is fully covered
func (i *SaleItem) recordDelivery(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Delivered quantity must be positive")
	}
	if quantity.GreaterThan(i.RemainingQuantity()) {
		return shared.NewDomainError("EXCEEDS_REQUIRED_QUANTITY", "Delivered quantity exceeds the item's remaining quantity")
	}

	i.DeliveredQuantity = i.DeliveredQuantity.Add(quantity)
	if i.RemainingQuantity().IsZero() {
		i.Status = ItemStatusDelivered
	}
	i.UpdatedAt = time.Now()

	return nil
}

// VATRate is the statutory VAT rate applied to the taxable amount of a sale
var VATRate = decimal.NewFromFloat(0.15)

// Sale represents a sale aggregate root
// It manages the lifecycle of a customer sale from creation through
// approval and (possibly partial) delivery
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber   string
	ShopID       uuid.UUID
	CustomerID   *uuid.UUID
	CustomerName string
	Items        []SaleItem
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	VAT          decimal.Decimal
	GrandTotal   decimal.Decimal
	Status       SaleStatus
	Remark       string
	ApprovedAt   *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// NewSale creates a new sale in NOT_APPROVED status
func NewSale(saleNumber string, shopID uuid.UUID, customerName string) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if len(saleNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot exceed 50 characters")
	}
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		ShopID:            shopID,
		CustomerName:      customerName,
		Items:             make([]SaleItem, 0),
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		VAT:               decimal.Zero,
		GrandTotal:        decimal.Zero,
		Status:            SaleStatusNotApproved,
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// SetCustomer associates the sale with a registered customer
func (s *Sale) SetCustomer(customerID uuid.UUID, customerName string) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	s.CustomerID = &customerID
	s.CustomerName = customerName
	s.UpdatedAt = time.Now()
	return nil
}

// AddItem adds a new item to the sale
// Only allowed before approval
func (s *Sale) AddItem(productID uuid.UUID, productName, productCode, unit string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SaleItem, error) {
	if s.Status != SaleStatusNotApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to an approved sale")
	}

	for _, item := range s.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in sale, update quantity instead")
		}
	}

	item, err := NewSaleItem(s.ID, productID, productName, productCode, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes an item from the sale
// Only allowed before approval
func (s *Sale) RemoveItem(itemID uuid.UUID) error {
	if s.Status != SaleStatusNotApproved {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from an approved sale")
	}

	for idx, item := range s.Items {
		if item.ID == itemID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// Approve approves the sale, making it eligible for delivery
// Requires at least one item
func (s *Sale) Approve() error {
	if !s.Status.CanTransitionTo(SaleStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve sale in %s status", s.Status))
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve sale without items")
	}

	now := time.Now()
	s.Status = SaleStatusApproved
	s.ApprovedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleApprovedEvent(s))

	return nil
}

// DeliveryLine is one item's delivered quantity within a delivery
type DeliveryLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// ApplyDelivery records the delivered quantities of a (possibly partial)
// delivery against the sale's items and advances the sale status: all
// items fully delivered moves the sale to DELIVERED, anything less to
// PARTIALLY_DELIVERED. Each line must name an existing item and must not
// exceed that item's remaining quantity; the first violation rejects the
// whole delivery with the sale unchanged.
func (s *Sale) ApplyDelivery(lines []DeliveryLine) error {
	if s.Status != SaleStatusApproved && s.Status != SaleStatusPartiallyDelivered {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver sale in %s status", s.Status))
	}
	if len(lines) == 0 {
		return shared.NewDomainError("NOTHING_TO_SUBMIT", "Delivery contains no items")
	}

	// Validate every line before mutating anything
	for _, line := range lines {
		item := s.GetItem(line.ItemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Delivered quantity must be positive")
		}
		if line.Quantity.GreaterThan(item.RemainingQuantity()) {
			return shared.NewDomainError("EXCEEDS_REQUIRED_QUANTITY", "Delivered quantity exceeds the item's remaining quantity")
		}
	}

	for _, line := range lines {
		if err := s.GetItem(line.ItemID).recordDelivery(line.Quantity); err != nil {
			return err
		}
	}

	now := time.Now()
	if s.isFullyDelivered() {
		s.Status = SaleStatusDelivered
		s.DeliveredAt = &now
		s.AddDomainEvent(NewSaleDeliveredEvent(s))
	} else {
		s.Status = SaleStatusPartiallyDelivered
		s.AddDomainEvent(NewSalePartiallyDeliveredEvent(s, lines))
	}
	s.UpdatedAt = now

	return nil
}

// Cancel cancels the sale
// Allowed in any non-terminal status; delivered stock reconciliation for a
// partially delivered sale is handled by the application service
func (s *Sale) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(SaleStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return nil
}

// SetDiscount applies an absolute discount to the sale and recomputes
// VAT and the grand total
// Only allowed before approval
func (s *Sale) SetDiscount(discount decimal.Decimal) error {
	if s.Status != SaleStatusNotApproved {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the discount of an approved sale")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(s.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}

	s.Discount = discount
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// SetRemark sets the sale remark
func (s *Sale) SetRemark(remark string) {
	s.Remark = remark
	s.UpdatedAt = time.Now()
}

// GetItem returns an item by its ID
func (s *Sale) GetItem(itemID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (s *Sale) GetItemByProduct(productID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			return &s.Items[idx]
		}
	}
	return nil
}

// PendingItems returns the items that still have quantity to deliver
func (s *Sale) PendingItems() []SaleItem {
	pending := make([]SaleItem, 0, len(s.Items))
	for _, item := range s.Items {
		if item.RemainingQuantity().IsPositive() {
			pending = append(pending, item)
		}
	}
	return pending
}

// AllocationLineItems converts the sale's undelivered items into the line
// items a delivery allocation session starts from. The engine allocates
// whole units, so fractional remainders round down the same way batch
// availability does; a sub-unit remainder leaves the item out of the
// session until an adjustment closes it.
func (s *Sale) AllocationLineItems() []delivery.LineItem {
	items := make([]delivery.LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		required := item.RemainingQuantity().IntPart()
		if required > 0 {
			items = append(items, delivery.LineItem{
				ItemID:           item.ID,
				RequiredQuantity: required,
			})
		}
	}
	return items
}

// IsDeliverable returns true if the sale can accept a delivery
func (s *Sale) IsDeliverable() bool {
	return s.Status == SaleStatusApproved || s.Status == SaleStatusPartiallyDelivered
}

// IsTerminal returns true if the sale is in a terminal state
func (s *Sale) IsTerminal() bool {
	return s.Status == SaleStatusDelivered || s.Status == SaleStatusCancelled
}

// ItemCount returns the number of items in the sale
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

// TotalQuantity returns the sum of all ordered quantities
func (s *Sale) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// TotalDeliveredQuantity returns the sum of all delivered quantities
func (s *Sale) TotalDeliveredQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.DeliveredQuantity)
	}
	return total
}

// GetGrandTotalMoney returns the grand total as Money
func (s *Sale) GetGrandTotalMoney() valueobject.Money {
	return valueobject.NewDefaultMoney(s.GrandTotal)
}

func (s *Sale) isFullyDelivered() bool {
	for _, item := range s.Items {
		if !item.IsDelivered() {
			return false
		}
	}
	return len(s.Items) > 0
}

// recalculateTotals derives the totals breakdown from the items:
// subtotal is the sum of item amounts, VAT applies to the subtotal net
// of the discount, and the grand total is the taxable amount plus VAT
func (s *Sale) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	s.Subtotal = subtotal

	taxable := subtotal.Sub(s.Discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	s.VAT = taxable.Mul(VATRate).Round(4)
	s.GrandTotal = taxable.Add(s.VAT)
}

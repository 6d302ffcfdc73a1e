package delivery

import (
	"time"

	"github.com/google/uuid"
)

// ItemState describes how far a line item's allocation has progressed
type ItemState string

const (
	ItemStateUnallocated        ItemState = "UNALLOCATED"
	ItemStatePartiallyAllocated ItemState = "PARTIALLY_ALLOCATED"
	ItemStateFullyAllocated     ItemState = "FULLY_ALLOCATED"
)

// LineItem describes one product line of a sale that still needs batch
// assignment. RequiredQuantity is the quantity still owed, derived
// upstream as ordered quantity minus already-delivered quantity.
type LineItem struct {
	ItemID           uuid.UUID
	RequiredQuantity int64
}

// Allocation is a single (batch, quantity) commitment against one line
// item. MaxQuantity is the batch's available quantity captured at
// selection time; it is a snapshot, not a reservation.
type Allocation struct {
	BatchID     uuid.UUID
	Quantity    int64
	MaxQuantity int64
}

// AllocationSession holds the in-progress batch allocations for the line
// items of one sale. It is exclusively owned by one delivery session (one
// sale, one user) and discarded on successful submission, explicit clear,
// or when the hosting screen is torn down.
//
// Capacity invariants enforced on every mutation:
//  1. a batch never contributes more than its captured MaxQuantity to an item
//  2. an item's total allocation never exceeds its required quantity
type AllocationSession struct {
	SaleID     uuid.UUID
	required   map[uuid.UUID]int64
	selections map[uuid.UUID][]Allocation
	itemOrder  []uuid.UUID
	delivered  map[uuid.UUID]time.Time
}

// NewAllocationSession creates a session for the given sale's line items.
// Items with a non-positive required quantity need no allocation and are
// excluded from the session.
func NewAllocationSession(saleID uuid.UUID, items []LineItem) *AllocationSession {
	s := &AllocationSession{
		SaleID:     saleID,
		required:   make(map[uuid.UUID]int64, len(items)),
		selections: make(map[uuid.UUID][]Allocation),
		delivered:  make(map[uuid.UUID]time.Time),
	}
	for _, item := range items {
		if item.RequiredQuantity > 0 {
			s.required[item.ItemID] = item.RequiredQuantity
		}
	}
	return s
}

// RequiredQuantity returns the quantity the item still owes, or 0 for
// items not part of this session
func (s *AllocationSession) RequiredQuantity(itemID uuid.UUID) int64 {
	return s.required[itemID]
}

// TotalSelected returns the sum of quantities currently allocated to the
// item; 0 if none
func (s *AllocationSession) TotalSelected(itemID uuid.UUID) int64 {
	var total int64
	for _, a := range s.selections[itemID] {
		total += a.Quantity
	}
	return total
}

// RemainingNeeded returns how much of the item's required quantity is not
// yet covered by allocations, never negative
func (s *AllocationSession) RemainingNeeded(itemID uuid.UUID) int64 {
	remaining := s.required[itemID] - s.TotalSelected(itemID)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyAllocated returns true once the item's allocations exactly cover
// its required quantity
func (s *AllocationSession) IsFullyAllocated(itemID uuid.UUID) bool {
	required, ok := s.required[itemID]
	return ok && s.TotalSelected(itemID) == required
}

// State returns the item's allocation state
func (s *AllocationSession) State(itemID uuid.UUID) ItemState {
	total := s.TotalSelected(itemID)
	switch {
	case total == 0:
		return ItemStateUnallocated
	case total < s.required[itemID]:
		return ItemStatePartiallyAllocated
	default:
		return ItemStateFullyAllocated
	}
}

// Allocations returns a copy of the item's allocations in selection order
func (s *AllocationSession) Allocations(itemID uuid.UUID) []Allocation {
	src := s.selections[itemID]
	if len(src) == 0 {
		return nil
	}
	out := make([]Allocation, len(src))
	copy(out, src)
	return out
}

// AllocatedItemIDs returns the IDs of items with at least one allocation,
// in first-allocation order
func (s *AllocationSession) AllocatedItemIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		if len(s.selections[id]) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// HasSelections returns true if any item has at least one allocation
func (s *AllocationSession) HasSelections() bool {
	for _, allocs := range s.selections {
		if len(allocs) > 0 {
			return true
		}
	}
	return false
}

// findAllocation returns the index of the (item, batch) entry, or -1
func (s *AllocationSession) findAllocation(itemID, batchID uuid.UUID) int {
	for i, a := range s.selections[itemID] {
		if a.BatchID == batchID {
			return i
		}
	}
	return -1
}

// ValidateQuantity is the single authoritative validation for a batch
// selection. It checks the quantity that would replace the (item, batch)
// entry, so re-submitting an existing selection never double-counts that
// entry's current contribution. Returns nil when the selection is legal.
func (s *AllocationSession) ValidateQuantity(itemID, batchID uuid.UUID, quantity, maxQuantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	required, ok := s.required[itemID]
	if !ok {
		return ErrUnknownLineItem
	}
	if quantity > maxQuantity {
		return ErrInsufficientBatchStock
	}
	// Total across other batches for this item; the (item, batch) entry
	// being replaced does not count against the need.
	var othersTotal int64
	for _, a := range s.selections[itemID] {
		if a.BatchID != batchID {
			othersTotal += a.Quantity
		}
	}
	if quantity+othersTotal > required {
		return ErrExceedsRequiredQuantity
	}
	return nil
}

// IsValidQuantity is the boolean form of ValidateQuantity, for callers
// that only need to enable or disable a control
func (s *AllocationSession) IsValidQuantity(itemID, batchID uuid.UUID, quantity, maxQuantity int64) bool {
	return s.ValidateQuantity(itemID, batchID, quantity, maxQuantity) == nil
}

// SelectBatch assigns quantity units of the batch to the line item. If the
// (item, batch) pair already has an entry its quantity is overwritten, so
// re-submitting the same selection is idempotent. The selection is
// re-validated on every call; an invalid selection leaves the session
// unchanged and returns the rejection.
func (s *AllocationSession) SelectBatch(itemID, batchID uuid.UUID, quantity, maxQuantity int64) error {
	if err := s.ValidateQuantity(itemID, batchID, quantity, maxQuantity); err != nil {
		return err
	}

	if idx := s.findAllocation(itemID, batchID); idx >= 0 {
		s.selections[itemID][idx].Quantity = quantity
		s.selections[itemID][idx].MaxQuantity = maxQuantity
		return nil
	}

	if len(s.selections[itemID]) == 0 {
		s.itemOrder = append(s.itemOrder, itemID)
	}
	s.selections[itemID] = append(s.selections[itemID], Allocation{
		BatchID:     batchID,
		Quantity:    quantity,
		MaxQuantity: maxQuantity,
	})
	return nil
}

// UpdateQuantity changes the quantity of an existing (item, batch) entry.
// It is a no-op if the entry does not exist.
func (s *AllocationSession) UpdateQuantity(itemID, batchID uuid.UUID, quantity int64) error {
	idx := s.findAllocation(itemID, batchID)
	if idx < 0 {
		return nil
	}
	return s.SelectBatch(itemID, batchID, quantity, s.selections[itemID][idx].MaxQuantity)
}

// AssignAllRemaining allocates as much of the item's remaining need as the
// batch can cover: min(batch capacity left for this item, remaining need).
// It reports partial=true when the batch could not cover the full
// remaining need; allocating what it can is preferred over failing
// outright. Returns the quantity added by this call.
func (s *AllocationSession) AssignAllRemaining(itemID, batchID uuid.UUID, maxQuantity int64) (allocated int64, partial bool, err error) {
	if _, ok := s.required[itemID]; !ok {
		return 0, false, ErrUnknownLineItem
	}

	var current int64
	if idx := s.findAllocation(itemID, batchID); idx >= 0 {
		current = s.selections[itemID][idx].Quantity
	}

	available := maxQuantity - current
	remaining := s.RemainingNeeded(itemID)
	if available <= 0 || remaining <= 0 {
		return 0, available < remaining, nil
	}

	allocated = available
	if remaining < available {
		allocated = remaining
	}
	if err := s.SelectBatch(itemID, batchID, current+allocated, maxQuantity); err != nil {
		return 0, false, err
	}
	return allocated, available < remaining, nil
}

// RemoveAllocation deletes the (item, batch) entry. Removing a
// non-existent allocation is a no-op. When an item's last allocation is
// removed the item's entry disappears entirely; no empty lists persist.
func (s *AllocationSession) RemoveAllocation(itemID, batchID uuid.UUID) {
	idx := s.findAllocation(itemID, batchID)
	if idx < 0 {
		return
	}
	allocs := s.selections[itemID]
	s.selections[itemID] = append(allocs[:idx], allocs[idx+1:]...)
	if len(s.selections[itemID]) == 0 {
		s.dropItem(itemID)
	}
}

// ClearItem removes every allocation for the item
func (s *AllocationSession) ClearItem(itemID uuid.UUID) {
	if _, ok := s.selections[itemID]; ok {
		s.dropItem(itemID)
	}
}

// ClearAll resets the whole session: allocations and delivered marks
func (s *AllocationSession) ClearAll() {
	s.selections = make(map[uuid.UUID][]Allocation)
	s.itemOrder = nil
	s.delivered = make(map[uuid.UUID]time.Time)
}

// dropItem removes the item's selection entry and its insertion-order slot
func (s *AllocationSession) dropItem(itemID uuid.UUID) {
	delete(s.selections, itemID)
	for i, id := range s.itemOrder {
		if id == itemID {
			s.itemOrder = append(s.itemOrder[:i], s.itemOrder[i+1:]...)
			break
		}
	}
}

// MarkDelivered records a local delivered mark for the item. Marking an
// already-marked item is a no-op; the original timestamp is kept.
func (s *AllocationSession) MarkDelivered(itemID uuid.UUID) {
	if _, ok := s.delivered[itemID]; !ok {
		s.delivered[itemID] = time.Now()
	}
}

// UnmarkDelivered removes the item's local delivered mark
func (s *AllocationSession) UnmarkDelivered(itemID uuid.UUID) {
	delete(s.delivered, itemID)
}

// IsMarkedDelivered returns true if the item carries a local delivered mark
func (s *AllocationSession) IsMarkedDelivered(itemID uuid.UUID) bool {
	_, ok := s.delivered[itemID]
	return ok
}

// DeliveredCount returns the number of locally marked items
func (s *AllocationSession) DeliveredCount() int {
	return len(s.delivered)
}

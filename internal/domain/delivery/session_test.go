package delivery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(required ...int64) (*AllocationSession, []uuid.UUID) {
	items := make([]LineItem, len(required))
	ids := make([]uuid.UUID, len(required))
	for i, q := range required {
		ids[i] = uuid.New()
		items[i] = LineItem{ItemID: ids[i], RequiredQuantity: q}
	}
	return NewAllocationSession(uuid.New(), items), ids
}

func TestAllocationSession_SelectBatch(t *testing.T) {
	batchA := uuid.New()
	batchB := uuid.New()

	t.Run("valid selection is recorded", func(t *testing.T) {
		session, ids := newTestSession(10)

		err := session.SelectBatch(ids[0], batchA, 4, 20)
		require.NoError(t, err)

		assert.Equal(t, int64(4), session.TotalSelected(ids[0]))
		assert.Equal(t, int64(6), session.RemainingNeeded(ids[0]))
		assert.Equal(t, ItemStatePartiallyAllocated, session.State(ids[0]))
	})

	t.Run("rejects zero and negative quantities", func(t *testing.T) {
		session, ids := newTestSession(10)

		assert.ErrorIs(t, session.SelectBatch(ids[0], batchA, 0, 20), ErrInvalidQuantity)
		assert.ErrorIs(t, session.SelectBatch(ids[0], batchA, -3, 20), ErrInvalidQuantity)
		assert.Equal(t, int64(0), session.TotalSelected(ids[0]))
	})

	t.Run("never exceeds batch availability", func(t *testing.T) {
		session, ids := newTestSession(10)

		err := session.SelectBatch(ids[0], batchA, 6, 5)
		assert.ErrorIs(t, err, ErrInsufficientBatchStock)
		assert.Equal(t, int64(0), session.TotalSelected(ids[0]))
	})

	t.Run("never exceeds remaining need across batches", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 7, 20))
		err := session.SelectBatch(ids[0], batchB, 4, 20)
		assert.ErrorIs(t, err, ErrExceedsRequiredQuantity)

		// The failed selection leaves the first allocation untouched
		assert.Equal(t, int64(7), session.TotalSelected(ids[0]))
		assert.Len(t, session.Allocations(ids[0]), 1)
	})

	t.Run("rejects items outside the session", func(t *testing.T) {
		session, _ := newTestSession(10)

		err := session.SelectBatch(uuid.New(), batchA, 1, 20)
		assert.ErrorIs(t, err, ErrUnknownLineItem)
	})

	t.Run("re-selection overwrites instead of accumulating", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 5, 20))
		require.NoError(t, session.SelectBatch(ids[0], batchA, 5, 20))
		require.NoError(t, session.SelectBatch(ids[0], batchA, 3, 20))

		assert.Equal(t, int64(3), session.TotalSelected(ids[0]))
		assert.Len(t, session.Allocations(ids[0]), 1)
	})

	t.Run("overwrite frees the entry's own contribution", func(t *testing.T) {
		session, ids := newTestSession(10)

		// 8 selected, then raising the same entry to 10 is legal even
		// though 8+10 would overshoot the need.
		require.NoError(t, session.SelectBatch(ids[0], batchA, 8, 20))
		require.NoError(t, session.SelectBatch(ids[0], batchA, 10, 20))

		assert.True(t, session.IsFullyAllocated(ids[0]))
	})

	t.Run("splits an item across batches", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 6, 6))
		require.NoError(t, session.SelectBatch(ids[0], batchB, 4, 20))

		assert.True(t, session.IsFullyAllocated(ids[0]))
		assert.Equal(t, ItemStateFullyAllocated, session.State(ids[0]))
	})

	t.Run("items are isolated from each other", func(t *testing.T) {
		session, ids := newTestSession(10, 5)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 10, 20))
		require.NoError(t, session.SelectBatch(ids[1], batchA, 2, 20))

		assert.True(t, session.IsFullyAllocated(ids[0]))
		assert.Equal(t, int64(3), session.RemainingNeeded(ids[1]))
	})
}

func TestAllocationSession_AssignAllRemaining(t *testing.T) {
	batchA := uuid.New()
	batchB := uuid.New()

	t.Run("covers the full need when the batch suffices", func(t *testing.T) {
		session, ids := newTestSession(10)

		allocated, partial, err := session.AssignAllRemaining(ids[0], batchA, 25)
		require.NoError(t, err)

		assert.Equal(t, int64(10), allocated)
		assert.False(t, partial)
		assert.True(t, session.IsFullyAllocated(ids[0]))
	})

	t.Run("allocates what it can and reports partial", func(t *testing.T) {
		session, ids := newTestSession(10)

		allocated, partial, err := session.AssignAllRemaining(ids[0], batchA, 6)
		require.NoError(t, err)

		assert.Equal(t, int64(6), allocated)
		assert.True(t, partial)
		assert.Equal(t, int64(4), session.RemainingNeeded(ids[0]))
	})

	t.Run("tops up an existing entry for the same batch", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 3, 8))
		allocated, partial, err := session.AssignAllRemaining(ids[0], batchA, 8)
		require.NoError(t, err)

		assert.Equal(t, int64(5), allocated)
		assert.True(t, partial)
		assert.Equal(t, int64(8), session.TotalSelected(ids[0]))
		assert.Len(t, session.Allocations(ids[0]), 1)
	})

	t.Run("is a no-op on a fully allocated item", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 10, 20))
		allocated, partial, err := session.AssignAllRemaining(ids[0], batchB, 20)
		require.NoError(t, err)

		assert.Equal(t, int64(0), allocated)
		assert.False(t, partial)
	})

	t.Run("rejects unknown items", func(t *testing.T) {
		session, _ := newTestSession(10)

		_, _, err := session.AssignAllRemaining(uuid.New(), batchA, 20)
		assert.ErrorIs(t, err, ErrUnknownLineItem)
	})
}

func TestAllocationSession_Removal(t *testing.T) {
	batchA := uuid.New()
	batchB := uuid.New()

	t.Run("remove restores the remaining need", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 6, 20))
		require.NoError(t, session.SelectBatch(ids[0], batchB, 4, 20))
		session.RemoveAllocation(ids[0], batchA)

		assert.Equal(t, int64(4), session.TotalSelected(ids[0]))
		assert.Equal(t, int64(6), session.RemainingNeeded(ids[0]))
	})

	t.Run("removing the last allocation leaves no empty entry", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 6, 20))
		session.RemoveAllocation(ids[0], batchA)

		assert.Nil(t, session.Allocations(ids[0]))
		assert.Empty(t, session.AllocatedItemIDs())
		assert.Equal(t, ItemStateUnallocated, session.State(ids[0]))
	})

	t.Run("removing a non-existent allocation is a no-op", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 6, 20))
		session.RemoveAllocation(ids[0], batchB)
		session.RemoveAllocation(uuid.New(), batchA)

		assert.Equal(t, int64(6), session.TotalSelected(ids[0]))
	})

	t.Run("clear item drops every allocation for the item", func(t *testing.T) {
		session, ids := newTestSession(10, 5)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 3, 20))
		require.NoError(t, session.SelectBatch(ids[0], batchB, 3, 20))
		require.NoError(t, session.SelectBatch(ids[1], batchA, 5, 20))
		session.ClearItem(ids[0])

		assert.Equal(t, int64(0), session.TotalSelected(ids[0]))
		assert.Equal(t, int64(5), session.TotalSelected(ids[1]))
	})

	t.Run("clear all resets the session", func(t *testing.T) {
		session, ids := newTestSession(10, 5)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 3, 20))
		session.MarkDelivered(ids[1])
		session.ClearAll()

		assert.False(t, session.HasSelections())
		assert.False(t, session.IsMarkedDelivered(ids[1]))
	})
}

func TestAllocationSession_Assemble(t *testing.T) {
	batchA := uuid.New()
	batchB := uuid.New()

	t.Run("payload reflects exactly the current allocations", func(t *testing.T) {
		session, ids := newTestSession(10, 5, 7)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 6, 20))
		require.NoError(t, session.SelectBatch(ids[0], batchB, 4, 20))
		require.NoError(t, session.SelectBatch(ids[1], batchA, 2, 20))

		data, err := session.Assemble()
		require.NoError(t, err)

		require.Len(t, data.Items, 2)
		assert.Equal(t, ids[0], data.Items[0].ItemID)
		require.Len(t, data.Items[0].Batches, 2)
		assert.Equal(t, DeliveryBatch{BatchID: batchA, Quantity: 6}, data.Items[0].Batches[0])
		assert.Equal(t, DeliveryBatch{BatchID: batchB, Quantity: 4}, data.Items[0].Batches[1])
		assert.Equal(t, ids[1], data.Items[1].ItemID)
	})

	t.Run("untouched items are omitted", func(t *testing.T) {
		session, ids := newTestSession(10, 5)

		require.NoError(t, session.SelectBatch(ids[1], batchA, 2, 20))

		data, err := session.Assemble()
		require.NoError(t, err)
		require.Len(t, data.Items, 1)
		assert.Equal(t, ids[1], data.Items[0].ItemID)
	})

	t.Run("empty session cannot be submitted", func(t *testing.T) {
		session, _ := newTestSession(10)

		_, err := session.Assemble()
		assert.ErrorIs(t, err, ErrNothingToSubmit)
	})

	t.Run("fully removed allocations cannot be submitted", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 6, 20))
		session.RemoveAllocation(ids[0], batchA)

		_, err := session.Assemble()
		assert.ErrorIs(t, err, ErrNothingToSubmit)
	})
}

func TestAllocationSession_CompleteSubmission(t *testing.T) {
	batchA := uuid.New()

	t.Run("clears only the submitted items", func(t *testing.T) {
		session, ids := newTestSession(10, 5)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 10, 20))
		require.NoError(t, session.SelectBatch(ids[1], batchA, 2, 20))

		data, err := session.Assemble()
		require.NoError(t, err)

		// Simulate a payload that only carried the first item
		data.Items = data.Items[:1]
		session.CompleteSubmission(data)

		assert.Equal(t, int64(0), session.TotalSelected(ids[0]))
		assert.Equal(t, int64(2), session.TotalSelected(ids[1]))
	})

	t.Run("duplicate success signal is harmless", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 10, 20))
		data, err := session.Assemble()
		require.NoError(t, err)

		session.CompleteSubmission(data)
		session.CompleteSubmission(data)

		assert.False(t, session.HasSelections())
		assert.Equal(t, int64(10), session.RemainingNeeded(ids[0]))
	})

	t.Run("failed submission preserves the session", func(t *testing.T) {
		session, ids := newTestSession(10)

		require.NoError(t, session.SelectBatch(ids[0], batchA, 7, 20))
		data, err := session.Assemble()
		require.NoError(t, err)

		// Rejection path: the caller simply does not complete; every
		// allocation must survive for correction and retry.
		_ = data
		assert.Equal(t, int64(7), session.TotalSelected(ids[0]))
	})
}

func TestAllocationSession_DeliveredMarks(t *testing.T) {
	session, ids := newTestSession(10, 5)

	session.MarkDelivered(ids[0])
	assert.True(t, session.IsMarkedDelivered(ids[0]))
	assert.False(t, session.IsMarkedDelivered(ids[1]))
	assert.Equal(t, 1, session.DeliveredCount())

	// Marking twice keeps the original timestamp
	session.MarkDelivered(ids[0])
	assert.Equal(t, 1, session.DeliveredCount())

	session.UnmarkDelivered(ids[0])
	assert.False(t, session.IsMarkedDelivered(ids[0]))
}

func TestBatchInventoryView(t *testing.T) {
	shopID := uuid.New()
	productID := uuid.New()
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	view := NewBatchInventoryView(shopID, productID, []BatchView{
		{BatchID: uuid.New(), BatchNumber: "B-001", AvailableQuantity: 12, ExpiryDate: &future},
		{BatchID: uuid.New(), BatchNumber: "B-002", AvailableQuantity: 5, ExpiryDate: &past},
		{BatchID: uuid.New(), BatchNumber: "B-003", AvailableQuantity: 8},
	})

	t.Run("totals available quantity", func(t *testing.T) {
		assert.Equal(t, int64(25), view.TotalAvailable())
	})

	t.Run("finds batches by id", func(t *testing.T) {
		batch, ok := view.Find(view.Batches[1].BatchID)
		require.True(t, ok)
		assert.Equal(t, "B-002", batch.BatchNumber)

		_, ok = view.Find(uuid.New())
		assert.False(t, ok)
	})

	t.Run("expiry check", func(t *testing.T) {
		now := time.Now()
		assert.False(t, view.Batches[0].IsExpired(now))
		assert.True(t, view.Batches[1].IsExpired(now))
		assert.False(t, view.Batches[2].IsExpired(now))
	})

	t.Run("matches shop and product", func(t *testing.T) {
		assert.True(t, view.Matches(shopID, productID))
		assert.False(t, view.Matches(shopID, uuid.New()))
	})
}

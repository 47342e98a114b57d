package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewBrowsingHistory(5)

	for id := int64(1); id <= 6; id++ {
		h.Record(id, "product", "", 100)
	}

	snap := h.Snapshot()
	assert.Equal(t, 5, snap.Size)
	assert.Equal(t, 5, snap.MaxSize)

	got := make([]int64, 0, len(snap.Items))
	for _, item := range snap.Items {
		got = append(got, item.ProductID)
	}
	assert.Equal(t, []int64{6, 5, 4, 3, 2}, got)
}

func TestHistoryRerecordMovesToFront(t *testing.T) {
	h := NewBrowsingHistory(5)

	h.Record(1, "a", "", 100)
	h.Record(2, "b", "", 200)
	h.Record(3, "c", "", 300)
	h.Record(1, "a", "", 100)

	snap := h.Snapshot()
	assert.Equal(t, 3, snap.Size)
	assert.Equal(t, int64(1), snap.Items[0].ProductID)
	assert.Equal(t, int64(3), snap.Items[1].ProductID)
	assert.Equal(t, int64(2), snap.Items[2].ProductID)
}

func TestHistoryRerecordFrontKeepsOrder(t *testing.T) {
	h := NewBrowsingHistory(5)

	h.Record(1, "a", "", 100)
	h.Record(2, "b", "", 200)
	h.Record(2, "b", "", 200)

	snap := h.Snapshot()
	assert.Equal(t, 2, snap.Size)
	assert.Equal(t, int64(2), snap.Items[0].ProductID)
	assert.Equal(t, int64(1), snap.Items[1].ProductID)
}

func TestHistoryForget(t *testing.T) {
	h := NewBrowsingHistory(5)

	h.Record(1, "a", "", 100)
	h.Record(2, "b", "", 200)

	h.Forget(1)
	snap := h.Snapshot()
	assert.Equal(t, 1, snap.Size)
	assert.Equal(t, int64(2), snap.Items[0].ProductID)

	// Forgetting an unknown product is a no-op.
	h.Forget(99)
	assert.Equal(t, 1, h.Snapshot().Size)
}

func TestHistoryZeroCapacity(t *testing.T) {
	h := NewBrowsingHistory(0)

	h.Record(1, "a", "", 100)
	h.Record(2, "b", "", 200)

	snap := h.Snapshot()
	assert.Equal(t, 0, snap.Size)
	assert.Empty(t, snap.Items)
}

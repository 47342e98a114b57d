package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartPushMergesQuantities(t *testing.T) {
	c := NewCart()

	require.NoError(t, c.Push(1, 2))
	require.NoError(t, c.Push(1, 3))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartPushInvalidQuantity(t *testing.T) {
	c := NewCart()

	assert.ErrorIs(t, c.Push(1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Push(1, -3), ErrInvalidQuantity)
	assert.Empty(t, c.Items())
}

func TestCartInsertionOrder(t *testing.T) {
	c := NewCart()

	require.NoError(t, c.Push(3, 1))
	require.NoError(t, c.Push(1, 1))
	require.NoError(t, c.Push(2, 1))
	require.NoError(t, c.Push(3, 1)) // merge must not move the line

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[0].ProductID)
	assert.Equal(t, int64(1), items[1].ProductID)
	assert.Equal(t, int64(2), items[2].ProductID)
}

func TestCartSetQuantity(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.Push(1, 2))

	c.SetQuantity(1, 7)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)

	c.SetQuantity(1, 0)
	assert.Empty(t, c.Items())

	// Setting an unknown product is a no-op.
	c.SetQuantity(99, 5)
	assert.Empty(t, c.Items())
}

func TestCartRemoveAndClear(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.Push(1, 1))
	require.NoError(t, c.Push(2, 2))

	c.Remove(1)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)

	c.Remove(99) // no-op

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.TotalQuantity())
}

func TestCartTotalsAndView(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.Push(1, 2))
	require.NoError(t, c.Push(2, 3))

	assert.Equal(t, 5, c.TotalQuantity())

	view := c.View()
	assert.Equal(t, 5, view.TotalItems)
	assert.Len(t, view.Items, 2)
}

func TestCartPopPeek(t *testing.T) {
	c := NewCart()

	_, ok := c.Pop()
	assert.False(t, ok)
	_, ok = c.Peek()
	assert.False(t, ok)

	require.NoError(t, c.Push(1, 1))
	require.NoError(t, c.Push(2, 2))

	top, ok := c.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(2), top.ProductID)

	popped, ok := c.Pop()
	require.True(t, ok)
	assert.Equal(t, int64(2), popped.ProductID)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
}

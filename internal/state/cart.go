package state

import (
	"errors"
	"sync"
)

// ErrInvalidQuantity is returned when a cart operation is given a
// non-positive quantity where a positive one is required.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// CartEntry is one product line in a cart.
type CartEntry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartView is the serializable form of a cart.
type CartView struct {
	Items      []CartEntry `json:"items"`
	TotalItems int         `json:"total_items"`
}

// Cart is an associative collection of product lines kept in first-insertion
// order. Pushing a product already in the cart merges quantities instead of
// adding a second line. Pop and Peek expose the most recently added line but
// checkout only ever consumes the full item list, so callers must not rely
// on that order for correctness. Safe for concurrent use.
type Cart struct {
	mu      sync.Mutex
	entries []CartEntry
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Push adds quantity of the product, merging with an existing line if one
// is present. Quantity must be positive.
func (c *Cart) Push(productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ProductID == productID {
			c.entries[i].Quantity += quantity
			return nil
		}
	}
	c.entries = append(c.entries, CartEntry{ProductID: productID, Quantity: quantity})
	return nil
}

// SetQuantity sets the absolute quantity for the product. A quantity of
// zero or less removes the line entirely.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(productID)
		return
	}
	for i := range c.entries {
		if c.entries[i].ProductID == productID {
			c.entries[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the product's line if present.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(productID)
}

// remove deletes the line for productID. Caller must hold c.mu.
func (c *Cart) remove(productID int64) {
	for i, e := range c.entries {
		if e.ProductID == productID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Pop removes and returns the most recently added line.
func (c *Cart) Pop() (CartEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return CartEntry{}, false
	}
	last := c.entries[len(c.entries)-1]
	c.entries = c.entries[:len(c.entries)-1]
	return last, true
}

// Peek returns the most recently added line without removing it.
func (c *Cart) Peek() (CartEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return CartEntry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// Items returns a copy of the cart lines in first-insertion order.
func (c *Cart) Items() []CartEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]CartEntry, len(c.entries))
	copy(items, c.entries)
	return items
}

// TotalQuantity returns the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, e := range c.entries {
		total += e.Quantity
	}
	return total
}

// View returns the serializable cart contents.
func (c *Cart) View() CartView {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]CartEntry, len(c.entries))
	copy(items, c.entries)

	total := 0
	for _, e := range items {
		total += e.Quantity
	}
	return CartView{Items: items, TotalItems: total}
}

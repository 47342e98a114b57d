package state

import (
	"sync"
	"time"
)

// DefaultHistorySize is the number of recently viewed products kept per user.
const DefaultHistorySize = 5

// HistoryEntry is a single viewed product in a user's browsing history.
// Entries are immutable; re-viewing a product replaces its entry at the front.
type HistoryEntry struct {
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	ImagePath   string    `json:"image_path"`
	Price       int64     `json:"price"`
	ViewedAt    time.Time `json:"timestamp"`
}

// HistorySnapshot is the serializable view of a browsing history.
type HistorySnapshot struct {
	Items   []HistoryEntry `json:"items"`
	Size    int            `json:"size"`
	MaxSize int            `json:"max_size"`
}

// BrowsingHistory is a capped recency list of viewed products, most recent
// first. A product appears at most once; recording it again moves it to the
// front. When the list grows past its capacity the least recently viewed
// entry is evicted. Safe for concurrent use.
type BrowsingHistory struct {
	mu      sync.Mutex
	entries []HistoryEntry
	maxSize int
}

// NewBrowsingHistory creates a history holding at most maxSize entries.
// A negative maxSize is treated as zero.
func NewBrowsingHistory(maxSize int) *BrowsingHistory {
	if maxSize < 0 {
		maxSize = 0
	}
	return &BrowsingHistory{maxSize: maxSize}
}

// Record notes that the product was viewed, moving it to the front and
// evicting the oldest entry if the history is full.
func (h *BrowsingHistory) Record(productID int64, name, imagePath string, price int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(productID)

	entry := HistoryEntry{
		ProductID:   productID,
		ProductName: name,
		ImagePath:   imagePath,
		Price:       price,
		ViewedAt:    time.Now(),
	}
	h.entries = append([]HistoryEntry{entry}, h.entries...)

	if len(h.entries) > h.maxSize {
		h.entries = h.entries[:h.maxSize]
	}
}

// Forget removes the product from the history if present.
func (h *BrowsingHistory) Forget(productID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(productID)
}

// remove deletes the entry for productID. Caller must hold h.mu.
func (h *BrowsingHistory) remove(productID int64) {
	for i, e := range h.entries {
		if e.ProductID == productID {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Snapshot returns a copy of the history ordered most recent first.
func (h *BrowsingHistory) Snapshot() HistorySnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]HistoryEntry, len(h.entries))
	copy(items, h.entries)

	return HistorySnapshot{
		Items:   items,
		Size:    len(items),
		MaxSize: h.maxSize,
	}
}

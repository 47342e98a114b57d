package state

import (
	"context"
	"sync"
	"time"

	"github.com/dc4ndre/ecommerce-website/internal/util"

	"go.uber.org/zap"
)

// sessionEntry holds the per-user in-memory state for one logged-in user.
type sessionEntry struct {
	history  *BrowsingHistory
	cart     *Cart
	lastSeen time.Time
}

// SessionStore maps a user id to that user's browsing history and cart.
// Entries are created lazily on first access and dropped on logout. They
// are also swept after an idle TTL so an abandoned session cannot pin its
// state for the life of the process. The contents are a volatile cache:
// the relational store stays authoritative for carts and orders.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[int64]*sessionEntry
	historySize int
	idleTTL     time.Duration
	logger      *zap.Logger
}

// NewSessionStore creates a store whose histories hold historySize entries
// and whose idle entries expire after idleTTL. An idleTTL of zero disables
// sweeping.
func NewSessionStore(historySize int, idleTTL time.Duration) *SessionStore {
	return &SessionStore{
		sessions:    make(map[int64]*sessionEntry),
		historySize: historySize,
		idleTTL:     idleTTL,
		logger:      util.GetLogger(),
	}
}

// Acquire returns the user's history and cart, creating fresh empty
// instances on first access and refreshing the idle clock.
func (s *SessionStore) Acquire(userID int64) (*BrowsingHistory, *Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		entry = &sessionEntry{
			history: NewBrowsingHistory(s.historySize),
			cart:    NewCart(),
		}
		s.sessions[userID] = entry
		util.SessionsActive.Set(float64(len(s.sessions)))
	}
	entry.lastSeen = time.Now()
	return entry.history, entry.cart
}

// Release drops the user's entry. Called on logout; a no-op for unknown
// users.
func (s *SessionStore) Release(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; ok {
		delete(s.sessions, userID)
		util.SessionsActive.Set(float64(len(s.sessions)))
	}
}

// Len returns the number of live session entries.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes entries idle since before the cutoff and returns how many
// were dropped.
func (s *SessionStore) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, userID)
			removed++
		}
	}
	if removed > 0 {
		util.SessionsActive.Set(float64(len(s.sessions)))
	}
	return removed
}

// Run sweeps idle entries every interval until the context is cancelled.
// Returns immediately if sweeping is disabled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(time.Now().Add(-s.idleTTL)); removed > 0 {
				s.logger.Info("Swept idle sessions", zap.Int("removed", removed))
			}
		}
	}
}

// Package store keeps conversation sessions keyed by customer id.
package store

import (
	"log"
	"sync"
	"time"

	"cafe-bestellbot/internal/model/order"
)

// Store is the session keeper the conversation engine works against. At most
// one session exists per customer id; absence means no active conversation.
type Store interface {
	Get(customerID string) (order.Session, bool)
	Put(customerID string, s order.Session)
	Delete(customerID string)
	HasActive(customerID string) bool
}

// MemoryStore implements Store with a locked map, suitable for a single
// process. Sessions are stored by value: the store owns them, callers only
// ever hold copies.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]order.Session
	now      func() time.Time
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]order.Session),
		now:      time.Now,
	}
}

// Get returns a copy of the customer's session, if one exists.
func (s *MemoryStore) Get(customerID string) (order.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[customerID]
	return sess, ok
}

// Put replaces the customer's session and stamps its last activity.
func (s *MemoryStore) Put(customerID string, sess order.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.UpdatedAt = s.now()
	s.sessions[customerID] = sess
}

// Delete removes the customer's session. Deleting a missing session is a no-op.
func (s *MemoryStore) Delete(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, customerID)
}

// HasActive reports whether a conversation is in progress for the customer.
func (s *MemoryStore) HasActive(customerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[customerID]
	return ok
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed. Customers whose session was swept start over in a fresh
// conversation on their next message.
func (s *MemoryStore) Sweep(maxIdle time.Duration, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > maxIdle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on a ticker until the returned stop function is
// called.
func (s *MemoryStore) StartSweeper(interval, maxIdle time.Duration) func() {
	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(maxIdle, s.now()); n > 0 {
					log.Printf("[sweeper] dropped %d idle session(s)", n)
				}
			case <-stopCh:
				return
			}
		}
	}()
	return func() { close(stopCh) }
}

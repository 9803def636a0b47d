// Package cart holds the per-session shopping carts. A cart is an
// ephemeral, in-memory working set keyed by an opaque session id; prices
// and stock are always re-resolved at checkout, never trusted from here.
package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Item is one (product, size) line in a cart.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	SizeID    uuid.UUID `json:"size_id"`
	Quantity  int       `json:"quantity"`
}

type lineKey struct {
	productID uuid.UUID
	sizeID    uuid.UUID
}

// Listener is notified with the full snapshot of a cart after any change.
type Listener func(sessionID string, items []Item)

// Store keeps every live cart, keyed by session id.
type Store struct {
	mu        sync.RWMutex
	carts     map[string]map[lineKey]int
	order     map[string][]lineKey
	listeners []Listener
}

func NewStore() *Store {
	return &Store{
		carts: make(map[string]map[lineKey]int),
		order: make(map[string][]lineKey),
	}
}

// NewSession issues an opaque cart session id.
func (s *Store) NewSession() string {
	return uuid.New().String()
}

// OnChange registers a listener invoked after every mutation. Listeners
// run synchronously under the caller's goroutine, outside the store lock.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Add merges quantity into the (product, size) line, creating it if absent.
// Quantities below one are treated as one.
func (s *Store) Add(sessionID string, productID, sizeID uuid.UUID, qty int) []Item {
	if qty < 1 {
		qty = 1
	}
	key := lineKey{productID, sizeID}

	s.mu.Lock()
	cart := s.carts[sessionID]
	if cart == nil {
		cart = make(map[lineKey]int)
		s.carts[sessionID] = cart
	}
	if _, ok := cart[key]; !ok {
		s.order[sessionID] = append(s.order[sessionID], key)
	}
	cart[key] += qty
	snapshot := s.snapshotLocked(sessionID)
	s.mu.Unlock()

	s.notify(sessionID, snapshot)
	return snapshot
}

// SetQuantity replaces a line's quantity, clamped to a minimum of one.
// A missing line is a no-op.
func (s *Store) SetQuantity(sessionID string, productID, sizeID uuid.UUID, qty int) []Item {
	if qty < 1 {
		qty = 1
	}
	key := lineKey{productID, sizeID}

	s.mu.Lock()
	cart := s.carts[sessionID]
	changed := false
	if cart != nil {
		if _, ok := cart[key]; ok {
			cart[key] = qty
			changed = true
		}
	}
	snapshot := s.snapshotLocked(sessionID)
	s.mu.Unlock()

	if changed {
		s.notify(sessionID, snapshot)
	}
	return snapshot
}

// Remove deletes a line entirely.
func (s *Store) Remove(sessionID string, productID, sizeID uuid.UUID) []Item {
	key := lineKey{productID, sizeID}

	s.mu.Lock()
	cart := s.carts[sessionID]
	changed := false
	if cart != nil {
		if _, ok := cart[key]; ok {
			delete(cart, key)
			keys := s.order[sessionID]
			for i, k := range keys {
				if k == key {
					s.order[sessionID] = append(keys[:i], keys[i+1:]...)
					break
				}
			}
			changed = true
		}
	}
	snapshot := s.snapshotLocked(sessionID)
	s.mu.Unlock()

	if changed {
		s.notify(sessionID, snapshot)
	}
	return snapshot
}

// Clear empties the session's cart. Called after a successful checkout.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.carts, sessionID)
	delete(s.order, sessionID)
	s.mu.Unlock()

	s.notify(sessionID, nil)
}

// Items returns the cart snapshot in insertion order.
func (s *Store) Items(sessionID string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(sessionID)
}

// Count sums all quantities, for the cart badge.
func (s *Store) Count(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, q := range s.carts[sessionID] {
		total += q
	}
	return total
}

func (s *Store) snapshotLocked(sessionID string) []Item {
	cart := s.carts[sessionID]
	if len(cart) == 0 {
		return nil
	}
	items := make([]Item, 0, len(cart))
	for _, key := range s.order[sessionID] {
		if qty, ok := cart[key]; ok {
			items = append(items, Item{ProductID: key.productID, SizeID: key.sizeID, Quantity: qty})
		}
	}
	return items
}

func (s *Store) notify(sessionID string, items []Item) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(sessionID, items)
	}
}

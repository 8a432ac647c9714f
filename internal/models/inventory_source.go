package models

import (
	"context"
	"sync"
)

// InventorySource is the one capability the planning core consumes from
// the outside world: return inventory rows matching a filter. The
// Postgres repository implements it in production; the in-memory
// implementation backs tests and the seed tooling.
type InventorySource interface {
	LoadInventory(ctx context.Context, filter InventoryFilter) ([]InventoryItem, error)
}

// InMemoryInventory is a thread-safe InventorySource over a fixed slice
// of items.
type InMemoryInventory struct {
	mu    sync.RWMutex
	items []InventoryItem
}

// NewInMemoryInventory creates an in-memory source seeded with items.
func NewInMemoryInventory(items []InventoryItem) *InMemoryInventory {
	return &InMemoryInventory{items: items}
}

// LoadInventory returns a copy of every stored item matching the filter.
func (s *InMemoryInventory) LoadInventory(_ context.Context, filter InventoryFilter) ([]InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []InventoryItem
	for _, it := range s.items {
		if filter.Matches(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// SetItems replaces the stored inventory snapshot.
func (s *InMemoryInventory) SetItems(items []InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]InventoryItem(nil), items...)
}

// AddItem appends one item to the stored inventory.
func (s *InMemoryInventory) AddItem(item InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

package store

import (
	"context"
	"sync"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

// MemoryStore keeps both collections in process memory. Used by unit tests
// and as a zero-dependency backend for local runs.
type MemoryStore struct {
	mu        sync.RWMutex
	inventory []domain.StockItem
	orders    []domain.Order
	seeded    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ReadInventory(_ context.Context) ([]domain.StockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.seeded && s.inventory == nil {
		return domain.SeedInventory(), nil
	}

	items := make([]domain.StockItem, len(s.inventory))
	copy(items, s.inventory)
	return items, nil
}

func (s *MemoryStore) WriteInventory(_ context.Context, items []domain.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inventory = make([]domain.StockItem, len(items))
	copy(s.inventory, items)
	s.seeded = true
	return nil
}

func (s *MemoryStore) ReadOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		orders[i] = cloneOrder(o)
	}
	return orders, nil
}

func (s *MemoryStore) WriteOrders(_ context.Context, orders []domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]domain.Order, len(orders))
	for i, o := range orders {
		s.orders[i] = cloneOrder(o)
	}
	return nil
}

// cloneOrder deep-copies an order so callers can't reach into stored state
// through the Items slice or the pointer fields.
func cloneOrder(o domain.Order) domain.Order {
	items := make([]domain.CartLine, len(o.Items))
	copy(items, o.Items)
	o.Items = items

	if o.ProcessedDate != nil {
		d := *o.ProcessedDate
		o.ProcessedDate = &d
	}
	if o.Rating != nil {
		r := *o.Rating
		o.Rating = &r
	}
	return o
}

// Package store is the persistence collaborator behind the ordering engine.
// The contract is deliberately coarse: each read returns a whole collection,
// each write replaces it. The engine serializes access, so implementations
// do not need transactional isolation between the two collections.
package store

import (
	"context"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

// Store reads and writes the two collections the system persists.
// ReadInventory returns the seed stock list when no prior state exists;
// ReadOrders returns an empty slice in that case.
type Store interface {
	ReadInventory(ctx context.Context) ([]domain.StockItem, error)
	WriteInventory(ctx context.Context, items []domain.StockItem) error
	ReadOrders(ctx context.Context) ([]domain.Order, error)
	WriteOrders(ctx context.Context, orders []domain.Order) error
}

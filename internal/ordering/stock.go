package ordering

import (
	"context"
	"fmt"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

// Inventory returns the current stock list (the employee-facing menu).
func (e *Engine) Inventory(ctx context.Context) ([]domain.StockItem, error) {
	return e.store.ReadInventory(ctx)
}

// AddStock increases an item's stock by a positive quantity.
func (e *Engine) AddStock(ctx context.Context, itemID int64, qty int) (*domain.StockItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	inventory, err := e.store.ReadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	idx := findItem(inventory, itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: item %d", domain.ErrItemNotFound, itemID)
	}

	inventory[idx].Stock += qty
	if err := e.store.WriteInventory(ctx, inventory); err != nil {
		return nil, fmt.Errorf("write inventory: %w", err)
	}

	e.logger.Info("stock added", "item_id", itemID, "quantity", qty, "stock", inventory[idx].Stock)
	item := inventory[idx]
	return &item, nil
}

// DecreaseStock deducts a positive quantity from an item's stock. The stock
// invariant is enforced here: a deduction past zero is refused outright.
func (e *Engine) DecreaseStock(ctx context.Context, itemID int64, qty int) (*domain.StockItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	inventory, err := e.store.ReadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	idx := findItem(inventory, itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: item %d", domain.ErrItemNotFound, itemID)
	}
	if inventory[idx].Stock < qty {
		return nil, fmt.Errorf("%w for %q", domain.ErrInsufficientStock, inventory[idx].Name)
	}

	inventory[idx].Stock -= qty
	if err := e.store.WriteInventory(ctx, inventory); err != nil {
		return nil, fmt.Errorf("write inventory: %w", err)
	}

	e.logger.Info("stock decreased", "item_id", itemID, "quantity", qty, "stock", inventory[idx].Stock)
	item := inventory[idx]
	return &item, nil
}

// AddProduct appends a new stock item with a fresh id.
func (e *Engine) AddProduct(ctx context.Context, name string, stock int) (*domain.StockItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if stock < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	inventory, err := e.store.ReadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	item := domain.StockItem{
		ID:    e.ids.Next(),
		Name:  name,
		Stock: stock,
	}

	inventory = append(inventory, item)
	if err := e.store.WriteInventory(ctx, inventory); err != nil {
		return nil, fmt.Errorf("write inventory: %w", err)
	}

	e.logger.Info("product added", "item_id", item.ID, "name", name, "stock", stock)
	return &item, nil
}

// DeleteProduct removes a stock item. Persisted orders keep the name
// snapshots in their line items, so the history stays readable.
func (e *Engine) DeleteProduct(ctx context.Context, itemID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inventory, err := e.store.ReadInventory(ctx)
	if err != nil {
		return fmt.Errorf("read inventory: %w", err)
	}

	idx := findItem(inventory, itemID)
	if idx < 0 {
		return fmt.Errorf("%w: item %d", domain.ErrItemNotFound, itemID)
	}

	inventory = append(inventory[:idx], inventory[idx+1:]...)
	if err := e.store.WriteInventory(ctx, inventory); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}

	e.logger.Info("product deleted", "item_id", itemID)
	return nil
}

func findItem(items []domain.StockItem, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Package ordering implements the order lifecycle: cart submission, the
// approve/reject transaction, and stock adjustment. A single mutex
// serializes every operation that touches the stores, so the two-phase
// approval protocol is atomic with respect to concurrent submissions,
// approvals and stock changes.
package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/mfakhry/pantry-orders/internal/cart"
	"github.com/mfakhry/pantry-orders/internal/domain"
	"github.com/mfakhry/pantry-orders/internal/messaging"
	"github.com/mfakhry/pantry-orders/internal/store"
)

// Publishers carries the topic producers the engine emits events through.
// Either producer may be nil; publishing is then skipped for that topic.
type Publishers struct {
	Submitted *messaging.Producer
	Processed *messaging.Producer
}

// Engine owns all mutation of the inventory and order collections.
type Engine struct {
	mu     sync.Mutex
	store  store.Store
	pubs   Publishers
	logger *slog.Logger
	ids    idGenerator
	now    func() time.Time
}

func New(s store.Store, pubs Publishers, logger *slog.Logger) *Engine {
	return &Engine{
		store:  s,
		pubs:   pubs,
		logger: logger,
		now:    time.Now,
	}
}

// Submit turns a validated cart into a pending persisted order and clears
// the cart. Every distinct item is re-checked against a fresh inventory
// snapshot first: the cart may have been assembled long ago and stock may
// have moved since. Any shortfall aborts the whole submission with the
// failing item named, leaving the cart and both stores untouched.
func (e *Engine) Submit(ctx context.Context, employeeName, note string, c *cart.Cart) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := c.Lines()
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	inventory, err := e.store.ReadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	stockByID := make(map[int64]domain.StockItem, len(inventory))
	for _, item := range inventory {
		stockByID[item.ID] = item
	}

	for _, line := range lines {
		item, ok := stockByID[line.ItemID]
		if !ok || item.Stock < c.CountOf(line.ItemID) {
			return nil, fmt.Errorf("%w for %q", domain.ErrInsufficientStock, line.Name)
		}
	}

	orders, err := e.store.ReadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	order := domain.Order{
		ID:           e.ids.Next(),
		EmployeeName: employeeName,
		Items:        lines,
		Note:         note,
		Status:       domain.OrderStatusPending,
		Date:         e.now().UTC(),
	}

	orders = append(orders, order)
	if err := e.store.WriteOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("write orders: %w", err)
	}

	c.Clear()

	e.publish(ctx, e.pubs.Submitted, order.ID, domain.OrderSubmittedEvent{
		OrderID:      order.ID,
		EmployeeName: order.EmployeeName,
		Items:        order.Items,
		Timestamp:    order.Date,
	})

	e.logger.Info("order submitted", "order_id", order.ID, "employee", employeeName, "lines", len(order.Items))
	return &order, nil
}

// Approve moves a pending order to approved and deducts its aggregated
// quantities from stock. The transaction is two-phase: every aggregated
// item is validated against current stock before any deduction is applied,
// so a partial deduction is never observable. On any shortfall the order
// stays pending and the inventory is untouched.
func (e *Engine) Approve(ctx context.Context, orderID int64, approverName string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders, err := e.store.ReadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	idx := findOrder(orders, orderID)
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}
	order := &orders[idx]
	if order.Status != domain.OrderStatusPending {
		return nil, domain.ErrOrderProcessed
	}

	inventory, err := e.store.ReadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	requested := order.AggregateItems()

	// Validation phase: every aggregate checked before anything moves.
	itemIdx := make(map[int64]int, len(inventory))
	for i, item := range inventory {
		itemIdx[item.ID] = i
	}
	for itemID, qty := range requested {
		i, ok := itemIdx[itemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %d", domain.ErrItemNotFound, itemID)
		}
		if inventory[i].Stock < qty {
			return nil, fmt.Errorf("%w for %q", domain.ErrInsufficientStock, inventory[i].Name)
		}
	}

	// Apply phase: only reached when every item passed.
	for itemID, qty := range requested {
		inventory[itemIdx[itemID]].Stock -= qty
	}

	processed := e.now().UTC()
	order.Status = domain.OrderStatusApproved
	order.ProcessedDate = &processed
	order.ProcessedBy = approverName

	if err := e.store.WriteInventory(ctx, inventory); err != nil {
		return nil, fmt.Errorf("write inventory: %w", err)
	}
	if err := e.store.WriteOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("write orders: %w", err)
	}

	e.publish(ctx, e.pubs.Processed, order.ID, domain.OrderProcessedEvent{
		OrderID:      order.ID,
		EmployeeName: order.EmployeeName,
		Status:       order.Status,
		ProcessedBy:  approverName,
		Timestamp:    processed,
	})

	e.logger.Info("order approved", "order_id", order.ID, "approved_by", approverName)
	result := *order
	return &result, nil
}

// Reject moves a pending order to rejected. No inventory effect.
func (e *Engine) Reject(ctx context.Context, orderID int64, approverName string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders, err := e.store.ReadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	idx := findOrder(orders, orderID)
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}
	order := &orders[idx]
	if order.Status != domain.OrderStatusPending {
		return nil, domain.ErrOrderProcessed
	}

	processed := e.now().UTC()
	order.Status = domain.OrderStatusRejected
	order.ProcessedDate = &processed
	order.ProcessedBy = approverName

	if err := e.store.WriteOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("write orders: %w", err)
	}

	e.publish(ctx, e.pubs.Processed, order.ID, domain.OrderProcessedEvent{
		OrderID:      order.ID,
		EmployeeName: order.EmployeeName,
		Status:       order.Status,
		ProcessedBy:  approverName,
		Timestamp:    processed,
	})

	e.logger.Info("order rejected", "order_id", order.ID, "rejected_by", approverName)
	result := *order
	return &result, nil
}

// Rate records an employee rating on an approved order.
func (e *Engine) Rate(ctx context.Context, orderID int64, rating int) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	orders, err := e.store.ReadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	idx := findOrder(orders, orderID)
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}
	order := &orders[idx]
	if order.Status != domain.OrderStatusApproved {
		return nil, domain.ErrOrderNotApproved
	}

	order.Rating = &rating
	if err := e.store.WriteOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("write orders: %w", err)
	}

	e.logger.Info("order rated", "order_id", order.ID, "rating", rating)
	result := *order
	return &result, nil
}

// GetOrder returns a single order by id.
func (e *Engine) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	orders, err := e.store.ReadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	idx := findOrder(orders, orderID)
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}
	order := orders[idx]
	return &order, nil
}

// ListOrders returns every persisted order in creation order.
func (e *Engine) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return e.store.ReadOrders(ctx)
}

// PendingOrders returns the orders still awaiting an admin decision.
func (e *Engine) PendingOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := e.store.ReadOrders(ctx)
	if err != nil {
		return nil, err
	}

	pending := []domain.Order{}
	for _, o := range orders {
		if o.Status == domain.OrderStatusPending {
			pending = append(pending, o)
		}
	}
	return pending, nil
}

func (e *Engine) publish(ctx context.Context, p *messaging.Producer, orderID int64, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, strconv.FormatInt(orderID, 10), event); err != nil {
		e.logger.Error("failed to publish event", "error", err, "order_id", orderID)
	}
}

func findOrder(orders []domain.Order, id int64) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

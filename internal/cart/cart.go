// Package cart holds the items an employee intends to order before
// submission. A Cart lives in the memory of a single session and is never
// shared between sessions, so it carries no lock of its own; concurrent
// access to the same cart is the caller's bug.
package cart

import (
	"fmt"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

// Cart is an ordered list of pending line selections. One line per unit:
// the count of lines carrying an item id is the quantity requested, and it
// doubles as the cart's own soft reservation against live stock.
type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// Add appends one line for the given stock item. The caller resolves the
// item from a fresh inventory snapshot; Add only checks that the live stock
// still covers one more unit on top of what the cart already holds. On a
// shortfall the cart is left untouched and the item is named in the error.
func (c *Cart) Add(item domain.StockItem) error {
	inCart := c.CountOf(item.ID)
	if item.Stock <= inCart {
		return fmt.Errorf("%w for %q", domain.ErrInsufficientStock, item.Name)
	}

	c.lines = append(c.lines, domain.CartLine{
		ItemID: item.ID,
		Name:   item.Name,
	})
	return nil
}

// Remove drops the line at the given position.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("cart index %d out of range", index)
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear empties the cart. Invoked by successful submission.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Count() int {
	return len(c.lines)
}

// CountOf reports how many lines carry the given item id.
func (c *Cart) CountOf(itemID int64) int {
	n := 0
	for _, line := range c.lines {
		if line.ItemID == itemID {
			n++
		}
	}
	return n
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

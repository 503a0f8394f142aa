package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusRejected OrderStatus = "rejected"
)

// CartLine is one requested unit of a stock item. Quantity is expressed by
// multiplicity: three lines with the same ItemID mean quantity 3. Name is a
// snapshot taken when the line entered the cart, so persisted orders keep
// their labels even after the stock item is renamed or deleted.
type CartLine struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

type Order struct {
	ID            int64       `json:"id"`
	EmployeeName  string      `json:"employee_name"`
	Items         []CartLine  `json:"items"`
	Note          string      `json:"note,omitempty"`
	Status        OrderStatus `json:"status"`
	Date          time.Time   `json:"date"`
	ProcessedDate *time.Time  `json:"processed_date,omitempty"`
	ProcessedBy   string      `json:"processed_by,omitempty"`
	Rating        *int        `json:"rating,omitempty"`
}

// AggregateItems sums an order's lines by item id into requested quantities.
// The approval transaction validates and deducts against this mapping.
func (o *Order) AggregateItems() map[int64]int {
	quantities := make(map[int64]int, len(o.Items))
	for _, line := range o.Items {
		quantities[line.ItemID]++
	}
	return quantities
}

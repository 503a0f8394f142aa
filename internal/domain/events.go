package domain

import "time"

type OrderSubmittedEvent struct {
	OrderID      int64      `json:"order_id"`
	EmployeeName string     `json:"employee_name"`
	Items        []CartLine `json:"items"`
	Timestamp    time.Time  `json:"timestamp"`
}

type OrderProcessedEvent struct {
	OrderID      int64       `json:"order_id"`
	EmployeeName string      `json:"employee_name"`
	Status       OrderStatus `json:"status"`
	ProcessedBy  string      `json:"processed_by"`
	Timestamp    time.Time   `json:"timestamp"`
}

package ordering

import (
	"context"
	"sort"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

// ProcessedReport lists orders that have left the pending state, newest
// decision first, with the summary counts the admin dashboard shows.
type ProcessedReport struct {
	Approved  int            `json:"approved"`
	Processed int            `json:"processed"`
	Orders    []domain.Order `json:"orders"`
}

func (e *Engine) Report(ctx context.Context) (*ProcessedReport, error) {
	orders, err := e.store.ReadOrders(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProcessedReport{Orders: []domain.Order{}}
	for _, o := range orders {
		if o.Status == domain.OrderStatusPending {
			continue
		}
		if o.Status == domain.OrderStatusApproved {
			report.Approved++
		}
		report.Orders = append(report.Orders, o)
	}
	report.Processed = len(report.Orders)

	sort.Slice(report.Orders, func(i, j int) bool {
		a, b := report.Orders[i].ProcessedDate, report.Orders[j].ProcessedDate
		if a == nil || b == nil {
			return b == nil
		}
		return a.After(*b)
	})

	return report, nil
}

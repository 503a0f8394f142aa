// Package notifier turns order.processed events into employee emails.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

type Handler struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewHandler(emailServiceURL string, client *http.Client, logger *slog.Logger) *Handler {
	return &Handler{
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
	}
}

// Handle processes one order.processed event payload.
func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderProcessedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order processed event: %w", err)
	}

	h.logger.Info("processing order decision event",
		"order_id", event.OrderID, "status", event.Status, "processed_by", event.ProcessedBy)

	var subject, body string
	switch event.Status {
	case domain.OrderStatusApproved:
		subject = fmt.Sprintf("Order #%d approved", event.OrderID)
		body = fmt.Sprintf("Your order #%d was approved by %s and is being prepared.", event.OrderID, event.ProcessedBy)
	case domain.OrderStatusRejected:
		subject = fmt.Sprintf("Order #%d rejected", event.OrderID)
		body = fmt.Sprintf("Your order #%d was rejected by %s.", event.OrderID, event.ProcessedBy)
	default:
		h.logger.Warn("ignoring event with unexpected status", "order_id", event.OrderID, "status", event.Status)
		return nil
	}

	if err := h.sendEmail(ctx, event.EmployeeName, subject, body); err != nil {
		h.logger.Error("failed to send notification", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send notification: %w", err)
	}

	h.logger.Info("notification sent", "order_id", event.OrderID, "employee", event.EmployeeName)
	return nil
}

func (h *Handler) sendEmail(ctx context.Context, employeeName, subject, body string) error {
	payload := map[string]string{
		"to":      employeeName,
		"subject": subject,
		"body":    body,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}

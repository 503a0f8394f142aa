// Package server exposes the ordering core over HTTP for the rendering and
// admin frontends. Handlers return data only; no markup is produced here.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mfakhry/pantry-orders/internal/domain"
	"github.com/mfakhry/pantry-orders/internal/ordering"
	"github.com/mfakhry/pantry-orders/internal/telemetry"
)

type Handler struct {
	engine   *ordering.Engine
	sessions *sessionRegistry
	logger   *slog.Logger
}

func NewHandler(engine *ordering.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		sessions: newSessionRegistry(),
		logger:   logger,
	}
}

// Routes registers every endpoint on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /menu", telemetry.WithHTTPRoute(h.HandleMenu))

	mux.HandleFunc("POST /carts", telemetry.WithHTTPRoute(h.HandleCreateCart))
	mux.HandleFunc("GET /carts/{sessionId}", telemetry.WithHTTPRoute(h.HandleGetCart))
	mux.HandleFunc("POST /carts/{sessionId}/items", telemetry.WithHTTPRoute(h.HandleAddToCart))
	mux.HandleFunc("DELETE /carts/{sessionId}/items/{index}", telemetry.WithHTTPRoute(h.HandleRemoveFromCart))

	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(h.HandleSubmit))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(h.HandleListOrders))
	mux.HandleFunc("GET /orders/pending", telemetry.WithHTTPRoute(h.HandlePendingOrders))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(h.HandleGetOrder))
	mux.HandleFunc("POST /orders/{id}/approve", telemetry.WithHTTPRoute(h.HandleApprove))
	mux.HandleFunc("POST /orders/{id}/reject", telemetry.WithHTTPRoute(h.HandleReject))
	mux.HandleFunc("POST /orders/{id}/rating", telemetry.WithHTTPRoute(h.HandleRate))

	mux.HandleFunc("POST /stock/{itemId}/add", telemetry.WithHTTPRoute(h.HandleAddStock))
	mux.HandleFunc("POST /stock/{itemId}/decrease", telemetry.WithHTTPRoute(h.HandleDecreaseStock))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(h.HandleAddProduct))
	mux.HandleFunc("DELETE /products/{id}", telemetry.WithHTTPRoute(h.HandleDeleteProduct))

	mux.HandleFunc("GET /reports/processed", telemetry.WithHTTPRoute(h.HandleReport))
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

func (h *Handler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.engine.Inventory(r.Context())
	if err != nil {
		h.logger.Error("failed to read inventory", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON and writeError are shared by every handler file in this package.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps the engine's error taxonomy to HTTP statuses. Every
// one of these failures leaves the stores untouched, so the frontend can
// show the message and let the user retry.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrOrderProcessed),
		errors.Is(err, domain.ErrOrderNotApproved):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidRating):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("engine error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

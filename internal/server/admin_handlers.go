package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Quantity arrives as a JSON string because the admin form submits raw
// input; parsing and the positive-integer check happen here, before the
// value crosses into the engine.
type adjustStockRequest struct {
	Quantity json.Number `json:"quantity"`
}

func (r adjustStockRequest) parse() (int, bool) {
	qty, err := r.Quantity.Int64()
	if err != nil || qty <= 0 {
		return 0, false
	}
	return int(qty), true
}

func (h *Handler) HandleAddStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemId")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qty, ok := req.parse()
	if !ok {
		h.writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	item, err := h.engine.AddStock(r.Context(), id, qty)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleDecreaseStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemId")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qty, err := req.Quantity.Int64()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "quantity must be an integer")
		return
	}

	// The engine independently enforces positivity and sufficiency here.
	item, engineErr := h.engine.DecreaseStock(r.Context(), id, int(qty))
	if engineErr != nil {
		h.writeEngineError(w, engineErr)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

type addProductRequest struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

func (h *Handler) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		h.writeError(w, http.StatusBadRequest, "product name is required")
		return
	}

	item, err := h.engine.AddProduct(r.Context(), strings.TrimSpace(req.Name), req.Stock)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.engine.DeleteProduct(r.Context(), id); err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Report(r.Context())
	if err != nil {
		h.logger.Error("failed to build report", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

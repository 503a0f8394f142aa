package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

type submitOrderRequest struct {
	SessionID    string `json:"session_id"`
	EmployeeName string `json:"employee_name"`
	Note         string `json:"note"`
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.EmployeeName) == "" {
		h.writeError(w, http.StatusBadRequest, "employee name is required")
		return
	}

	c, ok := h.sessions.Get(req.SessionID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	order, err := h.engine.Submit(r.Context(), strings.TrimSpace(req.EmployeeName), strings.TrimSpace(req.Note), c)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.engine.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandlePendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.engine.PendingOrders(r.Context())
	if err != nil {
		h.logger.Error("failed to list pending orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.engine.GetOrder(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

type processOrderRequest struct {
	ApprovedBy string `json:"approved_by"`
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req processOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ApprovedBy) == "" {
		h.writeError(w, http.StatusBadRequest, "approver name is required")
		return
	}

	order, err := h.engine.Approve(r.Context(), id, strings.TrimSpace(req.ApprovedBy))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req processOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ApprovedBy) == "" {
		h.writeError(w, http.StatusBadRequest, "approver name is required")
		return
	}

	order, err := h.engine.Reject(r.Context(), id, strings.TrimSpace(req.ApprovedBy))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

type rateOrderRequest struct {
	Rating int `json:"rating"`
}

func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req rateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.engine.Rate(r.Context(), id, req.Rating)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

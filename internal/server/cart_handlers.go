package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

type createCartResponse struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) HandleCreateCart(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Create()
	h.logger.Info("cart session created", "session_id", id)
	h.writeJSON(w, http.StatusCreated, createCartResponse{SessionID: id})
}

type cartResponse struct {
	Count int               `json:"count"`
	Lines []domain.CartLine `json:"lines"`
}

func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessions.Get(r.PathValue("sessionId"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{Count: c.Count(), Lines: c.Lines()})
}

type addToCartRequest struct {
	ItemID int64 `json:"item_id"`
}

func (h *Handler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessions.Get(r.PathValue("sessionId"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inventory, err := h.engine.Inventory(r.Context())
	if err != nil {
		h.logger.Error("failed to read inventory", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var item *domain.StockItem
	for i := range inventory {
		if inventory[i].ID == req.ItemID {
			item = &inventory[i]
			break
		}
	}
	if item == nil {
		// Unknown item leaves the cart as it was.
		h.writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := c.Add(*item); err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.logger.Info("item added to cart", "item_id", req.ItemID, "cart_count", c.Count())
	h.writeJSON(w, http.StatusCreated, cartResponse{Count: c.Count(), Lines: c.Lines()})
}

func (h *Handler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessions.Get(r.PathValue("sessionId"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	if err := c.Remove(index); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{Count: c.Count(), Lines: c.Lines()})
}

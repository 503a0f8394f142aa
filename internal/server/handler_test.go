package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mfakhry/pantry-orders/internal/domain"
	"github.com/mfakhry/pantry-orders/internal/ordering"
	"github.com/mfakhry/pantry-orders/internal/store"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := ordering.New(store.NewMemoryStore(), ordering.Publishers{}, logger)
	handler := NewHandler(engine, logger)

	mux := http.NewServeMux()
	handler.Routes(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, mux *http.ServeMux) string {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/carts", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return resp.SessionID
}

func TestHandler_Menu(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/menu", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []domain.StockItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("expected 5 seed items, got %d", len(items))
	}
}

func TestHandler_CartFlow(t *testing.T) {
	mux := newTestMux(t)
	session := createSession(t, mux)

	t.Run("add known item", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/carts/"+session+"/items", `{"item_id": 1}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Count int               `json:"count"`
			Lines []domain.CartLine `json:"lines"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Count != 1 || resp.Lines[0].Name != "Tea" {
			t.Errorf("unexpected cart: %+v", resp)
		}
	})

	t.Run("unknown item is 404 and cart is untouched", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/carts/"+session+"/items", `{"item_id": 999}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}

		rec = doJSON(t, mux, http.MethodGet, "/carts/"+session, "")
		var resp struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Count != 1 {
			t.Errorf("cart mutated by failed add: %d", resp.Count)
		}
	})

	t.Run("remove out of range index is 400", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodDelete, "/carts/"+session+"/items/5", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("remove valid index", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodDelete, "/carts/"+session+"/items/0", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/carts/not-a-session", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandler_AddToCartExhaustsStock(t *testing.T) {
	mux := newTestMux(t)
	session := createSession(t, mux)

	// Orange Juice seeds with 20 units.
	for i := 0; i < 20; i++ {
		rec := doJSON(t, mux, http.MethodPost, "/carts/"+session+"/items", `{"item_id": 4}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add %d: expected 201, got %d", i, rec.Code)
		}
	}

	rec := doJSON(t, mux, http.MethodPost, "/carts/"+session+"/items", `{"item_id": 4}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 once stock is exhausted, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_OrderLifecycle(t *testing.T) {
	mux := newTestMux(t)
	session := createSession(t, mux)

	for i := 0; i < 2; i++ {
		if rec := doJSON(t, mux, http.MethodPost, "/carts/"+session+"/items", `{"item_id": 1}`); rec.Code != http.StatusCreated {
			t.Fatalf("add to cart failed: %d", rec.Code)
		}
	}

	var order domain.Order
	t.Run("submit", func(t *testing.T) {
		body := fmt.Sprintf(`{"session_id": %q, "employee_name": "samir", "note": "morning round"}`, session)
		rec := doJSON(t, mux, http.MethodPost, "/orders", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
			t.Fatal(err)
		}
		if order.Status != domain.OrderStatusPending || len(order.Items) != 2 {
			t.Fatalf("unexpected order: %+v", order)
		}
	})

	t.Run("submitting the now-empty cart is 400", func(t *testing.T) {
		body := fmt.Sprintf(`{"session_id": %q, "employee_name": "samir"}`, session)
		rec := doJSON(t, mux, http.MethodPost, "/orders", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("appears in pending list", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/orders/pending", "")
		var pending []domain.Order
		if err := json.Unmarshal(rec.Body.Bytes(), &pending); err != nil {
			t.Fatal(err)
		}
		if len(pending) != 1 || pending[0].ID != order.ID {
			t.Errorf("unexpected pending list: %+v", pending)
		}
	})

	t.Run("approve deducts stock", func(t *testing.T) {
		path := fmt.Sprintf("/orders/%d/approve", order.ID)
		rec := doJSON(t, mux, http.MethodPost, path, `{"approved_by": "admin"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var approved domain.Order
		if err := json.Unmarshal(rec.Body.Bytes(), &approved); err != nil {
			t.Fatal(err)
		}
		if approved.Status != domain.OrderStatusApproved || approved.ProcessedBy != "admin" {
			t.Errorf("unexpected approved order: %+v", approved)
		}

		rec = doJSON(t, mux, http.MethodGet, "/menu", "")
		var items []domain.StockItem
		_ = json.Unmarshal(rec.Body.Bytes(), &items)
		if items[0].Stock != 48 {
			t.Errorf("expected Tea stock 48, got %d", items[0].Stock)
		}
	})

	t.Run("second approve is 409", func(t *testing.T) {
		path := fmt.Sprintf("/orders/%d/approve", order.ID)
		rec := doJSON(t, mux, http.MethodPost, path, `{"approved_by": "admin"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("rate the approved order", func(t *testing.T) {
		path := fmt.Sprintf("/orders/%d/rating", order.ID)
		rec := doJSON(t, mux, http.MethodPost, path, `{"rating": 5}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, mux, http.MethodPost, path, `{"rating": 9}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("rating 9: expected 400, got %d", rec.Code)
		}
	})

	t.Run("shows up in the processed report", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/reports/processed", "")
		var report ordering.ProcessedReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatal(err)
		}
		if report.Approved != 1 || report.Processed != 1 {
			t.Errorf("unexpected report counts: %+v", report)
		}
	})

	t.Run("approve of unknown order is 404", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/orders/424242/approve", `{"approved_by": "admin"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandler_Reject(t *testing.T) {
	mux := newTestMux(t)
	session := createSession(t, mux)

	if rec := doJSON(t, mux, http.MethodPost, "/carts/"+session+"/items", `{"item_id": 2}`); rec.Code != http.StatusCreated {
		t.Fatal("add to cart failed")
	}

	body := fmt.Sprintf(`{"session_id": %q, "employee_name": "samir"}`, session)
	rec := doJSON(t, mux, http.MethodPost, "/orders", body)
	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatal(err)
	}

	path := fmt.Sprintf("/orders/%d/reject", order.ID)
	rec = doJSON(t, mux, http.MethodPost, path, `{"approved_by": "admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Rejection never touches stock.
	rec = doJSON(t, mux, http.MethodGet, "/menu", "")
	var items []domain.StockItem
	_ = json.Unmarshal(rec.Body.Bytes(), &items)
	if items[1].Stock != 30 {
		t.Errorf("expected Turkish Coffee stock 30, got %d", items[1].Stock)
	}
}

func TestHandler_StockAdjustment(t *testing.T) {
	mux := newTestMux(t)

	t.Run("add stock with positive quantity", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/stock/1/add", `{"quantity": 10}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var item domain.StockItem
		_ = json.Unmarshal(rec.Body.Bytes(), &item)
		if item.Stock != 60 {
			t.Errorf("expected stock 60, got %d", item.Stock)
		}
	})

	t.Run("quantity arriving as a numeric string is accepted", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/stock/1/add", `{"quantity": "5"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("non-numeric quantity is 400", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/stock/1/add", `{"quantity": "lots"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("zero and negative add quantities are 400", func(t *testing.T) {
		for _, body := range []string{`{"quantity": 0}`, `{"quantity": -2}`} {
			rec := doJSON(t, mux, http.MethodPost, "/stock/1/add", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", body, rec.Code)
			}
		}
	})

	t.Run("decrease below zero is 409", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/stock/4/decrease", `{"quantity": 1000}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("negative decrease is 400", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/stock/4/decrease", `{"quantity": -1}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown item is 404", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/stock/999/add", `{"quantity": 1}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandler_Products(t *testing.T) {
	mux := newTestMux(t)

	t.Run("create", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/products", `{"name": "Hibiscus", "stock": 15}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("blank name is 400", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/products", `{"name": "  ", "stock": 15}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodDelete, "/products/5", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		rec = doJSON(t, mux, http.MethodGet, "/menu", "")
		var items []domain.StockItem
		_ = json.Unmarshal(rec.Body.Bytes(), &items)
		for _, item := range items {
			if item.ID == 5 {
				t.Errorf("item 5 still present after delete")
			}
		}
	})
}

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nivora-bio/labcart-backend/api/middleware"
	cartcore "github.com/nivora-bio/labcart-backend/internal/cart"
)

func sessionRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func TestCartAddItemAddsAndMerges(t *testing.T) {
	carts := cartcore.NewManager(nil, nil)
	handler := CartAddItem(carts, nil)
	productID := uuid.New()

	body := `{"product_id":"` + productID.String() + `","sku":"LC-BPC157","product_name":"BPC-157 5mg","unit_price":"24.99","quantity":2}`

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Outcome string       `json:"outcome"`
			Cart    cartResponse `json:"cart"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Outcome != "added" {
		t.Fatalf("expected added outcome, got %q", envelope.Data.Outcome)
	}
	if envelope.Data.Cart.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", envelope.Data.Cart.TotalItems)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Outcome != "merged" {
		t.Fatalf("expected merged outcome, got %q", envelope.Data.Outcome)
	}
	if len(envelope.Data.Cart.Items) != 1 || envelope.Data.Cart.TotalItems != 4 {
		t.Fatalf("merge should yield one row with quantity 4")
	}
}

func TestCartAddItemRejectsBadPrice(t *testing.T) {
	carts := cartcore.NewManager(nil, nil)
	handler := CartAddItem(carts, nil)

	body := `{"product_id":"` + uuid.NewString() + `","sku":"LC-X","product_name":"X","unit_price":"not-a-price","quantity":1}`

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartGetEmpty(t *testing.T) {
	carts := cartcore.NewManager(nil, nil)
	handler := CartGet(carts, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/cart", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 0 || envelope.Data.TotalItems != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestCartVisibilityToggle(t *testing.T) {
	carts := cartcore.NewManager(nil, nil)
	handler := CartVisibility(carts, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/visibility", `{"action":"toggle"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Open {
		t.Fatalf("toggle should open a closed cart")
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/visibility", `{"action":"bogus"}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown action must be rejected, got %d", resp.Code)
	}
}

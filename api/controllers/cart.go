package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nivora-bio/labcart-backend/api/middleware"
	"github.com/nivora-bio/labcart-backend/api/responses"
	"github.com/nivora-bio/labcart-backend/api/validators"
	cartcore "github.com/nivora-bio/labcart-backend/internal/cart"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
)

type cartResponse struct {
	Items      []cartcore.LineItem `json:"items"`
	TotalItems int                 `json:"total_items"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Open       bool                `json:"open"`
}

func newCartResponse(store *cartcore.Store) cartResponse {
	return cartResponse{
		Items:      store.Items(),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
		Open:       store.IsOpen(),
	}
}

// CartGet returns the session's current cart.
func CartGet(carts *cartcore.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		store := carts.Store(r.Context(), sessionID)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type addItemRequest struct {
	ProductID    uuid.UUID  `json:"product_id" validate:"required"`
	VariantID    *uuid.UUID `json:"variant_id,omitempty"`
	SKU          string     `json:"sku" validate:"required"`
	ProductName  string     `json:"product_name" validate:"required"`
	ProductImage string     `json:"product_image"`
	SizeLabel    string     `json:"size_label"`
	Purity       string     `json:"purity"`
	UnitPrice    string     `json:"unit_price" validate:"required"`
	Quantity     int        `json:"quantity" validate:"omitempty,min=1"`
}

// CartAddItem adds to, or merges into, the session's cart.
func CartAddItem(carts *cartcore.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unitPrice, err := decimal.NewFromString(payload.UnitPrice)
		if err != nil || unitPrice.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit price"))
			return
		}

		store := carts.Store(r.Context(), sessionID)
		item, outcome := store.AddItem(cartcore.LineItem{
			ProductID:    payload.ProductID,
			VariantID:    payload.VariantID,
			SKU:          payload.SKU,
			ProductName:  payload.ProductName,
			ProductImage: payload.ProductImage,
			SizeLabel:    payload.SizeLabel,
			Purity:       payload.Purity,
			UnitPrice:    unitPrice,
			Quantity:     payload.Quantity,
		})
		carts.Persist(r.Context(), sessionID, store)

		responses.WriteSuccess(w, map[string]any{
			"outcome": outcome.String(),
			"item":    item,
			"cart":    newCartResponse(store),
		})
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdateQuantity sets a line item's quantity; zero or below removes it.
func CartUpdateQuantity(carts *cartcore.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := carts.Store(r.Context(), sessionID)
		store.UpdateQuantity(itemID, payload.Quantity)
		carts.Persist(r.Context(), sessionID, store)

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartRemoveItem deletes a line item. Unknown ids are a silent no-op.
func CartRemoveItem(carts *cartcore.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		store := carts.Store(r.Context(), sessionID)
		store.RemoveItem(itemID)
		carts.Persist(r.Context(), sessionID, store)

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartClear empties the cart; the drawer state is untouched.
func CartClear(carts *cartcore.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		store := carts.Store(r.Context(), sessionID)
		store.Clear()
		carts.Persist(r.Context(), sessionID, store)

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type visibilityRequest struct {
	// Action is one of open, close, toggle.
	Action string `json:"action" validate:"required,oneof=open close toggle"`
}

// CartVisibility drives the drawer's open/closed state.
func CartVisibility(carts *cartcore.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload visibilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := carts.Store(r.Context(), sessionID)
		switch payload.Action {
		case "open":
			store.Open()
		case "close":
			store.Close()
		default:
			store.Toggle()
		}
		carts.Persist(r.Context(), sessionID, store)

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

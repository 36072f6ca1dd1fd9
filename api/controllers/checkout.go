package controllers

import (
	"net/http"

	"github.com/nivora-bio/labcart-backend/api/middleware"
	"github.com/nivora-bio/labcart-backend/api/responses"
	"github.com/nivora-bio/labcart-backend/api/validators"
	checkoutsvc "github.com/nivora-bio/labcart-backend/internal/checkout"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
	"github.com/nivora-bio/labcart-backend/pkg/types"
)

type checkoutRequest struct {
	CustomerEmail   string        `json:"customer_email" validate:"required,email"`
	PaymentSourceID string        `json:"payment_source_id" validate:"required"`
	ShippingMethod  string        `json:"shipping_method" validate:"required"`
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
}

// Checkout prices the session's cart, captures payment, and creates the order.
func Checkout(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseShippingMethod(payload.ShippingMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method"))
			return
		}

		result, err := svc.Execute(r.Context(), checkoutsvc.Input{
			SessionID:       sessionID,
			CustomerEmail:   payload.CustomerEmail,
			PaymentSourceID: payload.PaymentSourceID,
			ShippingMethod:  method,
			ShippingAddress: payload.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order_id":    result.OrderID,
			"payment_ref": result.PaymentRef,
			"breakdown":   result.Breakdown,
		})
	}
}

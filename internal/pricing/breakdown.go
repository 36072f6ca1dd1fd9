package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nivora-bio/labcart-backend/pkg/config"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
)

// Params carries the inputs to a price computation.
type Params struct {
	Subtotal decimal.Decimal
	Method   enums.ShippingMethod
}

// Breakdown is the priced result of one checkout attempt. All fields are
// derived from Params plus the pricing config; nothing here is stored state.
type Breakdown struct {
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Shipping     decimal.Decimal      `json:"shipping"`
	Tax          decimal.Decimal      `json:"tax"`
	Total        decimal.Decimal      `json:"total"`
	Method       enums.ShippingMethod `json:"shipping_method"`
	FreeShipping bool                 `json:"free_shipping"`
}

// Compute prices an order. Shipping drops to zero once the subtotal meets the
// free-shipping threshold, regardless of method. Tax applies to the subtotal
// only and is rounded half-up to cents exactly once; shipping is never taxed.
func Compute(cfg config.PricingConfig, params Params) (Breakdown, error) {
	if params.Subtotal.IsNegative() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "subtotal cannot be negative")
	}
	if !params.Method.IsValid() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping method")
	}

	free := params.Subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold)
	shipping := decimal.Zero
	if !free {
		switch params.Method {
		case enums.ShippingMethodExpress:
			shipping = cfg.ExpressShippingFee
		default:
			shipping = cfg.StandardShippingFee
		}
	}

	tax := params.Subtotal.Mul(cfg.TaxRate).Round(2)

	return Breakdown{
		Subtotal:     params.Subtotal,
		Shipping:     shipping,
		Tax:          tax,
		Total:        params.Subtotal.Add(shipping).Add(tax),
		Method:       params.Method,
		FreeShipping: free,
	}, nil
}

// Cents converts an exact decimal amount into integer minor units for
// persistence and the payment gateway.
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

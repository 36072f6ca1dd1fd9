package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/nivora-bio/labcart-backend/internal/cart"
	"github.com/nivora-bio/labcart-backend/internal/pricing"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
)

// ManifestItem is one cart line frozen at checkout time.
type ManifestItem struct {
	LineItem  cart.LineItem
	LineTotal decimal.Decimal
}

// Manifest is the handoff between the cart core and order creation: the
// frozen line items plus the priced breakdown. The only guarantee the core
// makes to the order collaborator is that these numbers are internally
// consistent.
type Manifest struct {
	Items     []ManifestItem
	Breakdown pricing.Breakdown
}

// BuildManifest freezes the cart lines against the breakdown.
func BuildManifest(items []cart.LineItem, breakdown pricing.Breakdown) Manifest {
	manifest := Manifest{
		Items:     make([]ManifestItem, 0, len(items)),
		Breakdown: breakdown,
	}
	for _, item := range items {
		manifest.Items = append(manifest.Items, ManifestItem{
			LineItem:  item,
			LineTotal: item.LineTotal(),
		})
	}
	return manifest
}

// Validate checks the manifest's internal consistency: the line totals must
// sum exactly to the breakdown's subtotal.
func (m Manifest) Validate() error {
	if len(m.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	sum := decimal.Zero
	for _, item := range m.Items {
		if item.LineItem.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
		if !item.LineTotal.Equal(item.LineItem.LineTotal()) {
			return pkgerrors.New(pkgerrors.CodeValidation, "line total does not match unit price and quantity")
		}
		sum = sum.Add(item.LineTotal)
	}
	if !sum.Equal(m.Breakdown.Subtotal) {
		return pkgerrors.New(pkgerrors.CodeValidation, "line totals do not sum to the subtotal")
	}
	return nil
}

package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one quantity-bearing row in a cart. Name, image, and unit price
// are snapshots captured at add-time; later adds of the same product never
// refresh them.
type LineItem struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    *uuid.UUID      `json:"variant_id,omitempty"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	SizeLabel    string          `json:"size_label"`
	Purity       string          `json:"purity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
}

// IdentityKey returns the composite key that decides whether two adds refer to
// the same line item: product id plus variant id (or its absence).
func (li LineItem) IdentityKey() string {
	if li.VariantID == nil {
		return li.ProductID.String() + "|-"
	}
	return li.ProductID.String() + "|" + li.VariantID.String()
}

// LineTotal returns unit price times quantity, exact.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

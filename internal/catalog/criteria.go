package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/nivora-bio/labcart-backend/pkg/enums"
)

// Criteria describes which products are visible and in what order. Nil range
// bounds mean unbounded on that side; an empty category matches everything.
type Criteria struct {
	Category string

	PurityMin *decimal.Decimal
	PurityMax *decimal.Decimal
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	WeightMin *decimal.Decimal
	WeightMax *decimal.Decimal

	InStockOnly bool

	Applications []string
	StorageTemps []string

	SortKey       enums.SortKey
	SortDirection enums.SortDirection
}

// Normalize repairs inverted range bounds by swapping them and fills sort
// defaults. Low > high must never reach the evaluator, even when a caller
// dragged one endpoint past the other.
func (c *Criteria) Normalize() {
	swapIfInverted(&c.PurityMin, &c.PurityMax)
	swapIfInverted(&c.PriceMin, &c.PriceMax)
	swapIfInverted(&c.WeightMin, &c.WeightMax)

	if !c.SortKey.IsValid() {
		c.SortKey = enums.SortKeyName
	}
	if !c.SortDirection.IsValid() {
		c.SortDirection = enums.SortDirectionAsc
	}
}

func swapIfInverted(low, high **decimal.Decimal) {
	if *low == nil || *high == nil {
		return
	}
	if (*low).GreaterThan(**high) {
		*low, *high = *high, *low
	}
}

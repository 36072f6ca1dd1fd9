package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
)

// Apply evaluates the criteria against the product set and returns the
// visible, ordered subset. Products pass only when every predicate family
// passes; within the application and storage-temperature families a single
// matching tag is enough. The input slice is never mutated.
func Apply(products []models.Product, criteria Criteria) []models.Product {
	criteria.Normalize()

	out := make([]models.Product, 0, len(products))
	for _, product := range products {
		if matches(product, criteria) {
			out = append(out, product)
		}
	}

	sortProducts(out, criteria.SortKey, criteria.SortDirection)
	return out
}

func matches(product models.Product, criteria Criteria) bool {
	if criteria.Category != "" && !strings.EqualFold(product.Category, criteria.Category) {
		return false
	}
	if criteria.InStockOnly && !product.InStock {
		return false
	}
	if !displayValueInRange(product.Purity, criteria.PurityMin, criteria.PurityMax) {
		return false
	}
	if !valueInRange(product.Price, criteria.PriceMin, criteria.PriceMax) {
		return false
	}
	if !displayValueInRange(product.MolecularWeight, criteria.WeightMin, criteria.WeightMax) {
		return false
	}
	if !anyTagMatches(product.Applications, criteria.Applications) {
		return false
	}
	if !anyTagMatches(product.StorageTemps, criteria.StorageTemps) {
		return false
	}
	return true
}

// displayValueInRange parses the vendor display string before the range
// check. A malformed string fails the predicate; it never blanks the grid.
func displayValueInRange(raw string, low, high *decimal.Decimal) bool {
	if low == nil && high == nil {
		return true
	}
	value, ok := parseDisplayNumber(raw)
	if !ok {
		return false
	}
	return valueInRange(value, low, high)
}

func valueInRange(value decimal.Decimal, low, high *decimal.Decimal) bool {
	if low != nil && value.LessThan(*low) {
		return false
	}
	if high != nil && value.GreaterThan(*high) {
		return false
	}
	return true
}

// anyTagMatches reports whether any requested tag appears in the product's
// tags, case-insensitively. No requested tags means the family passes.
func anyTagMatches(productTags []string, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, want := range requested {
		for _, have := range productTags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

func sortProducts(products []models.Product, key enums.SortKey, direction enums.SortDirection) {
	less := comparatorFor(key)
	if direction == enums.SortDirectionDesc {
		inner := less
		less = func(a, b models.Product) bool { return inner(b, a) }
	}
	// SliceStable keeps the relative input order for equal keys.
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

func comparatorFor(key enums.SortKey) func(a, b models.Product) bool {
	switch key {
	case enums.SortKeyPrice:
		return func(a, b models.Product) bool {
			return a.Price.LessThan(b.Price)
		}
	case enums.SortKeyPurity:
		return displayComparator(func(p models.Product) string { return p.Purity })
	case enums.SortKeyMolecularWeight:
		return displayComparator(func(p models.Product) string { return p.MolecularWeight })
	default:
		return func(a, b models.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
}

// displayComparator orders by the parsed numeric value of a display string.
// Unparseable values sort before parseable ones so they cluster together
// instead of interleaving.
func displayComparator(field func(models.Product) string) func(a, b models.Product) bool {
	return func(a, b models.Product) bool {
		av, aok := parseDisplayNumber(field(a))
		bv, bok := parseDisplayNumber(field(b))
		if aok != bok {
			return !aok
		}
		if !aok {
			return false
		}
		return av.LessThan(bv)
	}
}

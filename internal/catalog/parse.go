package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseDisplayNumber extracts the numeric value from a vendor display string
// such as "≥98%", "3,367.97 Da", or "-20°C". Everything outside the first
// numeric run is decoration and is stripped; a string with no parseable
// numeric run reports ok=false.
func parseDisplayNumber(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	started := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			started = true
		case r == '.' && started:
			b.WriteRune(r)
		case r == '-' && !started && b.Len() == 0:
			b.WriteRune(r)
		case r == ',' && started:
			// thousands separator inside the run
		default:
			if started {
				value, err := decimal.NewFromString(b.String())
				if err != nil {
					return decimal.Decimal{}, false
				}
				return value, true
			}
			b.Reset()
		}
	}
	if !started {
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

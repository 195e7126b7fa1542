package shared

import "github.com/shopspring/decimal"

// HasAtMostTwoDecimals reports whether d has no more than two fractional digits
func HasAtMostTwoDecimals(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

package model

import "github.com/shopspring/decimal"

// Reading holds a %K value computed at one lookback period.
type Reading struct {
	Period  int
	K       decimal.Decimal
	Defined bool // false when history is short or the price range is zero
}

// Values returns the K values of all readings, in period order.
func Values(readings []Reading) []decimal.Decimal {
	out := make([]decimal.Decimal, len(readings))
	for i, r := range readings {
		out[i] = r.K
	}
	return out
}

// AllDefined reports whether every reading carries a value.
func AllDefined(readings []Reading) bool {
	for _, r := range readings {
		if !r.Defined {
			return false
		}
	}
	return len(readings) > 0
}

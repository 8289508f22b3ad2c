package calculator

import (
	"github.com/shopspring/decimal"

	"StochSentinel/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ComputeK returns the stochastic %K of the latest close within the range of
// the most recent period candles, rounded to 2 places. The second result is
// false when the series is shorter than period or the range is zero.
func ComputeK(candles []model.Candle, period int) (decimal.Decimal, bool) {
	high, low, err := WindowRange(candles, period)
	if err != nil {
		return decimal.Zero, false
	}
	span := high.Sub(low)
	if span.IsZero() {
		return decimal.Zero, false
	}
	k := candles[0].Close.Sub(low).Mul(hundred).Div(span)
	return k.Round(2), true
}

// ComputeAll computes %K for every period, preserving the order of periods.
func ComputeAll(candles []model.Candle, periods []int) []model.Reading {
	readings := make([]model.Reading, 0, len(periods))
	for _, p := range periods {
		k, ok := ComputeK(candles, p)
		readings = append(readings, model.Reading{Period: p, K: k, Defined: ok})
	}
	return readings
}

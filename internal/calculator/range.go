package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"StochSentinel/internal/model"
)

// WindowRange scans the first period candles (the most recent ones, since
// series are most-recent-first) and returns the highest high and lowest low.
func WindowRange(candles []model.Candle, period int) (high, low decimal.Decimal, err error) {
	if period <= 0 {
		return decimal.Zero, decimal.Zero, errors.New("period must be positive")
	}
	if len(candles) < period {
		return decimal.Zero, decimal.Zero, errors.New("not enough candles for window")
	}
	high = candles[0].High
	low = candles[0].Low
	for i := 1; i < period; i++ {
		if candles[i].High.GreaterThan(high) {
			high = candles[i].High
		}
		if candles[i].Low.LessThan(low) {
			low = candles[i].Low
		}
	}
	return high, low, nil
}

// MaxPeriod returns the largest lookback in periods, or 0 for an empty list.
func MaxPeriod(periods []int) int {
	max := 0
	for _, p := range periods {
		if p > max {
			max = p
		}
	}
	return max
}

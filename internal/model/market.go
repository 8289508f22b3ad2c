package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle represents a single OHLC bar as reported by the provider.
type Candle struct {
	Time  time.Time
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
}

// Series holds one symbol/timeframe candle sequence, most recent candle first.
type Series struct {
	Symbol    string
	Timeframe string
	Candles   []Candle
	// DateOnly is set when the provider sent timestamps without a time of day.
	DateOnly bool
}

// Len returns the number of candles, tolerating a nil series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}

// Latest returns the most recent candle.
func (s *Series) Latest() (Candle, bool) {
	if s.Len() == 0 {
		return Candle{}, false
	}
	return s.Candles[0], true
}

// SeriesRequest describes one fetch against the provider.
type SeriesRequest struct {
	Symbol     string
	Timeframe  string
	OutputSize int
}

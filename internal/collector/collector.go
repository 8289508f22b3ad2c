package collector

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"StochSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price decimal.Decimal
	// Series maps "symbol|timeframe" to a fixed series.
	Series map[string]*model.Series
	// Errors maps "symbol|timeframe" to a fetch error.
	Errors map[string]error

	mu    sync.Mutex
	Calls []model.SeriesRequest
}

// MockKey builds the lookup key used by MockFetcher.
func MockKey(symbol, timeframe string) string {
	return symbol + "|" + timeframe
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, req model.SeriesRequest) (*model.Series, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	key := MockKey(req.Symbol, req.Timeframe)
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if s, ok := m.Series[key]; ok {
		return s, nil
	}
	price := m.Price
	if price.IsZero() {
		price = decimal.NewFromInt(100)
	}
	return &model.Series{
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe,
		Candles:   generateMockBars(price, req.OutputSize),
	}, nil
}

// generateMockBars builds a gently oscillating series, most recent first,
// that stays clear of the oscillator extremes.
func generateMockBars(basePrice decimal.Decimal, count int) []model.Candle {
	bars := make([]model.Candle, count)
	now := time.Now().UTC().Truncate(time.Hour)
	step := basePrice.Mul(decimal.NewFromFloat(0.001))
	for i := 0; i < count; i++ {
		offset := int64(i%10 - 5)
		p := basePrice.Add(step.Mul(decimal.NewFromInt(offset)))
		bars[i] = model.Candle{
			Time:  now.Add(-time.Duration(i) * time.Hour),
			Open:  p,
			High:  p.Add(step),
			Low:   p.Sub(step),
			Close: p,
		}
	}
	return bars
}

package collector

import (
	"context"

	"StochSentinel/internal/model"
)

// Fetcher defines the interface for fetching candle series.
type Fetcher interface {
	// FetchSeries returns the candles for one symbol/timeframe, most recent
	// first. A returned error means the pair should be skipped for this pass.
	FetchSeries(ctx context.Context, req model.SeriesRequest) (*model.Series, error)
	Name() string
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decision is the outcome of the joint-extreme check.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionNone Decision = "NONE"
)

// IsSignal reports whether the decision should be delivered as an alert.
func (d Decision) IsSignal() bool {
	return d == DecisionBuy || d == DecisionSell
}

// SkipReason explains why a pair produced no decision. Empty means not skipped.
type SkipReason string

const (
	SkipNone               SkipReason = ""
	SkipNoData             SkipReason = "no_data"
	SkipInsufficientData   SkipReason = "insufficient_history"
	SkipUndefinedIndicator SkipReason = "undefined_indicator"
)

// Evaluation is everything learned about one symbol/timeframe pair in a pass.
type Evaluation struct {
	Symbol    string
	Timeframe string
	// CandleTime is the latest candle time shifted into the target timezone.
	CandleTime time.Time
	DateOnly   bool
	Close      decimal.Decimal
	Readings   []Reading
	Decision   Decision
	Skip       SkipReason
}

// Skipped reports whether the pipeline short-circuited.
func (e *Evaluation) Skipped() bool {
	return e.Skip != SkipNone
}

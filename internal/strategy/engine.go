package strategy

import (
	"time"

	"github.com/shopspring/decimal"

	"StochSentinel/internal/calculator"
	"StochSentinel/internal/model"
)

// Params is the read-only evaluation setup shared by every pair in a pass.
type Params struct {
	Periods []int
	Low     decimal.Decimal
	High    decimal.Decimal
	// TimeShift converts provider-local candle times into the alert timezone.
	TimeShift time.Duration
}

// Evaluate maps a set of %K values to a decision. Thresholds are inclusive.
func Evaluate(kValues []decimal.Decimal, low, high decimal.Decimal) model.Decision {
	if len(kValues) == 0 {
		return model.DecisionNone
	}
	allLow, allHigh := true, true
	for _, k := range kValues {
		if k.GreaterThan(low) {
			allLow = false
		}
		if k.LessThan(high) {
			allHigh = false
		}
	}
	switch {
	case allLow:
		return model.DecisionBuy
	case allHigh:
		return model.DecisionSell
	default:
		return model.DecisionNone
	}
}

// Assess runs the per-pair pipeline over a fetched series and stops at the
// first reason to skip. A nil series counts as missing data.
func Assess(series *model.Series, p Params) model.Evaluation {
	ev := model.Evaluation{Decision: model.DecisionNone}
	if series != nil {
		ev.Symbol = series.Symbol
		ev.Timeframe = series.Timeframe
		ev.DateOnly = series.DateOnly
	}

	latest, ok := series.Latest()
	if !ok {
		ev.Skip = model.SkipNoData
		return ev
	}
	if series.Len() < calculator.MaxPeriod(p.Periods) {
		ev.Skip = model.SkipInsufficientData
		return ev
	}

	ev.CandleTime = latest.Time.Add(p.TimeShift)
	ev.Close = latest.Close

	ev.Readings = calculator.ComputeAll(series.Candles, p.Periods)
	if !model.AllDefined(ev.Readings) {
		ev.Skip = model.SkipUndefinedIndicator
		return ev
	}

	ev.Decision = Evaluate(model.Values(ev.Readings), p.Low, p.High)
	return ev
}

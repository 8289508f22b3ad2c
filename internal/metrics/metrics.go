package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch attempt outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeFatal       = "fatal"
)

var (
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stoch_fetch_attempts_total",
		Help: "Provider requests by outcome",
	},
		[]string{"outcome"},
	)
	CredentialsExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stoch_credentials_exhausted_total",
		Help: "Fetches abandoned because every API key hit its rate limit",
	})
	PairsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stoch_pairs_skipped_total",
	},
		[]string{"reason"},
	)
	Signals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stoch_signals_total",
	},
		[]string{"decision"},
	)
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stoch_notify_failures_total",
		Help: "Failed deliveries, counted per destination",
	})
	PercentK = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stoch_percent_k",
		Help: "Last computed %K per pair and lookback period",
	},
		[]string{"symbol", "timeframe", "period"},
	)
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stoch_scan_duration_seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)

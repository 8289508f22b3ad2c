package scanner

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"StochSentinel/internal/collector"
	"StochSentinel/internal/config"
	"StochSentinel/internal/logging"
	"StochSentinel/internal/metrics"
	"StochSentinel/internal/model"
	"StochSentinel/internal/notifier"
	"StochSentinel/internal/recorder"
	"StochSentinel/internal/strategy"
)

// Notifier delivers a formatted alert to every destination.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scanner performs single passes over the timeframe x symbol matrix.
type Scanner struct {
	Fetcher  collector.Fetcher
	Notifier Notifier
	Recorder recorder.Recorder
	Log      *zap.Logger

	symbols    []string
	timeframes []string
	outputSize int
	fetchDelay time.Duration
	params     strategy.Params
}

// New builds a Scanner from the startup configuration. The scan matrix is
// copied so later changes to cfg do not reach a running scanner.
func New(cfg *config.Config, f collector.Fetcher, n Notifier, rec recorder.Recorder, log *zap.Logger) (*Scanner, error) {
	low, high, err := cfg.Thresholds()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scanner{
		Fetcher:    f,
		Notifier:   n,
		Recorder:   rec,
		Log:        logging.OrNop(log),
		symbols:    append([]string(nil), cfg.Scan.Symbols...),
		timeframes: append([]string(nil), cfg.Scan.Timeframes...),
		outputSize: cfg.DataSource.OutputSize,
		fetchDelay: cfg.DataSource.FetchDelay,
		params: strategy.Params{
			Periods:   append([]int(nil), cfg.Scan.Periods...),
			Low:       low,
			High:      high,
			TimeShift: cfg.TimeShift(),
		},
	}, nil
}

// RunOnce processes every pair once, timeframe by timeframe, and never fails:
// problems with one pair are logged and the pass moves on. A cancelled
// context ends the pass before the next pair.
func (s *Scanner) RunOnce(ctx context.Context) *model.ScanSummary {
	sum := &model.ScanSummary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Skipped: make(map[model.SkipReason]int),
	}
	log := s.Log.With(zap.String("run_id", sum.RunID))
	log.Info("scan started",
		zap.Strings("timeframes", s.timeframes), zap.Strings("symbols", s.symbols),
		zap.Ints("periods", s.params.Periods))

	var limiter *rate.Limiter
	if s.fetchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.fetchDelay), 1)
	}

pass:
	for _, tf := range s.timeframes {
		log.Info("checking timeframe", zap.String("timeframe", tf))
		for _, symbol := range s.symbols {
			if ctx.Err() != nil {
				sum.Interrupted = true
				break pass
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					sum.Interrupted = true
					break pass
				}
			}
			sum.Pairs++
			s.scanPair(ctx, log, sum, symbol, tf)
		}
	}

	sum.Finished = time.Now()
	metrics.ScanDuration.Observe(sum.Finished.Sub(sum.Started).Seconds())
	if err := s.Recorder.RecordRun(&recorder.ScanRun{
		RunID:     sum.RunID,
		StartedAt: sum.Started,
		Finished:  sum.Finished,
		Pairs:     sum.Pairs,
		Evaluated: sum.Evaluated,
		Skipped:   sum.SkippedTotal(),
	}); err != nil {
		log.Error("record run", zap.Error(err))
	}
	log.Info("scan finished",
		zap.Int("pairs", sum.Pairs), zap.Int("evaluated", sum.Evaluated),
		zap.Int("skipped", sum.SkippedTotal()), zap.Int("signals", len(sum.Signals)),
		zap.Bool("interrupted", sum.Interrupted), zap.Duration("took", sum.Finished.Sub(sum.Started)))
	return sum
}

func (s *Scanner) scanPair(ctx context.Context, log *zap.Logger, sum *model.ScanSummary, symbol, tf string) {
	log = log.With(zap.String("symbol", symbol), zap.String("timeframe", tf))

	ev := s.Evaluate(ctx, symbol, tf)
	if ev.Fetch != nil {
		sum.FetchErrors++
	}
	if ev.Skipped() {
		sum.Skipped[ev.Skip]++
		metrics.PairsSkipped.WithLabelValues(string(ev.Skip)).Inc()
		logSkip(log, &ev)
		return
	}

	sum.Evaluated++
	for _, r := range ev.Readings {
		metrics.PercentK.WithLabelValues(symbol, tf, strconv.Itoa(r.Period)).Set(r.K.InexactFloat64())
	}
	log.Info("indicator values",
		zap.String("time", notifier.FormatCandleTime(&ev.Evaluation)),
		zap.String("k", notifier.FormatReadings(ev.Readings)),
		zap.String("decision", string(ev.Decision)))
	if err := s.Recorder.RecordReadings(sum.RunID, &ev.Evaluation); err != nil {
		log.Error("record readings", zap.Error(err))
	}

	if !ev.Decision.IsSignal() {
		return
	}
	metrics.Signals.WithLabelValues(string(ev.Decision)).Inc()
	sum.Signals = append(sum.Signals, ev.Evaluation)
	if err := s.Notifier.Notify(ctx, notifier.FormatSignal(&ev.Evaluation)); err != nil {
		sum.NotifyErrors++
		log.Error("signal delivery incomplete", zap.String("decision", string(ev.Decision)), zap.Error(err))
		return
	}
	log.Info("signal sent", zap.String("decision", string(ev.Decision)))
}

// PairResult is an evaluation together with the fetch error, if any, that
// caused it to be skipped.
type PairResult struct {
	model.Evaluation
	Fetch error
}

// Evaluate fetches one pair and runs the assessment pipeline over it. It has
// no side effects beyond the fetch.
func (s *Scanner) Evaluate(ctx context.Context, symbol, tf string) PairResult {
	series, err := s.Fetcher.FetchSeries(ctx, model.SeriesRequest{
		Symbol:     symbol,
		Timeframe:  tf,
		OutputSize: s.outputSize,
	})
	if err != nil {
		series = nil
	}
	ev := strategy.Assess(series, s.params)
	ev.Symbol, ev.Timeframe = symbol, tf
	return PairResult{Evaluation: ev, Fetch: err}
}

func logSkip(log *zap.Logger, ev *PairResult) {
	switch {
	case errors.Is(ev.Fetch, collector.ErrCredentialsExhausted):
		log.Warn("skipping pair: all api keys exhausted")
	case ev.Fetch != nil:
		log.Error("skipping pair: fetch failed", zap.Error(ev.Fetch))
	case ev.Skip == model.SkipUndefinedIndicator:
		log.Info("skipping pair: indicator undefined", zap.String("k", notifier.FormatReadings(ev.Readings)))
	default:
		log.Info("skipping pair", zap.String("reason", string(ev.Skip)))
	}
}

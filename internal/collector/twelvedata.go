package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"StochSentinel/internal/logging"
	"StochSentinel/internal/metrics"
	"StochSentinel/internal/model"
)

const (
	DefaultTwelveDataURL = "https://api.twelvedata.com"

	// codeRateLimited is the provider error code for an exhausted API key.
	codeRateLimited = 429

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var (
	// ErrCredentialsExhausted is returned when every API key was rate limited.
	ErrCredentialsExhausted = errors.New("all api keys exceeded their limits")
	// ErrNoCredentials is returned when the key pool is empty.
	ErrNoCredentials = errors.New("no api keys configured")
)

// TwelveDataFetcher implements Fetcher against the Twelve Data time_series
// endpoint, failing over across API keys on rate limiting.
type TwelveDataFetcher struct {
	BaseURL string
	APIKeys []string
	Client  *http.Client
	Log     *zap.Logger
}

// NewTwelveDataFetcher creates a fetcher with optional proxy support.
func NewTwelveDataFetcher(baseURL string, apiKeys []string, proxyURL string, log *zap.Logger) *TwelveDataFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultTwelveDataURL
	}
	return &TwelveDataFetcher{
		BaseURL: baseURL,
		APIKeys: apiKeys,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Log: logging.OrNop(log),
	}
}

func (f *TwelveDataFetcher) Name() string { return "twelvedata" }

type attemptOutcome int

const (
	attemptOK attemptOutcome = iota
	attemptRateLimited
	attemptFatal
)

func (o attemptOutcome) String() string {
	switch o {
	case attemptOK:
		return metrics.OutcomeOK
	case attemptRateLimited:
		return metrics.OutcomeRateLimited
	default:
		return metrics.OutcomeFatal
	}
}

// attemptResult is what one request with one key produced.
type attemptResult struct {
	outcome attemptOutcome
	series  *model.Series
	err     error
}

// tdValue is one element of the values array. All fields arrive as strings.
type tdValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
}

// FetchSeries tries each key in order. A rate-limited key moves on to the
// next one; any other failure ends the fetch without trying further keys.
func (f *TwelveDataFetcher) FetchSeries(ctx context.Context, req model.SeriesRequest) (*model.Series, error) {
	if len(f.APIKeys) == 0 {
		return nil, ErrNoCredentials
	}
	log := f.Log.With(zap.String("symbol", req.Symbol), zap.String("timeframe", req.Timeframe))

	for i, key := range f.APIKeys {
		res := f.attempt(ctx, req, key)
		metrics.FetchAttempts.WithLabelValues(res.outcome.String()).Inc()

		switch res.outcome {
		case attemptOK:
			log.Debug("series fetched", zap.Int("key", i), zap.Int("candles", res.series.Len()))
			return res.series, nil
		case attemptRateLimited:
			log.Warn("api key rate limit hit, trying next key", zap.Int("key", i), zap.Error(res.err))
			continue
		default:
			log.Error("unexpected api error", zap.Int("key", i), zap.Error(res.err))
			return nil, res.err
		}
	}

	metrics.CredentialsExhausted.Inc()
	log.Warn("all api keys exceeded their limits", zap.Int("keys", len(f.APIKeys)))
	return nil, ErrCredentialsExhausted
}

func (f *TwelveDataFetcher) attempt(ctx context.Context, req model.SeriesRequest, apiKey string) attemptResult {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("interval", req.Timeframe)
	params.Set("outputsize", strconv.Itoa(req.OutputSize))
	params.Set("apikey", apiKey)
	endpoint := f.BaseURL + "/time_series?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return attemptResult{outcome: attemptFatal, err: errors.Wrap(err, "build request")}
	}
	resp, err := f.Client.Do(httpReq)
	if err != nil {
		// the error text carries the url, which carries the key
		return attemptResult{outcome: attemptFatal, err: errors.Errorf("fetch series: %s", redact(err, apiKey))}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptResult{outcome: attemptFatal, err: errors.Wrap(err, "read body")}
	}
	return classify(resp.StatusCode, body, req)
}

// classify decides the outcome of one response. Success is the presence of
// a values field, not the HTTP status.
func classify(status int, body []byte, req model.SeriesRequest) attemptResult {
	js, err := simplejson.NewJson(body)
	if err != nil {
		if status == http.StatusTooManyRequests {
			return attemptResult{outcome: attemptRateLimited, err: errors.Errorf("status %d", status)}
		}
		return attemptResult{outcome: attemptFatal, err: errors.Wrapf(err, "decode body (status %d)", status)}
	}

	if _, ok := js.CheckGet("values"); ok && status == http.StatusOK {
		var payload struct {
			Values []tdValue `json:"values"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return attemptResult{outcome: attemptFatal, err: errors.Wrap(err, "decode values")}
		}
		series, err := toSeries(req, payload.Values)
		if err != nil {
			return attemptResult{outcome: attemptFatal, err: err}
		}
		return attemptResult{outcome: attemptOK, series: series}
	}

	code, _ := js.Get("code").Int()
	message, _ := js.Get("message").String()
	if code == codeRateLimited || status == http.StatusTooManyRequests {
		return attemptResult{outcome: attemptRateLimited, err: errors.Errorf("code %d: %s", code, message)}
	}
	if code != 0 {
		return attemptResult{outcome: attemptFatal, err: errors.Errorf("api error code %d: %s", code, message)}
	}
	return attemptResult{outcome: attemptFatal, err: errors.Errorf("no values in response (status %d)", status)}
}

func toSeries(req model.SeriesRequest, values []tdValue) (*model.Series, error) {
	series := &model.Series{
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe,
		Candles:   make([]model.Candle, 0, len(values)),
	}
	for i, v := range values {
		ts, dateOnly, err := parseDatetime(v.Datetime)
		if err != nil {
			return nil, errors.Wrapf(err, "candle %d", i)
		}
		if i == 0 {
			series.DateOnly = dateOnly
		}
		c := model.Candle{Time: ts}
		fields := []struct {
			dst *decimal.Decimal
			raw string
		}{{&c.Open, v.Open}, {&c.High, v.High}, {&c.Low, v.Low}, {&c.Close, v.Close}}
		for _, fld := range fields {
			d, err := decimal.NewFromString(fld.raw)
			if err != nil {
				return nil, errors.Wrapf(err, "candle %d (%s)", i, v.Datetime)
			}
			*fld.dst = d
		}
		series.Candles = append(series.Candles, c)
	}
	return series, nil
}

// parseDatetime accepts the intraday layout and falls back to the date-only
// layout used for daily and longer intervals.
func parseDatetime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(layoutDateTime, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(layoutDate, s)
	if err != nil {
		return time.Time{}, false, errors.Errorf("unparseable datetime %q", s)
	}
	return t, true, nil
}

func redact(err error, secret string) string {
	msg := err.Error()
	if secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, secret, "***")
}

package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"StochSentinel/internal/model"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// FormatSignal formats a BUY or SELL evaluation into a Telegram message.
func FormatSignal(ev *model.Evaluation) string {
	var b strings.Builder

	icon, side := "🟢", "BUY"
	if ev.Decision == model.DecisionSell {
		icon, side = "🔴", "SELL"
	}
	b.WriteString(fmt.Sprintf("%s <b>Stoch GILA %s Opportunity</b> 🚨\n", icon, side))
	b.WriteString(fmt.Sprintf("%s | %s\n", html.EscapeString(ev.Symbol), html.EscapeString(ev.Timeframe)))
	b.WriteString(fmt.Sprintf("Time: %s\n", FormatCandleTime(ev)))
	b.WriteString(FormatReadings(ev.Readings) + "\n")
	b.WriteString(fmt.Sprintf("Price: %s", ev.Close.String()))

	return b.String()
}

// FormatReadings renders readings as "%K30=1.5, %K65=0, %K100=0".
func FormatReadings(readings []model.Reading) string {
	parts := make([]string, 0, len(readings))
	for _, r := range readings {
		v := "n/a"
		if r.Defined {
			v = r.K.String()
		}
		parts = append(parts, fmt.Sprintf("%%K%d=%s", r.Period, v))
	}
	return strings.Join(parts, ", ")
}

// FormatCandleTime prints the shifted candle time, date only for daily and
// longer series.
func FormatCandleTime(ev *model.Evaluation) string {
	if ev.DateOnly {
		return ev.CandleTime.Format(layoutDate)
	}
	return ev.CandleTime.Format(layoutDateTime)
}

// FormatSummary formats the outcome of a scan pass.
func FormatSummary(s *model.ScanSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Stoch scan</b> | %s\n\n", s.Started.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Pairs: %d\n", s.Pairs))
	b.WriteString(fmt.Sprintf("Evaluated: %d\n", s.Evaluated))
	b.WriteString(fmt.Sprintf("Skipped: %d\n", s.SkippedTotal()))

	reasons := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		b.WriteString(fmt.Sprintf("  %s: %d\n", r, s.Skipped[model.SkipReason(r)]))
	}

	b.WriteString(fmt.Sprintf("Signals: %d\n", len(s.Signals)))
	for _, ev := range s.Signals {
		b.WriteString(fmt.Sprintf("  %s %s | %s\n", ev.Decision, html.EscapeString(ev.Symbol), ev.Timeframe))
	}
	if s.Interrupted {
		b.WriteString("\n⚠️ pass interrupted")
	}
	if !s.Finished.IsZero() {
		b.WriteString(fmt.Sprintf("\nDuration: %s", s.Finished.Sub(s.Started).Round(time.Second)))
	}
	return b.String()
}

package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Validate checks that all required fields are set and the scan matrix is
// consistent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if len(c.Telegram.ChatIDs) == 0 {
		return fmt.Errorf("telegram.chat_ids is required")
	}
	if len(c.DataSource.APIKeys) == 0 {
		return fmt.Errorf("data_source.api_keys needs at least one key")
	}
	return c.ValidateScan()
}

// ValidateScan checks everything except credentials. Dry runs need nothing
// more.
func (c *Config) ValidateScan() error {
	if c.DataSource.FetchDelay < 0 {
		return fmt.Errorf("data_source.fetch_delay must not be negative")
	}
	if len(c.Scan.Symbols) == 0 {
		return fmt.Errorf("scan.symbols is required")
	}
	if len(c.Scan.Timeframes) == 0 {
		return fmt.Errorf("scan.timeframes is required")
	}
	for _, tf := range c.Scan.Timeframes {
		if !knownInterval(tf) {
			return fmt.Errorf("scan.timeframes: unsupported interval %q", tf)
		}
	}

	if len(c.Scan.Periods) == 0 {
		return fmt.Errorf("scan.periods is required")
	}
	seen := make(map[int]bool, len(c.Scan.Periods))
	maxPeriod := 0
	for _, p := range c.Scan.Periods {
		if p <= 0 {
			return fmt.Errorf("scan.periods: %d must be positive", p)
		}
		if seen[p] {
			return fmt.Errorf("scan.periods: %d listed twice", p)
		}
		seen[p] = true
		if p > maxPeriod {
			maxPeriod = p
		}
	}
	if c.DataSource.OutputSize < maxPeriod {
		return fmt.Errorf("data_source.output_size %d is below the largest period %d", c.DataSource.OutputSize, maxPeriod)
	}
	if c.DataSource.OutputSize > MaxOutputSize {
		return fmt.Errorf("data_source.output_size %d exceeds provider limit %d", c.DataSource.OutputSize, MaxOutputSize)
	}

	if _, _, err := c.Thresholds(); err != nil {
		return err
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	return nil
}

// Thresholds parses the low/high thresholds and checks 0 <= low < high <= 100.
func (c *Config) Thresholds() (low, high decimal.Decimal, err error) {
	low, err = decimal.NewFromString(c.Scan.ThresholdLow)
	if err != nil {
		return low, high, fmt.Errorf("scan.threshold_low: %w", err)
	}
	high, err = decimal.NewFromString(c.Scan.ThresholdHigh)
	if err != nil {
		return low, high, fmt.Errorf("scan.threshold_high: %w", err)
	}
	if low.IsNegative() || high.GreaterThan(decimal.NewFromInt(100)) || !low.LessThan(high) {
		return low, high, fmt.Errorf("thresholds must satisfy 0 <= low < high <= 100, got %s/%s", low, high)
	}
	return low, high, nil
}

func knownInterval(tf string) bool {
	for _, iv := range Intervals {
		if iv == tf {
			return true
		}
	}
	return false
}

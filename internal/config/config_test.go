package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_IDS", "TWELVE_BASE_URL", "TWELVE_API_KEYS",
		"OUTPUT_SIZE", "FETCH_DELAY", "SYMBOLS", "TIMEFRAMES", "K_PERIODS",
		"THRESHOLD_LOW", "THRESHOLD_HIGH", "TIME_SHIFT_HOURS", "SCHEDULE_CRON",
		"SQLITE_PATH", "METRICS_ADDR", "LOG_LEVEL", "LOG_FILE", "HTTPS_PROXY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func validConfig(t *testing.T) *Config {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_IDS", "100")
	t.Setenv("TWELVE_API_KEYS", "k1")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := validConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if got := strings.Join(cfg.Scan.Symbols, ","); got != "EUR/JPY,GBP/USD,CHF/JPY,EUR/USD" {
		t.Errorf("unexpected default symbols %s", got)
	}
	if got := strings.Join(cfg.Scan.Timeframes, ","); got != "15min,1h,4h,1day" {
		t.Errorf("unexpected default timeframes %s", got)
	}
	if len(cfg.Scan.Periods) != 3 || cfg.Scan.Periods[2] != 100 {
		t.Errorf("unexpected default periods %v", cfg.Scan.Periods)
	}
	low, high, err := cfg.Thresholds()
	if err != nil || low.String() != "3" || high.String() != "97" {
		t.Errorf("unexpected thresholds %s/%s (%v)", low, high, err)
	}
	if cfg.TimeShift() != -7*time.Hour {
		t.Errorf("expected -7h shift, got %v", cfg.TimeShift())
	}
	if cfg.DataSource.OutputSize != 150 {
		t.Errorf("expected output size 150, got %d", cfg.DataSource.OutputSize)
	}
}

func TestLoad_YAMLThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
telegram:
  bot_token: yaml-token
  chat_ids: ["1", "2"]
data_source:
  api_keys: [a, b]
  output_size: 300
  fetch_delay: 8s
scan:
  symbols: [XAU/USD]
  timeframes: [1h]
  periods: [14, 200]
  threshold_low: "5"
  threshold_high: "95"
  time_shift_hours: 0
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("K_PERIODS", "30, 65")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("env should override yaml, got %s", cfg.Telegram.BotToken)
	}
	if len(cfg.Telegram.ChatIDs) != 2 || cfg.DataSource.APIKeys[1] != "b" {
		t.Errorf("yaml lists not loaded: %+v %+v", cfg.Telegram.ChatIDs, cfg.DataSource.APIKeys)
	}
	if cfg.DataSource.FetchDelay != 8*time.Second {
		t.Errorf("expected 8s fetch delay, got %v", cfg.DataSource.FetchDelay)
	}
	if len(cfg.Scan.Periods) != 2 || cfg.Scan.Periods[1] != 65 {
		t.Errorf("expected env periods [30 65], got %v", cfg.Scan.Periods)
	}
	if cfg.TimeShift() != 0 {
		t.Errorf("explicit zero shift must not be replaced by the default, got %v", cfg.TimeShift())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "TELEGRAM_BOT_TOKEN=file-token\nTWELVE_API_KEYS=k1,k2\nTELEGRAM_CHAT_IDS=42\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TWELVE_API_KEYS", "real")

	cfg, err := Load(filepath.Join(dir, "none.yaml"), envPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.BotToken != "file-token" {
		t.Errorf("expected token from .env, got %q", cfg.Telegram.BotToken)
	}
	if len(cfg.DataSource.APIKeys) != 1 || cfg.DataSource.APIKeys[0] != "real" {
		t.Errorf("real environment should win over .env, got %v", cfg.DataSource.APIKeys)
	}

	if _, err := Load(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}

func TestLoad_BadEnvValues(t *testing.T) {
	for k, v := range map[string]string{
		"OUTPUT_SIZE":      "lots",
		"FETCH_DELAY":      "soon",
		"K_PERIODS":        "30,x",
		"TIME_SHIFT_HOURS": "-7h",
	} {
		clearEnv(t)
		t.Setenv(k, v)
		if _, err := Load(filepath.Join(t.TempDir(), "none.yaml"), ""); err == nil {
			t.Errorf("%s=%s: expected an error", k, v)
		}
	}
}

func TestValidate_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }, "bot_token"},
		{"missing chats", func(c *Config) { c.Telegram.ChatIDs = nil }, "chat_ids"},
		{"missing keys", func(c *Config) { c.DataSource.APIKeys = nil }, "api_keys"},
		{"unknown interval", func(c *Config) { c.Scan.Timeframes = []string{"3h"} }, "unsupported interval"},
		{"zero period", func(c *Config) { c.Scan.Periods = []int{0, 30} }, "must be positive"},
		{"duplicate period", func(c *Config) { c.Scan.Periods = []int{30, 30} }, "listed twice"},
		{"output too small", func(c *Config) { c.DataSource.OutputSize = 99 }, "below the largest period"},
		{"output too large", func(c *Config) { c.DataSource.OutputSize = 6000 }, "exceeds provider limit"},
		{"inverted thresholds", func(c *Config) { c.Scan.ThresholdLow, c.Scan.ThresholdHigh = "97", "3" }, "thresholds"},
		{"threshold above 100", func(c *Config) { c.Scan.ThresholdHigh = "101" }, "thresholds"},
		{"bad threshold", func(c *Config) { c.Scan.ThresholdLow = "three" }, "threshold_low"},
		{"negative delay", func(c *Config) { c.DataSource.FetchDelay = -time.Second }, "fetch_delay"},
		{"bad cron", func(c *Config) { c.Schedule.Cron = "every hour" }, "schedule.cron"},
	}
	for _, tt := range tests {
		cfg := validConfig(t)
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error mentioning %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestValidateScan_IgnoresCredentials(t *testing.T) {
	cfg := validConfig(t)
	cfg.Telegram.BotToken = ""
	cfg.DataSource.APIKeys = nil
	if err := cfg.ValidateScan(); err != nil {
		t.Errorf("expected scan settings alone to validate, got %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to still require credentials")
	}
}

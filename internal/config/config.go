package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Intervals lists the timeframes the provider accepts.
var Intervals = []string{"1min", "5min", "15min", "30min", "45min", "1h", "2h", "4h", "8h", "1day", "1week", "1month"}

// MaxOutputSize is the largest series the provider returns in one request.
const MaxOutputSize = 5000

// Config holds all application configuration. It is built once at startup
// and treated as read-only afterwards.
type Config struct {
	Telegram struct {
		BotToken string   `yaml:"bot_token"`
		ChatIDs  []string `yaml:"chat_ids"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL    string        `yaml:"base_url"`
		APIKeys    []string      `yaml:"api_keys"`
		OutputSize int           `yaml:"output_size"`
		FetchDelay time.Duration `yaml:"fetch_delay"`
	} `yaml:"data_source"`
	Scan struct {
		Symbols    []string `yaml:"symbols"`
		Timeframes []string `yaml:"timeframes"`
		Periods    []int    `yaml:"periods"`
		// Thresholds are kept as strings so they parse straight into decimals.
		ThresholdLow   string `yaml:"threshold_low"`
		ThresholdHigh  string `yaml:"threshold_high"`
		TimeShiftHours *int   `yaml:"time_shift_hours"`
	} `yaml:"scan"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file and an optional YAML file, then applies
// environment variable overrides and defaults.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		// real environment variables win over the file
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_IDS"); v != "" {
		c.Telegram.ChatIDs = splitList(v)
	}
	if v := os.Getenv("TWELVE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("TWELVE_API_KEYS"); v != "" {
		c.DataSource.APIKeys = splitList(v)
	}
	if v := os.Getenv("OUTPUT_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OUTPUT_SIZE: %w", err)
		}
		c.DataSource.OutputSize = n
	}
	if v := os.Getenv("FETCH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FETCH_DELAY: %w", err)
		}
		c.DataSource.FetchDelay = d
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Scan.Symbols = splitList(v)
	}
	if v := os.Getenv("TIMEFRAMES"); v != "" {
		c.Scan.Timeframes = splitList(v)
	}
	if v := os.Getenv("K_PERIODS"); v != "" {
		periods := make([]int, 0, 3)
		for _, s := range splitList(v) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("K_PERIODS: %w", err)
			}
			periods = append(periods, n)
		}
		c.Scan.Periods = periods
	}
	if v := os.Getenv("THRESHOLD_LOW"); v != "" {
		c.Scan.ThresholdLow = v
	}
	if v := os.Getenv("THRESHOLD_HIGH"); v != "" {
		c.Scan.ThresholdHigh = v
	}
	if v := os.Getenv("TIME_SHIFT_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIME_SHIFT_HOURS: %w", err)
		}
		c.Scan.TimeShiftHours = &n
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Scan.Symbols) == 0 {
		c.Scan.Symbols = []string{"EUR/JPY", "GBP/USD", "CHF/JPY", "EUR/USD"}
	}
	if len(c.Scan.Timeframes) == 0 {
		c.Scan.Timeframes = []string{"15min", "1h", "4h", "1day"}
	}
	if len(c.Scan.Periods) == 0 {
		c.Scan.Periods = []int{30, 65, 100}
	}
	if c.Scan.ThresholdLow == "" {
		c.Scan.ThresholdLow = "3"
	}
	if c.Scan.ThresholdHigh == "" {
		c.Scan.ThresholdHigh = "97"
	}
	if c.Scan.TimeShiftHours == nil {
		shift := -7
		c.Scan.TimeShiftHours = &shift
	}
	if c.DataSource.OutputSize == 0 {
		c.DataSource.OutputSize = 150
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 1 * * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TimeShift returns the configured candle time shift.
func (c *Config) TimeShift() time.Duration {
	if c.Scan.TimeShiftHours == nil {
		return 0
	}
	return time.Duration(*c.Scan.TimeShiftHours) * time.Hour
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

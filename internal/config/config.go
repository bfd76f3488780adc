package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultTickers is the watch list used when none is configured.
var DefaultTickers = []string{
	"NVDA",  // NVIDIA
	"TSLA",  // Tesla
	"MSFT",  // Microsoft
	"GOOGL", // Alphabet
	"AMZN",  // Amazon
	"AAPL",  // Apple
	"AMD",   // Advanced Micro Devices
	"PLTR",  // Palantir Technologies
	"META",  // Meta Platforms
	"COST",  // Costco Wholesale
}

// Market data providers.
const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

// Config holds all configuration for the stock tracker.
type Config struct {
	// Watch list and polling cadence
	Tickers  []string      `mapstructure:"tickers"`
	Interval time.Duration `mapstructure:"interval"`

	// Market data API
	Provider            string        `mapstructure:"provider"`
	YahooBaseURL        string        `mapstructure:"yahoo_base_url"`
	AlphavantageAPIKey  string        `mapstructure:"alphavantage_api_key"`
	AlphavantageBaseURL string        `mapstructure:"alphavantage_base_url"`
	RequestsPerSecond   float64       `mapstructure:"requests_per_second"`
	RetryCount          int           `mapstructure:"retry_count"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`

	// Output
	LogLevel    string `mapstructure:"log_level"`
	ClearScreen bool   `mapstructure:"clear_screen"`

	// Optional Redis mirror of each cycle's table; disabled when RedisAddr is empty
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl"`
}

// Load reads configuration from a .env file, environment variables and an
// optional config file. Environment variables take precedence over the config
// file, which takes precedence over defaults.
//
// Recognised environment variables:
//   - TRACKER_TICKERS (comma separated)
//   - TRACKER_INTERVAL (e.g. 10s)
//   - TRACKER_PROVIDER (yahoo or alphavantage)
//   - YAHOO_BASE_URL
//   - ALPHAVANTAGE_API_KEY (required for the alphavantage provider)
//   - ALPHAVANTAGE_BASE_URL
//   - TRACKER_REQUESTS_PER_SECOND
//   - TRACKER_RETRY_COUNT
//   - TRACKER_REQUEST_TIMEOUT
//   - TRACKER_LOG_LEVEL (debug, info, warn, error)
//   - TRACKER_CLEAR_SCREEN
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_TTL
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("tickers", DefaultTickers)
	v.SetDefault("interval", 10*time.Second)
	v.SetDefault("provider", ProviderYahoo)
	v.SetDefault("yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("requests_per_second", 5.0)
	v.SetDefault("retry_count", 0)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("log_level", "warn")
	v.SetDefault("clear_screen", true)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_ttl", time.Minute)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stocktracker")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.BindEnv("tickers", "TRACKER_TICKERS")
	v.BindEnv("interval", "TRACKER_INTERVAL")
	v.BindEnv("provider", "TRACKER_PROVIDER")
	v.BindEnv("yahoo_base_url", "YAHOO_BASE_URL")
	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")
	v.BindEnv("alphavantage_base_url", "ALPHAVANTAGE_BASE_URL")
	v.BindEnv("requests_per_second", "TRACKER_REQUESTS_PER_SECOND")
	v.BindEnv("retry_count", "TRACKER_RETRY_COUNT")
	v.BindEnv("request_timeout", "TRACKER_REQUEST_TIMEOUT")
	v.BindEnv("log_level", "TRACKER_LOG_LEVEL")
	v.BindEnv("clear_screen", "TRACKER_CLEAR_SCREEN")
	v.BindEnv("redis_addr", "REDIS_ADDR")
	v.BindEnv("redis_password", "REDIS_PASSWORD")
	v.BindEnv("redis_db", "REDIS_DB")
	v.BindEnv("redis_ttl", "REDIS_TTL")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Tickers = normalizeTickers(config.Tickers)
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalizeTickers splits comma-joined entries (as they arrive from the
// environment), trims whitespace and upper-cases each symbol.
func normalizeTickers(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, t := range strings.Split(entry, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string
	if len(c.Tickers) == 0 {
		problems = append(problems, "at least one ticker is required")
	}
	if c.Interval <= 0 {
		problems = append(problems, "interval must be positive")
	}
	switch c.Provider {
	case ProviderYahoo:
		if c.YahooBaseURL == "" {
			problems = append(problems, "yahoo_base_url is required")
		}
	case ProviderAlphaVantage:
		if c.AlphavantageAPIKey == "" {
			problems = append(problems, "ALPHAVANTAGE_API_KEY is required for the alphavantage provider")
		}
		if c.AlphavantageBaseURL == "" {
			problems = append(problems, "alphavantage_base_url is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown provider %q", c.Provider))
	}
	if c.RequestsPerSecond <= 0 {
		problems = append(problems, "requests_per_second must be positive")
	}
	if c.RetryCount < 0 {
		problems = append(problems, "retry_count must not be negative")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return level, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PaperBaseURL is the Alpaca paper-trading endpoint, used unless overridden.
const PaperBaseURL = "https://paper-api.alpaca.markets"

// Config holds all application configuration.
type Config struct {
	Alpaca struct {
		KeyID     string `yaml:"key_id"`
		SecretKey string `yaml:"secret_key"`
		BaseURL   string `yaml:"base_url"`
		DataFeed  string `yaml:"data_feed"`
	} `yaml:"alpaca"`
	Trading struct {
		PerSymbolCap     float64 `yaml:"per_symbol_cap"`
		StopLimitPct     float64 `yaml:"stop_limit_pct"`
		MinEdgePct       float64 `yaml:"min_edge_pct"`
		MinEdgeCents     int     `yaml:"min_edge_cents"`
		CycleInterval    string  `yaml:"cycle_interval"`
		IdlePollInterval string  `yaml:"idle_poll_interval"`
		OpenBoundaryUTC  string  `yaml:"open_boundary_utc"`
		CloseBoundaryUTC string  `yaml:"close_boundary_utc"`
	} `yaml:"trading"`
	Universe struct {
		TickerFile     string `yaml:"ticker_file"`
		CandidatesFile string `yaml:"candidates_file"`
	} `yaml:"universe"`
	Schedule struct {
		RescanCron string `yaml:"rescan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`

	// Parsed during Validate.
	CycleEvery    time.Duration `yaml:"-"`
	IdlePollEvery time.Duration `yaml:"-"`
	OpenBoundary  time.Duration `yaml:"-"` // since UTC midnight
	CloseBoundary time.Duration `yaml:"-"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.KeyID = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.SecretKey = v
	}
	if v := os.Getenv("APCA_API_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TICKER_FILE"); v != "" {
		cfg.Universe.TickerFile = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Alpaca.BaseURL == "" {
		cfg.Alpaca.BaseURL = PaperBaseURL
	}
	if cfg.Alpaca.DataFeed == "" {
		cfg.Alpaca.DataFeed = "iex"
	}
	if cfg.Trading.PerSymbolCap == 0 {
		cfg.Trading.PerSymbolCap = 5000
	}
	if cfg.Trading.StopLimitPct == 0 {
		cfg.Trading.StopLimitPct = 0.5
	}
	if cfg.Trading.MinEdgePct == 0 {
		cfg.Trading.MinEdgePct = 0.1
	}
	if cfg.Trading.MinEdgeCents == 0 {
		cfg.Trading.MinEdgeCents = 1
	}
	if cfg.Trading.CycleInterval == "" {
		cfg.Trading.CycleInterval = "5m"
	}
	if cfg.Trading.IdlePollInterval == "" {
		cfg.Trading.IdlePollInterval = "60s"
	}
	if cfg.Trading.OpenBoundaryUTC == "" {
		cfg.Trading.OpenBoundaryUTC = "13:35"
	}
	if cfg.Trading.CloseBoundaryUTC == "" {
		cfg.Trading.CloseBoundaryUTC = "19:30"
	}
	if cfg.Universe.TickerFile == "" {
		cfg.Universe.TickerFile = "data/full_ticker_list.csv"
	}
	if cfg.Universe.CandidatesFile == "" {
		cfg.Universe.CandidatesFile = "data/ticker_list.csv"
	}
	if cfg.Schedule.RescanCron == "" {
		cfg.Schedule.RescanCron = "0 30 17 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/scalper.db"
	}

	return cfg, nil
}

// Validate checks required fields and parses derived values.
// Any failure here is a startup configuration error and is not recoverable.
func (c *Config) Validate() error {
	if c.Alpaca.KeyID == "" {
		return fmt.Errorf("alpaca.key_id is required")
	}
	if c.Alpaca.SecretKey == "" {
		return fmt.Errorf("alpaca.secret_key is required")
	}
	if c.Trading.PerSymbolCap <= 0 {
		return fmt.Errorf("trading.per_symbol_cap must be positive")
	}
	if c.Universe.TickerFile == "" {
		return fmt.Errorf("universe.ticker_file is required")
	}

	var err error
	if c.CycleEvery, err = time.ParseDuration(c.Trading.CycleInterval); err != nil {
		return fmt.Errorf("trading.cycle_interval: %w", err)
	}
	if c.IdlePollEvery, err = time.ParseDuration(c.Trading.IdlePollInterval); err != nil {
		return fmt.Errorf("trading.idle_poll_interval: %w", err)
	}
	if c.OpenBoundary, err = parseBoundary(c.Trading.OpenBoundaryUTC); err != nil {
		return fmt.Errorf("trading.open_boundary_utc: %w", err)
	}
	if c.CloseBoundary, err = parseBoundary(c.Trading.CloseBoundaryUTC); err != nil {
		return fmt.Errorf("trading.close_boundary_utc: %w", err)
	}
	if c.OpenBoundary >= c.CloseBoundary {
		return fmt.Errorf("open boundary %s must precede close boundary %s",
			c.Trading.OpenBoundaryUTC, c.Trading.CloseBoundaryUTC)
	}

	return ValidateResolutionTable()
}

// parseBoundary parses an "HH:MM" wall-clock boundary into an offset from UTC midnight.
func parseBoundary(s string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
